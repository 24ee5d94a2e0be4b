package domain

type Product struct {
	ID          string   `json:"id"`
	Slug        string   `json:"slug"`
	Name        string   `json:"name"`
	Price       Price    `json:"price"`
	Gender      string   `json:"gender"`
	Category    string   `json:"category"`
	Sizes       []string `json:"sizes,omitempty"`
	Colors      []string `json:"colors,omitempty"`
	Images      []string `json:"images,omitempty"`
	Description string   `json:"description,omitempty"`
	InStock     bool     `json:"in_stock"`
}

type Category struct {
	Name   string `json:"name"`
	Slug   string `json:"slug"`
	Gender string `json:"gender,omitempty"`
}
