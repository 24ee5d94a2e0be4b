package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// ShippingDetails is the address block the shopper fills in at checkout.
type ShippingDetails struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
	Country string `json:"country"`
}

type OrderItem struct {
	ProductID string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Size      string  `json:"size"`
	Color     string  `json:"color"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image"`
}

// OrderDraft is the client-side order built at checkout submission time:
// shipping details plus a snapshot of the cart with computed totals.
type OrderDraft struct {
	Shipping       ShippingDetails `json:"shipping"`
	Items          []OrderItem     `json:"items"`
	Subtotal       float64         `json:"subtotal"`
	Total          float64         `json:"total"`
	IdempotencyKey string          `json:"idempotency_key"`
}

// NewOrderDraft snapshots the cart into an order draft. Total always equals
// Subtotal.
func NewOrderDraft(cart Cart, shipping ShippingDetails, idempotencyKey string) OrderDraft {
	items := make([]OrderItem, 0, len(cart.Items))
	for _, it := range cart.Items {
		items = append(items, OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     float64(it.Price),
			Size:      it.Size,
			Color:     it.Color,
			Quantity:  it.Quantity,
			Image:     it.Image,
		})
	}
	subtotal := cart.Subtotal()
	return OrderDraft{
		Shipping:       shipping,
		Items:          items,
		Subtotal:       subtotal,
		Total:          subtotal,
		IdempotencyKey: idempotencyKey,
	}
}

// Order is an order record as the API reports it.
type Order struct {
	ID        string      `json:"id"`
	Status    OrderStatus `json:"status"`
	Amount    float64     `json:"amount"`
	Email     string      `json:"email"`
	Items     []OrderItem `json:"items"`
	CreatedAt time.Time   `json:"created_at"`
}
