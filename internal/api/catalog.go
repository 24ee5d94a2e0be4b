package api

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/NV18Codes/khaddar-storefront/internal/domain"
)

// fallbackCategories keeps the navigation usable when the catalog API is
// down. The category fetch is the one read that must never block a page.
var fallbackCategories = []domain.Category{
	{Name: "Kurtas", Slug: "kurtas"},
	{Name: "Shirts", Slug: "shirts"},
	{Name: "Co-ords", Slug: "co-ords"},
	{Name: "Dupattas", Slug: "dupattas"},
	{Name: "Sarees", Slug: "sarees"},
}

// CatalogClient talks to /products and /categories.
type CatalogClient struct {
	c       *Client
	breaker *gobreaker.CircuitBreaker[[]domain.Category]
	group   singleflight.Group
	log     *zap.Logger
}

func NewCatalogClient(c *Client, log *zap.Logger) *CatalogClient {
	if log == nil {
		log = zap.NewNop()
	}
	breaker := gobreaker.NewCircuitBreaker[[]domain.Category](gobreaker.Settings{
		Name:    "categories",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})
	return &CatalogClient{c: c, breaker: breaker, log: log}
}

// Products lists the catalog, optionally filtered by gender and category.
func (p *CatalogClient) Products(ctx context.Context, gender, category string) ([]domain.Product, error) {
	query := url.Values{}
	if gender != "" {
		query.Set("gender", gender)
	}
	if category != "" {
		query.Set("category", category)
	}

	var raw json.RawMessage
	if err := p.c.get(ctx, "/products", query, &raw); err != nil {
		return nil, err
	}
	return decodeList[domain.Product](raw, "products", "items")
}

func (p *CatalogClient) ProductBySlug(ctx context.Context, slug string) (domain.Product, error) {
	var raw json.RawMessage
	if err := p.c.get(ctx, "/products/"+url.PathEscape(slug), nil, &raw); err != nil {
		return domain.Product{}, err
	}
	return decodeObject[domain.Product](raw, "product")
}

// Categories never fails: on any error it degrades to the predefined list.
// Concurrent callers for the same gender share one in-flight fetch, and a
// circuit breaker keeps a dead catalog API from being hammered on every
// page render.
func (p *CatalogClient) Categories(ctx context.Context, gender string) []domain.Category {
	v, err, _ := p.group.Do("categories:"+gender, func() (interface{}, error) {
		return p.breaker.Execute(func() ([]domain.Category, error) {
			return p.fetchCategories(ctx, gender)
		})
	})
	if err != nil {
		p.log.Warn("category fetch failed, using fallback list",
			zap.String("gender", gender), zap.Error(err))
		return fallbackCategories
	}
	cats := v.([]domain.Category)
	if len(cats) == 0 {
		return fallbackCategories
	}
	return cats
}

func (p *CatalogClient) fetchCategories(ctx context.Context, gender string) ([]domain.Category, error) {
	query := url.Values{}
	if gender != "" {
		query.Set("gender", gender)
	}
	var raw json.RawMessage
	if err := p.c.get(ctx, "/categories", query, &raw); err != nil {
		return nil, err
	}
	return decodeList[domain.Category](raw, "categories")
}
