package api

import (
	"context"
	"encoding/json"

	"github.com/NV18Codes/khaddar-storefront/internal/domain"
)

// AdminClient talks to the /admin endpoints. It is built on a base client
// whose token source yields the admin token.
type AdminClient struct {
	c *Client
}

func NewAdminClient(c *Client) *AdminClient {
	return &AdminClient{c: c}
}

type DashboardSummary struct {
	TotalOrders    int     `json:"total_orders"`
	TotalRevenue   float64 `json:"total_revenue"`
	TotalProducts  int     `json:"total_products"`
	TotalCustomers int     `json:"total_customers"`
}

type RevenuePoint struct {
	Period  string  `json:"period"`
	Revenue float64 `json:"revenue"`
}

func (a *AdminClient) AllOrders(ctx context.Context) ([]domain.Order, error) {
	var raw json.RawMessage
	if err := a.c.get(ctx, "/admin/orders/all", nil, &raw); err != nil {
		return nil, err
	}
	return decodeList[domain.Order](raw, "orders")
}

func (a *AdminClient) DashboardSummary(ctx context.Context) (DashboardSummary, error) {
	var raw json.RawMessage
	if err := a.c.get(ctx, "/admin/dashboard/summary", nil, &raw); err != nil {
		return DashboardSummary{}, err
	}
	return decodeObject[DashboardSummary](raw, "summary")
}

// DashboardComprehensive is passed through untyped: the payload is a grab bag
// assembled server-side for one admin view, and the storefront does not
// interpret it.
func (a *AdminClient) DashboardComprehensive(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := a.c.get(ctx, "/admin/dashboard/comprehensive", nil, &raw); err != nil {
		return nil, err
	}
	return unwrapData(raw), nil
}

func (a *AdminClient) RecentOrders(ctx context.Context) ([]domain.Order, error) {
	var raw json.RawMessage
	if err := a.c.get(ctx, "/admin/dashboard/recent-orders", nil, &raw); err != nil {
		return nil, err
	}
	return decodeList[domain.Order](raw, "orders")
}

func (a *AdminClient) RevenueAnalytics(ctx context.Context) ([]RevenuePoint, error) {
	var raw json.RawMessage
	if err := a.c.get(ctx, "/admin/dashboard/revenue-analytics", nil, &raw); err != nil {
		return nil, err
	}
	return decodeList[RevenuePoint](raw, "analytics", "revenue")
}
