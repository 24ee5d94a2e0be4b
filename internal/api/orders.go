package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/NV18Codes/khaddar-storefront/internal/domain"
)

// IdempotencyKeyHeader carries the client-generated token the server uses to
// deduplicate order creation on retries.
const IdempotencyKeyHeader = "X-Idempotency-Key"

// OrdersClient talks to the /orders endpoints.
type OrdersClient struct {
	c *Client
}

func NewOrdersClient(c *Client) *OrdersClient {
	return &OrdersClient{c: c}
}

// CreateOrderResult is the normalized create-order response.
type CreateOrderResult struct {
	OrderID string
	Amount  float64
}

// createOrderEnvelope tolerates the id/amount field names the order API has
// used over time.
type createOrderEnvelope struct {
	ID      string  `json:"id"`
	OrderID string  `json:"orderId"`
	Amount  float64 `json:"amount"`
	Total   float64 `json:"total"`
}

// Create posts the order draft. The draft's idempotency key travels both in
// the body and as a header so the server can deduplicate retried attempts.
func (o *OrdersClient) Create(ctx context.Context, draft domain.OrderDraft) (CreateOrderResult, error) {
	header := http.Header{}
	if draft.IdempotencyKey != "" {
		header.Set(IdempotencyKeyHeader, draft.IdempotencyKey)
	}

	var raw json.RawMessage
	if err := o.c.post(ctx, "/orders", header, draft, &raw); err != nil {
		return CreateOrderResult{}, err
	}

	env, err := decodeObject[createOrderEnvelope](raw, "order")
	if err != nil {
		return CreateOrderResult{}, err
	}
	result := CreateOrderResult{OrderID: env.ID, Amount: env.Amount}
	if result.OrderID == "" {
		result.OrderID = env.OrderID
	}
	if result.Amount == 0 {
		result.Amount = env.Total
	}
	return result, nil
}

// Pay submits payment for a created order. The payment provider behind this
// endpoint is stubbed server-side; the call is synchronous.
func (o *OrdersClient) Pay(ctx context.Context, orderID string) error {
	return o.c.post(ctx, "/orders/"+url.PathEscape(orderID)+"/pay", nil, nil, nil)
}

// OrdersPage is one page of a shopper's order history.
type OrdersPage struct {
	Orders []domain.Order `json:"orders"`
	Page   int            `json:"page"`
	Limit  int            `json:"limit"`
	Total  int            `json:"total"`
}

func (o *OrdersClient) MyOrders(ctx context.Context, email string, page, limit int) (OrdersPage, error) {
	query := url.Values{}
	query.Set("email", email)
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var raw json.RawMessage
	if err := o.c.get(ctx, "/orders/my-orders", query, &raw); err != nil {
		return OrdersPage{}, err
	}

	orders, err := decodeList[domain.Order](raw, "orders")
	if err != nil {
		return OrdersPage{}, err
	}

	result := OrdersPage{Orders: orders, Page: page, Limit: limit, Total: len(orders)}
	var meta struct {
		Page  int `json:"page"`
		Limit int `json:"limit"`
		Total int `json:"total"`
	}
	if err := json.Unmarshal(unwrapData(raw), &meta); err == nil && meta.Total > 0 {
		result.Page = meta.Page
		result.Limit = meta.Limit
		result.Total = meta.Total
	}
	return result, nil
}

func (o *OrdersClient) Get(ctx context.Context, orderID string) (domain.Order, error) {
	var raw json.RawMessage
	if err := o.c.get(ctx, "/orders/"+url.PathEscape(orderID), nil, &raw); err != nil {
		return domain.Order{}, err
	}
	return decodeObject[domain.Order](raw, "order")
}

// UpdateStatus is the admin-only status transition.
func (o *OrdersClient) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) error {
	body := map[string]string{"status": string(status)}
	return o.c.put(ctx, "/orders/"+url.PathEscape(orderID)+"/status", body, nil)
}
