package api

import (
	"context"

	"github.com/pulseboard/pulseboard/internal/common/httpclient"
)

// OrderService covers the order management endpoints.
type OrderService struct {
	client httpclient.Doer
}

// OrderListOptions are the filters forwarded to the order list endpoint.
type OrderListOptions struct {
	PageOptions
	Search string
	Status string
	From   string
	To     string
}

func (o OrderListOptions) queryParams() map[string]string {
	q := map[string]string{}
	o.PageOptions.apply(q)
	q["search"] = o.Search
	q["status"] = o.Status
	q["from"] = o.From
	q["to"] = o.To
	return q
}

// OrderCreate is the payload for creating an order.
type OrderCreate struct {
	UserID        string      `json:"userId"`
	CustomerName  string      `json:"customerName"`
	CustomerEmail string      `json:"customerEmail"`
	Items         []OrderItem `json:"items"`
}

// OrderUpdate is the payload for updating an order's statuses. Nil fields
// are omitted and left unchanged.
type OrderUpdate struct {
	Status        *string `json:"status,omitempty"`
	PaymentStatus *string `json:"paymentStatus,omitempty"`
}

// List retrieves a page of orders.
func (s *OrderService) List(ctx context.Context, opts OrderListOptions) (Paginated[Order], *httpclient.Envelope) {
	return decode[Paginated[Order]](s.client.Get(ctx, "/orders", opts.queryParams()))
}

// Get retrieves a single order by ID.
func (s *OrderService) Get(ctx context.Context, id string) (Order, *httpclient.Envelope) {
	return decode[Order](s.client.Get(ctx, "/orders/"+id, nil))
}

// Create creates an order.
func (s *OrderService) Create(ctx context.Context, req OrderCreate) (Order, *httpclient.Envelope) {
	return decode[Order](s.client.Post(ctx, "/orders", req))
}

// Update applies a partial update to an order.
func (s *OrderService) Update(ctx context.Context, id string, req OrderUpdate) (Order, *httpclient.Envelope) {
	return decode[Order](s.client.Put(ctx, "/orders/"+id, req))
}

// Delete removes an order.
func (s *OrderService) Delete(ctx context.Context, id string) *httpclient.Envelope {
	return s.client.Delete(ctx, "/orders/"+id)
}

// ListByUser retrieves a page of one user's orders.
func (s *OrderService) ListByUser(ctx context.Context, userID string, opts PageOptions) (Paginated[Order], *httpclient.Envelope) {
	q := map[string]string{}
	opts.apply(q)
	return decode[Paginated[Order]](s.client.Get(ctx, "/users/"+userID+"/orders", q))
}

// ExportOptions are the filters forwarded to an export endpoint.
type ExportOptions struct {
	Format string
	Status string
	From   string
	To     string
}

// Export exports orders matching the given filters.
func (s *OrderService) Export(ctx context.Context, opts ExportOptions) (ExportResult, *httpclient.Envelope) {
	if opts.Format == "" {
		opts.Format = "csv"
	}
	return decode[ExportResult](s.client.Get(ctx, "/orders/export", map[string]string{
		"format": opts.Format,
		"status": opts.Status,
		"from":   opts.From,
		"to":     opts.To,
	}))
}
