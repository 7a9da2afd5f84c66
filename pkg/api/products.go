package api

import (
	"context"
	"strconv"

	"github.com/pulseboard/pulseboard/internal/common/httpclient"
)

// ProductService covers the product catalog endpoints.
type ProductService struct {
	client httpclient.Doer
}

// ProductListOptions are the filters forwarded to the product list endpoint.
type ProductListOptions struct {
	PageOptions
	Search   string
	Category string
	MinPrice float64
	MaxPrice float64
}

func (o ProductListOptions) queryParams() map[string]string {
	q := map[string]string{}
	o.PageOptions.apply(q)
	q["search"] = o.Search
	q["category"] = o.Category
	if o.MinPrice > 0 {
		q["minPrice"] = strconv.FormatFloat(o.MinPrice, 'f', -1, 64)
	}
	if o.MaxPrice > 0 {
		q["maxPrice"] = strconv.FormatFloat(o.MaxPrice, 'f', -1, 64)
	}
	return q
}

// ProductCreate is the payload for creating a product.
type ProductCreate struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Stock       int      `json:"stock"`
	Category    string   `json:"category"`
	Images      []string `json:"images,omitempty"`
}

// ProductUpdate is the payload for updating a product. Nil fields are
// omitted and left unchanged.
type ProductUpdate struct {
	Name        *string   `json:"name,omitempty"`
	Description *string   `json:"description,omitempty"`
	Price       *float64  `json:"price,omitempty"`
	Stock       *int      `json:"stock,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Images      *[]string `json:"images,omitempty"`
}

// List retrieves a page of products.
func (s *ProductService) List(ctx context.Context, opts ProductListOptions) (Paginated[Product], *httpclient.Envelope) {
	return decode[Paginated[Product]](s.client.Get(ctx, "/products", opts.queryParams()))
}

// Get retrieves a single product by ID.
func (s *ProductService) Get(ctx context.Context, id string) (Product, *httpclient.Envelope) {
	return decode[Product](s.client.Get(ctx, "/products/"+id, nil))
}

// Create creates a product.
func (s *ProductService) Create(ctx context.Context, req ProductCreate) (Product, *httpclient.Envelope) {
	return decode[Product](s.client.Post(ctx, "/products", req))
}

// Update applies a partial update to a product.
func (s *ProductService) Update(ctx context.Context, id string, req ProductUpdate) (Product, *httpclient.Envelope) {
	return decode[Product](s.client.Put(ctx, "/products/"+id, req))
}

// Delete removes a product.
func (s *ProductService) Delete(ctx context.Context, id string) *httpclient.Envelope {
	return s.client.Delete(ctx, "/products/"+id)
}

// Categories lists the distinct product categories.
func (s *ProductService) Categories(ctx context.Context) ([]string, *httpclient.Envelope) {
	return decode[[]string](s.client.Get(ctx, "/products/categories", nil))
}
