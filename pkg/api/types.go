// Package api provides typed client services for the Pulseboard REST API.
// Each service is a thin wrapper over the gateway client: it builds paths
// and query parameters, forwards the call, and decodes the envelope's data
// payload into typed results.
package api

import (
	"strconv"
)

// User statuses understood by the backend.
const (
	UserStatusActive    = "active"
	UserStatusInactive  = "inactive"
	UserStatusSuspended = "suspended"
)

// Order statuses understood by the backend.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// Payment statuses understood by the backend.
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// User is an account visible in the admin console.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Avatar    string `json:"avatar,omitempty"`
	Status    string `json:"status,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// OrderItem is a single line in an order.
type OrderItem struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}

// Order is a customer order.
type Order struct {
	ID            string      `json:"id"`
	UserID        string      `json:"userId"`
	CustomerName  string      `json:"customerName"`
	CustomerEmail string      `json:"customerEmail"`
	Items         []OrderItem `json:"items"`
	Total         float64     `json:"total"`
	Status        string      `json:"status"`
	PaymentStatus string      `json:"paymentStatus"`
	CreatedAt     string      `json:"createdAt"`
	UpdatedAt     string      `json:"updatedAt"`
}

// Product is a catalog entry.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Stock       int      `json:"stock"`
	Category    string   `json:"category"`
	Images      []string `json:"images,omitempty"`
	CreatedAt   string   `json:"createdAt,omitempty"`
	UpdatedAt   string   `json:"updatedAt,omitempty"`
}

// Paginated is the collection shape returned by every list operation.
// len(Items) never exceeds PageSize; TotalPages is ceil(Total / PageSize).
type Paginated[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
}

// PageOptions carries the common pagination parameters.
type PageOptions struct {
	Page  int
	Limit int
}

func (o PageOptions) apply(q map[string]string) {
	if o.Page > 0 {
		q["page"] = strconv.Itoa(o.Page)
	}
	if o.Limit > 0 {
		q["limit"] = strconv.Itoa(o.Limit)
	}
}

// ExportResult is the payload of an export operation: the serialized
// document and its format.
type ExportResult struct {
	Format  string `json:"format"`
	Content string `json:"content"`
}

// DashboardStats is the metrics payload backing the landing dashboard.
type DashboardStats struct {
	TotalUsers        int              `json:"totalUsers"`
	TotalOrders       int              `json:"totalOrders"`
	TotalRevenue      float64          `json:"totalRevenue"`
	AverageOrderValue float64          `json:"averageOrderValue"`
	RecentOrders      []Order          `json:"recentOrders"`
	TopProducts       []TopProduct     `json:"topProducts"`
	UserGrowth        []UserGrowthTick `json:"userGrowth"`
	RevenueTrend      []RevenueTick    `json:"revenueTrend"`
}

// TopProduct is a product annotated with its sales count.
type TopProduct struct {
	Product
	SoldCount int `json:"soldCount"`
}

// UserGrowthTick is one point of the user growth series.
type UserGrowthTick struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// RevenueTick is one point of the revenue trend series.
type RevenueTick struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
}
