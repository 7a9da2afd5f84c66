// Package mockapi implements an in-memory Pulseboard backend. It serves
// the same REST surface and wire envelope as the hosted API, seeded with
// demo data, so the CLI can be exercised without a live deployment.
package mockapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/pulseboard/pulseboard/internal/common/httpx"
	"github.com/pulseboard/pulseboard/internal/common/middleware"
	"github.com/pulseboard/pulseboard/pkg/api"
)

// Server hosts the mock API over a chi router.
type Server struct {
	Router *chi.Mux
	cfg    *Config
	store  *Store
}

// CreateNewServer builds a seeded server for the given configuration.
func CreateNewServer(cfg *Config) (*Server, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	s := &Server{
		Router: chi.NewRouter(),
		cfg:    cfg,
		store:  NewStore(),
	}
	if err := s.seed(); err != nil {
		return nil, err
	}
	s.MountHandlers()
	return s, nil
}

// MountHandlers attaches middleware and routes to the router.
func (s *Server) MountHandlers() {
	r := s.Router
	r.Use(middleware.RequestLogger)
	r.Use(middleware.PanicHandler)
	r.Use(middleware.SetTimeout(30 * time.Second))
	if s.cfg.Server.HandleCORS {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{middleware.RequestIDHeader},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	// Unknown routes answer in the wire envelope too.
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.ErrNotFound("no such endpoint").Send(w)
	})

	r.Get("/status", httpx.WrapHandler(s.statusHandler))

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", httpx.WrapHandler(s.loginHandler))
		r.Post("/register", httpx.WrapHandler(s.registerHandler))
		r.Post("/forgot-password", httpx.WrapHandler(s.forgotPasswordHandler))
		r.Post("/reset-password", httpx.WrapHandler(s.resetPasswordHandler))
		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/me", httpx.WrapHandler(s.meHandler))
			r.Post("/logout", httpx.WrapHandler(s.logoutHandler))
			r.Post("/refresh-token", httpx.WrapHandler(s.refreshTokenHandler))
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", httpx.WrapHandler(s.listUsersHandler))
			r.Post("/", httpx.WrapHandler(s.createUserHandler))
			r.Get("/export", httpx.WrapHandler(s.exportUsersHandler))
			r.Get("/{userID}", httpx.WrapHandler(s.getUserHandler))
			r.Put("/{userID}", httpx.WrapHandler(s.updateUserHandler))
			r.Delete("/{userID}", httpx.WrapHandler(s.deleteUserHandler))
			r.Get("/{userID}/orders", httpx.WrapHandler(s.listUserOrdersHandler))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", httpx.WrapHandler(s.listOrdersHandler))
			r.Post("/", httpx.WrapHandler(s.createOrderHandler))
			r.Get("/export", httpx.WrapHandler(s.exportOrdersHandler))
			r.Get("/{orderID}", httpx.WrapHandler(s.getOrderHandler))
			r.Put("/{orderID}", httpx.WrapHandler(s.updateOrderHandler))
			r.Delete("/{orderID}", httpx.WrapHandler(s.deleteOrderHandler))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", httpx.WrapHandler(s.listProductsHandler))
			r.Post("/", httpx.WrapHandler(s.createProductHandler))
			r.Get("/categories", httpx.WrapHandler(s.listCategoriesHandler))
			r.Get("/{productID}", httpx.WrapHandler(s.getProductHandler))
			r.Put("/{productID}", httpx.WrapHandler(s.updateProductHandler))
			r.Delete("/{productID}", httpx.WrapHandler(s.deleteProductHandler))
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/dashboard", httpx.WrapHandler(s.dashboardHandler))
			r.Get("/users", httpx.WrapHandler(s.userStatsHandler))
			r.Get("/orders", httpx.WrapHandler(s.orderStatsHandler))
			r.Get("/revenue", httpx.WrapHandler(s.revenueStatsHandler))
		})
	})
}

// Server and API versions reported by the status endpoint.
const (
	ServerVersion = "0.3.0"
	APIVersion    = "0.1.0"
)

func (s *Server) statusHandler(r *http.Request) (*httpx.Response, error) {
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response: api.ServerStatus{
			ServerVersion: ServerVersion,
			APIVersion:    APIVersion,
			ServerTime:    time.Now().UTC().Format(time.RFC3339),
		},
	}, nil
}

// ListenAndServe starts the server on the configured address.
func (s *Server) ListenAndServe() error {
	log.Info().Str("addr", s.cfg.Server.Addr).Msg("mock API listening")
	return http.ListenAndServe(s.cfg.Server.Addr, s.Router)
}

// seed loads the demo data set: the admin account, a handful of users,
// a small catalog, and orders spread over recent days.
func (s *Server) seed() error {
	adminHash, err := bcrypt.GenerateFromPassword([]byte(s.cfg.Auth.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin, err := s.store.CreateUser(api.User{
		Name:   "Admin",
		Email:  s.cfg.Auth.AdminEmail,
		Role:   "admin",
		Status: api.UserStatusActive,
	}, adminHash)
	if err != nil {
		return err
	}

	demoHash, err := bcrypt.GenerateFromPassword([]byte("demo1234"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	seedUsers := []api.User{
		{Name: "Maya Lindqvist", Email: "maya@example.com", Role: "manager", Status: api.UserStatusActive},
		{Name: "Tomás Rivera", Email: "tomas@example.com", Role: "user", Status: api.UserStatusActive},
		{Name: "Priya Natarajan", Email: "priya@example.com", Role: "user", Status: api.UserStatusInactive},
		{Name: "Jonas Weber", Email: "jonas@example.com", Role: "user", Status: api.UserStatusSuspended},
	}
	users := []api.User{admin}
	for _, u := range seedUsers {
		created, err := s.store.CreateUser(u, demoHash)
		if err != nil {
			return err
		}
		users = append(users, created)
	}

	seedProducts := []api.Product{
		{Name: "Aurora Desk Lamp", Description: "Dimmable LED desk lamp", Price: 49.90, Stock: 120, Category: "lighting"},
		{Name: "Birch Standing Desk", Description: "Height adjustable desk", Price: 399.00, Stock: 18, Category: "furniture"},
		{Name: "Cork Monitor Stand", Description: "Two tier monitor riser", Price: 34.50, Stock: 64, Category: "furniture"},
		{Name: "Drift Mechanical Keyboard", Description: "Low profile wireless keyboard", Price: 129.00, Stock: 42, Category: "peripherals"},
		{Name: "Ember Mug Warmer", Description: "USB powered mug warmer", Price: 24.00, Stock: 200, Category: "accessories"},
	}
	var products []api.Product
	for _, p := range seedProducts {
		products = append(products, s.store.CreateProduct(p))
	}

	now := time.Now().UTC()
	for i := 0; i < 12; i++ {
		buyer := users[1+i%(len(users)-1)]
		product := products[i%len(products)]
		order := s.store.CreateOrder(api.Order{
			UserID:        buyer.ID,
			CustomerName:  buyer.Name,
			CustomerEmail: buyer.Email,
			Items: []api.OrderItem{{
				ProductID:   product.ID,
				ProductName: product.Name,
				Price:       product.Price,
				Quantity:    1 + i%3,
			}},
		})

		// Backdate and settle most of the seeded orders so the dashboard
		// has a populated trend.
		stamp := now.AddDate(0, 0, -(i % 7)).Format(time.RFC3339)
		status := api.OrderStatusCompleted
		payment := api.PaymentStatusPaid
		switch i % 4 {
		case 1:
			status, payment = api.OrderStatusProcessing, api.PaymentStatusPending
		case 3:
			status, payment = api.OrderStatusCancelled, api.PaymentStatusFailed
		}
		s.store.mu.Lock()
		o := s.store.orders[order.ID]
		o.Status = status
		o.PaymentStatus = payment
		o.CreatedAt = stamp
		o.UpdatedAt = stamp
		s.store.orders[order.ID] = o
		s.store.mu.Unlock()
	}
	return nil
}
