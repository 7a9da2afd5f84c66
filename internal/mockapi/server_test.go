package mockapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulseboard/pulseboard/internal/common/httpclient"
	"github.com/pulseboard/pulseboard/pkg/api"
)

// testConfig is a minimal gateway configuration holding the token in
// memory.
type testConfig struct {
	mu    sync.Mutex
	token string
}

func (c *testConfig) GetServerURL() string { return "http://pulseboard.test" }

func (c *testConfig) GetToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

func (c *testConfig) GetTokenExpiry() time.Time { return time.Time{} }

func (c *testConfig) ClearToken() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
	return nil
}

func (c *testConfig) setToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// newTestAPI spins up a seeded server and a typed client routed into it.
func newTestAPI(t *testing.T) (*api.API, *testConfig, *Server) {
	t.Helper()
	srv, err := CreateNewServer(DefaultConfig())
	require.NoError(t, err)
	cfg := &testConfig{}
	client := httpclient.NewTestClient(cfg, srv.Router)
	return api.New(client), cfg, srv
}

// loginAsAdmin authenticates with the seeded admin account and installs
// the token into the config.
func loginAsAdmin(t *testing.T, svc *api.API, cfg *testConfig) api.User {
	t.Helper()
	result, env := svc.Auth.Login(context.Background(), api.LoginRequest{
		Email:    "admin@pulseboard.io",
		Password: "admin123",
	})
	require.True(t, env.Success, env.ErrorMessage())
	require.NotEmpty(t, result.Token)
	cfg.setToken(result.Token)
	return result.User
}

func TestLoginAndMe(t *testing.T) {
	svc, cfg, _ := newTestAPI(t)
	admin := loginAsAdmin(t, svc, cfg)
	assert.Equal(t, "admin@pulseboard.io", admin.Email)
	assert.Equal(t, "admin", admin.Role)

	me, env := svc.Auth.Me(context.Background())
	require.True(t, env.Success)
	assert.Equal(t, admin.ID, me.ID)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	svc, _, srv := newTestAPI(t)
	_, env := svc.Auth.Login(context.Background(), api.LoginRequest{
		Email:    "admin@pulseboard.io",
		Password: "wrong",
	})
	require.False(t, env.Success)
	assert.Equal(t, 401, env.StatusCode)
	// The gateway treats every 401 as a dead session, so the backend's
	// credential message is replaced by the fixed expiry message.
	assert.True(t, env.SessionExpired)
	assert.Contains(t, env.Message, "session has expired")

	// The backend itself reports the credential failure.
	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"admin@pulseboard.io","password":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	srv.Router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid email or password")
}

func TestUnauthenticatedRequestExpiresSession(t *testing.T) {
	svc, _, _ := newTestAPI(t)
	_, env := svc.Users.List(context.Background(), api.UserListOptions{})
	require.False(t, env.Success)
	assert.True(t, env.SessionExpired)
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _ := newTestAPI(t)
	ctx := context.Background()

	result, env := svc.Auth.Register(ctx, api.RegisterRequest{
		Name:     "New Person",
		Email:    "new@example.com",
		Password: "sekret1",
	})
	require.True(t, env.Success, env.ErrorMessage())
	// Success envelopes carry no status code.
	assert.Zero(t, env.StatusCode)
	assert.Equal(t, "user", result.User.Role)

	_, env = svc.Auth.Login(ctx, api.LoginRequest{Email: "new@example.com", Password: "sekret1"})
	require.True(t, env.Success)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestAPI(t)
	_, env := svc.Auth.Register(context.Background(), api.RegisterRequest{
		Name:     "Imposter",
		Email:    "ADMIN@pulseboard.io",
		Password: "sekret1",
	})
	require.False(t, env.Success)
	assert.Equal(t, 409, env.StatusCode)
}

func TestRefreshToken(t *testing.T) {
	svc, cfg, _ := newTestAPI(t)
	loginAsAdmin(t, svc, cfg)

	result, env := svc.Auth.RefreshToken(context.Background())
	require.True(t, env.Success)
	require.NotEmpty(t, result.Token)

	cfg.setToken(result.Token)
	_, env = svc.Auth.Me(context.Background())
	assert.True(t, env.Success)
}

func TestPasswordResetFlow(t *testing.T) {
	svc, cfg, srv := newTestAPI(t)
	ctx := context.Background()

	env := svc.Auth.ForgotPassword(ctx, "admin@pulseboard.io")
	require.True(t, env.Success)

	// Reset tokens are delivered out of band; fish it out of the store.
	srv.store.mu.RLock()
	var token string
	for tok := range srv.store.resets {
		token = tok
	}
	srv.store.mu.RUnlock()
	require.NotEmpty(t, token)

	env = svc.Auth.ResetPassword(ctx, token, "changed1")
	require.True(t, env.Success)

	_, env = svc.Auth.Login(ctx, api.LoginRequest{Email: "admin@pulseboard.io", Password: "admin123"})
	assert.False(t, env.Success)
	result, env := svc.Auth.Login(ctx, api.LoginRequest{Email: "admin@pulseboard.io", Password: "changed1"})
	require.True(t, env.Success)
	cfg.setToken(result.Token)
}

func TestUserCRUD(t *testing.T) {
	svc, cfg, _ := newTestAPI(t)
	loginAsAdmin(t, svc, cfg)
	ctx := context.Background()

	created, env := svc.Users.Create(ctx, api.UserCreate{
		Name:     "Sam Carter",
		Email:    "sam@example.com",
		Password: "sekret1",
		Role:     "manager",
	})
	require.True(t, env.Success, env.ErrorMessage())
	assert.Zero(t, env.StatusCode)
	assert.Equal(t, api.UserStatusActive, created.Status)

	name := "Samantha Carter"
	status := api.UserStatusInactive
	updated, env := svc.Users.Update(ctx, created.ID, api.UserUpdate{Name: &name, Status: &status})
	require.True(t, env.Success)
	assert.Equal(t, "Samantha Carter", updated.Name)
	assert.Equal(t, api.UserStatusInactive, updated.Status)
	// Fields absent from the update are untouched.
	assert.Equal(t, "sam@example.com", updated.Email)
	assert.Equal(t, "manager", updated.Role)

	env = svc.Users.Delete(ctx, created.ID)
	require.True(t, env.Success)

	_, env = svc.Users.Get(ctx, created.ID)
	require.False(t, env.Success)
	assert.Equal(t, 404, env.StatusCode)
}

func TestUserUpdateRejectsDuplicateEmail(t *testing.T) {
	svc, cfg, _ := newTestAPI(t)
	loginAsAdmin(t, svc, cfg)
	ctx := context.Background()

	created, env := svc.Users.Create(ctx, api.UserCreate{
		Name:     "Sam Carter",
		Email:    "sam@example.com",
		Password: "sekret1",
		Role:     "user",
	})
	require.True(t, env.Success, env.ErrorMessage())

	email := "ADMIN@pulseboard.io"
	_, env = svc.Users.Update(ctx, created.ID, api.UserUpdate{Email: &email})
	require.False(t, env.Success)
	assert.Equal(t, 409, env.StatusCode)

	// The record is untouched by the rejected update.
	user, env := svc.Users.Get(ctx, created.ID)
	require.True(t, env.Success)
	assert.Equal(t, "sam@example.com", user.Email)
}

func TestUserListFiltersAndPaginates(t *testing.T) {
	svc, cfg, _ := newTestAPI(t)
	loginAsAdmin(t, svc, cfg)
	ctx := context.Background()

	page, env := svc.Users.List(ctx, api.UserListOptions{Role: "admin"})
	require.True(t, env.Success)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "admin@pulseboard.io", page.Items[0].Email)

	page, env = svc.Users.List(ctx, api.UserListOptions{
		PageOptions: api.PageOptions{Page: 1, Limit: 2},
	})
	require.True(t, env.Success)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 3, page.TotalPages)

	page, env = svc.Users.List(ctx, api.UserListOptions{Search: "maya"})
	require.True(t, env.Success)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Maya Lindqvist", page.Items[0].Name)
}

func TestUserExport(t *testing.T) {
	svc, cfg, _ := newTestAPI(t)
	loginAsAdmin(t, svc, cfg)

	result, env := svc.Users.Export(context.Background(), "")
	require.True(t, env.Success)
	assert.Equal(t, "csv", result.Format)
	lines := strings.Split(strings.TrimSpace(result.Content), "\n")
	assert.Equal(t, "id,name,email,role,status,createdAt", lines[0])
	assert.Len(t, lines, 6) // header plus five seeded users
}

func TestOrderCreateComputesTotal(t *testing.T) {
	svc, cfg, _ := newTestAPI(t)
	admin := loginAsAdmin(t, svc, cfg)
	ctx := context.Background()

	order, env := svc.Orders.Create(ctx, api.OrderCreate{
		UserID:        admin.ID,
		CustomerName:  "Walk In",
		CustomerEmail: "walkin@example.com",
		Items: []api.OrderItem{
			{ProductID: "p1", ProductName: "Lamp", Price: 10.50, Quantity: 2},
			{ProductID: "p2", ProductName: "Desk", Price: 100, Quantity: 1},
		},
	})
	require.True(t, env.Success, env.ErrorMessage())
	assert.InDelta(t, 121.0, order.Total, 0.001)
	assert.Equal(t, api.OrderStatusPending, order.Status)
	assert.Equal(t, api.PaymentStatusPending, order.PaymentStatus)
}

func TestOrderStatusUpdate(t *testing.T) {
	svc, cfg, _ := newTestAPI(t)
	loginAsAdmin(t, svc, cfg)
	ctx := context.Background()

	orders, env := svc.Orders.List(ctx, api.OrderListOptions{})
	require.True(t, env.Success)
	require.NotEmpty(t, orders.Items)
	target := orders.Items[0]

	status := api.OrderStatusCompleted
	payment := api.PaymentStatusPaid
	updated, env := svc.Orders.Update(ctx, target.ID, api.OrderUpdate{
		Status:        &status,
		PaymentStatus: &payment,
	})
	require.True(t, env.Success)
	assert.Equal(t, api.OrderStatusCompleted, updated.Status)
	assert.Equal(t, api.PaymentStatusPaid, updated.PaymentStatus)
	assert.Equal(t, target.Total, updated.Total)
}

func TestOrdersByUser(t *testing.T) {
	svc, cfg, _ := newTestAPI(t)
	loginAsAdmin(t, svc, cfg)
	ctx := context.Background()

	users, env := svc.Users.List(ctx, api.UserListOptions{Search: "maya"})
	require.True(t, env.Success)
	require.Len(t, users.Items, 1)

	page, env := svc.Orders.ListByUser(ctx, users.Items[0].ID, api.PageOptions{})
	require.True(t, env.Success)
	require.NotEmpty(t, page.Items)
	for _, o := range page.Items {
		assert.Equal(t, users.Items[0].ID, o.UserID)
	}
}

func TestOrderExportFiltersByStatus(t *testing.T) {
	svc, cfg, _ := newTestAPI(t)
	loginAsAdmin(t, svc, cfg)

	result, env := svc.Orders.Export(context.Background(), api.ExportOptions{
		Status: api.OrderStatusCancelled,
	})
	require.True(t, env.Success)
	lines := strings.Split(strings.TrimSpace(result.Content), "\n")
	require.Greater(t, len(lines), 1)
	for _, line := range lines[1:] {
		assert.Contains(t, line, api.OrderStatusCancelled)
	}
}

func TestProductFiltersAndCategories(t *testing.T) {
	svc, cfg, _ := newTestAPI(t)
	loginAsAdmin(t, svc, cfg)
	ctx := context.Background()

	page, env := svc.Products.List(ctx, api.ProductListOptions{MinPrice: 100})
	require.True(t, env.Success)
	require.NotEmpty(t, page.Items)
	for _, p := range page.Items {
		assert.GreaterOrEqual(t, p.Price, 100.0)
	}

	page, env = svc.Products.List(ctx, api.ProductListOptions{Category: "furniture"})
	require.True(t, env.Success)
	assert.Len(t, page.Items, 2)

	categories, env := svc.Products.Categories(ctx)
	require.True(t, env.Success)
	assert.Equal(t, []string{"accessories", "furniture", "lighting", "peripherals"}, categories)
}

func TestProductPartialUpdate(t *testing.T) {
	svc, cfg, _ := newTestAPI(t)
	loginAsAdmin(t, svc, cfg)
	ctx := context.Background()

	created, env := svc.Products.Create(ctx, api.ProductCreate{
		Name:     "Fjord Chair",
		Price:    259,
		Stock:    7,
		Category: "furniture",
	})
	require.True(t, env.Success, env.ErrorMessage())

	stock := 5
	updated, env := svc.Products.Update(ctx, created.ID, api.ProductUpdate{Stock: &stock})
	require.True(t, env.Success)
	assert.Equal(t, 5, updated.Stock)
	assert.Equal(t, "Fjord Chair", updated.Name)
	assert.Equal(t, 259.0, updated.Price)
}

func TestDashboardStats(t *testing.T) {
	svc, cfg, _ := newTestAPI(t)
	loginAsAdmin(t, svc, cfg)

	stats, env := svc.Analytics.Dashboard(context.Background())
	require.True(t, env.Success, env.ErrorMessage())
	assert.Equal(t, 5, stats.TotalUsers)
	assert.Equal(t, 12, stats.TotalOrders)
	assert.Greater(t, stats.TotalRevenue, 0.0)
	assert.LessOrEqual(t, len(stats.RecentOrders), 5)
	assert.NotEmpty(t, stats.TopProducts)
	assert.NotEmpty(t, stats.RevenueTrend)
}

func TestRevenueStatsGrouping(t *testing.T) {
	svc, cfg, _ := newTestAPI(t)
	loginAsAdmin(t, svc, cfg)
	ctx := context.Background()

	stats, env := svc.Analytics.RevenueStats(ctx, api.StatsOptions{}, "month")
	require.True(t, env.Success)
	assert.Contains(t, stats, "total")
	assert.Contains(t, stats, "series")

	_, env = svc.Analytics.RevenueStats(ctx, api.StatsOptions{}, "hour")
	require.False(t, env.Success)
	assert.Equal(t, 400, env.StatusCode)
}
