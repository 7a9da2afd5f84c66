package mockapi

import (
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/pulseboard/pulseboard/internal/common/apperrors"
	"github.com/pulseboard/pulseboard/internal/common/uuid"
	"github.com/pulseboard/pulseboard/pkg/api"
)

// Store errors.
var (
	ErrNotFound       = apperrors.New("record not found").SetStatusCode(404)
	ErrDuplicateEmail = apperrors.New("email already registered").SetStatusCode(409)
)

// account pairs a user record with its password hash. The hash never
// leaves the store.
type account struct {
	user         api.User
	passwordHash []byte
}

// Store is the in-memory data set backing the mock API. All access is
// guarded by a single RWMutex; the data set is small enough that copying
// on read is cheaper than any finer discipline.
type Store struct {
	mu       sync.RWMutex
	accounts map[string]*account // keyed by user ID
	orders   map[string]api.Order
	products map[string]api.Product
	resets   map[string]string // password reset token -> user ID
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		accounts: make(map[string]*account),
		orders:   make(map[string]api.Order),
		products: make(map[string]api.Product),
		resets:   make(map[string]string),
	}
}

func nowStamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// patchRecord applies a partial JSON update to a typed record: every
// top-level field present in patch replaces the corresponding field of the
// marshaled record. Unknown fields are dropped by the final unmarshal.
func patchRecord[T any](rec T, patch []byte, allowed map[string]bool) (T, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return rec, err
	}
	var patchErr error
	gjson.ParseBytes(patch).ForEach(func(key, value gjson.Result) bool {
		if !allowed[key.String()] {
			return true
		}
		raw, patchErr = sjson.SetRawBytes(raw, key.String(), []byte(value.Raw))
		return patchErr == nil
	})
	if patchErr != nil {
		return rec, patchErr
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return rec, err
	}
	return out, nil
}

// paginate slices a filtered result set into the paginated collection
// shape. Page numbers are 1-based; limit defaults to 10.
func paginate[T any](items []T, page, limit int) api.Paginated[T] {
	if limit <= 0 {
		limit = 10
	}
	if page <= 0 {
		page = 1
	}
	total := len(items)
	totalPages := (total + limit - 1) / limit

	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return api.Paginated[T]{
		Items:      items[start:end],
		Total:      total,
		Page:       page,
		PageSize:   limit,
		TotalPages: totalPages,
	}
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// --- users ---

// CreateUser inserts a new user with the given password hash.
func (s *Store) CreateUser(u api.User, passwordHash []byte) (api.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acct := range s.accounts {
		if strings.EqualFold(acct.user.Email, u.Email) {
			return api.User{}, ErrDuplicateEmail
		}
	}
	u.ID = uuid.New().String()
	if u.Status == "" {
		u.Status = api.UserStatusActive
	}
	u.CreatedAt = nowStamp()
	s.accounts[u.ID] = &account{user: u, passwordHash: passwordHash}
	return u, nil
}

// GetUser returns a user by ID.
func (s *Store) GetUser(id string) (api.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acct, ok := s.accounts[id]
	if !ok {
		return api.User{}, ErrNotFound.Msg("user not found")
	}
	return acct.user, nil
}

// FindUserByEmail returns the user with the given email and its password
// hash.
func (s *Store) FindUserByEmail(email string) (api.User, []byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, acct := range s.accounts {
		if strings.EqualFold(acct.user.Email, email) {
			return acct.user, acct.passwordHash, nil
		}
	}
	return api.User{}, nil, ErrNotFound.Msg("user not found")
}

// UpdateUser applies a partial JSON update to a user.
func (s *Store) UpdateUser(id string, patch []byte) (api.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[id]
	if !ok {
		return api.User{}, ErrNotFound.Msg("user not found")
	}
	updated, err := patchRecord(acct.user, patch, map[string]bool{
		"name": true, "email": true, "role": true, "status": true, "avatar": true,
	})
	if err != nil {
		return api.User{}, err
	}
	// A patched email must stay unique, same rule as CreateUser.
	for otherID, other := range s.accounts {
		if otherID != id && strings.EqualFold(other.user.Email, updated.Email) {
			return api.User{}, ErrDuplicateEmail
		}
	}
	acct.user = updated
	return updated, nil
}

// DeleteUser removes a user.
func (s *Store) DeleteUser(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[id]; !ok {
		return ErrNotFound.Msg("user not found")
	}
	delete(s.accounts, id)
	return nil
}

// SetPassword replaces a user's password hash.
func (s *Store) SetPassword(id string, passwordHash []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[id]
	if !ok {
		return ErrNotFound.Msg("user not found")
	}
	acct.passwordHash = passwordHash
	return nil
}

// UserFilter selects users for ListUsers.
type UserFilter struct {
	Search string
	Role   string
	Status string
	Page   int
	Limit  int
}

// ListUsers returns a filtered, paginated user collection ordered by
// creation time.
func (s *Store) ListUsers(f UserFilter) api.Paginated[api.User] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var users []api.User
	for _, acct := range s.accounts {
		u := acct.user
		if f.Search != "" && !containsFold(u.Name, f.Search) && !containsFold(u.Email, f.Search) {
			continue
		}
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if f.Status != "" && u.Status != f.Status {
			continue
		}
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return paginate(users, f.Page, f.Limit)
}

// AllUsers returns every user ordered by ID.
func (s *Store) AllUsers() []api.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var users []api.User
	for _, acct := range s.accounts {
		users = append(users, acct.user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users
}

// --- password resets ---

// CreateResetToken records a password reset token for the given user.
func (s *Store) CreateResetToken(userID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	token := uuid.New().String()
	s.resets[token] = userID
	return token
}

// ConsumeResetToken resolves and invalidates a reset token.
func (s *Store) ConsumeResetToken(token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	userID, ok := s.resets[token]
	if !ok {
		return "", ErrNotFound.Msg("invalid or expired reset token")
	}
	delete(s.resets, token)
	return userID, nil
}

// --- orders ---

// CreateOrder inserts a new order, computing its total.
func (s *Store) CreateOrder(o api.Order) api.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	o.ID = uuid.New().String()
	o.Status = api.OrderStatusPending
	o.PaymentStatus = api.PaymentStatusPending
	o.Total = 0
	for _, item := range o.Items {
		o.Total += item.Price * float64(item.Quantity)
	}
	o.CreatedAt = nowStamp()
	o.UpdatedAt = o.CreatedAt
	s.orders[o.ID] = o
	return o
}

// GetOrder returns an order by ID.
func (s *Store) GetOrder(id string) (api.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return api.Order{}, ErrNotFound.Msg("order not found")
	}
	return o, nil
}

// UpdateOrder applies a partial JSON update to an order's statuses.
func (s *Store) UpdateOrder(id string, patch []byte) (api.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return api.Order{}, ErrNotFound.Msg("order not found")
	}
	updated, err := patchRecord(o, patch, map[string]bool{
		"status": true, "paymentStatus": true,
	})
	if err != nil {
		return api.Order{}, err
	}
	updated.UpdatedAt = nowStamp()
	s.orders[id] = updated
	return updated, nil
}

// DeleteOrder removes an order.
func (s *Store) DeleteOrder(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[id]; !ok {
		return ErrNotFound.Msg("order not found")
	}
	delete(s.orders, id)
	return nil
}

// OrderFilter selects orders for ListOrders.
type OrderFilter struct {
	Search string
	Status string
	UserID string
	From   string
	To     string
	Page   int
	Limit  int
}

// ListOrders returns a filtered, paginated order collection, newest first.
func (s *Store) ListOrders(f OrderFilter) api.Paginated[api.Order] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	orders := s.filterOrdersLocked(f)
	return paginate(orders, f.Page, f.Limit)
}

// FilterOrders returns every order matching the filter, newest first.
func (s *Store) FilterOrders(f OrderFilter) []api.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterOrdersLocked(f)
}

func (s *Store) filterOrdersLocked(f OrderFilter) []api.Order {
	var orders []api.Order
	for _, o := range s.orders {
		if f.Search != "" && !containsFold(o.CustomerName, f.Search) && !containsFold(o.CustomerEmail, f.Search) {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.UserID != "" && o.UserID != f.UserID {
			continue
		}
		if f.From != "" && o.CreatedAt < f.From {
			continue
		}
		if f.To != "" && o.CreatedAt > f.To {
			continue
		}
		orders = append(orders, o)
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt > orders[j].CreatedAt })
	return orders
}

// --- products ---

// CreateProduct inserts a new product.
func (s *Store) CreateProduct(p api.Product) api.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = uuid.New().String()
	p.CreatedAt = nowStamp()
	p.UpdatedAt = p.CreatedAt
	s.products[p.ID] = p
	return p
}

// GetProduct returns a product by ID.
func (s *Store) GetProduct(id string) (api.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return api.Product{}, ErrNotFound.Msg("product not found")
	}
	return p, nil
}

// UpdateProduct applies a partial JSON update to a product.
func (s *Store) UpdateProduct(id string, patch []byte) (api.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return api.Product{}, ErrNotFound.Msg("product not found")
	}
	updated, err := patchRecord(p, patch, map[string]bool{
		"name": true, "description": true, "price": true,
		"stock": true, "category": true, "images": true,
	})
	if err != nil {
		return api.Product{}, err
	}
	updated.UpdatedAt = nowStamp()
	s.products[id] = updated
	return updated, nil
}

// DeleteProduct removes a product.
func (s *Store) DeleteProduct(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return ErrNotFound.Msg("product not found")
	}
	delete(s.products, id)
	return nil
}

// ProductFilter selects products for ListProducts.
type ProductFilter struct {
	Search   string
	Category string
	MinPrice float64
	MaxPrice float64
	Page     int
	Limit    int
}

// ListProducts returns a filtered, paginated product collection ordered by
// name.
func (s *Store) ListProducts(f ProductFilter) api.Paginated[api.Product] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var products []api.Product
	for _, p := range s.products {
		if f.Search != "" && !containsFold(p.Name, f.Search) && !containsFold(p.Description, f.Search) {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.MinPrice > 0 && p.Price < f.MinPrice {
			continue
		}
		if f.MaxPrice > 0 && p.Price > f.MaxPrice {
			continue
		}
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Name < products[j].Name })
	return paginate(products, f.Page, f.Limit)
}

// Categories returns the distinct product categories, sorted.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := map[string]bool{}
	var categories []string
	for _, p := range s.products {
		if p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			categories = append(categories, p.Category)
		}
	}
	sort.Strings(categories)
	return categories
}

// AllProducts returns every product ordered by name.
func (s *Store) AllProducts() []api.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var products []api.Product
	for _, p := range s.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Name < products[j].Name })
	return products
}
