package mockapi

import (
	"bytes"
	"encoding/csv"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/pulseboard/pulseboard/internal/common/httpx"
	"github.com/pulseboard/pulseboard/pkg/api"
)

func queryInt(r *http.Request, key string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(key))
	return n
}

func queryFloat(r *http.Request, key string) float64 {
	f, _ := strconv.ParseFloat(r.URL.Query().Get(key), 64)
	return f
}

func (s *Server) listUsersHandler(r *http.Request) (*httpx.Response, error) {
	q := r.URL.Query()
	page := s.store.ListUsers(UserFilter{
		Search: q.Get("search"),
		Role:   q.Get("role"),
		Status: q.Get("status"),
		Page:   queryInt(r, "page"),
		Limit:  queryInt(r, "limit"),
	})
	return &httpx.Response{StatusCode: http.StatusOK, Response: page}, nil
}

func (s *Server) getUserHandler(r *http.Request) (*httpx.Response, error) {
	user, err := s.store.GetUser(chi.URLParam(r, "userID"))
	if err != nil {
		return nil, err
	}
	return &httpx.Response{StatusCode: http.StatusOK, Response: user}, nil
}

type createUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=admin manager user"`
}

func (s *Server) createUserHandler(r *http.Request) (*httpx.Response, error) {
	var req createUserRequest
	if err := httpx.GetRequestData(r, &req); err != nil {
		return nil, err
	}
	if err := validate.Struct(req); err != nil {
		return nil, httpx.ErrInvalidRequest("name, email, role and a password of at least 6 characters are required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user, err := s.store.CreateUser(api.User{
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
	}, hash)
	if err != nil {
		return nil, err
	}
	return &httpx.Response{
		StatusCode: http.StatusCreated,
		Location:   "/users/" + user.ID,
		Response:   user,
		Message:    "User created",
	}, nil
}

func (s *Server) updateUserHandler(r *http.Request) (*httpx.Response, error) {
	patch, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, httpx.ErrUnableToParseRequest()
	}
	user, err := s.store.UpdateUser(chi.URLParam(r, "userID"), patch)
	if err != nil {
		return nil, err
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   user,
		Message:    "User updated",
	}, nil
}

func (s *Server) deleteUserHandler(r *http.Request) (*httpx.Response, error) {
	if err := s.store.DeleteUser(chi.URLParam(r, "userID")); err != nil {
		return nil, err
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Message:    "User deleted",
	}, nil
}

func (s *Server) exportUsersHandler(r *http.Request) (*httpx.Response, error) {
	format := r.URL.Query().Get("format")
	if format != "" && format != "csv" {
		return nil, httpx.ErrInvalidRequest("unsupported export format: " + format)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{"id", "name", "email", "role", "status", "createdAt"})
	for _, u := range s.store.AllUsers() {
		w.Write([]string{u.ID, u.Name, u.Email, u.Role, u.Status, u.CreatedAt})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   api.ExportResult{Format: "csv", Content: buf.String()},
	}, nil
}

func (s *Server) listUserOrdersHandler(r *http.Request) (*httpx.Response, error) {
	userID := chi.URLParam(r, "userID")
	if _, err := s.store.GetUser(userID); err != nil {
		return nil, err
	}
	page := s.store.ListOrders(OrderFilter{
		UserID: userID,
		Page:   queryInt(r, "page"),
		Limit:  queryInt(r, "limit"),
	})
	return &httpx.Response{StatusCode: http.StatusOK, Response: page}, nil
}
