package mockapi

import (
	"bytes"
	"encoding/csv"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pulseboard/pulseboard/internal/common/httpx"
	"github.com/pulseboard/pulseboard/pkg/api"
)

func (s *Server) listOrdersHandler(r *http.Request) (*httpx.Response, error) {
	q := r.URL.Query()
	page := s.store.ListOrders(OrderFilter{
		Search: q.Get("search"),
		Status: q.Get("status"),
		From:   q.Get("from"),
		To:     q.Get("to"),
		Page:   queryInt(r, "page"),
		Limit:  queryInt(r, "limit"),
	})
	return &httpx.Response{StatusCode: http.StatusOK, Response: page}, nil
}

func (s *Server) getOrderHandler(r *http.Request) (*httpx.Response, error) {
	order, err := s.store.GetOrder(chi.URLParam(r, "orderID"))
	if err != nil {
		return nil, err
	}
	return &httpx.Response{StatusCode: http.StatusOK, Response: order}, nil
}

type createOrderRequest struct {
	UserID        string          `json:"userId" validate:"required"`
	CustomerName  string          `json:"customerName" validate:"required"`
	CustomerEmail string          `json:"customerEmail" validate:"required,email"`
	Items         []api.OrderItem `json:"items" validate:"required,min=1,dive"`
}

func (s *Server) createOrderHandler(r *http.Request) (*httpx.Response, error) {
	var req createOrderRequest
	if err := httpx.GetRequestData(r, &req); err != nil {
		return nil, err
	}
	if err := validate.Struct(req); err != nil {
		return nil, httpx.ErrInvalidRequest("userId, customerName, customerEmail and at least one item are required")
	}
	if _, err := s.store.GetUser(req.UserID); err != nil {
		return nil, httpx.ErrInvalidRequest("unknown userId")
	}

	order := s.store.CreateOrder(api.Order{
		UserID:        req.UserID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		Items:         req.Items,
	})
	return &httpx.Response{
		StatusCode: http.StatusCreated,
		Location:   "/orders/" + order.ID,
		Response:   order,
		Message:    "Order created",
	}, nil
}

func (s *Server) updateOrderHandler(r *http.Request) (*httpx.Response, error) {
	patch, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, httpx.ErrUnableToParseRequest()
	}
	order, err := s.store.UpdateOrder(chi.URLParam(r, "orderID"), patch)
	if err != nil {
		return nil, err
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   order,
		Message:    "Order updated",
	}, nil
}

func (s *Server) deleteOrderHandler(r *http.Request) (*httpx.Response, error) {
	if err := s.store.DeleteOrder(chi.URLParam(r, "orderID")); err != nil {
		return nil, err
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Message:    "Order deleted",
	}, nil
}

func (s *Server) exportOrdersHandler(r *http.Request) (*httpx.Response, error) {
	q := r.URL.Query()
	format := q.Get("format")
	if format != "" && format != "csv" {
		return nil, httpx.ErrInvalidRequest("unsupported export format: " + format)
	}
	orders := s.store.FilterOrders(OrderFilter{
		Status: q.Get("status"),
		From:   q.Get("from"),
		To:     q.Get("to"),
	})

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{"id", "customerName", "customerEmail", "total", "status", "paymentStatus", "createdAt"})
	for _, o := range orders {
		w.Write([]string{
			o.ID, o.CustomerName, o.CustomerEmail,
			strconv.FormatFloat(o.Total, 'f', 2, 64),
			o.Status, o.PaymentStatus, o.CreatedAt,
		})
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
