package mockapi

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pulseboard/pulseboard/internal/common/httpx"
	"github.com/pulseboard/pulseboard/pkg/api"
)

func (s *Server) listProductsHandler(r *http.Request) (*httpx.Response, error) {
	q := r.URL.Query()
	page := s.store.ListProducts(ProductFilter{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		MinPrice: queryFloat(r, "minPrice"),
		MaxPrice: queryFloat(r, "maxPrice"),
		Page:     queryInt(r, "page"),
		Limit:    queryInt(r, "limit"),
	})
	return &httpx.Response{StatusCode: http.StatusOK, Response: page}, nil
}

func (s *Server) getProductHandler(r *http.Request) (*httpx.Response, error) {
	product, err := s.store.GetProduct(chi.URLParam(r, "productID"))
	if err != nil {
		return nil, err
	}
	return &httpx.Response{StatusCode: http.StatusOK, Response: product}, nil
}

type createProductRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price" validate:"required,gt=0"`
	Stock       int      `json:"stock" validate:"gte=0"`
	Category    string   `json:"category" validate:"required"`
	Images      []string `json:"images"`
}

func (s *Server) createProductHandler(r *http.Request) (*httpx.Response, error) {
	var req createProductRequest
	if err := httpx.GetRequestData(r, &req); err != nil {
		return nil, err
	}
	if err := validate.Struct(req); err != nil {
		return nil, httpx.ErrInvalidRequest("name, category and a positive price are required")
	}

	product := s.store.CreateProduct(api.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    req.Category,
		Images:      req.Images,
	})
	return &httpx.Response{
		StatusCode: http.StatusCreated,
		Location:   "/products/" + product.ID,
		Response:   product,
		Message:    "Product created",
	}, nil
}

func (s *Server) updateProductHandler(r *http.Request) (*httpx.Response, error) {
	patch, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, httpx.ErrUnableToParseRequest()
	}
	product, err := s.store.UpdateProduct(chi.URLParam(r, "productID"), patch)
	if err != nil {
		return nil, err
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   product,
		Message:    "Product updated",
	}, nil
}

func (s *Server) deleteProductHandler(r *http.Request) (*httpx.Response, error) {
	if err := s.store.DeleteProduct(chi.URLParam(r, "productID")); err != nil {
		return nil, err
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Message:    "Product deleted",
	}, nil
}

func (s *Server) listCategoriesHandler(r *http.Request) (*httpx.Response, error) {
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   s.store.Categories(),
	}, nil
}
