package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shopadm/admin-gateway/internal/commerce"
	"github.com/shopadm/admin-gateway/internal/domain"
)

const defaultPageSize = 50

type CatalogClient interface {
	Products(ctx context.Context, first int) ([]domain.Product, error)
	Product(ctx context.Context, id string) (*domain.Product, error)
	ProductsCount(ctx context.Context) (int, error)
	CreateProduct(ctx context.Context, in domain.NewProduct) (*domain.Product, []domain.UserError, error)
}

type ProductHandler struct {
	catalog CatalogClient
	timeout time.Duration
	logger  *zap.Logger
}

func NewProductHandler(catalog CatalogClient, timeout time.Duration, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		timeout: timeout,
		logger:  logger,
	}
}

type ProductListResponseDTO struct {
	Products []domain.Product `json:"products"`
	Count    int              `json:"count"`
}

type CreateProductRequestDTO struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Handle      string `json:"handle,omitempty"`
	ProductType string `json:"product_type,omitempty"`
	Vendor      string `json:"vendor,omitempty"`
	Tags        string `json:"tags,omitempty"`
	Status      string `json:"status,omitempty"`
	Price       string `json:"price,omitempty"`
	SKU         string `json:"sku,omitempty"`
	Inventory   int    `json:"inventory,omitempty"`
}

// GET /api/v1/products?q=
//
// The search box filters the already-fetched page, the way the admin screen
// does it, rather than pushing the query to the platform.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.catalog.Products(ctx, defaultPageSize)
	if err != nil {
		respondError(w, h.logger, http.StatusBadGateway, "commerce_unavailable", "failed to load products")
		return
	}
	count, err := h.catalog.ProductsCount(ctx)
	if err != nil {
		respondError(w, h.logger, http.StatusBadGateway, "commerce_unavailable", "failed to load product count")
		return
	}

	query := r.URL.Query().Get("q")
	filtered := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if p.MatchesSearch(query) {
			filtered = append(filtered, p)
		}
	}

	respondJSON(w, h.logger, http.StatusOK, ProductListResponseDTO{
		Products: filtered,
		Count:    count,
	})
}

// GET /api/v1/products/{product_id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID := chi.URLParam(r, "product_id")
	if productID == "" {
		respondError(w, h.logger, http.StatusBadRequest, "invalid_request", "product_id is required")
		return
	}

	product, err := h.catalog.Product(ctx, productID)
	if errors.Is(err, commerce.ErrNotFound) {
		respondError(w, h.logger, http.StatusNotFound, "not_found", "product not found")
		return
	}
	if err != nil {
		respondError(w, h.logger, http.StatusBadGateway, "commerce_unavailable", "failed to load product")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, product)
}

// POST /api/v1/products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req CreateProductRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Title == "" {
		respondUserErrors(w, h.logger, []domain.UserError{{Field: []string{"title"}, Message: "Title is required"}})
		return
	}

	price := decimal.Zero
	if req.Price != "" {
		var err error
		price, err = decimal.NewFromString(req.Price)
		if err != nil {
			respondUserErrors(w, h.logger, []domain.UserError{{Field: []string{"price"}, Message: "Price must be a decimal number"}})
			return
		}
	}
	status := req.Status
	if status == "" {
		status = "DRAFT"
	}

	in := domain.NewProduct{
		Title:       req.Title,
		Description: req.Description,
		Handle:      req.Handle,
		ProductType: req.ProductType,
		Vendor:      req.Vendor,
		Tags:        domain.ParseTags(req.Tags),
		Status:      status,
		Price:       price,
		SKU:         req.SKU,
		Inventory:   req.Inventory,
	}

	product, userErrs, err := h.catalog.CreateProduct(ctx, in)
	if err != nil {
		respondError(w, h.logger, http.StatusBadGateway, "commerce_unavailable", "failed to create product")
		return
	}
	if len(userErrs) > 0 {
		respondUserErrors(w, h.logger, userErrs)
		return
	}

	respondJSON(w, h.logger, http.StatusCreated, product)
}
