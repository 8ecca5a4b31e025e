package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shopadm/admin-gateway/internal/commerce"
	"github.com/shopadm/admin-gateway/internal/domain"
)

// CartService is the slice of the cart package the handler needs.
type CartService interface {
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)
	AddLine(ctx context.Context, sessionID string, line domain.CartLine) (*domain.Cart, error)
	SetQuantity(ctx context.Context, sessionID, variantID, raw string) (*domain.Cart, error)
	RemoveLine(ctx context.Context, sessionID, variantID string) (*domain.Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

// ProductLookup resolves the variant being added so the cart can snapshot its
// price and display fields at selection time.
type ProductLookup interface {
	Product(ctx context.Context, id string) (*domain.Product, error)
}

type CartHandler struct {
	carts   CartService
	catalog ProductLookup
	timeout time.Duration
	logger  *zap.Logger
}

func NewCartHandler(carts CartService, catalog ProductLookup, timeout time.Duration, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		carts:   carts,
		catalog: catalog,
		timeout: timeout,
		logger:  logger,
	}
}

type AddItemRequestDTO struct {
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id"`
}

type CartLineDTO struct {
	ProductID    string `json:"product_id"`
	VariantID    string `json:"variant_id"`
	ProductTitle string `json:"product_title"`
	VariantTitle string `json:"variant_title,omitempty"`
	UnitPrice    string `json:"unit_price"`
	Quantity     int    `json:"quantity"`
	LineTotal    string `json:"line_total"`
	ImageURL     string `json:"image_url,omitempty"`
}

type CartResponseDTO struct {
	Lines    []CartLineDTO `json:"lines"`
	Subtotal string        `json:"subtotal"`
	Tax      string        `json:"tax"`
	Total    string        `json:"total"`
}

func decimalFromInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}

func toCartDTO(cart *domain.Cart) CartResponseDTO {
	lines := make([]CartLineDTO, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		qty := decimalFromInt(l.Quantity)
		lines = append(lines, CartLineDTO{
			ProductID:    l.ProductID,
			VariantID:    l.VariantID,
			ProductTitle: l.ProductTitle,
			VariantTitle: l.VariantTitle,
			UnitPrice:    l.UnitPrice.StringFixed(2),
			Quantity:     l.Quantity,
			LineTotal:    l.UnitPrice.Mul(qty).StringFixed(2),
			ImageURL:     l.ImageURL,
		})
	}
	snap := cart.Snapshot()
	return CartResponseDTO{
		Lines:    lines,
		Subtotal: snap.Subtotal.StringFixed(2),
		Tax:      snap.Tax.StringFixed(2),
		Total:    snap.Total.StringFixed(2),
	}
}

// GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, h.logger, http.StatusUnauthorized, "unauthorized", "missing admin session")
		return
	}

	cart, err := h.carts.Get(ctx, sessionID)
	if err != nil {
		respondError(w, h.logger, http.StatusInternalServerError, "internal_error", "failed to load cart")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, toCartDTO(cart))
}

// POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, h.logger, http.StatusUnauthorized, "unauthorized", "missing admin session")
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" || req.VariantID == "" {
		respondError(w, h.logger, http.StatusBadRequest, "invalid_request", "product_id and variant_id are required")
		return
	}

	product, err := h.catalog.Product(ctx, req.ProductID)
	if errors.Is(err, commerce.ErrNotFound) {
		respondError(w, h.logger, http.StatusNotFound, "not_found", "product not found")
		return
	}
	if err != nil {
		respondError(w, h.logger, http.StatusBadGateway, "commerce_unavailable", "failed to load product")
		return
	}
	variant, ok := product.FindVariant(req.VariantID)
	if !ok {
		respondError(w, h.logger, http.StatusNotFound, "not_found", "variant not found")
		return
	}

	line := domain.CartLine{
		ProductID:    product.ID,
		VariantID:    variant.ID,
		ProductTitle: product.Title,
		VariantTitle: variant.Title,
		UnitPrice:    variant.Price,
		ImageURL:     product.LineImage(variant),
	}
	cart, err := h.carts.AddLine(ctx, sessionID, line)
	if err != nil {
		respondError(w, h.logger, http.StatusInternalServerError, "internal_error", "failed to update cart")
		return
	}

	respondJSON(w, h.logger, http.StatusCreated, toCartDTO(cart))
}

// PUT /api/v1/cart/items/{variant_id}
//
// The quantity comes through as whatever the console's number field held;
// the cart clamps anything unparsable or below 1 up to 1.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, h.logger, http.StatusUnauthorized, "unauthorized", "missing admin session")
		return
	}

	variantID := chi.URLParam(r, "variant_id")
	if variantID == "" {
		respondError(w, h.logger, http.StatusBadRequest, "invalid_request", "variant_id is required")
		return
	}

	var req struct {
		Quantity json.RawMessage `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	raw := strings.Trim(string(req.Quantity), `"`)

	cart, err := h.carts.SetQuantity(ctx, sessionID, variantID, raw)
	if err != nil {
		respondError(w, h.logger, http.StatusInternalServerError, "internal_error", "failed to update cart")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, toCartDTO(cart))
}

// DELETE /api/v1/cart/items/{variant_id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, h.logger, http.StatusUnauthorized, "unauthorized", "missing admin session")
		return
	}

	variantID := chi.URLParam(r, "variant_id")
	if variantID == "" {
		respondError(w, h.logger, http.StatusBadRequest, "invalid_request", "variant_id is required")
		return
	}

	cart, err := h.carts.RemoveLine(ctx, sessionID, variantID)
	if err != nil {
		respondError(w, h.logger, http.StatusInternalServerError, "internal_error", "failed to update cart")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, toCartDTO(cart))
}

// DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, h.logger, http.StatusUnauthorized, "unauthorized", "missing admin session")
		return
	}

	if err := h.carts.Clear(ctx, sessionID); err != nil {
		respondError(w, h.logger, http.StatusInternalServerError, "internal_error", "failed to clear cart")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, toCartDTO(&domain.Cart{SessionID: sessionID}))
}
