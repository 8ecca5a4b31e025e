package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/shopadm/admin-gateway/internal/commerce"
	"github.com/shopadm/admin-gateway/internal/domain"
)

type OrderClient interface {
	Orders(ctx context.Context, first int) ([]domain.Order, error)
	Order(ctx context.Context, id string) (*domain.Order, error)
	CancelOrder(ctx context.Context, id, reason string) ([]domain.UserError, error)
	DeleteOrder(ctx context.Context, id string) ([]domain.UserError, error)
}

type OrdersHandler struct {
	orders  OrderClient
	timeout time.Duration
	logger  *zap.Logger
}

func NewOrdersHandler(orders OrderClient, timeout time.Duration, logger *zap.Logger) *OrdersHandler {
	return &OrdersHandler{
		orders:  orders,
		timeout: timeout,
		logger:  logger,
	}
}

// OrderRowDTO is one row of the orders table: the order plus the badge tones
// the console renders its statuses with.
type OrderRowDTO struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	CustomerName      string    `json:"customer_name,omitempty"`
	Total             string    `json:"total"`
	Currency          string    `json:"currency"`
	FinancialStatus   string    `json:"financial_status"`
	FinancialTone     string    `json:"financial_tone"`
	FulfillmentStatus string    `json:"fulfillment_status"`
	FulfillmentTone   string    `json:"fulfillment_tone"`
	TotalItems        int       `json:"total_items"`
	CreatedAt         time.Time `json:"created_at"`
}

func toOrderRowDTO(o domain.Order) OrderRowDTO {
	row := OrderRowDTO{
		ID:                o.ID,
		Name:              o.Name,
		Total:             o.TotalPrice.StringFixed(2),
		Currency:          o.Currency,
		FinancialStatus:   o.DisplayFinancialStatus,
		FinancialTone:     string(domain.FinancialStatusTone(o.DisplayFinancialStatus)),
		FulfillmentStatus: o.DisplayFulfillmentStatus,
		FulfillmentTone:   string(domain.FulfillmentStatusTone(o.DisplayFulfillmentStatus)),
		TotalItems:        o.TotalItems(),
		CreatedAt:         o.CreatedAt,
	}
	if o.Customer != nil {
		row.CustomerName = o.Customer.DisplayName
	}
	return row
}

// GET /api/v1/orders
func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orders, err := h.orders.Orders(ctx, defaultPageSize)
	if err != nil {
		respondError(w, h.logger, http.StatusBadGateway, "commerce_unavailable", "failed to load orders")
		return
	}

	rows := make([]OrderRowDTO, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, toOrderRowDTO(o))
	}

	respondJSON(w, h.logger, http.StatusOK, rows)
}

// GET /api/v1/orders/{order_id}
func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orderID := chi.URLParam(r, "order_id")
	if orderID == "" {
		respondError(w, h.logger, http.StatusBadRequest, "invalid_request", "order_id is required")
		return
	}

	order, err := h.orders.Order(ctx, orderID)
	if errors.Is(err, commerce.ErrNotFound) {
		respondError(w, h.logger, http.StatusNotFound, "not_found", "order not found")
		return
	}
	if err != nil {
		respondError(w, h.logger, http.StatusBadGateway, "commerce_unavailable", "failed to load order")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, order)
}

type CancelOrderRequestDTO struct {
	Reason string `json:"reason,omitempty"`
}

// POST /api/v1/orders/{order_id}/cancel
func (h *OrdersHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orderID := chi.URLParam(r, "order_id")
	if orderID == "" {
		respondError(w, h.logger, http.StatusBadRequest, "invalid_request", "order_id is required")
		return
	}

	var req CancelOrderRequestDTO
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, h.logger, http.StatusBadRequest, "invalid_request", "invalid JSON body")
			return
		}
	}

	userErrs, err := h.orders.CancelOrder(ctx, orderID, req.Reason)
	if err != nil {
		respondError(w, h.logger, http.StatusBadGateway, "commerce_unavailable", "failed to cancel order")
		return
	}
	if len(userErrs) > 0 {
		respondUserErrors(w, h.logger, userErrs)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]bool{"success": true})
}

// DELETE /api/v1/orders/{order_id}
func (h *OrdersHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orderID := chi.URLParam(r, "order_id")
	if orderID == "" {
		respondError(w, h.logger, http.StatusBadRequest, "invalid_request", "order_id is required")
		return
	}

	userErrs, err := h.orders.DeleteOrder(ctx, orderID)
	if err != nil {
		respondError(w, h.logger, http.StatusBadGateway, "commerce_unavailable", "failed to delete order")
		return
	}
	if len(userErrs) > 0 {
		respondUserErrors(w, h.logger, userErrs)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]bool{"success": true})
}
