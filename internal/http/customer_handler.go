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

type CustomerClient interface {
	Customers(ctx context.Context, first int) ([]domain.Customer, error)
	Customer(ctx context.Context, id string) (*domain.Customer, error)
	CreateCustomer(ctx context.Context, in domain.NewCustomer) (*domain.Customer, []domain.UserError, error)
}

type CustomerHandler struct {
	customers CustomerClient
	timeout   time.Duration
	logger    *zap.Logger
}

func NewCustomerHandler(customers CustomerClient, timeout time.Duration, logger *zap.Logger) *CustomerHandler {
	return &CustomerHandler{
		customers: customers,
		timeout:   timeout,
		logger:    logger,
	}
}

type CreateCustomerRequestDTO struct {
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	Email            string `json:"email"`
	Phone            string `json:"phone,omitempty"`
	Note             string `json:"note,omitempty"`
	Tags             string `json:"tags,omitempty"`
	AcceptsMarketing bool   `json:"accepts_marketing,omitempty"`
}

// GET /api/v1/customers?q=
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	customers, err := h.customers.Customers(ctx, defaultPageSize)
	if err != nil {
		respondError(w, h.logger, http.StatusBadGateway, "commerce_unavailable", "failed to load customers")
		return
	}

	query := r.URL.Query().Get("q")
	filtered := make([]domain.Customer, 0, len(customers))
	for _, c := range customers {
		if c.MatchesSearch(query) {
			filtered = append(filtered, c)
		}
	}

	respondJSON(w, h.logger, http.StatusOK, filtered)
}

// GET /api/v1/customers/{customer_id}
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	customerID := chi.URLParam(r, "customer_id")
	if customerID == "" {
		respondError(w, h.logger, http.StatusBadRequest, "invalid_request", "customer_id is required")
		return
	}

	customer, err := h.customers.Customer(ctx, customerID)
	if errors.Is(err, commerce.ErrNotFound) {
		respondError(w, h.logger, http.StatusNotFound, "not_found", "customer not found")
		return
	}
	if err != nil {
		respondError(w, h.logger, http.StatusBadGateway, "commerce_unavailable", "failed to load customer")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, customer)
}

// POST /api/v1/customers
func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req CreateCustomerRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	in := domain.NewCustomer{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            req.Email,
		Phone:            req.Phone,
		Note:             req.Note,
		Tags:             domain.ParseTags(req.Tags),
		AcceptsMarketing: req.AcceptsMarketing,
	}

	customer, userErrs, err := h.customers.CreateCustomer(ctx, in)
	if err != nil {
		respondError(w, h.logger, http.StatusBadGateway, "commerce_unavailable", "failed to create customer")
		return
	}
	if len(userErrs) > 0 {
		respondUserErrors(w, h.logger, userErrs)
		return
	}

	respondJSON(w, h.logger, http.StatusCreated, customer)
}
