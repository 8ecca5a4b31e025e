package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopadm/admin-gateway/internal/checkout"
	"github.com/shopadm/admin-gateway/internal/domain"
)

// Submitter drives the draft-create / draft-complete sequence.
type Submitter interface {
	Submit(ctx context.Context, sub domain.OrderSubmission) (domain.SubmissionOutcome, error)
}

type CheckoutHandler struct {
	sequencer Submitter
	carts     CartService
	timeout   time.Duration
	logger    *zap.Logger
}

func NewCheckoutHandler(sequencer Submitter, carts CartService, timeout time.Duration, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		sequencer: sequencer,
		carts:     carts,
		timeout:   timeout,
		logger:    logger,
	}
}

type CheckoutRequestDTO struct {
	CustomerID     string `json:"customer_id,omitempty"`
	Tags           string `json:"tags,omitempty"`
	Notes          string `json:"notes,omitempty"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

type CheckoutResponseDTO struct {
	Success    bool   `json:"success"`
	RedirectTo string `json:"redirect_to,omitempty"`
}

// POST /api/v1/checkout
//
// Turns the session cart into a real order. On success the cart is discarded
// and the console is told where to navigate; on failure the platform's field
// errors come back verbatim for the console to render.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := getSessionID(r.Context())
	if sessionID == "" {
		respondError(w, h.logger, http.StatusUnauthorized, "unauthorized", "missing admin session")
		return
	}

	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.IdempotencyKey == "" {
		req.IdempotencyKey = uuid.NewString()
	}

	cart, err := h.carts.Get(ctx, sessionID)
	if err != nil {
		respondError(w, h.logger, http.StatusInternalServerError, "internal_error", "failed to load cart")
		return
	}

	sub := domain.NewOrderSubmission(cart, req.CustomerID, req.Tags, req.Notes, req.IdempotencyKey)
	outcome, err := h.sequencer.Submit(ctx, sub)
	if errors.Is(err, checkout.ErrEmptyCart) {
		respondError(w, h.logger, http.StatusBadRequest, "empty_cart", "cart is empty, nothing to checkout")
		return
	}
	if err != nil {
		h.logger.Error("checkout submit failed",
			zap.String("request_id", getRequestID(r.Context())), zap.Error(err))
		respondError(w, h.logger, http.StatusInternalServerError, "internal_error", "checkout failed")
		return
	}

	if !outcome.Success {
		respondUserErrors(w, h.logger, outcome.Errors)
		return
	}

	// The cart only goes away once the order is real.
	if err := h.carts.Clear(ctx, sessionID); err != nil {
		h.logger.Warn("cart clear after checkout failed",
			zap.String("request_id", getRequestID(r.Context())),
			zap.String("session_id", sessionID), zap.Error(err))
	}

	respondJSON(w, h.logger, http.StatusCreated, CheckoutResponseDTO{
		Success:    true,
		RedirectTo: "/orders",
	})
}
