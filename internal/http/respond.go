package http

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/shopadm/admin-gateway/internal/domain"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// UserErrorsResponse carries the platform's field-level validation errors
// verbatim so the console can render them next to the offending inputs.
type UserErrorsResponse struct {
	Success bool               `json:"success"`
	Errors  []domain.UserError `json:"errors"`
}

func respondJSON(w http.ResponseWriter, logger *zap.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, logger *zap.Logger, status int, code, message string) {
	respondJSON(w, logger, status, ErrorResponse{Error: message, Code: code})
}

func respondUserErrors(w http.ResponseWriter, logger *zap.Logger, errs []domain.UserError) {
	respondJSON(w, logger, http.StatusUnprocessableEntity, UserErrorsResponse{Success: false, Errors: errs})
}
