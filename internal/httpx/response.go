package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"storefront/internal/dto"
	apperrors "storefront/internal/errors"
)

const maxBodyBytes = 1 << 20

func WriteJSON(w http.ResponseWriter, logger *zap.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

// WriteError maps the error taxonomy to a status code and error body. Unclassified errors
// are logged and answered with a generic 500.
func WriteError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	status, body := classify(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("requestId", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	WriteJSON(w, logger, status, body)
}

func classify(err error) (int, dto.ErrorResponse) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		return http.StatusBadRequest, dto.ErrorResponse{Error: ve.Message, Code: "VALIDATION_ERROR", Details: ve.Details}
	}
	if ue, ok := apperrors.IsUnauthorizedError(err); ok {
		return http.StatusUnauthorized, dto.ErrorResponse{Error: ue.Message, Code: "UNAUTHORIZED"}
	}
	if fe, ok := apperrors.IsForbiddenError(err); ok {
		return http.StatusForbidden, dto.ErrorResponse{Error: fe.Message, Code: "FORBIDDEN"}
	}
	if nfe, ok := apperrors.IsNotFoundError(err); ok {
		return http.StatusNotFound, dto.ErrorResponse{Error: nfe.Message, Code: "NOT_FOUND"}
	}
	if ce, ok := apperrors.IsConflictError(err); ok {
		return http.StatusConflict, dto.ErrorResponse{Error: ce.Message, Code: "CONFLICT", Details: ce.Details}
	}
	if de, ok := apperrors.IsDeadlockError(err); ok {
		return http.StatusConflict, dto.ErrorResponse{Error: de.Message, Code: "DEADLOCK"}
	}
	return http.StatusInternalServerError, dto.ErrorResponse{Error: "an unexpected error occurred", Code: "INTERNAL_ERROR"}
}

// DecodeJSON decodes a bounded request body into dst, rejecting unknown shapes with a
// validation error.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.NewValidationError("invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
	}
	return nil
}
