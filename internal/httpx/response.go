package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"ristorante/internal/dto"
	apperrors "ristorante/internal/errors"
)

const (
	CodeNotFound   = "NOT_FOUND"
	CodeConflict   = "CONFLICT"
	CodeValidation = "VALIDATION_ERROR"
	CodeInternal   = "INTERNAL_ERROR"
)

func WriteJSON(w http.ResponseWriter, status int, data interface{}, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

// WriteError maps a service error onto its HTTP status. Internal errors are
// logged with their cause and report only their message; untyped errors are
// logged and reported with a generic message.
func WriteError(w http.ResponseWriter, r *http.Request, err error, logger *zap.Logger) {
	traceID := middleware.GetReqID(r.Context())

	if nfe, ok := apperrors.IsNotFoundError(err); ok {
		writeErrorResponse(w, traceID, http.StatusNotFound, CodeNotFound, nfe.Message, nil, logger)
		return
	}

	if ce, ok := apperrors.IsConflictError(err); ok {
		writeErrorResponse(w, traceID, http.StatusConflict, CodeConflict, ce.Message, nil, logger)
		return
	}

	if ve, ok := apperrors.IsValidationError(err); ok {
		writeErrorResponse(w, traceID, http.StatusBadRequest, CodeValidation, ve.Message, ve.Details, logger)
		return
	}

	if ie, ok := apperrors.IsInternalError(err); ok {
		logger.Error("internal error",
			zap.String("traceId", traceID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("message", ie.Message),
			zap.Error(ie.Cause),
		)
		writeErrorResponse(w, traceID, http.StatusInternalServerError, CodeInternal, ie.Message, nil, logger)
		return
	}

	logger.Error("unexpected error",
		zap.String("traceId", traceID),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	writeErrorResponse(w, traceID, http.StatusInternalServerError, CodeInternal, "an unexpected error occurred", nil, logger)
}

func writeErrorResponse(w http.ResponseWriter, traceID string, status int, code, message string, details []apperrors.ValidationDetail, logger *zap.Logger) {
	WriteJSON(w, status, dto.ErrorResponse{
		TraceID:   traceID,
		Status:    status,
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}, logger)
}

// DecodeJSON decodes the request body into v. A missing or malformed body is
// reported as a ValidationError.
func DecodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		message := "request body must be valid JSON"
		if errors.Is(err, io.EOF) {
			message = "request body is required"
		}
		return apperrors.NewValidationError("invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: message,
		})
	}
	return nil
}
