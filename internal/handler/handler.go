package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"derinfoods/internal/model"

	"github.com/rs/zerolog"
)

// ErrorResponse is the JSON error envelope returned by every handler.
type ErrorResponse struct {
	Error *model.DomainError `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError maps a service error to an HTTP status and writes the error
// envelope. Unknown errors are masked as a generic 500.
func writeError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if !errors.As(err, &domainErr) {
		logger.Error().Err(err).Msg("handler error")
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error: model.NewDomainError(model.ErrCodeInternalError, "Internal server error"),
		})
		return
	}

	status := statusForCode(domainErr.Code)
	logger.Warn().Str("code", domainErr.Code).Int("status", status).Msg("request rejected")
	writeJSON(w, status, ErrorResponse{Error: domainErr})
}

// statusForCode maps domain error codes to HTTP status codes.
func statusForCode(code string) int {
	switch code {
	case model.ErrCodeValidation, model.ErrCodeEmptyOrder, model.ErrCodeTotalMismatch,
		model.ErrCodeOrderNotCancellable, model.ErrCodeInsufficientStock,
		model.ErrCodeProductUnavailable, model.ErrCodePaymentNotSuccessful,
		model.ErrCodeInvalidSignature:
		return http.StatusBadRequest
	case model.ErrCodeNotFound, model.ErrCodePaymentNotFound:
		return http.StatusNotFound
	case model.ErrCodeNotAuthorized, model.ErrCodeInvalidCredentials:
		return http.StatusUnauthorized
	case model.ErrCodeForbidden:
		return http.StatusForbidden
	case model.ErrCodeEmailTaken:
		return http.StatusConflict
	case model.ErrCodeUpstreamUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
