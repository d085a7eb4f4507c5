package handler

import (
	"net/http"
	"testing"

	"derinfoods/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestStatusForCode(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{model.ErrCodeValidation, http.StatusBadRequest},
		{model.ErrCodeEmptyOrder, http.StatusBadRequest},
		{model.ErrCodeTotalMismatch, http.StatusBadRequest},
		{model.ErrCodeOrderNotCancellable, http.StatusBadRequest},
		{model.ErrCodeInsufficientStock, http.StatusBadRequest},
		{model.ErrCodeProductUnavailable, http.StatusBadRequest},
		{model.ErrCodePaymentNotSuccessful, http.StatusBadRequest},
		{model.ErrCodeInvalidSignature, http.StatusBadRequest},
		{model.ErrCodeNotFound, http.StatusNotFound},
		{model.ErrCodePaymentNotFound, http.StatusNotFound},
		{model.ErrCodeNotAuthorized, http.StatusUnauthorized},
		{model.ErrCodeInvalidCredentials, http.StatusUnauthorized},
		{model.ErrCodeForbidden, http.StatusForbidden},
		{model.ErrCodeEmailTaken, http.StatusConflict},
		{model.ErrCodeUpstreamUnavailable, http.StatusBadGateway},
		{model.ErrCodeInternalError, http.StatusInternalServerError},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, statusForCode(tt.code))
		})
	}
}
