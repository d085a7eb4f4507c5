package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestCORS(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		origin         string
		allowed        []string
		expectedStatus int
		expectHandler  bool
		expectedOrigin string
	}{
		{
			name:           "Preflight request",
			method:         http.MethodOptions,
			origin:         "https://shop.example.com",
			allowed:        []string{"https://shop.example.com"},
			expectedStatus: http.StatusNoContent,
			expectHandler:  false,
			expectedOrigin: "https://shop.example.com",
		},
		{
			name:           "Allowed origin echoed",
			method:         http.MethodGet,
			origin:         "https://shop.example.com",
			allowed:        []string{"https://shop.example.com"},
			expectedStatus: http.StatusOK,
			expectHandler:  true,
			expectedOrigin: "https://shop.example.com",
		},
		{
			name:           "Disallowed origin gets no CORS grant",
			method:         http.MethodGet,
			origin:         "https://evil.example.com",
			allowed:        []string{"https://shop.example.com"},
			expectedStatus: http.StatusOK,
			expectHandler:  true,
			expectedOrigin: "",
		},
		{
			name:           "Empty allowlist allows any origin",
			method:         http.MethodGet,
			origin:         "https://anywhere.example.com",
			allowed:        nil,
			expectedStatus: http.StatusOK,
			expectHandler:  true,
			expectedOrigin: "*",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				w.WriteHeader(http.StatusOK)
			})

			handler := CORS(tt.allowed)(testHandler)

			req := httptest.NewRequest(tt.method, "/test", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectHandler, handlerCalled)
			assert.Equal(t, tt.expectedOrigin, w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "GET, POST, PUT, DELETE, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
		})
	}
}

func TestLogging(t *testing.T) {
	logger := zerolog.Nop()

	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	handler := Logging(logger)(testHandler)

	req := httptest.NewRequest(http.MethodPost, "/test", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestRecovery(t *testing.T) {
	logger := zerolog.Nop()

	panicHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("something went wrong")
	})

	handler := Recovery(logger)(panicHandler)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()

	assert.NotPanics(t, func() {
		handler.ServeHTTP(w, req)
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
}
