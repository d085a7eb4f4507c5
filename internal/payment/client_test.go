package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"derinfoods/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_VerifyTransaction_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/verify/DF-abc123", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_x", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": true,
			"message": "Verification successful",
			"data": {
				"id": 4099260516,
				"reference": "DF-abc123",
				"status": "success",
				"amount": 1500000,
				"currency": "NGN",
				"paid_at": "2025-06-01T10:00:00Z",
				"customer": {"email": "ada@example.com"}
			}
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk_test_x", 5*time.Second, zerolog.Nop())

	tx, err := client.VerifyTransaction(context.Background(), "DF-abc123")
	require.NoError(t, err)
	require.NotNil(t, tx)

	assert.Equal(t, "DF-abc123", tx.Reference)
	assert.Equal(t, int64(1500000), tx.Amount)
	assert.Equal(t, "ada@example.com", tx.CustomerEmail)
	assert.True(t, tx.Successful())
}

func TestClient_VerifyTransaction_FailedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": true,
			"message": "Verification successful",
			"data": {"reference": "DF-failed", "status": "failed", "amount": 100000, "currency": "NGN", "customer": {"email": ""}}
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk_test_x", 5*time.Second, zerolog.Nop())

	tx, err := client.VerifyTransaction(context.Background(), "DF-failed")
	require.NoError(t, err)
	require.NotNil(t, tx)
	assert.False(t, tx.Successful())
}

func TestClient_VerifyTransaction_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk_test_x", 5*time.Second, zerolog.Nop())

	tx, err := client.VerifyTransaction(context.Background(), "missing")
	assert.Nil(t, tx)
	assert.ErrorIs(t, err, model.ErrPaymentNotFound)
	assert.False(t, Retryable(err))
}

func TestClient_VerifyTransaction_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk_test_x", 5*time.Second, zerolog.Nop())

	tx, err := client.VerifyTransaction(context.Background(), "ref")
	assert.Nil(t, tx)
	assert.ErrorIs(t, err, model.ErrUpstreamUnavailable)
	assert.True(t, Retryable(err))
}

func TestClient_VerifyTransaction_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk_test_x", 50*time.Millisecond, zerolog.Nop())

	tx, err := client.VerifyTransaction(context.Background(), "slow")
	assert.Nil(t, tx)
	assert.ErrorIs(t, err, model.ErrUpstreamUnavailable)
	assert.True(t, Retryable(err))
}

func sign(secret string, payload []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	secret := "sk_test_secret"
	payload := []byte(`{"event":"charge.success","data":{"reference":"DF-abc"}}`)

	tests := []struct {
		name      string
		payload   []byte
		signature string
		valid     bool
	}{
		{"Valid signature", payload, sign(secret, payload), true},
		{"Wrong secret", payload, sign("sk_other", payload), false},
		{"Tampered payload", []byte(`{"event":"charge.success","data":{"reference":"DF-xyz"}}`), sign(secret, payload), false},
		{"Empty signature", payload, "", false},
		{"Garbage signature", payload, "not-hex", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, VerifySignature(secret, tt.payload, tt.signature))
		})
	}
}
