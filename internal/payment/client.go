// Package payment provides the HTTP client for the external payment
// processor and webhook signature verification.
package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"derinfoods/internal/model"

	"github.com/rs/zerolog"
)

// Transaction describes the processor's record of a payment attempt.
// Amount is in kobo, as the processor reports it.
type Transaction struct {
	ID            int64     `json:"id"`
	Reference     string    `json:"reference"`
	Status        string    `json:"status"`
	Amount        int64     `json:"amount"`
	Currency      string    `json:"currency"`
	PaidAt        time.Time `json:"paid_at"`
	CustomerEmail string    `json:"customer_email"`
}

// Successful reports whether the processor settled the transaction.
func (t *Transaction) Successful() bool {
	return t.Status == "success"
}

type verifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		ID        int64     `json:"id"`
		Reference string    `json:"reference"`
		Status    string    `json:"status"`
		Amount    int64     `json:"amount"`
		Currency  string    `json:"currency"`
		PaidAt    time.Time `json:"paid_at"`
		Customer  struct {
			Email string `json:"email"`
		} `json:"customer"`
	} `json:"data"`
}

// Client encapsulates HTTP access to the payment processor's verify API.
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a payment processor client with a bounded request timeout.
func NewClient(baseURL, secretKey string, timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		secretKey: secretKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.With().Str("client", "payment").Logger(),
	}
}

// VerifyTransaction queries the processor for the transaction matching the
// given reference. A timeout or processor-side failure is reported as
// ErrUpstreamUnavailable so callers retry instead of treating it as a
// declined payment.
func (c *Client) VerifyTransaction(ctx context.Context, reference string) (*Transaction, error) {
	url := fmt.Sprintf("%s/transaction/verify/%s", c.baseURL, reference)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("reference", reference).Msg("payment processor unreachable")
		return nil, fmt.Errorf("%w: %s", model.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, model.ErrPaymentNotFound
	case resp.StatusCode >= http.StatusInternalServerError:
		c.logger.Warn().
			Int("status", resp.StatusCode).
			Str("reference", reference).
			Msg("payment processor error")
		return nil, fmt.Errorf("%w: processor returned %d", model.ErrUpstreamUnavailable, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("unexpected processor status: %d", resp.StatusCode)
	}

	var body verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode processor response: %w", err)
	}

	if !body.Status {
		return nil, model.ErrPaymentNotFound
	}

	return &Transaction{
		ID:            body.Data.ID,
		Reference:     body.Data.Reference,
		Status:        body.Data.Status,
		Amount:        body.Data.Amount,
		Currency:      body.Data.Currency,
		PaidAt:        body.Data.PaidAt,
		CustomerEmail: body.Data.Customer.Email,
	}, nil
}

// Retryable reports whether a verification error is transient and worth
// retrying rather than a definitive answer from the processor.
func Retryable(err error) bool {
	return errors.Is(err, model.ErrUpstreamUnavailable)
}

// VerifySignature checks a webhook payload's HMAC-SHA512 signature against
// the shared processor secret. Comparison is constant-time.
func VerifySignature(secretKey string, payload []byte, signature string) bool {
	if signature == "" {
		return false
	}

	mac := hmac.New(sha512.New, []byte(secretKey))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
