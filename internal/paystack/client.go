package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// DefaultBaseURL is the live Paystack API endpoint.
const DefaultBaseURL = "https://api.paystack.co"

const defaultTimeout = 15 * time.Second

var errSecretKeyRequired = errors.New("paystack secret key is required")

// Config carries the credentials and knobs for the gateway client.
type Config struct {
	SecretKey string
	BaseURL   string        // defaults to DefaultBaseURL
	Currency  string        // defaults to GHS
	Timeout   time.Duration // bound on every outbound call
}

// Client talks to the Paystack transaction API. The secret key is held
// here and attached to outbound requests only; it is never logged or
// echoed into errors.
type Client struct {
	httpClient *http.Client
	baseURL    string
	secretKey  string
	currency   string
	log        zerolog.Logger
}

// NewClient validates the credentials and returns a configured client.
func NewClient(cfg Config, log zerolog.Logger) (*Client, error) {
	secret := strings.TrimSpace(cfg.SecretKey)
	if secret == "" {
		return nil, errSecretKeyRequired
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	currency := cfg.Currency
	if currency == "" {
		currency = "GHS"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		secretKey:  secret,
		currency:   currency,
		log:        log,
	}, nil
}

// MinorUnits converts a major-unit amount to the currency's minor unit
// (pesewas for GHS), rounding to the nearest integer.
func MinorUnits(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

type initializeRequest struct {
	Email    string `json:"email"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Metadata struct {
		OrderID string `json:"orderId"`
	} `json:"metadata"`
}

type initializeResponse struct {
	Status  bool          `json:"status"`
	Message string        `json:"message"`
	Data    Authorization `json:"data"`
}

// InitializeTransaction creates a gateway transaction for the given order
// and returns the redirect target. Any transport or gateway-side failure
// comes back as a *GatewayError; no order state is touched here.
func (c *Client) InitializeTransaction(ctx context.Context, email string, amount float64, orderID string) (*Authorization, error) {
	reqBody := initializeRequest{
		Email:    email,
		Amount:   MinorUnits(amount),
		Currency: c.currency,
	}
	reqBody.Metadata.OrderID = orderID

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, &GatewayError{Message: "encode initialize request", cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transaction/initialize", bytes.NewReader(payload))
	if err != nil {
		return nil, &GatewayError{Message: "build initialize request", cause: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error().Err(err).Str("order_id", orderID).Msg("paystack initialize transport failure")
		return nil, &GatewayError{Message: "initialize transaction", cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &GatewayError{StatusCode: resp.StatusCode, Message: "read initialize response", cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Error().
			Int("status", resp.StatusCode).
			Str("order_id", orderID).
			RawJSON("gateway_response", jsonOrNull(body)).
			Msg("paystack initialize rejected")
		return nil, &GatewayError{
			StatusCode: resp.StatusCode,
			Message:    "initialize transaction rejected",
			Detail:     jsonOrNull(body),
		}
	}

	var parsed initializeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &GatewayError{StatusCode: resp.StatusCode, Message: "decode initialize response", cause: err}
	}
	if !parsed.Status {
		return nil, &GatewayError{
			StatusCode: resp.StatusCode,
			Message:    parsed.Message,
			Detail:     jsonOrNull(body),
		}
	}

	return &parsed.Data, nil
}

// jsonOrNull passes valid JSON through so it can be embedded verbatim.
func jsonOrNull(body []byte) json.RawMessage {
	if json.Valid(body) {
		return body
	}
	return json.RawMessage("null")
}
