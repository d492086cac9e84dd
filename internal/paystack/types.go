package paystack

import (
	"encoding/json"
	"fmt"
)

// Authorization is the successful result of initializing a transaction:
// where to send the buyer, and the gateway's reference for the charge.
type Authorization struct {
	AuthorizationURL string `json:"authorization_url"`
	Reference        string `json:"reference"`
}

// GatewayError reports a failed gateway interaction. Detail carries the
// gateway's own error payload when one was returned; it never contains
// the secret key.
type GatewayError struct {
	StatusCode int
	Message    string
	Detail     json.RawMessage
	cause      error
}

func (e *GatewayError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("paystack: %s: %v", e.Message, e.cause)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("paystack: %s (status %d)", e.Message, e.StatusCode)
	}
	return "paystack: " + e.Message
}

func (e *GatewayError) Unwrap() error { return e.cause }

// Event is an inbound webhook event. Only charge.success events carry an
// order id this system acts on.
type Event struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
		Metadata  struct {
			OrderID string `json:"orderId"`
		} `json:"metadata"`
	} `json:"data"`
}

// chargeSuccess is the only event type that confirms payment.
const chargeSuccess = "charge.success"

// OrderID returns the order referenced by a successful charge, and false
// for any other event type or a missing reference.
func (e Event) OrderID() (string, bool) {
	if e.Event != chargeSuccess || e.Data.Metadata.OrderID == "" {
		return "", false
	}
	return e.Data.Metadata.OrderID, true
}

// ParseEvent decodes a raw webhook body.
func ParseEvent(raw []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return Event{}, fmt.Errorf("decode webhook event: %w", err)
	}
	return ev, nil
}
