package idempotency

import "time"

// ProcessedEvent records one handled gateway webhook delivery, keyed by the
// gateway's event reference. ExpiresAt drives the table's TTL so the set
// of remembered deliveries stays bounded.
type ProcessedEvent struct {
	EventRef    string    `dynamodbav:"event_ref"` // PK
	OrderID     string    `dynamodbav:"order_id,omitempty"`
	ProcessedAt time.Time `dynamodbav:"processed_at"`
	ExpiresAt   int64     `dynamodbav:"expires_at"` // TTL epoch seconds
}
