package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order statuses. An order is created pending and moves to paid exactly
// once, on a verified gateway callback. There are no other transitions.
const (
	StatusPending = "pending"
	StatusPaid    = "paid"
)

// CartLine is one product line of a submitted cart.
type CartLine struct {
	ID    string  `json:"id" dynamodbav:"id"`
	Name  string  `json:"name" dynamodbav:"name"`
	Price float64 `json:"price" dynamodbav:"price"`
	Qty   int     `json:"qty" dynamodbav:"qty"`
}

// OrderDraft is a validated, not-yet-persisted checkout payload.
type OrderDraft struct {
	Name           string     `json:"name"`
	Phone          string     `json:"phone"`
	Address        string     `json:"address"`
	DeliveryOption string     `json:"deliveryOption"`
	Items          []CartLine `json:"items"`
}

// Order is the persisted record. Total is fixed at creation time and never
// recomputed.
type Order struct {
	ID             string     `json:"id" dynamodbav:"order_id"`
	Name           string     `json:"name" dynamodbav:"name"`
	Phone          string     `json:"phone" dynamodbav:"phone"`
	Address        string     `json:"address" dynamodbav:"address"`
	DeliveryOption string     `json:"deliveryOption" dynamodbav:"delivery_option"`
	Items          []CartLine `json:"items" dynamodbav:"items"`
	Total          float64    `json:"total" dynamodbav:"total"`
	Status         string     `json:"status" dynamodbav:"status"`
	CreatedAt      time.Time  `json:"createdAt" dynamodbav:"created_at"`
	PaidAt         *time.Time `json:"paidAt,omitempty" dynamodbav:"paid_at,omitempty"`
}

// NewOrderID returns a fresh order id. The ORD- prefix is part of the
// public id format; the UUID suffix closes the collision window a
// timestamp-only id has under rapid creation.
func NewOrderID() string {
	return "ORD-" + uuid.NewString()
}

// DraftTotal sums price x qty over the draft's items with decimal
// arithmetic so float accumulation cannot drift the stored total.
func DraftTotal(items []CartLine) float64 {
	sum := decimal.Zero
	for _, it := range items {
		line := decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Qty)))
		sum = sum.Add(line)
	}
	f, _ := sum.Float64()
	return f
}
