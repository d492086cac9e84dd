package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/minaato/minaato-backend/internal/idempotency"
	"github.com/minaato/minaato-backend/internal/metrics"
	"github.com/minaato/minaato-backend/internal/notify"
	"github.com/minaato/minaato-backend/internal/orders"
	"github.com/minaato/minaato-backend/internal/paystack"
)

// Gateway is the slice of the payment client the handlers depend on.
type Gateway interface {
	InitializeTransaction(ctx context.Context, email string, amount float64, orderID string) (*paystack.Authorization, error)
}

// EventGuard deduplicates webhook deliveries. Optional: a nil guard means
// every verified delivery is processed (the repository transition is
// idempotent on its own).
type EventGuard interface {
	CheckAndMark(ctx context.Context, eventRef, orderID string) (bool, error)
	Delete(ctx context.Context, eventRef string) error
	Get(ctx context.Context, eventRef string) (*idempotency.ProcessedEvent, error)
}

// HandlerConfig groups the dependencies the HTTP surface orchestrates.
type HandlerConfig struct {
	Repo          orders.Repository
	Gateway       Gateway
	Events        EventGuard
	Publisher     *notify.Publisher
	Metrics       *metrics.Recorder
	WebhookSecret string

	// checkout handoff targets
	WhatsAppNumber string
	OrderEmail     string

	Log zerolog.Logger
}

// RegisterRoutes mounts the full storefront API onto the engine.
func RegisterRoutes(r *gin.Engine, cfg HandlerConfig, payLimiter gin.HandlerFunc) {
	RegisterOrdersRoutes(r, cfg)
	RegisterPaymentsRoutes(r, cfg, payLimiter)
	RegisterCheckoutRoutes(r, cfg)
}
