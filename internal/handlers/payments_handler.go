package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/minaato/minaato-backend/internal/metrics"
	"github.com/minaato/minaato-backend/internal/notify"
	"github.com/minaato/minaato-backend/internal/paystack"
)

type initializePaymentRequest struct {
	Email     string  `json:"email"`
	AmountGHS float64 `json:"amountGHS"`
	OrderID   string  `json:"orderId"`
}

// RegisterPaymentsRoutes mounts payment initialization and the gateway
// webhook. payLimiter guards initialization against floods; pass nil to
// mount it unguarded.
func RegisterPaymentsRoutes(r *gin.Engine, cfg HandlerConfig, payLimiter gin.HandlerFunc) {
	handlers := []gin.HandlerFunc{}
	if payLimiter != nil {
		handlers = append(handlers, payLimiter)
	}
	handlers = append(handlers, initializePayment(cfg))
	r.POST("/payments/initialize", handlers...)

	r.POST("/payments/webhook", gatewayWebhook(cfg))
}

func initializePayment(cfg HandlerConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req initializePaymentRequest
		_ = c.ShouldBindJSON(&req)
		if req.Email == "" || req.AmountGHS <= 0 || req.OrderID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing email, amountGHS or orderId"})
			return
		}

		auth, err := cfg.Gateway.InitializeTransaction(c.Request.Context(), req.Email, req.AmountGHS, req.OrderID)
		if err != nil {
			var gwErr *paystack.GatewayError
			detail := any(err.Error())
			if errors.As(err, &gwErr) && len(gwErr.Detail) > 0 {
				detail = gwErr.Detail
			}
			cfg.Log.Error().Err(err).Str("order_id", req.OrderID).Msg("payment initialization failed")
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Failed to initialize payment",
				"details": detail,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"authorization_url": auth.AuthorizationURL,
			"reference":         auth.Reference,
		})
	}
}

// gatewayWebhook is the payment-confirmation path. Signature verification
// is the security boundary: nothing is read from the event before the
// body authenticates, and a bad signature changes no state.
func gatewayWebhook(cfg HandlerConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		rawBody, err := c.GetRawData()
		if err != nil {
			c.String(http.StatusBadRequest, "Could not read body")
			return
		}

		signature := c.GetHeader(paystack.SignatureHeader)
		if !paystack.VerifySignature(rawBody, signature, cfg.WebhookSecret) {
			cfg.Log.Warn().
				Str("remote_addr", c.ClientIP()).
				Bool("signature_present", signature != "").
				Msg("webhook rejected: invalid signature")
			cfg.Metrics.Count(ctx, metrics.MetricWebhookSignatureFailures)
			c.String(http.StatusUnauthorized, "Invalid signature")
			return
		}

		event, err := paystack.ParseEvent(rawBody)
		if err != nil {
			// authenticated but unparseable; ack so the gateway stops retrying
			cfg.Log.Warn().Err(err).Msg("webhook event unparseable")
			c.String(http.StatusOK, "OK")
			return
		}

		orderID, ok := event.OrderID()
		if !ok {
			c.String(http.StatusOK, "OK")
			return
		}

		eventRef := event.Data.Reference
		if cfg.Events != nil && eventRef != "" {
			seen, err := cfg.Events.CheckAndMark(ctx, eventRef, orderID)
			if err != nil {
				// dedup is an optimization; MarkPaid is idempotent on its own
				cfg.Log.Warn().Err(err).Str("event_ref", eventRef).Msg("webhook dedup check failed")
			} else if seen {
				entry := cfg.Log.Info().Str("event_ref", eventRef).Str("order_id", orderID)
				if first, err := cfg.Events.Get(ctx, eventRef); err == nil && first != nil {
					entry = entry.Time("first_processed_at", first.ProcessedAt)
				}
				entry.Msg("webhook replay ignored")
				c.String(http.StatusOK, "OK")
				return
			}
		}

		transitioned, err := cfg.Repo.MarkPaid(ctx, orderID)
		if err != nil {
			if cfg.Events != nil && eventRef != "" {
				_ = cfg.Events.Delete(ctx, eventRef)
			}
			cfg.Log.Error().Err(err).Str("order_id", orderID).Msg("failed to mark order paid")
			c.String(http.StatusInternalServerError, "Error")
			return
		}

		if transitioned {
			cfg.Log.Info().Str("order_id", orderID).Str("event_ref", eventRef).Msg("order paid")
			cfg.Metrics.Count(ctx, metrics.MetricOrdersPaid)
			if err := cfg.Publisher.Publish(ctx, notify.OrderEvent{
				Type:    notify.TypeOrderPaid,
				OrderID: orderID,
			}, map[string]string{"event_ref": eventRef}); err != nil {
				cfg.Log.Warn().Err(err).Str("order_id", orderID).Msg("order.paid notification failed")
			}
		} else {
			cfg.Log.Info().Str("order_id", orderID).Msg("webhook for missing or already-paid order")
		}

		c.String(http.StatusOK, "OK")
	}
}
