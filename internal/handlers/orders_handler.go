package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/minaato/minaato-backend/internal/metrics"
	"github.com/minaato/minaato-backend/internal/notify"
	"github.com/minaato/minaato-backend/internal/validation"
)

// RegisterOrdersRoutes mounts order submission and lookup.
func RegisterOrdersRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()

	r.POST("/orders", func(c *gin.Context) {
		ctx := c.Request.Context()

		// A malformed body validates like an empty one: the field errors
		// tell the client what is missing.
		var payload validation.CheckoutPayload
		_ = c.ShouldBindJSON(&payload)

		draft, fieldErrors := v.Validate(payload)
		if len(fieldErrors) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "Invalid order payload",
					"details": fieldErrors,
				},
			})
			return
		}

		order, err := cfg.Repo.Create(ctx, draft)
		if err != nil {
			cfg.Log.Error().Err(err).Msg("failed to persist order")
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   gin.H{"code": "INTERNAL_ERROR", "message": "Failed to create order"},
			})
			return
		}

		cfg.Log.Info().Str("order_id", order.ID).Float64("total", order.Total).Msg("order created")
		cfg.Metrics.Count(ctx, metrics.MetricOrdersCreated)

		if err := cfg.Publisher.Publish(ctx, notify.OrderEvent{
			Type:    notify.TypeOrderCreated,
			OrderID: order.ID,
			Total:   order.Total,
		}, map[string]string{"correlation_id": c.GetHeader("X-Request-Id")}); err != nil {
			// the order is already persisted; a lost notification is not a
			// client-facing failure
			cfg.Log.Warn().Err(err).Str("order_id", order.ID).Msg("order.created notification failed")
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
	})

	r.GET("/orders/:id", func(c *gin.Context) {
		order, err := cfg.Repo.FindByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			cfg.Log.Error().Err(err).Str("order_id", c.Param("id")).Msg("order lookup failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Lookup failed"})
			return
		}
		if order == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"order": order})
	})
}
