package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/minaato/minaato-backend/internal/cart"
	"github.com/minaato/minaato-backend/internal/orders"
)

type quoteRequest struct {
	Name           string            `json:"name"`
	Phone          string            `json:"phone"`
	Address        string            `json:"address"`
	DeliveryOption string            `json:"deliveryOption"`
	Notes          string            `json:"notes"`
	Items          []orders.CartLine `json:"items"`
}

// RegisterCheckoutRoutes mounts the WhatsApp/email handoff quote. The
// storefront calls it to turn the current cart into prefilled order
// messages without creating a server-side order.
func RegisterCheckoutRoutes(r *gin.Engine, cfg HandlerConfig) {
	r.POST("/checkout/quote", func(c *gin.Context) {
		var req quoteRequest
		_ = c.ShouldBindJSON(&req)
		if len(req.Items) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "At least one item is required"})
			return
		}

		basket := cart.New(req.Items...)
		total := basket.Total()
		message := cart.OrderMessage(basket.Lines(), total, cart.CheckoutDetails{
			Name:           req.Name,
			Phone:          req.Phone,
			Address:        req.Address,
			DeliveryOption: req.DeliveryOption,
			Notes:          req.Notes,
		})

		totalValue, _ := total.Float64()
		resp := gin.H{
			"total":     totalValue,
			"formatted": cart.FormatAmount(total),
		}
		if cfg.WhatsAppNumber != "" {
			resp["whatsappUrl"] = cart.WhatsAppURL(cfg.WhatsAppNumber, message)
		}
		if cfg.OrderEmail != "" {
			subject := "Order - " + req.Name
			resp["mailtoUrl"] = cart.MailtoURL(cfg.OrderEmail, subject, message)
		}
		c.JSON(http.StatusOK, resp)
	})
}
