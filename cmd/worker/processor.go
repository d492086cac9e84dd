package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/minaato/minaato-backend/internal/cart"
	"github.com/minaato/minaato-backend/internal/metrics"
	"github.com/minaato/minaato-backend/internal/notify"
	"github.com/minaato/minaato-backend/internal/orders"
)

// Processor consumes order lifecycle events from the queue and turns
// them into merchant notifications. Processing is idempotent: a
// redelivered event produces at worst a duplicate notification, never a
// state change.
type Processor struct {
	repo    orders.Repository
	metrics *metrics.Recorder
	log     zerolog.Logger

	whatsAppNumber string
	orderEmail     string
}

// NewProcessor wires a Processor over an order store.
func NewProcessor(repo orders.Repository, rec *metrics.Recorder, log zerolog.Logger, whatsAppNumber, orderEmail string) *Processor {
	return &Processor{
		repo:           repo,
		metrics:        rec,
		log:            log,
		whatsAppNumber: whatsAppNumber,
		orderEmail:     orderEmail,
	}
}

// Handle receives an SQS batch and processes each record. A returned
// error makes the runtime retry the batch and eventually dead-letter it.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	p.log.Info().Int("records", len(ev.Records)).Msg("received queue batch")
	for _, rec := range ev.Records {
		if err := p.processRecord(ctx, rec); err != nil {
			p.log.Error().Err(err).Str("message_id", rec.MessageId).Msg("record processing failed")
			return err
		}
	}
	return nil
}

func (p *Processor) processRecord(ctx context.Context, rec events.SQSMessage) error {
	var event notify.OrderEvent
	if err := json.Unmarshal([]byte(rec.Body), &event); err != nil {
		return fmt.Errorf("invalid event body: %w", err)
	}

	switch event.Type {
	case notify.TypeOrderCreated, notify.TypeOrderPaid:
	default:
		// unknown types are acked, not retried
		p.log.Warn().Str("type", event.Type).Msg("ignoring unknown event type")
		return nil
	}

	order, err := p.repo.FindByID(ctx, event.OrderID)
	if err != nil {
		return fmt.Errorf("fetch order %s: %w", event.OrderID, err)
	}
	if order == nil {
		return fmt.Errorf("order not found: %s", event.OrderID)
	}

	for _, n := range p.buildNotifications(event.Type, order) {
		// no messaging provider is wired yet, so delivery is the log line
		// the merchant dashboard tails
		p.log.Info().
			Str("channel", n.Channel).
			Str("target", n.Target).
			Str("order_id", order.ID).
			Str("event_type", event.Type).
			Str("body", n.Body).
			Msg("merchant notification")
		p.metrics.Count(ctx, metrics.MetricNotificationsSent)
	}

	return nil
}

func (p *Processor) buildNotifications(eventType string, order *orders.Order) []Notification {
	subject := "New order " + order.ID
	if eventType == notify.TypeOrderPaid {
		subject = "Payment received for " + order.ID
	}

	body := subject + "\n\n" + cart.OrderMessage(order.Items, decimal.NewFromFloat(order.Total), cart.CheckoutDetails{
		Name:           order.Name,
		Phone:          order.Phone,
		Address:        order.Address,
		DeliveryOption: order.DeliveryOption,
	})

	var out []Notification
	if p.whatsAppNumber != "" {
		out = append(out, Notification{
			Channel: "whatsapp",
			Target:  p.whatsAppNumber,
			Body:    body,
		})
	}
	if p.orderEmail != "" {
		out = append(out, Notification{
			Channel: "email",
			Target:  p.orderEmail,
			Subject: subject,
			Body:    body,
		})
	}
	return out
}
