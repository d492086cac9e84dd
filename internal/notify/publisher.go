package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"github.com/minaato/minaato-backend/internal/aws"
)

// Event types published onto the orders queue.
const (
	TypeOrderCreated = "order.created"
	TypeOrderPaid    = "order.paid"
)

// OrderEvent is the message the API publishes and the worker consumes.
type OrderEvent struct {
	Type    string  `json:"type"`
	OrderID string  `json:"order_id"`
	Total   float64 `json:"total"`
}

// Publisher sends order lifecycle events to SQS. A nil Publisher is a
// no-op, so deployments without a queue skip notifications cleanly.
type Publisher struct {
	sqsClient aws.SQSAPI
	queueURL  string
}

// NewPublisher returns a Publisher bound to a queue URL.
func NewPublisher(sqsClient aws.SQSAPI, queueURL string) *Publisher {
	return &Publisher{
		sqsClient: sqsClient,
		queueURL:  queueURL,
	}
}

// Publish sends one event. attributes are attached as string message
// attributes (correlation ids and the like).
func (p *Publisher) Publish(ctx context.Context, event OrderEvent, attributes map[string]string) error {
	if p == nil || p.queueURL == "" {
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}
	messageBody := string(body)

	input := &sqs.SendMessageInput{
		QueueUrl:    &p.queueURL,
		MessageBody: &messageBody,
	}
	// SQS rejects empty attribute values, and callers pass through
	// optional fields like correlation ids verbatim.
	msgAttrs := map[string]sqstypes.MessageAttributeValue{}
	for k, v := range attributes {
		if v == "" {
			continue
		}
		msgAttrs[k] = sqstypes.MessageAttributeValue{
			DataType:    awsString("String"),
			StringValue: awsString(v),
		}
	}
	if len(msgAttrs) > 0 {
		input.MessageAttributes = msgAttrs
	}

	if _, err := p.sqsClient.SendMessage(ctx, input); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

func awsString(s string) *string { return &s }
