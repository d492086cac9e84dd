package idempotency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"github.com/minaato/minaato-backend/internal/aws"
)

// Store deduplicates webhook deliveries against DynamoDB. The gateway
// retries deliveries, so the same event reference can arrive more than
// once; the conditional put makes the first delivery win.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	ttlWindow time.Duration
	nowFunc   func() time.Time
}

// NewStore returns a store bound to a table. ttlWindow bounds how long a
// delivery is remembered (e.g. 48h, comfortably past gateway retry spans).
func NewStore(client aws.DynamoDBAPI, tableName string, ttlWindow time.Duration) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		ttlWindow: ttlWindow,
		nowFunc:   time.Now,
	}
}

// CheckAndMark records the event reference. Returns (true, nil) when the
// reference was already recorded, meaning the delivery is a replay.
func (s *Store) CheckAndMark(ctx context.Context, eventRef, orderID string) (bool, error) {
	now := s.nowFunc()
	rec := ProcessedEvent{
		EventRef:    eventRef,
		OrderID:     orderID,
		ProcessedAt: now,
		ExpiresAt:   now.Add(s.ttlWindow).Unix(),
	}

	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return false, fmt.Errorf("marshal processed event: %w", err)
	}

	input := &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(event_ref)"),
	}

	if _, err := s.client.PutItem(ctx, input); err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "ConditionalCheckFailedException" {
			return true, nil
		}
		var cf *types.ConditionalCheckFailedException
		if errors.As(err, &cf) {
			return true, nil
		}
		return false, fmt.Errorf("put processed event: %w", err)
	}
	return false, nil
}

// Delete releases a recorded event reference so a later redelivery can be
// processed again. Used when handling fails after the reference was marked.
func (s *Store) Delete(ctx context.Context, eventRef string) error {
	_, err := s.client.DeleteItem(ctx, &dyn.DeleteItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"event_ref": &types.AttributeValueMemberS{Value: eventRef},
		},
	})
	if err != nil {
		return fmt.Errorf("delete processed event: %w", err)
	}
	return nil
}

// Get retrieves a processed-event record. Returns (nil, nil) if not found.
func (s *Store) Get(ctx context.Context, eventRef string) (*ProcessedEvent, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"event_ref": &types.AttributeValueMemberS{Value: eventRef},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get processed event: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var rec ProcessedEvent
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal processed event: %w", err)
	}
	return &rec, nil
}

func awsString(s string) *string { return &s }
