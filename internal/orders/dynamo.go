package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/minaato/minaato-backend/internal/aws"
)

// DynamoStore persists orders in a DynamoDB table keyed by order_id.
// Conditional writes give it the per-order mutual exclusion the
// whole-collection file store cannot: concurrent creates cannot collide
// and MarkPaid transitions pending -> paid exactly once.
type DynamoStore struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewDynamoStore creates a store bound to a table.
func NewDynamoStore(client aws.DynamoDBAPI, tableName string) *DynamoStore {
	return &DynamoStore{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// Create assigns an id and creation timestamp, computes the total and
// persists the order as pending. The conditional put guards against the
// (unlikely) id collision rather than silently overwriting.
func (s *DynamoStore) Create(ctx context.Context, draft OrderDraft) (Order, error) {
	order := Order{
		ID:             NewOrderID(),
		Name:           draft.Name,
		Phone:          draft.Phone,
		Address:        draft.Address,
		DeliveryOption: draft.DeliveryOption,
		Items:          draft.Items,
		Total:          DraftTotal(draft.Items),
		Status:         StatusPending,
		CreatedAt:      s.nowFunc().UTC(),
	}

	item, err := attributevalue.MarshalMap(order)
	if err != nil {
		return Order{}, fmt.Errorf("marshal order: %w", err)
	}

	input := &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(order_id)"),
	}
	if _, err := s.client.PutItem(ctx, input); err != nil {
		return Order{}, fmt.Errorf("put order: %w", err)
	}
	return order, nil
}

// FindByID fetches an order by id. Returns (nil, nil) if not found.
func (s *DynamoStore) FindByID(ctx context.Context, id string) (*Order, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"order_id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var o Order
	if err := attributevalue.UnmarshalMap(out.Item, &o); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	return &o, nil
}

// MarkPaid conditionally transitions pending -> paid and stamps paid_at.
// A missing or already-paid order fails the condition and reports
// (false, nil); PaidAt is never overwritten on redelivery.
func (s *DynamoStore) MarkPaid(ctx context.Context, id string) (bool, error) {
	now := s.nowFunc().UTC()
	input := &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"order_id": &types.AttributeValueMemberS{Value: id},
		},
		UpdateExpression:         awsString("SET #s = :paid, paid_at = :pa"),
		ExpressionAttributeNames: map[string]string{"#s": "status"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":paid":    &types.AttributeValueMemberS{Value: StatusPaid},
			":pending": &types.AttributeValueMemberS{Value: StatusPending},
			":pa":      &types.AttributeValueMemberS{Value: now.Format(time.RFC3339Nano)},
		},
		ConditionExpression: awsString("attribute_exists(order_id) AND #s = :pending"),
	}

	if _, err := s.client.UpdateItem(ctx, input); err != nil {
		var cf *types.ConditionalCheckFailedException
		if errors.As(err, &cf) {
			return false, nil
		}
		return false, fmt.Errorf("update order: %w", err)
	}
	return true, nil
}

func awsString(s string) *string { return &s }
