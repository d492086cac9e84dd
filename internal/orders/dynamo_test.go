package orders

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockDynamo is a minimal in-memory DynamoDB implementing just enough of
// PutItem/GetItem/UpdateItem for the store's expressions.
type mockDynamo struct {
	mu    sync.Mutex
	items map[string]map[string]types.AttributeValue
}

func newMockDynamo() *mockDynamo {
	return &mockDynamo{items: map[string]map[string]types.AttributeValue{}}
}

func itemKey(attrs map[string]types.AttributeValue) string {
	return attrs["order_id"].(*types.AttributeValueMemberS).Value
}

func (m *mockDynamo) PutItem(_ context.Context, in *dyn.PutItemInput, _ ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := itemKey(in.Item)
	if in.ConditionExpression != nil {
		if _, exists := m.items[k]; exists {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	m.items[k] = in.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *mockDynamo) GetItem(_ context.Context, in *dyn.GetItemInput, _ ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[itemKey(in.Key)]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (m *mockDynamo) UpdateItem(_ context.Context, in *dyn.UpdateItemInput, _ ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[itemKey(in.Key)]
	if !ok {
		return nil, &types.ConditionalCheckFailedException{}
	}
	// condition: #s = :pending
	if expected, ok := in.ExpressionAttributeValues[":pending"]; ok {
		cur := item["status"].(*types.AttributeValueMemberS).Value
		if cur != expected.(*types.AttributeValueMemberS).Value {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	item["status"] = in.ExpressionAttributeValues[":paid"]
	item["paid_at"] = in.ExpressionAttributeValues[":pa"]
	return &dyn.UpdateItemOutput{}, nil
}

func (m *mockDynamo) DeleteItem(_ context.Context, in *dyn.DeleteItemInput, _ ...func(*dyn.Options)) (*dyn.DeleteItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, itemKey(in.Key))
	return &dyn.DeleteItemOutput{}, nil
}

func twoWidgets() OrderDraft {
	return OrderDraft{
		Name:           "A",
		Phone:          "0550000000",
		DeliveryOption: "pickup",
		Items: []CartLine{
			{ID: "p1", Name: "Widget", Price: 10, Qty: 2},
		},
	}
}

func TestDynamoStore_CreateThenFind(t *testing.T) {
	store := NewDynamoStore(newMockDynamo(), "orders")

	created, err := store.Create(context.Background(), twoWidgets())
	require.NoError(t, err)
	assert.Equal(t, StatusPending, created.Status)
	assert.Equal(t, 20.0, created.Total)
	assert.Contains(t, created.ID, "ORD-")
	assert.Nil(t, created.PaidAt)

	found, err := store.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, StatusPending, found.Status)
	assert.Equal(t, 20.0, found.Total)
}

func TestDynamoStore_FindMissing(t *testing.T) {
	store := NewDynamoStore(newMockDynamo(), "orders")

	found, err := store.FindByID(context.Background(), "ORD-nope")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestDynamoStore_MarkPaid(t *testing.T) {
	store := NewDynamoStore(newMockDynamo(), "orders")
	created, err := store.Create(context.Background(), twoWidgets())
	require.NoError(t, err)

	paid, err := store.MarkPaid(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, paid)

	found, err := store.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, StatusPaid, found.Status)
	require.NotNil(t, found.PaidAt)
	firstPaidAt := *found.PaidAt

	// redelivery: strict no-op, PaidAt untouched
	store.nowFunc = func() time.Time { return firstPaidAt.Add(time.Hour) }
	paid, err = store.MarkPaid(context.Background(), created.ID)
	require.NoError(t, err)
	assert.False(t, paid)

	again, err := store.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, again.PaidAt)
	assert.True(t, again.PaidAt.Equal(firstPaidAt))
}

func TestDynamoStore_MarkPaidMissingIsNoop(t *testing.T) {
	store := NewDynamoStore(newMockDynamo(), "orders")

	paid, err := store.MarkPaid(context.Background(), "ORD-missing")
	require.NoError(t, err)
	assert.False(t, paid)
}

func TestDynamoStore_ErrorsPropagate(t *testing.T) {
	store := NewDynamoStore(failingDynamo{}, "orders")

	_, err := store.Create(context.Background(), twoWidgets())
	require.Error(t, err)

	_, err = store.FindByID(context.Background(), "ORD-1")
	require.Error(t, err)

	_, err = store.MarkPaid(context.Background(), "ORD-1")
	require.Error(t, err)
}

type failingDynamo struct{}

var errBoom = errors.New("boom")

func (failingDynamo) PutItem(context.Context, *dyn.PutItemInput, ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	return nil, errBoom
}
func (failingDynamo) GetItem(context.Context, *dyn.GetItemInput, ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	return nil, errBoom
}
func (failingDynamo) UpdateItem(context.Context, *dyn.UpdateItemInput, ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	return nil, errBoom
}
func (failingDynamo) DeleteItem(context.Context, *dyn.DeleteItemInput, ...func(*dyn.Options)) (*dyn.DeleteItemOutput, error) {
	return nil, errBoom
}
