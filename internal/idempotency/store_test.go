package idempotency

import (
	"context"
	"sync"
	"testing"
	"time"

	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockDynamo implements the conditional-put semantics the store relies on.
type mockDynamo struct {
	mu    sync.Mutex
	items map[string]map[string]types.AttributeValue
}

func newMockDynamo() *mockDynamo {
	return &mockDynamo{items: map[string]map[string]types.AttributeValue{}}
}

func (m *mockDynamo) PutItem(_ context.Context, in *dyn.PutItemInput, _ ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := in.Item["event_ref"].(*types.AttributeValueMemberS).Value
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
	k := in.Key["event_ref"].(*types.AttributeValueMemberS).Value
	item, ok := m.items[k]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	return &dyn.GetItemOutput{Item: item}, nil
}

func (m *mockDynamo) UpdateItem(_ context.Context, _ *dyn.UpdateItemInput, _ ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	return &dyn.UpdateItemOutput{}, nil
}

func (m *mockDynamo) DeleteItem(_ context.Context, in *dyn.DeleteItemInput, _ ...func(*dyn.Options)) (*dyn.DeleteItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := in.Key["event_ref"].(*types.AttributeValueMemberS).Value
	delete(m.items, k)
	return &dyn.DeleteItemOutput{}, nil
}

func TestCheckAndMark_FirstDeliveryWins(t *testing.T) {
	store := NewStore(newMockDynamo(), "webhook-events", 48*time.Hour)

	seen, err := store.CheckAndMark(context.Background(), "ref-1", "ORD-1")
	require.NoError(t, err)
	assert.False(t, seen)

	seen, err = store.CheckAndMark(context.Background(), "ref-1", "ORD-1")
	require.NoError(t, err)
	assert.True(t, seen, "replayed delivery must be reported as already seen")
}

func TestCheckAndMark_DistinctReferences(t *testing.T) {
	store := NewStore(newMockDynamo(), "webhook-events", 48*time.Hour)

	seen, err := store.CheckAndMark(context.Background(), "ref-1", "ORD-1")
	require.NoError(t, err)
	assert.False(t, seen)

	seen, err = store.CheckAndMark(context.Background(), "ref-2", "ORD-2")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestGet_RecordsTTL(t *testing.T) {
	store := NewStore(newMockDynamo(), "webhook-events", 48*time.Hour)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.nowFunc = func() time.Time { return fixed }

	_, err := store.CheckAndMark(context.Background(), "ref-1", "ORD-1")
	require.NoError(t, err)

	rec, err := store.Get(context.Background(), "ref-1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "ORD-1", rec.OrderID)
	assert.Equal(t, fixed.Add(48*time.Hour).Unix(), rec.ExpiresAt)
}

func TestDelete_ReleasesReference(t *testing.T) {
	store := NewStore(newMockDynamo(), "webhook-events", 48*time.Hour)

	seen, err := store.CheckAndMark(context.Background(), "ref-1", "ORD-1")
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, store.Delete(context.Background(), "ref-1"))

	seen, err = store.CheckAndMark(context.Background(), "ref-1", "ORD-1")
	require.NoError(t, err)
	assert.False(t, seen, "a released reference is processable again")
}

func TestGet_MissingReturnsNil(t *testing.T) {
	store := NewStore(newMockDynamo(), "webhook-events", 48*time.Hour)

	rec, err := store.Get(context.Background(), "ref-none")
	require.NoError(t, err)
	assert.Nil(t, rec)
}
