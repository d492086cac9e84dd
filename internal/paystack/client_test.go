package paystack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{
		SecretKey: "sk_test_secret",
		BaseURL:   srv.URL,
		Timeout:   2 * time.Second,
	}, zerolog.Nop())
	require.NoError(t, err)
	return client
}

func TestNewClient_RequiresSecret(t *testing.T) {
	_, err := NewClient(Config{SecretKey: "  "}, zerolog.Nop())
	require.Error(t, err)
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(2050), MinorUnits(20.5))
	assert.Equal(t, int64(1000), MinorUnits(10))
	assert.Equal(t, int64(1), MinorUnits(0.009))
	assert.Equal(t, int64(0), MinorUnits(0))
	// decimal, not float, arithmetic: 19.99 * 100 is exactly 1999
	assert.Equal(t, int64(1999), MinorUnits(19.99))
}

func TestInitializeTransaction_Success(t *testing.T) {
	var got initializeRequest
	var gotAuth, gotPath string

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  true,
			"message": "Authorization URL created",
			"data": map[string]string{
				"authorization_url": "https://checkout.paystack.com/abc123",
				"reference":         "ref-abc123",
			},
		})
	}))

	auth, err := client.InitializeTransaction(context.Background(), "buyer@example.com", 20.5, "ORD-123")
	require.NoError(t, err)

	assert.Equal(t, "/transaction/initialize", gotPath)
	assert.Equal(t, "Bearer sk_test_secret", gotAuth)
	assert.Equal(t, "buyer@example.com", got.Email)
	assert.Equal(t, int64(2050), got.Amount)
	assert.Equal(t, "GHS", got.Currency)
	assert.Equal(t, "ORD-123", got.Metadata.OrderID)
	assert.Equal(t, "https://checkout.paystack.com/abc123", auth.AuthorizationURL)
	assert.Equal(t, "ref-abc123", auth.Reference)
}

func TestInitializeTransaction_GatewayRejection(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status":false,"message":"Invalid key"}`))
	}))

	_, err := client.InitializeTransaction(context.Background(), "buyer@example.com", 10, "ORD-1")
	require.Error(t, err)

	var gwErr *GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, http.StatusUnauthorized, gwErr.StatusCode)
	assert.JSONEq(t, `{"status":false,"message":"Invalid key"}`, string(gwErr.Detail))
	assert.NotContains(t, gwErr.Error(), "sk_test_secret")
}

func TestInitializeTransaction_FalseStatusBody(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":false,"message":"Duplicate reference"}`))
	}))

	_, err := client.InitializeTransaction(context.Background(), "buyer@example.com", 10, "ORD-1")

	var gwErr *GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, "Duplicate reference", gwErr.Message)
}

func TestInitializeTransaction_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{
		SecretKey: "sk_test_secret",
		BaseURL:   srv.URL,
		Timeout:   50 * time.Millisecond,
	}, zerolog.Nop())
	require.NoError(t, err)

	_, err = client.InitializeTransaction(context.Background(), "buyer@example.com", 10, "ORD-1")
	var gwErr *GatewayError
	require.ErrorAs(t, err, &gwErr)
}

func TestInitializeTransaction_ContextCancelled(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.InitializeTransaction(ctx, "buyer@example.com", 10, "ORD-1")
	require.Error(t, err)
}
