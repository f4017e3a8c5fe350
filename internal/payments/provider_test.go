package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(4950), MinorUnits(decimal.NewFromFloat(49.50)))
	assert.Equal(t, int64(2000), MinorUnits(decimal.NewFromInt(20)))
	assert.Equal(t, int64(0), MinorUnits(decimal.Zero))
	assert.Equal(t, int64(99), MinorUnits(decimal.NewFromFloat(0.99)))
}

func TestSimulatorCreateIntent(t *testing.T) {
	sim := NewSimulator()
	intent, err := sim.CreateIntent(context.Background(), &IntentRequest{
		TicketID: uuid.New(),
		Amount:   1500,
		Currency: "USD",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(intent.ID, "pi_sim_"))
	assert.Equal(t, intent.ID+"_secret", intent.ClientSecret)
	assert.Equal(t, int64(1500), intent.Amount)
	assert.Equal(t, "USD", intent.Currency)
}

func TestSimulatedIntentIDsDiffer(t *testing.T) {
	assert.NotEqual(t, SimulatedIntentID(), SimulatedIntentID())
}

func TestHTTPProviderCreateIntent(t *testing.T) {
	var gotHeaders http.Header
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":            "pi_live_1",
			"client_secret": "pi_live_1_secret",
			"amount":        2500,
			"currency":      "USD",
			"status":        "requires_payment",
		})
	}))
	defer srv.Close()

	provider := NewHTTPProvider(srv.URL, "client-1", "sk_test")
	intent, err := provider.CreateIntent(context.Background(), &IntentRequest{
		TicketID:      uuid.New(),
		Amount:        2500,
		Currency:      "USD",
		Description:   "GopherCon - VIP",
		CustomerName:  "Jordan Chen",
		CustomerEmail: "jordan@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "pi_live_1", intent.ID)
	assert.Equal(t, "pi_live_1_secret", intent.ClientSecret)
	assert.Equal(t, int64(2500), intent.Amount)

	assert.Equal(t, "client-1", gotHeaders.Get("Client-Id"))
	assert.NotEmpty(t, gotHeaders.Get("Signature"))
	assert.NotEmpty(t, gotHeaders.Get("Digest"))
	assert.Equal(t, float64(2500), gotBody["amount"])
}

func TestHTTPProviderErrorStatuses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	provider := NewHTTPProvider(srv.URL, "client-1", "sk_test")
	_, err := provider.CreateIntent(context.Background(), &IntentRequest{Amount: 100, Currency: "USD"})
	assert.Error(t, err)
}

func TestHTTPProviderMissingSecret(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"id": "pi_live_1"})
	}))
	defer srv.Close()

	provider := NewHTTPProvider(srv.URL, "client-1", "sk_test")
	_, err := provider.CreateIntent(context.Background(), &IntentRequest{Amount: 100, Currency: "USD"})
	assert.Error(t, err)
}
