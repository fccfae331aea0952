package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNotifyPickup(t *testing.T) {
	var got PickupEvent
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	ev := PickupEvent{
		ReservationID: "r1",
		UserID:        "u1",
		UserEmail:     "alice@example.com",
		UserName:      "Alice",
		ItemName:      "Drill",
		ItemType:      "equipment",
		StartDate:     "2026-03-05",
		EndDate:       "2026-03-07",
		Reason:        "field test",
		PickupDate:    "2026-03-05",
	}
	require.NoError(t, c.NotifyPickup(context.Background(), ev))
	require.Equal(t, "Bearer secret", auth)
	require.Equal(t, ev, got)
}

func TestNotifyPickupServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	require.Error(t, c.NotifyPickup(context.Background(), PickupEvent{ReservationID: "r1"}))
}

func TestNotifyPickupDisabled(t *testing.T) {
	c := NewClient("", "")
	require.False(t, c.Enabled())
	require.NoError(t, c.NotifyPickup(context.Background(), PickupEvent{}))
}
