package feed

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"chargesol/backend/services/registry-service/internal/station"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within %s", timeout)
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHubBroadcastsRegisteredStations(t *testing.T) {
	hub := NewHub(time.Second, time.Second, zap.NewNop())
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	defer srv.Close()
	defer hub.Close()

	first := dial(t, srv)
	second := dial(t, srv)
	waitFor(t, time.Second, func() bool { return hub.Count() == 2 })

	hub.PublishStation(station.Card{ID: "st-1", Name: "My Home Charger", PriceLabel: "0.25 SOL/kWh"})

	for _, conn := range []*websocket.Conn{first, second} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
		var ev Event
		require.NoError(t, conn.ReadJSON(&ev))
		assert.Equal(t, "station.registered", ev.Type)
		assert.Equal(t, "st-1", ev.Station.ID)
		assert.Equal(t, "My Home Charger", ev.Station.Name)
	}
}

func TestHubForgetsDisconnectedSubscribers(t *testing.T) {
	hub := NewHub(time.Second, time.Second, zap.NewNop())
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	defer srv.Close()

	conn := dial(t, srv)
	waitFor(t, time.Second, func() bool { return hub.Count() == 1 })

	require.NoError(t, conn.Close())
	waitFor(t, time.Second, func() bool { return hub.Count() == 0 })

	hub.PublishStation(station.Card{ID: "st-2"})
}

func TestHubPublishWithoutSubscribers(t *testing.T) {
	hub := NewHub(0, 0, zap.NewNop())
	assert.NotPanics(t, func() { hub.PublishStation(station.Card{ID: "st-3"}) })
	assert.Equal(t, 0, hub.Count())
}
