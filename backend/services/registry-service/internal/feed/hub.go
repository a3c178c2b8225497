// Package feed streams newly registered stations to WebSocket subscribers,
// e.g. an open map view that should show a station as soon as it is listed.
package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"chargesol/backend/services/registry-service/internal/station"
)

// Event is the message pushed to subscribers.
type Event struct {
	Type    string       `json:"type"`
	Station station.Card `json:"station"`
}

const eventStationRegistered = "station.registered"

// Hub tracks subscribers and fans out events.
type Hub struct {
	mu           sync.RWMutex
	subscribers  map[*subscriber]struct{}
	pingInterval time.Duration
	writeTimeout time.Duration
	upgrader     websocket.Upgrader
	logger       *zap.Logger
}

// NewHub builds a hub.
func NewHub(pingInterval, writeTimeout time.Duration, logger *zap.Logger) *Hub {
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}
	if writeTimeout <= 0 {
		writeTimeout = 10 * time.Second
	}
	return &Hub{
		subscribers:  make(map[*subscriber]struct{}),
		pingInterval: pingInterval,
		writeTimeout: writeTimeout,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: logger,
	}
}

// Count returns the number of connected subscribers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// PublishStation announces a newly registered station.
func (h *Hub) PublishStation(card station.Card) {
	data, err := json.Marshal(Event{Type: eventStationRegistered, Station: card})
	if err != nil {
		h.logger.Warn("failed to encode feed event", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subscribers {
		sub.send(data)
	}
}

// HandleWS is HTTP handler for the /stations/feed endpoint.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	sub := newSubscriber(conn, h.pingInterval, h.writeTimeout, h.logger)
	h.add(sub)
	h.logger.Debug("feed subscriber connected", zap.String("remote", r.RemoteAddr))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sub.run(ctx)
		cancel()
		h.remove(sub)
	}()
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subscribers {
		sub.close()
		delete(h.subscribers, sub)
	}
}

func (h *Hub) add(sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subscribers[sub] = struct{}{}
}

func (h *Hub) remove(sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subscribers, sub)
}
