package feed

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	sendBuffer   = 16
	readDeadline = 60 * time.Second
)

type subscriber struct {
	ws           *websocket.Conn
	out          chan []byte
	done         chan struct{}
	closeOnce    sync.Once
	pingInterval time.Duration
	writeTimeout time.Duration
	logger       *zap.Logger
}

func newSubscriber(ws *websocket.Conn, pingInterval, writeTimeout time.Duration, logger *zap.Logger) *subscriber {
	return &subscriber{
		ws:           ws,
		out:          make(chan []byte, sendBuffer),
		done:         make(chan struct{}),
		pingInterval: pingInterval,
		writeTimeout: writeTimeout,
		logger:       logger,
	}
}

// send enqueues msg; slow subscribers lose messages rather than block publishers.
func (s *subscriber) send(msg []byte) {
	select {
	case <-s.done:
	case s.out <- msg:
	default:
		s.logger.Warn("dropping feed message, subscriber buffer full")
	}
}

// run pumps messages until the peer disconnects or ctx is cancelled.
func (s *subscriber) run(ctx context.Context) {
	go s.writePump(ctx)
	s.readPump()
	s.close()
}

// readPump discards inbound frames; it exists to observe pongs and close frames.
func (s *subscriber) readPump() {
	s.ws.SetReadLimit(4096)
	_ = s.ws.SetReadDeadline(time.Now().Add(readDeadline))
	s.ws.SetPongHandler(func(string) error {
		return s.ws.SetReadDeadline(time.Now().Add(readDeadline))
	})
	for {
		if _, _, err := s.ws.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *subscriber) writePump(ctx context.Context) {
	ticker := time.NewTicker(s.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case msg := <-s.out:
			if err := s.write(websocket.TextMessage, msg); err != nil {
				s.close()
				return
			}
		case <-ticker.C:
			if err := s.write(websocket.PingMessage, nil); err != nil {
				s.close()
				return
			}
		}
	}
}

func (s *subscriber) write(messageType int, data []byte) error {
	_ = s.ws.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	return s.ws.WriteMessage(messageType, data)
}

func (s *subscriber) close() {
	s.closeOnce.Do(func() {
		close(s.done)
		_ = s.ws.Close()
	})
}
