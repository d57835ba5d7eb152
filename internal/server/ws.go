package server

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"

	"github.com/gofiber/contrib/websocket"

	"github.com/SeamusWaldron/cubr/internal/game"
	"github.com/SeamusWaldron/cubr/internal/log"
)

// clientBuffer is how many state updates may queue for a slow client
// before older ones are dropped.
const clientBuffer = 8

// hub fans state updates out to websocket clients.
type hub struct {
	logger log.Logger

	mu      sync.Mutex
	clients map[chan []byte]struct{}
	last    []byte
	closed  bool
}

func newHub(logger log.Logger) *hub {
	return &hub{
		logger:  logger,
		clients: make(map[chan []byte]struct{}),
	}
}

func (h *hub) empty() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients) == 0
}

// subscribe registers a client; the channel is closed on unsubscribe or
// hub shutdown.
func (h *hub) subscribe() (chan []byte, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, false
	}
	ch := make(chan []byte, clientBuffer)
	h.clients[ch] = struct{}{}
	return ch, true
}

func (h *hub) unsubscribe(ch chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[ch]; ok {
		delete(h.clients, ch)
		close(ch)
	}
}

// broadcast sends v to every client unless it is unchanged since the last
// broadcast.
func (h *hub) broadcast(v game.View) {
	data, err := json.Marshal(v)
	if err != nil {
		h.logger.Errorf("failed to marshal state: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if bytes.Equal(data, h.last) {
		return
	}
	h.last = data
	for ch := range h.clients {
		select {
		case ch <- data:
		default:
			h.logger.Debugf("dropping state update for slow websocket client")
		}
	}
}

func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for ch := range h.clients {
		delete(h.clients, ch)
		close(ch)
	}
}

// handleWebSocket streams the game state to one client. Text messages
// from the client are read as move notation.
func (s *Server) handleWebSocket(conn *websocket.Conn) {
	s.logger.Infof("websocket connected: %s", conn.RemoteAddr())
	defer s.logger.Infof("websocket disconnected: %s", conn.RemoteAddr())

	updates, ok := s.hub.subscribe()
	if !ok {
		return
	}
	defer s.hub.unsubscribe(updates)

	initial, err := json.Marshal(s.game.View())
	if err == nil {
		if err := conn.WriteMessage(websocket.TextMessage, initial); err != nil {
			return
		}
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			mt, msg, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					s.logger.Warnf("websocket read error: %v", err)
				}
				return
			}
			if mt == websocket.TextMessage {
				if n := s.game.Move(strings.Fields(string(msg))...); n == 0 {
					s.logger.Debugf("ignoring websocket message %q", msg)
				}
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case data, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				s.logger.Debugf("websocket write failed: %v", err)
				return
			}
		}
	}
}
