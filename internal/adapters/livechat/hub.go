// Package livechat pushes live event comments to websocket viewers.
package livechat

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"eventnexus/internal/domain"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 2048
	sendBuffer     = 64
)

// Message is the frame sent to viewers.
type Message struct {
	Type    string          `json:"type"`
	EventID int64           `json:"eventId"`
	Comment *domain.Comment `json:"comment,omitempty"`
}

type client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	eventID int64
}

// Hub keeps one room of viewers per event.
type Hub struct {
	mu       sync.RWMutex
	rooms    map[int64]map[*client]struct{}
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

var _ domain.CommentBroadcaster = (*Hub)(nil)

// NewHub returns a hub. An empty allowedOrigins, or one containing "*", accepts any origin.
func NewHub(allowedOrigins []string, logger *slog.Logger) *Hub {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o != "" {
			allowed[o] = struct{}{}
		}
	}
	return &Hub{
		rooms:  make(map[int64]map[*client]struct{}),
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if _, all := allowed["*"]; all || origin == "" || len(allowed) == 0 {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
	}
}

// ServeWS upgrades the request and joins the connection to the room of eventID.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, eventID int64) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an error response.
		h.logger.WarnContext(r.Context(), "websocket upgrade failed", "event_id", eventID, "error", err)
		return
	}
	c := &client{hub: h, conn: conn, send: make(chan []byte, sendBuffer), eventID: eventID}
	h.join(c)
	go c.writePump()
	go c.readPump()
}

// Broadcast sends the comment to every viewer of the event. Slow viewers are dropped.
func (h *Hub) Broadcast(eventID int64, comment *domain.Comment) {
	msg, err := json.Marshal(Message{Type: "comment", EventID: eventID, Comment: comment})
	if err != nil {
		h.logger.Error("marshal comment", "error", err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.rooms[eventID] {
		select {
		case c.send <- msg:
		default:
			h.logger.Warn("dropping slow live chat viewer", "event_id", eventID, "remote", c.conn.RemoteAddr().String())
			h.removeLocked(c)
		}
	}
}

// Viewers returns the number of connections watching eventID.
func (h *Hub) Viewers(eventID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[eventID])
}

// Close disconnects every viewer.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, room := range h.rooms {
		for c := range room {
			h.removeLocked(c)
		}
	}
}

func (h *Hub) join(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[c.eventID]
	if !ok {
		room = make(map[*client]struct{})
		h.rooms[c.eventID] = room
	}
	room[c] = struct{}{}
}

func (h *Hub) leave(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *client) {
	room := h.rooms[c.eventID]
	if _, ok := room[c]; !ok {
		return
	}
	delete(room, c)
	close(c.send)
	if len(room) == 0 {
		delete(h.rooms, c.eventID)
	}
}

// readPump only services control frames; viewers post comments over HTTP.
func (c *client) readPump() {
	defer func() {
		c.hub.leave(c)
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
