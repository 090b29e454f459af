package server

import (
	"encoding/json"
	"time"

	"github.com/engchina/No.1-PPT-Translator/logging"
	"github.com/gorilla/websocket"
)

const (
	// writeTimeout bounds a single WebSocket write.
	writeTimeout = 10 * time.Second

	// pongTimeout is how long a connection may stay silent before the read
	// side gives up; pings go out well inside that window.
	pongTimeout  = 60 * time.Second
	pingInterval = 54 * time.Second

	// sendBuffer is the per-client outbound queue; slow clients that fall
	// this far behind are disconnected.
	sendBuffer = 256
)

// Event is one entry of a job's WebSocket stream. Type is "progress",
// "status", "log" or "state"; the other fields are filled per type.
type Event struct {
	Type      string `json:"type"`
	Progress  int    `json:"progress,omitempty"`
	Message   string `json:"message,omitempty"`
	State     string `json:"state,omitempty"`
	Timestamp string `json:"timestamp"`
}

// client is one WebSocket subscriber of a job's event stream.
type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub fans a single job's events out to its WebSocket subscribers. The
// clients map is owned by the Run goroutine; all mutation goes through the
// register and unregister channels.
type Hub struct {
	jobID      string
	clients    map[*client]bool
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
}

func newHub(jobID string) *Hub {
	return &Hub{
		jobID:      jobID,
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, sendBuffer),
		register:   make(chan *client),
		unregister: make(chan *client),
	}
}

// Run handles subscriber registration and event fan-out. It runs for the
// lifetime of the job manager.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
			logging.WebSocketEvent(h.jobID, "client_connected", len(h.clients))

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			logging.WebSocketEvent(h.jobID, "client_disconnected", len(h.clients))

		case message := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- message:
				default:
					delete(h.clients, c)
					close(c.send)
				}
			}
		}
	}
}

// Broadcast queues an event for every subscriber. Events are dropped rather
// than blocking the pipeline when the queue is full.
func (h *Hub) Broadcast(evt Event) {
	data, ok := marshalEvent(evt)
	if !ok {
		return
	}

	select {
	case h.broadcast <- data:
	default:
		logging.Warn("event queue full, dropping event", "job_id", h.jobID, "type", evt.Type)
	}
}

func marshalEvent(evt Event) ([]byte, bool) {
	if evt.Timestamp == "" {
		evt.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	data, err := json.Marshal(evt)
	if err != nil {
		logging.Error("marshaling event", "error", err)
		return nil, false
	}
	return data, true
}

// readPump discards inbound frames and tears the client down when the
// connection closes.
func (c *client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logging.Error("websocket closed unexpectedly", "job_id", c.hub.jobID, "error", err)
			}
			return
		}
	}
}

// writePump sends queued events and keep-alive pings.
func (c *client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
