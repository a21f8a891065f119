// Package stream broadcasts published decisions to websocket subscribers.
package stream

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/metrics"
	"github.com/erikubingf-del/yudor-betting-system-sub000/internal/models"
)

// Message is the wire envelope sent to subscribers.
type Message struct {
	Type      string           `json:"type"`
	League    string           `json:"league,omitempty"`
	Class     string           `json:"class,omitempty"`
	Timestamp int64            `json:"timestamp"`
	Decision  *models.Decision `json:"decision,omitempty"`
}

// Client is one connected subscriber.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	classes map[string]bool // decision class filter
	leagues map[string]bool // league filter
}

// Hub fans published decisions out to connected clients.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
	logger     *logrus.Logger
	upgrader   websocket.Upgrader
}

// NewHub creates a hub. Run must be started on its own goroutine.
func NewHub(logger *logrus.Logger) *Hub {
	if logger == nil {
		logger = logrus.New()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan *Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Run services register, unregister, and broadcast events until the process
// exits.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()
			metrics.UpdateStreamClients(float64(count))
			h.logger.WithField("clients", count).Info("Stream client registered")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			metrics.UpdateStreamClients(float64(count))
			h.logger.WithField("clients", count).Info("Stream client unregistered")

		case message := <-h.broadcast:
			payload := marshalMessage(message)
			h.mu.Lock()
			for client := range h.clients {
				if !client.shouldReceive(message) {
					continue
				}
				select {
				case client.send <- payload:
				default:
					// Slow consumer, drop it
					close(client.send)
					delete(h.clients, client)
				}
			}
			count := len(h.clients)
			h.mu.Unlock()
			metrics.UpdateStreamClients(float64(count))
		}
	}
}

// BroadcastDecision publishes one decision to all matching subscribers.
func (h *Hub) BroadcastDecision(d *models.Decision) {
	h.broadcast <- &Message{
		Type:      "decision",
		League:    d.Match.League,
		Class:     string(d.Class),
		Timestamp: time.Now().Unix(),
		Decision:  d,
	}
}

// ClientCount returns the current number of subscribers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeWS upgrades an HTTP request into a stream subscription.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, 64),
	}
	h.register <- client

	go client.writePump()
	go client.readPump()
}

func marshalMessage(message *Message) []byte {
	data, err := json.Marshal(message)
	if err != nil {
		return []byte("{}")
	}
	return data
}

// shouldReceive applies the client's class and league filters. A client with
// no filters receives everything.
func (c *Client) shouldReceive(message *Message) bool {
	if len(c.classes) == 0 && len(c.leagues) == 0 {
		return true
	}
	if len(c.classes) > 0 && !c.classes[message.Class] {
		return false
	}
	if len(c.leagues) > 0 && !c.leagues[message.League] {
		return false
	}
	return true
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.WithError(err).Warn("Websocket read error")
			}
			break
		}
		c.handleMessage(message)
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for {
		message, ok := <-c.send
		if !ok {
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}

// subscribeRequest is the only client-to-server message.
type subscribeRequest struct {
	Type    string   `json:"type"`
	Classes []string `json:"classes,omitempty"`
	Leagues []string `json:"leagues,omitempty"`
}

func (c *Client) handleMessage(message []byte) {
	var req subscribeRequest
	if err := json.Unmarshal(message, &req); err != nil {
		c.hub.logger.WithError(err).Debug("Ignoring malformed client message")
		return
	}

	switch req.Type {
	case "subscribe":
		c.classes = toSet(req.Classes)
		c.leagues = toSet(req.Leagues)
	case "unsubscribe":
		c.classes = nil
		c.leagues = nil
	}
}

func toSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
