// Package ws provides WebSocket support using gorilla/websocket.
//
// The marketplace uses one hub for all realtime traffic: chat messages
// between buyers and farmers, and order/notification pushes. Clients
// register with the user ID they authenticated as, so the hub can
// deliver to every open connection a user has.
//
// # Quick start
//
//	var Hub = ws.NewHub()
//	func init() { go Hub.Run() }
//
//	// In a route handler, after resolving the user:
//	ws.Upgrade(w, r, Hub, userID)
//
//	// Broadcast to everyone:
//	Hub.Broadcast <- []byte(`{"event":"price_drop"}`)
//
//	// Deliver to one user (all their connections):
//	Hub.SendToUser(42, payload)
package ws

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/binodghimire/agrihaat/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512 * 1024 // 512 KB
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins by default — restrict in production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// SetCheckOrigin replaces the default (allow-all) origin checker.
func SetCheckOrigin(fn func(r *http.Request) bool) {
	upgrader.CheckOrigin = fn
}

// ─── Client ───────────────────────────────────────────────────────────────────

// Client represents a single connected WebSocket client.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	UserID uint // 0 for unauthenticated connections
}

// readPump pumps messages from the WebSocket connection to the hub.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("ws: unexpected close", "error", err)
			}
			break
		}
		c.hub.Inbound <- Message{Client: c, Data: msg}
	}
}

// writePump pumps messages from the hub to the WebSocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Send queues a message to be sent to this specific client.
func (c *Client) Send(data []byte) {
	select {
	case c.send <- data:
	default:
		// Buffer full — drop message.
	}
}

// ─── Hub ──────────────────────────────────────────────────────────────────────

// Message is an inbound message received from a client.
type Message struct {
	Client *Client
	Data   []byte
}

type directMessage struct {
	userID uint
	data   []byte
}

// Hub maintains all active WebSocket connections. It supports broadcasting
// to every client and direct delivery to all connections of one user.
type Hub struct {
	clients    map[*Client]bool
	byUser     map[uint]map[*Client]bool
	Broadcast  chan []byte  // send to all connected clients
	Inbound    chan Message // messages received from clients
	direct     chan directMessage
	register   chan *Client
	unregister chan *Client
	// OnMessage is called for every inbound message (optional).
	OnMessage func(hub *Hub, msg Message)
}

// NewHub creates a new Hub. Call hub.Run() in a goroutine at startup.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		byUser:     make(map[uint]map[*Client]bool),
		Broadcast:  make(chan []byte, 256),
		Inbound:    make(chan Message, 256),
		direct:     make(chan directMessage, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// SendToUser queues data for delivery to every open connection of userID.
// If the user has no open connections the message is silently dropped;
// persistent notifications live in the database, not the socket.
func (h *Hub) SendToUser(userID uint, data []byte) {
	select {
	case h.direct <- directMessage{userID: userID, data: data}:
	default:
	}
}

// Run starts the hub event loop. Must be run in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			if client.UserID != 0 {
				if h.byUser[client.UserID] == nil {
					h.byUser[client.UserID] = make(map[*Client]bool)
				}
				h.byUser[client.UserID][client] = true
			}
			logger.Info("ws: client connected", "user_id", client.UserID, "total", len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
				logger.Info("ws: client disconnected", "user_id", client.UserID, "total", len(h.clients))
			}

		case msg := <-h.Broadcast:
			for client := range h.clients {
				select {
				case client.send <- msg:
				default:
					h.drop(client)
				}
			}

		case dm := <-h.direct:
			for client := range h.byUser[dm.userID] {
				select {
				case client.send <- dm.data:
				default:
					h.drop(client)
				}
			}

		case msg := <-h.Inbound:
			if h.OnMessage != nil {
				h.OnMessage(h, msg)
			}
		}
	}
}

// drop removes a client from both registries and closes its send channel.
// Must only be called from the Run loop.
func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	if client.UserID != 0 {
		if conns, ok := h.byUser[client.UserID]; ok {
			delete(conns, client)
			if len(conns) == 0 {
				delete(h.byUser, client.UserID)
			}
		}
	}
	close(client.send)
}

// ClientCount returns the number of currently connected clients.
func (h *Hub) ClientCount() int { return len(h.clients) }

// ─── Upgrade ─────────────────────────────────────────────────────────────────

// Upgrade upgrades an HTTP connection to a WebSocket and registers the
// resulting client with the given hub. userID may be 0 for anonymous
// connections, which then only receive broadcasts.
func Upgrade(w http.ResponseWriter, r *http.Request, hub *Hub, userID uint) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("ws: upgrade failed", "error", err)
		return
	}
	client := &Client{hub: hub, conn: conn, send: make(chan []byte, 256), UserID: userID}
	hub.register <- client
	go client.writePump()
	go client.readPump()
}
