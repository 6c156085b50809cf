package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"

	"repairshop/internal/model"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins for dev simplicity
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

var ErrHubBusy = errors.New("websocket hub is busy")

// Event is the JSON frame pushed to connected browsers.
type Event struct {
	Event string             `json:"event"`
	Data  model.Notification `json:"data"`
}

// Client represents a single connected WebSocket client. Staff connections
// receive admin notifications; portal connections only their own client's.
type Client struct {
	Hub      *Hub
	Conn     *websocket.Conn
	Send     chan []byte
	Staff    bool
	ClientID string
}

type delivery struct {
	audience model.Audience
	clientID string
	payload  []byte
}

// Hub maintains the set of active clients and routes notifications to them
type Hub struct {
	clients    map[*Client]bool
	deliver    chan delivery
	register   chan *Client
	unregister chan *Client
	mu         sync.Mutex
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		deliver:    make(chan delivery, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		logger:     logger,
	}
}

// Run starts the dispatch loop and returns when ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				close(client.Send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Debug("websocket client connected", slog.Bool("staff", client.Staff))
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				h.logger.Debug("websocket client disconnected")
			}
			h.mu.Unlock()
		case d := <-h.deliver:
			h.mu.Lock()
			for client := range h.clients {
				if !client.wants(d) {
					continue
				}
				select {
				case client.Send <- d.payload:
				default:
					close(client.Send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (c *Client) wants(d delivery) bool {
	if d.audience == model.AudienceAdmin {
		return c.Staff
	}
	return !c.Staff && d.clientID != "" && c.ClientID == d.clientID
}

// Send queues a notification for the matching connections. It never blocks
// on a slow hub; a full queue drops the frame.
func (h *Hub) Send(ctx context.Context, n model.Notification) error {
	payload, err := json.Marshal(Event{Event: "notification", Data: n})
	if err != nil {
		return err
	}
	d := delivery{audience: n.Audience, payload: payload}
	if n.ClientID != nil {
		d.clientID = n.ClientID.String()
	}
	select {
	case h.deliver <- d:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrHubBusy
	}
}

// ConnectedClients reports how many sockets are registered.
func (h *Hub) ConnectedClients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// writePump handles writing messages from the Hub to the WebSocket connection
func (c *Client) writePump() {
	defer func() {
		_ = c.Conn.Close()
	}()
	for message := range c.Send {
		w, err := c.Conn.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		_, _ = w.Write(message)

		// Fast track writing queued messages
		n := len(c.Send)
		for i := 0; i < n; i++ {
			_, _ = w.Write([]byte{'\n'})
			_, _ = w.Write(<-c.Send)
		}

		if err := w.Close(); err != nil {
			return
		}
	}
	_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// readPump keeps the connection alive and unregisters it on close
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		_ = c.Conn.Close()
	}()
	for {
		_, _, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn("websocket read failed", slog.Any("error", err))
			}
			break
		}
	}
}

// ServeWs upgrades an authenticated request. The token comes in the query
// string because browsers cannot set headers on websocket requests.
func ServeWs(hub *Hub, c *gin.Context, secret []byte) {
	tokenString := c.Query("token")
	if tokenString == "" {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		hub.logger.Info("websocket connection rejected", slog.String("reason", "invalid token"))
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	role, _ := claims["role"].(string)
	clientID, _ := claims["client_id"].(string)
	client := &Client{Hub: hub, Send: make(chan []byte, 256)}
	switch {
	case role == model.RoleAdmin || role == model.RoleTechnician:
		client.Staff = true
	case role == model.RoleClient && clientID != "":
		client.ClientID = clientID
	default:
		hub.logger.Info("websocket connection rejected", slog.String("reason", "inadequate permissions"))
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		hub.logger.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}
	client.Conn = conn
	client.Hub.register <- client

	go client.writePump()
	go client.readPump()
}
