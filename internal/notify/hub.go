package notify

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"vibe-gallery/internal/logging"
	"vibe-gallery/internal/metrics"
)

// Publisher is the fire-and-forget progress transport the scanner depends
// on. Delivery is best-effort; there is no acknowledgement.
type Publisher interface {
	Publish(method string, payload interface{})
}

// message is the envelope broadcast to every connected client.
type message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub broadcasts scan progress to connected WebSocket clients.
type Hub struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan message
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	mu         sync.Mutex
	upgrader   websocket.Upgrader
}

// NewHub creates a Hub and starts its broadcast loop.
func NewHub() *Hub {
	h := &Hub{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan message, 64),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		upgrader: websocket.Upgrader{
			// Progress events carry no secrets and the UI is same-host.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	go h.run()
	return h
}

// Publish broadcasts a payload to all connected clients. It never blocks the
// caller: if the broadcast buffer is full the message is dropped.
func (h *Hub) Publish(method string, payload interface{}) {
	select {
	case h.broadcast <- message{Type: method, Data: payload}:
	default:
		logging.Debug("Dropping %s broadcast, hub buffer full", method)
	}
}

func (h *Hub) run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			metrics.WebSocketClients.Set(float64(len(h.clients)))
			logging.Debug("WebSocket client connected (total: %d)", len(h.clients))
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				if err := client.Close(); err != nil {
					logging.Debug("WebSocket close error: %v", err)
				}
				metrics.WebSocketClients.Set(float64(len(h.clients)))
				logging.Debug("WebSocket client disconnected (total: %d)", len(h.clients))
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				if err := client.WriteJSON(msg); err != nil {
					logging.Warn("WebSocket write error: %v", err)
					if closeErr := client.Close(); closeErr != nil {
						logging.Debug("WebSocket close error during broadcast: %v", closeErr)
					}
					delete(h.clients, client)
					continue
				}
				metrics.WebSocketMessagesSent.Inc()
			}
			metrics.WebSocketClients.Set(float64(len(h.clients)))
			h.mu.Unlock()
		}
	}
}

// HandleConnection upgrades an HTTP request to a WebSocket connection and
// keeps it registered until the client disconnects.
func (h *Hub) HandleConnection(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error("Failed to upgrade to WebSocket: %v", err)
		return
	}
	h.register <- ws

	const (
		pongWait   = 60 * time.Second
		pingPeriod = (pongWait * 9) / 10
	)

	if err := ws.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logging.Debug("Failed to set initial read deadline: %v", err)
	}
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	go func() {
		for range ticker.C {
			h.mu.Lock()
			if _, exists := h.clients[ws]; !exists {
				h.mu.Unlock()
				return
			}
			// Write while holding the mutex to avoid racing broadcast writes.
			err := ws.WriteMessage(websocket.PingMessage, nil)
			h.mu.Unlock()
			if err != nil {
				h.unregister <- ws
				return
			}
		}
	}()

	defer func() {
		h.unregister <- ws
	}()

	// Block reading until the connection drops; the pong handler refreshes
	// the read deadline as pings are answered.
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}
}

// ClientCount returns the number of connected WebSocket clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
