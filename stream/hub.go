package stream

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// writeWait bounds how long one client write may block a broadcast.
const writeWait = 100 * time.Millisecond

// Hub fans frames out to connected websocket clients and forwards their
// selection requests to a sink.
type Hub struct {
	mu       sync.Mutex
	clients  map[*websocket.Conn]struct{}
	upgrader websocket.Upgrader
	last     []byte // most recent frame, sent to new clients

	writeTimeout time.Duration

	onSelect func(SelectRequest)
}

// NewHub creates a hub. onSelect is called from the client's read
// goroutine for every decoded request and may be nil.
func NewHub(onSelect func(SelectRequest)) *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		writeTimeout: writeWait,
		onSelect:     onSelect,
	}
}

// write sends one binary message, failing once the write deadline passes.
func (h *Hub) write(conn *websocket.Conn, payload []byte) error {
	if err := conn.SetWriteDeadline(time.Now().Add(h.writeTimeout)); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.BinaryMessage, payload)
}

func (h *Hub) add(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = struct{}{}
	if h.last != nil {
		if err := h.write(conn, h.last); err != nil {
			slog.Warn("stream: initial frame write failed", "remote", conn.RemoteAddr().String(), "error", err)
		}
	}
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
	conn.Close()
}

// Broadcast sends the frame to every client. Clients that fail to
// receive it within the write deadline are dropped.
func (h *Hub) Broadcast(f Frame) {
	payload := f.Marshal()

	h.mu.Lock()
	defer h.mu.Unlock()

	h.last = payload
	for conn := range h.clients {
		if err := h.write(conn, payload); err != nil {
			slog.Warn("stream: dropping client", "remote", conn.RemoteAddr().String(), "error", err)
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.Close()
		delete(h.clients, conn)
	}
}

// Handler upgrades requests to websocket connections and reads selection
// requests until the client goes away.
func (h *Hub) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Warn("stream: websocket upgrade failed", "error", err)
			return
		}
		h.add(conn)
		defer h.remove(conn)
		slog.Info("stream: client connected", "remote", conn.RemoteAddr().String())

		for {
			msgType, data, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					slog.Warn("stream: read error", "remote", conn.RemoteAddr().String(), "error", err)
				}
				return
			}
			if msgType != websocket.BinaryMessage {
				continue
			}

			req, err := UnmarshalSelectRequest(data)
			if err != nil {
				slog.Warn("stream: unable to decode select request", "error", err)
				continue
			}
			if h.onSelect != nil {
				h.onSelect(req)
			}
		}
	}
}
