// Package server streams particle positions to websocket clients so a
// browser canvas can render the simulation remotely.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/pthm-cable/brine/components"
)

// frame is the wire format for one broadcast: a flat [x0, y0, x1, y1, ...]
// coordinate list plus the domain extents for client-side scaling.
type frame struct {
	Width  float32   `json:"width"`
	Height float32   `json:"height"`
	Coords []float32 `json:"coords"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Broadcaster fans particle frames out to connected websocket clients.
// Slow clients are dropped rather than allowed to stall the simulation.
type Broadcaster struct {
	width, height float32

	mu      sync.Mutex
	clients map[*websocket.Conn]chan []byte
}

// NewBroadcaster creates a broadcaster for a domain of the given extents.
func NewBroadcaster(width, height float32) *Broadcaster {
	return &Broadcaster{
		width:   width,
		height:  height,
		clients: make(map[*websocket.Conn]chan []byte),
	}
}

// ListenAndServe serves the websocket endpoint at /ws until the server
// fails. Intended to run in its own goroutine.
func (b *Broadcaster) ListenAndServe(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", b.wsHandler)

	slog.Info("serving particle stream", "addr", addr)
	return http.ListenAndServe(addr, mux)
}

// wsHandler upgrades the connection and registers the client.
func (b *Broadcaster) wsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		if _, ok := err.(websocket.HandshakeError); !ok {
			slog.Error("websocket upgrade failed", "error", err)
		}
		return
	}

	send := make(chan []byte, 4)

	b.mu.Lock()
	b.clients[conn] = send
	b.mu.Unlock()

	slog.Info("client connected", "remote", conn.RemoteAddr().String())

	go b.writeLoop(conn, send)
	go b.readLoop(conn)
}

// writeLoop drains the client's send queue.
func (b *Broadcaster) writeLoop(conn *websocket.Conn, send chan []byte) {
	for msg := range send {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			b.drop(conn)
			return
		}
	}
}

// readLoop consumes (and discards) client messages so that pings and
// close frames are processed.
func (b *Broadcaster) readLoop(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("websocket read failed", "error", err)
			}
			b.drop(conn)
			return
		}
	}
}

// drop removes a client and closes its connection.
func (b *Broadcaster) drop(conn *websocket.Conn) {
	b.mu.Lock()
	send, ok := b.clients[conn]
	if ok {
		delete(b.clients, conn)
		close(send)
	}
	b.mu.Unlock()
	conn.Close()
}

// Broadcast sends the positions of one frame to every client. A client
// whose queue is full skips the frame; streaming favors freshness over
// completeness.
func (b *Broadcaster) Broadcast(positions []components.Position) {
	b.mu.Lock()
	n := len(b.clients)
	b.mu.Unlock()
	if n == 0 {
		return
	}

	coords := make([]float32, 0, len(positions)*2)
	for _, p := range positions {
		coords = append(coords, p.X, p.Y)
	}

	msg, err := json.Marshal(frame{Width: b.width, Height: b.height, Coords: coords})
	if err != nil {
		slog.Error("failed to marshal frame", "error", err)
		return
	}

	b.mu.Lock()
	for _, send := range b.clients {
		select {
		case send <- msg:
		default:
		}
	}
	b.mu.Unlock()
}

// ClientCount returns the number of connected clients.
func (b *Broadcaster) ClientCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}
