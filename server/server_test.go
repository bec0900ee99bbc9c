package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pthm-cable/brine/components"
)

func TestBroadcastWithoutClients(t *testing.T) {
	b := NewBroadcaster(1000, 1000)

	// Must be a no-op, not a panic
	b.Broadcast([]components.Position{{X: 1, Y: 2}})

	if b.ClientCount() != 0 {
		t.Errorf("ClientCount() = %d, want 0", b.ClientCount())
	}
}

func TestBroadcastRoundtrip(t *testing.T) {
	b := NewBroadcaster(1000, 800)

	srv := httptest.NewServer(http.HandlerFunc(b.wsHandler))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	// Registration happens in the handler goroutine
	deadline := time.Now().Add(2 * time.Second)
	for b.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if b.ClientCount() != 1 {
		t.Fatalf("ClientCount() = %d, want 1", b.ClientCount())
	}

	positions := []components.Position{{X: 10, Y: 20}, {X: 30, Y: 40}}
	b.Broadcast(positions)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	var f frame
	if err := json.Unmarshal(msg, &f); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if f.Width != 1000 || f.Height != 800 {
		t.Errorf("extents = (%v, %v), want (1000, 800)", f.Width, f.Height)
	}
	want := []float32{10, 20, 30, 40}
	if len(f.Coords) != len(want) {
		t.Fatalf("got %d coords, want %d", len(f.Coords), len(want))
	}
	for i := range want {
		if f.Coords[i] != want[i] {
			t.Errorf("coord %d = %v, want %v", i, f.Coords[i], want[i])
		}
	}
}

func TestDropDisconnectedClient(t *testing.T) {
	b := NewBroadcaster(1000, 1000)

	srv := httptest.NewServer(http.HandlerFunc(b.wsHandler))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for b.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	conn.Close()

	deadline = time.Now().Add(2 * time.Second)
	for b.ClientCount() != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if b.ClientCount() != 0 {
		t.Errorf("ClientCount() = %d after disconnect, want 0", b.ClientCount())
	}
}
