package stream

import (
	"errors"
	"math"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"google.golang.org/protobuf/encoding/protowire"
)

func TestFrameEncoding(t *testing.T) {
	f := Frame{
		Tick: 1234,
		Agents: []AgentState{
			{Slot: 0, Name: "Red", X: 10, Z: 10, Orientation: 2.1, Speed: 9.5, Behavior: "Arrive"},
			{Slot: 1, Name: "Green", X: -10, Z: -20, Orientation: -0.75, Behavior: "Stationary"},
		},
	}

	got, err := UnmarshalFrame(f.Marshal())
	if err != nil {
		t.Fatalf("UnmarshalFrame: %v", err)
	}
	if got.Tick != f.Tick || len(got.Agents) != 2 {
		t.Fatalf("frame = %+v", got)
	}
	for i := range f.Agents {
		if got.Agents[i] != f.Agents[i] {
			t.Errorf("agent %d = %+v, want %+v", i, got.Agents[i], f.Agents[i])
		}
	}
}

// Field numbers and types are fixed; decode a hand-built message.
func TestAgentStateWireLayout(t *testing.T) {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, 3)
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendString(b, "Blue")
	b = protowire.AppendTag(b, 4, protowire.Fixed64Type)
	b = protowire.AppendFixed64(b, math.Float64bits(-7.5))
	b = protowire.AppendTag(b, 99, protowire.VarintType) // unknown
	b = protowire.AppendVarint(b, 1)
	b = protowire.AppendTag(b, 7, protowire.BytesType)
	b = protowire.AppendString(b, "Wander")

	a, err := UnmarshalAgentState(b)
	if err != nil {
		t.Fatalf("UnmarshalAgentState: %v", err)
	}
	want := AgentState{Slot: 3, Name: "Blue", Z: -7.5, Behavior: "Wander"}
	if a != want {
		t.Errorf("got %+v, want %+v", a, want)
	}
}

func TestUnmarshalMalformed(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"truncated tag", []byte{0x80}},
		{"truncated string", []byte{0x12, 0x05, 'a'}},
		{"truncated double", []byte{0x19, 0x00, 0x01}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := UnmarshalAgentState(tt.data); !errors.Is(err, ErrMalformed) {
				t.Errorf("expected ErrMalformed, got %v", err)
			}
		})
	}
}

func TestSelectRequestEncoding(t *testing.T) {
	r := SelectRequest{Slot: 1, Behavior: "seek"}
	got, err := UnmarshalSelectRequest(r.Marshal())
	if err != nil {
		t.Fatalf("UnmarshalSelectRequest: %v", err)
	}
	if got != r {
		t.Errorf("got %+v, want %+v", got, r)
	}
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, h *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.ClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients, have %d", n, h.ClientCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub(nil)
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	conn := dial(t, srv)
	waitForClients(t, hub, 1)

	hub.Broadcast(Frame{Tick: 7, Agents: []AgentState{{Name: "Red", X: 1}}})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	msgType, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if msgType != websocket.BinaryMessage {
		t.Errorf("message type = %d, want binary", msgType)
	}
	f, err := UnmarshalFrame(data)
	if err != nil {
		t.Fatal(err)
	}
	if f.Tick != 7 || len(f.Agents) != 1 || f.Agents[0].Name != "Red" {
		t.Errorf("frame = %+v", f)
	}
}

func TestHubSendsLastFrameOnConnect(t *testing.T) {
	hub := NewHub(nil)
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	hub.Broadcast(Frame{Tick: 42})
	conn := dial(t, srv)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if f, _ := UnmarshalFrame(data); f.Tick != 42 {
		t.Errorf("tick = %d, want 42", f.Tick)
	}
}

func TestHubForwardsSelections(t *testing.T) {
	got := make(chan SelectRequest, 1)
	hub := NewHub(func(r SelectRequest) { got <- r })
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	conn := dial(t, srv)
	if err := conn.WriteMessage(websocket.BinaryMessage, []byte{0x80}); err != nil {
		t.Fatal(err)
	}
	req := SelectRequest{Slot: 1, Behavior: "wander"}
	if err := conn.WriteMessage(websocket.BinaryMessage, req.Marshal()); err != nil {
		t.Fatal(err)
	}

	select {
	case r := <-got:
		if r != req {
			t.Errorf("got %+v, want %+v", r, req)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("selection was not forwarded")
	}
}

func TestHubDropsClosedClients(t *testing.T) {
	hub := NewHub(nil)
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	conn := dial(t, srv)
	waitForClients(t, hub, 1)
	conn.Close()
	waitForClients(t, hub, 0)
}

// A client that stops reading is dropped once its socket buffers fill,
// and no single broadcast blocks past the write deadline.
func TestHubDropsStalledClient(t *testing.T) {
	hub := NewHub(nil)
	hub.writeTimeout = 20 * time.Millisecond
	srv := httptest.NewServer(hub.Handler())
	defer srv.Close()

	dial(t, srv) // never reads
	waitForClients(t, hub, 1)

	agents := make([]AgentState, 64)
	for i := range agents {
		agents[i] = AgentState{Slot: uint32(i), Name: strings.Repeat("x", 1024), X: float64(i)}
	}
	frame := Frame{Agents: agents}

	var slowest time.Duration
	for i := 0; i < 5000 && hub.ClientCount() > 0; i++ {
		frame.Tick = uint64(i)
		start := time.Now()
		hub.Broadcast(frame)
		if d := time.Since(start); d > slowest {
			slowest = d
		}
	}

	if hub.ClientCount() != 0 {
		t.Fatal("stalled client was never dropped")
	}
	if slowest > time.Second {
		t.Errorf("slowest broadcast took %v, want bounded by the write deadline", slowest)
	}
}
