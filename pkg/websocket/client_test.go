package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// newTestPair upgrades a real connection through httptest and wraps the
// server side in a Client. The returned conn is the dialer's end.
func newTestPair(t *testing.T, hub *Hub, socketID string) (*Client, *websocket.Conn) {
	t.Helper()

	upgrader := websocket.Upgrader{}
	serverConn := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		serverConn <- conn
	}))
	t.Cleanup(srv.Close)

	peer, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { peer.Close() })

	return NewClient(hub, <-serverConn, socketID), peer
}

func TestDisconnectLeavesSendChannelOpen(t *testing.T) {
	hub := NewHub()
	client, _ := newTestPair(t, hub, "sock-1")

	client.Disconnect()

	if client.IsConnected() {
		t.Fatal("client still connected after Disconnect")
	}

	// A broadcast that read IsConnected just before the disconnect may
	// still queue a frame. The channel must stay open or that send
	// panics the process.
	select {
	case client.send <- []byte(`{"type":"tick"}`):
	default:
		t.Fatal("send channel did not accept a frame")
	}
}

func TestDisconnectIsIdempotent(t *testing.T) {
	hub := NewHub()
	client, _ := newTestPair(t, hub, "sock-1")

	client.Disconnect()
	client.Disconnect()

	if err := client.Send([]byte("late")); err != ErrClientDisconnected {
		t.Errorf("Send after disconnect = %v, want ErrClientDisconnected", err)
	}
}

func TestRoomBroadcastReachesPeer(t *testing.T) {
	hub := NewHub()
	client, peer := newTestPair(t, hub, "sock-1")
	go client.WritePump()

	hub.AddClientToRoom(client, "ROOM01")
	hub.broadcastToRoom(&RoomMessage{RoomID: "ROOM01", Frame: []byte(`{"type":"tick"}`)})

	peer.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, frame, err := peer.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(frame) != `{"type":"tick"}` {
		t.Errorf("frame = %s", frame)
	}
}

func TestRoomBroadcastSkipsExceptedSession(t *testing.T) {
	hub := NewHub()
	a, peerA := newTestPair(t, hub, "sock-a")
	b, peerB := newTestPair(t, hub, "sock-b")
	go a.WritePump()
	go b.WritePump()

	hub.BindSession(a, "session_aaa111")
	hub.BindSession(b, "session_bbb222")
	hub.AddClientToRoom(a, "ROOM01")
	hub.AddClientToRoom(b, "ROOM01")

	hub.broadcastToRoom(&RoomMessage{RoomID: "ROOM01", Frame: []byte("first"), ExceptSession: "session_aaa111"})
	hub.broadcastToRoom(&RoomMessage{RoomID: "ROOM01", Frame: []byte("second")})

	peerB.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, frame, err := peerB.ReadMessage()
	if err != nil {
		t.Fatalf("read b: %v", err)
	}
	if string(frame) != "first" {
		t.Errorf("b's first frame = %s, want first", frame)
	}

	// Per-client frames are delivered in order, so a's first frame
	// proves the excepted one was never queued.
	peerA.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, frame, err = peerA.ReadMessage()
	if err != nil {
		t.Fatalf("read a: %v", err)
	}
	if string(frame) != "second" {
		t.Errorf("a's first frame = %s, want second", frame)
	}
}

func TestBindSessionReplacesOldConnection(t *testing.T) {
	hub := NewHub()
	old, _ := newTestPair(t, hub, "sock-old")
	fresh, _ := newTestPair(t, hub, "sock-new")

	hub.BindSession(old, "session_aaa111")
	hub.BindSession(fresh, "session_aaa111")

	got, ok := hub.GetClientBySession("session_aaa111")
	if !ok || got != fresh {
		t.Fatal("session does not resolve to the newest connection")
	}

	// The replaced connection is torn down asynchronously.
	deadline := time.Now().Add(2 * time.Second)
	for old.IsConnected() {
		if time.Now().After(deadline) {
			t.Fatal("old connection still up after session rebind")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
