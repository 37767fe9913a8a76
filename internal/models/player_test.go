package models

import "testing"

func TestRebindKeepsIdentityAndScore(t *testing.T) {
	p := NewPlayer("sock-old", "session_abc123", "alice", [4]int{1, 2, 3, 4})
	p.Score = 350
	p.MarkDisconnected()

	if p.IsConnected {
		t.Fatal("player still connected after MarkDisconnected")
	}

	p.Rebind("sock-new")

	if !p.IsConnected {
		t.Error("player not connected after Rebind")
	}
	if p.SocketID != "sock-new" {
		t.Errorf("socket = %s, want sock-new", p.SocketID)
	}
	if p.SessionID != "session_abc123" || p.Score != 350 || p.Name != "alice" {
		t.Errorf("identity changed across reconnect: %+v", p)
	}
}
