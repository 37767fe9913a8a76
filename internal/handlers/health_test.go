package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pranavnigade123/drawzzl-backend/internal/models"
	"github.com/pranavnigade123/drawzzl-backend/internal/store"
	"github.com/pranavnigade123/drawzzl-backend/pkg/websocket"
)

func TestHealthReportsRooms(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	lobby := models.NewRoom("ROOM01", models.NewPlayer("s1", "session_aaa", "a", [4]int{}))
	if err := s.Create(ctx, lobby); err != nil {
		t.Fatal(err)
	}
	live := models.NewRoom("ROOM02", models.NewPlayer("s2", "session_bbb", "b", [4]int{}))
	live.GameStarted = true
	if err := s.Create(ctx, live); err != nil {
		t.Fatal(err)
	}

	handler := Health(s, websocket.NewHub(), time.Now().Add(-time.Minute))
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Status   string `json:"status"`
		Database string `json:"database"`
		Rooms    struct {
			Total  int `json:"total"`
			Active int `json:"active"`
		} `json:"rooms"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp.Status != "ok" || resp.Database != "connected" {
		t.Errorf("status/database = %s/%s", resp.Status, resp.Database)
	}
	if resp.Rooms.Total != 2 || resp.Rooms.Active != 1 {
		t.Errorf("rooms = %+v, want total 2 active 1", resp.Rooms)
	}
}

// failingStore wraps the memory store with a broken ping.
type failingStore struct {
	*store.MemoryStore
}

func (f *failingStore) Ping(ctx context.Context) error {
	return context.DeadlineExceeded
}

func TestHealthReportsDatabaseOutage(t *testing.T) {
	s := &failingStore{store.NewMemoryStore()}

	handler := Health(s, websocket.NewHub(), time.Now())
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	var resp struct {
		Status   string `json:"status"`
		Database string `json:"database"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp.Status != "unhealthy" || resp.Database != "disconnected" {
		t.Errorf("status/database = %s/%s, want unhealthy/disconnected", resp.Status, resp.Database)
	}
}
