package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/pranavnigade123/drawzzl-backend/internal/store"
	"github.com/pranavnigade123/drawzzl-backend/pkg/websocket"
)

// healthResponse is the /health payload
type healthResponse struct {
	Status      string      `json:"status"`
	Timestamp   time.Time   `json:"timestamp"`
	Uptime      string      `json:"uptime"`
	Database    string      `json:"database"`
	Rooms       roomCounts  `json:"rooms"`
	Connections int         `json:"connections"`
	Memory      memoryStats `json:"memory"`
}

type roomCounts struct {
	Total  int `json:"total"`
	Active int `json:"active"`
}

type memoryStats struct {
	AllocMB      uint64 `json:"allocMb"`
	TotalAllocMB uint64 `json:"totalAllocMb"`
	SysMB        uint64 `json:"sysMb"`
	NumGC        uint32 `json:"numGc"`
}

// Health returns the health check handler. A failing database ping
// reports 500 so load balancers rotate the instance out.
func Health(s store.RoomStore, hub *websocket.Hub, startTime time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		resp := healthResponse{
			Status:      "ok",
			Timestamp:   time.Now(),
			Uptime:      time.Since(startTime).Round(time.Second).String(),
			Database:    "connected",
			Connections: hub.GetConnectedClients(),
		}

		code := http.StatusOK
		if err := s.Ping(ctx); err != nil {
			resp.Status = "unhealthy"
			resp.Database = "disconnected"
			code = http.StatusInternalServerError
		} else if total, active, err := s.Count(ctx); err == nil {
			resp.Rooms = roomCounts{Total: total, Active: active}
		}

		var mem runtime.MemStats
		runtime.ReadMemStats(&mem)
		resp.Memory = memoryStats{
			AllocMB:      mem.Alloc / 1024 / 1024,
			TotalAllocMB: mem.TotalAlloc / 1024 / 1024,
			SysMB:        mem.Sys / 1024 / 1024,
			NumGC:        mem.NumGC,
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(resp)
	}
}
