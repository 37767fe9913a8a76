package game

import (
	"context"
	"log"
	"time"

	"github.com/pranavnigade123/drawzzl-backend/internal/models"
)

// Sweep intervals and thresholds for abandoned rooms.
const (
	SweepInterval  = 10 * time.Minute
	EmptyRoomGrace = 5 * time.Minute
	IdleRoomLimit  = time.Hour
)

// RunSweeper periodically deletes abandoned rooms: rooms with nobody
// connected for EmptyRoomGrace, and rooms with no activity at all for
// IdleRoomLimit. Blocks until stop is closed.
func (e *Engine) RunSweeper(stop <-chan struct{}) {
	t := time.NewTicker(SweepInterval)
	defer t.Stop()

	for {
		select {
		case <-stop:
			return
		case <-t.C:
			e.sweepOnce(context.Background())
		}
	}
}

func (e *Engine) sweepOnce(ctx context.Context) {
	now := time.Now()
	var doomed []string

	err := e.store.ForEach(ctx, func(r *models.Room) error {
		idle := now.Sub(r.LastActivity)
		if r.ConnectedCount() == 0 && idle > EmptyRoomGrace {
			doomed = append(doomed, r.RoomID)
			return nil
		}
		if idle > IdleRoomLimit {
			doomed = append(doomed, r.RoomID)
		}
		return nil
	})
	if err != nil {
		log.Printf("Sweeper: room scan failed: %v", err)
		return
	}

	for _, roomID := range doomed {
		e.TeardownRoom(roomID)
		if err := e.store.Delete(ctx, roomID); err != nil {
			log.Printf("Sweeper: delete room %s failed: %v", roomID, err)
			continue
		}
		log.Printf("Sweeper: removed abandoned room %s", roomID)
	}
	if len(doomed) > 0 {
		log.Printf("Sweeper: cleaned %d room(s)", len(doomed))
	}
}
