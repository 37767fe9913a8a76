package store

import (
	"context"
	"errors"

	"github.com/pranavnigade123/drawzzl-backend/internal/models"
)

var (
	// ErrNotFound means the room does not exist
	ErrNotFound = errors.New("room not found")
	// ErrRoomExists means a room with the same ID already exists
	ErrRoomExists = errors.New("room already exists")
	// ErrVersionConflict means the optimistic save lost a race
	ErrVersionConflict = errors.New("room version conflict")
)

// saveRetries is how often UpdateRoom retries a conflicted save.
const saveRetries = 3

// RoomStore is the durable room repository. Save uses optimistic
// concurrency on the room version; the targeted updates (AppendChat,
// AppendDrawing, ClearDrawing, ApplyCorrectGuess) are atomic hot-path
// operations that bypass the load-modify-save cycle and never conflict.
type RoomStore interface {
	Create(ctx context.Context, room *models.Room) error
	Load(ctx context.Context, roomID string) (*models.Room, error)
	Save(ctx context.Context, room *models.Room, expectedVersion int64) error
	Delete(ctx context.Context, roomID string) error
	ForEach(ctx context.Context, fn func(*models.Room) error) error

	AppendChat(ctx context.Context, roomID string, entry models.ChatEntry) error
	AppendDrawing(ctx context.Context, roomID, sessionID string, lines interface{}) error
	ClearDrawing(ctx context.Context, roomID, sessionID string) error
	ApplyCorrectGuess(ctx context.Context, roomID, sessionID string, points int) (bool, error)

	Ping(ctx context.Context) error
	Count(ctx context.Context) (total, active int, err error)
	Close(ctx context.Context) error
}

// UpdateRoom loads the room, applies fn to the loaded copy and saves it
// back, retrying on version conflicts. fn must be safe to re-run on a
// freshly loaded room. Returns the saved room.
func UpdateRoom(ctx context.Context, s RoomStore, roomID string, fn func(*models.Room) error) (*models.Room, error) {
	var lastErr error
	for attempt := 0; attempt < saveRetries; attempt++ {
		room, err := s.Load(ctx, roomID)
		if err != nil {
			return nil, err
		}
		if err := fn(room); err != nil {
			return nil, err
		}
		err = s.Save(ctx, room, room.Version)
		if err == nil {
			return room, nil
		}
		if !errors.Is(err, ErrVersionConflict) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}
