package store

import (
	"context"
	"sync"
	"time"

	"github.com/pranavnigade123/drawzzl-backend/internal/models"
)

// MemoryStore is an in-process RoomStore with the same optimistic
// concurrency and conditional-update semantics as the Mongo store.
// It backs tests and single-node deployments without a database.
type MemoryStore struct {
	mu    sync.RWMutex
	rooms map[string]*models.Room
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rooms: make(map[string]*models.Room)}
}

// Create inserts a new room. The stored copy starts at version 1.
func (m *MemoryStore) Create(ctx context.Context, room *models.Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.rooms[room.RoomID]; exists {
		return ErrRoomExists
	}
	cp := room.Clone()
	cp.Version = 1
	m.rooms[room.RoomID] = cp
	room.Version = 1
	return nil
}

// Load returns a deep copy of the room.
func (m *MemoryStore) Load(ctx context.Context, roomID string) (*models.Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	room, ok := m.rooms[roomID]
	if !ok {
		return nil, ErrNotFound
	}
	return room.Clone(), nil
}

// Save replaces the room if the stored version matches expectedVersion,
// bumping the version on success.
func (m *MemoryStore) Save(ctx context.Context, room *models.Room, expectedVersion int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.rooms[room.RoomID]
	if !ok {
		return ErrNotFound
	}
	if stored.Version != expectedVersion {
		return ErrVersionConflict
	}
	cp := room.Clone()
	cp.Version = expectedVersion + 1
	m.rooms[room.RoomID] = cp
	room.Version = cp.Version
	return nil
}

// Delete removes the room. Deleting a missing room is not an error.
func (m *MemoryStore) Delete(ctx context.Context, roomID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rooms, roomID)
	return nil
}

// ForEach calls fn with a copy of every room.
func (m *MemoryStore) ForEach(ctx context.Context, fn func(*models.Room) error) error {
	m.mu.RLock()
	copies := make([]*models.Room, 0, len(m.rooms))
	for _, room := range m.rooms {
		copies = append(copies, room.Clone())
	}
	m.mu.RUnlock()

	for _, room := range copies {
		if err := fn(room); err != nil {
			return err
		}
	}
	return nil
}

// AppendChat atomically appends a chat entry, keeping the latest 50.
func (m *MemoryStore) AppendChat(ctx context.Context, roomID string, entry models.ChatEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	room, ok := m.rooms[roomID]
	if !ok {
		return ErrNotFound
	}
	room.AppendChat(entry)
	room.LastActivity = time.Now()
	room.Version++
	return nil
}

// ApplyCorrectGuess credits the guess unless the session already scored
// this turn. Returns whether the guess was newly credited.
func (m *MemoryStore) ApplyCorrectGuess(ctx context.Context, roomID, sessionID string, points int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	room, ok := m.rooms[roomID]
	if !ok {
		return false, ErrNotFound
	}
	if room.HasGuessed(sessionID) {
		return false, nil
	}
	player := room.FindPlayer(sessionID)
	if player == nil {
		return false, ErrNotFound
	}

	room.CorrectGuessers = append(room.CorrectGuessers, sessionID)
	if room.RoundPoints == nil {
		room.RoundPoints = map[string]int{}
	}
	room.RoundPoints[sessionID] = points
	player.Score += points
	room.LastActivity = time.Now()
	room.Version++
	return true, nil
}

// AppendDrawing appends one stroke batch to the canvas snapshot,
// provided the session is a room member.
func (m *MemoryStore) AppendDrawing(ctx context.Context, roomID, sessionID string, lines interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	room, ok := m.rooms[roomID]
	if !ok || room.FindPlayer(sessionID) == nil {
		return ErrNotFound
	}
	room.CurrentDrawing = append(room.CurrentDrawing, lines)
	room.LastActivity = time.Now()
	room.Version++
	return nil
}

// ClearDrawing wipes the canvas snapshot.
func (m *MemoryStore) ClearDrawing(ctx context.Context, roomID, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	room, ok := m.rooms[roomID]
	if !ok || room.FindPlayer(sessionID) == nil {
		return ErrNotFound
	}
	room.CurrentDrawing = []interface{}{}
	room.LastActivity = time.Now()
	room.Version++
	return nil
}

// Ping always succeeds for the in-memory store.
func (m *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// Count returns total rooms and rooms with a started game.
func (m *MemoryStore) Count(ctx context.Context) (int, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	active := 0
	for _, room := range m.rooms {
		if room.GameStarted {
			active++
		}
	}
	return len(m.rooms), active, nil
}

// Close is a no-op.
func (m *MemoryStore) Close(ctx context.Context) error {
	return nil
}
