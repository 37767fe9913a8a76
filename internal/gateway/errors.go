package gateway

import (
	"errors"

	"github.com/pranavnigade123/drawzzl-backend/internal/game"
	"github.com/pranavnigade123/drawzzl-backend/internal/store"
)

var (
	errRoomFull       = errors.New("room is full")
	errUnknownSession = errors.New("unknown session")
	errStaleSocket    = errors.New("stale socket")
)

// joinErrorMessage maps internal errors to the client-facing message.
// Anything unrecognized collapses to a generic message so internals
// never leak to the wire.
func joinErrorMessage(err error) string {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return "Room not found"
	case errors.Is(err, errRoomFull):
		return "Room is full"
	case errors.Is(err, errUnknownSession):
		return "Session not recognized, join the room again"
	case errors.Is(err, game.ErrNotHost):
		return "Only the host can do that"
	case errors.Is(err, game.ErrNotDrawer):
		return "Only the drawer can do that"
	case errors.Is(err, game.ErrNotEnoughPlayers):
		return "Need at least 2 players to start"
	case errors.Is(err, game.ErrGameInProgress):
		return "Game already in progress"
	case errors.Is(err, game.ErrNotMember):
		return "You are not in this room"
	case errors.Is(err, game.ErrInvalidWord):
		return "Invalid word choice"
	case errors.Is(err, game.ErrWrongPhase):
		return "Not available right now"
	case errors.Is(err, store.ErrVersionConflict):
		return "Room is busy, try again"
	default:
		return "Something went wrong"
	}
}
