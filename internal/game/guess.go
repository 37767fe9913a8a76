package game

import (
	"context"
	"time"

	"github.com/agnivade/levenshtein"

	"github.com/pranavnigade123/drawzzl-backend/internal/models"
	"github.com/pranavnigade123/drawzzl-backend/pkg/utils"
)

// Guess resolves one guess attempt. Exact matches score and are never
// echoed to the room; near misses get a private nudge and still show up
// in chat; everything else is plain chat. The drawer and players who
// already scored cannot leak the word through this path.
func (e *Engine) Guess(ctx context.Context, roomID, sessionID, guess string) error {
	room, err := e.store.Load(ctx, roomID)
	if err != nil {
		return err
	}
	player := room.FindPlayer(sessionID)
	if player == nil {
		return ErrNotMember
	}

	if room.State != models.StateDrawing || room.CurrentWord == "" {
		return e.postChat(ctx, room, player, guess)
	}

	norm := utils.NormalizeGuess(guess)
	target := utils.NormalizeGuess(room.CurrentWord)
	drawer := room.Drawer()
	isDrawer := drawer != nil && drawer.SessionID == sessionID
	knowsWord := isDrawer || room.HasGuessed(sessionID)

	if norm == target {
		if knowsWord {
			// Nothing to award and nothing safe to broadcast.
			return nil
		}
		return e.applyCorrectGuess(ctx, room, player)
	}

	if !knowsWord && norm != "" && len(target) >= 3 && levenshtein.ComputeDistance(norm, target) == 1 {
		e.cast.ToSession(sessionID, models.MustEncode(models.EventCloseGuess, models.CloseGuessData{
			Message: "So close!",
		}))
	}

	return e.postChat(ctx, room, player, guess)
}

// Chat posts a plain chat message. During the drawing phase messages
// that spell out the word from someone who knows it are dropped.
func (e *Engine) Chat(ctx context.Context, roomID, sessionID, msg string) error {
	room, err := e.store.Load(ctx, roomID)
	if err != nil {
		return err
	}
	player := room.FindPlayer(sessionID)
	if player == nil {
		return ErrNotMember
	}

	if room.State == models.StateDrawing && room.CurrentWord != "" {
		drawer := room.Drawer()
		knowsWord := (drawer != nil && drawer.SessionID == sessionID) || room.HasGuessed(sessionID)
		if knowsWord && utils.NormalizeGuess(msg) == utils.NormalizeGuess(room.CurrentWord) {
			return nil
		}
	}

	return e.postChat(ctx, room, player, msg)
}

// applyCorrectGuess awards the guesser through the store's conditional
// update, which is the single-award gate across concurrent attempts,
// then announces the result and ends the turn early when the guesser
// was the last one out.
func (e *Engine) applyCorrectGuess(ctx context.Context, room *models.Room, player *models.Player) error {
	points := GuessPoints(room.TimeLeft(time.Now()))

	credited, err := e.store.ApplyCorrectGuess(ctx, room.RoomID, player.SessionID, points)
	if err != nil {
		return err
	}
	if !credited {
		return nil
	}

	fresh, err := e.store.Load(ctx, room.RoomID)
	if err != nil {
		return err
	}

	e.cast.ToRoom(room.RoomID, models.MustEncode(models.EventCorrectGuess, models.CorrectGuessData{
		SessionID: player.SessionID,
		Name:      player.Name,
		Points:    points,
		Players:   fresh.PlayersByScore(),
	}))

	if len(fresh.CorrectGuessers) >= fresh.EligibleGuessers() {
		lock := e.roomLock(room.RoomID)
		lock.Lock()
		defer lock.Unlock()
		e.endTurnLocked(ctx, room.RoomID)
	}
	return nil
}

// postChat cleans, persists and broadcasts a chat message.
func (e *Engine) postChat(ctx context.Context, room *models.Room, player *models.Player, msg string) error {
	clean, err := utils.CleanMessage(msg)
	if err != nil {
		return nil
	}

	entry := models.ChatEntry{
		SessionID: player.SessionID,
		Name:      player.Name,
		Msg:       clean,
		TS:        time.Now(),
	}
	if err := e.store.AppendChat(ctx, room.RoomID, entry); err != nil {
		return err
	}

	e.cast.ToRoom(room.RoomID, models.MustEncode(models.EventChat, models.ChatBroadcastData{
		SessionID: entry.SessionID,
		Name:      entry.Name,
		Msg:       entry.Msg,
		TS:        entry.TS,
	}))
	return nil
}
