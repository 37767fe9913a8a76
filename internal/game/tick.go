package game

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/pranavnigade123/drawzzl-backend/internal/models"
	"github.com/pranavnigade123/drawzzl-backend/internal/store"
)

// runTicker drives the room's once-per-second heartbeat until stopped.
func (e *Engine) runTicker(roomID string, stop <-chan struct{}) {
	t := time.NewTicker(time.Second)
	defer t.Stop()

	for {
		select {
		case <-stop:
			return
		case <-t.C:
			e.tick(roomID)
		}
	}
}

// tick is one heartbeat of the drawing phase: broadcast the countdown,
// reveal hint letters on schedule and end the turn when the clock runs
// out or everyone has guessed. A panic in one tick must not kill the
// interval goroutine.
func (e *Engine) tick(roomID string) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("Room %s: tick panic recovered: %v", roomID, rec)
		}
	}()

	lock := e.roomLock(roomID)
	lock.Lock()
	defer lock.Unlock()

	ctx := context.Background()
	room, err := e.store.Load(ctx, roomID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			e.stopTicker(roomID)
		}
		return
	}
	if room.State != models.StateDrawing {
		e.stopTicker(roomID)
		return
	}

	timeLeft := room.TimeLeft(time.Now())

	if revealDue(room.DrawTime, timeLeft, len(room.RevealedLetters)) {
		updated, err := store.UpdateRoom(ctx, e.store, roomID, func(r *models.Room) error {
			if r.State != models.StateDrawing {
				return ErrWrongPhase
			}
			if idx := randomHiddenIndex(r.CurrentWord, r.RevealedLetters); idx >= 0 {
				r.RevealedLetters = append(r.RevealedLetters, idx)
			}
			return nil
		})
		if err == nil {
			room = updated
			mask := MaskWord(room.CurrentWord, room.RevealedLetters)
			exceptSession := ""
			if d := room.Drawer(); d != nil {
				exceptSession = d.SessionID
			}
			e.cast.ToRoomExcept(roomID, exceptSession, models.MustEncode(models.EventHintUpdate, models.HintUpdateData{WordHint: mask}))
		}
	}

	e.cast.ToRoom(roomID, models.MustEncode(models.EventTick, models.TickData{TimeLeft: timeLeft}))

	if timeLeft <= 0 || len(room.CorrectGuessers) >= room.EligibleGuessers() {
		e.endTurnLocked(ctx, roomID)
	}
}
