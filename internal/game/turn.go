package game

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/pranavnigade123/drawzzl-backend/internal/models"
	"github.com/pranavnigade123/drawzzl-backend/internal/store"
)

// StartGame moves a lobby (or finished game) into the first turn.
// Host-only; needs at least two connected players.
func (e *Engine) StartGame(ctx context.Context, roomID, sessionID string) error {
	lock := e.roomLock(roomID)
	lock.Lock()
	defer lock.Unlock()

	room, err := store.UpdateRoom(ctx, e.store, roomID, func(r *models.Room) error {
		if !r.IsHost(sessionID) {
			return ErrNotHost
		}
		if r.State != models.StateLobby && r.State != models.StateGameOver {
			return ErrGameInProgress
		}
		if r.ConnectedCount() < models.MinPlayersToStart {
			return ErrNotEnoughPlayers
		}
		r.GameStarted = true
		r.State = models.StateLobby
		r.Round = 1
		r.DrawerIndex = 0
		for _, p := range r.Players {
			p.Score = 0
		}
		r.ResetTurn()
		r.SyncDrawerFlags()
		r.LastActivity = time.Now()
		return nil
	})
	if err != nil {
		return err
	}

	e.cast.ToRoom(roomID, models.MustEncode(models.EventGameStarted, models.GameStartedData{
		Round:     room.Round,
		MaxRounds: room.MaxRounds,
		Players:   room.Players,
	}))

	e.startTurnLocked(ctx, roomID)
	return nil
}

// startTurnLocked enters the choosing phase for the current drawer,
// skipping disconnected drawers. Detects round overflow and commits
// game over instead. Caller holds the room lock.
func (e *Engine) startTurnLocked(ctx context.Context, roomID string) {
	var over bool
	room, err := store.UpdateRoom(ctx, e.store, roomID, func(r *models.Room) error {
		over = false
		r.ResetTurn()

		// Skip players who are gone; each skip is a full rotation step
		// so round accounting stays correct.
		for i := 0; i < len(r.Players); i++ {
			d := r.Drawer()
			if d == nil || d.IsConnected {
				break
			}
			if r.AdvanceDrawer() {
				r.Round++
			}
		}

		if r.Round > r.MaxRounds {
			over = true
			r.State = models.StateGameOver
			r.GameStarted = false
			r.SyncDrawerFlags()
			r.LastActivity = time.Now()
			return nil
		}

		r.State = models.StateChoosing
		r.SyncDrawerFlags()
		r.LastActivity = time.Now()
		return nil
	})
	if err != nil {
		log.Printf("Room %s: start turn failed: %v", roomID, err)
		return
	}

	if over {
		e.commitGameOver(roomID, room)
		return
	}

	drawer := room.Drawer()
	if drawer == nil {
		return
	}

	cands := e.words.Candidates(room.WordCount, room.CustomWords, room.CustomWordProbability)
	e.setCandidates(roomID, cands)

	e.cast.ToRoomExcept(roomID, drawer.SessionID, models.MustEncode(models.EventDrawerSelecting, models.DrawerSelectingData{
		DrawerSession: drawer.SessionID,
		DrawerName:    drawer.Name,
		Round:         room.Round,
		MaxRounds:     room.MaxRounds,
		Players:       room.PlayersByScore(),
	}))
	e.cast.ToSession(drawer.SessionID, models.MustEncode(models.EventSelectWord, models.SelectWordData{
		Words:     cands,
		TimeLimit: models.ChoosingSeconds,
	}))

	e.setChooseTimer(roomID, models.ChoosingSeconds*time.Second, func() {
		e.autoSelectWord(roomID)
	})
}

// SelectWord handles the drawer's choice and cancels the auto-pick.
func (e *Engine) SelectWord(ctx context.Context, roomID, sessionID, word string) error {
	lock := e.roomLock(roomID)
	lock.Lock()
	defer lock.Unlock()

	room, err := e.store.Load(ctx, roomID)
	if err != nil {
		return err
	}
	if room.State != models.StateChoosing {
		return ErrWrongPhase
	}
	drawer := room.Drawer()
	if drawer == nil || drawer.SessionID != sessionID {
		return ErrNotDrawer
	}

	valid := false
	for _, c := range e.peekCandidates(roomID) {
		if c == word {
			valid = true
			break
		}
	}
	if !valid {
		return ErrInvalidWord
	}

	e.stopChooseTimer(roomID)
	e.takeCandidates(roomID)
	e.startDrawingLocked(ctx, roomID, word)
	return nil
}

// autoSelectWord fires when the choosing window elapses: a uniformly
// random candidate is picked on the drawer's behalf.
func (e *Engine) autoSelectWord(roomID string) {
	lock := e.roomLock(roomID)
	lock.Lock()
	defer lock.Unlock()

	ctx := context.Background()
	room, err := e.store.Load(ctx, roomID)
	if err != nil {
		log.Printf("Room %s: auto-select load failed: %v", roomID, err)
		return
	}
	if room.State != models.StateChoosing {
		return
	}

	cands := e.takeCandidates(roomID)
	if len(cands) == 0 {
		cands = e.words.Candidates(room.WordCount, room.CustomWords, room.CustomWordProbability)
	}
	word := cands[rand.Intn(len(cands))]
	e.startDrawingLocked(ctx, roomID, word)
}

// startDrawingLocked enters the drawing phase with the chosen word and
// starts the per-room tick interval. Caller holds the room lock.
func (e *Engine) startDrawingLocked(ctx context.Context, roomID, word string) {
	room, err := store.UpdateRoom(ctx, e.store, roomID, func(r *models.Room) error {
		if r.State != models.StateChoosing {
			return ErrWrongPhase
		}
		r.State = models.StateDrawing
		r.CurrentWord = word
		r.TurnEndsAt = time.Now().Add(time.Duration(r.DrawTime) * time.Second)
		r.RevealedLetters = []int{}
		r.CorrectGuessers = []string{}
		r.RoundPoints = map[string]int{}
		r.SyncDrawerFlags()
		r.LastActivity = time.Now()
		return nil
	})
	if err != nil {
		log.Printf("Room %s: start drawing failed: %v", roomID, err)
		return
	}

	drawer := room.Drawer()
	if drawer != nil {
		e.cast.ToSession(drawer.SessionID, models.MustEncode(models.EventYourWord, models.YourWordData{Word: word}))
	}
	e.cast.ToRoom(roomID, models.MustEncode(models.EventTick, models.TickData{TimeLeft: room.TimeLeft(time.Now())}))

	mask := MaskWord(word, nil)
	exceptSession := ""
	if drawer != nil {
		exceptSession = drawer.SessionID
	}
	e.cast.ToRoomExcept(roomID, exceptSession, models.MustEncode(models.EventHintUpdate, models.HintUpdateData{WordHint: mask}))

	e.startTicker(roomID)
}

// endTurnLocked finishes the current turn: awards the drawer bonus,
// broadcasts results and schedules the intermission. Re-entrant calls
// are dropped while an end is in progress. Caller holds the room lock.
func (e *Engine) endTurnLocked(ctx context.Context, roomID string) {
	if !e.beginEndTurn(roomID) {
		return
	}

	e.stopTicker(roomID)
	e.stopChooseTimer(roomID)

	var word string
	var bonus int
	var guessers []string
	room, err := store.UpdateRoom(ctx, e.store, roomID, func(r *models.Room) error {
		if r.State != models.StateDrawing && r.State != models.StateChoosing {
			return ErrWrongPhase
		}
		word = r.CurrentWord
		guessers = append([]string(nil), r.CorrectGuessers...)
		bonus = DrawerBonus(len(guessers))
		if d := r.Drawer(); d != nil && bonus > 0 {
			d.Score += bonus
			if r.RoundPoints == nil {
				r.RoundPoints = map[string]int{}
			}
			r.RoundPoints[d.SessionID] = bonus
		}
		r.State = models.StateIntermission
		r.CurrentWord = ""
		r.TurnEndsAt = time.Time{}
		r.SyncDrawerFlags()
		r.LastActivity = time.Now()
		return nil
	})
	if err != nil {
		log.Printf("Room %s: end turn failed: %v", roomID, err)
		e.finishEndTurn(roomID)
		return
	}

	e.cast.ToRoom(roomID, models.MustEncode(models.EventTurnEnded, models.TurnEndedData{
		Word:            word,
		Players:         room.PlayersByScore(),
		CorrectGuessers: guessers,
		DrawerBonus:     bonus,
	}))

	e.setPauseTimer(roomID, models.IntermissionSeconds*time.Second, func() {
		e.nextTurn(roomID)
	})
	e.finishEndTurn(roomID)
}

// nextTurn rotates the drawer after the intermission pause and either
// starts the next turn or commits game over.
func (e *Engine) nextTurn(roomID string) {
	lock := e.roomLock(roomID)
	lock.Lock()
	defer lock.Unlock()

	ctx := context.Background()
	_, err := store.UpdateRoom(ctx, e.store, roomID, func(r *models.Room) error {
		if r.State != models.StateIntermission {
			return ErrWrongPhase
		}
		if r.AdvanceDrawer() {
			r.Round++
		}
		r.LastActivity = time.Now()
		return nil
	})
	if err != nil {
		log.Printf("Room %s: rotate drawer failed: %v", roomID, err)
		return
	}

	e.startTurnLocked(ctx, roomID)
}

// commitGameOver broadcasts the final scoreboard. The room stays in
// the gameover state until the host starts a new game.
func (e *Engine) commitGameOver(roomID string, room *models.Room) {
	e.stopTicker(roomID)
	e.stopChooseTimer(roomID)
	e.takeCandidates(roomID)

	e.cast.ToRoom(roomID, models.MustEncode(models.EventGameOver, models.GameOverData{
		Players: room.PlayersByScore(),
	}))
}

// PlayerDisconnected lets the engine react to a member dropping: a
// drawer gone during word selection skips the turn, and a shrunken
// guesser pool may satisfy the everyone-guessed end condition. The
// engine otherwise keeps playing with the remaining players.
func (e *Engine) PlayerDisconnected(ctx context.Context, roomID, sessionID string) {
	lock := e.roomLock(roomID)
	lock.Lock()
	defer lock.Unlock()

	room, err := e.store.Load(ctx, roomID)
	if err != nil {
		return
	}

	switch room.State {
	case models.StateChoosing:
		if d := room.Drawer(); d != nil && d.SessionID == sessionID {
			e.stopChooseTimer(roomID)
			e.takeCandidates(roomID)
			e.endTurnLocked(ctx, roomID)
		}
	case models.StateDrawing:
		if len(room.CorrectGuessers) >= room.EligibleGuessers() {
			e.endTurnLocked(ctx, roomID)
		}
	}
}
