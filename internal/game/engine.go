package game

import (
	"errors"
	"sync"
	"time"

	"github.com/pranavnigade123/drawzzl-backend/internal/store"
	"github.com/pranavnigade123/drawzzl-backend/internal/words"
)

// Engine errors surfaced to the offending client by the gateway.
var (
	ErrNotHost          = errors.New("only the host can do that")
	ErrNotDrawer        = errors.New("only the drawer can do that")
	ErrNotEnoughPlayers = errors.New("need at least 2 players to start")
	ErrGameInProgress   = errors.New("game already in progress")
	ErrNotMember        = errors.New("you are not in this room")
	ErrInvalidWord      = errors.New("invalid word choice")
	ErrWrongPhase       = errors.New("not available in this phase")
)

// Broadcaster fans engine events out to a room's connected members.
// The connection gateway's hub implements it. Frame delivery order per
// room follows call order.
type Broadcaster interface {
	ToRoom(roomID string, frame []byte)
	ToRoomExcept(roomID, exceptSession string, frame []byte)
	ToSession(sessionID string, frame []byte)
}

// Engine is the authoritative turn engine for all rooms in this
// process. Per-room state lives in the store; the engine owns the
// volatile room machinery: locks, tickers, selection timeouts and the
// end-turn guard.
type Engine struct {
	store store.RoomStore
	words *words.Bank
	cast  Broadcaster

	mu           sync.Mutex
	locks        map[string]*sync.Mutex
	tickStops    map[string]chan struct{}
	chooseTimers map[string]*time.Timer
	pauseTimers  map[string]*time.Timer
	endingTurn   map[string]bool
	candidates   map[string][]string
}

// NewEngine creates an engine over the given store and word bank.
func NewEngine(s store.RoomStore, bank *words.Bank, cast Broadcaster) *Engine {
	return &Engine{
		store:        s,
		words:        bank,
		cast:         cast,
		locks:        make(map[string]*sync.Mutex),
		tickStops:    make(map[string]chan struct{}),
		chooseTimers: make(map[string]*time.Timer),
		pauseTimers:  make(map[string]*time.Timer),
		endingTurn:   make(map[string]bool),
		candidates:   make(map[string][]string),
	}
}

// roomLock returns the room's transition mutex, creating it on demand.
// At most one engine transition runs per room while it is held.
func (e *Engine) roomLock(roomID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.locks[roomID]
	if !ok {
		l = &sync.Mutex{}
		e.locks[roomID] = l
	}
	return l
}

// startTicker starts the room's 1-second interval, replacing any
// previous one.
func (e *Engine) startTicker(roomID string) {
	e.mu.Lock()
	if old, ok := e.tickStops[roomID]; ok {
		close(old)
	}
	stop := make(chan struct{})
	e.tickStops[roomID] = stop
	e.mu.Unlock()

	go e.runTicker(roomID, stop)
}

// stopTicker cancels the room's interval if one is running.
func (e *Engine) stopTicker(roomID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if stop, ok := e.tickStops[roomID]; ok {
		close(stop)
		delete(e.tickStops, roomID)
	}
}

// setChooseTimer arms the word-selection timeout, replacing any
// previous one.
func (e *Engine) setChooseTimer(roomID string, d time.Duration, fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if old, ok := e.chooseTimers[roomID]; ok {
		old.Stop()
	}
	e.chooseTimers[roomID] = time.AfterFunc(d, fn)
}

// stopChooseTimer cancels the word-selection timeout.
func (e *Engine) stopChooseTimer(roomID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if t, ok := e.chooseTimers[roomID]; ok {
		t.Stop()
		delete(e.chooseTimers, roomID)
	}
}

// setPauseTimer arms the intermission pause, replacing any previous one.
func (e *Engine) setPauseTimer(roomID string, d time.Duration, fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if old, ok := e.pauseTimers[roomID]; ok {
		old.Stop()
	}
	e.pauseTimers[roomID] = time.AfterFunc(d, fn)
}

// stopPauseTimer cancels the intermission pause.
func (e *Engine) stopPauseTimer(roomID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if t, ok := e.pauseTimers[roomID]; ok {
		t.Stop()
		delete(e.pauseTimers, roomID)
	}
}

// beginEndTurn sets the end-turn-in-progress flag. Returns false when
// an end attempt is already running for the room.
func (e *Engine) beginEndTurn(roomID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.endingTurn[roomID] {
		return false
	}
	e.endingTurn[roomID] = true
	return true
}

// finishEndTurn clears the end-turn-in-progress flag.
func (e *Engine) finishEndTurn(roomID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.endingTurn, roomID)
}

// setCandidates records the drawer's word choices for the room.
func (e *Engine) setCandidates(roomID string, list []string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.candidates[roomID] = list
}

// takeCandidates returns and clears the room's word choices.
func (e *Engine) takeCandidates(roomID string) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	list := e.candidates[roomID]
	delete(e.candidates, roomID)
	return list
}

// peekCandidates returns the room's word choices without clearing.
func (e *Engine) peekCandidates(roomID string) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.candidates[roomID]
}

// TeardownRoom cancels every timer and flag the engine holds for the
// room. Called before room deletion.
func (e *Engine) TeardownRoom(roomID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if stop, ok := e.tickStops[roomID]; ok {
		close(stop)
		delete(e.tickStops, roomID)
	}
	if t, ok := e.chooseTimers[roomID]; ok {
		t.Stop()
		delete(e.chooseTimers, roomID)
	}
	if t, ok := e.pauseTimers[roomID]; ok {
		t.Stop()
		delete(e.pauseTimers, roomID)
	}
	delete(e.endingTurn, roomID)
	delete(e.candidates, roomID)
	delete(e.locks, roomID)
}
