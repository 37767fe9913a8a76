package game

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/pranavnigade123/drawzzl-backend/internal/models"
	"github.com/pranavnigade123/drawzzl-backend/internal/store"
	"github.com/pranavnigade123/drawzzl-backend/internal/words"
)

// fakeCast records every frame the engine emits.
type fakeCast struct {
	mu     sync.Mutex
	frames []models.Envelope
}

func (f *fakeCast) record(frame []byte) {
	var env models.Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		panic(err)
	}
	f.mu.Lock()
	f.frames = append(f.frames, env)
	f.mu.Unlock()
}

func (f *fakeCast) ToRoom(roomID string, frame []byte)               { f.record(frame) }
func (f *fakeCast) ToRoomExcept(roomID, except string, frame []byte) { f.record(frame) }
func (f *fakeCast) ToSession(sessionID string, frame []byte)         { f.record(frame) }

func (f *fakeCast) countType(t models.EventType) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, env := range f.frames {
		if env.Type == t {
			n++
		}
	}
	return n
}

func newTestEngine(t *testing.T) (*Engine, *store.MemoryStore, *fakeCast) {
	t.Helper()
	bank, err := words.NewBank("")
	if err != nil {
		t.Fatalf("NewBank: %v", err)
	}
	s := store.NewMemoryStore()
	cast := &fakeCast{}
	return NewEngine(s, bank, cast), s, cast
}

// drawingRoom seeds a three-player room mid-drawing phase. Player 0
// draws "house"; the others guess.
func drawingRoom(t *testing.T, s *store.MemoryStore, timeLeft int) *models.Room {
	t.Helper()
	host := models.NewPlayer("sock-1", "session_aaa111", "alice", [4]int{})
	room := models.NewRoom("ROOM01", host)
	room.AddPlayer(models.NewPlayer("sock-2", "session_bbb222", "bob", [4]int{}))
	room.AddPlayer(models.NewPlayer("sock-3", "session_ccc333", "cara", [4]int{}))
	room.GameStarted = true
	room.State = models.StateDrawing
	room.CurrentWord = "house"
	room.DrawerIndex = 0
	room.TurnEndsAt = time.Now().Add(time.Duration(timeLeft) * time.Second)
	room.SyncDrawerFlags()
	if err := s.Create(context.Background(), room); err != nil {
		t.Fatalf("Create: %v", err)
	}
	return room
}

func TestGuessCorrectAwardsPoints(t *testing.T) {
	e, s, cast := newTestEngine(t)
	drawingRoom(t, s, 58)
	defer e.TeardownRoom("ROOM01")

	if err := e.Guess(context.Background(), "ROOM01", "session_bbb222", "  HOUSE "); err != nil {
		t.Fatalf("Guess: %v", err)
	}

	room, _ := s.Load(context.Background(), "ROOM01")
	if !room.HasGuessed("session_bbb222") {
		t.Fatal("guesser not recorded in correct guessers")
	}
	got := room.FindPlayer("session_bbb222").Score
	if got != 458 {
		t.Errorf("guesser score = %d, want 458", got)
	}
	if cast.countType(models.EventCorrectGuess) != 1 {
		t.Errorf("correctGuess broadcasts = %d, want 1", cast.countType(models.EventCorrectGuess))
	}
	// The word must not appear in chat.
	if len(room.Chat) != 0 {
		t.Errorf("correct guess leaked into chat: %v", room.Chat)
	}
}

func TestGuessDuplicateNotCreditedTwice(t *testing.T) {
	e, s, cast := newTestEngine(t)
	drawingRoom(t, s, 50)
	defer e.TeardownRoom("ROOM01")

	ctx := context.Background()
	if err := e.Guess(ctx, "ROOM01", "session_bbb222", "house"); err != nil {
		t.Fatalf("first guess: %v", err)
	}
	room, _ := s.Load(ctx, "ROOM01")
	first := room.FindPlayer("session_bbb222").Score

	if err := e.Guess(ctx, "ROOM01", "session_bbb222", "house"); err != nil {
		t.Fatalf("second guess: %v", err)
	}
	room, _ = s.Load(ctx, "ROOM01")
	if got := room.FindPlayer("session_bbb222").Score; got != first {
		t.Errorf("score changed on duplicate guess: %d -> %d", first, got)
	}
	if n := cast.countType(models.EventCorrectGuess); n != 1 {
		t.Errorf("correctGuess broadcasts = %d, want 1", n)
	}
	if len(room.CorrectGuessers) != 1 {
		t.Errorf("correct guessers = %v, want one entry", room.CorrectGuessers)
	}
}

func TestGuessByDrawerIsDropped(t *testing.T) {
	e, s, cast := newTestEngine(t)
	drawingRoom(t, s, 50)
	defer e.TeardownRoom("ROOM01")

	if err := e.Guess(context.Background(), "ROOM01", "session_aaa111", "house"); err != nil {
		t.Fatalf("Guess: %v", err)
	}

	room, _ := s.Load(context.Background(), "ROOM01")
	if len(room.CorrectGuessers) != 0 {
		t.Error("drawer was credited for own word")
	}
	if room.FindPlayer("session_aaa111").Score != 0 {
		t.Error("drawer scored from own word")
	}
	if cast.countType(models.EventChat) != 0 || len(room.Chat) != 0 {
		t.Error("drawer's word leaked into chat")
	}
}

func TestGuessCloseSendsPrivateNudge(t *testing.T) {
	e, s, cast := newTestEngine(t)
	drawingRoom(t, s, 50)
	defer e.TeardownRoom("ROOM01")

	if err := e.Guess(context.Background(), "ROOM01", "session_bbb222", "houze"); err != nil {
		t.Fatalf("Guess: %v", err)
	}

	if n := cast.countType(models.EventCloseGuess); n != 1 {
		t.Errorf("closeGuess frames = %d, want 1", n)
	}
	// A close guess still shows in chat for everyone.
	room, _ := s.Load(context.Background(), "ROOM01")
	if len(room.Chat) != 1 {
		t.Errorf("chat entries = %d, want 1", len(room.Chat))
	}
	if len(room.CorrectGuessers) != 0 {
		t.Error("close guess was credited")
	}
}

func TestGuessWrongBecomesChat(t *testing.T) {
	e, s, cast := newTestEngine(t)
	drawingRoom(t, s, 50)
	defer e.TeardownRoom("ROOM01")

	if err := e.Guess(context.Background(), "ROOM01", "session_ccc333", "banana"); err != nil {
		t.Fatalf("Guess: %v", err)
	}

	room, _ := s.Load(context.Background(), "ROOM01")
	if len(room.Chat) != 1 || room.Chat[0].Msg != "banana" {
		t.Errorf("chat = %v, want single banana entry", room.Chat)
	}
	if cast.countType(models.EventChat) != 1 {
		t.Errorf("chat broadcasts = %d, want 1", cast.countType(models.EventChat))
	}
	if cast.countType(models.EventCloseGuess) != 0 {
		t.Error("wrong guess triggered closeGuess")
	}
}

func TestGuessNonMemberRejected(t *testing.T) {
	e, s, _ := newTestEngine(t)
	drawingRoom(t, s, 50)
	defer e.TeardownRoom("ROOM01")

	err := e.Guess(context.Background(), "ROOM01", "session_zzz999", "house")
	if err != ErrNotMember {
		t.Errorf("Guess by stranger = %v, want ErrNotMember", err)
	}
}

func TestLastGuesserEndsTurn(t *testing.T) {
	e, s, cast := newTestEngine(t)
	drawingRoom(t, s, 50)
	defer e.TeardownRoom("ROOM01")

	ctx := context.Background()
	if err := e.Guess(ctx, "ROOM01", "session_bbb222", "house"); err != nil {
		t.Fatalf("first guesser: %v", err)
	}
	room, _ := s.Load(ctx, "ROOM01")
	if room.State != models.StateDrawing {
		t.Fatalf("turn ended after first of two guessers, state = %s", room.State)
	}

	if err := e.Guess(ctx, "ROOM01", "session_ccc333", "house"); err != nil {
		t.Fatalf("second guesser: %v", err)
	}
	room, _ = s.Load(ctx, "ROOM01")
	if room.State != models.StateIntermission {
		t.Fatalf("state = %s, want intermission after everyone guessed", room.State)
	}
	// Two correct guessers earn the drawer a 100-point bonus.
	if got := room.FindPlayer("session_aaa111").Score; got != 100 {
		t.Errorf("drawer score = %d, want 100", got)
	}
	if cast.countType(models.EventTurnEnded) != 1 {
		t.Errorf("turnEnded broadcasts = %d, want 1", cast.countType(models.EventTurnEnded))
	}
	if room.CurrentWord != "" {
		t.Error("word survived past turn end")
	}
}

func TestChatDuringDrawingDropsWordFromKnowers(t *testing.T) {
	e, s, _ := newTestEngine(t)
	drawingRoom(t, s, 50)
	defer e.TeardownRoom("ROOM01")

	ctx := context.Background()
	// Drawer spelling out the word in chat is swallowed.
	if err := e.Chat(ctx, "ROOM01", "session_aaa111", "house"); err != nil {
		t.Fatalf("Chat: %v", err)
	}
	room, _ := s.Load(ctx, "ROOM01")
	if len(room.Chat) != 0 {
		t.Errorf("drawer leaked word via chat: %v", room.Chat)
	}

	// Innocent chatter goes through.
	if err := e.Chat(ctx, "ROOM01", "session_bbb222", "nice drawing"); err != nil {
		t.Fatalf("Chat: %v", err)
	}
	room, _ = s.Load(ctx, "ROOM01")
	if len(room.Chat) != 1 {
		t.Errorf("chat entries = %d, want 1", len(room.Chat))
	}
}
