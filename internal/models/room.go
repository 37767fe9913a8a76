package models

import (
	"sort"
	"time"
)

// RoomState represents the turn engine state of a room
type RoomState string

const (
	StateLobby        RoomState = "lobby"
	StateChoosing     RoomState = "choosing"
	StateDrawing      RoomState = "drawing"
	StateIntermission RoomState = "intermission"
	StateGameOver     RoomState = "gameover"
)

// Game constants
const (
	MinPlayersToStart = 2

	DefaultMaxPlayers = 8
	MinMaxPlayers     = 2
	MaxMaxPlayers     = 15

	DefaultMaxRounds = 3
	MinMaxRounds     = 1
	MaxMaxRounds     = 10

	DefaultDrawTime = 60
	MinDrawTime     = 30
	MaxDrawTime     = 180

	DefaultWordCount = 3
	MinWordCount     = 3
	MaxWordCount     = 5

	ChoosingSeconds     = 8
	IntermissionSeconds = 5

	MaxChatHistory = 50
)

// Scoring constants
const (
	MaxPoints             = 500
	MinPoints             = 50
	TurnSeconds           = 60
	DrawerBonusPerGuesser = 50
)

// ChatEntry is a single chat record kept in the room's bounded history
type ChatEntry struct {
	SessionID string    `bson:"sessionId" json:"sessionId"`
	Name      string    `bson:"name" json:"name"`
	Msg       string    `bson:"msg" json:"msg"`
	TS        time.Time `bson:"ts" json:"ts"`
}

// Settings carries the host-tunable room options. Values are clamped
// on apply, never rejected.
type Settings struct {
	MaxPlayers            int      `bson:"maxPlayers" json:"maxPlayers"`
	MaxRounds             int      `bson:"maxRounds" json:"maxRounds"`
	DrawTime              int      `bson:"drawTime" json:"drawTime"`
	WordCount             int      `bson:"wordCount" json:"wordCount"`
	CustomWords           []string `bson:"customWords" json:"customWords"`
	CustomWordProbability int      `bson:"customWordProbability" json:"customWordProbability"`
}

// Room is the authoritative per-room game state. It is persisted as a
// whole document; Version drives optimistic concurrency in the store.
type Room struct {
	RoomID      string    `bson:"_id" json:"roomId"`
	Players     []*Player `bson:"players" json:"players"`
	MaxPlayers  int       `bson:"maxPlayers" json:"maxPlayers"`
	GameStarted bool      `bson:"gameStarted" json:"gameStarted"`
	State       RoomState `bson:"state" json:"state"`

	Round       int `bson:"round" json:"round"`
	MaxRounds   int `bson:"maxRounds" json:"maxRounds"`
	DrawerIndex int `bson:"drawerIndex" json:"drawerIndex"`

	CurrentWord     string         `bson:"currentWord,omitempty" json:"-"`
	TurnEndsAt      time.Time      `bson:"turnEndsAt" json:"turnEndsAt"`
	RevealedLetters []int          `bson:"revealedLetters" json:"revealedLetters"`
	CorrectGuessers []string       `bson:"correctGuessers" json:"correctGuessers"`
	RoundPoints     map[string]int `bson:"roundPoints" json:"roundPoints"`

	DrawTime              int      `bson:"drawTime" json:"drawTime"`
	WordCount             int      `bson:"wordCount" json:"wordCount"`
	CustomWords           []string `bson:"customWords" json:"customWords"`
	CustomWordProbability int      `bson:"customWordProbability" json:"customWordProbability"`

	// Opaque stroke snapshot for late joiners and reconnects. The engine
	// never interprets the records.
	CurrentDrawing []interface{} `bson:"currentDrawing" json:"currentDrawing"`

	Chat         []ChatEntry `bson:"chat" json:"chat"`
	LastActivity time.Time   `bson:"lastActivity" json:"lastActivity"`
	Version      int64       `bson:"version" json:"-"`
}

// NewRoom creates a room in the lobby state with the given host player.
func NewRoom(roomID string, host *Player) *Room {
	now := time.Now()
	host.IsConnected = true
	host.LastSeen = now

	return &Room{
		RoomID:                roomID,
		Players:               []*Player{host},
		MaxPlayers:            DefaultMaxPlayers,
		State:                 StateLobby,
		Round:                 1,
		MaxRounds:             DefaultMaxRounds,
		DrawTime:              DefaultDrawTime,
		WordCount:             DefaultWordCount,
		CustomWords:           []string{},
		CustomWordProbability: 0,
		RevealedLetters:       []int{},
		CorrectGuessers:       []string{},
		RoundPoints:           map[string]int{},
		CurrentDrawing:        []interface{}{},
		Chat:                  []ChatEntry{},
		LastActivity:          now,
	}
}

// ApplySettings clamps every value into its allowed range and applies it.
func (r *Room) ApplySettings(s Settings) {
	r.MaxPlayers = clamp(s.MaxPlayers, MinMaxPlayers, MaxMaxPlayers)
	r.MaxRounds = clamp(s.MaxRounds, MinMaxRounds, MaxMaxRounds)
	r.DrawTime = clamp(s.DrawTime, MinDrawTime, MaxDrawTime)
	r.WordCount = clamp(s.WordCount, MinWordCount, MaxWordCount)
	r.CustomWordProbability = clamp(s.CustomWordProbability, 0, 100)
	if s.CustomWords != nil {
		r.CustomWords = s.CustomWords
	}
}

// CurrentSettings returns the room's settings snapshot.
func (r *Room) CurrentSettings() Settings {
	return Settings{
		MaxPlayers:            r.MaxPlayers,
		MaxRounds:             r.MaxRounds,
		DrawTime:              r.DrawTime,
		WordCount:             r.WordCount,
		CustomWords:           r.CustomWords,
		CustomWordProbability: r.CustomWordProbability,
	}
}

// NormalizeDrawerIndex clamps DrawerIndex into [0, len(Players)) and
// returns it. Empty rooms normalize to 0.
func (r *Room) NormalizeDrawerIndex() int {
	if len(r.Players) == 0 {
		r.DrawerIndex = 0
		return 0
	}
	if r.DrawerIndex < 0 || r.DrawerIndex >= len(r.Players) {
		r.DrawerIndex = r.DrawerIndex % len(r.Players)
		if r.DrawerIndex < 0 {
			r.DrawerIndex += len(r.Players)
		}
	}
	return r.DrawerIndex
}

// Drawer returns the current drawer, or nil for an empty room.
func (r *Room) Drawer() *Player {
	if len(r.Players) == 0 {
		return nil
	}
	return r.Players[r.NormalizeDrawerIndex()]
}

// SyncDrawerFlags makes IsDrawer agree with DrawerIndex. Outside of the
// choosing and drawing states no player is marked as drawer.
func (r *Room) SyncDrawerFlags() {
	idx := r.NormalizeDrawerIndex()
	active := r.State == StateChoosing || r.State == StateDrawing
	for i, p := range r.Players {
		p.IsDrawer = active && i == idx
	}
}

// AdvanceDrawer rotates the drawer index by one and reports whether
// the rotation wrapped back to the first player.
func (r *Room) AdvanceDrawer() bool {
	if len(r.Players) == 0 {
		r.DrawerIndex = 0
		return false
	}
	r.DrawerIndex = (r.NormalizeDrawerIndex() + 1) % len(r.Players)
	return r.DrawerIndex == 0
}

// FindPlayer returns the player with the given session ID, or nil.
func (r *Room) FindPlayer(sessionID string) *Player {
	for _, p := range r.Players {
		if p.SessionID == sessionID {
			return p
		}
	}
	return nil
}

// AddPlayer appends a player. Returns false when the room is full.
func (r *Room) AddPlayer(p *Player) bool {
	if len(r.Players) >= r.MaxPlayers {
		return false
	}
	p.IsConnected = true
	p.LastSeen = time.Now()
	r.Players = append(r.Players, p)
	r.LastActivity = time.Now()
	return true
}

// RejoinOrAdd rebinds an already-known session to its new socket, or
// adds a fresh player. Repeated joins with the same session never
// duplicate the player entry; the original name, avatar and score are
// kept across rebinds. ok is false when a new player would not fit.
func (r *Room) RejoinOrAdd(socketID, sessionID, name string, avatar [4]int) (rejoined, ok bool) {
	if existing := r.FindPlayer(sessionID); existing != nil {
		existing.Rebind(socketID)
		r.LastActivity = time.Now()
		return true, true
	}
	return false, r.AddPlayer(NewPlayer(socketID, sessionID, name, avatar))
}

// Host returns the first connected player, who holds host privileges.
// Falls back to the first player when nobody is connected.
func (r *Room) Host() *Player {
	for _, p := range r.Players {
		if p.IsConnected {
			return p
		}
	}
	if len(r.Players) > 0 {
		return r.Players[0]
	}
	return nil
}

// IsHost reports whether the session currently holds host privileges.
func (r *Room) IsHost(sessionID string) bool {
	h := r.Host()
	return h != nil && h.SessionID == sessionID
}

// ConnectedCount returns the number of connected players.
func (r *Room) ConnectedCount() int {
	n := 0
	for _, p := range r.Players {
		if p.IsConnected {
			n++
		}
	}
	return n
}

// EligibleGuessers returns the number of connected non-drawer players.
func (r *Room) EligibleGuessers() int {
	drawer := r.Drawer()
	n := 0
	for _, p := range r.Players {
		if !p.IsConnected {
			continue
		}
		if drawer != nil && p.SessionID == drawer.SessionID {
			continue
		}
		n++
	}
	return n
}

// HasGuessed reports whether the session has already scored this turn.
func (r *Room) HasGuessed(sessionID string) bool {
	for _, s := range r.CorrectGuessers {
		if s == sessionID {
			return true
		}
	}
	return false
}

// IsFull reports whether the room is at capacity.
func (r *Room) IsFull() bool {
	return len(r.Players) >= r.MaxPlayers
}

// ResetTurn clears all per-turn state.
func (r *Room) ResetTurn() {
	r.CurrentWord = ""
	r.RevealedLetters = []int{}
	r.CorrectGuessers = []string{}
	r.RoundPoints = map[string]int{}
	r.CurrentDrawing = []interface{}{}
}

// AppendChat appends an entry, trimming the history to MaxChatHistory.
func (r *Room) AppendChat(e ChatEntry) {
	r.Chat = append(r.Chat, e)
	if len(r.Chat) > MaxChatHistory {
		r.Chat = r.Chat[len(r.Chat)-MaxChatHistory:]
	}
}

// TimeLeft returns the remaining whole seconds of the drawing phase,
// rounded up.
func (r *Room) TimeLeft(now time.Time) int {
	if r.TurnEndsAt.IsZero() {
		return 0
	}
	d := r.TurnEndsAt.Sub(now)
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}

// PlayersByScore returns the players sorted by score, highest first.
// Ties keep join order.
func (r *Room) PlayersByScore() []*Player {
	out := make([]*Player, len(r.Players))
	copy(out, r.Players)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// Clone returns a deep copy of the room.
func (r *Room) Clone() *Room {
	cp := *r

	cp.Players = make([]*Player, len(r.Players))
	for i, p := range r.Players {
		pc := *p
		cp.Players[i] = &pc
	}

	cp.RevealedLetters = append([]int(nil), r.RevealedLetters...)
	cp.CorrectGuessers = append([]string(nil), r.CorrectGuessers...)
	cp.CustomWords = append([]string(nil), r.CustomWords...)
	cp.CurrentDrawing = append([]interface{}(nil), r.CurrentDrawing...)
	cp.Chat = append([]ChatEntry(nil), r.Chat...)

	cp.RoundPoints = make(map[string]int, len(r.RoundPoints))
	for k, v := range r.RoundPoints {
		cp.RoundPoints[k] = v
	}

	return &cp
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
