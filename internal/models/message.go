package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType names a message on the wire
type EventType string

// Inbound events (client -> server)
const (
	EventCreateRoom     EventType = "createRoom"
	EventJoinRoom       EventType = "joinRoom"
	EventReconnect      EventType = "reconnectToRoom"
	EventUpdateSettings EventType = "updateSettings"
	EventStartGame      EventType = "startGame"
	EventWordSelected   EventType = "wordSelected"
	EventDraw           EventType = "draw"
	EventClearCanvas    EventType = "clearCanvas"
	EventChat           EventType = "chat"
	EventGuess          EventType = "guess"
)

// Outbound events (server -> client)
const (
	EventRoomCreated         EventType = "roomCreated"
	EventRoomJoined          EventType = "roomJoined"
	EventReconnectionSuccess EventType = "reconnectionSuccess"
	EventPlayerJoined        EventType = "playerJoined"
	EventPlayerDisconnected  EventType = "playerDisconnected"
	EventPlayerReconnected   EventType = "playerReconnected"
	EventHostChanged         EventType = "hostChanged"
	EventSettingsUpdated     EventType = "settingsUpdated"
	EventDrawerSelecting     EventType = "drawerSelecting"
	EventSelectWord          EventType = "selectWord"
	EventYourWord            EventType = "yourWord"
	EventGameStarted         EventType = "gameStarted"
	EventTick                EventType = "tick"
	EventHintUpdate          EventType = "hintUpdate"
	EventCloseGuess          EventType = "closeGuess"
	EventCorrectGuess        EventType = "correctGuess"
	EventTurnEnded           EventType = "turnEnded"
	EventGameOver            EventType = "gameOver"
	EventError               EventType = "error"
)

// Envelope is the tagged wire frame. Unknown fields inside Data are
// ignored by the payload decoders; unknown types are rejected by the
// gateway.
type Envelope struct {
	Type EventType       `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// ParseEnvelope decodes a raw frame into an envelope.
func ParseEnvelope(raw []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("malformed frame: %w", err)
	}
	if env.Type == "" {
		return nil, fmt.Errorf("frame missing type")
	}
	return &env, nil
}

// Decode unmarshals the envelope payload into v.
func (e *Envelope) Decode(v interface{}) error {
	if e.Data == nil {
		return nil
	}
	return json.Unmarshal(e.Data, v)
}

// Encode marshals an outbound event frame.
func Encode(t EventType, data interface{}) ([]byte, error) {
	var raw json.RawMessage
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		raw = b
	}
	return json.Marshal(Envelope{Type: t, Data: raw})
}

// MustEncode is Encode for payloads built from our own structs, where a
// marshal failure is a programming error.
func MustEncode(t EventType, data interface{}) []byte {
	b, err := Encode(t, data)
	if err != nil {
		panic(fmt.Sprintf("encode %s: %v", t, err))
	}
	return b
}

// ---- inbound payloads ----

type CreateRoomData struct {
	PlayerName string `json:"playerName"`
	Avatar     [4]int `json:"avatar"`
	SessionID  string `json:"sessionId,omitempty"`
}

type JoinRoomData struct {
	RoomID     string `json:"roomId"`
	PlayerName string `json:"playerName"`
	Avatar     [4]int `json:"avatar"`
	SessionID  string `json:"sessionId,omitempty"`
}

type ReconnectData struct {
	SessionID string `json:"sessionId"`
	RoomID    string `json:"roomId"`
}

type UpdateSettingsData struct {
	RoomID   string   `json:"roomId"`
	Settings Settings `json:"settings"`
}

type StartGameData struct {
	RoomID string `json:"roomId"`
}

type WordSelectedData struct {
	RoomID string `json:"roomId"`
	Word   string `json:"word"`
}

type DrawData struct {
	RoomID string          `json:"roomId"`
	Lines  json.RawMessage `json:"lines"`
}

type ClearCanvasData struct {
	RoomID string `json:"roomId"`
}

type ChatData struct {
	RoomID string `json:"roomId"`
	Msg    string `json:"msg"`
	Name   string `json:"name"`
}

type GuessData struct {
	RoomID string `json:"roomId"`
	Guess  string `json:"guess"`
	Name   string `json:"name"`
}

// ---- outbound payloads ----

// GameStateData is the full room snapshot sent on join and reconnect.
// Word carries the actual word only when the receiver is the drawer.
type GameStateData struct {
	RoomID         string        `json:"roomId"`
	State          RoomState     `json:"state"`
	GameStarted    bool          `json:"gameStarted"`
	Round          int           `json:"round"`
	MaxRounds      int           `json:"maxRounds"`
	Players        []*Player     `json:"players"`
	DrawerSession  string        `json:"drawerSession,omitempty"`
	TimeLeft       int           `json:"timeLeft"`
	WordHint       string        `json:"wordHint,omitempty"`
	Word           string        `json:"word,omitempty"`
	CurrentDrawing []interface{} `json:"currentDrawing"`
	Chat           []ChatEntry   `json:"chat"`
	Settings       Settings      `json:"settings"`
}

type RoomCreatedData struct {
	RoomID    string    `json:"roomId"`
	SessionID string    `json:"sessionId"`
	Players   []*Player `json:"players"`
}

type RoomJoinedData struct {
	RoomID    string        `json:"roomId"`
	SessionID string        `json:"sessionId"`
	GameState GameStateData `json:"gameState"`
}

type ReconnectionSuccessData struct {
	GameState GameStateData `json:"gameState"`
}

type PlayerJoinedData struct {
	Players []*Player `json:"players"`
}

type PlayerDisconnectedData struct {
	SessionID string    `json:"sessionId"`
	Name      string    `json:"name"`
	Players   []*Player `json:"players"`
}

type PlayerReconnectedData struct {
	SessionID string    `json:"sessionId"`
	Name      string    `json:"name"`
	Players   []*Player `json:"players"`
}

type HostChangedData struct {
	SessionID string `json:"sessionId"`
	Name      string `json:"name"`
}

type SettingsUpdatedData struct {
	Settings Settings `json:"settings"`
}

type DrawerSelectingData struct {
	DrawerSession string    `json:"drawerSession"`
	DrawerName    string    `json:"drawerName"`
	Round         int       `json:"round"`
	MaxRounds     int       `json:"maxRounds"`
	Players       []*Player `json:"players"`
}

type SelectWordData struct {
	Words     []string `json:"words"`
	TimeLimit int      `json:"timeLimit"`
}

type YourWordData struct {
	Word string `json:"word"`
}

type GameStartedData struct {
	Round     int       `json:"round"`
	MaxRounds int       `json:"maxRounds"`
	Players   []*Player `json:"players"`
}

type TickData struct {
	TimeLeft int `json:"timeLeft"`
}

type HintUpdateData struct {
	WordHint string `json:"wordHint"`
}

type ChatBroadcastData struct {
	SessionID string    `json:"sessionId"`
	Name      string    `json:"name"`
	Msg       string    `json:"msg"`
	TS        time.Time `json:"ts"`
}

type CloseGuessData struct {
	Message string `json:"message"`
}

type CorrectGuessData struct {
	SessionID string    `json:"sessionId"`
	Name      string    `json:"name"`
	Points    int       `json:"points"`
	Players   []*Player `json:"players"`
}

type TurnEndedData struct {
	Word            string    `json:"word"`
	Players         []*Player `json:"players"`
	CorrectGuessers []string  `json:"correctGuessers"`
	DrawerBonus     int       `json:"drawerBonus"`
}

type GameOverData struct {
	Players []*Player `json:"players"`
}

type ErrorData struct {
	Message string `json:"message"`
}
