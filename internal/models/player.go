package models

import "time"

// Player is a member of a room. SessionID is the stable identity used
// for scoring and guess dedup; SocketID is rewritten on every
// (re)connect.
type Player struct {
	SocketID    string    `bson:"socketId" json:"socketId"`
	SessionID   string    `bson:"sessionId" json:"sessionId"`
	Name        string    `bson:"name" json:"name"`
	Avatar      [4]int    `bson:"avatar" json:"avatar"`
	Score       int       `bson:"score" json:"score"`
	IsDrawer    bool      `bson:"isDrawer" json:"isDrawer"`
	IsConnected bool      `bson:"isConnected" json:"isConnected"`
	LastSeen    time.Time `bson:"lastSeen" json:"lastSeen"`
}

// NewPlayer creates a connected player bound to the given socket.
func NewPlayer(socketID, sessionID, name string, avatar [4]int) *Player {
	return &Player{
		SocketID:    socketID,
		SessionID:   sessionID,
		Name:        name,
		Avatar:      avatar,
		IsConnected: true,
		LastSeen:    time.Now(),
	}
}

// Rebind attaches the player to a new socket after a reconnect.
func (p *Player) Rebind(socketID string) {
	p.SocketID = socketID
	p.IsConnected = true
	p.LastSeen = time.Now()
}

// MarkDisconnected flags the player as gone without removing it, so a
// later reconnect with the same session ID restores identity and score.
func (p *Player) MarkDisconnected() {
	p.IsConnected = false
	p.LastSeen = time.Now()
}
