package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/pranavnigade123/drawzzl-backend/internal/game"
	"github.com/pranavnigade123/drawzzl-backend/internal/models"
	"github.com/pranavnigade123/drawzzl-backend/internal/ratelimit"
	"github.com/pranavnigade123/drawzzl-backend/internal/store"
	"github.com/pranavnigade123/drawzzl-backend/pkg/utils"
	"github.com/pranavnigade123/drawzzl-backend/pkg/websocket"
)

// opTimeout bounds a single event's store work.
const opTimeout = 10 * time.Second

// createRetries is how often room creation retries on an ID collision.
const createRetries = 5

// Gateway dispatches inbound websocket frames to room membership
// handling and the turn engine, and owns the session binding rules.
type Gateway struct {
	hub     *websocket.Hub
	store   store.RoomStore
	engine  *game.Engine
	limiter *ratelimit.Limiter
}

// New wires a gateway into the hub's frame and disconnect hooks.
func New(hub *websocket.Hub, s store.RoomStore, engine *game.Engine, limiter *ratelimit.Limiter) *Gateway {
	g := &Gateway{
		hub:     hub,
		store:   s,
		engine:  engine,
		limiter: limiter,
	}
	hub.SetFrameProcessor(g.HandleFrame)
	hub.SetDisconnectHandler(g.HandleDisconnect)
	return g
}

// HandleFrame parses and dispatches one inbound frame.
func (g *Gateway) HandleFrame(c *websocket.Client, raw []byte) {
	env, err := models.ParseEnvelope(raw)
	if err != nil {
		g.sendError(c, "Invalid message format")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	switch env.Type {
	case models.EventCreateRoom:
		g.handleCreateRoom(ctx, c, env)
	case models.EventJoinRoom:
		g.handleJoinRoom(ctx, c, env)
	case models.EventReconnect:
		g.handleReconnect(ctx, c, env)
	case models.EventUpdateSettings:
		g.handleUpdateSettings(ctx, c, env)
	case models.EventStartGame:
		g.handleStartGame(ctx, c, env)
	case models.EventWordSelected:
		g.handleWordSelected(ctx, c, env)
	case models.EventDraw:
		g.handleDraw(ctx, c, env)
	case models.EventClearCanvas:
		g.handleClearCanvas(ctx, c, env)
	case models.EventChat:
		g.handleChat(ctx, c, env)
	case models.EventGuess:
		g.handleGuess(ctx, c, env)
	default:
		g.sendError(c, "Unknown event type")
	}
}

func (g *Gateway) handleCreateRoom(ctx context.Context, c *websocket.Client, env *models.Envelope) {
	var data models.CreateRoomData
	if err := env.Decode(&data); err != nil {
		g.sendError(c, "Invalid message format")
		return
	}

	name, err := utils.CleanName(data.PlayerName)
	if err != nil {
		g.sendError(c, "Invalid player name")
		return
	}

	sessionID := data.SessionID
	if !utils.ValidateSessionID(sessionID) {
		sessionID = utils.GenerateSessionID()
	}

	player := models.NewPlayer(c.SocketID(), sessionID, name, data.Avatar)

	var room *models.Room
	for attempt := 0; attempt < createRetries; attempt++ {
		candidate := models.NewRoom(utils.GenerateRoomID(), player)
		if err := g.store.Create(ctx, candidate); err != nil {
			if errors.Is(err, store.ErrRoomExists) {
				continue
			}
			log.Printf("Create room failed: %v", err)
			g.sendError(c, "Could not create room")
			return
		}
		room = candidate
		break
	}
	if room == nil {
		g.sendError(c, "Could not create room")
		return
	}

	g.hub.BindSession(c, sessionID)
	g.hub.AddClientToRoom(c, room.RoomID)

	c.Send(models.MustEncode(models.EventRoomCreated, models.RoomCreatedData{
		RoomID:    room.RoomID,
		SessionID: sessionID,
		Players:   room.Players,
	}))
}

func (g *Gateway) handleJoinRoom(ctx context.Context, c *websocket.Client, env *models.Envelope) {
	var data models.JoinRoomData
	if err := env.Decode(&data); err != nil {
		g.sendError(c, "Invalid message format")
		return
	}

	roomID := utils.NormalizeRoomID(data.RoomID)
	if !utils.ValidateRoomID(roomID) {
		g.sendError(c, "Invalid room code")
		return
	}

	name, err := utils.CleanName(data.PlayerName)
	if err != nil {
		g.sendError(c, "Invalid player name")
		return
	}

	sessionID := data.SessionID
	if !utils.ValidateSessionID(sessionID) {
		sessionID = utils.GenerateSessionID()
	}

	rejoined := false
	var hostBefore string
	room, err := store.UpdateRoom(ctx, g.store, roomID, func(r *models.Room) error {
		rejoined = false
		if h := r.Host(); h != nil {
			hostBefore = h.SessionID
		}
		var ok bool
		rejoined, ok = r.RejoinOrAdd(c.SocketID(), sessionID, name, data.Avatar)
		if !ok {
			return errRoomFull
		}
		return nil
	})
	if err != nil {
		g.sendError(c, joinErrorMessage(err))
		return
	}

	g.hub.BindSession(c, sessionID)
	g.hub.AddClientToRoom(c, roomID)

	c.Send(models.MustEncode(models.EventRoomJoined, models.RoomJoinedData{
		RoomID:    roomID,
		SessionID: sessionID,
		GameState: g.buildGameState(room, sessionID),
	}))

	player := room.FindPlayer(sessionID)
	if rejoined {
		g.hub.ToRoomExcept(roomID, sessionID, models.MustEncode(models.EventPlayerReconnected, models.PlayerReconnectedData{
			SessionID: sessionID,
			Name:      player.Name,
			Players:   room.Players,
		}))
	} else {
		g.hub.ToRoomExcept(roomID, sessionID, models.MustEncode(models.EventPlayerJoined, models.PlayerJoinedData{
			Players: room.Players,
		}))
	}

	g.announceHostChange(room, hostBefore)
}

func (g *Gateway) handleReconnect(ctx context.Context, c *websocket.Client, env *models.Envelope) {
	var data models.ReconnectData
	if err := env.Decode(&data); err != nil {
		g.sendError(c, "Invalid message format")
		return
	}

	roomID := utils.NormalizeRoomID(data.RoomID)
	if !utils.ValidateRoomID(roomID) || !utils.ValidateSessionID(data.SessionID) {
		g.sendError(c, "Invalid reconnection request")
		return
	}

	var hostBefore string
	room, err := store.UpdateRoom(ctx, g.store, roomID, func(r *models.Room) error {
		if h := r.Host(); h != nil {
			hostBefore = h.SessionID
		}
		player := r.FindPlayer(data.SessionID)
		if player == nil {
			return errUnknownSession
		}
		player.Rebind(c.SocketID())
		return nil
	})
	if err != nil {
		g.sendError(c, joinErrorMessage(err))
		return
	}

	g.hub.BindSession(c, data.SessionID)
	g.hub.AddClientToRoom(c, roomID)

	c.Send(models.MustEncode(models.EventReconnectionSuccess, models.ReconnectionSuccessData{
		GameState: g.buildGameState(room, data.SessionID),
	}))

	player := room.FindPlayer(data.SessionID)
	g.hub.ToRoomExcept(roomID, data.SessionID, models.MustEncode(models.EventPlayerReconnected, models.PlayerReconnectedData{
		SessionID: data.SessionID,
		Name:      player.Name,
		Players:   room.Players,
	}))

	g.announceHostChange(room, hostBefore)
}

func (g *Gateway) handleUpdateSettings(ctx context.Context, c *websocket.Client, env *models.Envelope) {
	var data models.UpdateSettingsData
	if err := env.Decode(&data); err != nil {
		g.sendError(c, "Invalid message format")
		return
	}

	sessionID := c.GetSessionID()
	if sessionID == "" {
		g.sendError(c, "Not identified")
		return
	}

	roomID := utils.NormalizeRoomID(data.RoomID)
	room, err := store.UpdateRoom(ctx, g.store, roomID, func(r *models.Room) error {
		if !r.IsHost(sessionID) {
			return game.ErrNotHost
		}
		if r.State != models.StateLobby {
			return game.ErrGameInProgress
		}
		r.ApplySettings(data.Settings)
		r.LastActivity = time.Now()
		return nil
	})
	if err != nil {
		g.sendError(c, joinErrorMessage(err))
		return
	}

	g.hub.ToRoom(roomID, models.MustEncode(models.EventSettingsUpdated, models.SettingsUpdatedData{
		Settings: room.CurrentSettings(),
	}))
}

func (g *Gateway) handleStartGame(ctx context.Context, c *websocket.Client, env *models.Envelope) {
	var data models.StartGameData
	if err := env.Decode(&data); err != nil {
		g.sendError(c, "Invalid message format")
		return
	}
	sessionID := c.GetSessionID()
	if sessionID == "" {
		g.sendError(c, "Not identified")
		return
	}

	if err := g.engine.StartGame(ctx, utils.NormalizeRoomID(data.RoomID), sessionID); err != nil {
		g.sendError(c, joinErrorMessage(err))
	}
}

func (g *Gateway) handleWordSelected(ctx context.Context, c *websocket.Client, env *models.Envelope) {
	var data models.WordSelectedData
	if err := env.Decode(&data); err != nil {
		g.sendError(c, "Invalid message format")
		return
	}
	sessionID := c.GetSessionID()
	if sessionID == "" {
		g.sendError(c, "Not identified")
		return
	}

	if err := g.engine.SelectWord(ctx, utils.NormalizeRoomID(data.RoomID), sessionID, data.Word); err != nil {
		g.sendError(c, joinErrorMessage(err))
	}
}

func (g *Gateway) handleDraw(ctx context.Context, c *websocket.Client, env *models.Envelope) {
	if !g.limiter.Allow(c.SocketID(), ratelimit.KindDraw) {
		g.sendError(c, "You are drawing too fast")
		return
	}

	var data models.DrawData
	if err := env.Decode(&data); err != nil {
		return
	}
	sessionID := c.GetSessionID()
	if sessionID == "" {
		return
	}
	roomID := utils.NormalizeRoomID(data.RoomID)

	var lines interface{}
	if err := json.Unmarshal(data.Lines, &lines); err != nil {
		return
	}

	// Persistence is best effort; the stored snapshot only has to be good
	// enough for late joiners, so the fan-out never waits on it.
	if err := g.store.AppendDrawing(ctx, roomID, sessionID, lines); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return
		}
		log.Printf("Append drawing %s: %v", roomID, err)
	}

	g.hub.ToRoomExcept(roomID, sessionID, models.MustEncode(models.EventDraw, data))
}

func (g *Gateway) handleClearCanvas(ctx context.Context, c *websocket.Client, env *models.Envelope) {
	var data models.ClearCanvasData
	if err := env.Decode(&data); err != nil {
		return
	}
	sessionID := c.GetSessionID()
	if sessionID == "" {
		return
	}
	roomID := utils.NormalizeRoomID(data.RoomID)

	if err := g.store.ClearDrawing(ctx, roomID, sessionID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return
		}
		log.Printf("Clear drawing %s: %v", roomID, err)
	}

	g.hub.ToRoomExcept(roomID, sessionID, models.MustEncode(models.EventClearCanvas, data))
}

func (g *Gateway) handleChat(ctx context.Context, c *websocket.Client, env *models.Envelope) {
	if !g.limiter.Allow(c.SocketID(), ratelimit.KindChat) {
		g.sendError(c, "You are sending messages too fast")
		return
	}

	var data models.ChatData
	if err := env.Decode(&data); err != nil {
		g.sendError(c, "Invalid message format")
		return
	}
	sessionID := c.GetSessionID()
	if sessionID == "" {
		g.sendError(c, "Not identified")
		return
	}

	if err := g.engine.Chat(ctx, utils.NormalizeRoomID(data.RoomID), sessionID, data.Msg); err != nil {
		g.sendError(c, joinErrorMessage(err))
	}
}

func (g *Gateway) handleGuess(ctx context.Context, c *websocket.Client, env *models.Envelope) {
	if !g.limiter.Allow(c.SocketID(), ratelimit.KindChat) {
		g.sendError(c, "You are sending messages too fast")
		return
	}

	var data models.GuessData
	if err := env.Decode(&data); err != nil {
		g.sendError(c, "Invalid message format")
		return
	}
	sessionID := c.GetSessionID()
	if sessionID == "" {
		g.sendError(c, "Not identified")
		return
	}

	if err := g.engine.Guess(ctx, utils.NormalizeRoomID(data.RoomID), sessionID, data.Guess); err != nil {
		g.sendError(c, joinErrorMessage(err))
	}
}

// HandleDisconnect marks the player disconnected and lets the engine
// react. The player record stays in the room so a reconnect with the
// same session restores identity and score.
func (g *Gateway) HandleDisconnect(c *websocket.Client) {
	g.limiter.Forget(c.SocketID())

	sessionID := c.GetSessionID()
	roomID := c.GetRoomID()
	if sessionID == "" || roomID == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var hostBefore string
	var name string
	room, err := store.UpdateRoom(ctx, g.store, roomID, func(r *models.Room) error {
		if h := r.Host(); h != nil {
			hostBefore = h.SessionID
		}
		player := r.FindPlayer(sessionID)
		if player == nil {
			return errUnknownSession
		}
		// A reconnect may already have rebound the session to a newer
		// socket; only the current socket's close marks the player gone.
		if player.SocketID != c.SocketID() {
			return errStaleSocket
		}
		name = player.Name
		player.MarkDisconnected()
		r.LastActivity = time.Now()
		return nil
	})
	if err != nil {
		return
	}

	g.hub.ToRoom(roomID, models.MustEncode(models.EventPlayerDisconnected, models.PlayerDisconnectedData{
		SessionID: sessionID,
		Name:      name,
		Players:   room.Players,
	}))

	g.announceHostChange(room, hostBefore)

	g.engine.PlayerDisconnected(ctx, roomID, sessionID)
}

// announceHostChange broadcasts hostChanged when the first connected
// player is no longer who it was before the mutation.
func (g *Gateway) announceHostChange(room *models.Room, hostBefore string) {
	host := room.Host()
	if host == nil || host.SessionID == hostBefore {
		return
	}
	g.hub.ToRoom(room.RoomID, models.MustEncode(models.EventHostChanged, models.HostChangedData{
		SessionID: host.SessionID,
		Name:      host.Name,
	}))
}

// buildGameState renders the room snapshot for one receiver. The word
// itself is only included for the drawer; guessers get the masked hint.
func (g *Gateway) buildGameState(room *models.Room, forSession string) models.GameStateData {
	state := models.GameStateData{
		RoomID:         room.RoomID,
		State:          room.State,
		GameStarted:    room.GameStarted,
		Round:          room.Round,
		MaxRounds:      room.MaxRounds,
		Players:        room.Players,
		TimeLeft:       room.TimeLeft(time.Now()),
		CurrentDrawing: room.CurrentDrawing,
		Chat:           room.Chat,
		Settings:       room.CurrentSettings(),
	}

	drawer := room.Drawer()
	if drawer != nil && (room.State == models.StateChoosing || room.State == models.StateDrawing) {
		state.DrawerSession = drawer.SessionID
	}

	if room.State == models.StateDrawing && room.CurrentWord != "" {
		if drawer != nil && drawer.SessionID == forSession {
			state.Word = room.CurrentWord
		} else {
			state.WordHint = game.MaskWord(room.CurrentWord, room.RevealedLetters)
		}
	}

	return state
}

func (g *Gateway) sendError(c *websocket.Client, msg string) {
	c.Send(models.MustEncode(models.EventError, models.ErrorData{Message: msg}))
}
