package websocket

import (
	"log"
	"sync"
	"time"
)

// Hub maintains the set of active clients and fans frames out to rooms
// and sessions. Session IDs, not connections, are the stable identity:
// a reconnecting player replaces their old connection under the same
// session.
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Clients by session ID for quick lookup
	clientsBySession map[string]*Client

	// Clients by room ID
	clientsByRoom map[string]map[*Client]bool

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Inbound frames awaiting dispatch
	inbound chan *InboundFrame

	// Broadcast message to a specific room
	roomBroadcast chan *RoomMessage

	// Send message to a specific session
	sessionMessage chan *SessionMessage

	// Statistics
	stats *HubStats

	// Mutex for thread safety
	mutex sync.RWMutex

	// Shutdown channel
	shutdown chan struct{}

	// Frame processor (injected dependency)
	ProcessFrame func(*Client, []byte)

	// Disconnect hook (injected dependency)
	OnDisconnect func(*Client)
}

// InboundFrame pairs a raw frame with its originating client.
type InboundFrame struct {
	Client *Client
	Frame  []byte
}

// RoomMessage represents a frame to be sent to a specific room
type RoomMessage struct {
	RoomID string
	Frame  []byte

	// Session to skip, empty for none
	ExceptSession string
}

// SessionMessage represents a frame to be sent to a specific session
type SessionMessage struct {
	SessionID string
	Frame     []byte
}

// HubStats contains statistics about the hub
type HubStats struct {
	ConnectedClients int            `json:"connected_clients"`
	TotalRooms       int            `json:"total_rooms"`
	FramesHandled    int64          `json:"frames_handled"`
	ClientsByRoom    map[string]int `json:"clients_by_room"`
	Uptime           time.Duration  `json:"uptime"`
	StartTime        time.Time      `json:"start_time"`

	mutex sync.RWMutex
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		clients:          make(map[*Client]bool),
		clientsBySession: make(map[string]*Client),
		clientsByRoom:    make(map[string]map[*Client]bool),
		register:         make(chan *Client, 100),
		unregister:       make(chan *Client, 100),
		inbound:          make(chan *InboundFrame, 1000),
		roomBroadcast:    make(chan *RoomMessage, 500),
		sessionMessage:   make(chan *SessionMessage, 500),
		shutdown:         make(chan struct{}),
		stats: &HubStats{
			ClientsByRoom: make(map[string]int),
			StartTime:     time.Now(),
		},
	}
}

// SetFrameProcessor sets the function that dispatches inbound frames
func (h *Hub) SetFrameProcessor(fn func(*Client, []byte)) {
	h.ProcessFrame = fn
}

// SetDisconnectHandler sets the hook called after a client unregisters
func (h *Hub) SetDisconnectHandler(fn func(*Client)) {
	h.OnDisconnect = fn
}

// Run starts the hub and handles all incoming requests
func (h *Hub) Run() {
	log.Println("WebSocket Hub starting...")

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case in := <-h.inbound:
			h.handleFrame(in)

		case msg := <-h.roomBroadcast:
			h.broadcastToRoom(msg)

		case msg := <-h.sessionMessage:
			h.sendToSession(msg)

		case <-h.shutdown:
			log.Println("WebSocket Hub shutting down...")
			h.shutdownAllClients()
			return
		}
	}
}

// RegisterClient registers a new client with the hub
func (h *Hub) RegisterClient(client *Client) {
	select {
	case h.register <- client:
	default:
		log.Println("Register channel is full, dropping client registration")
		client.Disconnect()
	}
}

// UnregisterClient unregisters a client from the hub
func (h *Hub) UnregisterClient(client *Client) {
	select {
	case h.unregister <- client:
	default:
		log.Println("Unregister channel is full")
	}
}

// ToRoom sends a frame to every connected member of a room.
func (h *Hub) ToRoom(roomID string, frame []byte) {
	h.queueRoom(&RoomMessage{RoomID: roomID, Frame: frame})
}

// ToRoomExcept sends a frame to every room member except one session.
func (h *Hub) ToRoomExcept(roomID, exceptSession string, frame []byte) {
	h.queueRoom(&RoomMessage{RoomID: roomID, Frame: frame, ExceptSession: exceptSession})
}

// ToSession sends a frame to one session's current connection.
func (h *Hub) ToSession(sessionID string, frame []byte) {
	msg := &SessionMessage{SessionID: sessionID, Frame: frame}
	select {
	case h.sessionMessage <- msg:
	default:
		log.Println("Session message channel is full, dropping frame")
	}
}

func (h *Hub) queueRoom(msg *RoomMessage) {
	select {
	case h.roomBroadcast <- msg:
	default:
		log.Println("Room broadcast channel is full, dropping frame")
	}
}

// BindSession associates a client with a session ID, replacing any
// previous connection held by the same session.
func (h *Hub) BindSession(client *Client, sessionID string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if old, exists := h.clientsBySession[sessionID]; exists && old != client {
		log.Printf("Session %s reconnecting, dropping old connection", sessionID)
		old.SetSessionID("")
		go old.Disconnect()
	}
	client.SetSessionID(sessionID)
	h.clientsBySession[sessionID] = client
}

// AddClientToRoom adds a client to a room
func (h *Hub) AddClientToRoom(client *Client, roomID string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.addClientToRoom(client, roomID)
}

// RemoveClientFromRoom removes a client from a room
func (h *Hub) RemoveClientFromRoom(client *Client, roomID string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.removeClientFromRoom(client, roomID)
}

// GetClientBySession returns the session's current client
func (h *Hub) GetClientBySession(sessionID string) (*Client, bool) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	client, exists := h.clientsBySession[sessionID]
	return client, exists && client.IsConnected()
}

// GetConnectedClients returns the number of connected clients
func (h *Hub) GetConnectedClients() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// GetStats returns current hub statistics
func (h *Hub) GetStats() *HubStats {
	h.stats.mutex.Lock()
	defer h.stats.mutex.Unlock()

	h.mutex.RLock()
	defer h.mutex.RUnlock()

	byRoom := make(map[string]int)
	for roomID, clients := range h.clientsByRoom {
		byRoom[roomID] = len(clients)
	}

	return &HubStats{
		ConnectedClients: len(h.clients),
		TotalRooms:       len(h.clientsByRoom),
		FramesHandled:    h.stats.FramesHandled,
		ClientsByRoom:    byRoom,
		Uptime:           time.Since(h.stats.StartTime),
		StartTime:        h.stats.StartTime,
	}
}

// Shutdown gracefully shuts down the hub
func (h *Hub) Shutdown() {
	close(h.shutdown)
}

// Internal methods

func (h *Hub) registerClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.clients[client] = true
	log.Printf("Client registered: %s (Total: %d)", client.DisplayName(), len(h.clients))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mutex.Lock()

	if _, ok := h.clients[client]; !ok {
		h.mutex.Unlock()
		return
	}
	delete(h.clients, client)

	if sid := client.GetSessionID(); sid != "" {
		if h.clientsBySession[sid] == client {
			delete(h.clientsBySession, sid)
		}
	}

	if roomID := client.GetRoomID(); roomID != "" {
		h.removeClientFromRoom(client, roomID)
	}

	total := len(h.clients)
	h.mutex.Unlock()

	log.Printf("Client unregistered: %s (Total: %d)", client.DisplayName(), total)

	if h.OnDisconnect != nil {
		go h.OnDisconnect(client)
	}
}

func (h *Hub) addClientToRoom(client *Client, roomID string) {
	if h.clientsByRoom[roomID] == nil {
		h.clientsByRoom[roomID] = make(map[*Client]bool)
	}
	h.clientsByRoom[roomID][client] = true
	client.SetRoomID(roomID)

	log.Printf("Client %s joined room %s", client.DisplayName(), roomID)
}

func (h *Hub) removeClientFromRoom(client *Client, roomID string) {
	if roomClients, exists := h.clientsByRoom[roomID]; exists {
		delete(roomClients, client)
		if len(roomClients) == 0 {
			delete(h.clientsByRoom, roomID)
		}
	}
	client.SetRoomID("")
}

func (h *Hub) handleFrame(in *InboundFrame) {
	h.stats.mutex.Lock()
	h.stats.FramesHandled++
	h.stats.mutex.Unlock()

	if h.ProcessFrame != nil {
		h.ProcessFrame(in.Client, in.Frame)
	} else {
		log.Println("No frame processor set, dropping frame")
	}
}

func (h *Hub) broadcastToRoom(msg *RoomMessage) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	roomClients, exists := h.clientsByRoom[msg.RoomID]
	if !exists {
		return
	}

	for client := range roomClients {
		if msg.ExceptSession != "" && client.GetSessionID() == msg.ExceptSession {
			continue
		}
		if client.IsConnected() {
			select {
			case client.send <- msg.Frame:
			default:
				// Client's send channel is full, disconnect them
				go client.Disconnect()
			}
		}
	}
}

func (h *Hub) sendToSession(msg *SessionMessage) {
	h.mutex.RLock()
	client, exists := h.clientsBySession[msg.SessionID]
	h.mutex.RUnlock()

	if exists && client.IsConnected() {
		select {
		case client.send <- msg.Frame:
		default:
			go client.Disconnect()
		}
	}
}

func (h *Hub) shutdownAllClients() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for client := range h.clients {
		client.Disconnect()
	}
}
