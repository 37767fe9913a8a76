package websocket

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. Draw frames carry stroke
	// batches, so this is well above a chat line.
	maxMessageSize = 64 * 1024
)

// ErrClientDisconnected means the frame could not be delivered
var ErrClientDisconnected = fmt.Errorf("client is disconnected")

// Client represents a WebSocket client connection. The socket ID is
// per-connection; the session ID survives reconnects and is bound by
// the gateway once the client identifies itself.
type Client struct {
	// The websocket connection
	conn *websocket.Conn

	// Hub that manages this client
	hub *Hub

	// Buffered channel of outbound frames. Never closed: the hub and
	// racing broadcasts keep sending after a disconnect flips
	// isConnected, and a send on a closed channel would take the whole
	// process down. done tells the write pump to stop instead.
	send chan []byte

	// Closed exactly once on disconnect
	done chan struct{}

	// Per-connection identity
	socketID string

	// Cross-connection identity, empty until bound
	sessionID string

	// Current room ID
	roomID string

	connectedAt time.Time

	mutex sync.RWMutex

	isConnected bool
}

// NewClient creates a new WebSocket client
func NewClient(hub *Hub, conn *websocket.Conn, socketID string) *Client {
	return &Client{
		conn:        conn,
		hub:         hub,
		send:        make(chan []byte, 256),
		done:        make(chan struct{}),
		socketID:    socketID,
		connectedAt: time.Now(),
		isConnected: true,
	}
}

// SocketID returns the per-connection identifier
func (c *Client) SocketID() string {
	return c.socketID
}

// GetSessionID returns the client's bound session ID (thread-safe)
func (c *Client) GetSessionID() string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.sessionID
}

// SetSessionID sets the client's session ID (thread-safe)
func (c *Client) SetSessionID(sessionID string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.sessionID = sessionID
}

// GetRoomID returns the client's current room ID (thread-safe)
func (c *Client) GetRoomID() string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.roomID
}

// SetRoomID sets the client's current room ID (thread-safe)
func (c *Client) SetRoomID(roomID string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.roomID = roomID
}

// IsConnected returns the connection status (thread-safe)
func (c *Client) IsConnected() bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.isConnected
}

// ReadPump pumps frames from the websocket connection to the hub
func (c *Client) ReadPump() {
	defer func() {
		c.disconnect()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		select {
		case c.hub.inbound <- &InboundFrame{Client: c, Frame: frame}:
		default:
			log.Println("Hub inbound channel is full, dropping frame")
		}
	}
}

// WritePump pumps frames from the hub to the websocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}

		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Send queues a frame for this specific client
func (c *Client) Send(frame []byte) error {
	if !c.IsConnected() {
		return ErrClientDisconnected
	}

	select {
	case c.send <- frame:
		return nil
	default:
		// Channel is full, client is slow or gone
		c.disconnect()
		return ErrClientDisconnected
	}
}

// disconnect handles client disconnection
func (c *Client) disconnect() {
	c.mutex.Lock()
	wasConnected := c.isConnected
	c.isConnected = false
	c.mutex.Unlock()

	if wasConnected {
		close(c.done)
		c.hub.UnregisterClient(c)
		c.conn.Close()

		log.Printf("Client disconnected: %s", c.DisplayName())
	}
}

// Disconnect safely disconnects the client
func (c *Client) Disconnect() {
	c.disconnect()
}

// DisplayName returns an identifier for logging
func (c *Client) DisplayName() string {
	sid := c.GetSessionID()
	if sid != "" {
		return sid + " (" + c.socketID + ")"
	}
	return c.socketID
}
