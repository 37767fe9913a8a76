package handlers

import (
	"log"
	"net/http"

	"github.com/google/uuid"
	gorillaws "github.com/gorilla/websocket"

	"github.com/pranavnigade123/drawzzl-backend/pkg/websocket"
)

// ServeWS upgrades the connection and hands it to the hub. Origins are
// checked against the same allow-list CORS uses.
func ServeWS(hub *websocket.Hub, allowedOrigins []string) http.HandlerFunc {
	upgrader := gorillaws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, allowed := range allowedOrigins {
				if allowed == "*" || allowed == origin {
					return true
				}
			}
			return false
		},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("WebSocket upgrade failed: %v", err)
			return
		}

		client := websocket.NewClient(hub, conn, uuid.NewString())
		hub.RegisterClient(client)

		go client.WritePump()
		go client.ReadPump()
	}
}
