package websocket

import (
	"log"
	"sync"

	"github.com/bibekrb/exam_custody_tracker/models"
	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

type Client struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
}

var clients = make(map[uuid.UUID]*websocket.Conn)
var clientsMu sync.RWMutex
var Register = make(chan *Client)
var Unregister = make(chan *Client)
var Broadcast = make(chan *models.ExamTrackerEvent, 64)

// PublishEvent pushes an accepted custody event onto the feed without ever
// blocking the submission pipeline. A full buffer drops the frame; the
// dashboard refreshes from the summary endpoint anyway.
func PublishEvent(event *models.ExamTrackerEvent) {
	select {
	case Broadcast <- event:
	default:
		log.Printf("Event feed buffer full, dropping broadcast for event %s", event.ID)
	}
}

// RunHub fans submitted tracker events out to every connected admin
// dashboard.
func RunHub() {
	for {
		select {
		case client := <-Register:
			log.Printf("Event feed client registered: %s", client.UserID)
			clientsMu.Lock()
			clients[client.UserID] = client.Conn
			clientsMu.Unlock()
		case client := <-Unregister:
			log.Printf("Event feed client unregistered: %s", client.UserID)
			clientsMu.Lock()
			if conn, ok := clients[client.UserID]; ok && conn == client.Conn {
				delete(clients, client.UserID)
			}
			clientsMu.Unlock()
		case event := <-Broadcast:
			clientsMu.RLock()
			stale := make([]uuid.UUID, 0)
			for userID, conn := range clients {
				if err := conn.WriteJSON(event); err != nil {
					log.Printf("Error sending event to client %s: %v", userID, err)
					conn.Close()
					stale = append(stale, userID)
				}
			}
			clientsMu.RUnlock()
			if len(stale) > 0 {
				clientsMu.Lock()
				for _, userID := range stale {
					delete(clients, userID)
				}
				clientsMu.Unlock()
			}
		}
	}
}
