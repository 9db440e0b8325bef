package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/playsnooker/backend/internal/game"
)

// Inbound message payloads.
type PointerData struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type SpinData struct {
	Side     float64 `json:"side"`
	Vertical float64 `json:"vertical"`
}

type CommandData struct {
	Name string `json:"name"`
}

// SessionHub is the single hub for all sessions.
var SessionHub *Hub

func init() {
	SessionHub = NewHub()
	go runSessionHub(SessionHub)
}

// HandleWebSocket attaches a renderer/input client to a session stream.
func HandleWebSocket(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		token = c.Query("token")
	}
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token required"})
		return
	}

	s, err := game.Manager.GetByToken(token)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	client := &Client{
		conn:         conn,
		clientID:     uuid.New().String(),
		sessionID:    s.ID,
		sessionToken: token,
		send:         make(chan []byte, 256),
	}

	SessionHub.register <- client

	go client.writePump()
	go client.readPump()
}

// runSessionHub manages client membership and the per-session tick loops.
func runSessionHub(h *Hub) {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.clientID] = client
			room, exists := h.rooms[client.sessionID]
			if !exists {
				room = make(map[string]*Client)
				h.rooms[client.sessionID] = room
			}
			room[client.clientID] = client
			firstClient := len(room) == 1
			h.mu.Unlock()

			log.Printf("[WS] client %s attached to session %s", client.clientID, client.sessionID)

			if firstClient {
				h.startTicker(client.sessionID, client.sessionToken)
			}
			client.sendInitialState()

		case client := <-h.unregister:
			h.mu.Lock()
			if cur, ok := h.clients[client.clientID]; ok && cur == client {
				delete(h.clients, client.clientID)
				if room, exists := h.rooms[client.sessionID]; exists {
					delete(room, client.clientID)
					if len(room) == 0 {
						delete(h.rooms, client.sessionID)
						if stop, ok := h.tickStop[client.sessionID]; ok {
							close(stop)
							delete(h.tickStop, client.sessionID)
						}
					}
				}
				close(client.send)
				log.Printf("[WS] client %s detached from session %s", client.clientID, client.sessionID)
			}
			h.mu.Unlock()
		}
	}
}

// startTicker runs the session's simulation loop while anyone is attached:
// one Step then one broadcast per display-refresh tick.
func (h *Hub) startTicker(sessionID, token string) {
	stop := make(chan struct{})
	h.mu.Lock()
	h.tickStop[sessionID] = stop
	h.mu.Unlock()

	hz := 60
	if wsConfig != nil && wsConfig.TickHz > 0 {
		hz = wsConfig.TickHz
	}

	go func() {
		ticker := time.NewTicker(time.Second / time.Duration(hz))
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				s, err := game.Manager.GetByToken(token)
				if err != nil {
					return
				}
				s.Step()
				snapshot := s.Snapshot()
				snapshot["type"] = "session_state"
				h.BroadcastToSession(sessionID, snapshot)
			}
		}
	}()
}

// sendInitialState pushes the table layout and current state to a client
// that just attached.
func (c *Client) sendInitialState() {
	s, err := game.Manager.GetByToken(c.sessionToken)
	if err != nil {
		c.sendError("session not found")
		return
	}

	layout, _ := json.Marshal(map[string]interface{}{
		"type":     "table_layout",
		"geometry": s.Geometry(),
	})
	select {
	case c.send <- layout:
	default:
	}
}

// readPump reads gesture and command messages for the session.
func (c *Client) readPump() {
	defer func() {
		SessionHub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(65536)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] unexpected close for client %s: %v", c.clientID, err)
			}
			break
		}

		var msg WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		c.handleMessage(msg)
	}
}

// handleMessage routes one inbound message to the session.
func (c *Client) handleMessage(msg WSMessage) {
	s, err := game.Manager.GetByToken(c.sessionToken)
	if err != nil {
		c.sendError("session not found")
		return
	}

	switch msg.Type {
	case "pointer_down":
		var data PointerData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid pointer data")
			return
		}
		s.PointerDown(game.NewVec2(data.X, data.Y))

	case "pointer_drag":
		var data PointerData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid pointer data")
			return
		}
		s.PointerMove(game.NewVec2(data.X, data.Y))

	case "pointer_up":
		var data PointerData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid pointer data")
			return
		}
		s.PointerUp(game.NewVec2(data.X, data.Y))

	case "set_spin":
		var data SpinData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid spin data")
			return
		}
		s.SetSpin(data.Side, data.Vertical)

	case "command":
		var data CommandData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid command data")
			return
		}
		if !s.Command(data.Name) {
			c.sendError("command not available")
		}

	case "get_state":
		snapshot := s.Snapshot()
		snapshot["type"] = "session_state"
		d, _ := json.Marshal(snapshot)
		select {
		case c.send <- d:
		default:
		}

	default:
		c.sendError("unknown message type")
	}
}
