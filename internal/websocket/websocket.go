package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/abrezinsky/padelpools/internal/logger"
	"github.com/abrezinsky/padelpools/internal/models"
	"github.com/abrezinsky/padelpools/internal/services"
)

// Message types sent to clients
const (
	TypeRanking        = "ranking"
	TypeMatchResult    = "match_result"
	TypePoolsGenerated = "pools_generated"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // origins are enforced by the CORS middleware
	},
}

// RankingProvider loads the ranking snapshot sent to new clients
type RankingProvider interface {
	GetRanking(ctx context.Context, tournamentID, categoryID int) ([]models.GlobalRanking, error)
}

// RoomKey identifies the clients following one tournament category
func RoomKey(tournamentID, categoryID int) string {
	return fmt.Sprintf("%d:%d", tournamentID, categoryID)
}

type roomMessage struct {
	room string
	msg  models.WSMessage
}

// Hub maintains the set of active clients and broadcasts messages to the
// clients of a room
type Hub struct {
	log        logger.Logger
	clients    map[*Client]bool
	broadcast  chan roomMessage
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	ranking    RankingProvider
}

// Client is a middleman between the websocket connection and the hub
type Client struct {
	hub          *Hub
	conn         *websocket.Conn
	send         chan models.WSMessage
	tournamentID int
	categoryID   int
}

func (c *Client) room() string {
	return RoomKey(c.tournamentID, c.categoryID)
}

// New creates a new Hub instance with injected dependencies
func New(log logger.Logger, ranking RankingProvider) *Hub {
	return &Hub{
		log:        log,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan roomMessage),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		ranking:    ranking,
	}
}

// Start begins the hub's main loop in a goroutine
func (h *Hub) Start() {
	go h.run()
}

func (h *Hub) run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mutex.Unlock()
			h.log.Debug("Client connected", "room", client.room(), "total_clients", total)

			go h.sendSnapshot(client)

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			total := len(h.clients)
			h.mutex.Unlock()
			h.log.Debug("Client disconnected", "room", client.room(), "total_clients", total)

		case rm := <-h.broadcast:
			h.mutex.RLock()
			for client := range h.clients {
				if client.room() != rm.room {
					continue
				}
				select {
				case client.send <- rm.msg:
				default:
					// send buffer full
					go func(c *Client) {
						h.unregister <- c
					}(client)
				}
			}
			h.mutex.RUnlock()
		}
	}
}

// sendSnapshot sends the current ranking of the client's room
func (h *Hub) sendSnapshot(client *Client) {
	if h.ranking == nil {
		return
	}
	ranking, err := h.ranking.GetRanking(context.Background(), client.tournamentID, client.categoryID)
	if err != nil {
		h.log.Warn("Failed to load ranking snapshot", "room", client.room(), "error", err)
		return
	}

	h.mutex.RLock()
	defer h.mutex.RUnlock()
	if !h.clients[client] {
		return
	}
	select {
	case client.send <- models.WSMessage{Type: TypeRanking, Payload: ranking}:
	default:
	}
}

// ClientCount returns the number of clients connected to a room
func (h *Hub) ClientCount(tournamentID, categoryID int) int {
	room := RoomKey(tournamentID, categoryID)
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	n := 0
	for c := range h.clients {
		if c.room() == room {
			n++
		}
	}
	return n
}

// BroadcastMessage sends a message to every client of a tournament category
func (h *Hub) BroadcastMessage(tournamentID, categoryID int, msgType string, payload interface{}) {
	h.broadcast <- roomMessage{
		room: RoomKey(tournamentID, categoryID),
		msg:  models.WSMessage{Type: msgType, Payload: payload},
	}
}

// BroadcastPoolsGenerated implements services.Broadcaster
func (h *Hub) BroadcastPoolsGenerated(tournamentID, categoryID int, pools []models.Pool) {
	h.BroadcastMessage(tournamentID, categoryID, TypePoolsGenerated, pools)
}

// BroadcastMatchResult implements services.Broadcaster
func (h *Hub) BroadcastMatchResult(tournamentID, categoryID int, match *models.PoolMatch) {
	h.BroadcastMessage(tournamentID, categoryID, TypeMatchResult, match)
}

// BroadcastRanking implements services.Broadcaster
func (h *Hub) BroadcastRanking(tournamentID, categoryID int, ranking []models.GlobalRanking) {
	h.BroadcastMessage(tournamentID, categoryID, TypeRanking, ranking)
}

var _ services.Broadcaster = (*Hub)(nil)

// readPump pumps messages from the websocket connection to the hub
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Debug("WebSocket error", "error", err)
			}
			break
		}

		var msg models.WSMessage
		if err := json.Unmarshal(message, &msg); err == nil {
			c.hub.log.Debug("Received message", "type", msg.Type)
		}
	}
}

// writePump pumps messages from the hub to the websocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWs upgrades a request to a websocket joined to the room given by the
// tournament_id and category_id query parameters
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request) {
	tid, err1 := strconv.Atoi(r.URL.Query().Get("tournament_id"))
	cid, err2 := strconv.Atoi(r.URL.Query().Get("category_id"))
	if err1 != nil || err2 != nil || tid <= 0 || cid <= 0 {
		http.Error(w, "tournament_id and category_id are required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("WebSocket upgrade error", "error", err)
		return
	}

	client := &Client{
		hub:          h,
		conn:         conn,
		send:         make(chan models.WSMessage, 256),
		tournamentID: tid,
		categoryID:   cid,
	}
	h.register <- client

	go client.writePump()
	go client.readPump()
}
