package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"valoratbot-casino/internal/models"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler runs the live results feed: each connected dashboard
// client subscribes to one guild and receives every round settled there.
type WebSocketHandler struct {
	hub    *WebSocketHub
	logger *zap.Logger
}

type WebSocketHub struct {
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
	logger     *zap.Logger
}

type Client struct {
	UserID  string
	GuildID string
	Conn    *websocket.Conn

	// writeMu serializes writes: the hub's broadcast loop and the
	// connection's own read loop (PONG replies) share this conn, and
	// gorilla/websocket allows only one concurrent writer.
	writeMu sync.Mutex
}

func (c *Client) writeJSON(v interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.Conn.WriteJSON(v)
}

type Message struct {
	Type    string      `json:"type"`
	GuildID string      `json:"guild_id,omitempty"`
	Data    interface{} `json:"data"`
}

func NewWebSocketHandler(logger *zap.Logger) *WebSocketHandler {
	hub := &WebSocketHub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 100),
		logger:     logger,
	}

	go hub.run()

	return &WebSocketHandler{
		hub:    hub,
		logger: logger,
	}
}

// HandleWebSocket upgrades GET /api/casino/ws?guildId=... and pins the
// connection to that guild's feed.
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	userID := c.GetString("user_id")
	guildID := c.Query("guildId")
	if guildID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "guildId is required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &Client{
		UserID:  userID,
		GuildID: guildID,
		Conn:    conn,
	}

	h.hub.register <- client

	defer func() {
		h.hub.unregister <- client
		conn.Close()
	}()

	for {
		var msg Message
		err := conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn("websocket read error", zap.Error(err))
			}
			break
		}

		if msg.Type == "PING" {
			client.writeJSON(Message{
				Type: "PONG",
				Data: gin.H{"timestamp": time.Now().Unix()},
			})
		}
	}
}

// BroadcastRoundSettled implements services.Broadcaster.
func (h *WebSocketHandler) BroadcastRoundSettled(record *models.RoundRecord) {
	msg := &Message{
		Type:    "ROUND_SETTLED",
		GuildID: record.GuildID,
		Data:    record,
	}

	select {
	case h.hub.broadcast <- msg:
	default:
		// Feed is saturated; dropping a live update is fine.
	}
}

func (hub *WebSocketHub) run() {
	for {
		select {
		case client := <-hub.register:
			hub.clients[client] = struct{}{}
			hub.logger.Debug("websocket client registered",
				zap.String("user_id", client.UserID), zap.String("guild_id", client.GuildID))

		case client := <-hub.unregister:
			if _, ok := hub.clients[client]; ok {
				delete(hub.clients, client)
				hub.logger.Debug("websocket client unregistered",
					zap.String("user_id", client.UserID))
			}

		case message := <-hub.broadcast:
			for client := range hub.clients {
				if message.GuildID != "" && client.GuildID != message.GuildID {
					continue
				}
				client.writeJSON(message)
			}
		}
	}
}
