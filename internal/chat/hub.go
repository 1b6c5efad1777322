package chat

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	goredis "github.com/redis/go-redis/v9"

	"github.com/fundihub/fundihub-backend/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
	sendBuffer     = 32
)

// subscriber opens Redis pub/sub subscriptions for live fan-out.
type subscriber interface {
	Subscribe(ctx context.Context, channels ...string) *goredis.PubSub
	ChatChannel(conversationID string) string
}

// client is one websocket connection pinned to a conversation.
type client struct {
	conversationID uuid.UUID
	conn           *websocket.Conn
	send           chan []byte
}

// Hub bridges Redis pub/sub to websocket connections. Each conversation gets
// one Redis subscription shared by its connected clients.
type Hub struct {
	sub  subscriber
	logg *logger.Logger

	mu      sync.Mutex
	rooms   map[uuid.UUID]map[*client]struct{}
	cancels map[uuid.UUID]context.CancelFunc

	upgrader websocket.Upgrader
}

// NewHub constructs a chat hub.
func NewHub(sub subscriber, logg *logger.Logger) *Hub {
	return &Hub{
		sub:     sub,
		logg:    logg,
		rooms:   map[uuid.UUID]map[*client]struct{}{},
		cancels: map[uuid.UUID]context.CancelFunc{},
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// ServeConversation upgrades the request and streams the conversation's
// messages until the peer disconnects. Authorization happens in the handler
// before this is called.
func (h *Hub) ServeConversation(w http.ResponseWriter, r *http.Request, conversationID uuid.UUID) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &client{
		conversationID: conversationID,
		conn:           conn,
		send:           make(chan []byte, sendBuffer),
	}
	h.register(c)

	go h.writePump(c)
	h.readPump(r.Context(), c)
	return nil
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[c.conversationID]
	if !ok {
		room = map[*client]struct{}{}
		h.rooms[c.conversationID] = room

		ctx, cancel := context.WithCancel(context.Background())
		h.cancels[c.conversationID] = cancel
		go h.relay(ctx, c.conversationID)
	}
	room[c] = struct{}{}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[c.conversationID]
	if !ok {
		return
	}
	if _, present := room[c]; !present {
		return
	}
	delete(room, c)
	close(c.send)

	if len(room) == 0 {
		delete(h.rooms, c.conversationID)
		if cancel, ok := h.cancels[c.conversationID]; ok {
			cancel()
			delete(h.cancels, c.conversationID)
		}
	}
}

// relay pumps the conversation's Redis channel into every connected client.
func (h *Hub) relay(ctx context.Context, conversationID uuid.UUID) {
	pubsub := h.sub.Subscribe(ctx, h.sub.ChatChannel(conversationID.String()))
	if pubsub == nil {
		return
	}
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.broadcast(conversationID, []byte(msg.Payload))
		}
	}
}

func (h *Hub) broadcast(conversationID uuid.UUID, payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.rooms[conversationID] {
		select {
		case c.send <- payload:
		default:
			// Slow consumer, drop the connection rather than block the room.
			go c.conn.Close()
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains the connection so pings and close frames are processed.
// Clients send messages over HTTP, not the socket.
func (h *Hub) readPump(ctx context.Context, c *client) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if h.logg != nil && websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logg.Warn(ctx, "websocket closed unexpectedly")
			}
			return
		}
	}
}
