package websocket

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/cameroncuttingedge/chess_relay/events"
	"github.com/cameroncuttingedge/chess_relay/utils"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096

	// Outbound queue per connection. A peer that cannot drain this
	// many messages is dropped rather than backpressuring the room.
	sendQueueSize = 32
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true }, // Allow connections from any origin
}

// Coordinator is the request-handling side the transport dispatches
// into: one call per decoded client event, plus Disconnect when the
// connection dies.
type Coordinator interface {
	Join(connID, roomID string)
	Move(connID string, req events.NewMoveRequest)
	Chat(connID string, req events.ChatSendRequest)
	ChatHistory(connID, roomID string)
	Leave(connID, roomID string)
	Disconnect(connID string)
}

// Client is one websocket connection with a buffered outbound queue.
// done is closed exactly once, by unregister, to signal shutdown; the
// send channel itself is never closed, so a concurrent deliver can
// never panic on it.
type Client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
}

// Hub tracks live connections and their room groups, and delivers
// outbound events. It is the session coordinator's Sender.
type Hub struct {
	mu    sync.Mutex
	conns map[string]*Client
	rooms map[string]map[string]*Client
}

func NewHub() *Hub {
	return &Hub{
		conns: make(map[string]*Client),
		rooms: make(map[string]map[string]*Client),
	}
}

// ServeWS upgrades the request, assigns the connection its transient
// identifier, and runs the read loop until the peer goes away.
func (h *Hub) ServeWS(coord Coordinator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error().Err(err).Msg("WebSocket upgrade error")
			return
		}

		client := &Client{
			id:   utils.GenerateUUIDString(),
			conn: conn,
			send: make(chan []byte, sendQueueSize),
			done: make(chan struct{}),
		}

		h.register(client)
		log.Info().Str("connID", client.id).Str("remoteAddr", conn.RemoteAddr().String()).Msg("WebSocket connection established")

		go client.writePump()
		client.readPump(h, coord)
	}
}

// SendTo delivers an event to a single connection.
func (h *Hub) SendTo(connID, event string, payload any) {
	data, ok := encodeEnvelope(event, payload)
	if !ok {
		return
	}

	h.mu.Lock()
	client, exists := h.conns[connID]
	h.mu.Unlock()

	if !exists {
		return
	}
	h.deliver(client, data)
}

// BroadcastToRoom delivers an event to every connection in the room's
// group, skipping exclude when non-empty.
func (h *Hub) BroadcastToRoom(roomID, event string, payload any, exclude string) {
	data, ok := encodeEnvelope(event, payload)
	if !ok {
		return
	}

	h.mu.Lock()
	group := h.rooms[roomID]
	clients := make([]*Client, 0, len(group))
	for id, client := range group {
		if id == exclude {
			continue
		}
		clients = append(clients, client)
	}
	h.mu.Unlock()

	for _, client := range clients {
		h.deliver(client, data)
	}
}

// JoinGroup adds a connection to a room's broadcast group.
func (h *Hub) JoinGroup(connID, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.conns[connID]
	if !ok {
		return
	}
	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[string]*Client)
	}
	h.rooms[roomID][connID] = client
}

// LeaveGroup removes a connection from a room's broadcast group.
func (h *Hub) LeaveGroup(connID, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	group, ok := h.rooms[roomID]
	if !ok {
		return
	}
	delete(group, connID)
	if len(group) == 0 {
		delete(h.rooms, roomID)
	}
}

func (h *Hub) register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[client.id] = client
}

// unregister removes the client from the connection table and every
// group, and signals its shutdown exactly once.
func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.conns[client.id]; !ok {
		return
	}
	delete(h.conns, client.id)
	for roomID, group := range h.rooms {
		delete(group, client.id)
		if len(group) == 0 {
			delete(h.rooms, roomID)
		}
	}
	close(client.done)
}

// deliver enqueues without blocking. A client already shut down
// swallows the message, and a full queue means the peer is not
// keeping up, so the connection is dropped.
func (h *Hub) deliver(client *Client, data []byte) {
	select {
	case <-client.done:
	case client.send <- data:
	default:
		log.Warn().Str("connID", client.id).Msg("Send queue full, dropping connection")
		h.unregister(client)
		client.conn.Close()
	}
}

func encodeEnvelope(event string, payload any) ([]byte, bool) {
	env := events.Envelope{Event: event}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			log.Error().Err(err).Str("event", event).Msg("Failed to marshal event payload")
			return nil, false
		}
		env.Data = raw
	}

	data, err := json.Marshal(env)
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("Failed to marshal envelope")
		return nil, false
	}
	return data, true
}

// readPump decodes inbound envelopes and dispatches them to the
// coordinator until the connection errors out, then runs disconnect
// cleanup.
func (c *Client) readPump(h *Hub, coord Coordinator) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
		coord.Disconnect(c.id)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error().Err(err).Str("connID", c.id).Msg("WebSocket closed unexpectedly")
			}
			return
		}

		var env events.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			c.reject(h, "Malformed message envelope")
			continue
		}

		c.dispatch(h, coord, env)
	}
}

func (c *Client) dispatch(h *Hub, coord Coordinator, env events.Envelope) {
	switch env.Event {
	case events.JoinRoom:
		roomID, ok := decodeRoomID(env.Data)
		if !ok {
			c.reject(h, "joinRoom requires a room code")
			return
		}
		coord.Join(c.id, roomID)

	case events.NewMove:
		var req events.NewMoveRequest
		if err := json.Unmarshal(env.Data, &req); err != nil || req.Room == "" {
			c.reject(h, "newMove requires a room and a move")
			return
		}
		coord.Move(c.id, req)

	case events.ChatMessage:
		var req events.ChatSendRequest
		if err := json.Unmarshal(env.Data, &req); err != nil || req.Room == "" {
			c.reject(h, "chatMessage requires a room and a message")
			return
		}
		coord.Chat(c.id, req)

	case events.RequestChatHistory:
		roomID, ok := decodeRoomID(env.Data)
		if !ok {
			c.reject(h, "requestChatHistory requires a room code")
			return
		}
		coord.ChatHistory(c.id, roomID)

	case events.LeaveRoom:
		roomID, ok := decodeRoomID(env.Data)
		if !ok {
			c.reject(h, "leaveRoom requires a room code")
			return
		}
		coord.Leave(c.id, roomID)

	default:
		c.reject(h, "Unknown event: "+env.Event)
	}
}

func (c *Client) reject(h *Hub, message string) {
	h.SendTo(c.id, events.Error, events.ErrorPayload{Message: message})
}

// decodeRoomID accepts the bare-string payload used by joinRoom,
// leaveRoom, and requestChatHistory.
func decodeRoomID(data json.RawMessage) (string, bool) {
	var roomID string
	if err := json.Unmarshal(data, &roomID); err != nil || roomID == "" {
		return "", false
	}
	return roomID, true
}

// writePump drains the outbound queue and keeps the connection alive
// with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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
