package session

import (
	"errors"
	"sync"

	"github.com/cameroncuttingedge/chess_relay/events"
	"github.com/cameroncuttingedge/chess_relay/game"
	"github.com/rs/zerolog/log"
)

// Sender is the transport primitive the coordinator needs: address one
// connection, or every connection joined to a room's group. Sends are
// fire-and-forget; the coordinator never waits on a peer.
type Sender interface {
	SendTo(connID, event string, payload any)
	// BroadcastToRoom delivers to every connection in the room's
	// group. A non-empty exclude skips that connection.
	BroadcastToRoom(roomID, event string, payload any, exclude string)
	JoinGroup(connID, roomID string)
	LeaveGroup(connID, roomID string)
}

// Coordinator handles every request a connection can make: join,
// move, chat, leave, plus the synthetic disconnect the transport
// raises on connection loss. It owns the connection-to-room mapping
// and is the only caller that mutates the registry.
type Coordinator struct {
	registry *game.Registry
	sender   Sender

	mu      sync.Mutex
	current map[string]string // connID -> roomID
}

func NewCoordinator(registry *game.Registry, sender Sender) *Coordinator {
	return &Coordinator{
		registry: registry,
		sender:   sender,
		current:  make(map[string]string),
	}
}

// Join attaches a connection to a room, creating the room on first
// use. A full room rejects the requester without touching its current
// membership. Joining a new room while already in another one leaves
// the old room exactly as a disconnect would.
func (c *Coordinator) Join(connID, roomID string) {
	var (
		room    *game.Room
		res     game.JoinResult
		created bool
	)
	for {
		var err error
		room, created = c.registry.GetOrCreate(roomID)

		res, err = room.Join(connID)
		if errors.Is(err, game.ErrRoomFull) {
			log.Info().Str("connID", connID).Str("room", roomID).Msg("Join rejected, room full")
			c.sender.SendTo(connID, events.RoomFull, events.ErrorPayload{Message: "Room " + roomID + " already has two players"})
			return
		}
		// The last occupant can leave between the lookup and the
		// join, closing the room and deleting it from the registry.
		// Resolve the code again so the joiner lands in a live room.
		if errors.Is(err, game.ErrRoomClosed) {
			continue
		}
		break
	}

	// Capacity cleared, so switching rooms is safe now.
	c.mu.Lock()
	prev := c.current[connID]
	c.current[connID] = roomID
	c.mu.Unlock()

	if prev != "" && prev != roomID {
		c.leaveRoom(connID, prev)
	}

	c.sender.JoinGroup(connID, roomID)
	c.sender.SendTo(connID, events.GameState, room.Snapshot(res.Color))

	log.Info().
		Str("connID", connID).
		Str("room", roomID).
		Str("color", string(res.Color)).
		Bool("created", created).
		Msg("Client joined room")

	if res.Added && res.Occupancy == 2 {
		c.sender.BroadcastToRoom(roomID, events.GameStart, events.GameStartPayload{
			Room:  roomID,
			White: res.White,
			Black: res.Black,
		}, "")
	}
}

// Move mirrors an accepted move onto the room's board and broadcasts
// the result to everyone in the room, mover included, so all clients
// converge on the server's state. Rejections go back to the mover
// alone and leave the room untouched.
func (c *Coordinator) Move(connID string, req events.NewMoveRequest) {
	room, ok := c.registry.Get(req.Room)
	if !ok {
		c.sender.SendTo(connID, events.InvalidRoom, nil)
		return
	}

	update, err := room.ApplyMove(connID, req.Move)
	switch {
	case errors.Is(err, game.ErrNotYourTurn):
		c.sender.SendTo(connID, events.NotYourTurn, events.ErrorPayload{Message: "It is not your turn"})
		return
	case err != nil:
		log.Warn().Err(err).Str("connID", connID).Str("room", req.Room).Msg("Move rejected")
		c.sender.SendTo(connID, events.Error, events.ErrorPayload{Message: err.Error()})
		return
	}

	log.Info().
		Str("connID", connID).
		Str("room", req.Room).
		Str("from", req.Move.From).
		Str("to", req.Move.To).
		Str("currentPlayer", update.CurrentPlayer).
		Msg("Move applied")

	c.sender.BroadcastToRoom(req.Room, events.MoveUpdate, update, "")
}

// Chat appends a message to the room's log and broadcasts it to every
// participant, sender included.
func (c *Coordinator) Chat(connID string, req events.ChatSendRequest) {
	room, ok := c.registry.Get(req.Room)
	if !ok {
		c.sender.SendTo(connID, events.InvalidRoom, nil)
		return
	}

	entry := room.AppendChat(connID, req.Message)
	c.sender.BroadcastToRoom(req.Room, events.ChatMessage, entry, "")
}

// ChatHistory replies to the requester alone with the room's full
// ordered chat log.
func (c *Coordinator) ChatHistory(connID, roomID string) {
	room, ok := c.registry.Get(roomID)
	if !ok {
		c.sender.SendTo(connID, events.InvalidRoom, nil)
		return
	}

	c.sender.SendTo(connID, events.ChatHistory, events.ChatHistoryPayload{
		Room:     roomID,
		Messages: room.ChatHistory(),
	})
}

// Leave handles an explicit leaveRoom request.
func (c *Coordinator) Leave(connID, roomID string) {
	c.mu.Lock()
	if c.current[connID] == roomID {
		delete(c.current, connID)
	}
	c.mu.Unlock()

	c.leaveRoom(connID, roomID)
}

// Disconnect is raised by the transport when a connection dies. It
// runs the same cleanup as an explicit leave and is idempotent, so a
// disconnect racing an in-flight leave or join settles harmlessly.
func (c *Coordinator) Disconnect(connID string) {
	c.mu.Lock()
	roomID, ok := c.current[connID]
	delete(c.current, connID)
	c.mu.Unlock()

	if !ok {
		return
	}

	log.Info().Str("connID", connID).Str("room", roomID).Msg("Client disconnected")
	c.leaveRoom(connID, roomID)
}

// leaveRoom is the shared cleanup path for explicit leave, room
// switch, and transport disconnect: detach from the group, notify the
// remaining occupant, and delete the room once it is empty.
func (c *Coordinator) leaveRoom(connID, roomID string) {
	c.sender.LeaveGroup(connID, roomID)

	room, ok := c.registry.Get(roomID)
	if !ok {
		return
	}

	removed, empty := room.Leave(connID)
	if !removed {
		return
	}

	c.sender.BroadcastToRoom(roomID, events.OpponentDisconnected, nil, connID)

	if empty && c.registry.RemoveIfEmpty(roomID) {
		log.Info().Str("room", roomID).Msg("Room empty, deleted")
	}
}
