package game

import (
	"fmt"
	"sync"

	"github.com/cameroncuttingedge/chess_relay/events"
)

type player struct {
	id    string
	color Color
}

// Room is a single two-player session: a board mirror, up to two
// participants in join order, the turn indicator, and the chat log.
// Every compound operation runs under the room's own mutex, so
// capacity checks, turn checks, and empty checks can never interleave
// with other operations on the same room. Different rooms share
// nothing and never contend.
type Room struct {
	ID string

	mu      sync.Mutex
	board   Board
	players []player
	turn    Color
	chat    []events.ChatEntry
	closed  bool
}

func NewRoom(id string) *Room {
	return &Room{
		ID:    id,
		board: NewBoard(),
		turn:  White,
	}
}

// JoinResult reports the outcome of an accepted join. Added is false
// when the connection was already a participant and nothing changed.
type JoinResult struct {
	Color     Color
	Occupancy int
	Added     bool
	White     string
	Black     string
}

// Join adds a connection to the room. The first occupant is assigned
// white, the second black. Joining a room the connection is already in
// is idempotent and reports the existing assignment. A third distinct
// connection is rejected with ErrRoomFull and changes nothing. A room
// that has already been closed by the registry rejects every join with
// ErrRoomClosed so the caller can re-resolve the room code.
func (r *Room) Join(connID string) (JoinResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return JoinResult{}, fmt.Errorf("%w: %s", ErrRoomClosed, r.ID)
	}

	for _, p := range r.players {
		if p.id == connID {
			return r.joinResultLocked(p.color), nil
		}
	}

	if len(r.players) >= 2 {
		return JoinResult{}, fmt.Errorf("%w: %s", ErrRoomFull, r.ID)
	}

	color := White
	if len(r.players) == 1 {
		color = Black
	}
	r.players = append(r.players, player{id: connID, color: color})

	res := r.joinResultLocked(color)
	res.Added = true
	return res, nil
}

func (r *Room) joinResultLocked(color Color) JoinResult {
	res := JoinResult{Color: color, Occupancy: len(r.players)}
	for _, p := range r.players {
		if p.color == White {
			res.White = p.id
		} else {
			res.Black = p.id
		}
	}
	return res
}

// Leave removes a connection from the room. It reports whether the
// connection was actually a participant and whether the room is now
// empty. Removing an absent connection is a no-op.
func (r *Room) Leave(connID string) (removed, empty bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.players {
		if p.id == connID {
			r.players = append(r.players[:i], r.players[i+1:]...)
			removed = true
			break
		}
	}

	return removed, len(r.players) == 0
}

// CloseIfEmpty marks the room closed when it has no participants and
// reports whether it did. A closed room refuses all further joins, so
// a join that lost the race against the last leave cannot attach to a
// room the registry no longer knows about.
func (r *Room) CloseIfEmpty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.players) > 0 {
		return false
	}
	r.closed = true
	return true
}

// ApplyMove mirrors a move onto the board and flips the turn. The
// notation is validated before anything is mutated, the mover must be
// a participant, and the mover's color must hold the turn. Any
// rejection leaves board and turn untouched. The relay never checks
// whose piece occupies the source square; it blindly mirrors the pair.
func (r *Room) ApplyMove(connID string, move events.Move) (events.MoveUpdatePayload, error) {
	from, err := ParseSquare(move.From)
	if err != nil {
		return events.MoveUpdatePayload{}, err
	}
	to, err := ParseSquare(move.To)
	if err != nil {
		return events.MoveUpdatePayload{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var mover *player
	for i := range r.players {
		if r.players[i].id == connID {
			mover = &r.players[i]
			break
		}
	}
	if mover == nil {
		return events.MoveUpdatePayload{}, fmt.Errorf("%w: %s", ErrNotInRoom, r.ID)
	}

	if mover.color != r.turn {
		return events.MoveUpdatePayload{}, ErrNotYourTurn
	}

	r.board.Move(from, to)
	r.turn = r.turn.Other()

	return events.MoveUpdatePayload{
		Move:          move,
		CurrentPlayer: string(r.turn),
	}, nil
}

// AppendChat records a chat message and returns the stored entry.
func (r *Room) AppendChat(senderID, message string) events.ChatEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry := events.ChatEntry{SenderID: senderID, Message: message}
	r.chat = append(r.chat, entry)
	return entry
}

// ChatHistory returns a copy of the full chat log in append order.
func (r *Room) ChatHistory() []events.ChatEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	history := make([]events.ChatEntry, len(r.chat))
	copy(history, r.chat)
	return history
}

// Snapshot builds the gameState payload sent to a joiner, from that
// joiner's perspective.
func (r *Room) Snapshot(forColor Color) events.GameStatePayload {
	r.mu.Lock()
	defer r.mu.Unlock()

	chat := make([]events.ChatEntry, len(r.chat))
	copy(chat, r.chat)

	return events.GameStatePayload{
		Board:               r.board.Labels(),
		PlayerColor:         string(forColor),
		IsCurrentPlayerTurn: forColor == r.turn,
		Room:                r.ID,
		Chat:                chat,
	}
}

// State builds the read-only snapshot served over HTTP.
func (r *Room) State() events.RoomStatePayload {
	r.mu.Lock()
	defer r.mu.Unlock()

	return events.RoomStatePayload{
		Room:          r.ID,
		Players:       len(r.players),
		CurrentPlayer: string(r.turn),
		Board:         r.board.Labels(),
	}
}
