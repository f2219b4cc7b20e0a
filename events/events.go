package events

import "encoding/json"

// Event names exchanged over the wire. Incoming events are requests
// from clients, outgoing events are relay responses and broadcasts.
const (
	// Incoming
	JoinRoom           = "joinRoom"
	NewMove            = "newMove"
	ChatMessage        = "chatMessage"
	RequestChatHistory = "requestChatHistory"
	LeaveRoom          = "leaveRoom"

	// Outgoing
	GameState            = "gameState"
	GameStart            = "gameStart"
	MoveUpdate           = "moveUpdate"
	ChatHistory          = "chatHistory"
	RoomFull             = "roomFull"
	InvalidRoom          = "invalidRoom"
	NotYourTurn          = "notYourTurn"
	OpponentDisconnected = "opponentDisconnected"
	Error                = "error"
)

// Envelope is the framing for every message in both directions. Data
// holds the event-specific payload, raw so the receiver can decode it
// once the event name is known.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Move is a from/to square pair in board notation, e.g. "e2" -> "e4".
type Move struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type NewMoveRequest struct {
	Room string `json:"room"`
	Move Move   `json:"move"`
}

type ChatSendRequest struct {
	Room    string `json:"room"`
	Message string `json:"message"`
}

// ChatEntry is one accepted chat message, in append order.
type ChatEntry struct {
	SenderID string `json:"senderId"`
	Message  string `json:"message"`
}

// GameStatePayload is the snapshot sent to a joiner alone.
type GameStatePayload struct {
	Board               [8][8]string `json:"board"`
	PlayerColor         string       `json:"playerColor"`
	IsCurrentPlayerTurn bool         `json:"isCurrentPlayerTurn"`
	Room                string       `json:"room"`
	Chat                []ChatEntry  `json:"chat"`
}

// GameStartPayload announces both color assignments once a room fills.
type GameStartPayload struct {
	Room  string `json:"room"`
	White string `json:"white"`
	Black string `json:"black"`
}

type MoveUpdatePayload struct {
	Move          Move   `json:"move"`
	CurrentPlayer string `json:"currentPlayer"`
}

type ChatHistoryPayload struct {
	Room     string      `json:"room"`
	Messages []ChatEntry `json:"messages"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// RoomStatePayload is the read-only room snapshot served over HTTP.
type RoomStatePayload struct {
	Room          string       `json:"room"`
	Players       int          `json:"players"`
	CurrentPlayer string       `json:"currentPlayer"`
	Board         [8][8]string `json:"board"`
}
