package game

import "errors"

var (
	// ErrRoomFull rejects a third participant.
	ErrRoomFull = errors.New("room already has two players")

	// ErrRoomClosed rejects a join on a room that has already been
	// deregistered. The caller should look the room code up again.
	ErrRoomClosed = errors.New("room has been closed")

	// ErrNotYourTurn rejects a move from the color that does not hold
	// the turn. The board is left untouched.
	ErrNotYourTurn = errors.New("not your turn")

	// ErrNotInRoom rejects a move from a connection that is not a
	// participant of the addressed room.
	ErrNotInRoom = errors.New("player is not in this room")

	// ErrMalformedSquare rejects move notation outside the 8x8 grid.
	ErrMalformedSquare = errors.New("malformed square notation")
)
