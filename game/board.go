package game

import "fmt"

// Cell is the label occupying one board square: a piece letter or
// empty. Uppercase letters are white pieces, lowercase are black.
type Cell string

const Empty Cell = ""

const (
	WhitePawn   Cell = "P"
	WhiteRook   Cell = "R"
	WhiteKnight Cell = "N"
	WhiteBishop Cell = "B"
	WhiteQueen  Cell = "Q"
	WhiteKing   Cell = "K"
	BlackPawn   Cell = "p"
	BlackRook   Cell = "r"
	BlackKnight Cell = "n"
	BlackBishop Cell = "b"
	BlackQueen  Cell = "q"
	BlackKing   Cell = "k"
)

const BoardSize = 8

// Board mirrors piece positions without knowing the rules. Row 0 is
// rank 8 (black's back rank), row 7 is rank 1, column 0 is file 'a'.
type Board [BoardSize][BoardSize]Cell

// NewBoard returns the standard chess starting layout.
func NewBoard() Board {
	return Board{
		{BlackRook, BlackKnight, BlackBishop, BlackQueen, BlackKing, BlackBishop, BlackKnight, BlackRook},
		{BlackPawn, BlackPawn, BlackPawn, BlackPawn, BlackPawn, BlackPawn, BlackPawn, BlackPawn},
		{Empty, Empty, Empty, Empty, Empty, Empty, Empty, Empty},
		{Empty, Empty, Empty, Empty, Empty, Empty, Empty, Empty},
		{Empty, Empty, Empty, Empty, Empty, Empty, Empty, Empty},
		{Empty, Empty, Empty, Empty, Empty, Empty, Empty, Empty},
		{WhitePawn, WhitePawn, WhitePawn, WhitePawn, WhitePawn, WhitePawn, WhitePawn, WhitePawn},
		{WhiteRook, WhiteKnight, WhiteBishop, WhiteQueen, WhiteKing, WhiteBishop, WhiteKnight, WhiteRook},
	}
}

// Square is a grid coordinate pair, already decoded from notation.
type Square struct {
	Row int
	Col int
}

// ParseSquare decodes board notation like "e2" into grid coordinates:
// column = file letter offset from 'a', row = 8 - rank digit. Anything
// outside the 8x8 grid is rejected before it can touch a board.
func ParseSquare(notation string) (Square, error) {
	if len(notation) != 2 {
		return Square{}, fmt.Errorf("%w: %q", ErrMalformedSquare, notation)
	}

	col := int(notation[0] - 'a')
	row := 8 - int(notation[1]-'0')
	if col < 0 || col >= BoardSize || row < 0 || row >= BoardSize {
		return Square{}, fmt.Errorf("%w: %q", ErrMalformedSquare, notation)
	}

	return Square{Row: row, Col: col}, nil
}

// Move copies the source cell onto the destination and clears the
// source. No capture bookkeeping, no legality check.
func (b *Board) Move(from, to Square) {
	b[to.Row][to.Col] = b[from.Row][from.Col]
	b[from.Row][from.Col] = Empty
}

// Labels converts the board to its wire representation.
func (b *Board) Labels() [8][8]string {
	var labels [8][8]string
	for i, row := range b {
		for j, cell := range row {
			labels[i][j] = string(cell)
		}
	}
	return labels
}

// Color identifies a side. The first participant to join a room is
// always white, and white always holds the opening turn.
type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func (c Color) Other() Color {
	if c == White {
		return Black
	}
	return White
}
