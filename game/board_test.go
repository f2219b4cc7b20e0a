package game

import (
	"errors"
	"testing"
)

func TestNewBoardStartingLayout(t *testing.T) {
	b := NewBoard()

	backRank := [BoardSize]Cell{
		BlackRook, BlackKnight, BlackBishop, BlackQueen,
		BlackKing, BlackBishop, BlackKnight, BlackRook,
	}
	for col, want := range backRank {
		if b[0][col] != want {
			t.Errorf("row 0 col %d = %q, want %q", col, b[0][col], want)
		}
	}

	for col := 0; col < BoardSize; col++ {
		if b[1][col] != BlackPawn {
			t.Errorf("row 1 col %d = %q, want black pawn", col, b[1][col])
		}
		if b[6][col] != WhitePawn {
			t.Errorf("row 6 col %d = %q, want white pawn", col, b[6][col])
		}
	}

	for row := 2; row <= 5; row++ {
		for col := 0; col < BoardSize; col++ {
			if b[row][col] != Empty {
				t.Errorf("row %d col %d = %q, want empty", row, col, b[row][col])
			}
		}
	}

	if b[7][4] != WhiteKing {
		t.Errorf("white king at row 7 col 4 = %q", b[7][4])
	}
}

func TestParseSquare(t *testing.T) {
	tests := []struct {
		notation string
		want     Square
		wantErr  bool
	}{
		{"a8", Square{Row: 0, Col: 0}, false},
		{"a1", Square{Row: 7, Col: 0}, false},
		{"h8", Square{Row: 0, Col: 7}, false},
		{"h1", Square{Row: 7, Col: 7}, false},
		{"e2", Square{Row: 6, Col: 4}, false},
		{"e4", Square{Row: 4, Col: 4}, false},
		{"i4", Square{}, true},
		{"a9", Square{}, true},
		{"a0", Square{}, true},
		{"", Square{}, true},
		{"e", Square{}, true},
		{"e10", Square{}, true},
		{"22", Square{}, true},
		{"ee", Square{}, true},
	}

	for _, tt := range tests {
		got, err := ParseSquare(tt.notation)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseSquare(%q) expected error, got %+v", tt.notation, got)
			} else if !errors.Is(err, ErrMalformedSquare) {
				t.Errorf("ParseSquare(%q) error = %v, want ErrMalformedSquare", tt.notation, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseSquare(%q) unexpected error: %v", tt.notation, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSquare(%q) = %+v, want %+v", tt.notation, got, tt.want)
		}
	}
}

func TestBoardMoveE2E4(t *testing.T) {
	b := NewBoard()
	want := NewBoard()

	from, _ := ParseSquare("e2")
	to, _ := ParseSquare("e4")
	b.Move(from, to)

	if b[6][4] != Empty {
		t.Errorf("source cell (6,4) = %q, want empty", b[6][4])
	}
	if b[4][4] != WhitePawn {
		t.Errorf("destination cell (4,4) = %q, want white pawn", b[4][4])
	}

	// All other cells must be unchanged.
	want[6][4] = Empty
	want[4][4] = WhitePawn
	if b != want {
		t.Errorf("unrelated cells changed by move:\ngot  %v\nwant %v", b, want)
	}
}

func TestBoardMoveMirrorsBlindly(t *testing.T) {
	b := NewBoard()

	// The mirror never checks legality, so a rook may "move" through
	// its own pawn and overwrite whatever sits on the destination.
	from, _ := ParseSquare("a1")
	to, _ := ParseSquare("a8")
	b.Move(from, to)

	if b[7][0] != Empty {
		t.Errorf("source cell = %q, want empty", b[7][0])
	}
	if b[0][0] != WhiteRook {
		t.Errorf("destination cell = %q, want white rook", b[0][0])
	}
}

func TestColorOther(t *testing.T) {
	if White.Other() != Black {
		t.Errorf("White.Other() = %q", White.Other())
	}
	if Black.Other() != White {
		t.Errorf("Black.Other() = %q", Black.Other())
	}
}
