package rules

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// GameType selects which rule engine governs a session.
type GameType string

const (
	Chess    GameType = "chess"
	Checkers GameType = "checkers"
)

// Color identifies a side. ColorA is the creator's side and moves "up"
// the board (towards row 0); ColorB moves down.
type Color int8

const (
	ColorA Color = iota
	ColorB
)

func (c Color) String() string {
	if c == ColorA {
		return "a"
	}
	return "b"
}

// Other returns the opposing color.
func (c Color) Other() Color {
	if c == ColorA {
		return ColorB
	}
	return ColorA
}

// forward is the row delta for a non-crowned piece of this color.
func (c Color) forward() int {
	if c == ColorA {
		return -1
	}
	return 1
}

// Kind is the piece variant. None marks an empty cell.
type Kind int8

const (
	None Kind = iota
	Pawn
	Rook
	Knight
	Bishop
	Queen
	King
	Man     // checkers piece
	Crowned // checkers king
)

var kindNames = map[Kind]string{
	Pawn:    "pawn",
	Rook:    "rook",
	Knight:  "knight",
	Bishop:  "bishop",
	Queen:   "queen",
	King:    "king",
	Man:     "man",
	Crowned: "crowned",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "none"
}

// Piece is the tagged variant occupying a board cell. The zero value is
// an empty cell.
type Piece struct {
	Kind  Kind
	Color Color
}

// Empty reports whether the cell holds no piece.
func (p Piece) Empty() bool { return p.Kind == None }

// MarshalJSON renders empty cells as null and occupied cells with
// readable kind/color tags.
func (p Piece) MarshalJSON() ([]byte, error) {
	if p.Empty() {
		return []byte("null"), nil
	}
	return []byte(fmt.Sprintf(`{"kind":%q,"color":%q}`, p.Kind, p.Color)), nil
}

// UnmarshalJSON accepts the wire form produced by MarshalJSON, so
// clients and tests can decode board snapshots.
func (p *Piece) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*p = Piece{}
		return nil
	}
	var raw struct {
		Kind  string `json:"kind"`
		Color string `json:"color"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	kind := None
	for k, name := range kindNames {
		if name == raw.Kind {
			kind = k
			break
		}
	}
	if kind == None {
		return fmt.Errorf("unknown piece kind %q", raw.Kind)
	}
	color := ColorA
	if raw.Color == "b" {
		color = ColorB
	}
	*p = Piece{Kind: kind, Color: color}
	return nil
}

// Size is the board edge length for every supported game.
const Size = 8

// Board is a value type: Apply copies it, so callers keep the prior
// state untouched on rejection.
type Board [Size][Size]Piece

// Coord addresses a board cell. Row 0 is the top of the board.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// InBounds reports whether the coordinate lies on the board.
func (c Coord) InBounds() bool {
	return c.Row >= 0 && c.Row < Size && c.Col >= 0 && c.Col < Size
}

func (c Coord) String() string { return fmt.Sprintf("(%d,%d)", c.Row, c.Col) }

// Outcome reports terminal detection. Winner is a player index and only
// meaningful when Over is true.
type Outcome struct {
	Over   bool
	Winner int
	Reason string
}

// Engine validates and applies moves for one game type. Implementations
// never mutate the boards they are handed.
type Engine interface {
	// Initial returns the starting position.
	Initial() Board
	// Validate checks a proposed move for the given player index (0 or
	// 1); a rejected move returns a *Violation and no board changes.
	Validate(b Board, from, to Coord, player int) error
	// Apply assumes the move validated and returns the resulting board.
	Apply(b Board, from, to Coord) Board
	// Terminal checks for game end (capture exhaustion).
	Terminal(b Board) Outcome
}

// Violation is a classified move rejection from an engine.
type Violation struct {
	Reason string
}

func (v *Violation) Error() string { return v.Reason }

func reject(format string, args ...any) error {
	return &Violation{Reason: fmt.Sprintf(format, args...)}
}

var engines = map[GameType]Engine{
	Chess:    chessEngine{},
	Checkers: checkersEngine{},
}

// ForGame returns the engine for the given game type.
func ForGame(gt GameType) (Engine, error) {
	e, ok := engines[gt]
	if !ok {
		return nil, fmt.Errorf("unsupported game type %q", gt)
	}
	return e, nil
}

// PlayerColor maps a player index to its side: the creator (index 0)
// plays ColorA.
func PlayerColor(player int) Color {
	if player == 0 {
		return ColorA
	}
	return ColorB
}

// count returns the number of pieces per color on the board.
func count(b Board) (a, bb int) {
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			p := b[r][c]
			if p.Empty() {
				continue
			}
			if p.Color == ColorA {
				a++
			} else {
				bb++
			}
		}
	}
	return
}

// exhaustion is the shared terminal rule: a side with no pieces left
// loses. Draws are out of scope.
func exhaustion(b Board) Outcome {
	a, bb := count(b)
	switch {
	case a == 0:
		return Outcome{Over: true, Winner: 1, Reason: "all pieces captured"}
	case bb == 0:
		return Outcome{Over: true, Winner: 0, Reason: "all pieces captured"}
	}
	return Outcome{}
}
