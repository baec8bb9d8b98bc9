package rules

// checkersEngine plays straight checkers without forced captures or
// multi-jump chaining: one step or one jump per turn, strict
// alternation. Men move and capture forward only; crowned pieces move
// in all four diagonal directions.
type checkersEngine struct{}

func (checkersEngine) Initial() Board {
	var b Board
	for r := 0; r < 3; r++ {
		for c := 0; c < Size; c++ {
			if (r+c)%2 == 1 {
				b[r][c] = Piece{Kind: Man, Color: ColorB}
			}
		}
	}
	for r := 5; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if (r+c)%2 == 1 {
				b[r][c] = Piece{Kind: Man, Color: ColorA}
			}
		}
	}
	return b
}

// crownRow is the farthest row for the color, where a man is crowned.
func crownRow(c Color) int {
	if c == ColorA {
		return 0
	}
	return Size - 1
}

func (checkersEngine) Validate(b Board, from, to Coord, player int) error {
	if !from.InBounds() || !to.InBounds() {
		return reject("coordinates out of bounds")
	}
	piece := b[from.Row][from.Col]
	if piece.Empty() {
		return reject("no piece at %s", from)
	}
	color := PlayerColor(player)
	if piece.Color != color {
		return reject("piece at %s is not yours", from)
	}
	if !b[to.Row][to.Col].Empty() {
		return reject("landing square %s is occupied", to)
	}

	dr := to.Row - from.Row
	dc := to.Col - from.Col
	if abs(dr) != abs(dc) {
		return reject("checkers pieces move diagonally")
	}
	if piece.Kind == Man && sign(dr) != color.forward() {
		return reject("men move towards the far side only")
	}

	switch abs(dr) {
	case 1:
		return nil
	case 2:
		mid := b[from.Row+sign(dr)][from.Col+sign(dc)]
		if mid.Empty() || mid.Color == color {
			return reject("jump requires an opposing piece to capture")
		}
		return nil
	}
	return reject("move distance must be one step or one jump")
}

func (checkersEngine) Apply(b Board, from, to Coord) Board {
	piece := b[from.Row][from.Col]
	b[from.Row][from.Col] = Piece{}
	if abs(to.Row-from.Row) == 2 {
		b[from.Row+sign(to.Row-from.Row)][from.Col+sign(to.Col-from.Col)] = Piece{}
	}
	if piece.Kind == Man && to.Row == crownRow(piece.Color) {
		piece.Kind = Crowned
	}
	b[to.Row][to.Col] = piece
	return b
}

func (checkersEngine) Terminal(b Board) Outcome {
	return exhaustion(b)
}
