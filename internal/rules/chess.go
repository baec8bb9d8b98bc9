package rules

// chessEngine implements the reduced chess used for staked matches:
// piece geometry and captures only. Check, checkmate, castling,
// en passant and promotion are deliberately absent; games end by
// capture exhaustion like the other supported games.
type chessEngine struct{}

var backRank = [Size]Kind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

func (chessEngine) Initial() Board {
	var b Board
	for c := 0; c < Size; c++ {
		b[0][c] = Piece{Kind: backRank[c], Color: ColorB}
		b[1][c] = Piece{Kind: Pawn, Color: ColorB}
		b[6][c] = Piece{Kind: Pawn, Color: ColorA}
		b[7][c] = Piece{Kind: backRank[c], Color: ColorA}
	}
	return b
}

// pawnStartRow is the row a pawn double-advance may begin from.
func pawnStartRow(c Color) int {
	if c == ColorA {
		return 6
	}
	return 1
}

func (chessEngine) Validate(b Board, from, to Coord, player int) error {
	if !from.InBounds() || !to.InBounds() {
		return reject("coordinates out of bounds")
	}
	if from == to {
		return reject("move goes nowhere")
	}
	piece := b[from.Row][from.Col]
	if piece.Empty() {
		return reject("no piece at %s", from)
	}
	color := PlayerColor(player)
	if piece.Color != color {
		return reject("piece at %s is not yours", from)
	}
	dest := b[to.Row][to.Col]
	if !dest.Empty() && dest.Color == color {
		return reject("destination %s holds your own piece", to)
	}

	dr := to.Row - from.Row
	dc := to.Col - from.Col
	switch piece.Kind {
	case Pawn:
		return validatePawn(b, from, to, color, dest)
	case Rook:
		if dr != 0 && dc != 0 {
			return reject("rook moves along a rank or file")
		}
		return clearPath(b, from, to)
	case Bishop:
		if abs(dr) != abs(dc) {
			return reject("bishop moves diagonally")
		}
		return clearPath(b, from, to)
	case Queen:
		if dr != 0 && dc != 0 && abs(dr) != abs(dc) {
			return reject("queen moves along a line or diagonal")
		}
		return clearPath(b, from, to)
	case Knight:
		if !(abs(dr) == 1 && abs(dc) == 2) && !(abs(dr) == 2 && abs(dc) == 1) {
			return reject("illegal knight move")
		}
		return nil
	case King:
		if abs(dr) > 1 || abs(dc) > 1 {
			return reject("king moves one square")
		}
		return nil
	}
	return reject("piece at %s cannot move in a chess game", from)
}

func validatePawn(b Board, from, to Coord, color Color, dest Piece) error {
	dir := color.forward()
	dr := to.Row - from.Row
	dc := to.Col - from.Col

	// straight advances land only on empty squares
	if dc == 0 {
		if !dest.Empty() {
			return reject("pawn advance is blocked")
		}
		if dr == dir {
			return nil
		}
		if dr == 2*dir && from.Row == pawnStartRow(color) {
			if !b[from.Row+dir][from.Col].Empty() {
				return reject("pawn advance is blocked")
			}
			return nil
		}
		return reject("illegal pawn advance")
	}
	// diagonal moves capture only
	if abs(dc) == 1 && dr == dir {
		if dest.Empty() {
			return reject("pawn captures diagonally onto an occupied square")
		}
		return nil
	}
	return reject("illegal pawn move")
}

// clearPath walks square by square from origin towards destination and
// rejects when any intervening square is occupied.
func clearPath(b Board, from, to Coord) error {
	dr := sign(to.Row - from.Row)
	dc := sign(to.Col - from.Col)
	r, c := from.Row+dr, from.Col+dc
	for r != to.Row || c != to.Col {
		if !b[r][c].Empty() {
			return reject("path from %s to %s is blocked", from, to)
		}
		r += dr
		c += dc
	}
	return nil
}

func (chessEngine) Apply(b Board, from, to Coord) Board {
	b[to.Row][to.Col] = b[from.Row][from.Col]
	b[from.Row][from.Col] = Piece{}
	return b
}

func (chessEngine) Terminal(b Board) Outcome {
	return exhaustion(b)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}
