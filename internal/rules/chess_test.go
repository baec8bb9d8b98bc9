package rules

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChessInitialLayout(t *testing.T) {
	e, err := ForGame(Chess)
	require.NoError(t, err)
	b := e.Initial()

	require.Equal(t, Piece{Kind: Rook, Color: ColorB}, b[0][0])
	require.Equal(t, Piece{Kind: King, Color: ColorB}, b[0][4])
	require.Equal(t, Piece{Kind: Pawn, Color: ColorB}, b[1][3])
	require.Equal(t, Piece{Kind: Pawn, Color: ColorA}, b[6][4])
	require.Equal(t, Piece{Kind: Queen, Color: ColorA}, b[7][3])
	for r := 2; r < 6; r++ {
		for c := 0; c < Size; c++ {
			require.True(t, b[r][c].Empty(), "expected empty cell at %d,%d", r, c)
		}
	}
}

func TestChessPawnMoves(t *testing.T) {
	e, _ := ForGame(Chess)
	b := e.Initial()

	// e2 -> e4 double advance from the start row
	require.NoError(t, e.Validate(b, Coord{6, 4}, Coord{4, 4}, 0))
	// single advance
	require.NoError(t, e.Validate(b, Coord{6, 4}, Coord{5, 4}, 0))
	// triple advance
	require.Error(t, e.Validate(b, Coord{6, 4}, Coord{3, 4}, 0))
	// sideways
	require.Error(t, e.Validate(b, Coord{6, 4}, Coord{6, 5}, 0))
	// diagonal onto an empty square is not a capture
	require.Error(t, e.Validate(b, Coord{6, 4}, Coord{5, 5}, 0))

	// plant an opposing piece for a diagonal capture
	b[5][5] = Piece{Kind: Pawn, Color: ColorB}
	require.NoError(t, e.Validate(b, Coord{6, 4}, Coord{5, 5}, 0))
	// straight advance onto an occupied square is blocked
	b[5][4] = Piece{Kind: Pawn, Color: ColorB}
	require.Error(t, e.Validate(b, Coord{6, 4}, Coord{5, 4}, 0))
	// double advance with a blocked intermediate square
	require.Error(t, e.Validate(b, Coord{6, 4}, Coord{4, 4}, 0))
}

func TestChessDoubleAdvanceOnlyFromStartRow(t *testing.T) {
	e, _ := ForGame(Chess)
	var b Board
	b[5][4] = Piece{Kind: Pawn, Color: ColorA}
	require.Error(t, e.Validate(b, Coord{5, 4}, Coord{3, 4}, 0))
	require.NoError(t, e.Validate(b, Coord{5, 4}, Coord{4, 4}, 0))
}

func TestChessSlidersRequireClearPath(t *testing.T) {
	e, _ := ForGame(Chess)
	b := e.Initial()

	// rook at a1 blocked by own pawn
	require.Error(t, e.Validate(b, Coord{7, 0}, Coord{4, 0}, 0))
	// bishop blocked on the diagonal
	require.Error(t, e.Validate(b, Coord{7, 2}, Coord{5, 4}, 0))
	// queen blocked straight ahead
	require.Error(t, e.Validate(b, Coord{7, 3}, Coord{4, 3}, 0))

	// clear the file and the rook slides
	b[6][0] = Piece{}
	require.NoError(t, e.Validate(b, Coord{7, 0}, Coord{4, 0}, 0))
	// but not through an opposing piece either
	b[5][0] = Piece{Kind: Pawn, Color: ColorB}
	require.Error(t, e.Validate(b, Coord{7, 0}, Coord{4, 0}, 0))
	// capturing the blocker itself is fine
	require.NoError(t, e.Validate(b, Coord{7, 0}, Coord{5, 0}, 0))
}

func TestChessKnightJumps(t *testing.T) {
	e, _ := ForGame(Chess)
	b := e.Initial()

	require.NoError(t, e.Validate(b, Coord{7, 1}, Coord{5, 2}, 0))
	require.NoError(t, e.Validate(b, Coord{7, 1}, Coord{5, 0}, 0))
	require.Error(t, e.Validate(b, Coord{7, 1}, Coord{5, 1}, 0))
	require.Error(t, e.Validate(b, Coord{7, 1}, Coord{4, 2}, 0))
}

func TestChessKingSingleStep(t *testing.T) {
	e, _ := ForGame(Chess)
	var b Board
	b[4][4] = Piece{Kind: King, Color: ColorA}
	require.NoError(t, e.Validate(b, Coord{4, 4}, Coord{3, 3}, 0))
	require.NoError(t, e.Validate(b, Coord{4, 4}, Coord{4, 5}, 0))
	require.Error(t, e.Validate(b, Coord{4, 4}, Coord{2, 4}, 0))
}

func TestChessOwnershipAndBounds(t *testing.T) {
	e, _ := ForGame(Chess)
	b := e.Initial()

	// player 1 does not own the white pawn
	require.Error(t, e.Validate(b, Coord{6, 4}, Coord{5, 4}, 1))
	// empty origin
	require.Error(t, e.Validate(b, Coord{4, 4}, Coord{3, 4}, 0))
	// off the board
	require.Error(t, e.Validate(b, Coord{6, 4}, Coord{-1, 4}, 0))
	require.Error(t, e.Validate(b, Coord{8, 0}, Coord{7, 0}, 0))
	// own piece on the destination
	require.Error(t, e.Validate(b, Coord{7, 0}, Coord{6, 0}, 0))

	var v *Violation
	require.ErrorAs(t, e.Validate(b, Coord{6, 4}, Coord{5, 4}, 1), &v)
}

func TestChessApplyMovesPiece(t *testing.T) {
	e, _ := ForGame(Chess)
	b := e.Initial()
	next := e.Apply(b, Coord{6, 4}, Coord{4, 4})

	require.True(t, next[6][4].Empty())
	require.Equal(t, Piece{Kind: Pawn, Color: ColorA}, next[4][4])
	// value semantics: the original board is untouched
	require.Equal(t, Piece{Kind: Pawn, Color: ColorA}, b[6][4])
}

func TestChessTerminalByExhaustion(t *testing.T) {
	e, _ := ForGame(Chess)
	var b Board
	b[0][0] = Piece{Kind: King, Color: ColorB}

	out := e.Terminal(b)
	require.True(t, out.Over)
	require.Equal(t, 1, out.Winner)

	b[7][7] = Piece{Kind: King, Color: ColorA}
	require.False(t, e.Terminal(b).Over)
}
