package rules

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckersInitialLayout(t *testing.T) {
	e, err := ForGame(Checkers)
	require.NoError(t, err)
	b := e.Initial()

	pieces := map[Color]int{}
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			p := b[r][c]
			if p.Empty() {
				continue
			}
			require.Equal(t, 1, (r+c)%2, "piece off the dark squares at %d,%d", r, c)
			require.Equal(t, Man, p.Kind)
			pieces[p.Color]++
		}
	}
	require.Equal(t, 12, pieces[ColorA])
	require.Equal(t, 12, pieces[ColorB])
}

func TestCheckersSimpleStep(t *testing.T) {
	e, _ := ForGame(Checkers)
	b := e.Initial()

	// forward diagonal onto an empty square
	require.NoError(t, e.Validate(b, Coord{5, 0}, Coord{4, 1}, 0))
	// straight ahead is not diagonal
	require.Error(t, e.Validate(b, Coord{5, 0}, Coord{4, 0}, 0))
	// backwards step for a man
	require.Error(t, e.Validate(b, Coord{5, 0}, Coord{6, 1}, 0))
	// occupied landing square
	require.Error(t, e.Validate(b, Coord{6, 1}, Coord{5, 0}, 0))
	// opponent moving the wrong color
	require.Error(t, e.Validate(b, Coord{5, 0}, Coord{4, 1}, 1))
}

func TestCheckersJumpCapturesMidpoint(t *testing.T) {
	e, _ := ForGame(Checkers)
	var b Board
	b[4][3] = Piece{Kind: Man, Color: ColorA}
	b[3][2] = Piece{Kind: Man, Color: ColorB}

	require.NoError(t, e.Validate(b, Coord{4, 3}, Coord{2, 1}, 0))
	next := e.Apply(b, Coord{4, 3}, Coord{2, 1})

	require.True(t, next[4][3].Empty())
	require.True(t, next[3][2].Empty(), "captured piece still on the board")
	require.Equal(t, Piece{Kind: Man, Color: ColorA}, next[2][1])
}

func TestCheckersJumpNeedsOpposingMidpoint(t *testing.T) {
	e, _ := ForGame(Checkers)
	var b Board
	b[4][3] = Piece{Kind: Man, Color: ColorA}

	// nothing to jump over
	require.Error(t, e.Validate(b, Coord{4, 3}, Coord{2, 1}, 0))
	// own piece at the midpoint
	b[3][2] = Piece{Kind: Man, Color: ColorA}
	require.Error(t, e.Validate(b, Coord{4, 3}, Coord{2, 1}, 0))
	// distance three is never legal
	b[3][2] = Piece{Kind: Man, Color: ColorB}
	require.Error(t, e.Validate(b, Coord{4, 3}, Coord{1, 0}, 0))
}

func TestCheckersPromotionOnFarRow(t *testing.T) {
	e, _ := ForGame(Checkers)
	var b Board
	b[1][2] = Piece{Kind: Man, Color: ColorA}

	next := e.Apply(b, Coord{1, 2}, Coord{0, 3})
	require.Equal(t, Piece{Kind: Crowned, Color: ColorA}, next[0][3])

	// ColorB promotes on the bottom row
	var b2 Board
	b2[6][1] = Piece{Kind: Man, Color: ColorB}
	next2 := e.Apply(b2, Coord{6, 1}, Coord{7, 2})
	require.Equal(t, Piece{Kind: Crowned, Color: ColorB}, next2[7][2])
}

func TestCheckersCrownedMovesBackwards(t *testing.T) {
	e, _ := ForGame(Checkers)
	var b Board
	b[3][4] = Piece{Kind: Crowned, Color: ColorA}

	require.NoError(t, e.Validate(b, Coord{3, 4}, Coord{4, 5}, 0))
	require.NoError(t, e.Validate(b, Coord{3, 4}, Coord{2, 3}, 0))

	// and jumps backwards too
	b[4][5] = Piece{Kind: Man, Color: ColorB}
	require.NoError(t, e.Validate(b, Coord{3, 4}, Coord{5, 6}, 0))
}

func TestCheckersTerminalByExhaustion(t *testing.T) {
	e, _ := ForGame(Checkers)
	var b Board
	b[4][3] = Piece{Kind: Man, Color: ColorA}
	b[3][2] = Piece{Kind: Man, Color: ColorB}

	require.False(t, e.Terminal(b).Over)

	next := e.Apply(b, Coord{4, 3}, Coord{2, 1})
	out := e.Terminal(next)
	require.True(t, out.Over)
	require.Equal(t, 0, out.Winner)
	require.Equal(t, "all pieces captured", out.Reason)
}

func TestUnknownGameType(t *testing.T) {
	_, err := ForGame(GameType("go"))
	require.Error(t, err)
}
