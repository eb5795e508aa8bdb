package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PythonSmall-Q/Monopoly/internal/randutil"
)

func TestGenerateBoard(t *testing.T) {
	rng := randutil.New(42)
	symbols := []string{"ALPHA", "BETA"}
	b := Generate(rng, 24, symbols)

	require.Equal(t, 24, b.Size())
	for i, tile := range b.Tiles {
		assert.Equal(t, i, tile.ID)
		assert.Equal(t, NoOwner, tile.Owner)
		assert.Nil(t, tile.Business)
		switch tile.Kind {
		case Property:
			assert.GreaterOrEqual(t, tile.Price, 300)
			assert.Less(t, tile.Price, 1500)
		case Stock:
			assert.Contains(t, symbols, tile.Symbol)
		case Event, Empty:
			assert.Zero(t, tile.Price)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a := Generate(randutil.New(7), 24, []string{"ALPHA"})
	b := Generate(randutil.New(7), 24, []string{"ALPHA"})
	for i := range a.Tiles {
		assert.Equal(t, *a.Tiles[i], *b.Tiles[i])
	}
}

func TestStockSymbolsCycle(t *testing.T) {
	// With one symbol, every stock tile references it.
	b := Generate(randutil.New(3), 64, []string{"OMEGA"})
	stocks := 0
	for _, tile := range b.Tiles {
		if tile.Kind == Stock {
			stocks++
			assert.Equal(t, "OMEGA", tile.Symbol)
		}
	}
	require.NotZero(t, stocks)
}

func TestStepWrapsForward(t *testing.T) {
	b := Generate(randutil.New(1), 8, nil)
	pos := 7
	pos = b.Step(pos, 1)
	assert.Equal(t, 0, pos)
}

func TestStepWrapsBackward(t *testing.T) {
	b := Generate(randutil.New(1), 8, nil)
	pos := 0
	pos = b.Step(pos, -1)
	assert.Equal(t, 7, pos)

	pos = 2
	for i := 0; i < 5; i++ {
		pos = b.Step(pos, -1)
	}
	assert.Equal(t, 5, pos)
}

func TestOwned(t *testing.T) {
	tile := &Tile{Owner: NoOwner}
	assert.False(t, tile.Owned())
	tile.Owner = 2
	assert.True(t, tile.Owned())
}
