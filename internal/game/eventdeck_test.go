package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PythonSmall-Q/Monopoly/internal/randutil"
)

func TestDrawEventIsFromDeck(t *testing.T) {
	rng := randutil.New(21)
	for i := 0; i < 100; i++ {
		card := DrawEvent(rng)
		assert.Contains(t, eventDeck, card)
	}
}

func TestDeckCoversEveryKind(t *testing.T) {
	seen := make(map[EventKind]bool)
	for _, card := range eventDeck {
		seen[card.Kind] = true
		assert.NotEmpty(t, card.Text)
	}
	kinds := []EventKind{
		EventGain, EventLose, EventMove, EventMoveRandom,
		EventMarketUp, EventMarketDown, EventDividend, EventBusinessBonus,
		EventWindfall, EventTax, EventLoanOffer, EventBankAudit,
	}
	for _, k := range kinds {
		assert.True(t, seen[k], "deck is missing %s", k)
	}
}

func TestDeckNeverDepletes(t *testing.T) {
	rng := randutil.New(3)
	size := len(eventDeck)
	for i := 0; i < size*3; i++ {
		DrawEvent(rng)
	}
	require.Len(t, eventDeck, size)
}

func TestEventKindStrings(t *testing.T) {
	assert.Equal(t, "gain", EventGain.String())
	assert.Equal(t, "move_random", EventMoveRandom.String())
	assert.Equal(t, "bank_audit", EventBankAudit.String())
}
