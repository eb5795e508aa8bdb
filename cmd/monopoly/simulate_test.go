package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/PythonSmall-Q/Monopoly/internal/game"
)

func TestRenderStandings(t *testing.T) {
	out := renderStandings([]game.Standing{
		{Rank: 1, Name: "Bot 2", Cash: 4100, Properties: 900, Holdings: 300, NetWorth: 5300},
		{Rank: 2, Name: "Player 1", Cash: 2000, NetWorth: 2000},
		{Rank: 3, Name: "Bot 1", Cash: -1200, NetWorth: -1200, Bankrupt: true},
	})

	assert.Contains(t, out, "NET WORTH")
	assert.Contains(t, out, "Bot 2")
	assert.Contains(t, out, "5300")
	assert.Contains(t, out, "Player 1")
	assert.Contains(t, out, "Bot 1 (bankrupt)")
}
