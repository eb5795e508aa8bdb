package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 4, cfg.Players)
	assert.Equal(t, 3, cfg.Automated)
	assert.Equal(t, 24, cfg.BoardSize)
	assert.Equal(t, 3000, cfg.InitialCash)
	assert.Equal(t, 40*time.Minute, cfg.GameDuration())
	assert.Equal(t, 90*time.Second, cfg.TurnDuration())
	assert.Equal(t, 10*time.Second, cfg.AuctionBidTimeout())
	assert.InDelta(t, 0.05, cfg.PassiveIncomeRate, 0.0001)
	assert.InDelta(t, 0.06, cfg.InterestRate, 0.0001)
	require.NoError(t, cfg.Validate())
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFromHCL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.hcl")
	content := `
game {
  players      = 3
  automated    = 2
  board_size   = 16
  initial_cash = 5000
  game_minutes = 10
  turn_seconds = 30
  seed         = 99
}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Players)
	assert.Equal(t, 2, cfg.Automated)
	assert.Equal(t, 16, cfg.BoardSize)
	assert.Equal(t, 5000, cfg.InitialCash)
	assert.Equal(t, 10*time.Minute, cfg.GameDuration())
	assert.Equal(t, 30*time.Second, cfg.TurnDuration())
	assert.Equal(t, int64(99), cfg.Seed)

	// Unset fields pick up defaults.
	assert.Equal(t, 10*time.Second, cfg.AuctionBidTimeout())
	assert.InDelta(t, 0.05, cfg.PassiveIncomeRate, 0.0001)
	require.NoError(t, cfg.Validate())
}

func TestLoadRejectsBadHCL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.hcl")
	require.NoError(t, os.WriteFile(path, []byte("game {"), 0o644))
	_, err := Load(path)
	require.Error(t, err)
}

func TestApplyDefaultsClamps(t *testing.T) {
	cfg := Game{
		Players:                  9,
		Automated:                20,
		BoardSize:                3,
		TurnSeconds:              1,
		AuctionBidTimeoutSeconds: 1,
		PassiveIncomeRate:        7,
		InterestRate:             -2,
	}
	cfg.ApplyDefaults()
	assert.Equal(t, 4, cfg.Players)
	assert.Equal(t, 4, cfg.Automated)
	assert.Equal(t, 8, cfg.BoardSize)
	assert.Equal(t, 5, cfg.TurnSeconds)
	assert.Equal(t, 2, cfg.AuctionBidTimeoutSeconds)
	assert.InDelta(t, 1.0, cfg.PassiveIncomeRate, 0.0001)
	assert.InDelta(t, 0.0, cfg.InterestRate, 0.0001)
}

func TestValidateErrors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Game)
	}{
		{"too few players", func(g *Game) { g.Players = 1 }},
		{"automated exceeds players", func(g *Game) { g.Automated = 5 }},
		{"board too small", func(g *Game) { g.BoardSize = 4 }},
		{"no bankroll", func(g *Game) { g.InitialCash = 0 }},
		{"game too short", func(g *Game) { g.GameMinutes = 0 }},
		{"turn too short", func(g *Game) { g.TurnSeconds = 2 }},
		{"bid timeout too short", func(g *Game) { g.AuctionBidTimeoutSeconds = 1 }},
		{"bad passive rate", func(g *Game) { g.PassiveIncomeRate = 1.5 }},
		{"bad interest rate", func(g *Game) { g.InterestRate = -0.1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
