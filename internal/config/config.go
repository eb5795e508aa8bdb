// Package config loads and validates game configuration from HCL files.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// File is the top-level configuration file structure.
type File struct {
	Game Game `hcl:"game,block"`
}

// Game holds every tunable the engine accepts at game start.
type Game struct {
	Players                  int     `hcl:"players,optional"`
	Automated                int     `hcl:"automated,optional"`
	BoardSize                int     `hcl:"board_size,optional"`
	InitialCash              int     `hcl:"initial_cash,optional"`
	GameMinutes              int     `hcl:"game_minutes,optional"`
	TurnSeconds              int     `hcl:"turn_seconds,optional"`
	AuctionBidTimeoutSeconds int     `hcl:"auction_bid_timeout_seconds,optional"`
	PassiveIncomeRate        float64 `hcl:"passive_income_rate,optional"`
	InterestRate             float64 `hcl:"interest_rate,optional"`
	Seed                     int64   `hcl:"seed,optional"`
}

// Default returns the stock game configuration.
func Default() Game {
	return Game{
		Players:                  4,
		Automated:                3,
		BoardSize:                24,
		InitialCash:              3000,
		GameMinutes:              40,
		TurnSeconds:              90,
		AuctionBidTimeoutSeconds: 10,
		PassiveIncomeRate:        0.05,
		InterestRate:             0.06,
	}
}

// Load reads a game configuration from an HCL file. A missing file yields
// the defaults, matching how the server treats absent config.
func Load(filename string) (Game, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return Game{}, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var f File
	diags = gohcl.DecodeBody(file.Body, nil, &f)
	if diags.HasErrors() {
		return Game{}, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	cfg := f.Game
	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyDefaults fills zero values with defaults and clamps everything to the
// engine's sane bounds.
func (g *Game) ApplyDefaults() {
	def := Default()
	if g.Players == 0 {
		g.Players = def.Players
	}
	if g.BoardSize == 0 {
		g.BoardSize = def.BoardSize
	}
	if g.InitialCash == 0 {
		g.InitialCash = def.InitialCash
	}
	if g.GameMinutes == 0 {
		g.GameMinutes = def.GameMinutes
	}
	if g.TurnSeconds == 0 {
		g.TurnSeconds = def.TurnSeconds
	}
	if g.AuctionBidTimeoutSeconds == 0 {
		g.AuctionBidTimeoutSeconds = def.AuctionBidTimeoutSeconds
	}
	if g.PassiveIncomeRate == 0 {
		g.PassiveIncomeRate = def.PassiveIncomeRate
	}
	if g.InterestRate == 0 {
		g.InterestRate = def.InterestRate
	}

	g.Players = clamp(g.Players, 2, 4)
	if g.Automated < 0 {
		g.Automated = 0
	}
	if g.Automated > g.Players {
		g.Automated = g.Players
	}
	if g.BoardSize < 8 {
		g.BoardSize = 8
	}
	if g.GameMinutes < 1 {
		g.GameMinutes = 1
	}
	if g.TurnSeconds < 5 {
		g.TurnSeconds = 5
	}
	if g.AuctionBidTimeoutSeconds < 2 {
		g.AuctionBidTimeoutSeconds = 2
	}
	g.PassiveIncomeRate = clampFloat(g.PassiveIncomeRate, 0, 1)
	g.InterestRate = clampFloat(g.InterestRate, 0, 1)
}

// Validate reports the first configuration value outside its allowed range.
func (g *Game) Validate() error {
	if g.Players < 2 || g.Players > 4 {
		return fmt.Errorf("players must be between 2 and 4, got %d", g.Players)
	}
	if g.Automated < 0 || g.Automated > g.Players {
		return fmt.Errorf("automated must be between 0 and %d, got %d", g.Players, g.Automated)
	}
	if g.BoardSize < 8 {
		return fmt.Errorf("board_size must be at least 8, got %d", g.BoardSize)
	}
	if g.InitialCash <= 0 {
		return fmt.Errorf("initial_cash must be positive, got %d", g.InitialCash)
	}
	if g.GameDuration() < time.Minute {
		return fmt.Errorf("game duration must be at least 60s, got %s", g.GameDuration())
	}
	if g.TurnSeconds < 5 {
		return fmt.Errorf("turn_seconds must be at least 5, got %d", g.TurnSeconds)
	}
	if g.AuctionBidTimeoutSeconds < 2 {
		return fmt.Errorf("auction_bid_timeout_seconds must be at least 2, got %d", g.AuctionBidTimeoutSeconds)
	}
	if g.PassiveIncomeRate < 0 || g.PassiveIncomeRate > 1 {
		return fmt.Errorf("passive_income_rate must be in [0,1], got %v", g.PassiveIncomeRate)
	}
	if g.InterestRate < 0 || g.InterestRate > 1 {
		return fmt.Errorf("interest_rate must be in [0,1], got %v", g.InterestRate)
	}
	return nil
}

// GameDuration returns the whole-game countdown duration.
func (g *Game) GameDuration() time.Duration {
	return time.Duration(g.GameMinutes) * time.Minute
}

// TurnDuration returns the per-turn countdown duration.
func (g *Game) TurnDuration() time.Duration {
	return time.Duration(g.TurnSeconds) * time.Second
}

// AuctionBidTimeout returns how long a human bidder may deliberate.
func (g *Game) AuctionBidTimeout() time.Duration {
	return time.Duration(g.AuctionBidTimeoutSeconds) * time.Second
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
