package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/PythonSmall-Q/Monopoly/internal/config"
	"github.com/PythonSmall-Q/Monopoly/internal/game"
)

// SimulateCmd plays every seat automatically with no pacing delays, for
// balance testing and demos.
type SimulateCmd struct {
	Config  string `kong:"default='monopoly.hcl',help='Path to the HCL config file'"`
	Players int    `kong:"default='0',help='Override the configured player count'"`
	Rounds  int    `kong:"default='30',help='Stop after this many rounds (0 = play to the timer)'"`
	Seed    int64  `kong:"help='Deterministic RNG seed'"`
	Export  string `kong:"help='Write the transaction log to this file as JSON'"`
	Debug   bool   `kong:"help='Enable debug logging'"`
}

func (c *SimulateCmd) Run() error {
	logger := setupLogger(c.Debug)

	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	if c.Players > 0 {
		cfg.Players = c.Players
	}
	if c.Seed != 0 {
		cfg.Seed = c.Seed
	}
	cfg.Automated = cfg.Players
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}

	opts := []game.Option{
		game.WithLogger(logger),
		game.WithPacing(0, 0),
	}
	if c.Rounds > 0 {
		opts = append(opts, game.WithMaxRounds(c.Rounds))
	}
	e := game.New(cfg, opts...)

	standings := e.Run(signalContext(logger))
	fmt.Println(renderStandings(standings))

	if c.Export != "" {
		f, err := os.Create(c.Export)
		if err != nil {
			return fmt.Errorf("failed to create export file: %w", err)
		}
		defer f.Close()
		if err := e.Transactions().Export(f); err != nil {
			return fmt.Errorf("failed to export transactions: %w", err)
		}
		logger.Info("transaction log exported", "path", c.Export, "records", e.Transactions().Len())
	}
	return nil
}

func renderStandings(standings []game.Standing) string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("#", "PLAYER", "CASH", "PROPERTY", "STOCKS", "LOAN", "NET WORTH")
	for _, s := range standings {
		name := s.Name
		if s.Bankrupt {
			name += " (bankrupt)"
		}
		t.Row(
			strconv.Itoa(s.Rank),
			name,
			strconv.Itoa(s.Cash),
			strconv.Itoa(s.Properties),
			strconv.Itoa(s.Holdings),
			strconv.Itoa(s.Loan),
			strconv.Itoa(s.NetWorth),
		)
	}
	return t.String()
}
