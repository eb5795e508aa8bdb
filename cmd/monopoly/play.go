package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/PythonSmall-Q/Monopoly/internal/board"
	"github.com/PythonSmall-Q/Monopoly/internal/config"
	"github.com/PythonSmall-Q/Monopoly/internal/game"
)

// PlayCmd runs an interactive game with one human seat against bots.
type PlayCmd struct {
	Config string `kong:"default='monopoly.hcl',help='Path to the HCL config file'"`
	Seed   int64  `kong:"help='Deterministic RNG seed'"`
	Debug  bool   `kong:"help='Enable debug logging'"`
}

func (c *PlayCmd) Run() error {
	logger := setupLogger(c.Debug)

	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	if c.Seed != 0 {
		cfg.Seed = c.Seed
	}
	cfg.Automated = cfg.Players - 1
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}

	prompter := NewConsolePrompter(os.Stdin, os.Stdout)
	e := game.New(cfg,
		game.WithLogger(logger),
		game.WithPrompter(prompter),
	)

	standings := e.Run(signalContext(logger))
	fmt.Println(renderStandings(standings))
	return nil
}

// ConsolePrompter collects human decisions from a terminal. Reads block on
// stdin; the engine enforces every deadline, so an abandoned prompt simply
// loses the race and its answer is discarded.
type ConsolePrompter struct {
	mu  sync.Mutex
	in  *bufio.Scanner
	out io.Writer

	promptStyle lipgloss.Style
	infoStyle   lipgloss.Style
}

// NewConsolePrompter creates a prompter over the given streams.
func NewConsolePrompter(in io.Reader, out io.Writer) *ConsolePrompter {
	return &ConsolePrompter{
		in:          bufio.NewScanner(in),
		out:         out,
		promptStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("36")),
		infoStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

func (c *ConsolePrompter) RequestRoll(ctx context.Context, p *game.Player) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.printf(c.promptStyle, "%s: press enter to roll", p.Name)
	c.readLine()
	return true
}

func (c *ConsolePrompter) RequestPurchaseDecision(ctx context.Context, p *game.Player, tile *board.Tile) game.PurchaseChoice {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.printf(c.infoStyle, "%s is unowned, price %d (you have %d)", tile.Name, tile.Price, p.Cash)
	c.printf(c.promptStyle, "[b]uy, [i]nvest as a business, anything else declines and starts an auction")
	switch strings.ToLower(strings.TrimSpace(c.readLine())) {
	case "b", "buy":
		return game.PurchaseBuy
	case "i", "invest":
		return game.PurchaseInvest
	default:
		return game.PurchaseDecline
	}
}

func (c *ConsolePrompter) RequestAuctionBid(ctx context.Context, p *game.Player, tile *board.Tile, currentHighest int, timeout time.Duration) game.BidResponse {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.printf(c.promptStyle, "auction for %s: bid above %d (you have %d, %s to decide) or [p]ass", tile.Name, currentHighest, p.Cash, timeout)
	line := strings.TrimSpace(c.readLine())
	if line == "" || strings.EqualFold(line, "p") || strings.EqualFold(line, "pass") {
		return game.BidResponse{Pass: true}
	}
	amount, err := strconv.Atoi(line)
	if err != nil {
		c.printf(c.infoStyle, "didn't catch that, passing")
		return game.BidResponse{Pass: true}
	}
	return game.BidResponse{Amount: amount}
}

func (c *ConsolePrompter) RequestEventAck(ctx context.Context, p *game.Player, card game.EventCard) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.printf(c.infoStyle, "event: %s", card.Text)
	c.printf(c.promptStyle, "press enter to continue")
	c.readLine()
}

func (c *ConsolePrompter) RequestLoanDecision(ctx context.Context, p *game.Player, offer int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.printf(c.promptStyle, "the bank offers you a loan of %d (current loan %d). accept? [y/N]", offer, p.Loan)
	answer := strings.ToLower(strings.TrimSpace(c.readLine()))
	return answer == "y" || answer == "yes"
}

func (c *ConsolePrompter) RequestTradeActions(ctx context.Context, p *game.Player, quotes []game.Quote) []game.TradeOrder {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.printf(c.infoStyle, "market (you have %d cash):", p.Cash)
	for _, q := range quotes {
		held := ""
		if q.Held > 0 {
			held = fmt.Sprintf("  (holding %d)", q.Held)
		}
		c.printf(c.infoStyle, "  %-6s %5d%s", q.Symbol, q.Price, held)
	}

	var orders []game.TradeOrder
	for {
		c.printf(c.promptStyle, "enter 'buy SYM QTY', 'sell SYM QTY' or 'done'")
		fields := strings.Fields(strings.ToLower(c.readLine()))
		if len(fields) == 0 || fields[0] == "done" || fields[0] == "d" {
			return orders
		}
		if len(fields) != 3 {
			c.printf(c.infoStyle, "didn't catch that")
			continue
		}
		qty, err := strconv.Atoi(fields[2])
		if err != nil || qty <= 0 {
			c.printf(c.infoStyle, "quantity must be a positive number")
			continue
		}
		side := game.TradeBuy
		if fields[0] == "sell" || fields[0] == "s" {
			side = game.TradeSell
		}
		orders = append(orders, game.TradeOrder{
			Side:     side,
			Symbol:   strings.ToUpper(fields[1]),
			Quantity: qty,
		})
	}
}

func (c *ConsolePrompter) printf(style lipgloss.Style, format string, args ...interface{}) {
	fmt.Fprintln(c.out, style.Render(fmt.Sprintf(format, args...)))
}

func (c *ConsolePrompter) readLine() string {
	if c.in.Scan() {
		return c.in.Text()
	}
	return ""
}
