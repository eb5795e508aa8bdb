package game

import (
	"github.com/PythonSmall-Q/Monopoly/internal/board"
	"github.com/PythonSmall-Q/Monopoly/internal/market"
)

// Player is one participant's ledger. Cash may go negative; crossing the
// bankruptcy threshold removes the player from the game.
type Player struct {
	ID         int
	Name       string
	Cash       int
	Position   int
	Properties []int          // owned tile ids
	Stocks     map[string]int // symbol -> quantity
	Loan       int            // outstanding loan balance
	Automated  bool
}

// NewPlayer creates a player at the start tile with the given bankroll.
func NewPlayer(id int, name string, cash int, automated bool) *Player {
	return &Player{
		ID:        id,
		Name:      name,
		Cash:      cash,
		Stocks:    make(map[string]int),
		Automated: automated,
	}
}

// OwnsTile reports whether the tile id is in the player's holdings.
func (p *Player) OwnsTile(id int) bool {
	for _, t := range p.Properties {
		if t == id {
			return true
		}
	}
	return false
}

// HoldingsValue is the market value of the player's stock portfolio.
func HoldingsValue(p *Player, m *market.Market) int {
	total := 0
	for sym, qty := range p.Stocks {
		if price, ok := m.Quote(sym); ok {
			total += qty * price
		}
	}
	return total
}

// PropertyValue is the sum of recorded prices of the player's tiles.
func PropertyValue(p *Player, b *board.Board) int {
	total := 0
	for _, id := range p.Properties {
		total += b.Tile(id).Price
	}
	return total
}

// NetWorth is cash plus property value plus stock holdings value.
func NetWorth(p *Player, b *board.Board, m *market.Market) int {
	return p.Cash + PropertyValue(p, b) + HoldingsValue(p, m)
}

// PassiveIncome is the per-round payout from the player's businesses:
// floor(baseInvestment * rate) per business the player owns.
func PassiveIncome(p *Player, b *board.Board, rate float64) int {
	total := 0
	for _, id := range p.Properties {
		tile := b.Tile(id)
		if tile.Business != nil && tile.Business.Owner == p.ID {
			total += int(float64(tile.Business.Base) * rate)
		}
	}
	return total
}
