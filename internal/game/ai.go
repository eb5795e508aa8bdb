package game

import (
	"math"
	"time"

	rand "math/rand/v2"

	"github.com/PythonSmall-Q/Monopoly/internal/board"
	"github.com/PythonSmall-Q/Monopoly/internal/market"
)

// PolicyView is the read-only game snapshot automated decisions are made
// against. Policies never mutate anything reachable from it.
type PolicyView struct {
	Board             *board.Board
	Market            *market.Market
	InterestRate      float64
	PassiveIncomeRate float64
	TimeLeft          time.Duration
	TurnSeconds       int
	PlayerCount       int
}

// Policy holds the decision heuristics that substitute for a human player.
// All methods are side-effect-free; with a fixed RNG state the same inputs
// produce the same decisions.
type Policy struct {
	rng *rand.Rand
}

// NewPolicy creates a policy drawing randomness from rng.
func NewPolicy(rng *rand.Rand) *Policy {
	return &Policy{rng: rng}
}

// ShouldBuy decides whether an automated player buys an unowned property
// outright. Cheap tiles are always bought; otherwise the decision weighs net
// worth, cash reserves and loan burden, falling back to a 25% flyer.
func (ai *Policy) ShouldBuy(v PolicyView, p *Player, tile *board.Tile) bool {
	if p.Cash < tile.Price {
		return false
	}
	if tile.Price <= 600 {
		return true
	}
	net := NetWorth(p, v.Board, v.Market)
	if float64(net) > float64(tile.Price)*1.2 && float64(p.Cash) > float64(tile.Price)*0.6 {
		return true
	}
	if float64(p.Loan) > float64(p.Cash)*1.2 {
		return false
	}
	return ai.rng.Float64() < 0.25
}

// MaxBid is the ceiling an automated player will bid for a tile: cash minus
// a reserve of max(200, 20% of cash), further capped at price+600 for cheap
// lots.
func (ai *Policy) MaxBid(p *Player, tile *board.Tile) int {
	reserve := int(float64(p.Cash) * 0.2)
	if reserve < 200 {
		reserve = 200
	}
	limit := p.Cash - reserve
	if limit < 0 {
		limit = 0
	}
	if tile.Price < 500 && limit > tile.Price+600 {
		limit = tile.Price + 600
	}
	return limit
}

// MakeBid returns the automated player's next bid, or false to pass. Raises
// are a randomized fraction of the gap to the bid ceiling, shrinking as the
// ceiling approaches.
func (ai *Policy) MakeBid(p *Player, tile *board.Tile, currentHighest int) (int, bool) {
	ceiling := ai.MaxBid(p, tile)
	if ceiling <= currentHighest {
		return 0, false
	}
	gap := (ceiling - currentHighest) / 6
	if gap < 1 {
		gap = 1
	}
	raise := int(float64(gap) * (1 + ai.rng.Float64()*2))
	if raise < 5 {
		raise = 5
	}
	next := currentHighest + raise
	if next > ceiling {
		return 0, false
	}
	return next, true
}

// TradeOrders is the automated reaction to landing on a stock tile: take
// profit when the price runs well ahead of its recent average, otherwise
// occasionally accumulate with spare cash.
func (ai *Policy) TradeOrders(p *Player, inst *market.Instrument) []TradeOrder {
	held := p.Stocks[inst.Symbol]
	if held > 0 && len(inst.History) >= 5 {
		recent := inst.History[len(inst.History)-5:]
		sum := 0
		for _, v := range recent {
			sum += v
		}
		avg := float64(sum) / float64(len(recent))
		if float64(inst.Price) > avg*1.15 {
			return []TradeOrder{{Side: TradeSell, Symbol: inst.Symbol, Quantity: held}}
		}
	}
	if inst.Price > 0 && p.Cash > inst.Price*4 && ai.rng.Float64() < 0.4 {
		qty := p.Cash / (inst.Price * 4)
		if qty > 5 {
			qty = 5
		}
		if qty > 0 {
			return []TradeOrder{{Side: TradeBuy, Symbol: inst.Symbol, Quantity: qty}}
		}
	}
	return nil
}

// LoanDecision decides whether an automated player accepts a loan offer. It
// projects the compounded obligation over the estimated remaining rounds and
// compares it against expected income from businesses, rent and dividends.
func (ai *Policy) LoanDecision(v PolicyView, p *Player, offer int) bool {
	net := p.Cash + PropertyValue(p, v.Board)
	currentLoan := p.Loan

	turnSec := v.TurnSeconds
	if turnSec <= 0 {
		turnSec = 90
	}
	playerCount := v.PlayerCount
	if playerCount < 1 {
		playerCount = 1
	}
	remainingRounds := int(v.TimeLeft.Seconds()) / (turnSec * playerCount)
	if remainingRounds < 1 {
		remainingRounds = 1
	}

	rate := v.InterestRate
	if rate <= 0 {
		rate = DefaultInterestRate
	}
	compounded := int(math.Ceil(float64(offer) * math.Pow(1+rate, float64(remainingRounds))))
	totalFutureObligation := compounded + currentLoan

	expectedIncome := 0
	for _, id := range p.Properties {
		tile := v.Board.Tile(id)
		if tile.Business != nil && tile.Business.Owner == p.ID {
			expectedIncome += int(float64(tile.Business.Base)*v.PassiveIncomeRate) * remainingRounds
		}
		// Rough rent stream: 8% of price with a 60% collection chance per round.
		expectedIncome += int(float64(tile.Price) * 0.08 * 0.6 * float64(remainingRounds))
	}
	for sym, qty := range p.Stocks {
		if price, ok := v.Market.Quote(sym); ok {
			expectedIncome += int(float64(price) * 0.01 * float64(qty) * float64(remainingRounds))
		}
	}

	if float64(currentLoan) > float64(p.Cash)*0.9 {
		return false
	}

	lowCash := float64(p.Cash) < math.Max(200, float64(offer)*0.3)
	if lowCash && float64(p.Cash+expectedIncome+net) > float64(totalFutureObligation)*1.2 {
		return true
	}

	if float64(offer) < float64(net)*0.2 && float64(expectedIncome) > float64(compounded-offer)*0.3 {
		return ai.rng.Float64() < 0.45
	}

	return false
}
