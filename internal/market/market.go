// Package market implements the tradable instrument price process. Prices
// move once per completed round of turns, never per turn; event cards may
// additionally shift a single instrument.
package market

import (
	rand "math/rand/v2"
)

// DefaultSymbols is the fixed company set instruments are created from.
var DefaultSymbols = []string{"ALPHA", "BETA", "GAMMA", "DELTA", "OMEGA", "SIGMA", "TAU"}

const (
	// FloorPrice is the hard lower bound for any instrument price.
	FloorPrice = 5

	// HistoryCap bounds the per-instrument price history; the oldest sample
	// is evicted beyond this.
	HistoryCap = 40

	minStartPrice  = 60
	startPriceSpan = 240

	minVolatility  = 10
	volatilitySpan = 90

	// Synthesized instruments (a stock tile whose symbol is missing from the
	// market) start cheaper and calmer.
	synthMinPrice  = 80
	synthPriceSpan = 140
	synthVol       = 20
)

// Instrument is one tradable equity.
type Instrument struct {
	Symbol     string
	Price      int
	Volatility int
	History    []int
}

// Market holds every instrument for the lifetime of a game.
type Market struct {
	rng         *rand.Rand
	instruments map[string]*Instrument
	order       []string // creation order, for stable iteration
}

// New creates a market with one instrument per symbol, each with a random
// starting price in [60,300) and volatility in [10,100).
func New(rng *rand.Rand, symbols []string) *Market {
	m := &Market{
		rng:         rng,
		instruments: make(map[string]*Instrument, len(symbols)),
	}
	for _, sym := range symbols {
		m.add(&Instrument{
			Symbol:     sym,
			Price:      minStartPrice + rng.IntN(startPriceSpan),
			Volatility: minVolatility + rng.IntN(volatilitySpan),
		})
	}
	return m
}

func (m *Market) add(inst *Instrument) {
	inst.History = append(inst.History, inst.Price)
	m.instruments[inst.Symbol] = inst
	m.order = append(m.order, inst.Symbol)
}

// Quote returns the current price for a symbol.
func (m *Market) Quote(symbol string) (int, bool) {
	inst, ok := m.instruments[symbol]
	if !ok {
		return 0, false
	}
	return inst.Price, true
}

// Ensure returns the instrument for symbol, synthesizing one with a
// randomized starting price if a stock tile references a symbol the market
// does not know.
func (m *Market) Ensure(symbol string) *Instrument {
	if inst, ok := m.instruments[symbol]; ok {
		return inst
	}
	inst := &Instrument{
		Symbol:     symbol,
		Price:      synthMinPrice + m.rng.IntN(synthPriceSpan),
		Volatility: synthVol,
	}
	m.add(inst)
	return inst
}

// Instrument returns the instrument for symbol, or nil.
func (m *Market) Instrument(symbol string) *Instrument {
	return m.instruments[symbol]
}

// Symbols returns all known symbols in creation order.
func (m *Market) Symbols() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// AdvanceRound applies one round of price drift to every instrument: a
// uniform percentage move in [-8%,+8%) with a minimum magnitude of one unit,
// floored at FloorPrice. Runs exactly once per completed round of turns.
func (m *Market) AdvanceRound() {
	for _, sym := range m.order {
		inst := m.instruments[sym]
		pct := (m.rng.Float64()*16 - 8) / 100
		delta := int(float64(inst.Price) * pct)
		if delta == 0 {
			if pct < 0 {
				delta = -1
			} else {
				delta = 1
			}
		}
		m.setPrice(inst, inst.Price+delta)
	}
}

// Shift moves one instrument by delta (used by market event cards). The
// price never drops below FloorPrice.
func (m *Market) Shift(symbol string, delta int) int {
	inst, ok := m.instruments[symbol]
	if !ok {
		return 0
	}
	m.setPrice(inst, inst.Price+delta)
	return inst.Price
}

// RandomSymbol picks a uniformly random known symbol, or "" when the market
// is empty.
func (m *Market) RandomSymbol() string {
	if len(m.order) == 0 {
		return ""
	}
	return m.order[m.rng.IntN(len(m.order))]
}

func (m *Market) setPrice(inst *Instrument, price int) {
	if price < FloorPrice {
		price = FloorPrice
	}
	inst.Price = price
	inst.History = append(inst.History, price)
	if len(inst.History) > HistoryCap {
		inst.History = inst.History[len(inst.History)-HistoryCap:]
	}
}
