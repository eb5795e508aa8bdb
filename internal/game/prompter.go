package game

import (
	"context"
	"time"

	"github.com/PythonSmall-Q/Monopoly/internal/board"
)

// PurchaseChoice is a player's answer to an unowned-property prompt.
type PurchaseChoice int

const (
	PurchaseDecline PurchaseChoice = iota
	PurchaseBuy
	PurchaseInvest
)

func (c PurchaseChoice) String() string {
	return [...]string{"decline", "buy", "invest"}[c]
}

// BidResponse is a player's answer to an auction bid prompt.
type BidResponse struct {
	Amount   int
	Pass     bool
	TimedOut bool
}

// TradeSide distinguishes buys from sells.
type TradeSide int

const (
	TradeBuy TradeSide = iota
	TradeSell
)

func (s TradeSide) String() string {
	return [...]string{"buy", "sell"}[s]
}

// TradeOrder is one instruction from a trading session.
type TradeOrder struct {
	Side     TradeSide
	Symbol   string
	Quantity int
}

// Quote is a market snapshot row handed to the trade prompt.
type Quote struct {
	Symbol string
	Price  int
	Held   int
}

// Prompter is the synchronous request/response surface the engine uses to
// talk to the presentation layer. Each call blocks the engine until the
// player answers; the engine races auction bids against the configured
// timeout and everything else against game end. Automated players never
// reach the prompter.
type Prompter interface {
	// RequestRoll asks the player to take their turn. Returning false
	// forfeits the turn. Raced against the per-turn timer by the engine.
	RequestRoll(ctx context.Context, p *Player) bool

	// RequestPurchaseDecision offers an unowned property: buy it, invest it
	// into a business, or decline (which triggers an auction).
	RequestPurchaseDecision(ctx context.Context, p *Player, tile *board.Tile) PurchaseChoice

	// RequestAuctionBid asks for a bid above currentHighest. The timeout is
	// advisory for display; the engine enforces it.
	RequestAuctionBid(ctx context.Context, p *Player, tile *board.Tile, currentHighest int, timeout time.Duration) BidResponse

	// RequestEventAck shows a drawn event card; the effect applies after
	// acknowledgment.
	RequestEventAck(ctx context.Context, p *Player, card EventCard)

	// RequestLoanDecision offers a bank loan; true accepts.
	RequestLoanDecision(ctx context.Context, p *Player, offer int) bool

	// RequestTradeActions opens a trading session for the landing player.
	RequestTradeActions(ctx context.Context, p *Player, quotes []Quote) []TradeOrder
}

// NullPrompter declines or acknowledges everything. Used for automated-only
// games and as a safe default.
type NullPrompter struct{}

func (NullPrompter) RequestRoll(context.Context, *Player) bool { return true }

func (NullPrompter) RequestPurchaseDecision(context.Context, *Player, *board.Tile) PurchaseChoice {
	return PurchaseDecline
}

func (NullPrompter) RequestAuctionBid(context.Context, *Player, *board.Tile, int, time.Duration) BidResponse {
	return BidResponse{Pass: true}
}

func (NullPrompter) RequestEventAck(context.Context, *Player, EventCard) {}

func (NullPrompter) RequestLoanDecision(context.Context, *Player, int) bool { return false }

func (NullPrompter) RequestTradeActions(context.Context, *Player, []Quote) []TradeOrder {
	return nil
}
