package game

import (
	"fmt"

	"github.com/PythonSmall-Q/Monopoly/internal/board"
)

// AuctionState is the phase of the sequential bidding protocol.
type AuctionState int

const (
	AuctionNotStarted AuctionState = iota
	AuctionBidding
	AuctionResolved
)

func (s AuctionState) String() string {
	return [...]string{"not_started", "bidding", "resolved"}[s]
}

// NoBidder marks the absence of a highest bidder.
const NoBidder = -1

// Bid is one player's standing offer.
type Bid struct {
	PlayerID int
	Amount   int
}

// AuctionEntry is one line of the auction history.
type AuctionEntry struct {
	PlayerID int
	Player   string
	Action   string // "bid N", "pass" or "timeout-pass"
}

// Auction is the bidding state machine for a single unowned property.
// Players are visited in fixed rotation, skipping anyone who passed; it is
// stepped externally so the protocol can be tested without timers.
type Auction struct {
	TileID     int
	StartPrice int
	State      AuctionState
	Highest    Bid
	Passed     map[int]bool
	History    []AuctionEntry
	Winner     *Bid

	order []int
	idx   int
}

// NewAuction creates an auction over tile for the given bidder rotation.
// The start price is half the tile's recorded price, floored at 5; the
// initial highest bid sits one below it so the first valid bid must reach
// the start price.
func NewAuction(tile *board.Tile, order []int) *Auction {
	start := tile.Price / 2
	if start < 5 {
		start = 5
	}
	bidders := make([]int, len(order))
	copy(bidders, order)
	return &Auction{
		TileID:     tile.ID,
		StartPrice: start,
		State:      AuctionNotStarted,
		Highest:    Bid{PlayerID: NoBidder, Amount: start - 1},
		Passed:     make(map[int]bool),
		order:      bidders,
	}
}

// Start moves the auction into the bidding phase.
func (a *Auction) Start() {
	if a.State == AuctionNotStarted {
		a.State = AuctionBidding
		a.resolveIfDone()
	}
}

// ActiveBidders counts players who have not passed.
func (a *Auction) ActiveBidders() int {
	return len(a.order) - len(a.Passed)
}

// CurrentBidder returns the player whose bid turn it is, advancing past
// anyone who already passed. Returns NoBidder once resolved.
func (a *Auction) CurrentBidder() int {
	if a.State != AuctionBidding {
		return NoBidder
	}
	for i := 0; i < len(a.order); i++ {
		pid := a.order[a.idx]
		if !a.Passed[pid] {
			return pid
		}
		a.idx = (a.idx + 1) % len(a.order)
	}
	return NoBidder
}

// PlaceBid records a bid for the current bidder. The amount must exceed the
// current highest bid.
func (a *Auction) PlaceBid(pid int, name string, amount int) error {
	if a.State != AuctionBidding {
		return fmt.Errorf("auction is %s, not accepting bids", a.State)
	}
	if amount <= a.Highest.Amount {
		return ErrStaleBid
	}
	a.Highest = Bid{PlayerID: pid, Amount: amount}
	a.History = append(a.History, AuctionEntry{PlayerID: pid, Player: name, Action: fmt.Sprintf("bid %d", amount)})
	a.advance()
	return nil
}

// Pass marks the current bidder as out of the auction.
func (a *Auction) Pass(pid int, name string, timedOut bool) {
	if a.State != AuctionBidding {
		return
	}
	a.Passed[pid] = true
	action := "pass"
	if timedOut {
		action = "timeout-pass"
	}
	a.History = append(a.History, AuctionEntry{PlayerID: pid, Player: name, Action: action})
	a.advance()
}

// Sold reports whether a valid winning bid was reached.
func (a *Auction) Sold() bool {
	return a.Highest.PlayerID != NoBidder && a.Highest.Amount >= a.StartPrice
}

func (a *Auction) advance() {
	a.idx = (a.idx + 1) % len(a.order)
	a.resolveIfDone()
}

// resolveIfDone resolves the auction once at most one active bidder remains.
func (a *Auction) resolveIfDone() {
	if a.State == AuctionBidding && a.ActiveBidders() <= 1 {
		a.State = AuctionResolved
		if a.Sold() {
			winner := a.Highest
			a.Winner = &winner
		}
	}
}
