package game

import (
	"context"
	"fmt"

	"github.com/PythonSmall-Q/Monopoly/internal/board"
)

var businessKinds = []string{"bakery", "workshop", "teahouse", "arcade", "depot"}

// resolveLanding applies the effect of the tile the player stopped on.
// Called once per movement, after the final step.
func (e *Engine) resolveLanding(ctx context.Context, p *Player) {
	tile := e.board.Tile(p.Position)
	switch tile.Kind {
	case board.Property:
		e.resolveProperty(ctx, p, tile)
	case board.Event:
		e.resolveEvent(ctx, p)
	case board.Stock:
		e.resolveStock(ctx, p, tile)
	default:
		e.logger.Debug("empty tile", "player", p.Name, "tile", tile.ID)
	}
}

func (e *Engine) resolveProperty(ctx context.Context, p *Player, tile *board.Tile) {
	switch {
	case !tile.Owned():
		e.resolveUnownedProperty(ctx, p, tile)
	case tile.Owner != p.ID:
		e.chargeRent(p, tile)
	default:
		e.announce(fmt.Sprintf("%s is back on their own plot, %s.", p.Name, tile.Name))
	}
}

func (e *Engine) resolveUnownedProperty(ctx context.Context, p *Player, tile *board.Tile) {
	if p.Automated {
		if e.policy.ShouldBuy(e.policyView(), p, tile) {
			e.buyProperty(p, tile)
		} else {
			e.announce(fmt.Sprintf("%s declines %s.", p.Name, tile.Name))
			e.runAuction(ctx, tile)
		}
		return
	}

	choice := prompt(e, ctx, PurchaseDecline, func(c context.Context) PurchaseChoice {
		return e.prompter.RequestPurchaseDecision(c, p, tile)
	})
	switch choice {
	case PurchaseBuy:
		if p.Cash < tile.Price {
			e.announce(fmt.Sprintf("%s cannot afford %s at %d.", p.Name, tile.Name, tile.Price))
			return
		}
		e.buyProperty(p, tile)
	case PurchaseInvest:
		if p.Cash < tile.Price {
			e.announce(fmt.Sprintf("%s cannot afford to invest in %s at %d.", p.Name, tile.Name, tile.Price))
			return
		}
		e.investProperty(p, tile)
	default:
		e.announce(fmt.Sprintf("%s declines %s.", p.Name, tile.Name))
		e.runAuction(ctx, tile)
	}
}

func (e *Engine) buyProperty(p *Player, tile *board.Tile) {
	p.Cash -= tile.Price
	tile.Owner = p.ID
	p.Properties = append(p.Properties, tile.ID)
	e.tx.Add(Record{
		Kind:        TxBuy,
		Description: fmt.Sprintf("%s buys %s for %d", p.Name, tile.Name, tile.Price),
		PlayerID:    intPtr(p.ID),
		TileID:      intPtr(tile.ID),
		Amount:      intPtr(tile.Price),
	})
	e.announce(fmt.Sprintf("%s buys %s for %d.", p.Name, tile.Name, tile.Price))
	e.bus.Publish(NewRefreshEvent(e.clock.Now(), RefreshBoard))
	e.bus.Publish(NewRefreshEvent(e.clock.Now(), RefreshPlayers))
}

// investProperty buys the tile and opens a business on it in one move. The
// business pays passive income every round instead of one-off rent windfalls.
func (e *Engine) investProperty(p *Player, tile *board.Tile) {
	kind := businessKinds[e.rng.IntN(len(businessKinds))]
	p.Cash -= tile.Price
	tile.Owner = p.ID
	tile.Business = &board.Business{Owner: p.ID, Base: tile.Price, Kind: kind}
	p.Properties = append(p.Properties, tile.ID)
	e.tx.Add(Record{
		Kind:        TxInvest,
		Description: fmt.Sprintf("%s opens a %s on %s for %d", p.Name, kind, tile.Name, tile.Price),
		PlayerID:    intPtr(p.ID),
		TileID:      intPtr(tile.ID),
		Amount:      intPtr(tile.Price),
	})
	e.announce(fmt.Sprintf("%s opens a %s on %s for %d.", p.Name, kind, tile.Name, tile.Price))
	e.bus.Publish(NewRefreshEvent(e.clock.Now(), RefreshBoard))
	e.bus.Publish(NewRefreshEvent(e.clock.Now(), RefreshPlayers))
}

// chargeRent moves 12% of the tile's recorded price from the visitor to the
// owner. Rent can push the payer negative; bankruptcy is checked after the
// whole landing resolves.
func (e *Engine) chargeRent(p *Player, tile *board.Tile) {
	owner := e.player(tile.Owner)
	if owner == nil {
		return
	}
	rent := tile.Price * 12 / 100
	p.Cash -= rent
	owner.Cash += rent
	e.tx.Add(Record{
		Kind:        TxRent,
		Description: fmt.Sprintf("%s pays %d rent to %s for %s", p.Name, rent, owner.Name, tile.Name),
		PlayerID:    intPtr(p.ID),
		TileID:      intPtr(tile.ID),
		Amount:      intPtr(rent),
	})
	e.announce(fmt.Sprintf("%s pays %d rent to %s for %s.", p.Name, rent, owner.Name, tile.Name))
	e.bus.Publish(NewRefreshEvent(e.clock.Now(), RefreshPlayers))
}

// runAuction auctions the declined tile to every active player in roster
// order, decliner included. The turn timer pauses for the duration.
func (e *Engine) runAuction(ctx context.Context, tile *board.Tile) {
	e.turnTimer.Pause()
	defer e.turnTimer.Resume()

	order := make([]int, 0, len(e.players))
	for _, p := range e.players {
		order = append(order, p.ID)
	}
	a := NewAuction(tile, order)
	e.currentAuction = a
	e.announce(fmt.Sprintf("%s goes to auction, bidding opens at %d.", tile.Name, a.StartPrice))
	a.Start()

	for a.State == AuctionBidding && !e.over() && ctx.Err() == nil {
		pid := a.CurrentBidder()
		p := e.player(pid)
		if p == nil {
			a.Pass(pid, "unknown", false)
			continue
		}
		if p.Automated {
			e.sleep(ctx, e.decisionDelay)
			amount, ok := e.policy.MakeBid(p, tile, a.Highest.Amount)
			if ok && amount <= p.Cash {
				if err := a.PlaceBid(p.ID, p.Name, amount); err == nil {
					e.recordBid(tile, p, amount)
				}
			} else {
				a.Pass(p.ID, p.Name, false)
				e.announce(fmt.Sprintf("%s passes.", p.Name))
			}
			continue
		}
		e.humanBid(ctx, a, tile, p)
	}

	e.mu.Lock()
	e.lastAuction = a
	e.currentAuction = nil
	e.mu.Unlock()
	e.finishAuction(tile, a)
}

// humanBid collects one bidder-turn from a human, re-prompting on invalid
// amounts until the per-bid deadline runs out.
func (e *Engine) humanBid(ctx context.Context, a *Auction, tile *board.Tile, p *Player) {
	timeout := e.cfg.AuctionBidTimeout()
	deadline := e.clock.NewTimer(timeout)
	defer deadline.Stop()
	for {
		respCh := make(chan BidResponse, 1)
		go func() { respCh <- e.prompter.RequestAuctionBid(ctx, p, tile, a.Highest.Amount, timeout) }()
		var resp BidResponse
		select {
		case resp = <-respCh:
		case <-deadline.C:
			resp = BidResponse{TimedOut: true}
		case <-e.gameOver:
			resp = BidResponse{Pass: true}
		case <-ctx.Done():
			resp = BidResponse{Pass: true}
		}
		switch {
		case resp.TimedOut:
			a.Pass(p.ID, p.Name, true)
			e.announce(fmt.Sprintf("%s took too long and is out of the auction.", p.Name))
			return
		case resp.Pass:
			a.Pass(p.ID, p.Name, false)
			e.announce(fmt.Sprintf("%s passes.", p.Name))
			return
		case resp.Amount > p.Cash:
			e.announce(fmt.Sprintf("%s cannot cover a bid of %d.", p.Name, resp.Amount))
		default:
			if err := a.PlaceBid(p.ID, p.Name, resp.Amount); err != nil {
				e.announce(fmt.Sprintf("Bid of %d rejected; it must beat %d.", resp.Amount, a.Highest.Amount))
				continue
			}
			e.recordBid(tile, p, resp.Amount)
			return
		}
	}
}

func (e *Engine) recordBid(tile *board.Tile, p *Player, amount int) {
	e.tx.Add(Record{
		Kind:        TxAuctionBid,
		Description: fmt.Sprintf("%s bids %d for %s", p.Name, amount, tile.Name),
		PlayerID:    intPtr(p.ID),
		TileID:      intPtr(tile.ID),
		Amount:      intPtr(amount),
	})
	e.announce(fmt.Sprintf("%s bids %d for %s.", p.Name, amount, tile.Name))
}

// finishAuction settles a resolved auction: the winner pays their bid and
// the tile's recorded price becomes that bid.
func (e *Engine) finishAuction(tile *board.Tile, a *Auction) {
	if a.Sold() {
		winner := e.player(a.Highest.PlayerID)
		winner.Cash -= a.Highest.Amount
		tile.Owner = winner.ID
		tile.Price = a.Highest.Amount
		winner.Properties = append(winner.Properties, tile.ID)
		e.tx.Add(Record{
			Kind:        TxAuctionWin,
			Description: fmt.Sprintf("%s wins %s at auction for %d", winner.Name, tile.Name, a.Highest.Amount),
			PlayerID:    intPtr(winner.ID),
			TileID:      intPtr(tile.ID),
			Amount:      intPtr(a.Highest.Amount),
		})
		e.announce(fmt.Sprintf("%s wins %s at auction for %d.", winner.Name, tile.Name, a.Highest.Amount))
		e.bus.Publish(NewAuctionResolvedEvent(e.clock.Now(), tile.ID, true, a.Highest))
	} else {
		e.tx.Add(Record{
			Kind:        TxAuctionNoSale,
			Description: fmt.Sprintf("%s drew no valid bids", tile.Name),
			TileID:      intPtr(tile.ID),
		})
		e.announce(fmt.Sprintf("No takers for %s; it stays with the bank.", tile.Name))
		e.bus.Publish(NewAuctionResolvedEvent(e.clock.Now(), tile.ID, false, Bid{PlayerID: NoBidder}))
	}
	e.bus.Publish(NewRefreshEvent(e.clock.Now(), RefreshBoard))
	e.bus.Publish(NewRefreshEvent(e.clock.Now(), RefreshPlayers))
}

func (e *Engine) resolveEvent(ctx context.Context, p *Player) {
	card := DrawEvent(e.rng)
	e.announce(fmt.Sprintf("%s draws a card: %s.", p.Name, card.Text))
	if !p.Automated {
		prompt(e, ctx, struct{}{}, func(c context.Context) struct{} {
			e.prompter.RequestEventAck(c, p, card)
			return struct{}{}
		})
	}
	e.applyEvent(ctx, p, card)
	e.bus.Publish(NewRefreshEvent(e.clock.Now(), RefreshPlayers))
}

func (e *Engine) applyEvent(ctx context.Context, p *Player, card EventCard) {
	switch card.Kind {
	case EventGain, EventWindfall:
		p.Cash += card.Amount
		e.recordEvent(p, card.Amount, fmt.Sprintf("%s gains %d", p.Name, card.Amount))
	case EventLose, EventTax:
		p.Cash -= card.Amount
		e.recordEvent(p, -card.Amount, fmt.Sprintf("%s pays %d", p.Name, card.Amount))
	case EventMove:
		// Move cards always advance; a non-positive amount clamps to one
		// step forward. Only the random variant moves backward.
		steps := card.Amount
		if steps < 1 {
			steps = 1
		}
		e.moveAndResolve(ctx, p, steps)
	case EventMoveRandom:
		delta := 1 + e.rng.IntN(3)
		if e.rng.IntN(2) == 1 {
			delta = -delta
		}
		e.moveAndResolve(ctx, p, delta)
	case EventMarketUp:
		e.shiftMarket(1)
	case EventMarketDown:
		e.shiftMarket(-1)
	case EventDividend:
		paid := false
		for _, holder := range e.players {
			payout := int(float64(HoldingsValue(holder, e.market)) * eventDividendRate)
			if payout == 0 {
				continue
			}
			paid = true
			holder.Cash += payout
			e.tx.Add(Record{
				Kind:        TxDividend,
				Description: fmt.Sprintf("%s receives %d in dividends", holder.Name, payout),
				PlayerID:    intPtr(holder.ID),
				Amount:      intPtr(payout),
			})
			e.announce(fmt.Sprintf("%s receives %d in dividends.", holder.Name, payout))
		}
		if !paid {
			e.announce("Nobody holds stock; the dividend goes unclaimed.")
		}
	case EventBusinessBonus:
		bonuses := make(map[int]int)
		for _, tile := range e.board.Tiles {
			if tile.Business != nil {
				bonuses[tile.Business.Owner] += int(float64(tile.Business.Base) * eventBusinessBonusRate)
			}
		}
		if len(bonuses) == 0 {
			e.announce("No businesses are open to profit from.")
			return
		}
		for _, owner := range e.players {
			bonus := bonuses[owner.ID]
			if bonus == 0 {
				continue
			}
			owner.Cash += bonus
			e.recordEvent(owner, bonus, fmt.Sprintf("%s's businesses earn a %d bonus", owner.Name, bonus))
		}
	case EventLoanOffer:
		e.resolveLoanOffer(ctx, p)
	case EventBankAudit:
		if float64(p.Loan) <= float64(p.Cash)*eventAuditDebtFactor {
			e.announce(fmt.Sprintf("%s's books are clean; the audit finds nothing.", p.Name))
			return
		}
		fine := int(float64(p.Loan) * eventAuditFineRate)
		p.Cash -= fine
		e.recordEvent(p, -fine, fmt.Sprintf("%s is fined %d for excessive debt", p.Name, fine))
	}
}

func (e *Engine) recordEvent(p *Player, amount int, desc string) {
	e.tx.Add(Record{
		Kind:        TxEvent,
		Description: desc,
		PlayerID:    intPtr(p.ID),
		Amount:      intPtr(amount),
	})
	e.announce(desc + ".")
}

// moveAndResolve applies a card-driven relocation and resolves the new tile,
// so a move card can chain into a purchase, rent or another card.
func (e *Engine) moveAndResolve(ctx context.Context, p *Player, delta int) {
	direction, steps := 1, delta
	if delta < 0 {
		direction, steps = -1, -delta
	}
	e.move(ctx, p, steps, direction)
	e.resolveLanding(ctx, p)
}

func (e *Engine) shiftMarket(direction int) {
	sym := e.market.RandomSymbol()
	if sym == "" {
		return
	}
	shift := (eventMarketShiftMin + e.rng.IntN(eventMarketShiftSpan)) * direction
	price := e.market.Shift(sym, shift)
	if direction > 0 {
		e.announce(fmt.Sprintf("%s rallies %d to %d.", sym, shift, price))
	} else {
		e.announce(fmt.Sprintf("%s slides %d to %d.", sym, -shift, price))
	}
	e.bus.Publish(NewRefreshEvent(e.clock.Now(), RefreshMarket))
}

func (e *Engine) resolveLoanOffer(ctx context.Context, p *Player) {
	offer := eventLoanOfferMin + e.rng.IntN(eventLoanOfferSpan)
	if offer > eventLoanOfferMax {
		offer = eventLoanOfferMax
	}
	var accept bool
	if p.Automated {
		accept = e.policy.LoanDecision(e.policyView(), p, offer)
	} else {
		accept = prompt(e, ctx, false, func(c context.Context) bool {
			return e.prompter.RequestLoanDecision(c, p, offer)
		})
	}
	if !accept {
		e.announce(fmt.Sprintf("%s declines the bank's offer of %d.", p.Name, offer))
		return
	}
	issued := e.bank.Issue(p, offer)
	e.tx.Add(Record{
		Kind:        TxLoan,
		Description: fmt.Sprintf("%s borrows %d (loan now %d)", p.Name, issued, p.Loan),
		PlayerID:    intPtr(p.ID),
		Amount:      intPtr(issued),
	})
	e.announce(fmt.Sprintf("%s borrows %d from the bank.", p.Name, issued))
}

func (e *Engine) resolveStock(ctx context.Context, p *Player, tile *board.Tile) {
	sym := tile.Symbol
	if sym == "" {
		sym = fmt.Sprintf("S%d", tile.ID)
	}
	inst := e.market.Ensure(sym)
	e.announce(fmt.Sprintf("%s checks the ticker: %s trades at %d.", p.Name, inst.Symbol, inst.Price))

	var orders []TradeOrder
	if p.Automated {
		orders = e.policy.TradeOrders(p, inst)
	} else {
		quotes := e.quotes(p)
		orders = prompt(e, ctx, []TradeOrder(nil), func(c context.Context) []TradeOrder {
			return e.prompter.RequestTradeActions(c, p, quotes)
		})
	}
	for _, order := range orders {
		if err := e.ExecuteTrade(p, order); err != nil {
			e.announce(fmt.Sprintf("%s's %s order for %s rejected: %v.", p.Name, order.Side, order.Symbol, err))
		}
	}
}

func (e *Engine) quotes(p *Player) []Quote {
	syms := e.market.Symbols()
	out := make([]Quote, 0, len(syms))
	for _, sym := range syms {
		price, _ := e.market.Quote(sym)
		out = append(out, Quote{Symbol: sym, Price: price, Held: p.Stocks[sym]})
	}
	return out
}

// ExecuteTrade settles one buy or sell at the current quote.
func (e *Engine) ExecuteTrade(p *Player, order TradeOrder) error {
	if order.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	price, ok := e.market.Quote(order.Symbol)
	if !ok {
		return ErrUnknownSymbol
	}
	total := price * order.Quantity
	switch order.Side {
	case TradeBuy:
		if p.Cash < total {
			return ErrInsufficientFunds
		}
		p.Cash -= total
		p.Stocks[order.Symbol] += order.Quantity
		e.tx.Add(Record{
			Kind:        TxTradeBuy,
			Description: fmt.Sprintf("%s buys %d %s at %d", p.Name, order.Quantity, order.Symbol, price),
			PlayerID:    intPtr(p.ID),
			Amount:      intPtr(total),
		})
		e.announce(fmt.Sprintf("%s buys %d %s at %d.", p.Name, order.Quantity, order.Symbol, price))
	case TradeSell:
		if p.Stocks[order.Symbol] < order.Quantity {
			return ErrInsufficientHoldings
		}
		p.Cash += total
		p.Stocks[order.Symbol] -= order.Quantity
		if p.Stocks[order.Symbol] == 0 {
			delete(p.Stocks, order.Symbol)
		}
		e.tx.Add(Record{
			Kind:        TxTradeSell,
			Description: fmt.Sprintf("%s sells %d %s at %d", p.Name, order.Quantity, order.Symbol, price),
			PlayerID:    intPtr(p.ID),
			Amount:      intPtr(total),
		})
		e.announce(fmt.Sprintf("%s sells %d %s at %d.", p.Name, order.Quantity, order.Symbol, price))
	}
	e.bus.Publish(NewRefreshEvent(e.clock.Now(), RefreshAssets))
	e.bus.Publish(NewRefreshEvent(e.clock.Now(), RefreshPlayers))
	return nil
}
