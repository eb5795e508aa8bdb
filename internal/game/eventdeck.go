package game

import (
	rand "math/rand/v2"
)

// EventKind tags an event card variant.
type EventKind int

const (
	EventGain EventKind = iota
	EventLose
	EventMove
	EventMoveRandom
	EventMarketUp
	EventMarketDown
	EventDividend
	EventBusinessBonus
	EventWindfall
	EventTax
	EventLoanOffer
	EventBankAudit
)

func (k EventKind) String() string {
	return [...]string{
		"gain", "lose", "move", "move_random", "market_up", "market_down",
		"dividend", "business_bonus", "windfall", "tax", "loan_offer", "bank_audit",
	}[k]
}

// EventCard is an immutable card drawn when landing on an event tile.
type EventCard struct {
	Kind   EventKind
	Amount int
	Text   string
}

// eventDeck is the fixed replenishing deck; draws never consume cards.
var eventDeck = []EventCard{
	{EventGain, 300, "Landed a major order, gain"},
	{EventLose, 200, "Supply chain delay, pay"},
	{EventMove, 2, "Goods shipped early, move forward"},
	{EventMove, -3, "Tax inspection, move back"},
	{EventMarketUp, 0, "Market rally, one stock rises"},
	{EventMarketDown, 0, "Market turbulence, one stock falls"},
	{EventDividend, 0, "Companies pay dividends"},
	{EventBusinessBonus, 0, "Businesses earn extra profit"},
	{EventWindfall, 500, "Unexpected income, gain"},
	{EventTax, 150, "Tax levied, pay"},
	{EventLoanOffer, 500, "The bank offers a loan"},
	{EventBankAudit, 0, "Bank audit, heavy debt is fined"},
	{EventMoveRandom, 0, "Logistics change, move randomly"},
}

// Magnitudes used when resolving event cards, from the original rules.
const (
	eventMarketShiftMin  = 10
	eventMarketShiftSpan = 60

	eventDividendRate      = 0.02
	eventBusinessBonusRate = 0.08

	eventLoanOfferMin  = 500
	eventLoanOfferSpan = 1500
	eventLoanOfferMax  = 2000

	eventAuditDebtFactor = 1.5
	eventAuditFineRate   = 0.15
)

// DrawEvent picks a uniformly random card from the deck.
func DrawEvent(rng *rand.Rand) EventCard {
	return eventDeck[rng.IntN(len(eventDeck))]
}
