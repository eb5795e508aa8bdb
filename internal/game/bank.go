package game

import "math"

// DefaultInterestRate is the bank's per-round rate unless configured.
const DefaultInterestRate = 0.06

// loanDueRounds is recorded on each loan for inspection; the core does not
// enforce defaults against it.
const loanDueRounds = 10

// Loan is a historical record of a single issuance. The live balance is
// tracked in aggregate on the player.
type Loan struct {
	PlayerID  int
	Principal int
	Rate      float64
	DueRounds int
}

// Bank issues loans against a cap derived from the borrower's cash and
// compounds interest on outstanding balances once per completed round.
type Bank struct {
	Rate  float64
	Loans []Loan
}

// NewBank creates a bank with the given per-round interest rate.
func NewBank(rate float64) *Bank {
	if rate <= 0 {
		rate = DefaultInterestRate
	}
	return &Bank{Rate: rate}
}

// LoanCap is the most the bank will lend a player in one issuance.
func (b *Bank) LoanCap(p *Player) int {
	limit := p.Cash*2 + 1000
	if limit < 0 {
		return 0
	}
	return limit
}

// Issue credits the player with min(requested, cap), records the loan, and
// returns the amount actually issued.
func (b *Bank) Issue(p *Player, requested int) int {
	if requested <= 0 {
		return 0
	}
	amount := requested
	if limit := b.LoanCap(p); amount > limit {
		amount = limit
	}
	p.Loan += amount
	p.Cash += amount
	b.Loans = append(b.Loans, Loan{
		PlayerID:  p.ID,
		Principal: amount,
		Rate:      b.Rate,
		DueRounds: loanDueRounds,
	})
	return amount
}

// Repay debits min(amount, outstanding, cash) from the player and returns
// the amount actually repaid.
func (b *Bank) Repay(p *Player, amount int) int {
	if amount <= 0 || p.Loan <= 0 {
		return 0
	}
	pay := amount
	if pay > p.Loan {
		pay = p.Loan
	}
	if pay > p.Cash {
		pay = p.Cash
	}
	if pay <= 0 {
		return 0
	}
	p.Loan -= pay
	p.Cash -= pay
	return pay
}

// AccrueInterest adds ceil(loan * rate) to every indebted player's balance.
// The callback receives each accrual for logging. Runs once per completed
// round.
func (b *Bank) AccrueInterest(players []*Player, accrued func(p *Player, interest int)) {
	for _, p := range players {
		if p.Loan <= 0 {
			continue
		}
		interest := int(math.Ceil(float64(p.Loan) * b.Rate))
		p.Loan += interest
		if accrued != nil {
			accrued(p, interest)
		}
	}
}
