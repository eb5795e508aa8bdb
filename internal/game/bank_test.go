package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoanCap(t *testing.T) {
	b := NewBank(0.06)
	p := NewPlayer(0, "p", 3000, false)
	assert.Equal(t, 7000, b.LoanCap(p))

	p.Cash = 0
	assert.Equal(t, 1000, b.LoanCap(p))

	p.Cash = -900
	assert.Equal(t, 0, b.LoanCap(p))
}

func TestIssueClampsToCap(t *testing.T) {
	b := NewBank(0.06)
	p := NewPlayer(0, "p", 100, false)

	issued := b.Issue(p, 5000)
	assert.Equal(t, 1200, issued)
	assert.Equal(t, 1300, p.Cash)
	assert.Equal(t, 1200, p.Loan)
	require.Len(t, b.Loans, 1)
	assert.Equal(t, 1200, b.Loans[0].Principal)
	assert.Equal(t, 10, b.Loans[0].DueRounds)

	assert.Zero(t, b.Issue(p, 0))
	assert.Zero(t, b.Issue(p, -50))
}

func TestRepayBounds(t *testing.T) {
	b := NewBank(0.06)
	p := NewPlayer(0, "p", 500, false)
	p.Loan = 800

	// Bounded by cash.
	assert.Equal(t, 500, b.Repay(p, 1000))
	assert.Equal(t, 0, p.Cash)
	assert.Equal(t, 300, p.Loan)

	// Nothing left to pay with.
	assert.Zero(t, b.Repay(p, 100))

	p.Cash = 1000
	// Bounded by the outstanding balance.
	assert.Equal(t, 300, b.Repay(p, 1000))
	assert.Equal(t, 0, p.Loan)
	assert.Equal(t, 700, p.Cash)

	assert.Zero(t, b.Repay(p, 100))
}

func TestAccrueInterestRoundsUp(t *testing.T) {
	b := NewBank(0.06)
	debtor := NewPlayer(0, "debtor", 100, false)
	debtor.Loan = 1001
	even := NewPlayer(1, "even", 100, false)
	even.Loan = 1000
	clean := NewPlayer(2, "clean", 100, false)

	var accruals []int
	b.AccrueInterest([]*Player{debtor, even, clean}, func(p *Player, interest int) {
		accruals = append(accruals, interest)
	})

	// ceil(1001 * 0.06) = 61; 1000 * 0.06 is exact.
	assert.Equal(t, 1062, debtor.Loan)
	assert.Equal(t, 1060, even.Loan)
	assert.Zero(t, clean.Loan)
	assert.Equal(t, []int{61, 60}, accruals)
}

func TestNewBankDefaultsRate(t *testing.T) {
	assert.InDelta(t, DefaultInterestRate, NewBank(0).Rate, 0.0001)
	assert.InDelta(t, 0.1, NewBank(0.1).Rate, 0.0001)
}
