package game

import (
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/coder/quartz"
)

// TxKind classifies a transaction log record.
type TxKind string

const (
	TxBuy           TxKind = "buy"
	TxInvest        TxKind = "invest"
	TxRent          TxKind = "rent"
	TxEvent         TxKind = "event"
	TxTradeBuy      TxKind = "trade_buy"
	TxTradeSell     TxKind = "trade_sell"
	TxLoan          TxKind = "loan"
	TxLoanRepay     TxKind = "loan_repay"
	TxLoanInterest  TxKind = "loan_interest"
	TxAuctionBid    TxKind = "auction_bid"
	TxAuctionWin    TxKind = "auction_win"
	TxAuctionNoSale TxKind = "auction_no_sale"
	TxPassiveIncome TxKind = "passive_income"
	TxDividend      TxKind = "dividend"
	TxBankruptcy    TxKind = "bankruptcy"
	TxSettlement    TxKind = "settlement"
)

// Record is one entry in the append-only transaction log.
type Record struct {
	Time        time.Time `json:"time"`
	Kind        TxKind    `json:"kind"`
	Description string    `json:"description"`
	PlayerID    *int      `json:"player_id,omitempty"`
	TileID      *int      `json:"tile_id,omitempty"`
	Amount      *int      `json:"amount,omitempty"`
}

// TransactionLog keeps records newest-first for display and exports them
// oldest-first.
type TransactionLog struct {
	clock quartz.Clock

	mu      sync.Mutex
	records []Record
}

// NewTransactionLog creates an empty log stamping records from clock.
func NewTransactionLog(clock quartz.Clock) *TransactionLog {
	return &TransactionLog{clock: clock}
}

// Add prepends a record, stamping it with the current time.
func (l *TransactionLog) Add(r Record) {
	r.Time = l.clock.Now()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append([]Record{r}, l.records...)
}

// Len returns the number of records.
func (l *TransactionLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// Records returns a copy of the log, newest first.
func (l *TransactionLog) Records() []Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

// Export writes the log as indented JSON, oldest first.
func (l *TransactionLog) Export(w io.Writer) error {
	l.mu.Lock()
	ordered := make([]Record, len(l.records))
	for i, r := range l.records {
		ordered[len(l.records)-1-i] = r
	}
	l.mu.Unlock()

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ordered)
}

// Replay walks the log oldest-first, for views that re-narrate the game.
func (l *TransactionLog) Replay(fn func(Record)) {
	l.mu.Lock()
	ordered := make([]Record, len(l.records))
	for i, r := range l.records {
		ordered[len(l.records)-1-i] = r
	}
	l.mu.Unlock()
	for _, r := range ordered {
		fn(r)
	}
}

func intPtr(v int) *int {
	return &v
}
