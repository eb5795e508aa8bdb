package game

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	uuid "github.com/satori/go.uuid"

	"github.com/PythonSmall-Q/Monopoly/internal/board"
	"github.com/PythonSmall-Q/Monopoly/internal/config"
	"github.com/PythonSmall-Q/Monopoly/internal/market"
	"github.com/PythonSmall-Q/Monopoly/internal/randutil"
)

// bankruptcyThreshold is the cash level below which a player is eliminated.
// Exactly -1000 survives.
const bankruptcyThreshold = -1000

// Standing is one row of the final settlement, best net worth first.
type Standing struct {
	Rank       int
	PlayerID   int
	Name       string
	Cash       int
	Properties int // summed recorded prices of owned tiles
	Holdings   int // market value of the stock portfolio
	Loan       int
	NetWorth   int
	Bankrupt   bool
}

// Engine drives a single game from start to settlement. It owns the board,
// market, bank and roster, and runs the turn loop on the goroutine that calls
// Run. Observers watch through the event bus; human input comes back through
// the Prompter, raced against the relevant timer.
//
// Accessors are safe from bus callbacks and after Run returns; the engine
// does not lock per-field player state during play.
type Engine struct {
	id     uuid.UUID
	cfg    config.Game
	logger *log.Logger
	clock  quartz.Clock
	rng    *rand.Rand
	bus    EventBus

	board    *board.Board
	market   *market.Market
	bank     *Bank
	policy   *Policy
	prompter Prompter
	tx       *TransactionLog

	mu         sync.Mutex
	players    []*Player
	eliminated []*Player
	current    int
	rounds     int

	maxRounds     int
	stepDelay     time.Duration
	decisionDelay time.Duration

	gameTimer   *Countdown
	turnTimer   *Countdown
	turnExpired chan struct{}

	gameOver  chan struct{}
	endOnce   sync.Once
	endReason string

	currentAuction *Auction
	lastAuction    *Auction
}

// Option customizes an Engine at construction.
type Option func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithClock substitutes the clock, letting tests drive time.
func WithClock(clock quartz.Clock) Option {
	return func(e *Engine) { e.clock = clock }
}

// WithRNG substitutes the random source; board, market and every in-game
// roll draw from it, so a fixed source replays the same game.
func WithRNG(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithPrompter wires the presentation layer's input surface.
func WithPrompter(p Prompter) Option {
	return func(e *Engine) { e.prompter = p }
}

// WithEventBus substitutes the event bus.
func WithEventBus(bus EventBus) Option {
	return func(e *Engine) { e.bus = bus }
}

// WithMaxRounds ends the game after n completed rounds, regardless of the
// game timer. Zero means no round limit.
func WithMaxRounds(n int) Option {
	return func(e *Engine) { e.maxRounds = n }
}

// WithPacing sets the per-step movement delay and the automated decision
// delay. Zero both for headless simulation.
func WithPacing(step, decision time.Duration) Option {
	return func(e *Engine) {
		e.stepDelay = step
		e.decisionDelay = decision
	}
}

// New builds a game from cfg. The roster is humans first, then automated
// players, all starting on tile 0 with the configured bankroll.
func New(cfg config.Game, opts ...Option) *Engine {
	e := &Engine{
		id:            uuid.NewV4(),
		cfg:           cfg,
		logger:        log.Default(),
		clock:         quartz.NewReal(),
		bus:           NewEventBus(),
		prompter:      NullPrompter{},
		stepDelay:     350 * time.Millisecond,
		decisionDelay: 600 * time.Millisecond,
		turnExpired:   make(chan struct{}, 1),
		gameOver:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		if cfg.Seed != 0 {
			e.rng = randutil.New(cfg.Seed)
		} else {
			e.rng = randutil.NewFromTime()
		}
	}
	e.logger = e.logger.With("game", e.ShortID())

	e.board = board.Generate(e.rng, cfg.BoardSize, market.DefaultSymbols)
	e.market = market.New(e.rng, market.DefaultSymbols)
	e.bank = NewBank(cfg.InterestRate)
	e.policy = NewPolicy(e.rng)
	e.tx = NewTransactionLog(e.clock)

	humans := cfg.Players - cfg.Automated
	for i := 0; i < cfg.Players; i++ {
		automated := i >= humans
		name := fmt.Sprintf("Player %d", i+1)
		if automated {
			name = fmt.Sprintf("Bot %d", i-humans+1)
		}
		e.players = append(e.players, NewPlayer(i, name, cfg.InitialCash, automated))
	}

	e.gameTimer = NewCountdown(e.clock, cfg.GameDuration(), func() {
		e.endGame("time limit reached")
	})
	e.turnTimer = NewCountdown(e.clock, cfg.TurnDuration(), func() {
		select {
		case e.turnExpired <- struct{}{}:
		default:
		}
	})
	return e
}

// Run plays the game to completion and returns the final standings. It
// blocks until the game timer expires, the round limit is hit, fewer than
// two players remain, or ctx is canceled.
func (e *Engine) Run(ctx context.Context) []Standing {
	e.logger.Info("game starting",
		"players", len(e.players),
		"tiles", e.board.Size(),
		"duration", e.cfg.GameDuration())
	e.announce(fmt.Sprintf("Game on: %d players, %d tiles, %s on the clock.",
		len(e.players), e.board.Size(), e.cfg.GameDuration()))
	e.gameTimer.Start()

	tickCtx, cancelTicks := context.WithCancel(ctx)
	defer cancelTicks()
	e.clock.TickerFunc(tickCtx, time.Second, func() error {
		e.bus.Publish(NewTickEvent(e.clock.Now(), e.gameTimer.Remaining()))
		return nil
	}, "tick")

	for !e.finished(ctx) {
		e.playTurn(ctx)
	}
	e.gameTimer.Stop()
	e.turnTimer.Stop()

	standings := e.Settle()
	e.bus.Publish(NewGameEndEvent(e.clock.Now(), standings))
	e.logger.Info("game over", "reason", e.Reason(), "rounds", e.rounds)
	return standings
}

func (e *Engine) playTurn(ctx context.Context) {
	idx := e.current
	p := e.players[idx]
	e.bus.Publish(NewTurnStartEvent(e.clock.Now(), p.ID, p.Name, e.rounds+1))
	e.announce(fmt.Sprintf("%s's turn.", p.Name))

	// Drain a stale expiry before rearming.
	select {
	case <-e.turnExpired:
	default:
	}
	e.turnTimer.Reset(e.cfg.TurnDuration())
	e.turnTimer.Start()

	if p.Automated {
		e.sleep(ctx, e.decisionDelay)
	} else if !e.awaitRoll(ctx, p) {
		e.turnTimer.Stop()
		e.announce(fmt.Sprintf("%s ran out of time; turn skipped.", p.Name))
		e.advanceTurn(idx, false)
		return
	}
	if e.over() {
		return
	}

	d1, d2 := 1+e.rng.IntN(6), 1+e.rng.IntN(6)
	e.announce(fmt.Sprintf("%s rolls %d + %d.", p.Name, d1, d2))
	e.move(ctx, p, d1+d2, 1)
	e.resolveLanding(ctx, p)
	eliminated := e.checkBankruptcy(p)

	e.turnTimer.Stop()
	e.advanceTurn(idx, eliminated)
}

// awaitRoll races the human's roll confirmation against the turn timer.
func (e *Engine) awaitRoll(ctx context.Context, p *Player) bool {
	ch := make(chan bool, 1)
	go func() { ch <- e.prompter.RequestRoll(ctx, p) }()
	select {
	case ok := <-ch:
		return ok
	case <-e.turnExpired:
		return false
	case <-e.gameOver:
		return false
	case <-ctx.Done():
		return false
	}
}

// move walks the player one tile at a time so observers see each step.
// direction is +1 forward, -1 backward.
func (e *Engine) move(ctx context.Context, p *Player, steps, direction int) {
	for i := 0; i < steps; i++ {
		if e.over() {
			return
		}
		p.Position = e.board.Step(p.Position, direction)
		e.bus.Publish(NewRefreshEvent(e.clock.Now(), RefreshBoard))
		e.sleep(ctx, e.stepDelay)
	}
	tile := e.board.Tile(p.Position)
	e.announce(fmt.Sprintf("%s lands on %s (%s).", p.Name, tile.Name, tile.Kind))
}

func (e *Engine) advanceTurn(prevIdx int, eliminated bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.players) == 0 {
		return
	}
	if eliminated {
		// Elimination already shifted the next player into the current slot.
		if e.current >= len(e.players) {
			e.current = 0
		}
	} else {
		e.current = (e.current + 1) % len(e.players)
	}
	if e.current == 0 && prevIdx != 0 {
		e.settleRound()
	}
}

// settleRound runs once when the turn passes back to the head of the roster:
// passive income, then loan interest, then one round of market drift.
func (e *Engine) settleRound() {
	e.rounds++
	for _, p := range e.players {
		income := PassiveIncome(p, e.board, e.cfg.PassiveIncomeRate)
		if income > 0 {
			p.Cash += income
			e.tx.Add(Record{
				Kind:        TxPassiveIncome,
				Description: fmt.Sprintf("%s collects %d passive income", p.Name, income),
				PlayerID:    intPtr(p.ID),
				Amount:      intPtr(income),
			})
			e.announce(fmt.Sprintf("%s collects %d in passive income.", p.Name, income))
		}
	}
	e.bank.AccrueInterest(e.players, func(p *Player, interest int) {
		e.tx.Add(Record{
			Kind:        TxLoanInterest,
			Description: fmt.Sprintf("%d interest accrues on %s's loan", interest, p.Name),
			PlayerID:    intPtr(p.ID),
			Amount:      intPtr(interest),
		})
		e.announce(fmt.Sprintf("Interest of %d accrues on %s's loan (now %d).", interest, p.Name, p.Loan))
	})
	e.market.AdvanceRound()
	e.bus.Publish(NewRefreshEvent(e.clock.Now(), RefreshMarket))
	e.bus.Publish(NewRefreshEvent(e.clock.Now(), RefreshPlayers))
	e.logger.Debug("round settled", "round", e.rounds)
}

func (e *Engine) finished(ctx context.Context) bool {
	select {
	case <-e.gameOver:
		return true
	default:
	}
	if ctx.Err() != nil {
		e.endGame("canceled")
		return true
	}
	if len(e.players) < 2 {
		e.endGame("last player standing")
		return true
	}
	if e.maxRounds > 0 && e.rounds >= e.maxRounds {
		e.endGame("round limit reached")
		return true
	}
	return false
}

func (e *Engine) endGame(reason string) {
	e.endOnce.Do(func() {
		e.endReason = reason
		close(e.gameOver)
	})
}

func (e *Engine) over() bool {
	select {
	case <-e.gameOver:
		return true
	default:
		return false
	}
}

// checkBankruptcy eliminates the player if their cash fell through the
// threshold: their tiles revert to the bank unowned, any businesses close,
// and their stocks are forfeited.
func (e *Engine) checkBankruptcy(p *Player) bool {
	if p.Cash >= bankruptcyThreshold {
		return false
	}
	e.announce(fmt.Sprintf("%s is bankrupt with %d and leaves the game.", p.Name, p.Cash))
	e.tx.Add(Record{
		Kind:        TxBankruptcy,
		Description: fmt.Sprintf("%s eliminated at %d cash", p.Name, p.Cash),
		PlayerID:    intPtr(p.ID),
		Amount:      intPtr(p.Cash),
	})
	for _, id := range p.Properties {
		tile := e.board.Tile(id)
		tile.Owner = board.NoOwner
		tile.Business = nil
	}
	p.Properties = nil
	p.Stocks = make(map[string]int)

	e.mu.Lock()
	for i, other := range e.players {
		if other == p {
			e.players = append(e.players[:i], e.players[i+1:]...)
			if i < e.current {
				e.current--
			}
			break
		}
	}
	e.eliminated = append(e.eliminated, p)
	e.mu.Unlock()

	e.bus.Publish(NewRefreshEvent(e.clock.Now(), RefreshBoard))
	e.bus.Publish(NewRefreshEvent(e.clock.Now(), RefreshPlayers))
	return true
}

// Settle ranks every player by net worth, active players first, bankrupt
// players at the bottom, and records the result in the transaction log.
func (e *Engine) Settle() []Standing {
	e.mu.Lock()
	active := make([]*Player, len(e.players))
	copy(active, e.players)
	gone := make([]*Player, len(e.eliminated))
	copy(gone, e.eliminated)
	e.mu.Unlock()

	standings := make([]Standing, 0, len(active)+len(gone))
	for _, p := range active {
		standings = append(standings, e.standing(p, false))
	}
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].NetWorth > standings[j].NetWorth
	})
	bankrupt := make([]Standing, 0, len(gone))
	for _, p := range gone {
		bankrupt = append(bankrupt, e.standing(p, true))
	}
	sort.SliceStable(bankrupt, func(i, j int) bool {
		return bankrupt[i].NetWorth > bankrupt[j].NetWorth
	})
	standings = append(standings, bankrupt...)

	for i := range standings {
		standings[i].Rank = i + 1
		e.tx.Add(Record{
			Kind:        TxSettlement,
			Description: fmt.Sprintf("#%d %s, net worth %d", i+1, standings[i].Name, standings[i].NetWorth),
			PlayerID:    intPtr(standings[i].PlayerID),
			Amount:      intPtr(standings[i].NetWorth),
		})
	}
	return standings
}

func (e *Engine) standing(p *Player, bankrupt bool) Standing {
	return Standing{
		PlayerID:   p.ID,
		Name:       p.Name,
		Cash:       p.Cash,
		Properties: PropertyValue(p, e.board),
		Holdings:   HoldingsValue(p, e.market),
		Loan:       p.Loan,
		NetWorth:   NetWorth(p, e.board, e.market),
		Bankrupt:   bankrupt,
	}
}

// RepayLoan pays down the player's loan by up to amount and returns what was
// actually paid.
func (e *Engine) RepayLoan(p *Player, amount int) int {
	paid := e.bank.Repay(p, amount)
	if paid > 0 {
		e.tx.Add(Record{
			Kind:        TxLoanRepay,
			Description: fmt.Sprintf("%s repays %d (loan now %d)", p.Name, paid, p.Loan),
			PlayerID:    intPtr(p.ID),
			Amount:      intPtr(paid),
		})
		e.announce(fmt.Sprintf("%s repays %d; loan balance is %d.", p.Name, paid, p.Loan))
		e.bus.Publish(NewRefreshEvent(e.clock.Now(), RefreshPlayers))
	}
	return paid
}

func (e *Engine) policyView() PolicyView {
	return PolicyView{
		Board:             e.board,
		Market:            e.market,
		InterestRate:      e.bank.Rate,
		PassiveIncomeRate: e.cfg.PassiveIncomeRate,
		TimeLeft:          e.gameTimer.Remaining(),
		TurnSeconds:       e.cfg.TurnSeconds,
		PlayerCount:       len(e.players),
	}
}

func (e *Engine) announce(msg string) {
	e.logger.Info(msg)
	e.bus.Publish(NewLogEvent(e.clock.Now(), msg))
}

func (e *Engine) player(id int) *Player {
	for _, p := range e.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// sleep waits d on the engine clock, cut short by cancelation or game end.
func (e *Engine) sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := e.clock.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	case <-e.gameOver:
	}
}

// prompt runs call on its own goroutine and races the answer against game
// end and cancelation, falling back when anything but the answer wins. The
// turn timer pauses while the modal prompt is outstanding.
func prompt[T any](e *Engine, ctx context.Context, fallback T, call func(context.Context) T) T {
	e.turnTimer.Pause()
	defer e.turnTimer.Resume()

	ch := make(chan T, 1)
	pctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() { ch <- call(pctx) }()
	select {
	case v := <-ch:
		return v
	case <-e.gameOver:
		return fallback
	case <-ctx.Done():
		return fallback
	}
}

// ID returns the game's unique identifier.
func (e *Engine) ID() string { return e.id.String() }

// ShortID returns the first eight characters of the game id, for log lines.
func (e *Engine) ShortID() string { return e.id.String()[:8] }

// Reason returns why the game ended, or "" while it is still running.
func (e *Engine) Reason() string {
	if !e.over() {
		return ""
	}
	return e.endReason
}

// Board returns the game board.
func (e *Engine) Board() *board.Board { return e.board }

// Market returns the stock market.
func (e *Engine) Market() *market.Market { return e.market }

// Bank returns the bank.
func (e *Engine) Bank() *Bank { return e.bank }

// Transactions returns the transaction log.
func (e *Engine) Transactions() *TransactionLog { return e.tx }

// Bus returns the event bus observers subscribe to.
func (e *Engine) Bus() EventBus { return e.bus }

// Config returns the game configuration.
func (e *Engine) Config() config.Game { return e.cfg }

// Players returns the active roster in seat order.
func (e *Engine) Players() []*Player {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*Player, len(e.players))
	copy(out, e.players)
	return out
}

// CurrentPlayer returns the player whose turn it is.
func (e *Engine) CurrentPlayer() *Player {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.players) == 0 {
		return nil
	}
	return e.players[e.current]
}

// Rounds returns the number of completed rounds.
func (e *Engine) Rounds() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rounds
}

// GameTimeLeft returns the remaining whole-game time.
func (e *Engine) GameTimeLeft() time.Duration { return e.gameTimer.Remaining() }

// TurnTimeLeft returns the remaining time on the current turn.
func (e *Engine) TurnTimeLeft() time.Duration { return e.turnTimer.Remaining() }

// LastAuction returns the most recently resolved auction, or nil.
func (e *Engine) LastAuction() *Auction {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastAuction
}
