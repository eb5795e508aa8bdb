package game

import (
	"sync"
	"time"
)

// EventType identifies a published engine event.
type EventType string

const (
	EventTypeLog             EventType = "log"
	EventTypeRefresh         EventType = "refresh"
	EventTypeTick            EventType = "tick"
	EventTypeTurnStart       EventType = "turn_start"
	EventTypeAuctionResolved EventType = "auction_resolved"
	EventTypeGameEnd         EventType = "game_end"
)

func (et EventType) String() string {
	return string(et)
}

// GameEvent is anything the engine broadcasts to observers (views, the
// websocket relay, tests).
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// RefreshScope names the view panel a RefreshEvent invalidates.
type RefreshScope string

const (
	RefreshPlayers RefreshScope = "players"
	RefreshMarket  RefreshScope = "market"
	RefreshBoard   RefreshScope = "board"
	RefreshAssets  RefreshScope = "assets"
)

// LogEvent carries one narrative log line.
type LogEvent struct {
	Message   string
	timestamp time.Time
}

func (e LogEvent) EventType() EventType { return EventTypeLog }
func (e LogEvent) Timestamp() time.Time { return e.timestamp }

// NewLogEvent creates a log event.
func NewLogEvent(now time.Time, message string) LogEvent {
	return LogEvent{Message: message, timestamp: now}
}

// RefreshEvent signals that a view panel should re-render.
type RefreshEvent struct {
	Scope     RefreshScope
	timestamp time.Time
}

func (e RefreshEvent) EventType() EventType { return EventTypeRefresh }
func (e RefreshEvent) Timestamp() time.Time { return e.timestamp }

// NewRefreshEvent creates a refresh event for the given panel.
func NewRefreshEvent(now time.Time, scope RefreshScope) RefreshEvent {
	return RefreshEvent{Scope: scope, timestamp: now}
}

// TickEvent is published once per second with the whole-game time left.
type TickEvent struct {
	Remaining time.Duration
	timestamp time.Time
}

func (e TickEvent) EventType() EventType { return EventTypeTick }
func (e TickEvent) Timestamp() time.Time { return e.timestamp }

// NewTickEvent creates a tick event.
func NewTickEvent(now time.Time, remaining time.Duration) TickEvent {
	return TickEvent{Remaining: remaining, timestamp: now}
}

// TurnStartEvent is published when a player's turn begins.
type TurnStartEvent struct {
	PlayerID  int
	Name      string
	Round     int
	timestamp time.Time
}

func (e TurnStartEvent) EventType() EventType { return EventTypeTurnStart }
func (e TurnStartEvent) Timestamp() time.Time { return e.timestamp }

// NewTurnStartEvent creates a turn start event.
func NewTurnStartEvent(now time.Time, playerID int, name string, round int) TurnStartEvent {
	return TurnStartEvent{PlayerID: playerID, Name: name, Round: round, timestamp: now}
}

// AuctionResolvedEvent is published when an auction finishes, sold or not.
type AuctionResolvedEvent struct {
	TileID    int
	Sold      bool
	Winner    Bid // NoBidder when unsold
	timestamp time.Time
}

func (e AuctionResolvedEvent) EventType() EventType { return EventTypeAuctionResolved }
func (e AuctionResolvedEvent) Timestamp() time.Time { return e.timestamp }

// NewAuctionResolvedEvent creates an auction resolution event.
func NewAuctionResolvedEvent(now time.Time, tileID int, sold bool, winner Bid) AuctionResolvedEvent {
	return AuctionResolvedEvent{TileID: tileID, Sold: sold, Winner: winner, timestamp: now}
}

// GameEndEvent carries the final settlement ranking, best net worth first.
type GameEndEvent struct {
	Standings []Standing
	timestamp time.Time
}

func (e GameEndEvent) EventType() EventType { return EventTypeGameEnd }
func (e GameEndEvent) Timestamp() time.Time { return e.timestamp }

// NewGameEndEvent creates a game end event.
func NewGameEndEvent(now time.Time, standings []Standing) GameEndEvent {
	return GameEndEvent{Standings: standings, timestamp: now}
}

// EventSubscriber receives published events.
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventBus manages event publishing and subscription.
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a mutex-guarded in-memory bus. Timer callbacks publish
// from other goroutines, so unlike a purely single-threaded bus this one
// locks around delivery.
type SimpleEventBus struct {
	mu          sync.Mutex
	subscribers []EventSubscriber
}

// NewEventBus creates an empty bus.
func NewEventBus() EventBus {
	return &SimpleEventBus{}
}

// Subscribe adds a subscriber to receive events.
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber.
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish delivers an event to all subscribers in subscription order.
func (bus *SimpleEventBus) Publish(event GameEvent) {
	bus.mu.Lock()
	subs := make([]EventSubscriber, len(bus.subscribers))
	copy(subs, bus.subscribers)
	bus.mu.Unlock()
	for _, subscriber := range subs {
		subscriber.OnEvent(event)
	}
}
