package server

import (
	"encoding/json"
	"time"

	"github.com/PythonSmall-Q/Monopoly/internal/game"
)

// MessageType identifies a server → client message.
type MessageType string

const (
	MessageSnapshot        MessageType = "snapshot"
	MessageLog             MessageType = "log"
	MessageTick            MessageType = "tick"
	MessageTurnStart       MessageType = "turn_start"
	MessageRefresh         MessageType = "refresh"
	MessageAuctionResolved MessageType = "auction_resolved"
	MessageGameEnd         MessageType = "game_end"
)

// Message is the wire envelope for every broadcast.
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage wraps data in an envelope with the current timestamp.
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

type LogData struct {
	Message string `json:"message"`
}

type TickData struct {
	RemainingSeconds int `json:"remainingSeconds"`
}

type TurnStartData struct {
	PlayerID int    `json:"playerId"`
	Name     string `json:"name"`
	Round    int    `json:"round"`
}

type RefreshData struct {
	Scope string `json:"scope"`
}

type AuctionResolvedData struct {
	TileID int  `json:"tileId"`
	Sold   bool `json:"sold"`
	Winner int  `json:"winner"` // -1 when unsold
	Amount int  `json:"amount,omitempty"`
}

type StandingInfo struct {
	Rank     int    `json:"rank"`
	Name     string `json:"name"`
	Cash     int    `json:"cash"`
	NetWorth int    `json:"netWorth"`
	Bankrupt bool   `json:"bankrupt,omitempty"`
}

type GameEndData struct {
	Standings []StandingInfo `json:"standings"`
}

type TileInfo struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Price    int    `json:"price,omitempty"`
	Owner    int    `json:"owner"`
	Business string `json:"business,omitempty"`
	Symbol   string `json:"symbol,omitempty"`
}

type InstrumentInfo struct {
	Symbol  string `json:"symbol"`
	Price   int    `json:"price"`
	History []int  `json:"history"`
}

type PlayerInfo struct {
	ID        int            `json:"id"`
	Name      string         `json:"name"`
	Cash      int            `json:"cash"`
	Position  int            `json:"position"`
	Loan      int            `json:"loan"`
	Stocks    map[string]int `json:"stocks,omitempty"`
	Automated bool           `json:"automated"`
}

type SnapshotData struct {
	GameID           string           `json:"gameId"`
	Round            int              `json:"round"`
	RemainingSeconds int              `json:"remainingSeconds"`
	Board            []TileInfo       `json:"board"`
	Market           []InstrumentInfo `json:"market"`
	Players          []PlayerInfo     `json:"players"`
}

// snapshot assembles the full observer view of the game.
func snapshot(e *game.Engine) SnapshotData {
	b := e.Board()
	tiles := make([]TileInfo, 0, b.Size())
	for _, t := range b.Tiles {
		info := TileInfo{
			ID:     t.ID,
			Name:   t.Name,
			Kind:   t.Kind.String(),
			Price:  t.Price,
			Owner:  t.Owner,
			Symbol: t.Symbol,
		}
		if t.Business != nil {
			info.Business = t.Business.Kind
		}
		tiles = append(tiles, info)
	}

	m := e.Market()
	instruments := make([]InstrumentInfo, 0)
	for _, sym := range m.Symbols() {
		inst := m.Instrument(sym)
		instruments = append(instruments, InstrumentInfo{
			Symbol:  inst.Symbol,
			Price:   inst.Price,
			History: inst.History,
		})
	}

	players := make([]PlayerInfo, 0)
	for _, p := range e.Players() {
		players = append(players, PlayerInfo{
			ID:        p.ID,
			Name:      p.Name,
			Cash:      p.Cash,
			Position:  p.Position,
			Loan:      p.Loan,
			Stocks:    p.Stocks,
			Automated: p.Automated,
		})
	}

	return SnapshotData{
		GameID:           e.ID(),
		Round:            e.Rounds(),
		RemainingSeconds: int(e.GameTimeLeft().Seconds()),
		Board:            tiles,
		Market:           instruments,
		Players:          players,
	}
}
