// Package board models the cyclic track the game is played on. Tiles are
// generated once at game start; the only fields that mutate afterwards are
// ownership and the attached business.
package board

import (
	"fmt"

	rand "math/rand/v2"
)

// Kind identifies what happens when a player lands on a tile.
type Kind int

const (
	Empty Kind = iota
	Property
	Event
	Stock
)

func (k Kind) String() string {
	return [...]string{"empty", "property", "event", "stock"}[k]
}

// NoOwner marks an unowned property tile.
const NoOwner = -1

// Business is an in-place investment on an owned property. It yields passive
// income instead of rent and is never transferable.
type Business struct {
	Owner int
	Base  int // original investment the payout rate applies to
	Kind  string
}

// Tile is a single position on the track.
type Tile struct {
	ID       int
	Name     string
	Kind     Kind
	Price    int       // base price; updated to the winning bid after an auction
	Owner    int       // player id, NoOwner if unowned
	Business *Business // nil unless the owner invested
	Symbol   string    // instrument symbol for Stock tiles
}

// Owned reports whether the tile has an owner.
func (t *Tile) Owned() bool {
	return t.Owner != NoOwner
}

// Board is the fixed cyclic track.
type Board struct {
	Tiles []*Tile
}

// Tile kind thresholds and the property price range, from the original rules:
// 35% property, 15% event, 15% stock, remainder empty; prices in [300,1500).
const (
	propertyThreshold = 0.35
	eventThreshold    = 0.50
	stockThreshold    = 0.65

	minPropertyPrice  = 300
	propertyPriceSpan = 1200
)

// Generate creates a board of size tiles. Each tile is independently typed by
// the threshold constants above. Stock tiles cycle through the given symbols
// so every instrument appears on the board when the size allows.
func Generate(rng *rand.Rand, size int, symbols []string) *Board {
	b := &Board{Tiles: make([]*Tile, 0, size)}
	symbolIdx := 0
	for i := 0; i < size; i++ {
		tile := &Tile{
			ID:    i,
			Name:  fmt.Sprintf("Plot %d", i+1),
			Owner: NoOwner,
		}
		roll := rng.Float64()
		switch {
		case roll < propertyThreshold:
			tile.Kind = Property
			tile.Price = minPropertyPrice + rng.IntN(propertyPriceSpan)
		case roll < eventThreshold:
			tile.Kind = Event
		case roll < stockThreshold:
			tile.Kind = Stock
			if len(symbols) > 0 {
				tile.Symbol = symbols[symbolIdx%len(symbols)]
				symbolIdx++
			}
		default:
			tile.Kind = Empty
		}
		b.Tiles = append(b.Tiles, tile)
	}
	return b
}

// Size returns the number of tiles on the track.
func (b *Board) Size() int {
	return len(b.Tiles)
}

// Tile returns the tile at the given position.
func (b *Board) Tile(id int) *Tile {
	return b.Tiles[id]
}

// Step advances a position by one step in either direction, wrapping around
// the track.
func (b *Board) Step(pos, direction int) int {
	n := len(b.Tiles)
	return ((pos+direction)%n + n) % n
}
