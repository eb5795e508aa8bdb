package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PythonSmall-Q/Monopoly/internal/board"
)

func auctionTile(price int) *board.Tile {
	return &board.Tile{ID: 3, Name: "Plot 4", Kind: board.Property, Price: price, Owner: board.NoOwner}
}

func TestAuctionStartPrice(t *testing.T) {
	a := NewAuction(auctionTile(700), []int{1, 2})
	assert.Equal(t, 350, a.StartPrice)
	assert.Equal(t, Bid{PlayerID: NoBidder, Amount: 349}, a.Highest)

	// Floored at 5 for nearly worthless tiles.
	a = NewAuction(auctionTile(6), []int{1, 2})
	assert.Equal(t, 5, a.StartPrice)
}

func TestAuctionWinnerTakesIt(t *testing.T) {
	a := NewAuction(auctionTile(700), []int{1, 2, 3})
	a.Start()
	require.Equal(t, AuctionBidding, a.State)

	require.Equal(t, 1, a.CurrentBidder())
	require.NoError(t, a.PlaceBid(1, "one", 400))
	require.Equal(t, 2, a.CurrentBidder())
	a.Pass(2, "two", false)
	require.Equal(t, 3, a.CurrentBidder())
	a.Pass(3, "three", true)

	assert.Equal(t, AuctionResolved, a.State)
	assert.True(t, a.Sold())
	require.NotNil(t, a.Winner)
	assert.Equal(t, Bid{PlayerID: 1, Amount: 400}, *a.Winner)
	assert.Equal(t, NoBidder, a.CurrentBidder())

	require.Len(t, a.History, 3)
	assert.Equal(t, "bid 400", a.History[0].Action)
	assert.Equal(t, "pass", a.History[1].Action)
	assert.Equal(t, "timeout-pass", a.History[2].Action)
}

func TestAuctionRotationSkipsPassed(t *testing.T) {
	a := NewAuction(auctionTile(700), []int{1, 2, 3})
	a.Start()

	require.NoError(t, a.PlaceBid(1, "one", 400))
	require.NoError(t, a.PlaceBid(2, "two", 500))
	a.Pass(3, "three", false)

	// Back around to the first bidder, three is skipped.
	require.Equal(t, 1, a.CurrentBidder())
	a.Pass(1, "one", false)

	assert.Equal(t, AuctionResolved, a.State)
	require.NotNil(t, a.Winner)
	assert.Equal(t, 2, a.Winner.PlayerID)
	assert.Equal(t, 500, a.Winner.Amount)
}

func TestAuctionNoSale(t *testing.T) {
	a := NewAuction(auctionTile(700), []int{1, 2, 3})
	a.Start()
	a.Pass(1, "one", false)
	a.Pass(2, "two", false)

	assert.Equal(t, AuctionResolved, a.State)
	assert.False(t, a.Sold())
	assert.Nil(t, a.Winner)
	assert.Equal(t, NoBidder, a.Highest.PlayerID)
}

func TestAuctionRejectsStaleBid(t *testing.T) {
	a := NewAuction(auctionTile(700), []int{1, 2, 3})
	a.Start()
	require.NoError(t, a.PlaceBid(1, "one", 400))

	assert.ErrorIs(t, a.PlaceBid(2, "two", 400), ErrStaleBid)
	assert.ErrorIs(t, a.PlaceBid(2, "two", 300), ErrStaleBid)
	// The failed attempts do not cost player two their turn.
	assert.Equal(t, 2, a.CurrentBidder())
}

func TestAuctionBidBelowStartNeverSells(t *testing.T) {
	// The opening "highest" sits one under the start price, so the only way
	// to win is to reach it.
	a := NewAuction(auctionTile(700), []int{1, 2})
	a.Start()
	assert.ErrorIs(t, a.PlaceBid(1, "one", 349), ErrStaleBid)
	require.NoError(t, a.PlaceBid(1, "one", 350))
	a.Pass(2, "two", false)
	assert.True(t, a.Sold())
}

func TestAuctionSingleBidderResolvesUnsold(t *testing.T) {
	a := NewAuction(auctionTile(700), []int{1})
	a.Start()
	assert.Equal(t, AuctionResolved, a.State)
	assert.False(t, a.Sold())
}

func TestAuctionRejectsBidsWhenNotBidding(t *testing.T) {
	a := NewAuction(auctionTile(700), []int{1, 2})
	assert.Error(t, a.PlaceBid(1, "one", 400))
	a.Start()
	a.Pass(1, "one", false)
	assert.Error(t, a.PlaceBid(2, "two", 400))
}
