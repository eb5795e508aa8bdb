package game

import "errors"

// Recoverable rejection reasons. Every one of these leaves state untouched;
// the caller re-prompts or logs and the game continues.
var (
	// ErrInsufficientFunds is returned when a purchase, bid or trade exceeds
	// the player's available cash.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInsufficientHoldings is returned when a sell order exceeds the
	// player's owned shares.
	ErrInsufficientHoldings = errors.New("insufficient holdings")

	// ErrInvalidQuantity is returned for zero or negative trade quantities.
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrUnknownSymbol is returned for trades against an instrument the
	// market has never listed.
	ErrUnknownSymbol = errors.New("unknown symbol")

	// ErrStaleBid is returned for an auction bid at or below the current
	// highest bid.
	ErrStaleBid = errors.New("bid does not exceed current highest")
)
