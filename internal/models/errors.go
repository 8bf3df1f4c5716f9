package models

import "errors"

// Custom errors
var (
	ErrNotFound             = errors.New("record not found")
	ErrDuplicateKey         = errors.New("duplicate key violation")
	ErrUnknownStrategy      = errors.New("unknown betting strategy")
	ErrUnknownBookmaker     = errors.New("unknown bookmaker")
	ErrUnknownStaking       = errors.New("unknown staking method")
	ErrInsufficientHistory  = errors.New("insufficient rating history")
	ErrBalanceShortfall     = errors.New("bookmaker balance below stake")
	ErrMissingLeagueMapping = errors.New("no bookmaker mapping for league")
	ErrMissingOdds          = errors.New("no priced outcome in quote")
)
