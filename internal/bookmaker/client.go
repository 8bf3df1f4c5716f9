package bookmaker

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/yourusername/pitchside/internal/models"
)

// StakeLimits are the bookmaker's stake bounds for one market
type StakeLimits struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

// PlacedBet is the bookmaker's acknowledgement of an accepted bet
type PlacedBet struct {
	Ref     string
	GameRef string
	Outcome models.Outcome
	Stake   decimal.Decimal
	Odds    decimal.Decimal
}

// Client is the surface the decision engine needs from a bookmaker.
// Implementations return decimal odds regardless of the wire format the
// bookmaker quotes in.
type Client interface {
	// Name returns the bookmaker's identifier
	Name() string

	// Login establishes an authenticated session
	Login(ctx context.Context) error

	// Balance returns the available account balance
	Balance(ctx context.Context) (decimal.Decimal, error)

	// FindGameRef resolves a fixture to the bookmaker's game reference
	// within the given league. Unpriced fixtures return GameNotFoundError.
	FindGameRef(ctx context.Context, leagueRef string, fixture models.Fixture) (string, error)

	// QuoteOdds returns the current three-way odds for a game
	QuoteOdds(ctx context.Context, gameRef string) (*models.OddsQuote, error)

	// StakeLimits returns the stake bounds for betting one side of a
	// game's 1X2 market at the quoted decimal odds
	StakeLimits(ctx context.Context, gameRef string, outcome models.Outcome, quoted decimal.Decimal) (StakeLimits, error)

	// PlaceBet submits a bet and returns the bookmaker's acknowledgement
	PlaceBet(ctx context.Context, gameRef string, outcome models.Outcome, stake, odds decimal.Decimal) (*PlacedBet, error)

	// Close releases client resources
	Close() error
}
