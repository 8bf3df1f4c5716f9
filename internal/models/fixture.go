package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Outcome represents one side of a 1X2 market
type Outcome string

const (
	OutcomeHome Outcome = "home"
	OutcomeDraw Outcome = "draw"
	OutcomeAway Outcome = "away"
)

// CanonicalOutcomes lists the three market sides in tie-break order.
// The decision engine picks the first outcome carrying the maximum value,
// so the order here is load-bearing.
var CanonicalOutcomes = [3]Outcome{OutcomeHome, OutcomeDraw, OutcomeAway}

// Fixture represents an upcoming match sourced from the fixtures feed.
// Immutable once ingested.
type Fixture struct {
	GameID     int64     `db:"game_id" json:"game_id" validate:"required"`
	Date       time.Time `db:"date" json:"date" validate:"required"`
	HomeTeam   string    `db:"home_team" json:"home_team" validate:"required"`
	AwayTeam   string    `db:"away_team" json:"away_team" validate:"required"`
	LeagueCode string    `db:"league_code" json:"league_code" validate:"required"`
	Season     string    `db:"season" json:"season"`
	Round      string    `db:"round" json:"round"`
}

// MatchResult is one row of a league's historical results table
type MatchResult struct {
	Date      time.Time `json:"date"`
	HomeTeam  string    `json:"home_team"`
	AwayTeam  string    `json:"away_team"`
	HomeGoals int       `json:"home_goals"`
	AwayGoals int       `json:"away_goals"`
}

// FixtureResult is a concluded fixture's final score, used at settlement time
type FixtureResult struct {
	GameID    int64   `json:"game_id"`
	HomeGoals int     `json:"home_goals"`
	AwayGoals int     `json:"away_goals"`
	Result    Outcome `json:"result"`
}

// OddsQuote holds the three-way decimal odds captured at decision time.
// Quotes are never mutated after a bet is placed; a re-quote is a new value.
type OddsQuote struct {
	HomeOdds   decimal.Decimal `json:"home_odds"`
	DrawOdds   decimal.Decimal `json:"draw_odds"`
	AwayOdds   decimal.Decimal `json:"away_odds"`
	Bookmaker  string          `json:"bookmaker"`
	GameRef    string          `json:"bookmaker_game_ref"`
	CapturedAt time.Time       `json:"captured_at"`
}

// ForOutcome returns the quoted odds for one side of the market
func (q OddsQuote) ForOutcome(outcome Outcome) decimal.Decimal {
	switch outcome {
	case OutcomeHome:
		return q.HomeOdds
	case OutcomeDraw:
		return q.DrawOdds
	default:
		return q.AwayOdds
	}
}

// HasOutcome reports whether a priced outcome exists. Missing odds arrive
// as zero and must not enter edge computation.
func (q OddsQuote) HasOutcome(outcome Outcome) bool {
	return q.ForOutcome(outcome).GreaterThan(decimal.NewFromInt(1))
}
