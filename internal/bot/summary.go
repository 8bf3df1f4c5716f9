package bot

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/yourusername/pitchside/internal/models"
)

// LeagueRun tallies one league's share of a placement run
type LeagueRun struct {
	Code     string
	Fixtures int
	Placed   int
	Excluded int
	TooLow   int
	Failed   int
	Skipped  int
	Errors   int
	Bankroll decimal.Decimal
}

// RunSummary aggregates a whole placement run. A run always produces a
// summary, even when some leagues failed part-way through.
type RunSummary struct {
	StartedAt  time.Time
	FinishedAt time.Time
	Leagues    []LeagueRun
}

// Placed returns the total number of bets placed across all leagues
func (s *RunSummary) Placed() int {
	total := 0
	for _, l := range s.Leagues {
		total += l.Placed
	}
	return total
}

// Fixtures returns the total number of fixtures evaluated
func (s *RunSummary) Fixtures() int {
	total := 0
	for _, l := range s.Leagues {
		total += l.Fixtures
	}
	return total
}

// Errors returns the total number of per-fixture and per-league errors
func (s *RunSummary) Errors() int {
	total := 0
	for _, l := range s.Leagues {
		total += l.Errors
	}
	return total
}

func (l *LeagueRun) tally(record *models.BetRecord) {
	if record == nil {
		l.Skipped++
		return
	}
	switch record.Status {
	case models.BetStatusSuccess:
		l.Placed++
	case models.BetStatusExcluded:
		l.Excluded++
	case models.BetStatusStakeTooLow:
		l.TooLow++
	case models.BetStatusFailed:
		l.Failed++
	}
}
