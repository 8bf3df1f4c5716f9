package settlement

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitchside/internal/ledger"
	"github.com/yourusername/pitchside/internal/logger"
	"github.com/yourusername/pitchside/internal/metrics"
	"github.com/yourusername/pitchside/internal/models"
	"github.com/yourusername/pitchside/internal/repository"
	"github.com/yourusername/pitchside/internal/tracing"
)

// ResultSource fetches the final result of a concluded fixture.
// models.ErrNotFound means the fixture has not concluded yet.
type ResultSource interface {
	FixtureResult(ctx context.Context, gameID int64) (*models.FixtureResult, error)
}

// LeagueTotals tallies one league's settled money within a run
type LeagueTotals struct {
	Settled int
	Wins    int
	Losses  int
	Wagered decimal.Decimal
	Earned  decimal.Decimal
	Profit  decimal.Decimal
}

// Summary aggregates one settlement run
type Summary struct {
	Examined     int
	Settled      int
	Pending      int
	Wins         int
	Losses       int
	NoBets       int
	Credited     decimal.Decimal
	TotalWagered decimal.Decimal
	Leagues      map[string]*LeagueTotals
}

func (s *Summary) league(code string) *LeagueTotals {
	if s.Leagues == nil {
		s.Leagues = make(map[string]*LeagueTotals)
	}
	lt, ok := s.Leagues[code]
	if !ok {
		lt = &LeagueTotals{}
		s.Leagues[code] = lt
	}
	return lt
}

// Settler settles open bets against concluded fixture results and
// credits winnings back through the ledger.
type Settler struct {
	repo    repository.BetRepository
	results ResultSource
	ledger  *ledger.Ledger
	audit   *logger.AuditLogger
	logger  *logrus.Entry
}

// New creates a settler
func New(
	repo repository.BetRepository,
	results ResultSource,
	led *ledger.Ledger,
	audit *logger.AuditLogger,
	log *logrus.Logger,
) *Settler {
	return &Settler{
		repo:    repo,
		results: results,
		ledger:  led,
		audit:   audit,
		logger:  log.WithField("component", "settlement"),
	}
}

// Run finds every unsettled bet, resolves those whose fixture has
// concluded and credits winnings. Fixtures still in play stay pending
// and are picked up on the next run.
func (s *Settler) Run(ctx context.Context) (*Summary, error) {
	ctx, finish := tracing.StartSegment(ctx, "settlement-run")

	open, err := s.repo.GetUnsettled(ctx)
	if err != nil {
		finish(err)
		return nil, err
	}

	summary := &Summary{Examined: len(open)}
	for _, record := range open {
		if err := ctx.Err(); err != nil {
			finish(err)
			return summary, err
		}
		if err := s.settleOne(ctx, record, summary); err != nil {
			finish(err)
			return summary, err
		}
	}
	finish(nil)

	metrics.UpdateConsolidatedBankroll(s.ledger.Consolidated().Bankroll)

	s.logger.WithFields(logrus.Fields{
		"examined": summary.Examined,
		"settled":  summary.Settled,
		"pending":  summary.Pending,
		"wins":     summary.Wins,
		"losses":   summary.Losses,
		"credited": summary.Credited.StringFixed(2),
	}).Info("Settlement run complete")

	return summary, nil
}

func (s *Settler) settleOne(ctx context.Context, record *models.BetRecord, summary *Summary) error {
	log := s.logger.WithFields(logrus.Fields{
		"game_id": record.GameID,
		"league":  record.LeagueCode,
	})

	result, err := s.results.FixtureResult(ctx, record.GameID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			summary.Pending++
			log.Debug("Fixture not concluded yet")
			return nil
		}
		return err
	}

	Resolve(record, result)
	totals := summary.league(record.LeagueCode)

	switch *record.Result {
	case models.BetResultWin:
		summary.Wins++
		totals.Wins++
		gainLoss := decimal.NewFromFloat(*record.GainLoss)
		balance, err := s.ledger.Credit(record.LeagueCode, gainLoss)
		if err != nil {
			return err
		}
		summary.Credited = summary.Credited.Add(gainLoss)
		totals.Earned = totals.Earned.Add(gainLoss)
		metrics.UpdateLeagueBankroll(record.LeagueCode, balance.InexactFloat64())
	case models.BetResultLoss:
		summary.Losses++
		totals.Losses++
	default:
		summary.NoBets++
	}

	totals.Settled++
	if record.Staked() {
		stake := decimal.NewFromFloat(record.Stake)
		summary.TotalWagered = summary.TotalWagered.Add(stake)
		totals.Wagered = totals.Wagered.Add(stake)
		totals.Profit = totals.Earned.Sub(totals.Wagered)
	}

	if err := s.repo.UpdateSettlement(ctx, record); err != nil {
		return err
	}

	summary.Settled++
	metrics.RecordBetSettled()
	s.audit.LogSettlement(record.ID.String(), record.GameID, string(*record.Result), *record.GainLoss, *record.Profit)

	log.WithFields(logrus.Fields{
		"result":    string(*record.Result),
		"gain_loss": *record.GainLoss,
		"profit":    *record.Profit,
		"yield":     *record.Yield,
	}).Info("Bet settled")

	return nil
}
