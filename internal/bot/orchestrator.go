// Package bot orchestrates placement runs: one pass over every
// configured league, strictly sequential, evaluating each upcoming
// fixture through the decision engine.
package bot

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitchside/internal/config"
	"github.com/yourusername/pitchside/internal/logger"
	"github.com/yourusername/pitchside/internal/models"
	"github.com/yourusername/pitchside/internal/ratings"
	"github.com/yourusername/pitchside/internal/repository"
	"github.com/yourusername/pitchside/internal/tracing"
)

// upcomingFixtureCount bounds how many fixtures ahead each league fetches
const upcomingFixtureCount = 10

// Placer runs the decision state machine for one fixture
type Placer interface {
	ProcessFixture(ctx context.Context, fixture models.Fixture, leagueRef config.LeagueRef, arena *ratings.Arena) (*models.BetRecord, error)
	Balance(league string) (decimal.Decimal, error)
}

// FixtureSource provides upcoming fixtures for a league
type FixtureSource interface {
	UpcomingFixtures(ctx context.Context, leagueID int, leagueCode string, count int) ([]models.Fixture, error)
}

// HistorySource loads a league's historical results table
type HistorySource interface {
	Results(path string) ([]models.MatchResult, error)
}

// Orchestrator drives one placement run across all configured leagues.
// Leagues run in deterministic order; a failure in one league is logged
// and the run moves on. Only a bankroll shortfall or a cancelled
// context aborts the whole run.
type Orchestrator struct {
	cfg         *config.Config
	engine      Placer
	fixtures    FixtureSource
	history     HistorySource
	fixtureRepo repository.FixtureRepository
	audit       *logger.AuditLogger
	logger      *logrus.Entry
}

// New creates a placement orchestrator
func New(
	cfg *config.Config,
	engine Placer,
	fixtures FixtureSource,
	history HistorySource,
	fixtureRepo repository.FixtureRepository,
	audit *logger.AuditLogger,
	log *logrus.Logger,
) *Orchestrator {
	return &Orchestrator{
		cfg:         cfg,
		engine:      engine,
		fixtures:    fixtures,
		history:     history,
		fixtureRepo: fixtureRepo,
		audit:       audit,
		logger:      log.WithField("component", "orchestrator"),
	}
}

// Run executes one placement pass over every configured league and
// always returns a summary of however far it got.
func (o *Orchestrator) Run(ctx context.Context) (*RunSummary, error) {
	ctx, finish := tracing.StartSegment(ctx, "placement-run")
	summary := &RunSummary{StartedAt: time.Now()}

	for _, code := range o.cfg.LeagueCodes() {
		ref := o.cfg.Strategy.Leagues[code]

		run, err := o.runLeague(ctx, code, ref)
		summary.Leagues = append(summary.Leagues, run)
		if err != nil {
			if errors.Is(err, models.ErrBalanceShortfall) || ctx.Err() != nil {
				summary.FinishedAt = time.Now()
				finish(err)
				return summary, err
			}
			o.logger.WithField("league", code).WithError(err).Error("League run failed, moving on")
		}
	}

	summary.FinishedAt = time.Now()
	finish(nil)
	o.logger.WithFields(logrus.Fields{
		"leagues":  len(summary.Leagues),
		"fixtures": summary.Fixtures(),
		"placed":   summary.Placed(),
		"errors":   summary.Errors(),
		"duration": summary.FinishedAt.Sub(summary.StartedAt).String(),
	}).Info("Placement run complete")

	return summary, nil
}

func (o *Orchestrator) runLeague(ctx context.Context, code string, ref config.LeagueRef) (run LeagueRun, err error) {
	ctx, finish := tracing.StartSubsegment(ctx, "league-"+code)
	defer func() { finish(err) }()
	tracing.AddAnnotation(ctx, "league", code)

	run = LeagueRun{Code: code}
	log := o.logger.WithField("league", code)

	results, err := o.history.Results(o.historyPath(code, ref))
	if err != nil {
		run.Errors++
		return run, fmt.Errorf("league %s history: %w", code, err)
	}

	arena := ratings.NewArena(o.cfg.Ratings.Window)
	arena.Load(results)

	fixtures, err := o.fixtures.UpcomingFixtures(ctx, ref.ID, code, upcomingFixtureCount)
	if err != nil {
		run.Errors++
		return run, fmt.Errorf("league %s fixtures: %w", code, err)
	}
	if len(fixtures) > 0 {
		if err := o.fixtureRepo.Upsert(ctx, fixtures); err != nil {
			run.Errors++
			return run, fmt.Errorf("league %s fixture upsert: %w", code, err)
		}
	}

	log.WithFields(logrus.Fields{
		"results":  len(results),
		"fixtures": len(fixtures),
	}).Info("League loaded")

	for _, fixture := range fixtures {
		run.Fixtures++

		record, err := o.engine.ProcessFixture(ctx, fixture, ref, arena)
		if err != nil {
			if errors.Is(err, models.ErrBalanceShortfall) || ctx.Err() != nil {
				return run, err
			}
			if errors.Is(err, models.ErrInsufficientHistory) {
				log.WithField("game_id", fixture.GameID).Warn("Skipping fixture without rating history")
				run.Skipped++
				continue
			}
			run.Errors++
			log.WithField("game_id", fixture.GameID).WithError(err).Warn("Fixture failed")
			continue
		}

		run.tally(record)
		if record != nil && record.Status == models.BetStatusSuccess {
			o.audit.LogBetPlacement(record.ID.String(), record.GameID, code,
				string(record.Pick), record.Stake, record.PickOdds, record.BankrollAfter, time.Now())
		}
	}

	balance, err := o.engine.Balance(code)
	if err != nil {
		return run, err
	}
	run.Bankroll = balance

	log.WithFields(logrus.Fields{
		"fixtures": run.Fixtures,
		"placed":   run.Placed,
		"bankroll": balance.StringFixed(2),
	}).Info("League run complete")

	return run, nil
}

func (o *Orchestrator) historyPath(code string, ref config.LeagueRef) string {
	file := ref.HistoryFile
	if file == "" {
		file = code + ".csv"
	}
	return filepath.Join(o.cfg.Strategy.HistoryDir, file)
}
