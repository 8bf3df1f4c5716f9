package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitchside/internal/bookmaker"
	"github.com/yourusername/pitchside/internal/config"
	"github.com/yourusername/pitchside/internal/ledger"
	"github.com/yourusername/pitchside/internal/metrics"
	"github.com/yourusername/pitchside/internal/models"
	"github.com/yourusername/pitchside/internal/ratings"
	"github.com/yourusername/pitchside/internal/repository"
)

// maxPlacementAttempts bounds how often a fixture may reach the
// bookmaker: the first attempt plus one retry after a FAILED placement.
const maxPlacementAttempts = 2

// Engine runs the placement state machine for one strategy. Fixtures
// move PENDING -> {EXCLUDED, STAKE_TOO_LOW, SUCCESS, FAILED}; every
// evaluated fixture leaves a persisted record behind. The engine is
// strictly sequential and must not be shared across goroutines.
type Engine struct {
	repo      repository.BetRepository
	book      bookmaker.Client
	ledger    *ledger.Ledger
	evaluator *Evaluator
	pacer     *bookmaker.Pacer
	logger    *logrus.Entry
}

// New creates a decision engine
func New(
	repo repository.BetRepository,
	book bookmaker.Client,
	led *ledger.Ledger,
	evaluator *Evaluator,
	pacer *bookmaker.Pacer,
	log *logrus.Logger,
) *Engine {
	return &Engine{
		repo:      repo,
		book:      book,
		ledger:    led,
		evaluator: evaluator,
		pacer:     pacer,
		logger:    log.WithField("component", "engine"),
	}
}

// ProcessFixture evaluates one fixture and, when it carries value, places
// a bet. The returned record reflects the fixture's final status for this
// run; a nil record means the fixture was skipped as already handled.
// Only a bankroll shortfall aborts the run: every other failure is
// recorded on the fixture and the caller moves on.
func (e *Engine) ProcessFixture(ctx context.Context, fixture models.Fixture, leagueRef config.LeagueRef, arena *ratings.Arena) (*models.BetRecord, error) {
	log := e.logger.WithFields(logrus.Fields{
		"game_id": fixture.GameID,
		"league":  fixture.LeagueCode,
		"match":   fixture.HomeTeam + " v " + fixture.AwayTeam,
	})

	attempts, skip, err := e.resolveExisting(ctx, fixture.GameID, log)
	if err != nil {
		return nil, err
	}
	if skip {
		return nil, nil
	}

	league, err := e.ledger.League(fixture.LeagueCode)
	if err != nil {
		return nil, err
	}

	rating, err := arena.ComputeRatings(fixture.HomeTeam, fixture.AwayTeam)
	if err != nil {
		return nil, fmt.Errorf("fixture %d: %w", fixture.GameID, err)
	}

	if err := e.pacer.Wait(ctx); err != nil {
		return nil, err
	}
	gameRef, err := e.book.FindGameRef(ctx, leagueRef.BookmakerRef, fixture)
	if err != nil {
		return nil, err
	}
	quote, err := e.book.QuoteOdds(ctx, gameRef)
	if err != nil {
		return nil, err
	}

	bankroll, err := e.ledger.Balance(fixture.LeagueCode)
	if err != nil {
		return nil, err
	}

	decision := e.evaluator.Evaluate(league, rating, *quote, bankroll)
	record := buildRecord(fixture, league, *quote, decision)
	record.Attempts = attempts + 1

	// An excluded fixture never reaches the bookmaker: no limit, balance
	// or placement call is made for it.
	if !decision.Backable {
		record.Status = models.BetStatusExcluded
		metrics.RecordBetExcluded()
		log.WithFields(logrus.Fields{
			"pick":  string(decision.Pick),
			"value": decision.Value.String(),
		}).Info("Fixture excluded")
		return record, e.repo.Create(ctx, record)
	}

	limits, err := e.book.StakeLimits(ctx, gameRef, decision.Pick, decision.PickOdds)
	if err != nil {
		record.Status = models.BetStatusFailed
		metrics.RecordBetFailed()
		log.WithError(err).Warn("Stake limit lookup failed")
		if createErr := e.repo.Create(ctx, record); createErr != nil {
			return nil, createErr
		}
		return record, nil
	}

	stake := decision.Stake
	if stake.LessThan(limits.Min) {
		record.Status = models.BetStatusStakeTooLow
		metrics.RecordStakeTooLow()
		log.WithFields(logrus.Fields{
			"stake":     stake.StringFixed(2),
			"min_stake": limits.Min.String(),
		}).Info("Stake below bookmaker minimum")
		return record, e.repo.Create(ctx, record)
	}

	// The shortfall gate sees the stake as sized by the policy; clamping
	// to the bookmaker maximum happens only after the account has proven
	// it can cover the full amount.
	balance, err := e.book.Balance(ctx)
	if err != nil {
		log.WithError(err).Warn("Balance lookup failed, treating as zero")
		balance = decimal.Zero
	}
	if balance.LessThanOrEqual(stake) {
		return nil, fmt.Errorf("bookmaker balance %s against stake %s: %w",
			balance.StringFixed(2), stake.StringFixed(2), models.ErrBalanceShortfall)
	}

	if limits.Max.IsPositive() && stake.GreaterThan(limits.Max) {
		log.WithFields(logrus.Fields{
			"stake":     stake.StringFixed(2),
			"max_stake": limits.Max.String(),
		}).Warn("Stake clamped to bookmaker maximum")
		stake = limits.Max
		record.Stake = stake.InexactFloat64()
	}

	if err := e.pacer.Wait(ctx); err != nil {
		return nil, err
	}

	start := time.Now()
	placed, err := e.book.PlaceBet(ctx, gameRef, decision.Pick, stake, decision.PickOdds)
	metrics.BetPlacementLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		record.Status = models.BetStatusFailed
		metrics.RecordBetFailed()
		log.WithError(err).Warn("Bet placement failed")
		if createErr := e.repo.Create(ctx, record); createErr != nil {
			return nil, createErr
		}
		return record, nil
	}

	// Debit before persisting so a crash can only lose the record, never
	// double-spend the bankroll.
	newBalance, err := e.ledger.Debit(fixture.LeagueCode, stake)
	if err != nil {
		return nil, err
	}

	record.Status = models.BetStatusSuccess
	record.BookmakerRef = placed.GameRef
	record.BankrollAfter = newBalance.InexactFloat64()
	metrics.RecordBetPlaced()
	metrics.UpdateLeagueBankroll(fixture.LeagueCode, record.BankrollAfter)

	log.WithFields(logrus.Fields{
		"pick":           string(decision.Pick),
		"odds":           decision.PickOdds.String(),
		"stake":          stake.StringFixed(2),
		"value":          decision.Value.String(),
		"bankroll_after": record.BankrollAfter,
	}).Info("Bet placed")

	return record, e.repo.Create(ctx, record)
}

// resolveExisting applies the idempotency rules for a fixture that may
// already carry a record. SUCCESS and the no-bet terminals are final; a
// FAILED record is deleted to free the slot for exactly one more attempt.
func (e *Engine) resolveExisting(ctx context.Context, gameID int64, log *logrus.Entry) (attempts int, skip bool, err error) {
	existing, err := e.repo.GetByGameID(ctx, gameID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}

	switch existing.Status {
	case models.BetStatusFailed:
		if existing.Attempts >= maxPlacementAttempts {
			log.WithField("attempts", existing.Attempts).Info("Fixture exhausted placement attempts")
			return 0, true, nil
		}
		if err := e.repo.Delete(ctx, gameID); err != nil {
			return 0, false, err
		}
		log.Info("Retrying previously failed placement")
		return existing.Attempts, false, nil
	default:
		log.WithField("status", string(existing.Status)).Debug("Fixture already handled")
		return 0, true, nil
	}
}

func buildRecord(fixture models.Fixture, league models.LeagueSnapshot, quote models.OddsQuote, d *Decision) *models.BetRecord {
	home := d.Line(models.OutcomeHome)
	draw := d.Line(models.OutcomeDraw)
	away := d.Line(models.OutcomeAway)

	return &models.BetRecord{
		GameID:     fixture.GameID,
		Date:       fixture.Date,
		HomeTeam:   fixture.HomeTeam,
		AwayTeam:   fixture.AwayTeam,
		Season:     fixture.Season,
		LeagueCode: fixture.LeagueCode,
		LeagueName: league.Name,
		Round:      fixture.Round,

		Bookmaker:    quote.Bookmaker,
		BookmakerRef: quote.GameRef,

		HomeOdds: home.Odds.InexactFloat64(),
		DrawOdds: draw.Odds.InexactFloat64(),
		AwayOdds: away.Odds.InexactFloat64(),

		HomeImplied: home.Implied.InexactFloat64(),
		DrawImplied: draw.Implied.InexactFloat64(),
		AwayImplied: away.Implied.InexactFloat64(),
		Vig:         d.Vig.InexactFloat64(),

		HomeRating:  float64(d.Rating.Home),
		AwayRating:  float64(d.Rating.Away),
		MatchRating: float64(d.Rating.Match),

		TrueHomeProb: home.TrueProb.InexactFloat64(),
		TrueDrawProb: draw.TrueProb.InexactFloat64(),
		TrueAwayProb: away.TrueProb.InexactFloat64(),

		FairHomeOdds: home.FairOdds.InexactFloat64(),
		FairDrawOdds: draw.FairOdds.InexactFloat64(),
		FairAwayOdds: away.FairOdds.InexactFloat64(),

		HomeValue: home.Value.InexactFloat64(),
		DrawValue: draw.Value.InexactFloat64(),
		AwayValue: away.Value.InexactFloat64(),

		HomeStake: home.Stake.InexactFloat64(),
		DrawStake: draw.Stake.InexactFloat64(),
		AwayStake: away.Stake.InexactFloat64(),

		Pick:     d.Pick,
		PickOdds: d.PickOdds.InexactFloat64(),
		Value:    d.Value.InexactFloat64(),
		Stake:    d.Stake.InexactFloat64(),

		Status: models.BetStatusPending,
	}
}

// Balance exposes the ledger balance for a league, used by orchestration
// for run summaries.
func (e *Engine) Balance(league string) (decimal.Decimal, error) {
	return e.ledger.Balance(league)
}
