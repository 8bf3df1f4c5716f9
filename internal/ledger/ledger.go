package ledger

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitchside/internal/models"
)

const (
	// DirectionDebit marks a stake leaving a bankroll.
	DirectionDebit = "debit"
	// DirectionCredit marks winnings returning to a bankroll.
	DirectionCredit = "credit"
)

// HistoryEntry is one recorded bankroll movement.
type HistoryEntry struct {
	Timestamp time.Time
	League    string
	Direction string
	Amount    float64
	Balance   float64
}

// Aggregate is the consolidated view across every league bankroll.
type Aggregate struct {
	Leagues       int
	Bankroll      float64
	TotalDebited  float64
	TotalCredited float64
	Movements     int
}

// Ledger is the sole writer of league bankrolls for one strategy. All
// callers go through Debit/Credit; every movement is rounded to two
// decimal places, applied in memory, then persisted before returning.
type Ledger struct {
	strategy string
	cfg      models.StrategyConfig
	store    *Store
	logger   *logrus.Entry

	totalDebited  decimal.Decimal
	totalCredited decimal.Decimal
	movements     int
}

// Open loads the strategy document for name and takes ownership of its
// bankrolls. An unknown strategy surfaces models.ErrNotFound from the store.
func Open(store *Store, name string, log *logrus.Logger) (*Ledger, error) {
	cfg, err := store.LoadStrategy(name)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("strategy %q: %w", name, models.ErrUnknownStrategy)
		}
		return nil, err
	}

	return &Ledger{
		strategy: name,
		cfg:      cfg,
		store:    store,
		logger:   log.WithField("component", "ledger").WithField("strategy", name),
	}, nil
}

// Strategy returns the strategy name this ledger serves.
func (l *Ledger) Strategy() string {
	return l.strategy
}

// League returns an immutable snapshot of one league's configuration.
func (l *Ledger) League(code string) (models.LeagueSnapshot, error) {
	lc, ok := l.cfg[code]
	if !ok {
		return models.LeagueSnapshot{}, fmt.Errorf("league %s: %w", code, models.ErrMissingLeagueMapping)
	}
	return models.LeagueSnapshot{
		Code:     code,
		Name:     lc.Name,
		Bankroll: lc.Bankroll,
		Home:     lc.Home,
		Away:     lc.Away,
	}, nil
}

// Balance returns the current bankroll for a league.
func (l *Ledger) Balance(code string) (decimal.Decimal, error) {
	lc, ok := l.cfg[code]
	if !ok {
		return decimal.Zero, fmt.Errorf("league %s: %w", code, models.ErrMissingLeagueMapping)
	}
	return decimal.NewFromFloat(lc.Bankroll), nil
}

// Debit removes a stake from a league bankroll and persists the new
// balance. The debit is refused when it would not leave a positive
// balance behind.
func (l *Ledger) Debit(code string, amount decimal.Decimal) (decimal.Decimal, error) {
	return l.apply(code, DirectionDebit, amount)
}

// Credit returns winnings to a league bankroll and persists the new balance.
func (l *Ledger) Credit(code string, amount decimal.Decimal) (decimal.Decimal, error) {
	return l.apply(code, DirectionCredit, amount)
}

func (l *Ledger) apply(code, direction string, amount decimal.Decimal) (decimal.Decimal, error) {
	lc, ok := l.cfg[code]
	if !ok {
		return decimal.Zero, fmt.Errorf("league %s: %w", code, models.ErrMissingLeagueMapping)
	}
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative %s of %s against league %s", direction, amount, code)
	}

	amount = amount.Round(2)
	balance := decimal.NewFromFloat(lc.Bankroll)

	var next decimal.Decimal
	switch direction {
	case DirectionDebit:
		if balance.LessThanOrEqual(amount) {
			return decimal.Zero, fmt.Errorf("debit %s against balance %s in league %s: %w",
				amount, balance, code, models.ErrBalanceShortfall)
		}
		next = balance.Sub(amount).Round(2)
		l.totalDebited = l.totalDebited.Add(amount)
	case DirectionCredit:
		next = balance.Add(amount).Round(2)
		l.totalCredited = l.totalCredited.Add(amount)
	default:
		return decimal.Zero, fmt.Errorf("unknown ledger direction %q", direction)
	}

	lc.Bankroll = next.InexactFloat64()
	l.movements++

	if err := l.store.SaveStrategy(l.strategy, l.cfg); err != nil {
		return decimal.Zero, err
	}
	if err := l.store.AppendHistory(l.strategy, HistoryEntry{
		Timestamp: time.Now(),
		League:    code,
		Direction: direction,
		Amount:    amount.InexactFloat64(),
		Balance:   lc.Bankroll,
	}); err != nil {
		return decimal.Zero, err
	}

	l.logger.WithFields(logrus.Fields{
		"league":    code,
		"direction": direction,
		"amount":    amount.InexactFloat64(),
		"balance":   lc.Bankroll,
	}).Info("Bankroll updated")

	return next, nil
}

// Snapshot returns every league's current state in league-code order.
func (l *Ledger) Snapshot() []models.LeagueSnapshot {
	codes := make([]string, 0, len(l.cfg))
	for code := range l.cfg {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	out := make([]models.LeagueSnapshot, 0, len(codes))
	for _, code := range codes {
		lc := l.cfg[code]
		out = append(out, models.LeagueSnapshot{
			Code:     code,
			Name:     lc.Name,
			Bankroll: lc.Bankroll,
			Home:     lc.Home,
			Away:     lc.Away,
		})
	}
	return out
}

// Consolidated aggregates all league bankrolls and this ledger's movements.
func (l *Ledger) Consolidated() Aggregate {
	total := decimal.Zero
	for _, lc := range l.cfg {
		total = total.Add(decimal.NewFromFloat(lc.Bankroll))
	}
	return Aggregate{
		Leagues:       len(l.cfg),
		Bankroll:      total.Round(2).InexactFloat64(),
		TotalDebited:  l.totalDebited.Round(2).InexactFloat64(),
		TotalCredited: l.totalCredited.Round(2).InexactFloat64(),
		Movements:     l.movements,
	}
}
