// Package staking provides the bankroll-management policy family. Each
// policy maps (bankroll, value, odds) to a recommended stake; the factory
// selects a policy by its configured name.
package staking

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/yourusername/pitchside/internal/models"
)

// Policy sizes a stake from the league bankroll, the computed edge and
// the quoted decimal odds, and declares which market sides it is willing
// to back at all. A policy may return a negative stake for a negative
// edge; callers floor at zero.
type Policy interface {
	Name() string
	Stake(bankroll, value, odds decimal.Decimal) decimal.Decimal

	// Backs reports whether the policy stakes on the given side. Picks
	// on an unbacked side are excluded regardless of their edge.
	Backs(outcome models.Outcome) bool
}

// Config carries the tunables for every policy variant
type Config struct {
	KellyFraction float64  `mapstructure:"kelly_fraction" validate:"gt=0,lte=1"`
	Percent       float64  `mapstructure:"percent" validate:"gt=0,lte=1"`
	LevelAmount   float64  `mapstructure:"level_amount" validate:"gt=0"`
	BackableSides []string `mapstructure:"backable_sides" validate:"omitempty,dive,oneof=home draw away"`
}

// DefaultConfig returns the tunables the strategies have run with in
// production: a tenth-Kelly, 10% flat, a 10 unit level stake, and home
// wins as the only backed side.
func DefaultConfig() Config {
	return Config{
		KellyFraction: 0.1,
		Percent:       0.1,
		LevelAmount:   10,
		BackableSides: []string{string(models.OutcomeHome)},
	}
}

// New returns the policy registered under the given method name
func New(method string, cfg Config) (Policy, error) {
	sides, err := sidesFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(method) {
	case "kelly":
		return &Kelly{sideFilter: sides, Fraction: decimal.NewFromFloat(cfg.KellyFraction)}, nil
	case "percent":
		return &Percent{sideFilter: sides, Fraction: decimal.NewFromFloat(cfg.Percent)}, nil
	case "level":
		return &Level{sideFilter: sides, Amount: decimal.NewFromFloat(cfg.LevelAmount)}, nil
	default:
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownStaking, method)
	}
}

// sideFilter restricts a policy to the market sides it backs.
type sideFilter map[models.Outcome]struct{}

func (s sideFilter) Backs(outcome models.Outcome) bool {
	_, ok := s[outcome]
	return ok
}

func sidesFromConfig(cfg Config) (sideFilter, error) {
	names := cfg.BackableSides
	if len(names) == 0 {
		names = []string{string(models.OutcomeHome)}
	}
	sides := make(sideFilter, len(names))
	for _, name := range names {
		switch outcome := models.Outcome(strings.ToLower(name)); outcome {
		case models.OutcomeHome, models.OutcomeDraw, models.OutcomeAway:
			sides[outcome] = struct{}{}
		default:
			return nil, fmt.Errorf("unknown backable side %q", name)
		}
	}
	return sides, nil
}

var one = decimal.NewFromInt(1)

// Kelly is a fractional-Kelly policy. Never full Kelly: the fraction
// bounds variance on a model whose edge estimate is itself noisy.
type Kelly struct {
	sideFilter
	Fraction decimal.Decimal
}

func (k *Kelly) Name() string { return "kelly" }

// Stake returns bankroll * fraction * value / (odds - 1), zero when the
// outcome is unpriced.
func (k *Kelly) Stake(bankroll, value, odds decimal.Decimal) decimal.Decimal {
	if odds.LessThanOrEqual(one) {
		return decimal.Zero
	}
	return bankroll.Mul(k.Fraction).Mul(value).Div(odds.Sub(one))
}

// Percent stakes a constant fraction of bankroll regardless of edge or odds
type Percent struct {
	sideFilter
	Fraction decimal.Decimal
}

func (p *Percent) Name() string { return "percent" }

func (p *Percent) Stake(bankroll, _, _ decimal.Decimal) decimal.Decimal {
	return bankroll.Mul(p.Fraction)
}

// Level stakes a fixed amount; the baseline used for strategy comparison
type Level struct {
	sideFilter
	Amount decimal.Decimal
}

func (l *Level) Name() string { return "level" }

func (l *Level) Stake(_, _, _ decimal.Decimal) decimal.Decimal {
	return l.Amount
}
