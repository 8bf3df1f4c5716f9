package engine

import (
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitchside/internal/metrics"
	"github.com/yourusername/pitchside/internal/models"
	"github.com/yourusername/pitchside/internal/odds"
	"github.com/yourusername/pitchside/internal/ratings"
	"github.com/yourusername/pitchside/internal/staking"
)

// OutcomeLine is one side of the market fully evaluated
type OutcomeLine struct {
	Outcome  models.Outcome
	Odds     decimal.Decimal
	Implied  decimal.Decimal
	TrueProb decimal.Decimal
	FairOdds decimal.Decimal
	Value    decimal.Decimal
	Stake    decimal.Decimal
}

// Decision is the full evaluation of one fixture against one quote
type Decision struct {
	Rating ratings.MatchRating
	Vig    decimal.Decimal
	Lines  [3]OutcomeLine

	Pick     models.Outcome
	PickOdds decimal.Decimal
	Value    decimal.Decimal
	Stake    decimal.Decimal

	// Backable is true when the picked outcome carries positive value
	// and sits on a side the staking policy backs
	Backable bool
}

// Line returns the evaluated line for one outcome
func (d *Decision) Line(outcome models.Outcome) OutcomeLine {
	for _, line := range d.Lines {
		if line.Outcome == outcome {
			return line
		}
	}
	return OutcomeLine{}
}

// Evaluator turns a match rating and an odds quote into a Decision
type Evaluator struct {
	policy staking.Policy
	logger *logrus.Logger
}

// NewEvaluator creates an evaluator using the given staking policy
func NewEvaluator(policy staking.Policy, log *logrus.Logger) *Evaluator {
	return &Evaluator{policy: policy, logger: log}
}

// Evaluate computes probabilities, edge and stake for every outcome and
// picks the most valuable one. Unpriced outcomes carry zero odds, so
// their value computes to -1 and they fall out of contention naturally.
// Ties resolve in canonical order: home, draw, away.
func (e *Evaluator) Evaluate(league models.LeagueSnapshot, rating ratings.MatchRating, quote models.OddsQuote, bankroll decimal.Decimal) *Decision {
	model := ratings.NewProbabilityModel(league, e.logger)
	probs := model.Outcome(rating.Match)
	if probs.Draw.IsNegative() {
		metrics.RecordNegativeDrawProb()
	}

	trueProb := map[models.Outcome]decimal.Decimal{
		models.OutcomeHome: probs.Home,
		models.OutcomeDraw: probs.Draw,
		models.OutcomeAway: probs.Away,
	}

	d := &Decision{Rating: rating}

	for i, outcome := range models.CanonicalOutcomes {
		quoted := quote.ForOutcome(outcome)
		p := trueProb[outcome]

		line := OutcomeLine{
			Outcome:  outcome,
			Odds:     quoted,
			Implied:  odds.ImpliedProbability(quoted),
			TrueProb: p,
			FairOdds: ratings.FairOdds(p, quoted),
			Value:    Value(p, quoted),
		}
		if line.Value.IsPositive() {
			line.Stake = e.policy.Stake(bankroll, line.Value, quoted).Round(2)
		}
		d.Lines[i] = line
	}

	d.Vig = odds.Overround(d.Lines[0].Implied, d.Lines[1].Implied, d.Lines[2].Implied)

	// First maximum in canonical order wins ties.
	best := d.Lines[0]
	for _, line := range d.Lines[1:] {
		if line.Value.GreaterThan(best.Value) {
			best = line
		}
	}

	d.Pick = best.Outcome
	d.PickOdds = best.Odds
	d.Value = best.Value
	d.Stake = best.Stake
	d.Backable = best.Value.IsPositive() && e.policy.Backs(best.Outcome)

	metrics.RecordFixtureEvaluated(d.Vig.InexactFloat64())

	return d
}
