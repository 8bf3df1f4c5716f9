// Package settlement resolves concluded fixtures against their bet
// records and returns winnings to the league bankrolls.
package settlement

import (
	"github.com/shopspring/decimal"

	"github.com/yourusername/pitchside/internal/models"
)

var hundred = decimal.NewFromInt(100)

// Resolve writes the settlement fields of a record from a concluded
// fixture's result. Staked records settle W or L with their money
// figures; records where no money went down settle NB with zeros.
// The record is mutated in place and returned.
func Resolve(record *models.BetRecord, result *models.FixtureResult) *models.BetRecord {
	record.HomeGoals = &result.HomeGoals
	record.AwayGoals = &result.AwayGoals
	fullTime := result.Result
	record.FullTime = &fullTime

	if !record.Staked() {
		noBet := models.BetResultNoBet
		zero := 0.0
		record.Result = &noBet
		record.GainLoss = &zero
		record.Profit = new(float64)
		record.Yield = new(float64)
		return record
	}

	stake := decimal.NewFromFloat(record.Stake)
	odds := decimal.NewFromFloat(record.PickOdds)

	gainLoss := decimal.Zero
	outcome := models.BetResultLoss
	if record.Pick == result.Result {
		outcome = models.BetResultWin
		gainLoss = stake.Mul(odds).Round(2)
	}
	profit := gainLoss.Sub(stake)

	yield := decimal.Zero
	if stake.IsPositive() {
		yield = profit.Div(stake).Mul(hundred).Round(2)
	}

	record.Result = &outcome
	gl := gainLoss.InexactFloat64()
	pf := profit.InexactFloat64()
	yd := yield.InexactFloat64()
	record.GainLoss = &gl
	record.Profit = &pf
	record.Yield = &yd

	return record
}
