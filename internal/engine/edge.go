// Package engine decides which fixtures to back and drives bet placement.
package engine

import "github.com/shopspring/decimal"

var one = decimal.NewFromInt(1)

// Value is the expected return per unit staked: p*odds - 1. Zero odds
// (an unpriced outcome) give -1, which can never be backed.
func Value(trueProb, quotedOdds decimal.Decimal) decimal.Decimal {
	return trueProb.Mul(quotedOdds).Sub(one)
}
