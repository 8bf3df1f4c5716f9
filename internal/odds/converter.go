// Package odds converts quoted odds between American, fractional and
// decimal representations and derives implied probabilities and market
// overround. All arithmetic stays in fixed-precision decimal: results are
// truncated toward zero at four significant digits. Binary-float drift
// here would change computed stakes downstream.
package odds

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Format identifies an odds representation
type Format string

const (
	FormatAmerican   Format = "american"
	FormatFractional Format = "fractional"
	FormatDecimal    Format = "decimal"
)

const significantDigits = 4

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// ToDecimal parses odds quoted in the given format and returns their
// decimal representation. Fractional odds are written "num/den".
func ToDecimal(raw string, from Format) (decimal.Decimal, error) {
	switch from {
	case FormatAmerican:
		american, err := decimal.NewFromString(strings.TrimPrefix(raw, "+"))
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid american odds %q: %w", raw, err)
		}
		if american.IsZero() {
			return decimal.Zero, fmt.Errorf("invalid american odds %q: zero", raw)
		}
		if american.IsPositive() {
			return truncateSignificant(american.Div(hundred).Add(one)), nil
		}
		return truncateSignificant(hundred.Div(american.Abs()).Add(one)), nil

	case FormatFractional:
		num, den, err := parseFraction(raw)
		if err != nil {
			return decimal.Zero, err
		}
		return truncateSignificant(num.Div(den).Add(one)), nil

	case FormatDecimal:
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid decimal odds %q: %w", raw, err)
		}
		return truncateSignificant(d), nil

	default:
		return decimal.Zero, fmt.Errorf("invalid odds format %q", from)
	}
}

// FromDecimal formats decimal odds in the requested representation.
// American odds are rounded to the nearest integer and carry an explicit
// sign; fractional odds use the closest fraction with denominator <= 1000.
func FromDecimal(d decimal.Decimal, to Format) (string, error) {
	if d.LessThanOrEqual(one) {
		return "", fmt.Errorf("decimal odds must exceed 1.0, got %s", d)
	}

	switch to {
	case FormatDecimal:
		return d.Round(2).String(), nil

	case FormatAmerican:
		var american decimal.Decimal
		if d.GreaterThanOrEqual(decimal.NewFromInt(2)) {
			american = d.Sub(one).Mul(hundred).Round(0)
			return "+" + american.String(), nil
		}
		american = hundred.Neg().Div(d.Sub(one)).Round(0)
		return american.String(), nil

	case FormatFractional:
		num, den := approximateFraction(d.Sub(one), 1000)
		return fmt.Sprintf("%d/%d", num, den), nil

	default:
		return "", fmt.Errorf("invalid odds format %q", to)
	}
}

// ImpliedProbability returns 1/odds, or zero for an unpriced outcome
// (decimal odds <= 1 are treated as missing).
func ImpliedProbability(decimalOdds decimal.Decimal) decimal.Decimal {
	if decimalOdds.LessThanOrEqual(one) {
		return decimal.Zero
	}
	return truncateSignificant(one.Div(decimalOdds))
}

// Overround returns the bookmaker margin implied by the three outcome
// probabilities. It returns exactly zero, never a negative value, when the
// market is not over-round; callers must not treat zero as unknown.
func Overround(pHome, pDraw, pAway decimal.Decimal) decimal.Decimal {
	sum := pHome.Add(pDraw).Add(pAway)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	vig := one.Sub(one.Div(sum))
	if vig.IsNegative() {
		return decimal.Zero
	}
	return truncateSignificant(vig)
}

// truncateSignificant rounds toward zero at significantDigits significant
// digits. Truncation, not half-up rounding: the original stake figures
// depend on it.
func truncateSignificant(d decimal.Decimal) decimal.Decimal {
	if d.IsZero() {
		return d
	}
	f, _ := d.Abs().Float64()
	magnitude := int32(math.Floor(math.Log10(f)))
	places := significantDigits - 1 - magnitude
	return d.RoundDown(places)
}

func parseFraction(raw string) (num, den decimal.Decimal, err error) {
	parts := strings.Split(raw, "/")
	if len(parts) != 2 {
		return decimal.Zero, decimal.Zero, fmt.Errorf("invalid fractional odds %q", raw)
	}
	num, err = decimal.NewFromString(strings.TrimSpace(parts[0]))
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("invalid fractional odds %q: %w", raw, err)
	}
	den, err = decimal.NewFromString(strings.TrimSpace(parts[1]))
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("invalid fractional odds %q: %w", raw, err)
	}
	if den.IsZero() {
		return decimal.Zero, decimal.Zero, fmt.Errorf("invalid fractional odds %q: zero denominator", raw)
	}
	return num, den, nil
}

// approximateFraction finds the best rational approximation of d with
// denominator bounded by maxDen, via continued fractions.
func approximateFraction(d decimal.Decimal, maxDen int64) (int64, int64) {
	f, _ := d.Float64()
	if f <= 0 {
		return 0, 1
	}

	var h0, h1 int64 = 0, 1
	var k0, k1 int64 = 1, 0
	x := f

	for i := 0; i < 64; i++ {
		a := int64(math.Floor(x))
		h2 := a*h1 + h0
		k2 := a*k1 + k0
		if k2 > maxDen {
			break
		}
		h0, h1 = h1, h2
		k0, k1 = k1, k2

		frac := x - math.Floor(x)
		if frac < 1e-12 {
			break
		}
		x = 1 / frac
	}

	if k1 == 0 {
		return 0, 1
	}
	return h1, k1
}
