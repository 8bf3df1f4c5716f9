package ratings

import (
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitchside/internal/models"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// Probabilities are the model's true outcome probabilities for a fixture.
// Draw is the residual 1 - home - away and may come out negative when the
// league coefficients are mis-calibrated; that is a data-quality signal
// the model surfaces rather than clamps away.
type Probabilities struct {
	Home decimal.Decimal
	Draw decimal.Decimal
	Away decimal.Decimal
}

// ProbabilityModel maps a match rating to outcome probabilities using one
// league's calibration coefficients.
type ProbabilityModel struct {
	home   models.WinCoefficients
	away   models.WinCoefficients
	league string
	logger *logrus.Logger
}

// NewProbabilityModel builds a model from a league snapshot
func NewProbabilityModel(league models.LeagueSnapshot, logger *logrus.Logger) *ProbabilityModel {
	return &ProbabilityModel{
		home:   league.Home,
		away:   league.Away,
		league: league.Code,
		logger: logger,
	}
}

// Outcome computes true probabilities for a match rating. Home win is a
// linear regression on the rating, away win a quadratic, both expressed
// in percentage points by the calibration.
func (m *ProbabilityModel) Outcome(matchRating int) Probabilities {
	mr := decimal.NewFromInt(int64(matchRating))

	homePct := decimal.NewFromFloat(m.home.Beta).Mul(mr).
		Add(decimal.NewFromFloat(m.home.Constant))
	home := clampUnit(homePct.Div(hundred))

	awayPct := decimal.NewFromFloat(m.away.BetaSquared).Mul(mr).Mul(mr).
		Add(decimal.NewFromFloat(m.away.Beta).Mul(mr)).
		Add(decimal.NewFromFloat(m.away.Constant))
	away := awayPct.Div(hundred)

	draw := one.Sub(home).Sub(away)
	if draw.IsNegative() && m.logger != nil {
		m.logger.WithFields(logrus.Fields{
			"league":       m.league,
			"match_rating": matchRating,
			"draw_prob":    draw.String(),
		}).Warn("Negative residual draw probability; league calibration is suspect")
	}

	return Probabilities{Home: home, Draw: draw, Away: away}
}

// FairOdds returns 1/p for a positive probability. A probability at or
// below zero has no fair price; the quoted market odds are substituted.
// Display only, never an input to the edge computation.
func FairOdds(p decimal.Decimal, quoted decimal.Decimal) decimal.Decimal {
	if p.LessThanOrEqual(decimal.Zero) {
		return quoted
	}
	return one.Div(p)
}

func clampUnit(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	if d.GreaterThan(one) {
		return one
	}
	return d
}
