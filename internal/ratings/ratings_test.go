package ratings

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pitchside/internal/models"
)

func day(n int) time.Time {
	return time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func TestTeamTableRating(t *testing.T) {
	table := &TeamTable{Team: "Leeds"}
	for i, gd := range []int{1, -1, 2, 0, 1, -2} {
		table.Append(day(i), gd)
	}

	rating, err := table.Rating(DefaultWindow)
	require.NoError(t, err)
	assert.Equal(t, 1, rating, "trailing sum of the six differentials")
}

func TestTeamTableRatingUsesMostRecentWindow(t *testing.T) {
	table := &TeamTable{Team: "Leeds"}
	// Older results fall out of the window.
	for i, gd := range []int{5, 5, 1, -1, 2, 0, 1, -2} {
		table.Append(day(i), gd)
	}

	rating, err := table.Rating(6)
	require.NoError(t, err)
	assert.Equal(t, 1, rating)
}

func TestTeamTableRatingInsufficientHistory(t *testing.T) {
	table := &TeamTable{Team: "Wrexham"}
	for i, gd := range []int{1, 0, 2, -1, 3} {
		table.Append(day(i), gd)
	}

	_, err := table.Rating(6)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrInsufficientHistory)
}

func TestTeamTableOrdersSamplesByDate(t *testing.T) {
	table := &TeamTable{Team: "Leeds"}
	table.Append(day(10), -3)
	for i, gd := range []int{1, -1, 2, 0, 1, -2} {
		table.Append(day(i), gd)
	}

	rating, err := table.Rating(6)
	require.NoError(t, err)
	// Window is the six most recent by date: [-1 2 0 1 -2 -3].
	assert.Equal(t, -3, rating)
}

func leagueResults() []models.MatchResult {
	results := make([]models.MatchResult, 0, 12)
	scores := [][2]int{{2, 1}, {0, 0}, {3, 1}, {1, 2}, {2, 2}, {1, 0}}
	for i, s := range scores {
		results = append(results, models.MatchResult{
			Date: day(i), HomeTeam: "Arsenal", AwayTeam: "Spurs",
			HomeGoals: s[0], AwayGoals: s[1],
		})
	}
	return results
}

func TestArenaComputeRatings(t *testing.T) {
	arena := NewArena(6)
	arena.Load(leagueResults())

	// Arsenal differentials: +1 0 +2 -1 0 +1 = 3; Spurs mirror: -3.
	rating, err := arena.ComputeRatings("Arsenal", "Spurs")
	require.NoError(t, err)
	assert.Equal(t, 3, rating.Home)
	assert.Equal(t, -3, rating.Away)
	assert.Equal(t, 6, rating.Match)
}

func TestArenaUnknownTeam(t *testing.T) {
	arena := NewArena(6)
	arena.Load(leagueResults())

	_, err := arena.ComputeRatings("Arsenal", "Chelsea")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrInsufficientHistory)
}

func newTestModel() *ProbabilityModel {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return NewProbabilityModel(models.LeagueSnapshot{
		Code: "E0",
		Home: models.WinCoefficients{Beta: 1.2, Constant: 42.0},
		Away: models.WinCoefficients{BetaSquared: 0.02, Beta: -1.1, Constant: 28.0},
	}, logger)
}

func TestProbabilityModelOutcome(t *testing.T) {
	model := newTestModel()

	probs := model.Outcome(5)

	// home: (1.2*5 + 42)/100 = 0.48
	assert.Equal(t, "0.48", probs.Home.String())
	// away: (0.02*25 - 1.1*5 + 28)/100 = 0.23
	assert.Equal(t, "0.23", probs.Away.String())
	// draw: residual
	assert.Equal(t, "0.29", probs.Draw.String())
}

func TestProbabilityModelClampsHome(t *testing.T) {
	model := newTestModel()

	probs := model.Outcome(100)
	assert.True(t, probs.Home.Equal(decimal.NewFromInt(1)), "home probability clamped to 1")

	probs = model.Outcome(-100)
	assert.True(t, probs.Home.IsZero(), "home probability clamped to 0")
}

func TestProbabilityModelSurfacesNegativeDraw(t *testing.T) {
	model := newTestModel()

	// Large rating pushes home to the clamp and away positive enough
	// that the residual goes negative.
	probs := model.Outcome(60)
	assert.True(t, probs.Draw.IsNegative(), "mis-calibration must stay visible, not be clamped")
}

func TestFairOdds(t *testing.T) {
	quoted := decimal.RequireFromString("3.4")

	fair := FairOdds(decimal.RequireFromString("0.5"), quoted)
	assert.Equal(t, "2", fair.String())

	fair = FairOdds(decimal.Zero, quoted)
	assert.True(t, fair.Equal(quoted), "non-positive probability falls back to the quote")

	fair = FairOdds(decimal.RequireFromString("-0.05"), quoted)
	assert.True(t, fair.Equal(quoted))
}
