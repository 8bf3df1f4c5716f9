// Package ratings derives team strength ratings from historical results
// and maps match ratings to true outcome probabilities using league
// calibration coefficients.
package ratings

import (
	"fmt"
	"sort"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/pitchside/internal/models"
)

// DefaultWindow is the trailing number of matches summed into a rating
const DefaultWindow = 6

// Sample is one historical observation for a team: the signed goal
// differential of a finished match, positive when the team outscored
// its opponent.
type Sample struct {
	Date     time.Time
	GoalDiff int
}

// TeamTable holds a team's goal-differential history ordered by match date
type TeamTable struct {
	Team    string
	samples []Sample
}

// Append records one observation. Samples may arrive out of order; the
// table keeps them sorted by date.
func (t *TeamTable) Append(date time.Time, goalDiff int) {
	t.samples = append(t.samples, Sample{Date: date, GoalDiff: goalDiff})
	sort.SliceStable(t.samples, func(i, j int) bool {
		return t.samples[i].Date.Before(t.samples[j].Date)
	})
}

// Matches returns the number of recorded observations
func (t *TeamTable) Matches() int {
	return len(t.samples)
}

// Rating returns the trailing sum of the most recent window observations.
// A team with fewer than window prior matches has no defined rating: that
// is an error, never a silent zero, because a zero here would corrupt the
// probability estimate downstream.
func (t *TeamTable) Rating(window int) (int, error) {
	if window <= 0 {
		window = DefaultWindow
	}
	if len(t.samples) < window {
		return 0, fmt.Errorf("%w: %s has %d of %d required matches",
			models.ErrInsufficientHistory, t.Team, len(t.samples), window)
	}

	sum := 0
	for _, s := range t.samples[len(t.samples)-window:] {
		sum += s.GoalDiff
	}
	return sum, nil
}

// MatchRating is the pair of team ratings and their signed difference
type MatchRating struct {
	Home  int
	Away  int
	Match int
}

// Arena is the run-scoped store of per-team rating tables, built once per
// league from its historical results table. It replaces the file-backed
// per-team caches the rating job used to share between worker processes;
// runs are strictly sequential so nothing persists between them.
type Arena struct {
	tables *cache.Cache
	window int
}

// NewArena creates an empty arena with the given trailing window
func NewArena(window int) *Arena {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Arena{
		tables: cache.New(cache.NoExpiration, cache.NoExpiration),
		window: window,
	}
}

// Load folds a league's historical results into per-team tables. Each
// match contributes one sample to each side, signed from that side's
// perspective.
func (a *Arena) Load(results []models.MatchResult) {
	for _, r := range results {
		a.table(r.HomeTeam).Append(r.Date, r.HomeGoals-r.AwayGoals)
		a.table(r.AwayTeam).Append(r.Date, r.AwayGoals-r.HomeGoals)
	}
}

// Table returns the rating table for a team, if the team has any history
func (a *Arena) Table(team string) (*TeamTable, bool) {
	v, found := a.tables.Get(team)
	if !found {
		return nil, false
	}
	return v.(*TeamTable), true
}

// ComputeRatings returns both team ratings and the match rating for an
// upcoming fixture. All recorded history predates the fixture, so the
// trailing sum already excludes the match being rated.
func (a *Arena) ComputeRatings(home, away string) (MatchRating, error) {
	homeRating, err := a.teamRating(home)
	if err != nil {
		return MatchRating{}, err
	}
	awayRating, err := a.teamRating(away)
	if err != nil {
		return MatchRating{}, err
	}

	return MatchRating{
		Home:  homeRating,
		Away:  awayRating,
		Match: homeRating - awayRating,
	}, nil
}

func (a *Arena) teamRating(team string) (int, error) {
	table, found := a.Table(team)
	if !found {
		return 0, fmt.Errorf("%w: no results recorded for %s", models.ErrInsufficientHistory, team)
	}
	return table.Rating(a.window)
}

func (a *Arena) table(team string) *TeamTable {
	if v, found := a.tables.Get(team); found {
		return v.(*TeamTable)
	}
	t := &TeamTable{Team: team}
	a.tables.Set(team, t, cache.NoExpiration)
	return t
}
