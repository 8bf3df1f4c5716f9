package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitchside/internal/config"
	"github.com/yourusername/pitchside/internal/models"
)

// Fixture statuses reported by the results API.
const (
	statusFullTime       = "FT"
	statusAfterExtraTime = "AET"
	statusAfterPenalties = "PEN"
)

// FootballAPIClient fetches fixtures and final scores from the hosted
// football results API.
type FootballAPIClient struct {
	baseURL string
	apiKey  string
	apiHost string
	http    *RateLimitedHTTPClient
	logger  *logrus.Entry
}

// NewFootballAPIClient creates a results API client
func NewFootballAPIClient(cfg *config.ResultsConfig, log *logrus.Logger) *FootballAPIClient {
	httpCfg := DefaultHTTPClientConfig()
	httpCfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	httpCfg.MaxRetries = cfg.RetryAttempts
	if cfg.RequestsPerSec > 0 {
		httpCfg.RateLimit = cfg.RequestsPerSec
	}

	return &FootballAPIClient{
		baseURL: cfg.APIURL,
		apiKey:  cfg.APIKey,
		apiHost: cfg.APIHost,
		http:    NewRateLimitedHTTPClient(httpCfg, log),
		logger:  log.WithField("component", "results_api"),
	}
}

type apiFixtureEnvelope struct {
	Response []apiFixture `json:"response"`
}

type apiFixture struct {
	Fixture struct {
		ID     int64  `json:"id"`
		Date   string `json:"date"`
		Status struct {
			Short string `json:"short"`
		} `json:"status"`
	} `json:"fixture"`
	League struct {
		ID     int    `json:"id"`
		Season int    `json:"season"`
		Round  string `json:"round"`
	} `json:"league"`
	Teams struct {
		Home struct {
			Name string `json:"name"`
		} `json:"home"`
		Away struct {
			Name string `json:"name"`
		} `json:"away"`
	} `json:"teams"`
	Goals struct {
		Home *int `json:"home"`
		Away *int `json:"away"`
	} `json:"goals"`
}

// UpcomingFixtures returns the next count fixtures for a league
func (c *FootballAPIClient) UpcomingFixtures(ctx context.Context, leagueID int, leagueCode string, count int) ([]models.Fixture, error) {
	q := url.Values{}
	q.Set("league", strconv.Itoa(leagueID))
	q.Set("next", strconv.Itoa(count))

	env, err := c.get(ctx, "/fixtures", q)
	if err != nil {
		return nil, err
	}

	fixtures := make([]models.Fixture, 0, len(env.Response))
	for _, af := range env.Response {
		date, err := time.Parse(time.RFC3339, af.Fixture.Date)
		if err != nil {
			return nil, fmt.Errorf("fixture %d: invalid date %q: %w", af.Fixture.ID, af.Fixture.Date, err)
		}
		fixtures = append(fixtures, models.Fixture{
			GameID:     af.Fixture.ID,
			Date:       date,
			HomeTeam:   af.Teams.Home.Name,
			AwayTeam:   af.Teams.Away.Name,
			LeagueCode: leagueCode,
			Season:     strconv.Itoa(af.League.Season),
			Round:      af.League.Round,
		})
	}

	c.logger.WithFields(logrus.Fields{
		"league":   leagueCode,
		"fixtures": len(fixtures),
	}).Debug("Fetched upcoming fixtures")

	return fixtures, nil
}

// FixtureResult returns the final score for a concluded fixture. A fixture
// that has not finished yet surfaces models.ErrNotFound so settlement can
// skip it and try again on the next run.
func (c *FootballAPIClient) FixtureResult(ctx context.Context, gameID int64) (*models.FixtureResult, error) {
	q := url.Values{}
	q.Set("id", strconv.FormatInt(gameID, 10))

	env, err := c.get(ctx, "/fixtures", q)
	if err != nil {
		return nil, err
	}
	if len(env.Response) == 0 {
		return nil, fmt.Errorf("fixture %d: %w", gameID, models.ErrNotFound)
	}

	af := env.Response[0]
	if !fixtureConcluded(af.Fixture.Status.Short) || af.Goals.Home == nil || af.Goals.Away == nil {
		return nil, fmt.Errorf("fixture %d not concluded (status %s): %w",
			gameID, af.Fixture.Status.Short, models.ErrNotFound)
	}

	return &models.FixtureResult{
		GameID:    gameID,
		HomeGoals: *af.Goals.Home,
		AwayGoals: *af.Goals.Away,
		Result:    fullTimeOutcome(*af.Goals.Home, *af.Goals.Away),
	}, nil
}

func (c *FootballAPIClient) get(ctx context.Context, path string, q url.Values) (*apiFixtureEnvelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build results request: %w", err)
	}
	req.Header.Set("x-rapidapi-key", c.apiKey)
	req.Header.Set("x-rapidapi-host", c.apiHost)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("results request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("results API returned status %d", resp.StatusCode)
	}

	var env apiFixtureEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("failed to decode results response: %w", err)
	}
	return &env, nil
}

// Close releases the underlying HTTP client
func (c *FootballAPIClient) Close() error {
	return c.http.Close()
}

func fixtureConcluded(status string) bool {
	switch status {
	case statusFullTime, statusAfterExtraTime, statusAfterPenalties:
		return true
	default:
		return false
	}
}

func fullTimeOutcome(homeGoals, awayGoals int) models.Outcome {
	switch {
	case homeGoals > awayGoals:
		return models.OutcomeHome
	case homeGoals < awayGoals:
		return models.OutcomeAway
	default:
		return models.OutcomeDraw
	}
}
