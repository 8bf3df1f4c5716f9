package bookmaker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitchside/internal/config"
	"github.com/yourusername/pitchside/internal/datasource"
	"github.com/yourusername/pitchside/internal/models"
	"github.com/yourusername/pitchside/internal/odds"
)

const pinnacleName = "pinnacle"

// PinnacleClient talks to the Pinnacle REST API. Moneyline prices arrive
// as American odds and are converted to decimal before leaving this package.
type PinnacleClient struct {
	cfg          *config.BookmakerConfig
	httpClient   *datasource.RateLimitedHTTPClient
	baseURL      string
	sessionToken string
	tokenExpiry  time.Time
	matchups     *cache.Cache
	logger       *logrus.Entry
}

// matchupCacheTTL keeps a league's matchup listing for the span of one
// run, so consecutive fixtures in the same league cost one API call.
const matchupCacheTTL = 5 * time.Minute

// NewPinnacleClient creates a Pinnacle API client
func NewPinnacleClient(cfg *config.BookmakerConfig, log *logrus.Logger) *PinnacleClient {
	httpCfg := datasource.DefaultHTTPClientConfig()
	httpCfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	httpCfg.MaxRetries = cfg.RetryAttempts
	if cfg.RequestsPerSec > 0 {
		httpCfg.RateLimit = cfg.RequestsPerSec
	}

	return &PinnacleClient{
		cfg:        cfg,
		httpClient: datasource.NewRateLimitedHTTPClient(httpCfg, log),
		baseURL:    strings.TrimRight(cfg.APIURL, "/"),
		matchups:   cache.New(matchupCacheTTL, matchupCacheTTL),
		logger:     log.WithField("component", "bookmaker").WithField("bookmaker", pinnacleName),
	}
}

// Name returns the bookmaker identifier
func (c *PinnacleClient) Name() string {
	return pinnacleName
}

type sessionResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
}

// Login establishes an authenticated session
func (c *PinnacleClient) Login(ctx context.Context) error {
	body, err := json.Marshal(map[string]string{
		"username": c.cfg.Username,
		"password": c.cfg.Password,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal login request: %w", err)
	}

	resp, err := c.httpClient.Post(ctx, c.baseURL+"/sessions", "application/json", bytes.NewReader(body))
	if err != nil {
		return NewAuthenticationError(pinnacleName, "login request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return NewAuthenticationError(pinnacleName,
			fmt.Sprintf("login returned status %d", resp.StatusCode), nil)
	}

	var session sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return NewAuthenticationError(pinnacleName, "failed to decode session", err)
	}

	c.sessionToken = session.Token
	c.tokenExpiry = time.Now().Add(8 * time.Hour)
	if expiry, err := time.Parse(time.RFC3339, session.ExpiresAt); err == nil {
		c.tokenExpiry = expiry
	}

	c.logger.Info("Bookmaker session established")
	return nil
}

// IsAuthenticated checks whether the client holds a live session
func (c *PinnacleClient) IsAuthenticated() bool {
	return c.sessionToken != "" && time.Now().Before(c.tokenExpiry)
}

type balanceResponse struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// Balance returns the available account balance
func (c *PinnacleClient) Balance(ctx context.Context) (decimal.Decimal, error) {
	var out balanceResponse
	if err := c.get(ctx, "/wallet/balance", &out); err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromFloat(out.Amount).Round(2), nil
}

type matchupsResponse struct {
	Matchups []matchup `json:"matchups"`
}

type matchup struct {
	ID           int64 `json:"id"`
	Participants []struct {
		Name      string `json:"name"`
		Alignment string `json:"alignment"`
	} `json:"participants"`
}

// FindGameRef resolves a fixture to Pinnacle's matchup id within a league
func (c *PinnacleClient) FindGameRef(ctx context.Context, leagueRef string, fixture models.Fixture) (string, error) {
	var out matchupsResponse
	if cached, found := c.matchups.Get(leagueRef); found {
		out = cached.(matchupsResponse)
	} else {
		if err := c.get(ctx, "/leagues/"+leagueRef+"/matchups", &out); err != nil {
			return "", err
		}
		c.matchups.Set(leagueRef, out, cache.DefaultExpiration)
	}

	for _, m := range out.Matchups {
		var home, away string
		for _, p := range m.Participants {
			switch p.Alignment {
			case "home":
				home = p.Name
			case "away":
				away = p.Name
			}
		}
		if teamsMatch(home, fixture.HomeTeam) && teamsMatch(away, fixture.AwayTeam) {
			return strconv.FormatInt(m.ID, 10), nil
		}
	}

	return "", &GameNotFoundError{
		Bookmaker: pinnacleName,
		HomeTeam:  fixture.HomeTeam,
		AwayTeam:  fixture.AwayTeam,
	}
}

type marketsResponse struct {
	Markets []straightMarket `json:"markets"`
}

type straightMarket struct {
	Type   string  `json:"type"`
	Period int     `json:"period"`
	Limits []limit `json:"limits"`
	Prices []struct {
		Designation string `json:"designation"`
		Price       int    `json:"price"`
	} `json:"prices"`
}

type limit struct {
	Type   string  `json:"type"`
	Amount float64 `json:"amount"`
}

// QuoteOdds returns the current three-way decimal odds for a matchup.
// Outcomes Pinnacle is not pricing are left at zero.
func (c *PinnacleClient) QuoteOdds(ctx context.Context, gameRef string) (*models.OddsQuote, error) {
	market, err := c.moneylineMarket(ctx, gameRef)
	if err != nil {
		return nil, err
	}

	quote := &models.OddsQuote{
		Bookmaker:  pinnacleName,
		GameRef:    gameRef,
		CapturedAt: time.Now(),
	}

	for _, price := range market.Prices {
		dec, err := odds.ToDecimal(strconv.Itoa(price.Price), odds.FormatAmerican)
		if err != nil {
			return nil, fmt.Errorf("matchup %s: invalid %s price %d: %w",
				gameRef, price.Designation, price.Price, err)
		}
		switch price.Designation {
		case "home":
			quote.HomeOdds = dec
		case "draw":
			quote.DrawOdds = dec
		case "away":
			quote.AwayOdds = dec
		}
	}

	return quote, nil
}

// StakeLimits returns the stake bounds for backing one side of a
// matchup's moneyline market. Configured bounds apply where the market
// carries none. The side must still be priced; a drifted price is logged
// but does not block the bet.
func (c *PinnacleClient) StakeLimits(ctx context.Context, gameRef string, outcome models.Outcome, quoted decimal.Decimal) (StakeLimits, error) {
	market, err := c.moneylineMarket(ctx, gameRef)
	if err != nil {
		return StakeLimits{}, err
	}

	priced := false
	for _, price := range market.Prices {
		if price.Designation != string(outcome) {
			continue
		}
		priced = true
		if live, err := odds.ToDecimal(strconv.Itoa(price.Price), odds.FormatAmerican); err == nil && !live.Equal(quoted) {
			c.logger.WithFields(logrus.Fields{
				"matchup": gameRef,
				"side":    string(outcome),
				"quoted":  quoted.String(),
				"live":    live.String(),
			}).Warn("Moneyline price moved since quote")
		}
	}
	if !priced {
		return StakeLimits{}, fmt.Errorf("matchup %s side %s: %w", gameRef, outcome, models.ErrMissingOdds)
	}

	limits := StakeLimits{
		Min: decimal.NewFromFloat(c.cfg.MinStake),
		Max: decimal.NewFromFloat(c.cfg.MaxStake),
	}
	for _, l := range market.Limits {
		switch l.Type {
		case "minRiskStake":
			limits.Min = decimal.NewFromFloat(l.Amount)
		case "maxRiskStake":
			limits.Max = decimal.NewFromFloat(l.Amount)
		}
	}
	return limits, nil
}

type placeBetRequest struct {
	RequestID        string `json:"requestId"`
	MatchupID        string `json:"matchupId"`
	Designation      string `json:"designation"`
	Stake            string `json:"stake"`
	Odds             string `json:"odds"`
	OddsFormat       string `json:"oddsFormat"`
	AcceptBetterLine bool   `json:"acceptBetterLine"`
}

type placeBetResponse struct {
	BetRef string `json:"betRef"`
	Status string `json:"status"`
	Reason string `json:"reason"`
}

// PlaceBet submits a moneyline bet at the quoted decimal odds
func (c *PinnacleClient) PlaceBet(ctx context.Context, gameRef string, outcome models.Outcome, stake, oddsQuoted decimal.Decimal) (*PlacedBet, error) {
	if !c.IsAuthenticated() {
		return nil, NewAuthenticationError(pinnacleName, "no active session", nil)
	}

	reqBody := placeBetRequest{
		RequestID:        uuid.New().String(),
		MatchupID:        gameRef,
		Designation:      string(outcome),
		Stake:            stake.StringFixed(2),
		Odds:             oddsQuoted.String(),
		OddsFormat:       "decimal",
		AcceptBetterLine: true,
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal bet request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/bets/straight", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build bet request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, NewPlacementError(pinnacleName, gameRef, "placement request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, NewAPIError(pinnacleName, "bet placement rejected", resp.StatusCode, nil)
	}

	var placed placeBetResponse
	if err := json.NewDecoder(resp.Body).Decode(&placed); err != nil {
		return nil, NewPlacementError(pinnacleName, gameRef, "failed to decode placement response", err)
	}
	if placed.Status != "ACCEPTED" {
		return nil, NewPlacementError(pinnacleName, gameRef, placed.Reason, nil)
	}

	c.logger.WithFields(logrus.Fields{
		"game_ref": gameRef,
		"outcome":  outcome,
		"stake":    stake.StringFixed(2),
		"odds":     oddsQuoted.String(),
		"bet_ref":  placed.BetRef,
	}).Info("Bet accepted by bookmaker")

	return &PlacedBet{
		Ref:     placed.BetRef,
		GameRef: gameRef,
		Outcome: outcome,
		Stake:   stake,
		Odds:    oddsQuoted,
	}, nil
}

// Close releases the underlying HTTP client
func (c *PinnacleClient) Close() error {
	return c.httpClient.Close()
}

func (c *PinnacleClient) moneylineMarket(ctx context.Context, gameRef string) (*straightMarket, error) {
	var out marketsResponse
	if err := c.get(ctx, "/matchups/"+gameRef+"/markets/straight", &out); err != nil {
		return nil, err
	}

	for i := range out.Markets {
		m := &out.Markets[i]
		if m.Type == "moneyline" && m.Period == 0 {
			return m, nil
		}
	}
	return nil, fmt.Errorf("matchup %s: %w", gameRef, models.ErrMissingOdds)
}

func (c *PinnacleClient) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return NewAuthenticationError(pinnacleName, "session rejected", nil)
	}
	if resp.StatusCode != http.StatusOK {
		return NewAPIError(pinnacleName, "unexpected response", resp.StatusCode, nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *PinnacleClient) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if c.sessionToken != "" {
		req.Header.Set("X-Session", c.sessionToken)
	}
	if c.cfg.APIKey != "" {
		req.Header.Set("X-API-Key", c.cfg.APIKey)
	}
}

// teamsMatch compares team names ignoring case, punctuation and common
// suffixes like FC
func teamsMatch(a, b string) bool {
	na, nb := normalizeTeam(a), normalizeTeam(b)
	if na == "" || nb == "" {
		return false
	}
	return na == nb || strings.Contains(na, nb) || strings.Contains(nb, na)
}

func normalizeTeam(name string) string {
	name = strings.ToLower(name)
	for _, junk := range []string{".", "-", "'"} {
		name = strings.ReplaceAll(name, junk, " ")
	}
	fields := strings.Fields(name)
	kept := fields[:0]
	for _, f := range fields {
		if f == "fc" || f == "afc" || f == "cf" {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}
