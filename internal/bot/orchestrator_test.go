package bot

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pitchside/internal/config"
	"github.com/yourusername/pitchside/internal/logger"
	"github.com/yourusername/pitchside/internal/models"
	"github.com/yourusername/pitchside/internal/ratings"
	"github.com/yourusername/pitchside/internal/repository"
)

type MockPlacer struct {
	mock.Mock
}

func (m *MockPlacer) ProcessFixture(ctx context.Context, fixture models.Fixture, leagueRef config.LeagueRef, arena *ratings.Arena) (*models.BetRecord, error) {
	args := m.Called(ctx, fixture, leagueRef, arena)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BetRecord), args.Error(1)
}

func (m *MockPlacer) Balance(league string) (decimal.Decimal, error) {
	args := m.Called(league)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type MockFixtureSource struct {
	mock.Mock
}

func (m *MockFixtureSource) UpcomingFixtures(ctx context.Context, leagueID int, leagueCode string, count int) ([]models.Fixture, error) {
	args := m.Called(ctx, leagueID, leagueCode, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Fixture), args.Error(1)
}

type MockHistorySource struct {
	mock.Mock
}

func (m *MockHistorySource) Results(path string) ([]models.MatchResult, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MatchResult), args.Error(1)
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Strategy = config.StrategyConfig{
		Name:       "ratings",
		HistoryDir: "/data/history",
		Leagues: map[string]config.LeagueRef{
			"E0": {ID: 39, BookmakerRef: "soccer-england-premier-league"},
			"D1": {ID: 78, BookmakerRef: "soccer-germany-bundesliga", HistoryFile: "bundesliga.csv"},
		},
	}
	cfg.Ratings = config.RatingsConfig{Window: 6}
	return cfg
}

func fixture(gameID int64, league string) models.Fixture {
	return models.Fixture{GameID: gameID, HomeTeam: "Home", AwayTeam: "Away", LeagueCode: league}
}

func record(gameID int64, status models.BetStatus) *models.BetRecord {
	return &models.BetRecord{ID: uuid.New(), GameID: gameID, Status: status, Pick: models.OutcomeHome}
}

func newTestOrchestrator(t *testing.T) (*Orchestrator, *MockPlacer, *MockFixtureSource, *MockHistorySource, *repository.MockFixtureRepository) {
	t.Helper()
	placer := new(MockPlacer)
	fixtures := new(MockFixtureSource)
	history := new(MockHistorySource)
	repo := new(repository.MockFixtureRepository)
	log := testLogger()
	o := New(testConfig(), placer, fixtures, history, repo, logger.NewAuditLogger(log), log)
	return o, placer, fixtures, history, repo
}

func TestRunProcessesLeaguesInOrder(t *testing.T) {
	o, placer, fixtures, history, repo := newTestOrchestrator(t)

	// D1 sorts before E0.
	history.On("Results", "/data/history/bundesliga.csv").Return([]models.MatchResult{}, nil)
	history.On("Results", "/data/history/E0.csv").Return([]models.MatchResult{}, nil)

	d1Fixtures := []models.Fixture{fixture(1, "D1")}
	e0Fixtures := []models.Fixture{fixture(2, "E0"), fixture(3, "E0")}
	fixtures.On("UpcomingFixtures", mock.Anything, 78, "D1", upcomingFixtureCount).Return(d1Fixtures, nil)
	fixtures.On("UpcomingFixtures", mock.Anything, 39, "E0", upcomingFixtureCount).Return(e0Fixtures, nil)
	repo.On("Upsert", mock.Anything, d1Fixtures).Return(nil)
	repo.On("Upsert", mock.Anything, e0Fixtures).Return(nil)

	placer.On("ProcessFixture", mock.Anything, d1Fixtures[0], mock.Anything, mock.Anything).
		Return(record(1, models.BetStatusSuccess), nil)
	placer.On("ProcessFixture", mock.Anything, e0Fixtures[0], mock.Anything, mock.Anything).
		Return(record(2, models.BetStatusExcluded), nil)
	placer.On("ProcessFixture", mock.Anything, e0Fixtures[1], mock.Anything, mock.Anything).
		Return(nil, nil)
	placer.On("Balance", "D1").Return(decimal.RequireFromString("491.64"), nil)
	placer.On("Balance", "E0").Return(decimal.RequireFromString("1000.00"), nil)

	summary, err := o.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, summary.Leagues, 2)
	assert.Equal(t, "D1", summary.Leagues[0].Code)
	assert.Equal(t, "E0", summary.Leagues[1].Code)

	assert.Equal(t, 1, summary.Leagues[0].Placed)
	assert.Equal(t, 1, summary.Leagues[1].Excluded)
	assert.Equal(t, 1, summary.Leagues[1].Skipped)
	assert.Equal(t, 3, summary.Fixtures())
	assert.Equal(t, 1, summary.Placed())
	assert.Equal(t, "491.64", summary.Leagues[0].Bankroll.StringFixed(2))

	placer.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestRunContinuesPastFailedLeague(t *testing.T) {
	o, placer, fixtures, history, repo := newTestOrchestrator(t)

	history.On("Results", "/data/history/bundesliga.csv").Return(nil, errors.New("no such file"))
	history.On("Results", "/data/history/E0.csv").Return([]models.MatchResult{}, nil)

	e0Fixtures := []models.Fixture{fixture(2, "E0")}
	fixtures.On("UpcomingFixtures", mock.Anything, 39, "E0", upcomingFixtureCount).Return(e0Fixtures, nil)
	repo.On("Upsert", mock.Anything, e0Fixtures).Return(nil)
	placer.On("ProcessFixture", mock.Anything, e0Fixtures[0], mock.Anything, mock.Anything).
		Return(record(2, models.BetStatusSuccess), nil)
	placer.On("Balance", "E0").Return(decimal.RequireFromString("991.64"), nil)

	summary, err := o.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, summary.Leagues, 2)
	assert.Equal(t, 1, summary.Leagues[0].Errors)
	assert.Equal(t, 1, summary.Leagues[1].Placed)
	assert.Equal(t, 1, summary.Errors())
}

func TestRunAbortsOnBalanceShortfall(t *testing.T) {
	o, placer, fixtures, history, repo := newTestOrchestrator(t)

	history.On("Results", "/data/history/bundesliga.csv").Return([]models.MatchResult{}, nil)
	d1Fixtures := []models.Fixture{fixture(1, "D1")}
	fixtures.On("UpcomingFixtures", mock.Anything, 78, "D1", upcomingFixtureCount).Return(d1Fixtures, nil)
	repo.On("Upsert", mock.Anything, d1Fixtures).Return(nil)
	placer.On("ProcessFixture", mock.Anything, d1Fixtures[0], mock.Anything, mock.Anything).
		Return(nil, models.ErrBalanceShortfall)

	summary, err := o.Run(context.Background())
	assert.ErrorIs(t, err, models.ErrBalanceShortfall)

	// E0 never ran.
	require.Len(t, summary.Leagues, 1)
	history.AssertNotCalled(t, "Results", "/data/history/E0.csv")
}

func TestRunSkipsFixturesWithoutHistory(t *testing.T) {
	o, placer, fixtures, history, repo := newTestOrchestrator(t)

	history.On("Results", mock.Anything).Return([]models.MatchResult{}, nil)
	d1Fixtures := []models.Fixture{fixture(1, "D1")}
	fixtures.On("UpcomingFixtures", mock.Anything, 78, "D1", upcomingFixtureCount).Return(d1Fixtures, nil)
	fixtures.On("UpcomingFixtures", mock.Anything, 39, "E0", upcomingFixtureCount).Return([]models.Fixture{}, nil)
	repo.On("Upsert", mock.Anything, d1Fixtures).Return(nil)
	placer.On("ProcessFixture", mock.Anything, d1Fixtures[0], mock.Anything, mock.Anything).
		Return(nil, models.ErrInsufficientHistory)
	placer.On("Balance", mock.Anything).Return(decimal.NewFromInt(500), nil)

	summary, err := o.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Leagues[0].Skipped)
	assert.Equal(t, 0, summary.Errors())
}

func TestRunRecordsFixtureErrors(t *testing.T) {
	o, placer, fixtures, history, repo := newTestOrchestrator(t)

	history.On("Results", mock.Anything).Return([]models.MatchResult{}, nil)
	d1Fixtures := []models.Fixture{fixture(1, "D1"), fixture(4, "D1")}
	fixtures.On("UpcomingFixtures", mock.Anything, 78, "D1", upcomingFixtureCount).Return(d1Fixtures, nil)
	fixtures.On("UpcomingFixtures", mock.Anything, 39, "E0", upcomingFixtureCount).Return([]models.Fixture{}, nil)
	repo.On("Upsert", mock.Anything, d1Fixtures).Return(nil)
	placer.On("ProcessFixture", mock.Anything, d1Fixtures[0], mock.Anything, mock.Anything).
		Return(nil, errors.New("quote timeout"))
	placer.On("ProcessFixture", mock.Anything, d1Fixtures[1], mock.Anything, mock.Anything).
		Return(record(4, models.BetStatusSuccess), nil)
	placer.On("Balance", mock.Anything).Return(decimal.NewFromInt(500), nil)

	summary, err := o.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Leagues[0].Errors)
	assert.Equal(t, 1, summary.Leagues[0].Placed)
	assert.Equal(t, 2, summary.Leagues[0].Fixtures)
}
