package repository

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/yourusername/pitchside/internal/models"
)

// MockBetRepository is a testify mock of BetRepository for unit tests
type MockBetRepository struct {
	mock.Mock
}

func (m *MockBetRepository) Create(ctx context.Context, bet *models.BetRecord) error {
	args := m.Called(ctx, bet)
	return args.Error(0)
}

func (m *MockBetRepository) GetByGameID(ctx context.Context, gameID int64) (*models.BetRecord, error) {
	args := m.Called(ctx, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BetRecord), args.Error(1)
}

func (m *MockBetRepository) Update(ctx context.Context, bet *models.BetRecord) error {
	args := m.Called(ctx, bet)
	return args.Error(0)
}

func (m *MockBetRepository) Delete(ctx context.Context, gameID int64) error {
	args := m.Called(ctx, gameID)
	return args.Error(0)
}

func (m *MockBetRepository) GetUnsettled(ctx context.Context) ([]*models.BetRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BetRecord), args.Error(1)
}

func (m *MockBetRepository) UpdateSettlement(ctx context.Context, bet *models.BetRecord) error {
	args := m.Called(ctx, bet)
	return args.Error(0)
}

func (m *MockBetRepository) GetByLeague(ctx context.Context, leagueCode string) ([]*models.BetRecord, error) {
	args := m.Called(ctx, leagueCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BetRecord), args.Error(1)
}

// MockFixtureRepository is a testify mock of FixtureRepository for unit tests
type MockFixtureRepository struct {
	mock.Mock
}

func (m *MockFixtureRepository) Upsert(ctx context.Context, fixtures []models.Fixture) error {
	args := m.Called(ctx, fixtures)
	return args.Error(0)
}

func (m *MockFixtureRepository) UpcomingByLeague(ctx context.Context, leagueCode string) ([]models.Fixture, error) {
	args := m.Called(ctx, leagueCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Fixture), args.Error(1)
}
