// Package repository provides data access for bets and fixtures.
package repository

import (
	"context"

	"github.com/yourusername/pitchside/internal/models"
)

// BetRepository persists bet records. GameID is the natural key: one
// record per fixture, updated in place across runs.
type BetRepository interface {
	// Create inserts a new bet record
	Create(ctx context.Context, bet *models.BetRecord) error

	// GetByGameID retrieves the record for a fixture, models.ErrNotFound
	// when no record exists
	GetByGameID(ctx context.Context, gameID int64) (*models.BetRecord, error)

	// Update replaces the mutable fields of an existing record
	Update(ctx context.Context, bet *models.BetRecord) error

	// Delete removes a record so the fixture can be re-processed
	Delete(ctx context.Context, gameID int64) error

	// GetUnsettled returns SUCCESS records awaiting a settlement result
	GetUnsettled(ctx context.Context) ([]*models.BetRecord, error)

	// UpdateSettlement writes the settlement fields of a record
	UpdateSettlement(ctx context.Context, bet *models.BetRecord) error

	// GetByLeague returns all records for a league, newest first
	GetByLeague(ctx context.Context, leagueCode string) ([]*models.BetRecord, error)
}

// FixtureRepository persists upcoming fixtures
type FixtureRepository interface {
	// Upsert inserts or refreshes a batch of fixtures
	Upsert(ctx context.Context, fixtures []models.Fixture) error

	// UpcomingByLeague returns stored fixtures for a league in kickoff order
	UpcomingByLeague(ctx context.Context, leagueCode string) ([]models.Fixture, error)
}
