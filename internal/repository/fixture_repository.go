package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/pitchside/internal/database"
	"github.com/yourusername/pitchside/internal/models"
)

// PostgresFixtureRepository implements FixtureRepository for PostgreSQL
type PostgresFixtureRepository struct {
	db *database.DB
}

// NewPostgresFixtureRepository creates a new fixture repository
func NewPostgresFixtureRepository(db *database.DB) FixtureRepository {
	return &PostgresFixtureRepository{db: db}
}

// Upsert inserts or refreshes a batch of fixtures
func (r *PostgresFixtureRepository) Upsert(ctx context.Context, fixtures []models.Fixture) error {
	if len(fixtures) == 0 {
		return nil
	}

	query := `
		INSERT INTO fixtures (game_id, date, home_team, away_team, league_code, season, round)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (game_id) DO UPDATE SET
			date = EXCLUDED.date,
			home_team = EXCLUDED.home_team,
			away_team = EXCLUDED.away_team,
			round = EXCLUDED.round
	`

	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		for _, f := range fixtures {
			if _, err := tx.Exec(ctx, query,
				f.GameID, f.Date, f.HomeTeam, f.AwayTeam, f.LeagueCode, f.Season, f.Round,
			); err != nil {
				return fmt.Errorf("failed to upsert fixture %d: %w", f.GameID, err)
			}
		}
		return nil
	})
}

// UpcomingByLeague returns stored fixtures for a league in kickoff order
func (r *PostgresFixtureRepository) UpcomingByLeague(ctx context.Context, leagueCode string) ([]models.Fixture, error) {
	query := `
		SELECT game_id, date, home_team, away_team, league_code, season, round
		FROM fixtures
		WHERE league_code = $1 AND date > now()
		ORDER BY date ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, leagueCode)
	if err != nil {
		return nil, fmt.Errorf("failed to query fixtures for league %s: %w", leagueCode, err)
	}
	defer rows.Close()

	var fixtures []models.Fixture
	for rows.Next() {
		var f models.Fixture
		if err := rows.Scan(&f.GameID, &f.Date, &f.HomeTeam, &f.AwayTeam, &f.LeagueCode, &f.Season, &f.Round); err != nil {
			return nil, fmt.Errorf("failed to scan fixture: %w", err)
		}
		fixtures = append(fixtures, f)
	}

	return fixtures, rows.Err()
}
