package database

import (
	"context"
	"fmt"

	"github.com/yourusername/pitchside/internal/config"
)

// schema creates the tables the application owns. Statements are
// idempotent so startup can run them unconditionally.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS fixtures (
		game_id     BIGINT PRIMARY KEY,
		date        TIMESTAMPTZ NOT NULL,
		home_team   TEXT NOT NULL,
		away_team   TEXT NOT NULL,
		league_code TEXT NOT NULL,
		season      TEXT NOT NULL DEFAULT '',
		round       TEXT NOT NULL DEFAULT '',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_fixtures_league_date ON fixtures (league_code, date)`,
	`CREATE TABLE IF NOT EXISTS bets (
		id                 UUID PRIMARY KEY,
		game_id            BIGINT NOT NULL UNIQUE,
		date               TIMESTAMPTZ NOT NULL,
		home_team          TEXT NOT NULL,
		away_team          TEXT NOT NULL,
		season             TEXT NOT NULL DEFAULT '',
		league_code        TEXT NOT NULL,
		league_name        TEXT NOT NULL DEFAULT '',
		round              TEXT NOT NULL DEFAULT '',
		bookmaker          TEXT NOT NULL DEFAULT '',
		bookmaker_game_ref TEXT NOT NULL DEFAULT '',
		home_odds          DOUBLE PRECISION NOT NULL DEFAULT 0,
		draw_odds          DOUBLE PRECISION NOT NULL DEFAULT 0,
		away_odds          DOUBLE PRECISION NOT NULL DEFAULT 0,
		home_implied       DOUBLE PRECISION NOT NULL DEFAULT 0,
		draw_implied       DOUBLE PRECISION NOT NULL DEFAULT 0,
		away_implied       DOUBLE PRECISION NOT NULL DEFAULT 0,
		vig                DOUBLE PRECISION NOT NULL DEFAULT 0,
		home_rating        DOUBLE PRECISION NOT NULL DEFAULT 0,
		away_rating        DOUBLE PRECISION NOT NULL DEFAULT 0,
		match_rating       DOUBLE PRECISION NOT NULL DEFAULT 0,
		true_home_prob     DOUBLE PRECISION NOT NULL DEFAULT 0,
		true_draw_prob     DOUBLE PRECISION NOT NULL DEFAULT 0,
		true_away_prob     DOUBLE PRECISION NOT NULL DEFAULT 0,
		fair_home_odds     DOUBLE PRECISION NOT NULL DEFAULT 0,
		fair_draw_odds     DOUBLE PRECISION NOT NULL DEFAULT 0,
		fair_away_odds     DOUBLE PRECISION NOT NULL DEFAULT 0,
		home_value         DOUBLE PRECISION NOT NULL DEFAULT 0,
		draw_value         DOUBLE PRECISION NOT NULL DEFAULT 0,
		away_value         DOUBLE PRECISION NOT NULL DEFAULT 0,
		home_stake         DOUBLE PRECISION NOT NULL DEFAULT 0,
		draw_stake         DOUBLE PRECISION NOT NULL DEFAULT 0,
		away_stake         DOUBLE PRECISION NOT NULL DEFAULT 0,
		pick               TEXT NOT NULL DEFAULT '',
		pick_odds          DOUBLE PRECISION NOT NULL DEFAULT 0,
		value              DOUBLE PRECISION NOT NULL DEFAULT 0,
		stake              DOUBLE PRECISION NOT NULL DEFAULT 0,
		status             TEXT NOT NULL,
		attempts           INTEGER NOT NULL DEFAULT 0,
		home_goals         INTEGER,
		away_goals         INTEGER,
		full_time_result   TEXT,
		result             TEXT,
		gain_loss          DOUBLE PRECISION,
		profit             DOUBLE PRECISION,
		yield              DOUBLE PRECISION,
		bankroll_after     DOUBLE PRECISION NOT NULL DEFAULT 0,
		created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at         TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_bets_status ON bets (status)`,
	`CREATE INDEX IF NOT EXISTS idx_bets_league ON bets (league_code)`,
}

// Initialize creates a connection pool and applies the schema
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	for _, stmt := range schema {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	return db, nil
}
