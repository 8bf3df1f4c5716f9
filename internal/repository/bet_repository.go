package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/yourusername/pitchside/internal/database"
	"github.com/yourusername/pitchside/internal/models"
)

// PostgresBetRepository implements BetRepository for PostgreSQL
type PostgresBetRepository struct {
	db *database.DB
}

// NewPostgresBetRepository creates a new bet repository
func NewPostgresBetRepository(db *database.DB) BetRepository {
	return &PostgresBetRepository{db: db}
}

const betColumns = `
	id, game_id, date, home_team, away_team, season, league_code, league_name, round,
	bookmaker, bookmaker_game_ref,
	home_odds, draw_odds, away_odds,
	home_implied, draw_implied, away_implied, vig,
	home_rating, away_rating, match_rating,
	true_home_prob, true_draw_prob, true_away_prob,
	fair_home_odds, fair_draw_odds, fair_away_odds,
	home_value, draw_value, away_value,
	home_stake, draw_stake, away_stake,
	pick, pick_odds, value, stake, status, attempts,
	home_goals, away_goals, full_time_result, result, gain_loss, profit, yield,
	bankroll_after, created_at, updated_at`

// Create inserts a new bet record
func (r *PostgresBetRepository) Create(ctx context.Context, bet *models.BetRecord) error {
	if bet.ID == uuid.Nil {
		bet.ID = uuid.New()
	}
	now := time.Now()
	bet.CreatedAt = now
	bet.UpdatedAt = now

	query := `
		INSERT INTO bets (` + betColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
		        $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30,
		        $31, $32, $33, $34, $35, $36, $37, $38, $39, $40, $41, $42, $43, $44,
		        $45, $46, $47, $48, $49)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		bet.ID, bet.GameID, bet.Date, bet.HomeTeam, bet.AwayTeam, bet.Season,
		bet.LeagueCode, bet.LeagueName, bet.Round,
		bet.Bookmaker, bet.BookmakerRef,
		bet.HomeOdds, bet.DrawOdds, bet.AwayOdds,
		bet.HomeImplied, bet.DrawImplied, bet.AwayImplied, bet.Vig,
		bet.HomeRating, bet.AwayRating, bet.MatchRating,
		bet.TrueHomeProb, bet.TrueDrawProb, bet.TrueAwayProb,
		bet.FairHomeOdds, bet.FairDrawOdds, bet.FairAwayOdds,
		bet.HomeValue, bet.DrawValue, bet.AwayValue,
		bet.HomeStake, bet.DrawStake, bet.AwayStake,
		bet.Pick, bet.PickOdds, bet.Value, bet.Stake, bet.Status, bet.Attempts,
		bet.HomeGoals, bet.AwayGoals, bet.FullTime, bet.Result, bet.GainLoss, bet.Profit, bet.Yield,
		bet.BankrollAfter, bet.CreatedAt, bet.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("bet for game %d already exists: %w", bet.GameID, models.ErrDuplicateKey)
		}
		return fmt.Errorf("failed to create bet record for game %d: %w", bet.GameID, err)
	}

	return nil
}

// GetByGameID retrieves the record for a fixture
func (r *PostgresBetRepository) GetByGameID(ctx context.Context, gameID int64) (*models.BetRecord, error) {
	query := `SELECT ` + betColumns + ` FROM bets WHERE game_id = $1`

	bet, err := scanBet(r.db.GetPool().QueryRow(ctx, query, gameID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bet record for game %d: %w", gameID, err)
	}

	return bet, nil
}

// Update replaces the mutable fields of an existing record
func (r *PostgresBetRepository) Update(ctx context.Context, bet *models.BetRecord) error {
	bet.UpdatedAt = time.Now()

	query := `
		UPDATE bets SET
			bookmaker = $2, bookmaker_game_ref = $3,
			home_odds = $4, draw_odds = $5, away_odds = $6,
			home_implied = $7, draw_implied = $8, away_implied = $9, vig = $10,
			home_rating = $11, away_rating = $12, match_rating = $13,
			true_home_prob = $14, true_draw_prob = $15, true_away_prob = $16,
			fair_home_odds = $17, fair_draw_odds = $18, fair_away_odds = $19,
			home_value = $20, draw_value = $21, away_value = $22,
			home_stake = $23, draw_stake = $24, away_stake = $25,
			pick = $26, pick_odds = $27, value = $28, stake = $29,
			status = $30, attempts = $31, bankroll_after = $32, updated_at = $33
		WHERE game_id = $1
	`

	tag, err := r.db.GetPool().Exec(ctx, query,
		bet.GameID,
		bet.Bookmaker, bet.BookmakerRef,
		bet.HomeOdds, bet.DrawOdds, bet.AwayOdds,
		bet.HomeImplied, bet.DrawImplied, bet.AwayImplied, bet.Vig,
		bet.HomeRating, bet.AwayRating, bet.MatchRating,
		bet.TrueHomeProb, bet.TrueDrawProb, bet.TrueAwayProb,
		bet.FairHomeOdds, bet.FairDrawOdds, bet.FairAwayOdds,
		bet.HomeValue, bet.DrawValue, bet.AwayValue,
		bet.HomeStake, bet.DrawStake, bet.AwayStake,
		bet.Pick, bet.PickOdds, bet.Value, bet.Stake,
		bet.Status, bet.Attempts, bet.BankrollAfter, bet.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update bet record for game %d: %w", bet.GameID, err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// Delete removes a record so the fixture can be re-processed
func (r *PostgresBetRepository) Delete(ctx context.Context, gameID int64) error {
	tag, err := r.db.GetPool().Exec(ctx, `DELETE FROM bets WHERE game_id = $1`, gameID)
	if err != nil {
		return fmt.Errorf("failed to delete bet record for game %d: %w", gameID, err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// GetUnsettled returns SUCCESS records awaiting a settlement result
func (r *PostgresBetRepository) GetUnsettled(ctx context.Context) ([]*models.BetRecord, error) {
	query := `SELECT ` + betColumns + ` FROM bets
		WHERE status = $1 AND result IS NULL
		ORDER BY date ASC`

	rows, err := r.db.GetPool().Query(ctx, query, models.BetStatusSuccess)
	if err != nil {
		return nil, fmt.Errorf("failed to query unsettled bets: %w", err)
	}
	defer rows.Close()

	return collectBets(rows)
}

// UpdateSettlement writes the settlement fields of a record
func (r *PostgresBetRepository) UpdateSettlement(ctx context.Context, bet *models.BetRecord) error {
	bet.UpdatedAt = time.Now()

	query := `
		UPDATE bets SET
			home_goals = $2, away_goals = $3, full_time_result = $4,
			result = $5, gain_loss = $6, profit = $7, yield = $8,
			bankroll_after = $9, updated_at = $10
		WHERE game_id = $1
	`

	tag, err := r.db.GetPool().Exec(ctx, query,
		bet.GameID,
		bet.HomeGoals, bet.AwayGoals, bet.FullTime,
		bet.Result, bet.GainLoss, bet.Profit, bet.Yield,
		bet.BankrollAfter, bet.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to settle bet record for game %d: %w", bet.GameID, err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// GetByLeague returns all records for a league, newest first
func (r *PostgresBetRepository) GetByLeague(ctx context.Context, leagueCode string) ([]*models.BetRecord, error) {
	query := `SELECT ` + betColumns + ` FROM bets
		WHERE league_code = $1
		ORDER BY date DESC`

	rows, err := r.db.GetPool().Query(ctx, query, leagueCode)
	if err != nil {
		return nil, fmt.Errorf("failed to query bets for league %s: %w", leagueCode, err)
	}
	defer rows.Close()

	return collectBets(rows)
}

func collectBets(rows pgx.Rows) ([]*models.BetRecord, error) {
	var bets []*models.BetRecord
	for rows.Next() {
		bet, err := scanBet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bet record: %w", err)
		}
		bets = append(bets, bet)
	}
	return bets, rows.Err()
}

func scanBet(row pgx.Row) (*models.BetRecord, error) {
	bet := &models.BetRecord{}
	err := row.Scan(
		&bet.ID, &bet.GameID, &bet.Date, &bet.HomeTeam, &bet.AwayTeam, &bet.Season,
		&bet.LeagueCode, &bet.LeagueName, &bet.Round,
		&bet.Bookmaker, &bet.BookmakerRef,
		&bet.HomeOdds, &bet.DrawOdds, &bet.AwayOdds,
		&bet.HomeImplied, &bet.DrawImplied, &bet.AwayImplied, &bet.Vig,
		&bet.HomeRating, &bet.AwayRating, &bet.MatchRating,
		&bet.TrueHomeProb, &bet.TrueDrawProb, &bet.TrueAwayProb,
		&bet.FairHomeOdds, &bet.FairDrawOdds, &bet.FairAwayOdds,
		&bet.HomeValue, &bet.DrawValue, &bet.AwayValue,
		&bet.HomeStake, &bet.DrawStake, &bet.AwayStake,
		&bet.Pick, &bet.PickOdds, &bet.Value, &bet.Stake, &bet.Status, &bet.Attempts,
		&bet.HomeGoals, &bet.AwayGoals, &bet.FullTime, &bet.Result, &bet.GainLoss, &bet.Profit, &bet.Yield,
		&bet.BankrollAfter, &bet.CreatedAt, &bet.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return bet, nil
}
