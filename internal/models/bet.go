package models

import (
	"time"

	"github.com/google/uuid"
)

// BetStatus represents the placement-phase status of a bet record
type BetStatus string

const (
	BetStatusPending     BetStatus = "PENDING"
	BetStatusExcluded    BetStatus = "EXCLUDED"
	BetStatusStakeTooLow BetStatus = "STAKE_TOO_LOW"
	BetStatusSuccess     BetStatus = "SUCCESS"
	BetStatusFailed      BetStatus = "FAILED"
)

// Terminal reports whether the placement phase is finished for this status.
// A FAILED bet is terminal for the current run but eligible for one
// re-attempt on the next run.
func (s BetStatus) Terminal() bool {
	return s != BetStatusPending
}

// BetResult represents the settlement outcome of a bet
type BetResult string

const (
	BetResultWin   BetResult = "W"
	BetResultLoss  BetResult = "L"
	BetResultNoBet BetResult = "NB"
)

// BetRecord is one row per fixture per strategy. GameID is unique:
// re-processing the same fixture updates the existing record, never
// inserts a duplicate. Status is written only by the decision engine,
// settlement fields only by the settlement resolver.
type BetRecord struct {
	ID         uuid.UUID `db:"id" json:"id"`
	GameID     int64     `db:"game_id" json:"game_id" validate:"required"`
	Date       time.Time `db:"date" json:"date"`
	HomeTeam   string    `db:"home_team" json:"home_team" validate:"required"`
	AwayTeam   string    `db:"away_team" json:"away_team" validate:"required"`
	Season     string    `db:"season" json:"season"`
	LeagueCode string    `db:"league_code" json:"league_code" validate:"required"`
	LeagueName string    `db:"league_name" json:"league_name"`
	Round      string    `db:"round" json:"round"`

	Bookmaker    string `db:"bookmaker" json:"bookmaker"`
	BookmakerRef string `db:"bookmaker_game_ref" json:"bookmaker_game_ref"`

	HomeOdds float64 `db:"home_odds" json:"home_odds"`
	DrawOdds float64 `db:"draw_odds" json:"draw_odds"`
	AwayOdds float64 `db:"away_odds" json:"away_odds"`

	HomeImplied float64 `db:"home_implied" json:"home_implied"`
	DrawImplied float64 `db:"draw_implied" json:"draw_implied"`
	AwayImplied float64 `db:"away_implied" json:"away_implied"`
	Vig         float64 `db:"vig" json:"vig"`

	HomeRating  float64 `db:"home_rating" json:"home_rating"`
	AwayRating  float64 `db:"away_rating" json:"away_rating"`
	MatchRating float64 `db:"match_rating" json:"match_rating"`

	TrueHomeProb float64 `db:"true_home_prob" json:"true_home_prob"`
	TrueDrawProb float64 `db:"true_draw_prob" json:"true_draw_prob"`
	TrueAwayProb float64 `db:"true_away_prob" json:"true_away_prob"`

	FairHomeOdds float64 `db:"fair_home_odds" json:"fair_home_odds"`
	FairDrawOdds float64 `db:"fair_draw_odds" json:"fair_draw_odds"`
	FairAwayOdds float64 `db:"fair_away_odds" json:"fair_away_odds"`

	HomeValue float64 `db:"home_value" json:"home_value"`
	DrawValue float64 `db:"draw_value" json:"draw_value"`
	AwayValue float64 `db:"away_value" json:"away_value"`

	HomeStake float64 `db:"home_stake" json:"home_stake"`
	DrawStake float64 `db:"draw_stake" json:"draw_stake"`
	AwayStake float64 `db:"away_stake" json:"away_stake"`

	Pick     Outcome `db:"pick" json:"pick"`
	PickOdds float64 `db:"pick_odds" json:"pick_odds"`
	Value    float64 `db:"value" json:"value"`
	Stake    float64 `db:"stake" json:"stake"`

	Status   BetStatus `db:"status" json:"status" validate:"required"`
	Attempts int       `db:"attempts" json:"attempts"`

	// Settlement fields, written once by the resolver
	HomeGoals *int       `db:"home_goals" json:"home_goals"`
	AwayGoals *int       `db:"away_goals" json:"away_goals"`
	FullTime  *Outcome   `db:"full_time_result" json:"full_time_result"`
	Result    *BetResult `db:"result" json:"result"`
	GainLoss  *float64   `db:"gain_loss" json:"gain_loss"`
	Profit    *float64   `db:"profit" json:"profit"`
	Yield     *float64   `db:"yield" json:"yield"`

	BankrollAfter float64   `db:"bankroll_after" json:"bankroll_after"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// Settled reports whether the bet has a settlement result
func (b *BetRecord) Settled() bool {
	return b.Result != nil
}

// Staked reports whether the record represents money actually at risk.
// Only SUCCESS placements contribute to wagered and earned totals.
func (b *BetRecord) Staked() bool {
	return b.Status == BetStatusSuccess
}

// GetROI returns the settled return on stake as a percentage
func (b *BetRecord) GetROI() float64 {
	if !b.Settled() || b.Yield == nil {
		return 0
	}
	return *b.Yield
}
