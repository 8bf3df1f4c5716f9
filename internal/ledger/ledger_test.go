package ledger

import (
	"io"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pitchside/internal/models"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func seedStrategy(t *testing.T, store *Store, name string) {
	t.Helper()
	cfg := models.StrategyConfig{
		"E0": {
			Name:     "Premier League",
			Bankroll: 1000,
			Home:     models.WinCoefficients{Beta: 1.2, Constant: 42},
			Away:     models.WinCoefficients{BetaSquared: 0.02, Beta: -1.1, Constant: 31},
		},
		"D1": {
			Name:     "Bundesliga",
			Bankroll: 500,
			Home:     models.WinCoefficients{Beta: 1.0, Constant: 40},
			Away:     models.WinCoefficients{BetaSquared: 0.01, Beta: -0.9, Constant: 30},
		},
	}
	require.NoError(t, store.SaveStrategy(name, cfg))
}

func openTestLedger(t *testing.T) *Ledger {
	t.Helper()
	dir := t.TempDir()
	store, err := NewStore(dir+"/strategies", dir+"/history")
	require.NoError(t, err)
	seedStrategy(t, store, "ratings")

	l, err := Open(store, "ratings", testLogger())
	require.NoError(t, err)
	return l
}

func TestOpenUnknownStrategy(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir+"/strategies", dir+"/history")
	require.NoError(t, err)

	_, err = Open(store, "missing", testLogger())
	assert.ErrorIs(t, err, models.ErrUnknownStrategy)
}

func TestDebitReducesBalanceAndPersists(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir+"/strategies", dir+"/history")
	require.NoError(t, err)
	seedStrategy(t, store, "ratings")

	l, err := Open(store, "ratings", testLogger())
	require.NoError(t, err)

	balance, err := l.Debit("E0", decimal.RequireFromString("8.36"))
	require.NoError(t, err)
	assert.Equal(t, "991.64", balance.StringFixed(2))

	// A fresh ledger sees the persisted balance.
	reopened, err := Open(store, "ratings", testLogger())
	require.NoError(t, err)
	persisted, err := reopened.Balance("E0")
	require.NoError(t, err)
	assert.Equal(t, "991.64", persisted.StringFixed(2))
}

func TestCreditRoundsToTwoPlaces(t *testing.T) {
	l := openTestLedger(t)

	balance, err := l.Credit("E0", decimal.RequireFromString("17.556"))
	require.NoError(t, err)
	assert.Equal(t, "1017.56", balance.StringFixed(2))
}

func TestDebitRefusedOnShortfall(t *testing.T) {
	l := openTestLedger(t)

	_, err := l.Debit("D1", decimal.NewFromInt(500))
	assert.ErrorIs(t, err, models.ErrBalanceShortfall)

	// Balance must be untouched after the refused debit.
	balance, err := l.Balance("D1")
	require.NoError(t, err)
	assert.Equal(t, "500.00", balance.StringFixed(2))
}

func TestDebitRefusedWhenEqualToBalance(t *testing.T) {
	l := openTestLedger(t)

	_, err := l.Debit("D1", decimal.RequireFromString("500.00"))
	assert.ErrorIs(t, err, models.ErrBalanceShortfall)
}

func TestUnknownLeague(t *testing.T) {
	l := openTestLedger(t)

	_, err := l.Balance("SP1")
	assert.ErrorIs(t, err, models.ErrMissingLeagueMapping)

	_, err = l.Debit("SP1", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, models.ErrMissingLeagueMapping)
}

func TestNegativeAmountRejected(t *testing.T) {
	l := openTestLedger(t)

	_, err := l.Debit("E0", decimal.NewFromInt(-5))
	assert.Error(t, err)

	_, err = l.Credit("E0", decimal.NewFromInt(-5))
	assert.Error(t, err)
}

func TestSnapshotSortedByCode(t *testing.T) {
	l := openTestLedger(t)

	snaps := l.Snapshot()
	require.Len(t, snaps, 2)
	assert.Equal(t, "D1", snaps[0].Code)
	assert.Equal(t, "E0", snaps[1].Code)
	assert.Equal(t, "Premier League", snaps[1].Name)
}

func TestConsolidatedAggregate(t *testing.T) {
	l := openTestLedger(t)

	_, err := l.Debit("E0", decimal.RequireFromString("8.36"))
	require.NoError(t, err)
	_, err = l.Credit("D1", decimal.RequireFromString("17.56"))
	require.NoError(t, err)

	agg := l.Consolidated()
	assert.Equal(t, 2, agg.Leagues)
	assert.Equal(t, 1509.20, agg.Bankroll)
	assert.Equal(t, 8.36, agg.TotalDebited)
	assert.Equal(t, 17.56, agg.TotalCredited)
	assert.Equal(t, 2, agg.Movements)
}

func TestHistoryRecordsMovements(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir+"/strategies", dir+"/history")
	require.NoError(t, err)
	seedStrategy(t, store, "ratings")

	l, err := Open(store, "ratings", testLogger())
	require.NoError(t, err)

	_, err = l.Debit("E0", decimal.RequireFromString("8.36"))
	require.NoError(t, err)
	_, err = l.Credit("E0", decimal.RequireFromString("17.56"))
	require.NoError(t, err)

	entries, err := store.ReadHistory("ratings")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, DirectionDebit, entries[0].Direction)
	assert.Equal(t, 8.36, entries[0].Amount)
	assert.Equal(t, 991.64, entries[0].Balance)

	assert.Equal(t, DirectionCredit, entries[1].Direction)
	assert.Equal(t, 1009.20, entries[1].Balance)
}

func TestReadHistoryMissingFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir+"/strategies", dir+"/history")
	require.NoError(t, err)

	entries, err := store.ReadHistory("never-ran")
	require.NoError(t, err)
	assert.Empty(t, entries)
}
