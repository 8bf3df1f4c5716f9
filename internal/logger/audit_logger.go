// Package logger provides audit logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging for wagering activity.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogBetPlacement logs a bet placement event.
func (al *AuditLogger) LogBetPlacement(betID string, gameID int64, league, pick string, stake, odds, bankrollAfter float64, timestamp time.Time) {
	al.WithFields(logrus.Fields{
		"bet_id":         betID,
		"game_id":        gameID,
		"league":         league,
		"pick":           pick,
		"stake":          stake,
		"odds":           odds,
		"bankroll_after": bankrollAfter,
		"timestamp":      timestamp.Unix(),
	}).Info("Bet placement recorded")
}

// LogBetStateChange logs a bet state transition.
func (al *AuditLogger) LogBetStateChange(betID string, gameID int64, oldState, newState string) {
	al.WithFields(logrus.Fields{
		"bet_id":    betID,
		"game_id":   gameID,
		"old_state": oldState,
		"new_state": newState,
	}).Info("Bet state changed")
}

// LogBankrollChange logs a ledger movement against a league bankroll.
func (al *AuditLogger) LogBankrollChange(league, direction string, amount, balanceAfter float64) {
	al.WithFields(logrus.Fields{
		"league":        league,
		"direction":     direction,
		"amount":        amount,
		"balance_after": balanceAfter,
	}).Info("Bankroll movement recorded")
}

// LogSettlement logs a settled bet outcome.
func (al *AuditLogger) LogSettlement(betID string, gameID int64, result string, gainLoss, profit float64) {
	al.WithFields(logrus.Fields{
		"bet_id":    betID,
		"game_id":   gameID,
		"result":    result,
		"gain_loss": gainLoss,
		"profit":    profit,
	}).Info("Bet settlement recorded")
}
