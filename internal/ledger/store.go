// Package ledger owns league bankrolls and their persistence.
package ledger

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/yourusername/pitchside/internal/models"
)

// Store persists strategy documents as JSON and bankroll movements as CSV.
type Store struct {
	configDir  string
	historyDir string
}

// NewStore creates a store rooted at the given directories, creating them
// if they do not exist.
func NewStore(configDir, historyDir string) (*Store, error) {
	for _, dir := range []string{configDir, historyDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory %s: %w", dir, err)
		}
	}
	return &Store{configDir: configDir, historyDir: historyDir}, nil
}

// LoadStrategy reads the strategy document for the named strategy.
// A missing file is models.ErrNotFound so callers can distinguish it
// from a corrupt one.
func (s *Store) LoadStrategy(name string) (models.StrategyConfig, error) {
	path := s.strategyPath(name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("strategy %s at %s: %w", name, path, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read strategy %s: %w", name, err)
	}

	var cfg models.StrategyConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse strategy %s: %w", name, err)
	}
	return cfg, nil
}

// SaveStrategy writes the strategy document atomically via a temp file
// rename so a crash mid-write never leaves a truncated document.
func (s *Store) SaveStrategy(name string, cfg models.StrategyConfig) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal strategy %s: %w", name, err)
	}

	path := s.strategyPath(name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write strategy %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace strategy %s: %w", name, err)
	}
	return nil
}

// AppendHistory records one bankroll movement in the strategy's history CSV.
func (s *Store) AppendHistory(strategy string, entry HistoryEntry) error {
	path := filepath.Join(s.historyDir, strategy+".csv")

	_, statErr := os.Stat(path)
	writeHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open history for %s: %w", strategy, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write([]string{"timestamp", "league", "direction", "amount", "balance"}); err != nil {
			return fmt.Errorf("failed to write history header: %w", err)
		}
	}

	record := []string{
		entry.Timestamp.UTC().Format(time.RFC3339),
		entry.League,
		entry.Direction,
		strconv.FormatFloat(entry.Amount, 'f', 2, 64),
		strconv.FormatFloat(entry.Balance, 'f', 2, 64),
	}
	if err := w.Write(record); err != nil {
		return fmt.Errorf("failed to append history for %s: %w", strategy, err)
	}

	w.Flush()
	return w.Error()
}

// ReadHistory loads all recorded movements for a strategy, oldest first.
func (s *Store) ReadHistory(strategy string) ([]HistoryEntry, error) {
	path := filepath.Join(s.historyDir, strategy+".csv")
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open history for %s: %w", strategy, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read history for %s: %w", strategy, err)
	}

	var entries []HistoryEntry
	for i, row := range rows {
		if i == 0 && len(row) > 0 && row[0] == "timestamp" {
			continue
		}
		if len(row) != 5 {
			return nil, fmt.Errorf("malformed history row %d for %s", i+1, strategy)
		}
		ts, err := time.Parse(time.RFC3339, row[0])
		if err != nil {
			return nil, fmt.Errorf("malformed history timestamp on row %d: %w", i+1, err)
		}
		amount, err := strconv.ParseFloat(row[3], 64)
		if err != nil {
			return nil, fmt.Errorf("malformed history amount on row %d: %w", i+1, err)
		}
		balance, err := strconv.ParseFloat(row[4], 64)
		if err != nil {
			return nil, fmt.Errorf("malformed history balance on row %d: %w", i+1, err)
		}
		entries = append(entries, HistoryEntry{
			Timestamp: ts,
			League:    row[1],
			Direction: row[2],
			Amount:    amount,
			Balance:   balance,
		})
	}
	return entries, nil
}

func (s *Store) strategyPath(name string) string {
	return filepath.Join(s.configDir, name+".json")
}
