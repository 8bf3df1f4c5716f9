package datasource

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitchside/internal/models"
)

// HistoryProvider loads historical league results used to compute match
// ratings. The file format follows the public football results CSVs:
// one file per league and season with Date, HomeTeam, AwayTeam, FTHG and
// FTAG columns, most recent rounds appended at the bottom.
type HistoryProvider struct {
	logger *logrus.Entry
}

// NewHistoryProvider creates a CSV-backed history provider
func NewHistoryProvider(log *logrus.Logger) *HistoryProvider {
	return &HistoryProvider{
		logger: log.WithField("component", "history_provider"),
	}
}

// Results reads all completed matches from the league's results file
func (p *HistoryProvider) Results(path string) ([]models.MatchResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open results file %s: %w", path, err)
	}
	defer f.Close()

	results, err := p.parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse results file %s: %w", path, err)
	}

	p.logger.WithFields(logrus.Fields{
		"file":    path,
		"matches": len(results),
	}).Debug("Loaded historical results")

	return results, nil
}

func (p *HistoryProvider) parse(r io.Reader) ([]models.MatchResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // season files grow extra odds columns over time

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	cols := map[string]int{}
	for i, name := range header {
		cols[name] = i
	}
	for _, required := range []string{"Date", "HomeTeam", "AwayTeam", "FTHG", "FTAG"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing required column %s", required)
		}
	}

	var results []models.MatchResult
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", line, err)
		}
		line++

		// Trailing blank rows are common at the end of season files.
		if emptyRow(row) {
			continue
		}

		date, err := parseMatchDate(row[cols["Date"]])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		homeGoals, err := strconv.Atoi(row[cols["FTHG"]])
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid home goals %q", line, row[cols["FTHG"]])
		}
		awayGoals, err := strconv.Atoi(row[cols["FTAG"]])
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid away goals %q", line, row[cols["FTAG"]])
		}

		results = append(results, models.MatchResult{
			Date:      date,
			HomeTeam:  row[cols["HomeTeam"]],
			AwayTeam:  row[cols["AwayTeam"]],
			HomeGoals: homeGoals,
			AwayGoals: awayGoals,
		})
	}

	return results, nil
}

// parseMatchDate accepts the two date layouts seen across seasons
func parseMatchDate(raw string) (time.Time, error) {
	for _, layout := range []string{"02/01/2006", "02/01/06"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid match date %q", raw)
}

func emptyRow(row []string) bool {
	for _, field := range row {
		if field != "" {
			return false
		}
	}
	return true
}
