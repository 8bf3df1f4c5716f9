package datasource

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pitchside/internal/config"
	"github.com/yourusername/pitchside/internal/models"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

const sampleResultsCSV = `Div,Date,Time,HomeTeam,AwayTeam,FTHG,FTAG,FTR,B365H,B365D,B365A
E0,09/08/2025,12:30,Arsenal,Everton,3,0,H,1.50,4.20,6.50
E0,10/08/2025,15:00,Spurs,Chelsea,1,1,D,2.80,3.30,2.60
E0,16/08/2025,15:00,Everton,Spurs,0,2,A,3.10,3.20,2.40
`

func TestHistoryProviderParse(t *testing.T) {
	p := NewHistoryProvider(testLogger())

	results, err := p.parse(strings.NewReader(sampleResultsCSV))
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "Arsenal", results[0].HomeTeam)
	assert.Equal(t, 3, results[0].HomeGoals)
	assert.Equal(t, 0, results[0].AwayGoals)
	assert.Equal(t, time.Date(2025, 8, 9, 0, 0, 0, 0, time.UTC), results[0].Date)

	assert.Equal(t, "Spurs", results[2].AwayTeam)
	assert.Equal(t, 2, results[2].AwayGoals)
}

func TestHistoryProviderTwoDigitYear(t *testing.T) {
	p := NewHistoryProvider(testLogger())

	csvData := "Div,Date,HomeTeam,AwayTeam,FTHG,FTAG\nE0,09/08/25,Arsenal,Everton,1,0\n"
	results, err := p.parse(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 2025, results[0].Date.Year())
}

func TestHistoryProviderMissingColumn(t *testing.T) {
	p := NewHistoryProvider(testLogger())

	csvData := "Div,Date,HomeTeam,AwayTeam,FTHG\nE0,09/08/2025,Arsenal,Everton,1\n"
	_, err := p.parse(strings.NewReader(csvData))
	assert.ErrorContains(t, err, "FTAG")
}

func TestHistoryProviderSkipsBlankRows(t *testing.T) {
	p := NewHistoryProvider(testLogger())

	csvData := "Div,Date,HomeTeam,AwayTeam,FTHG,FTAG\nE0,09/08/2025,Arsenal,Everton,1,0\n,,,,,\n"
	results, err := p.parse(strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestHistoryProviderInvalidGoals(t *testing.T) {
	p := NewHistoryProvider(testLogger())

	csvData := "Div,Date,HomeTeam,AwayTeam,FTHG,FTAG\nE0,09/08/2025,Arsenal,Everton,x,0\n"
	_, err := p.parse(strings.NewReader(csvData))
	assert.ErrorContains(t, err, "invalid home goals")
}

func resultsTestClient(t *testing.T, handler http.HandlerFunc) *FootballAPIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.ResultsConfig{
		APIURL:         srv.URL,
		APIKey:         "test-key",
		APIHost:        "test-host",
		RequestsPerSec: 100,
		TimeoutSeconds: 5,
		RetryAttempts:  0,
	}
	client := NewFootballAPIClient(cfg, testLogger())
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestFixtureResultFullTime(t *testing.T) {
	client := resultsTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-rapidapi-key"))
		assert.Equal(t, "987654", r.URL.Query().Get("id"))
		_, _ = w.Write([]byte(`{"response":[{
			"fixture":{"id":987654,"date":"2026-02-03T20:00:00+00:00","status":{"short":"FT"}},
			"league":{"id":39,"season":2025,"round":"Regular Season - 24"},
			"teams":{"home":{"name":"Arsenal"},"away":{"name":"Spurs"}},
			"goals":{"home":2,"away":0}}]}`))
	})

	result, err := client.FixtureResult(context.Background(), 987654)
	require.NoError(t, err)
	assert.Equal(t, int64(987654), result.GameID)
	assert.Equal(t, 2, result.HomeGoals)
	assert.Equal(t, 0, result.AwayGoals)
	assert.Equal(t, models.OutcomeHome, result.Result)
}

func TestFixtureResultNotConcluded(t *testing.T) {
	client := resultsTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":[{
			"fixture":{"id":987654,"date":"2026-02-03T20:00:00+00:00","status":{"short":"NS"}},
			"teams":{"home":{"name":"Arsenal"},"away":{"name":"Spurs"}},
			"goals":{"home":null,"away":null}}]}`))
	})

	_, err := client.FixtureResult(context.Background(), 987654)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestFixtureResultUnknownFixture(t *testing.T) {
	client := resultsTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":[]}`))
	})

	_, err := client.FixtureResult(context.Background(), 111)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestFixtureResultDraw(t *testing.T) {
	client := resultsTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":[{
			"fixture":{"id":5,"date":"2026-02-03T20:00:00+00:00","status":{"short":"FT"}},
			"teams":{"home":{"name":"Leeds"},"away":{"name":"Fulham"}},
			"goals":{"home":1,"away":1}}]}`))
	})

	result, err := client.FixtureResult(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeDraw, result.Result)
}

func TestUpcomingFixtures(t *testing.T) {
	client := resultsTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "39", r.URL.Query().Get("league"))
		assert.Equal(t, "10", r.URL.Query().Get("next"))
		_, _ = w.Write([]byte(`{"response":[{
			"fixture":{"id":987654,"date":"2026-02-03T20:00:00+00:00","status":{"short":"NS"}},
			"league":{"id":39,"season":2025,"round":"Regular Season - 24"},
			"teams":{"home":{"name":"Arsenal"},"away":{"name":"Spurs"}},
			"goals":{"home":null,"away":null}}]}`))
	})

	fixtures, err := client.UpcomingFixtures(context.Background(), 39, "E0", 10)
	require.NoError(t, err)
	require.Len(t, fixtures, 1)
	assert.Equal(t, "E0", fixtures[0].LeagueCode)
	assert.Equal(t, "Arsenal", fixtures[0].HomeTeam)
	assert.Equal(t, "2025", fixtures[0].Season)
}

func TestResultsAPIErrorStatus(t *testing.T) {
	client := resultsTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := client.FixtureResult(context.Background(), 1)
	assert.ErrorContains(t, err, "status 403")
}
