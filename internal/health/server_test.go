package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(ctx context.Context) error { return p.err }

type stubSession struct {
	authenticated bool
}

func (s stubSession) IsAuthenticated() bool { return s.authenticated }

func TestHandleReadyAllHealthy(t *testing.T) {
	srv := NewServer(Config{
		ServiceName: "pitchside",
		DB:          stubPinger{},
		Session:     stubSession{authenticated: true},
	})
	srv.SetReady(true)

	rec := httptest.NewRecorder()
	srv.handleReady(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp ReadyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "ok", resp.Checks["database"])
	assert.Equal(t, "ok", resp.Checks["bookmaker"])
}

func TestHandleReadyDatabaseDown(t *testing.T) {
	srv := NewServer(Config{
		ServiceName: "pitchside",
		DB:          stubPinger{err: errors.New("connection refused")},
	})
	srv.SetReady(true)

	rec := httptest.NewRecorder()
	srv.handleReady(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleReadySessionExpired(t *testing.T) {
	srv := NewServer(Config{
		ServiceName: "pitchside",
		Session:     stubSession{authenticated: false},
	})
	srv.SetReady(true)

	rec := httptest.NewRecorder()
	srv.handleReady(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp ReadyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "session_expired", resp.Checks["bookmaker"])
}

func TestHandleReadyNotReady(t *testing.T) {
	srv := NewServer(Config{ServiceName: "pitchside"})

	rec := httptest.NewRecorder()
	srv.handleReady(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	srv := NewServer(Config{ServiceName: "pitchside", Version: "1.0.0"})

	rec := httptest.NewRecorder()
	srv.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "pitchside", resp.Service)
}
