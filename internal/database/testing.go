package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/yourusername/pitchside/internal/config"
)

// SetupTestDB connects to the test database named by PITCHSIDE_TEST_CONFIG.
// Tests that need a live database skip when the variable is unset.
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	path := os.Getenv("PITCHSIDE_TEST_CONFIG")
	if path == "" {
		t.Skip("PITCHSIDE_TEST_CONFIG not set; skipping database test")
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("failed to load test config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		t.Fatalf("failed to create test database connection: %v", err)
	}

	t.Cleanup(db.Close)
	return db
}
