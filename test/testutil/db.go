package testutil

import (
	"context"
	"database/sql"
	"os"
	"strconv"
	"testing"

	"github.com/NIKHIL-58/AI-ML/internal/config"
	"github.com/NIKHIL-58/AI-ML/internal/db"
)

// OpenTestDB connects to the postgres named by TEST_DB_* and applies the
// migrations. The test is skipped when TEST_DB_HOST is unset.
func OpenTestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()
	host := os.Getenv("TEST_DB_HOST")
	if host == "" {
		t.Skip("TEST_DB_HOST not set, skipping postgres test")
	}
	port := 5432
	if v, err := strconv.Atoi(os.Getenv("TEST_DB_PORT")); err == nil {
		port = v
	}
	cfg := config.DatabaseConfig{
		Host:     host,
		Port:     port,
		User:     envOr("TEST_DB_USER", "aiml"),
		Password: envOr("TEST_DB_PASSWORD", "aiml_pass"),
		DBName:   envOr("TEST_DB_NAME", "aiml_test"),
		SSLMode:  "disable",
	}
	ctx := context.Background()
	conn, err := db.Open(ctx, cfg)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.ApplyMigrations(ctx, conn); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	for _, table := range []string{"chat_messages", "reviews", "embedding_cache"} {
		if _, err := conn.ExecContext(ctx, "TRUNCATE TABLE "+table); err != nil {
			t.Fatalf("truncate %s: %v", table, err)
		}
	}
	return conn, func() {
		_ = conn.Close()
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
