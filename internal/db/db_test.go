package db

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/NIKHIL-58/AI-ML/internal/config"
)

func TestBuildDSN(t *testing.T) {
	require.Equal(t, "postgres://x", BuildDSN(config.DatabaseConfig{DSN: "postgres://x", Host: "ignored"}))
	dsn := BuildDSN(config.DatabaseConfig{Host: "h", Port: 5432, User: "u", Password: "p", DBName: "d"})
	require.Equal(t, "host=h port=5432 user=u password=p dbname=d sslmode=disable", dsn)
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	require.Equal(t, []string{"001_chat_messages.sql", "002_reviews.sql", "003_embedding_cache.sql"}, names)
}
