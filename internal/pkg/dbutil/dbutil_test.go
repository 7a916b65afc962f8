package dbutil

import (
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	appErr "github.com/NIKHIL-58/AI-ML/internal/pkg/errors"
)

func TestFinalizeRebindsPlaceholders(t *testing.T) {
	q, args := Finalize("SELECT id FROM reviews WHERE sentiment=? AND ctime>?", []interface{}{"positive", 1})
	require.Equal(t, "SELECT id FROM reviews WHERE sentiment=$1 AND ctime>$2", q)
	require.Equal(t, []interface{}{"positive", 1}, args)
}

func TestFinalizeRewritesLimitOffset(t *testing.T) {
	q, args := Finalize("SELECT id FROM reviews WHERE sentiment=? LIMIT ?, ?", []interface{}{"positive", 20, 10})
	require.Equal(t, "SELECT id FROM reviews WHERE sentiment=$1 LIMIT $2 OFFSET $3", q)
	require.Equal(t, []interface{}{"positive", 10, 20}, args)
}

func TestClassify(t *testing.T) {
	require.NoError(t, Classify("op", nil))

	err := Classify("list messages", driver.ErrBadConn)
	require.ErrorIs(t, err, appErr.ErrUnavailable)

	err = Classify("list messages", &pq.Error{Code: "08006"})
	require.ErrorIs(t, err, appErr.ErrUnavailable)

	syntax := &pq.Error{Code: "42601"}
	err = Classify("list messages", syntax)
	require.False(t, errors.Is(err, appErr.ErrUnavailable))
	var pgErr *pq.Error
	require.True(t, errors.As(err, &pgErr))
}
