package dbutil

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"regexp"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	appErr "github.com/NIKHIL-58/AI-ML/internal/pkg/errors"
)

var limitRegex = regexp.MustCompile(`(?i)LIMIT\s+\?\s*,\s*\?`)

// Finalize rewrites a '?' query for postgres: mysql style "LIMIT ?, ?" becomes
// "LIMIT ? OFFSET ?" and placeholders take the '$n' form.
func Finalize(query string, args []interface{}) (string, []interface{}) {
	loc := limitRegex.FindStringIndex(query)
	if loc != nil {
		prefix := query[:loc[0]]
		qCount := strings.Count(prefix, "?")
		if qCount+1 < len(args) {
			args[qCount], args[qCount+1] = args[qCount+1], args[qCount]
			query = limitRegex.ReplaceAllString(query, "LIMIT ? OFFSET ?")
		}
	}
	return sqlx.Rebind(sqlx.DOLLAR, query), args
}

// IsConnError reports whether err means the database could not be reached,
// as opposed to a query that reached it and failed.
func IsConnError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var pgErr *pq.Error
	if errors.As(err, &pgErr) {
		class := pgErr.Code.Class()
		// 08: connection exception, 57: operator intervention (shutdown etc.)
		return class == "08" || class == "57"
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// Classify tags connection failures as ErrUnavailable and leaves the rest untouched.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsConnError(err) {
		return fmt.Errorf("%s: %w: %v", op, appErr.ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
