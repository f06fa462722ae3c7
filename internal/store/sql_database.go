package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/MKhiriev/refsync/internal/logger"
	"github.com/MKhiriev/refsync/migrations"
)

const (
	// maxWriteAttempts bounds how often a write blocked by SQLITE_BUSY is
	// attempted before the error is surfaced.
	maxWriteAttempts = 3
	writeRetryDelay  = 50 * time.Millisecond
)

type DB struct {
	*sql.DB
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

func (db *DB) Migrate(ctx context.Context) error {
	return migrations.Migrate(ctx, db.DB)
}

// execWithRetry runs a write statement, repeating it while the classifier
// reports the failure as retryable.
func (db *DB) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	var lastErr error
	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		res, err := db.ExecContext(ctx, query, args...)
		if err == nil {
			return res, nil
		}
		lastErr = err

		if db.errorClassificator == nil || db.errorClassificator.Classify(err) != Retryable {
			break
		}

		db.logger.Warn().Err(err).Int("attempt", attempt).Msg("database busy, retrying write")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(writeRetryDelay * time.Duration(attempt)):
		}
	}
	return nil, fmt.Errorf("%w: %w", ErrExecutingStatement, lastErr)
}
