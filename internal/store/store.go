// Package store provides the PostgreSQL data access layer.
//
// Each store owns one table (audit records, users) and embeds shared
// helpers (Pool, logger) via the Base struct. Stores never import each
// other; shared logic lives in this file or in dedicated helper files.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"

	"github.com/ginternational/backoffice/internal/dbpool"
	"github.com/ginternational/backoffice/internal/models"
)

const defaultQueryTimeout = 30 * time.Second

// pgUniqueViolation is the SQLSTATE for unique constraint violations.
const pgUniqueViolation = "23505"

// Base contains shared dependencies for all stores.
// Embed this in each store struct.
type Base struct {
	Pool *dbpool.Pool
	Log  *logrus.Logger
}

// withTimeout creates a context with the default query timeout.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, defaultQueryTimeout)
}

// mapWriteError translates constraint violations into model sentinels.
func mapWriteError(err error, what string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("%s: %w", what, models.ErrDuplicateKey)
	}

	return fmt.Errorf("%s: %w", what, err)
}
