// Package repositories implements PostgreSQL data access for
// practice-engine. Every repository resolves its querier through
// database.QuerierFrom so calls join any transaction the service
// layer has opened.
package repositories

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// pgUniqueViolation is the PostgreSQL error code for a unique
// constraint violation.
const pgUniqueViolation = "23505"

// isUniqueViolation reports whether err is a storage-level unique
// constraint violation. The schema enforces (staff_id, date) on
// schedule entries and (staff_id, kpi_id, month, year) on scores, so
// concurrent writers surface here rather than double-inserting.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
