package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"strings"

	ierr "github.com/dealerbook/dealerbook/internal/errors"
	"github.com/lib/pq"
	"modernc.org/sqlite"
)

// primary result codes from sqlite3.h
const (
	sqliteBusy       = 5
	sqliteLocked     = 6
	sqliteConstraint = 19
)

// ClassifyError maps driver errors onto the error taxonomy.
// Serialization failures, deadlocks and unique violations are conflicts,
// connection failures mean the store is unavailable, the rest are database errors.
func ClassifyError(err error, op string) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return ierr.WithError(err).
			WithHint("Record not found").
			Mark(ierr.ErrNotFound)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case isConflict(err):
		return ierr.WithError(err).
			WithMessage(op).
			WithHint("The records were modified concurrently, please retry").
			Mark(ierr.ErrVersionConflict)
	case isUnavailable(err):
		return ierr.WithError(err).
			WithMessage(op).
			WithHint("The store is temporarily unavailable").
			Mark(ierr.ErrStoreUnavailable)
	}

	return ierr.WithError(err).
		WithMessage(op).
		WithHint("Database operation failed").
		Mark(ierr.ErrDatabase)
}

func isConflict(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "40001", "40P01", "23505":
			return true
		}
		return false
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() & 0xff {
		case sqliteBusy, sqliteLocked:
			return true
		case sqliteConstraint:
			// primary key and unique violations from concurrent inserts
			msg := liteErr.Error()
			return strings.Contains(msg, "UNIQUE") || strings.Contains(msg, "PRIMARY KEY")
		}
	}
	return false
}

func isUnavailable(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		case "08", "53", "57":
			return true
		}
		return false
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
