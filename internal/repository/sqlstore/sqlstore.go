// Package sqlstore implements the repositories on database/sql through sqlx.
// Queries are written once with :named parameters and run on both postgres
// and sqlite.
package sqlstore

import (
	"database/sql"
	"errors"

	"github.com/dealerbook/dealerbook/internal/database"
	ierr "github.com/dealerbook/dealerbook/internal/errors"
)

// checkVersioned turns an update that matched no row into a conflict
func checkVersioned(result sql.Result, table, id string, version int64) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return database.ClassifyError(err, "rows affected")
	}
	if rows == 0 {
		return ierr.NewError("version conflict").
			WithHint("The records were modified concurrently, please retry").
			WithReportableDetails(map[string]any{
				"table":            table,
				"id":               id,
				"expected_version": version,
			}).
			Mark(ierr.ErrVersionConflict)
	}
	return nil
}

func notFound(table, id string) error {
	return ierr.NewError("record not found").
		WithHintf("No %s record with id %s", table, id).
		WithReportableDetails(map[string]any{
			"table": table,
			"id":    id,
		}).
		Mark(ierr.ErrNotFound)
}

// getError maps a single row lookup failure
func getError(err error, table, id, op string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound(table, id)
	}
	return database.ClassifyError(err, op)
}
