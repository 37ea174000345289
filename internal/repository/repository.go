package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"lakshmikitchen/internal/apperr"
)

const pgUniqueViolation = "23505"

// conflictOn reclassifies a unique-constraint violation into a Conflict
// carrying msg; any other storage error becomes Internal. Raw database
// error text never reaches a client.
func conflictOn(err error, msg string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return apperr.Wrap(apperr.KindConflict, msg, err)
	}
	return apperr.Wrap(apperr.KindInternal, "storage failure", err)
}
