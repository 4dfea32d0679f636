package repositories

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrConflict is returned when an insert hits a unique constraint
// (duplicate external id, duplicate review, duplicate watchlist entry).
// Check-then-insert races between concurrent requests resolve to this
// error rather than corrupting state.
var ErrConflict = errors.New("unique constraint violation")

const pgUniqueViolation = "23505"

func mapConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrConflict
	}
	return err
}
