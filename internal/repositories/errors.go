package repositories

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrAlreadyExists is returned when an insert or update violates a unique
// constraint. The storage-layer index is authoritative even when a
// read-time existence check passed earlier in the request.
var ErrAlreadyExists = errors.New("record already exists")

const uniqueViolationCode = "23505"

func translateUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return ErrAlreadyExists
	}
	return err
}
