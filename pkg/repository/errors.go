package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
)

// Errors names the domain errors a repository reports for the driver
// conditions it recognizes. A nil field leaves that condition unmapped.
type Errors struct {
	NotFound  error
	Duplicate error
	Invalid   error
}

// Map translates err into the matching domain error. sql.ErrNoRows maps to
// NotFound, unique violations to Duplicate, check violations to Invalid.
// Anything else is returned unchanged.
func (e Errors) Map(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) && e.NotFound != nil {
		return e.NotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgUniqueViolation && e.Duplicate != nil:
			return e.Duplicate
		case pgErr.Code == pgCheckViolation && e.Invalid != nil:
			return e.Invalid
		}
	}

	return err
}
