package remote

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/bizboard/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgInvalidTextRepresentation = "22P02"
	pgIntegrityViolationClass   = "23"
)

// mapError converts driver errors into the package error contract.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, common.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgInvalidTextRepresentation:
			// a malformed uuid can never match a row
			return fmt.Errorf("%s: %w", op, common.ErrNotFound)
		case len(pgErr.Code) == 5 && pgErr.Code[:2] == pgIntegrityViolationClass:
			return fmt.Errorf("%s: %w: %s", op, common.ErrValidation, pgErr.Message)
		}
	}

	return fmt.Errorf("%s: %w: %w", op, common.ErrUnavailable, err)
}
