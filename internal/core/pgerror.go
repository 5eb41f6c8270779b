// AngelaMos | 2026
// pgerror.go

package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// MapPgError translates constraint violations into domain sentinels. Other
// errors are returned unchanged.
func MapPgError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return fmt.Errorf("%w: %s", ErrDuplicateKey, pgErr.ConstraintName)
	case pgerrcode.ForeignKeyViolation:
		// 23503 is raised for both sides of the constraint: a dangling
		// reference on insert/update, a live reference on delete.
		if strings.Contains(pgErr.Detail, "is still referenced") {
			return fmt.Errorf("%w: %s", ErrReferenceInUse, pgErr.ConstraintName)
		}
		return fmt.Errorf("%w: %s", ErrReferenceNotFound, pgErr.ConstraintName)
	case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
		return fmt.Errorf("%w: %s", ErrInvalidInput, pgErr.ConstraintName)
	default:
		return fmt.Errorf("postgres error [%s]: %s: %w", pgErr.Code, pgErr.Message, err)
	}
}

func IsDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}
	return false
}
