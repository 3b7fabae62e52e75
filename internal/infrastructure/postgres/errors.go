package postgres

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/brew-catalog-api/pkg/validation"
)

// uniqueField maps unique constraint names to the field they guard and the
// message reported for it.
type uniqueField struct {
	field   string
	message string
}

// asUniqueViolation turns a unique violation on one of the known constraints
// into a validation error for entity. Any other error is returned as nil.
func asUniqueViolation(err error, entity string, constraints map[string]uniqueField) *validation.Error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return nil
	}
	uf, ok := constraints[pgErr.ConstraintName]
	if !ok {
		return nil
	}
	return validation.NewError(entity, map[string]string{uf.field: uf.message})
}
