package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes the repositories react to
const (
	UniqueViolation     = "23505"
	ForeignKeyViolation = "23503"
)

func pgCode(err error) (string, string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return "", "", false
	}
	return pgErr.Code, pgErr.ConstraintName, true
}

// IsUniqueViolation checks if the error is a PostgreSQL unique violation error
func IsUniqueViolation(err error) bool {
	code, _, ok := pgCode(err)
	return ok && code == UniqueViolation
}

// IsDuplicateConstraintError checks for a unique violation on a specific constraint.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	code, constraint, ok := pgCode(err)
	return ok && code == UniqueViolation && constraint == constraintName
}

// IsForeignKeyViolation reports a rejected insert/update/delete due to a foreign key
func IsForeignKeyViolation(err error) bool {
	code, _, ok := pgCode(err)
	return ok && code == ForeignKeyViolation
}
