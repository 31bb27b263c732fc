package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestClassification(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: UniqueViolation, ConstraintName: "students_email_key"})
	fk := &pgconn.PgError{Code: ForeignKeyViolation, ConstraintName: "users_role_id_fkey"}

	assert.True(t, IsUniqueViolation(unique))
	assert.True(t, IsDuplicateConstraintError(unique, "students_email_key"))
	assert.False(t, IsDuplicateConstraintError(unique, "sections_name_key"))
	assert.False(t, IsForeignKeyViolation(unique))

	assert.True(t, IsForeignKeyViolation(fk))
	assert.False(t, IsUniqueViolation(fk))

	plain := errors.New("connection reset")
	assert.False(t, IsUniqueViolation(plain))
	assert.False(t, IsForeignKeyViolation(plain))
}
