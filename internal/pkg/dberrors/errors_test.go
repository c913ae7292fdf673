package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsDuplicateConstraintError(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: UniqueViolation, ConstraintName: "courses_name_key"})

	assert.True(t, IsUniqueViolation(err))
	assert.True(t, IsDuplicateConstraintError(err, "courses_name_key"))
	assert.False(t, IsDuplicateConstraintError(err, "courses_pkey"))
	assert.False(t, IsForeignKeyViolation(err))
}

func TestIsForeignKeyViolation(t *testing.T) {
	assert.True(t, IsForeignKeyViolation(&pgconn.PgError{Code: ForeignKeyViolation}))
	assert.False(t, IsForeignKeyViolation(errors.New("connection reset")))
	assert.False(t, IsUniqueViolation(nil))
}
