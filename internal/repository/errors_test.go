package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateError(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, translateError(nil))
	})

	t.Run("no rows", func(t *testing.T) {
		err := translateError(fmt.Errorf("scan: %w", pgx.ErrNoRows))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("known unique constraint", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "teachers_email_key", TableName: "teachers"}
		err := translateError(pgErr)

		var dup *DuplicateError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "teacher", dup.Entity)
		assert.Equal(t, "email", dup.Field)
		assert.ErrorIs(t, err, ErrDuplicate)
		assert.ErrorIs(t, err, pgErr)
	})

	t.Run("unknown unique constraint", func(t *testing.T) {
		err := translateError(&pgconn.PgError{Code: "23505", ConstraintName: "users_pkey", TableName: "users"})

		var dup *DuplicateError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "users", dup.Entity)
		assert.Equal(t, "users_pkey", dup.Field)
	})

	t.Run("foreign key", func(t *testing.T) {
		err := translateError(&pgconn.PgError{Code: "23503", Message: "violates foreign key constraint"})
		assert.ErrorIs(t, err, ErrInvalidReference)
		assert.NotErrorIs(t, err, ErrDuplicate)
	})

	t.Run("malformed uuid", func(t *testing.T) {
		err := translateError(&pgconn.PgError{Code: "22P02", Message: "invalid input syntax for type uuid"})
		assert.ErrorIs(t, err, ErrInvalidReference)
	})

	t.Run("other errors pass through", func(t *testing.T) {
		boom := errors.New("connection reset")
		assert.Same(t, boom, translateError(boom))

		pgErr := &pgconn.PgError{Code: "40001"}
		assert.Equal(t, error(pgErr), translateError(pgErr))
	})
}

func TestPrefixColumns(t *testing.T) {
	assert.Equal(t, "u.id, u.email, u.name", prefixColumns("u", "id, email,name"))
}
