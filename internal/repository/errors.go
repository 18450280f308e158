package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when a lookup matches no record.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate matches every DuplicateError.
	ErrDuplicate = errors.New("duplicate key")
	// ErrInvalidReference is returned when a record points at a missing or malformed identifier.
	ErrInvalidReference = errors.New("invalid reference")
)

// DuplicateError reports a unique index violation on Entity.Field.
type DuplicateError struct {
	Entity string
	Field  string
	Err    error
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate %s %s", e.Entity, e.Field)
}

func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicate
}

func (e *DuplicateError) Unwrap() error {
	return e.Err
}

// uniqueConstraints maps unique index names from the schema to entity fields.
var uniqueConstraints = map[string][2]string{
	"teacher_positions_code_key": {"position", "code"},
	"teachers_code_key":          {"teacher", "code"},
	"teachers_email_key":         {"teacher", "email"},
}

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgInvalidTextRepr     = "22P02"
)

// translateError converts driver errors into repository sentinels.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		if target, ok := uniqueConstraints[pgErr.ConstraintName]; ok {
			return &DuplicateError{Entity: target[0], Field: target[1], Err: err}
		}
		return &DuplicateError{Entity: pgErr.TableName, Field: pgErr.ConstraintName, Err: err}
	case pgForeignKeyViolation, pgInvalidTextRepr:
		return fmt.Errorf("%w: %s", ErrInvalidReference, pgErr.Message)
	}
	return err
}
