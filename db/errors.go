package db

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidIdentifier = errors.New("invalid identifier")
	ErrExecution         = errors.New("execution failed")
)

// InvalidIdentifierError is returned when a table name contains anything else
// than ASCII letters, digits or underscores. It is always produced before any
// call reaches the database.
type InvalidIdentifierError struct {
	Identifier string
}

func (e *InvalidIdentifierError) Error() string {
	if e.Identifier == "" {
		return "invalid identifier: table name is required"
	}
	return fmt.Sprintf("invalid identifier %q: must match %s", e.Identifier, identifierPattern)
}

func (e *InvalidIdentifierError) Is(target error) bool {
	return target == ErrInvalidIdentifier
}

// ExecutionError wraps the driver error of a failed insert with the table and
// the step (prepare, exec, rows affected) that failed.
type ExecutionError struct {
	Table string
	Op    string
	Err   error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s insert into %q: %s", e.Op, e.Table, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

func (e *ExecutionError) Is(target error) bool {
	return target == ErrExecution
}

type UnknownDriverError struct {
	Driver string
}

func (e UnknownDriverError) Error() string {
	return fmt.Sprintf("unsupported driver: %s", e.Driver)
}

// IsUndefinedTable reports whether err, possibly an *ExecutionError, is the
// dialect's "table does not exist" error.
func IsUndefinedTable(dialect Dialect, err error) bool {
	if err == nil || dialect == nil {
		return false
	}

	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		err = execErr.Err
	}

	return dialect.IsUndefinedTable(err)
}
