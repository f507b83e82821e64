package db

import (
	"database/sql/driver"
	"fmt"
)

type Dialect interface {
	Name() string

	// Placeholder renders the bind marker of the 1-based parameter position.
	Placeholder(position int) string

	DriverSupportRowsAffected() bool

	// RequiresCommit is true when executed inserts are only sent to the
	// server once the transaction they belong to is committed.
	RequiresCommit() bool

	// FoldIdentifier returns the name the server resolves an unquoted
	// identifier to.
	FoldIdentifier(name string) string

	IsUndefinedTable(err error) bool
}

func DialectForDriver(driver driver.Driver) (Dialect, error) {
	driverType := fmt.Sprintf("%T", driver)
	switch driverType {
	case "*pq.Driver", "*stdlib.Driver":
		return PostgresDialect{}, nil
	case "*clickhouse.stdDriver":
		return ClickhouseDialect{}, nil
	default:
		return nil, UnknownDriverError{Driver: driverType}
	}
}

// GenericDialect uses `?` markers and trusts the driver's RowsAffected. It is
// the dialect of the package level InsertValue.
type GenericDialect struct{}

func (GenericDialect) Name() string {
	return "generic"
}

func (GenericDialect) Placeholder(int) string {
	return "?"
}

func (GenericDialect) DriverSupportRowsAffected() bool {
	return true
}

func (GenericDialect) RequiresCommit() bool {
	return false
}

func (GenericDialect) FoldIdentifier(name string) string {
	return name
}

func (GenericDialect) IsUndefinedTable(error) bool {
	return false
}
