package db

import (
	"errors"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// ClickHouse server error code UNKNOWN_TABLE.
const clickhouseUnknownTableCode = 60

type ClickhouseDialect struct{}

func (ClickhouseDialect) Name() string {
	return "clickhouse"
}

func (ClickhouseDialect) Placeholder(int) string {
	return "?"
}

// The clickhouse std driver always reports 0 rows affected for inserts.
func (ClickhouseDialect) DriverSupportRowsAffected() bool {
	return false
}

// The std driver turns a prepared INSERT into a batch that is only sent on
// commit, closing the statement discards it.
func (ClickhouseDialect) RequiresCommit() bool {
	return true
}

// ClickHouse identifiers are case-sensitive.
func (ClickhouseDialect) FoldIdentifier(name string) string {
	return name
}

func (ClickhouseDialect) IsUndefinedTable(err error) bool {
	var exception *clickhouse.Exception
	if !errors.As(err, &exception) {
		return false
	}

	return exception.Code == clickhouseUnknownTableCode
}
