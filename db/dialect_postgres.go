package db

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgconn"
	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/lib/pq"
)

// SQLSTATE undefined_table, list at https://www.postgresql.org/docs/14/errcodes-appendix.html#ERRCODES-TABLE
const postgresUndefinedTableCode = "42P01"

// PostgresDialect serves both lib/pq (`postgres`) and pgx (`pgx`) drivers.
type PostgresDialect struct{}

func (PostgresDialect) Name() string {
	return "postgres"
}

func (PostgresDialect) Placeholder(position int) string {
	return fmt.Sprintf("$%d", position)
}

func (PostgresDialect) DriverSupportRowsAffected() bool {
	return true
}

func (PostgresDialect) RequiresCommit() bool {
	return false
}

// Unquoted identifiers are folded to lower case by PostgreSQL.
func (PostgresDialect) FoldIdentifier(name string) string {
	return strings.ToLower(name)
}

func (PostgresDialect) IsUndefinedTable(err error) bool {
	var sqlError *pq.Error
	if errors.As(err, &sqlError) {
		return sqlError.Code == postgresUndefinedTableCode
	}

	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		return pgError.Code == postgresUndefinedTableCode
	}

	return false
}
