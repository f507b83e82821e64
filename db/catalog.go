package db

import (
	"database/sql"
	"fmt"
	"sort"

	"github.com/jimsmart/schema"
)

// ListTables returns the sorted names of the tables found in schemaName.
func ListTables(db *sql.DB, schemaName string) ([]string, error) {
	schemaTables, err := schema.TableNames(db)
	if err != nil {
		return nil, fmt.Errorf("retrieving table names: %w", err)
	}

	var tables []string
	for _, schemaTableName := range schemaTables {
		if schemaTableName[0] != schemaName {
			continue
		}
		tables = append(tables, schemaTableName[1])
	}
	sort.Strings(tables)

	return tables, nil
}

// HasTable reports whether table exists in schemaName once its name is folded
// the way dialect resolves unquoted identifiers.
func HasTable(db *sql.DB, dialect Dialect, schemaName string, table TargetTable) (bool, error) {
	if table.IsZero() {
		return false, &InvalidIdentifierError{}
	}
	if dialect == nil {
		dialect = GenericDialect{}
	}

	tables, err := ListTables(db, schemaName)
	if err != nil {
		return false, err
	}

	name := dialect.FoldIdentifier(table.String())
	for _, candidate := range tables {
		if candidate == name {
			return true, nil
		}
	}
	return false, nil
}
