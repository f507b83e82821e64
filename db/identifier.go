package db

import (
	"regexp"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// TargetTable is a table name that passed identifier validation and can be
// embedded as-is in the structural part of a statement. The zero value is not
// valid, use NewTargetTable.
type TargetTable struct {
	name string
}

func NewTargetTable(name string) (TargetTable, error) {
	if !identifierPattern.MatchString(name) {
		return TargetTable{}, &InvalidIdentifierError{Identifier: name}
	}

	return TargetTable{name: name}, nil
}

// MustNewTargetTable is like NewTargetTable but panics on invalid input, meant
// for table names known at compile time.
func MustNewTargetTable(name string) TargetTable {
	table, err := NewTargetTable(name)
	if err != nil {
		panic(err)
	}
	return table
}

func (t TargetTable) IsZero() bool {
	return t.name == ""
}

func (t TargetTable) String() string {
	return t.name
}

// InsertRequest is the unit of work of a RecordInserter, one value for one table.
type InsertRequest struct {
	Table TargetTable
	Value int64
}
