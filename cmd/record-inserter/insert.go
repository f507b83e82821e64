package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	. "github.com/streamingfast/cli"
	"github.com/streamingfast/cli/sflags"
	"github.com/streamingfast/record-inserter/db"
	"go.uber.org/zap"
)

var insertCmd = Command(insertE,
	"insert <dsn> <table> <value>",
	"Insert one integer value into a table",
	ExactArgs(3),
	Flags(func(flags *pflag.FlagSet) {
		AddCommonDatabaseFlags(flags)

		flags.Bool("check-table", false, "Verify that <table> exists in the DSN's schema before inserting")
	}),
	Description(`
		Runs 'INSERT INTO <table> VALUES (<value>)' as a single parameterized statement.

		The table name may only contain ASCII letters, digits and underscores, anything
		else is rejected before connecting. The value is a base 10 signed 64 bits integer.

		Environment references like ${DB_PASSWORD} in <dsn> are expanded, write a
		literal dollar sign as $$.
	`),
)

func insertE(cmd *cobra.Command, args []string) error {
	dsnString := args[0]
	tableName := args[1]

	table, err := db.NewTargetTable(tableName)
	if err != nil {
		return err
	}

	value, err := parseValue(args[2])
	if err != nil {
		return err
	}

	database, ctx, cancel, err := openDatabase(cmd, dsnString)
	if err != nil {
		return err
	}
	defer cancel()
	defer database.Close()

	if sflags.MustGetBool(cmd, "check-table") {
		found, err := db.HasTable(database.DB, database.Dialect(), database.Schema(), table)
		if err != nil {
			return fmt.Errorf("check table: %w", err)
		}
		if !found {
			return fmt.Errorf("table %q not found in %s", table, database.GetIdentifier())
		}
	}

	rowsAffected, err := database.NewInserter().Insert(ctx, database.DB, db.InsertRequest{Table: table, Value: value})
	if err != nil {
		if db.IsUndefinedTable(database.Dialect(), err) {
			return fmt.Errorf("table %q does not exist in %s: %w", table, database.GetIdentifier(), err)
		}
		return err
	}

	zlog.Info("value inserted",
		zap.Stringer("table", table),
		zap.Int64("value", value),
		zap.Int64("rows_affected", rowsAffected),
	)
	return nil
}

func parseValue(in string) (int64, error) {
	value, err := strconv.ParseInt(in, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q: must be a base 10 integer between %d and %d", in, int64(-1<<63), int64(1<<63-1))
	}
	return value, nil
}
