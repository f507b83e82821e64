package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	. "github.com/streamingfast/cli"
	"github.com/streamingfast/record-inserter/db"
)

var tablesCmd = Command(tablesE,
	"tables <dsn>",
	"List the tables of the DSN's schema, one per line",
	ExactArgs(1),
	Flags(func(flags *pflag.FlagSet) {
		AddCommonDatabaseFlags(flags)
	}),
)

func tablesE(cmd *cobra.Command, args []string) error {
	database, _, cancel, err := openDatabase(cmd, args[0])
	if err != nil {
		return err
	}
	defer cancel()
	defer database.Close()

	tables, err := db.ListTables(database.DB, database.Schema())
	if err != nil {
		return fmt.Errorf("list tables of %s: %w", database.GetIdentifier(), err)
	}

	for _, table := range tables {
		fmt.Fprintln(cmd.OutOrStdout(), table)
	}
	return nil
}
