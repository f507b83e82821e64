package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/streamingfast/cli/sflags"
	"github.com/streamingfast/record-inserter/db"
	"go.uber.org/zap"
)

// AddCommonDatabaseFlags adds the flags common to all commands connecting to a
// database, namely `insert` and `tables`.
func AddCommonDatabaseFlags(flags *pflag.FlagSet) {
	flags.Duration("timeout", 30*time.Second, "Maximum time allowed for the whole command, connection included, 0 means no limit")
}

// openDatabase parses the DSN argument and opens it. The returned cancel func
// must be called once the database is closed.
func openDatabase(cmd *cobra.Command, dsnString string) (*db.Database, context.Context, context.CancelFunc, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cancel := context.CancelFunc(func() {})
	if timeout := sflags.MustGetDuration(cmd, "timeout"); timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
	}

	dsn, err := db.ParseDSN(dsnString)
	if err != nil {
		cancel()
		return nil, nil, nil, fmt.Errorf("parse dsn: %w", err)
	}

	if tracer.Enabled() {
		zlog.Debug("opening database", zap.Stringer("dsn", dsn))
	}

	database, err := db.Open(ctx, dsn, zlog)
	if err != nil {
		cancel()
		return nil, nil, nil, fmt.Errorf("open database %s: %w", dsn, err)
	}

	return database, ctx, cancel, nil
}
