package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	. "github.com/streamingfast/cli"
	"github.com/streamingfast/cli/sflags"
	"github.com/streamingfast/record-inserter/db"
	"go.uber.org/zap"
)

// Injected at build time
var version = "dev"

func main() {
	Run("record-inserter", "Insert single integer values into SQL tables",
		insertCmd,
		tablesCmd,

		ConfigureViper("RECORD_INSERTER"),
		ConfigureVersion(version),

		PersistentFlags(func(flags *pflag.FlagSet) {
			flags.String("config", "", "Optional configuration file (yaml, json or toml) whose keys override flag defaults")
		}),
		AfterAllHook(func(cmd *cobra.Command) {
			cmd.PersistentPreRunE = preStart
		}),
	)
}

func preStart(cmd *cobra.Command, _ []string) error {
	db.RegisterMetrics()

	configFile := sflags.MustGetString(cmd, "config")
	if configFile == "" {
		return nil
	}

	viper.SetConfigFile(configFile)
	if err := viper.MergeInConfig(); err != nil {
		return fmt.Errorf("read config file %q: %w", configFile, err)
	}

	zlog.Info("loaded configuration file", zap.String("path", configFile))
	return nil
}
