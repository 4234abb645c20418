package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gobatcher",
		Short: "Batch scanning over gorm models",
		Long: `gobatcher walks database tables in fixed-size batches ordered by primary
key. The demo subcommand runs against an in-memory SQLite database; scan
connects to Postgres using the POSTGRES_* environment variables.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.AddCommand(newDemoCmd(), newScanCmd())

	return cmd
}

// loggerFromFlags builds the console logger shared by the subcommands,
// honoring the persistent --debug flag.
func loggerFromFlags(cmd *cobra.Command) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		level = zerolog.DebugLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().Timestamp().Logger()
}
