package cli

import (
	"fmt"
	"os"

	"github.com/appspark/waitlist/internal/config"
	"github.com/appspark/waitlist/internal/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	dbPath    string
	storeName string
	logLevel  string

	cfg    config.Config
	logger = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "waitlist",
	Short: "App Spark waitlist - signups, questionnaire and insights",
	Long: `App Spark waitlist collects signups, walks new signups through a short
questionnaire and shows aggregated insights.

Records live in a Notion database or a local SQLite file.

Running without a subcommand starts the server (same as 'waitlist serve').`,
	PersistentPreRunE: loadConfig,
	RunE:              runServe, // Default action is to start server
	SilenceUsage:      true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags; empty means use the environment
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (WAITLIST_DB_PATH)")
	rootCmd.PersistentFlags().StringVar(&storeName, "store", "", "record store: notion or sqlite (WAITLIST_STORE)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (WAITLIST_LOG_LEVEL)")
}

// loadConfig reads .env and the environment, then applies flag overrides.
func loadConfig(cmd *cobra.Command, args []string) error {
	c, err := config.Load()
	if err != nil {
		return err
	}

	if dbPath != "" {
		c.DBPath = dbPath
	}
	if storeName != "" {
		c.Store = storeName
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
	if err := c.Validate(); err != nil {
		return err
	}

	l, err := logging.New(c.LogLevel, c.LogFormat, os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}

	cfg, logger = c, l
	return nil
}
