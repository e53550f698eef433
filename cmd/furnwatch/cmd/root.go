// Package cmd implements the furnwatch CLI commands.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mfinch/furniture-watch/internal/config"
	"github.com/mfinch/furniture-watch/internal/store"
	"github.com/mfinch/furniture-watch/pkg/logger"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "furnwatch",
		Short: "Watch a furniture marketplace for new listings",
		Long: "furnwatch scrapes the community furniture marketplace, remembers\n" +
			"every listing it has seen, and sends a push notification the first\n" +
			"time an unsold item shows up in a watched category.",
	}
)

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().
		StringVar(&cfgFile, "config", "config.yaml", "config file path")
	rootCmd.PersistentFlags().
		String("database", "", "database file (overrides config)")
	rootCmd.PersistentFlags().
		String("output", "table", "output format (table, json)")

	cobra.CheckErr(viper.BindPFlag("database", rootCmd.PersistentFlags().Lookup("database")))
	cobra.CheckErr(viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output")))

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(itemsCmd())
	rootCmd.AddCommand(jobsCmd())
}

func initConfig() {
	// Secrets like PUSHOVER_TOKEN live in .env during development; the
	// config file references them via ${VAR} expansion.
	_ = godotenv.Load()

	viper.SetEnvPrefix("FURNWATCH")
	viper.AutomaticEnv()
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config %s: %w", cfgFile, err)
	}
	if db := viper.GetString("database"); db != "" {
		cfg.Database.Path = db
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	return logger.New(cfg.Logging.Level, cfg.Logging.Format)
}

func openStore(ctx context.Context, cfg *config.Config) (*store.SQLiteStore, error) {
	st, err := store.NewSQLiteStore(ctx, cfg.Database.Path, cfg.Database.BusyTimeout)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", cfg.Database.Path, err)
	}
	if err := st.Ping(ctx); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return st, nil
}

func jsonOutput() bool {
	return viper.GetString("output") == "json"
}
