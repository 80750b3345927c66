package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"imobcrm/internal/config"
	"imobcrm/internal/database"
	"imobcrm/internal/pkg/logger"
)

var databaseURL string

var rootCmd = &cobra.Command{
	Use:           "crmctl",
	Short:         "Operations tool for the CRM lead engine",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "database DSN (default: DATABASE_URL)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig reads the environment and applies flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if databaseURL != "" {
		cfg.DatabaseURL = databaseURL
	}
	if err := logger.Setup(logger.Options{Level: cfg.LogLevel, AppEnv: cfg.AppEnv}); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openDB(cfg *config.Config) (*gorm.DB, error) {
	return database.ConnectWithPool(cfg.DatabaseURL, database.PoolOptions{
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
	})
}
