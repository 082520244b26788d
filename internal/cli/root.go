// Package cli wires the cobra commands of the diagnosis API: serving
// the HTTP API, loading knowledge files and bootstrapping admin
// accounts.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"med-diagnosis-api/internal/config"
)

var rootCmd = &cobra.Command{
	Use:          "medapi",
	Short:        "Medical diagnosis API server",
	Long:         "Symptom analysis service: select symptoms, get ranked disease candidates with treatment guidance.",
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(createAccountCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openDatabase opens the SQLite store from the configuration.
func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}
