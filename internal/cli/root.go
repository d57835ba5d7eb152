// Package cli implements the cubr command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/cubr/internal/config"
	"github.com/SeamusWaldron/cubr/internal/log"
	"github.com/SeamusWaldron/cubr/internal/recorder"
	"github.com/SeamusWaldron/cubr/internal/solver"
	"github.com/SeamusWaldron/cubr/internal/storage"
)

const version = "0.1.0"

var (
	// Global flags
	configPath string
	dbPath     string
	verbose    bool
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "cubr",
	Short: "Animated Rubik's cube with solver playback and color capture",
	Long: `cubr - an animated 3x3x3 Rubik's cube.

Turn, shuffle and reset the cube from the keyboard or over HTTP, read a
cube's colors from six photos, ask an external solver for a solution and
step through it move by move. Every session is recorded so moves can be
exported and replayed later.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default: ~/.cubr/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database file path (default: ~/.cubr/cubr.db)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

// loadConfig reads the config file named by --config, or the default file
// when it exists.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath, false)
	}
	path, err := config.DefaultPath()
	if err != nil {
		return config.Default(), nil
	}
	return config.Load(path, true)
}

// newLogger builds the logger from the logging section; --verbose forces
// debug level.
func newLogger(cfg *config.Config) (log.Logger, error) {
	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	return log.NewFile(level, cfg.Logging.LogPath)
}

// newSolver builds the solver client from the solver section.
func newSolver(cfg *config.Config, logger log.Logger) *solver.Client {
	return solver.New(cfg.Solver.URL,
		solver.WithTimeout(cfg.SolverTimeout()),
		solver.WithLogger(logger),
	)
}

// getDBPath returns the database path from flag, config or checkpoint, in
// that order. Empty means the default.
func getDBPath(cfg *config.Config) string {
	if dbPath != "" {
		return dbPath
	}
	if cfg != nil && cfg.Storage.DBPath != "" {
		return cfg.Storage.DBPath
	}
	if checkpoint, err := recorder.OpenDefaultCheckpoint(); err == nil {
		return checkpoint.Get().DBPath
	}
	return ""
}

// openDB opens the database, applying migrations.
func openDB(cfg *config.Config) (*storage.DB, error) {
	path := getDBPath(cfg)
	if path == "" {
		db, err := storage.OpenDefault()
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		return db, nil
	}
	db, err := storage.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}
