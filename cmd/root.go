package cmd

import (
	"fmt"

	"github.com/abhisek/sqlcoach/internal/config"
	"github.com/abhisek/sqlcoach/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sqlcoach",
	Short: "AI SQL coach for the terminal",
	Long: "SQL Coach — adaptive terminal tutor that walks you through a SQL " +
		"curriculum, grades your queries, and adjusts to your weak spots.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLearn(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (overrides SQLCOACH_CONFIG env var)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides SQLCOACH_DB env var)")
	rootCmd.PersistentFlags().String("graph", "", "Path to the knowledge graph JSON (overrides SQLCOACH_GRAPH env var)")
	rootCmd.PersistentFlags().String("problems", "", "Path to the problem bank JSON (overrides SQLCOACH_PROBLEMS env var)")

	rootCmd.AddCommand(learnCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

// loadConfig builds the effective configuration for a command: file and
// environment via config.Load, then any flags the command defines on top.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}

	if f := cmd.Flags().Lookup("user"); f != nil && f.Changed {
		cfg.User = f.Value.String()
	}
	if f := cmd.Flags().Lookup("topic"); f != nil && f.Changed {
		cfg.Topic = f.Value.String()
	}
	if f := cmd.Flags().Lookup("difficulty"); f != nil && f.Changed {
		cfg.Difficulty = f.Value.String()
	}
	if f := cmd.Flags().Lookup("graph"); f != nil && f.Changed {
		cfg.Paths.Graph = f.Value.String()
	}
	if f := cmd.Flags().Lookup("problems"); f != nil && f.Changed {
		cfg.Paths.Problems = f.Value.String()
	}
	if f := cmd.Flags().Lookup("db"); f != nil && f.Changed {
		cfg.Paths.DB = f.Value.String()
	}

	return cfg, cfg.Validate()
}

// openStore loads config, resolves the database path and opens the store.
// The caller owns the returned store and must close it.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// resolveDBPath returns the database path using the --db flag (highest
// priority), then the config file / SQLCOACH_DB env var, then the default
// XDG path.
func resolveDBPath(cmd *cobra.Command, cfg config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.Paths.DB != "" {
		return cfg.Paths.DB, store.EnsureDir(cfg.Paths.DB)
	}
	return store.DefaultDBPath()
}
