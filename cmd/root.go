package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mindquest/coach/internal/config"
	"github.com/mindquest/coach/internal/content"
	"github.com/mindquest/coach/internal/progress"
	"github.com/mindquest/coach/internal/store"
)

var (
	cfg    = config.DefaultConfig()
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "mindquest",
	Short: "Daily focus and resilience coaching sessions",
	Long: `mindquest plans short coaching sessions from a fixed lesson library,
records completed runs and tracks streaks and XP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		if path == "" {
			path = config.DefaultPath()
		}
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		envFile, _ := cmd.Flags().GetString("env-file")
		if err := loaded.ApplyEnv(envFile); err != nil {
			return err
		}
		if err := loaded.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		cfg = loaded

		verbose, _ := cmd.Flags().GetBool("verbose")
		l, err := cfg.Logging.NewLogger(verbose)
		if err != nil {
			return err
		}
		logger = l
		logger.Debug("config loaded", zap.String("path", path), zap.String("timezone", cfg.Timezone))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides MINDQUEST_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default $XDG_CONFIG_HOME/mindquest/config.yaml)")
	rootCmd.PersistentFlags().String("env-file", ".env", "Dotenv file loaded before reading MINDQUEST_* variables")
	rootCmd.PersistentFlags().String("user", "", "Learner ID (default $MINDQUEST_USER, then $USER)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("ephemeral", false, "Keep progress in memory only")

	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(contentCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the config file or MINDQUEST_DB, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

// resolveUser returns the learner ID. An empty result means anonymous.
func resolveUser(cmd *cobra.Command) string {
	if u, _ := cmd.Flags().GetString("user"); u != "" {
		return u
	}
	if u := os.Getenv("MINDQUEST_USER"); u != "" {
		return u
	}
	return os.Getenv("USER")
}

// backend bundles the progress stores a command works against.
type backend struct {
	lessons progress.LessonStore
	runs    progress.RunStore
	metrics progress.MetricsStore
	history progress.RunHistory
	close   func() error
}

// openBackend opens the SQLite store, or an in-memory one under --ephemeral.
func openBackend(cmd *cobra.Command) (*backend, error) {
	if ephemeral, _ := cmd.Flags().GetBool("ephemeral"); ephemeral {
		m := progress.NewMemoryStore()
		return &backend{lessons: m, runs: m, metrics: m, history: m, close: func() error { return nil }}, nil
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	logger.Debug("store opened", zap.String("path", dbPath))
	return &backend{lessons: st, runs: st, metrics: st, history: st, close: st.Close}, nil
}

// location returns the configured streak timezone. Validate has already
// checked it.
func location() *time.Location {
	loc, err := cfg.Location()
	if err != nil {
		return time.UTC
	}
	return loc
}

// registry returns the built-in lesson library.
func registry() *content.Registry {
	return content.Default()
}
