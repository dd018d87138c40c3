package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fralcy/find-smallest-number-game-sub000/internal/api"
	"github.com/fralcy/find-smallest-number-game-sub000/internal/config"
	"github.com/fralcy/find-smallest-number-game-sub000/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	configPath string
	dbPath     string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

// annotationTUI marks commands that own the terminal; their logs go to a file.
const annotationTUI = "tui"

var rootCmd = &cobra.Command{
	Use:   "numfind",
	Short: "numfind - click the numbers from smallest to largest",
	Long: `numfind is a number-finding puzzle. Every round shows a board of
distinct numbers and the player clicks them in ascending order against the
clock (Classic) or against a life count (Zen).

Openings are provably fair: the board derives from a committed server seed,
a client seed and a nonce, and any opening can be replayed with "verify".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("db") {
			loaded.Database.Path = dbPath
		}
		if err := loaded.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		cfg = loaded

		level := cfg.GetLogLevel()
		if verbose {
			level = zapcore.DebugLevel
		}
		if cmd.Annotations[annotationTUI] == "true" {
			logger, err = logging.ToFile(filepath.Join(os.TempDir(), "numfind.log"), level)
		} else {
			logger, err = logging.New(level, cfg.Logging.Development)
		}
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		v := api.GetVersionInfo()
		fmt.Fprintf(cmd.OutOrStdout(), "numfind %s (commit %s, built %s)\n", v.EngineVersion, v.GitCommit, v.BuildTime)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (empty disables history)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(autoplayCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(campaignCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
