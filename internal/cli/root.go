// Package cli provides the command-line interface for docchat.
package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/rahulvenkat/docchat/internal/api"
	"github.com/rahulvenkat/docchat/internal/config"
	"github.com/rahulvenkat/docchat/internal/metrics"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose bool

	// Shared state initialized in PersistentPreRunE
	cfg        config.Config
	logger     *slog.Logger
	logCleanup func() error
	apiClient  *api.Client
	collector  *metrics.Collector
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "docchat",
	Short: "Chat with your course documents",
	Long: `Docchat is a terminal client for a document question-answering assistant.

Upload PDF course material, ask questions against it (or against the general
model), inspect the citations backing each answer, and translate answers to
Hindi or Tamil.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		cfg = config.Load()

		level := cfg.LogLevel
		if verbose {
			level = slog.LevelDebug
		}

		// The interactive session logs to file only; everything else gets
		// the dual stderr/file logger.
		if cmd.Name() == "chat" {
			logger, logCleanup = config.SetupFileLogger(cfg.LogFile, level)
		} else {
			logger, logCleanup = config.SetupLogger(cfg.LogFile, level)
		}

		collector = metrics.NewCollector()
		apiClient = api.New(cfg.ServerURL, logger, collector)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCleanup != nil {
			_ = logCleanup()
		}
	},
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(docsCmd)
	rootCmd.AddCommand(modelsCmd)
}
