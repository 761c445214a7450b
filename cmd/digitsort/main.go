package main

import (
	"fmt"
	"os"

	"digitsort/internal/config"
	"digitsort/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	// Global flags
	verbose    bool
	configPath string

	// Loaded in PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "digitsort",
	Short: "digitsort - decimal LSD radix sort for non-negative integers",
	Long: `digitsort sorts sequences of non-negative integers by repeatedly
distributing them into ten digit buckets, least significant digit first.

Values can be given as arguments, read from a file or stdin, sorted in
batches, or served over HTTP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config %s: %w", configPath, err)
		}

		logger, err = logging.New(cfg.Logging, verbose)
		if err != nil {
			return err
		}
		logging.Initialize(logger, cfg.Logging)
		logging.Get(logging.CategoryBoot).Debug("config loaded",
			zap.String("path", configPath),
			zap.String("level", cfg.Logging.Level),
		)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the digitsort version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "digitsort %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Path to config file")

	rootCmd.AddCommand(
		sortCmd,
		batchCmd,
		serveCmd,
		configCmd,
		versionCmd,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
