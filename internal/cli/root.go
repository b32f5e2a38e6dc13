// Package cli provides the command-line interface for cligue.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/raphaelgruber/cligue-go/internal/config"
	"github.com/raphaelgruber/cligue-go/internal/event"
	"github.com/raphaelgruber/cligue-go/internal/session"
	"github.com/raphaelgruber/cligue-go/internal/summary"
	"github.com/raphaelgruber/cligue-go/internal/video"
	"github.com/raphaelgruber/cligue-go/internal/vlm"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose bool
	cfgFile string

	// Global config and logger
	cfg        config.Config
	logger     *slog.Logger
	logCleanup func() error
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "cligue",
	Short: "Visual understanding chat assistant",
	Long: `Cligue analyzes a video with a vision-language model: it samples frames,
detects events, builds a summary, and lets you chat about what happened.

Requires a running model backend (Ollama with a vision model by default).`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		cfg = config.Load()
		if cfgFile != "" {
			var err error
			cfg, err = config.LoadFile(cfg, cfgFile)
			if err != nil {
				return err
			}
		}
		if verbose {
			cfg.LogLevel = slog.LevelDebug
		}

		logger, logCleanup = config.SetupLogger(cfg.LogFile, cfg.LogLevel)
		slog.SetDefault(logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCleanup != nil {
			if err := logCleanup(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
			}
		}
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to YAML config file")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(chatCmd)
}

// buildAnalyzer wires the full pipeline from the loaded config. The model
// client is shared between detection, summarization, and chat.
func buildAnalyzer(ctx context.Context) (*session.Analyzer, *vlm.Client, error) {
	client, err := vlm.New(ctx, cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("create model client: %w", err)
	}

	source := video.NewFFmpegSource(cfg.SampleFPS)
	detector := event.NewDetector(client, logger)
	summarizer := summary.New(client, logger)

	analyzer := session.NewAnalyzer(source, detector, summarizer, client, logger)
	analyzer.MaxDuration = cfg.MaxVideoDuration
	analyzer.MaxFrames = cfg.MaxFrames
	analyzer.MemoryWindow = cfg.MemoryWindow
	analyzer.SampleFPS = cfg.SampleFPS

	return analyzer, client, nil
}
