// Package main provides the refcheck CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matsen/refcheck/internal/config"
	"github.com/matsen/refcheck/internal/engine"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

// configPath is the configuration file to load
var configPath string

// verbose enables structured debug logging to stderr
var verbose bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		// This ensures Cobra errors (like missing required flags) are visible
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "refcheck",
	Short: "Reference and originality analysis CLI",
	Long: `refcheck analyzes academic references and text originality.

Core features:
  - Citation extraction from free text and PDFs (DOIs, URLs, reference lines)
  - Citation validation and quality scoring
  - Rendering in six citation styles (APA, MLA, Chicago, Harvard, Vancouver, IEEE)
  - Sorted bibliography generation
  - N-gram text similarity analysis
  - Plagiarism checking against a local corpus and the Crossref registry

Articles are stored in a local SQLite corpus. All commands output JSON
by default for AI agent integration.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Path to configuration file")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging to stderr")
	rootCmd.Version = Version
}

// mustLoadConfig loads configuration, exits on error.
func mustLoadConfig() *config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// newLogger builds the CLI logger. Debug logging goes to stderr so it
// never corrupts the JSON on stdout.
func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	log, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

// mustOpenEngine builds the analysis engine from configuration, exits
// on error. The caller is responsible for calling Close().
func mustOpenEngine() *engine.Engine {
	cfg := mustLoadConfig()
	eng, err := engine.New(cfg, engine.WithLogger(newLogger()))
	if err != nil {
		exitWithError(ExitError, "opening engine: %v", err)
	}
	return eng
}
