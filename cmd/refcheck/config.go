package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/refcheck/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration commands",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	Run:   runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Write the default configuration to the --config path.

Refuses to overwrite an existing file.`,
	Args: cobra.NoArgs,
	Run:  runConfigInit,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) {
	cfg := mustLoadConfig()

	if humanOutput {
		outputHuman("Database: %s\n", cfg.DatabasePath)
		outputHuman("Default style: %s\n", cfg.DefaultStyle)
		outputHuman("Similarity floor: %.2f\n", cfg.SimilarityFloor)
		outputHuman("Source timeout: %s\n", cfg.SourceTimeout())
		outputHuman("Internal sample limit: %d\n", cfg.SampleLimit)
		outputHuman("Registry search rows: %d\n", cfg.SearchRows)
		if cfg.MetadataBaseURL != "" {
			outputHuman("Registry URL: %s\n", cfg.MetadataBaseURL)
		}
		if cfg.Mailto != "" {
			outputHuman("Registry mailto: %s\n", cfg.Mailto)
		}
		return
	}
	outputJSON(cfg)
}

func runConfigInit(cmd *cobra.Command, args []string) {
	if _, err := os.Stat(configPath); err == nil {
		exitWithError(ExitConfigError, "config file %s already exists", configPath)
	}

	cfg := config.Default()
	if err := cfg.Save(configPath); err != nil {
		exitWithError(ExitError, "writing config: %v", err)
	}

	if humanOutput {
		outputHuman("Wrote %s\n", configPath)
		return
	}
	outputJSON(StatusResponse{Status: "created"})
}
