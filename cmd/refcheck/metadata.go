package main

import (
	"context"
	"errors"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/matsen/refcheck/internal/metadata"
)

var metadataCmd = &cobra.Command{
	Use:   "metadata",
	Short: "Citation metadata registry commands",
	Long: `Commands for resolving citation metadata against Crossref.

A query that looks like a DOI is resolved directly; anything else runs
a bibliographic search. Results come back as citation records ready for
'refcheck format' or 'refcheck bibliography'.

Environment Variables:
  CROSSREF_MAILTO  Contact email sent with requests (polite pool)`,
}

var metadataSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the metadata registry",
	Long: `Resolve a DOI or search by title, author, or keywords.

Examples:
  refcheck metadata search "10.1038/nature12373"
  refcheck metadata search "coastal erosion dynamics" --human`,
	Args: cobra.ExactArgs(1),
	Run:  runMetadataSearch,
}

func init() {
	// Load .env file if present (for CROSSREF_MAILTO)
	_ = godotenv.Load()

	metadataCmd.AddCommand(metadataSearchCmd)
	rootCmd.AddCommand(metadataCmd)
}

func runMetadataSearch(cmd *cobra.Command, args []string) {
	cfg := mustLoadConfig()

	opts := []metadata.ClientOption{
		metadata.WithRows(cfg.SearchRows),
		metadata.WithLogger(newLogger()),
	}
	if cfg.MetadataBaseURL != "" {
		opts = append(opts, metadata.WithBaseURL(cfg.MetadataBaseURL))
	}
	if cfg.Mailto != "" {
		opts = append(opts, metadata.WithMailto(cfg.Mailto))
	}
	client := metadata.NewClient(opts...)

	ctx, cancel := context.WithTimeout(context.Background(), metadata.DefaultTimeout)
	defer cancel()

	citations, err := client.LookupCitations(ctx, args[0])
	if err != nil {
		switch {
		case errors.Is(err, metadata.ErrNotFound):
			exitWithError(ExitNotFound, "no metadata found for %q", args[0])
		case errors.Is(err, metadata.ErrRateLimited):
			exitWithError(ExitAPIError, "metadata registry rate limit exceeded, try again later")
		default:
			exitWithError(ExitAPIError, "searching metadata: %v", err)
		}
	}

	if humanOutput {
		outputHuman("Found %d result(s)\n\n", len(citations))
		printCitationsHuman(citations)
		return
	}
	outputJSON(citations)
}
