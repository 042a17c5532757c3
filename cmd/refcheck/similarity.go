package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/refcheck/internal/analysis"
)

var similarityCmd = &cobra.Command{
	Use:   "similarity <fileA> <fileB>",
	Short: "Compare two texts for similarity",
	Long: `Compare two text files and report a similarity score with evidence.

The score runs 0-1: identical texts score near 1, unrelated texts near 0.
Matched phrases show where the texts overlap; long verbatim runs are
flagged as suspicious patterns.

Examples:
  refcheck similarity draft.txt submission.txt
  refcheck similarity a.txt b.txt --human`,
	Args: cobra.ExactArgs(2),
	Run:  runSimilarity,
}

func init() {
	rootCmd.AddCommand(similarityCmd)
}

func runSimilarity(cmd *cobra.Command, args []string) {
	textA, err := os.ReadFile(args[0])
	if err != nil {
		exitWithError(ExitDataError, "reading %s: %v", args[0], err)
	}
	textB, err := os.ReadFile(args[1])
	if err != nil {
		exitWithError(ExitDataError, "reading %s: %v", args[1], err)
	}

	result := analysis.AnalyzeSimilarity(string(textA), string(textB))

	if humanOutput {
		outputHuman("Similarity: %.2f\n", result.Similarity)
		if len(result.SuspiciousPatterns) > 0 {
			fmt.Println("\nSuspicious patterns:")
			for _, p := range result.SuspiciousPatterns {
				fmt.Printf("  - %s\n", p)
			}
		}
		if len(result.MatchedPhrases) > 0 {
			fmt.Println("\nMatched phrases:")
			for _, p := range result.MatchedPhrases {
				fmt.Printf("  - %q\n", p)
			}
		}
		if len(result.Recommendations) > 0 {
			fmt.Println("\nRecommendations:")
			for _, r := range result.Recommendations {
				fmt.Printf("  - %s\n", r)
			}
		}
		return
	}
	outputJSON(result)
}
