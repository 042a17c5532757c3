package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/refcheck/internal/analysis"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Score reference list quality",
	Long: `Score a reference list for validity, completeness, and duplicates.

Input is a JSON array of citations, as produced by 'refcheck extract',
read from the named file or stdin. The quality score runs 0-100;
duplicates are detected by DOI and by title plus first-author surname.

Examples:
  refcheck extract paper.txt | refcheck analyze
  refcheck analyze citations.json --human`,
	Args: cobra.MaximumNArgs(1),
	Run:  runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) {
	citations := readCitationsInput(args)
	result := analysis.AnalyzeReferences(citations)

	if humanOutput {
		outputHuman("Quality score: %.0f/100\n", result.QualityScore)
		outputHuman("References: %d total, %d valid, %d invalid, %d duplicate\n",
			result.TotalReferences, result.ValidReferences,
			result.InvalidReferences, result.DuplicateReferences)
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
