package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/refcheck/internal/citation"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate citation completeness and format",
	Long: `Validate a list of citations for completeness and format problems.

Input is a JSON array of citations, as produced by 'refcheck extract',
read from the named file or stdin. Output pairs one validation result
with each input citation, in order: errors make a citation invalid,
warnings and suggestions do not.

Examples:
  refcheck extract paper.txt | refcheck validate
  refcheck validate citations.json --human`,
	Args: cobra.MaximumNArgs(1),
	Run:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) {
	citations := readCitationsInput(args)
	results := citation.ValidateCitations(citations)

	if humanOutput {
		printValidationHuman(citations, results)
		return
	}
	outputJSON(results)
}

func printValidationHuman(citations []citation.Citation, results []citation.ValidationResult) {
	valid := 0
	for _, r := range results {
		if r.IsValid {
			valid++
		}
	}
	outputHuman("%d of %d citation(s) valid\n\n", valid, len(results))

	for i, r := range results {
		mark := "ok"
		if !r.IsValid {
			mark = "INVALID"
		}
		title := citations[i].Title
		if title == "" {
			title = citations[i].ID
		}
		fmt.Printf("%d. [%s] %s\n", i+1, mark, truncateString(title, TitleMaxLen))
		for _, e := range r.Errors {
			fmt.Printf("   error: %s\n", e)
		}
		for _, w := range r.Warnings {
			fmt.Printf("   warning: %s\n", w)
		}
		for _, s := range r.Suggestions {
			fmt.Printf("   suggestion: %s\n", s)
		}
	}
}
