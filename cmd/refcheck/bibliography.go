package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/refcheck/internal/style"
)

var bibliographyStyle string

var bibliographyCmd = &cobra.Command{
	Use:     "bibliography [file]",
	Aliases: []string{"bib"},
	Short:   "Generate a sorted bibliography",
	Long: `Generate a bibliography sorted by first-author surname.

Input is a JSON array of citations, as produced by 'refcheck extract',
read from the named file or stdin. Citations without authors sort
first; numeric styles are numbered after sorting.

Examples:
  refcheck extract paper.txt | refcheck bibliography --style apa
  refcheck bib citations.json --style vancouver --human`,
	Args: cobra.MaximumNArgs(1),
	Run:  runBibliography,
}

func init() {
	bibliographyCmd.Flags().StringVar(&bibliographyStyle, "style", "", "Citation style (defaults to the configured style)")
	rootCmd.AddCommand(bibliographyCmd)
}

func runBibliography(cmd *cobra.Command, args []string) {
	s := resolveStyle(bibliographyStyle)
	citations := readCitationsInput(args)

	entries, err := style.GenerateBibliography(citations, s)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	if humanOutput {
		for _, e := range entries {
			fmt.Println(e.FormattedText)
		}
		return
	}
	outputJSON(entries)
}
