package main

import (
	"github.com/spf13/cobra"

	"github.com/matsen/refcheck/internal/citation"
	"github.com/matsen/refcheck/internal/pdf"
)

var (
	extractPDF      bool
	extractRefsOnly bool
	extractMaxPages int
)

var extractCmd = &cobra.Command{
	Use:   "extract [file]",
	Short: "Extract citations from text",
	Long: `Extract citation records from free text.

Recognizes DOIs (bare, prefixed, and resolver URLs), standalone URLs, and
author-year or bracket-numbered reference lines. Records that refer to the
same work are merged, and every record gets a stable unique ID.

Reads from stdin when no file is given. With --pdf the input file is
parsed as a PDF before extraction.

Examples:
  refcheck extract manuscript.txt
  cat notes.md | refcheck extract
  refcheck extract paper.pdf --pdf --refs-only --human`,
	Args: cobra.MaximumNArgs(1),
	Run:  runExtract,
}

func init() {
	extractCmd.Flags().BoolVar(&extractPDF, "pdf", false, "Treat the input file as a PDF")
	extractCmd.Flags().BoolVar(&extractRefsOnly, "refs-only", false, "Extract only from the reference section")
	extractCmd.Flags().IntVar(&extractMaxPages, "max-pages", 0, "Maximum PDF pages to read (0 = all)")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) {
	var text string
	if extractPDF {
		if len(args) == 0 {
			exitWithError(ExitDataError, "--pdf requires a file argument")
		}
		var err error
		text, err = pdf.ExtractText(args[0], extractMaxPages)
		if err != nil {
			exitWithError(ExitDataError, "extracting PDF text: %v", err)
		}
	} else {
		text = readTextInput(args)
	}

	if extractRefsOnly {
		text = pdf.ExtractReferenceSection(text)
	}

	citations := citation.ExtractCitations(text)

	if humanOutput {
		outputHuman("Extracted %d citation(s)\n\n", len(citations))
		printCitationsHuman(citations)
		return
	}
	outputJSON(citations)
}
