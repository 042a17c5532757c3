package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/refcheck/internal/style"
)

var (
	formatStyle    string
	formatPosition int
)

var formatCmd = &cobra.Command{
	Use:   "format [file]",
	Short: "Render citations in a citation style",
	Long: `Render citations as formatted reference text with in-text markers.

Input is a JSON array of citations, as produced by 'refcheck extract',
read from the named file or stdin. Numeric styles (vancouver, ieee)
number entries by list position; --position overrides the number for a
single citation.

Supported styles: apa, mla, chicago, harvard, vancouver, ieee.

Examples:
  refcheck extract paper.txt | refcheck format --style mla
  refcheck format citations.json --style ieee --position 7 --human`,
	Args: cobra.MaximumNArgs(1),
	Run:  runFormat,
}

func init() {
	formatCmd.Flags().StringVar(&formatStyle, "style", "", "Citation style (defaults to the configured style)")
	formatCmd.Flags().IntVar(&formatPosition, "position", 0, "List position for numeric styles (single citation only)")
	rootCmd.AddCommand(formatCmd)
}

// resolveStyle parses the --style flag, falling back to the configured
// default style when the flag is empty.
func resolveStyle(flag string) style.Style {
	name := flag
	if name == "" {
		name = mustLoadConfig().DefaultStyle
	}
	s, err := style.Parse(name)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	return s
}

func runFormat(cmd *cobra.Command, args []string) {
	s := resolveStyle(formatStyle)
	citations := readCitationsInput(args)

	if formatPosition > 0 && len(citations) != 1 {
		exitWithError(ExitDataError, "--position requires exactly one citation, got %d", len(citations))
	}

	formatted := make([]style.FormattedCitation, 0, len(citations))
	for i, c := range citations {
		pos := i + 1
		if formatPosition > 0 {
			pos = formatPosition
		}
		fc, err := style.FormatCitationAt(c, s, pos)
		if err != nil {
			exitWithError(ExitDataError, "formatting citation %q: %v", c.ID, err)
		}
		formatted = append(formatted, fc)
	}

	if humanOutput {
		for _, fc := range formatted {
			fmt.Printf("%s\n  in-text: %s\n\n", fc.FormattedText, fc.InTextCitation)
		}
		return
	}
	outputJSON(formatted)
}
