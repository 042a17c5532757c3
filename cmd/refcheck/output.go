package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matsen/refcheck/internal/citation"
)

// Constants for output formatting.
const (
	TitleMaxLen    = 70 // Title truncation in list and search output
	AuthorMaxCount = 3  // Authors shown before "et al." in summaries
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status    string `json:"status"`
	ArticleID string `json:"article_id,omitempty"`
}

// readTextInput returns the text to analyze: the named file when a path
// argument is given, stdin otherwise.
func readTextInput(args []string) string {
	if len(args) > 0 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			exitWithError(ExitDataError, "reading input: %v", err)
		}
		return string(data)
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		exitWithError(ExitDataError, "reading stdin: %v", err)
	}
	return string(data)
}

// readCitationsInput decodes a JSON array of citations, as produced by
// 'refcheck extract', from the named file or stdin.
func readCitationsInput(args []string) []citation.Citation {
	var r io.Reader = os.Stdin
	if len(args) > 0 {
		f, err := os.Open(args[0])
		if err != nil {
			exitWithError(ExitDataError, "reading citations: %v", err)
		}
		defer f.Close()
		r = f
	}
	var citations []citation.Citation
	if err := json.NewDecoder(r).Decode(&citations); err != nil {
		exitWithError(ExitDataError, "parsing citations JSON: %v", err)
	}
	return citations
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// formatAuthorsShort formats authors with "et al." for more than maxCount.
func formatAuthorsShort(authors []citation.Author, maxCount int) string {
	if len(authors) == 0 {
		return "unknown authors"
	}
	var names []string
	for i, a := range authors {
		if i >= maxCount {
			names = append(names, "et al.")
			break
		}
		names = append(names, strings.TrimSpace(a.FirstName+" "+a.LastName))
	}
	return strings.Join(names, ", ")
}

// printCitationsHuman prints a citation list in human-readable format.
func printCitationsHuman(citations []citation.Citation) {
	for i, c := range citations {
		title := c.Title
		if title == "" {
			title = "(no title)"
		}
		fmt.Printf("%d. %s [%s]\n", i+1, truncateString(title, TitleMaxLen), c.ID)
		line := formatAuthorsShort(c.Authors, AuthorMaxCount)
		if c.Year > 0 {
			line = fmt.Sprintf("%s (%d)", line, c.Year)
		}
		fmt.Printf("   %s\n", line)
		if c.DOI != "" {
			fmt.Printf("   doi:%s\n", c.DOI)
		}
		fmt.Println()
	}
}
