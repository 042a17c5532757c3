// Package pdf extracts manuscript text from PDF files so citation
// extraction and similarity analysis can run over submitted documents.
package pdf

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractText extracts plain text from the first maxPages pages of a
// PDF file. maxPages <= 0 extracts every page. Pages that fail to
// decode are skipped; extraction only fails when the file itself
// cannot be opened.
func ExtractText(filePath string, maxPages int) (string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", filePath, err)
	}
	defer f.Close()

	if maxPages <= 0 || maxPages > r.NumPage() {
		maxPages = r.NumPage()
	}

	var b strings.Builder
	for i := 1; i <= maxPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// ExtractReferenceSection returns the text from the references section
// onward, or the whole text when no section heading is found. This
// narrows citation extraction to the part of a manuscript where
// formatted reference lines live.
func ExtractReferenceSection(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if isReferenceHeading(strings.TrimSpace(line)) {
			return strings.Join(lines[i+1:], "\n")
		}
	}
	return text
}

// Section headings that begin a reference list.
var referenceHeadings = []string{
	"references",
	"bibliography",
	"works cited",
	"literature cited",
}

func isReferenceHeading(line string) bool {
	lower := strings.ToLower(strings.TrimRight(line, ":."))
	lower = strings.TrimLeft(lower, "0123456789. ")
	for _, h := range referenceHeadings {
		if lower == h {
			return true
		}
	}
	return false
}
