package style

import (
	"fmt"
	"strings"

	"github.com/matsen/refcheck/internal/citation"
)

// FormattedCitation is one citation rendered in one style. It is a
// derived value, never mutated after creation.
type FormattedCitation struct {
	Citation       citation.Citation `json:"citation"`
	Style          Style             `json:"style"`
	FormattedText  string            `json:"formatted_text"`
	InTextCitation string            `json:"in_text_citation"`
}

// renderer bundles the pieces that distinguish one style from another:
// how the author list reads, how the full entry is assembled, and how
// the in-text marker looks. pos is the 1-based bibliography position,
// only meaningful for numeric styles.
type renderer struct {
	authors func(as []citation.Author) string
	full    func(c citation.Citation, authors string) string
	inText  func(c citation.Citation, pos int) string
}

// renderers is the dispatch table over the six supported styles.
var renderers = map[Style]renderer{
	APA: {
		authors: surnameInitialsList,
		full:    apaFull,
		inText:  authorYearInText,
	},
	MLA: {
		authors: surnameFullNameList,
		full:    mlaFull,
		inText: func(c citation.Citation, _ int) string {
			return "(" + surnameOrUnknown(c) + ")"
		},
	},
	Chicago: {
		authors: surnameFullNameList,
		full:    chicagoFull,
		inText:  authorYearInText,
	},
	Harvard: {
		authors: surnameInitialsList,
		full:    harvardFull,
		inText:  authorYearInText,
	},
	Vancouver: {
		authors: vancouverAuthorList,
		full:    vancouverFull,
		inText:  numericInText,
	},
	IEEE: {
		authors: ieeeAuthorList,
		full:    ieeeFull,
		inText:  numericInText,
	},
}

// FormatCitation renders a citation in the given style. For numeric
// styles the in-text marker is rendered as [1]; use FormatCitationAt
// when the citation's bibliography position is known.
func FormatCitation(c citation.Citation, s Style) (FormattedCitation, error) {
	return FormatCitationAt(c, s, 1)
}

// FormatCitationAt renders a citation in the given style with an
// explicit 1-based bibliography position for numeric in-text styles.
// Returns ErrUnsupportedStyle for an unrecognized style identifier.
func FormatCitationAt(c citation.Citation, s Style, pos int) (FormattedCitation, error) {
	r, ok := renderers[s]
	if !ok {
		return FormattedCitation{}, fmt.Errorf("%w: %q", ErrUnsupportedStyle, s)
	}
	if pos < 1 {
		pos = 1
	}
	return FormattedCitation{
		Citation:       c,
		Style:          s,
		FormattedText:  r.full(c, r.authors(c.Authors)),
		InTextCitation: r.inText(c, pos),
	}, nil
}

// ---- author list renderers ----

// initials renders a given name as spaced initials: "John B." -> "J. B.".
func initials(first string) string {
	var parts []string
	for _, w := range strings.Fields(first) {
		r := []rune(w)
		if len(r) == 0 {
			continue
		}
		parts = append(parts, string(r[0])+".")
	}
	return strings.Join(parts, " ")
}

// bareInitials renders a given name as run-together initials without
// punctuation: "John B." -> "JB". Used by Vancouver.
func bareInitials(first string) string {
	var b strings.Builder
	for _, w := range strings.Fields(first) {
		r := []rune(w)
		if len(r) == 0 {
			continue
		}
		b.WriteRune(r[0])
	}
	return b.String()
}

// joinWithConjunction joins rendered names with commas and the given
// conjunction token before the last name.
func joinWithConjunction(names []string, conj string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " " + conj + " " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + ", " + conj + " " + names[len(names)-1]
	}
}

// surnameInitialsList renders "Doe, J. B., & Smith, A." (APA, Harvard).
func surnameInitialsList(as []citation.Author) string {
	names := make([]string, 0, len(as))
	for _, a := range as {
		if ini := initials(a.FirstName); ini != "" {
			names = append(names, a.LastName+", "+ini)
		} else {
			names = append(names, a.LastName)
		}
	}
	return joinWithConjunction(names, "&")
}

// surnameFullNameList renders "Doe, John, and Jane Smith" (MLA,
// Chicago): first author surname-first, the rest given-first.
func surnameFullNameList(as []citation.Author) string {
	names := make([]string, 0, len(as))
	for i, a := range as {
		switch {
		case i == 0 && a.FirstName != "":
			names = append(names, a.LastName+", "+a.FirstName)
		case a.FirstName != "":
			names = append(names, a.FirstName+" "+a.LastName)
		default:
			names = append(names, a.LastName)
		}
	}
	return joinWithConjunction(names, "and")
}

// vancouverAuthorList renders "Doe JB, Smith A".
func vancouverAuthorList(as []citation.Author) string {
	names := make([]string, 0, len(as))
	for _, a := range as {
		if ini := bareInitials(a.FirstName); ini != "" {
			names = append(names, a.LastName+" "+ini)
		} else {
			names = append(names, a.LastName)
		}
	}
	return strings.Join(names, ", ")
}

// ieeeAuthorList renders "J. B. Doe and A. Smith".
func ieeeAuthorList(as []citation.Author) string {
	names := make([]string, 0, len(as))
	for _, a := range as {
		if ini := initials(a.FirstName); ini != "" {
			names = append(names, ini+" "+a.LastName)
		} else {
			names = append(names, a.LastName)
		}
	}
	return joinWithConjunction(names, "and")
}

// ---- in-text renderers ----

func surnameOrUnknown(c citation.Citation) string {
	if last := c.FirstAuthorLastName(); last != "" {
		return last
	}
	return "Unknown"
}

// authorYearInText renders "(Doe, 2023)", with "et al." beyond two
// authors and "n.d." when the year is unknown.
func authorYearInText(c citation.Citation, _ int) string {
	name := surnameOrUnknown(c)
	switch {
	case len(c.Authors) == 2:
		name = c.Authors[0].LastName + " & " + c.Authors[1].LastName
	case len(c.Authors) > 2:
		name += " et al."
	}
	year := "n.d."
	if c.Year != 0 {
		year = fmt.Sprintf("%d", c.Year)
	}
	return fmt.Sprintf("(%s, %s)", name, year)
}

// numericInText renders "[N]" where N is the bibliography position.
func numericInText(_ citation.Citation, pos int) string {
	return fmt.Sprintf("[%d]", pos)
}

// ---- full citation templates ----

// part appends s to b with the given suffix when s is non-empty.
func part(b *strings.Builder, s, suffix string) {
	if s == "" {
		return
	}
	b.WriteString(s)
	b.WriteString(suffix)
}

// apaFull: Surname, I. (Year). Title. Journal, Vol(Issue), Pages.
// https://doi.org/DOI
func apaFull(c citation.Citation, authors string) string {
	var b strings.Builder
	part(&b, authors, " ")
	if c.Year != 0 {
		fmt.Fprintf(&b, "(%d). ", c.Year)
	}
	part(&b, c.Title, ". ")
	if c.Journal != "" {
		b.WriteString(c.Journal)
		if c.Volume != "" {
			b.WriteString(", " + c.Volume)
			if c.Issue != "" {
				b.WriteString("(" + c.Issue + ")")
			}
		}
		if c.Pages != "" {
			b.WriteString(", " + c.Pages)
		}
		b.WriteString(". ")
	}
	if c.DOI != "" {
		b.WriteString("https://doi.org/" + c.DOI)
	}
	return strings.TrimSpace(b.String())
}

// mlaFull: Surname, First. "Title." Journal, vol. Vol, no. Issue,
// Year, pp. Pages.
func mlaFull(c citation.Citation, authors string) string {
	var b strings.Builder
	part(&b, authors, ". ")
	if c.Title != "" {
		b.WriteString("\"" + c.Title + ".\" ")
	}
	var tail []string
	if c.Journal != "" {
		tail = append(tail, c.Journal)
	}
	if c.Volume != "" {
		tail = append(tail, "vol. "+c.Volume)
	}
	if c.Issue != "" {
		tail = append(tail, "no. "+c.Issue)
	}
	if c.Year != 0 {
		tail = append(tail, fmt.Sprintf("%d", c.Year))
	}
	if c.Pages != "" {
		tail = append(tail, "pp. "+c.Pages)
	}
	if len(tail) > 0 {
		b.WriteString(strings.Join(tail, ", ") + ".")
	}
	return strings.TrimSpace(b.String())
}

// chicagoFull: Surname, First. Year. "Title." Journal Vol (Issue):
// Pages.
func chicagoFull(c citation.Citation, authors string) string {
	var b strings.Builder
	part(&b, authors, ". ")
	if c.Year != 0 {
		fmt.Fprintf(&b, "%d. ", c.Year)
	}
	if c.Title != "" {
		b.WriteString("\"" + c.Title + ".\" ")
	}
	if c.Journal != "" {
		b.WriteString(c.Journal)
		if c.Volume != "" {
			b.WriteString(" " + c.Volume)
			if c.Issue != "" {
				b.WriteString(" (" + c.Issue + ")")
			}
		}
		if c.Pages != "" {
			b.WriteString(": " + c.Pages)
		}
		b.WriteString(".")
	}
	return strings.TrimSpace(b.String())
}

// harvardFull: Surname, I. (Year) Title, Journal, Vol(Issue),
// pp. Pages.
func harvardFull(c citation.Citation, authors string) string {
	var b strings.Builder
	part(&b, authors, " ")
	if c.Year != 0 {
		fmt.Fprintf(&b, "(%d) ", c.Year)
	}
	var tail []string
	if c.Title != "" {
		tail = append(tail, c.Title)
	}
	if c.Journal != "" {
		venue := c.Journal
		if c.Volume != "" {
			venue += ", " + c.Volume
			if c.Issue != "" {
				venue += "(" + c.Issue + ")"
			}
		}
		tail = append(tail, venue)
	}
	if c.Pages != "" {
		tail = append(tail, "pp. "+c.Pages)
	}
	if len(tail) > 0 {
		b.WriteString(strings.Join(tail, ", ") + ".")
	}
	return strings.TrimSpace(b.String())
}

// vancouverFull: Surname AB. Title. Journal. Year;Vol(Issue):Pages.
func vancouverFull(c citation.Citation, authors string) string {
	var b strings.Builder
	part(&b, authors, ". ")
	part(&b, c.Title, ". ")
	part(&b, c.Journal, ". ")
	if c.Year != 0 {
		fmt.Fprintf(&b, "%d", c.Year)
		if c.Volume != "" {
			b.WriteString(";" + c.Volume)
			if c.Issue != "" {
				b.WriteString("(" + c.Issue + ")")
			}
			if c.Pages != "" {
				b.WriteString(":" + c.Pages)
			}
		}
		b.WriteString(".")
	}
	return strings.TrimSpace(b.String())
}

// ieeeFull: A. Surname, "Title," Journal, vol. Vol, pp. Pages, Year.
func ieeeFull(c citation.Citation, authors string) string {
	var b strings.Builder
	part(&b, authors, ", ")
	if c.Title != "" {
		b.WriteString("\"" + c.Title + ",\" ")
	}
	var tail []string
	if c.Journal != "" {
		tail = append(tail, c.Journal)
	}
	if c.Volume != "" {
		tail = append(tail, "vol. "+c.Volume)
	}
	if c.Pages != "" {
		tail = append(tail, "pp. "+c.Pages)
	}
	if c.Year != 0 {
		tail = append(tail, fmt.Sprintf("%d", c.Year))
	}
	if len(tail) > 0 {
		b.WriteString(strings.Join(tail, ", ") + ".")
	}
	return strings.TrimSpace(b.String())
}
