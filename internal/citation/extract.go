package citation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// urlPattern matches http(s) tokens. Trailing sentence punctuation is
// trimmed after matching.
var urlPattern = regexp.MustCompile(`https?://[^\s<>"')\]]+`)

// apaLinePattern matches loose author-year reference lines:
//
//	Surname, I. (2023). Title. Journal, 12(3), 45-67.
//
// The author segment is everything before the parenthesized year.
var apaLinePattern = regexp.MustCompile(`^([A-Z][\p{L}'’-]+,\s+[A-Z][^()]*?)\s*\((\d{4})\)\.\s*(.+)$`)

// ieeeLinePattern matches bracket-numbered reference lines:
//
//	[1] J. Doe, "Title," Journal, vol. 12, pp. 45-67, 2023.
var ieeeLinePattern = regexp.MustCompile(`^\[\d+\]\s+(.+?),\s*[“"](.+?)[,.]?[”"],?\s*(.*?)(\d{4})\.?\s*$`)

var (
	volToken   = regexp.MustCompile(`vol\.\s*([A-Za-z0-9]+)`)
	issueToken = regexp.MustCompile(`no\.\s*([A-Za-z0-9]+)`)
	pagesToken = regexp.MustCompile(`pp?\.\s*([0-9]+(?:[-–][0-9]+)?)`)

	// volIssuePages matches "12(3), 45-67" style venue tails.
	volIssuePages = regexp.MustCompile(`(\d+)\((\d+)\),?\s*([0-9]+(?:[-–][0-9]+)?)`)
)

// extractor is one independent extraction rule. Rules run in order and
// each returns raw, possibly overlapping matches; a merge pass collapses
// duplicates afterwards.
type extractor func(text string) []Citation

// ExtractCitations scans raw manuscript text and returns deduplicated
// citation records. It applies three ordered rules (DOI tokens, URL
// tokens, formatted reference lines), then merges records that share a
// normalized DOI, preferring the record with more populated fields.
// The function is pure: the same text always yields the same output.
func ExtractCitations(text string) []Citation {
	rules := []extractor{extractDOIs, extractURLs, extractReferenceLines}

	var raw []Citation
	for _, rule := range rules {
		raw = append(raw, rule(text)...)
	}

	merged := mergeCitations(raw)
	assignIDs(merged)
	return merged
}

// extractDOIs finds DOI tokens in any surface form (bare, doi: prefix,
// resolver URL) and emits one record per distinct normalized DOI.
func extractDOIs(text string) []Citation {
	seen := make(map[string]bool)
	var out []Citation

	for _, m := range doiPattern.FindAllStringSubmatch(text, -1) {
		doi := NormalizeDOI(m[1])
		if doi == "" || !IsValidDOI(doi) || seen[doi] {
			continue
		}
		seen[doi] = true
		out = append(out, Citation{Type: TypeUnknown, DOI: doi})
	}
	return out
}

// extractURLs finds http(s) tokens. DOI resolver URLs are skipped so
// the DOI rule keeps precedence and a resolver link is never counted
// as both a URL citation and a DOI citation.
func extractURLs(text string) []Citation {
	seen := make(map[string]bool)
	var out []Citation

	for _, m := range urlPattern.FindAllString(text, -1) {
		u := strings.TrimRight(m, ".,;:")
		if isDOIResolverURL(u) || seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, Citation{Type: TypeWebsite, URL: u})
	}
	return out
}

func isDOIResolverURL(u string) bool {
	lower := strings.ToLower(u)
	return strings.Contains(lower, "doi.org/") || strings.Contains(lower, "doi:")
}

// extractReferenceLines scans line by line for formatted reference
// shapes (author-year and bracket-numbered).
func extractReferenceLines(text string) []Citation {
	seen := make(map[string]bool)
	var out []Citation

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || seen[line] {
			continue
		}

		var c Citation
		var ok bool
		if m := apaLinePattern.FindStringSubmatch(line); m != nil {
			c, ok = parseAuthorYearLine(m), true
		} else if m := ieeeLinePattern.FindStringSubmatch(line); m != nil {
			c, ok = parseNumberedLine(m), true
		}
		if !ok {
			continue
		}

		seen[line] = true
		out = append(out, c)
	}
	return out
}

// parseAuthorYearLine builds a citation from an apaLinePattern match:
// m[1]=author segment, m[2]=year, m[3]=remainder (title and venue).
func parseAuthorYearLine(m []string) Citation {
	c := Citation{Type: TypeUnknown}
	c.Authors = parseSurnameFirstAuthors(m[1])
	c.Year, _ = strconv.Atoi(m[2])

	// Remainder is "Title. Journal, Vol(Issue), Pages." when the line
	// describes a journal article; the first sentence is the title.
	rest := m[3]
	if doi := doiPattern.FindStringSubmatch(rest); doi != nil {
		c.DOI = NormalizeDOI(doi[1])
		rest = strings.TrimSpace(strings.Replace(rest, doi[0], "", 1))
	}

	title, tail := splitTitle(rest)
	c.Title = title
	fillVenue(&c, tail)
	classify(&c)
	return c
}

// parseNumberedLine builds a citation from an ieeeLinePattern match:
// m[1]=authors, m[2]=title, m[3]=venue segment, m[4]=year.
func parseNumberedLine(m []string) Citation {
	c := Citation{Type: TypeUnknown, Title: strings.TrimSpace(m[2])}
	c.Authors = parseGivenFirstAuthors(m[1])
	c.Year, _ = strconv.Atoi(m[4])
	fillVenue(&c, m[3])
	classify(&c)
	return c
}

// splitTitle separates the leading title sentence from the venue tail.
func splitTitle(rest string) (title, tail string) {
	if idx := strings.Index(rest, ". "); idx > 0 {
		return strings.TrimSpace(rest[:idx]), strings.TrimSpace(rest[idx+2:])
	}
	return strings.TrimSuffix(strings.TrimSpace(rest), "."), ""
}

// fillVenue extracts journal name, volume, issue, and pages from the
// venue segment of a reference line.
func fillVenue(c *Citation, tail string) {
	tail = strings.TrimSpace(tail)
	if tail == "" {
		return
	}

	if m := volToken.FindStringSubmatch(tail); m != nil {
		c.Volume = m[1]
	}
	if m := issueToken.FindStringSubmatch(tail); m != nil {
		c.Issue = m[1]
	}
	if m := pagesToken.FindStringSubmatch(tail); m != nil {
		c.Pages = m[1]
	}

	// Journal name is the text before the first comma, unless that
	// text is itself a vol/pp token.
	head := tail
	if idx := strings.Index(tail, ","); idx > 0 {
		head = tail[:idx]
	}
	head = strings.TrimSuffix(strings.TrimSpace(head), ".")
	if head != "" && !volToken.MatchString(head) && !pagesToken.MatchString(head) && !looksNumeric(head) {
		c.Journal = head
	}

	if m := volIssuePages.FindStringSubmatch(tail); m != nil {
		c.Volume, c.Issue, c.Pages = m[1], m[2], m[3]
	}
}

func looksNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '(' && r != ')' && r != '-' && r != '–' {
			return false
		}
	}
	return true
}

// classify sets Type=journal when venue tokens are present.
func classify(c *Citation) {
	if c.Journal != "" || c.Volume != "" || c.Pages != "" {
		c.Type = TypeJournal
	}
}

// parseSurnameFirstAuthors parses "Doe, J., Smith, A. B., & Roe, C."
// style author segments. The serial "&" leaves an empty token between
// consecutive commas; blanks are dropped before pairing so the
// surname/initial alternation stays aligned.
func parseSurnameFirstAuthors(seg string) []Author {
	seg = strings.ReplaceAll(seg, "&", ",")

	var parts []string
	for _, p := range strings.Split(seg, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}

	var authors []Author
	for i := 0; i+1 < len(parts); i += 2 {
		authors = append(authors, Author{FirstName: parts[i+1], LastName: parts[i]})
	}
	return authors
}

// parseGivenFirstAuthors parses "J. Doe and A. Smith" style segments.
func parseGivenFirstAuthors(seg string) []Author {
	seg = strings.ReplaceAll(seg, " and ", ",")
	var authors []Author
	for _, part := range strings.Split(seg, ",") {
		fields := strings.Fields(strings.TrimSpace(part))
		if len(fields) < 2 {
			continue
		}
		authors = append(authors, Author{
			FirstName: strings.Join(fields[:len(fields)-1], " "),
			LastName:  fields[len(fields)-1],
		})
	}
	return authors
}

// mergeCitations collapses records sharing a normalized DOI into one,
// keeping the richer record and filling its empty fields from the
// poorer one. Records without a DOI pass through unchanged.
func mergeCitations(raw []Citation) []Citation {
	var out []Citation
	byDOI := make(map[string]int) // normalized DOI -> index in out

	for _, c := range raw {
		key := NormalizeDOI(c.DOI)
		if key == "" {
			out = append(out, c)
			continue
		}
		idx, dup := byDOI[key]
		if !dup {
			byDOI[key] = len(out)
			out = append(out, c)
			continue
		}
		out[idx] = mergeRecords(out[idx], c)
	}
	return out
}

// mergeRecords merges b into a, preferring the record with more
// populated fields and filling its gaps from the other.
func mergeRecords(a, b Citation) Citation {
	primary, secondary := a, b
	if b.fieldCount() > a.fieldCount() {
		primary, secondary = b, a
	}

	if primary.Title == "" {
		primary.Title = secondary.Title
	}
	if len(primary.Authors) == 0 {
		primary.Authors = secondary.Authors
	}
	if primary.Year == 0 {
		primary.Year = secondary.Year
	}
	if primary.Journal == "" {
		primary.Journal = secondary.Journal
	}
	if primary.Volume == "" {
		primary.Volume = secondary.Volume
	}
	if primary.Issue == "" {
		primary.Issue = secondary.Issue
	}
	if primary.Pages == "" {
		primary.Pages = secondary.Pages
	}
	if primary.URL == "" {
		primary.URL = secondary.URL
	}
	if primary.Publisher == "" {
		primary.Publisher = secondary.Publisher
	}
	if primary.Type == TypeUnknown && secondary.Type != TypeUnknown {
		primary.Type = secondary.Type
	}
	return primary
}

// assignIDs gives every citation a cite-key style ID, unique within
// the batch.
func assignIDs(citations []Citation) {
	used := make(map[string]int)
	for i := range citations {
		base := citeKey(citations[i])
		n := used[base]
		used[base] = n + 1
		if n == 0 {
			citations[i].ID = base
		} else {
			citations[i].ID = fmt.Sprintf("%s-%d", base, n+1)
		}
	}
}

// citeKey generates a citation key from record metadata. Format:
// Surname + year (e.g. "Doe2023"), falling back to the DOI suffix or
// URL host for records without author metadata.
func citeKey(c Citation) string {
	if last := c.FirstAuthorLastName(); last != "" {
		year := c.Year
		if year == 0 {
			year = 9999
		}
		return fmt.Sprintf("%s%d", sanitizeKey(last), year)
	}
	if c.DOI != "" {
		if idx := strings.Index(c.DOI, "/"); idx >= 0 && idx < len(c.DOI)-1 {
			return "doi-" + sanitizeKey(c.DOI[idx+1:])
		}
		return "doi-" + sanitizeKey(c.DOI)
	}
	if c.URL != "" {
		trimmed := strings.TrimPrefix(strings.TrimPrefix(c.URL, "https://"), "http://")
		if idx := strings.IndexAny(trimmed, "/?"); idx > 0 {
			trimmed = trimmed[:idx]
		}
		return "url-" + sanitizeKey(trimmed)
	}
	return "ref"
}

// sanitizeKey keeps letters and digits only.
func sanitizeKey(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
