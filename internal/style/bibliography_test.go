package style

import (
	"errors"
	"testing"

	"github.com/matsen/refcheck/internal/citation"
)

func namedCitation(first, last string, year int) citation.Citation {
	return citation.Citation{
		Type:    citation.TypeJournal,
		Title:   "Work by " + last,
		Authors: []citation.Author{{FirstName: first, LastName: last}},
		Year:    year,
		Journal: "Journal of Tests",
	}
}

func TestGenerateBibliography_SortsBySurname(t *testing.T) {
	smith := namedCitation("Anna", "Smith", 2020)
	doe := namedCitation("John", "Doe", 2023)

	entries, err := GenerateBibliography([]citation.Citation{smith, doe}, APA)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Citation.Authors[0].LastName != "Doe" {
		t.Errorf("first entry surname = %q, want Doe", entries[0].Citation.Authors[0].LastName)
	}
	if entries[1].Citation.Authors[0].LastName != "Smith" {
		t.Errorf("second entry surname = %q, want Smith", entries[1].Citation.Authors[0].LastName)
	}
}

func TestGenerateBibliography_NoAuthorsSortFirst(t *testing.T) {
	anon := citation.Citation{Title: "Anonymous report", Year: 2021}
	doe := namedCitation("John", "Doe", 2023)

	entries, err := GenerateBibliography([]citation.Citation{doe, anon}, Harvard)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries[0].Citation.Authors) != 0 {
		t.Errorf("authorless citation did not sort first: %+v", entries[0].Citation)
	}
}

func TestGenerateBibliography_NumericPositionsFollowSortedOrder(t *testing.T) {
	smith := namedCitation("Anna", "Smith", 2020)
	doe := namedCitation("John", "Doe", 2023)

	entries, err := GenerateBibliography([]citation.Citation{smith, doe}, Vancouver)
	if err != nil {
		t.Fatal(err)
	}
	if entries[0].InTextCitation != "[1]" || entries[1].InTextCitation != "[2]" {
		t.Errorf("in-text markers = %q, %q, want [1], [2]",
			entries[0].InTextCitation, entries[1].InTextCitation)
	}
	// Position 1 belongs to Doe, the alphabetically first entry.
	if entries[0].Citation.Authors[0].LastName != "Doe" {
		t.Errorf("entry [1] surname = %q, want Doe", entries[0].Citation.Authors[0].LastName)
	}
}

func TestGenerateBibliography_StableForEqualKeys(t *testing.T) {
	a := namedCitation("John", "Doe", 2019)
	a.Title = "First"
	b := namedCitation("Jane", "Doe", 2021)
	b.Title = "Second"

	entries, err := GenerateBibliography([]citation.Citation{a, b}, MLA)
	if err != nil {
		t.Fatal(err)
	}
	if entries[0].Citation.Title != "First" || entries[1].Citation.Title != "Second" {
		t.Errorf("sort not stable for equal surnames: %q then %q",
			entries[0].Citation.Title, entries[1].Citation.Title)
	}
}

func TestGenerateBibliography_UnsupportedStyle(t *testing.T) {
	_, err := GenerateBibliography([]citation.Citation{namedCitation("John", "Doe", 2023)}, Style("nope"))
	if !errors.Is(err, ErrUnsupportedStyle) {
		t.Errorf("err = %v, want ErrUnsupportedStyle", err)
	}
}

func TestGenerateBibliography_KeepsAllEntries(t *testing.T) {
	var in []citation.Citation
	for _, last := range []string{"Zed", "Young", "Xu", "Watts"} {
		in = append(in, namedCitation("A", last, 2020))
	}
	entries, err := GenerateBibliography(in, IEEE)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != len(in) {
		t.Errorf("got %d entries, want %d", len(entries), len(in))
	}
}
