package citation

import "testing"

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func TestValidateCitations_EmptyCitation(t *testing.T) {
	results := ValidateCitations([]Citation{{Title: "", Authors: nil}})
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}

	r := results[0]
	if r.IsValid {
		t.Error("empty citation reported valid")
	}
	if !containsString(r.Errors, ErrMsgMissingTitle) {
		t.Errorf("errors %v missing %q", r.Errors, ErrMsgMissingTitle)
	}
	if !containsString(r.Errors, ErrMsgNoAuthors) {
		t.Errorf("errors %v missing %q", r.Errors, ErrMsgNoAuthors)
	}
}

func TestValidateCitations(t *testing.T) {
	tests := []struct {
		name         string
		citation     Citation
		wantValid    bool
		wantError    string
		wantWarning  string
		wantNoErrors bool
	}{
		{
			name: "complete journal citation",
			citation: Citation{
				Type:    TypeJournal,
				Title:   "A study",
				Authors: []Author{{FirstName: "John", LastName: "Doe"}},
				Year:    2023,
				Journal: "Nature",
				DOI:     "10.1038/s41558-023-01234-5",
			},
			wantValid:    true,
			wantNoErrors: true,
		},
		{
			name: "whitespace title is missing",
			citation: Citation{
				Title:   "   ",
				Authors: []Author{{LastName: "Doe"}},
				Year:    2023,
			},
			wantValid: false,
			wantError: ErrMsgMissingTitle,
		},
		{
			name: "malformed DOI",
			citation: Citation{
				Title:   "A study",
				Authors: []Author{{LastName: "Doe"}},
				Year:    2023,
				DOI:     "not-a-doi",
			},
			wantValid: false,
			wantError: ErrMsgInvalidDOI,
		},
		{
			name: "missing year warns only",
			citation: Citation{
				Title:   "A study",
				Authors: []Author{{LastName: "Doe"}},
			},
			wantValid:   true,
			wantWarning: WarnMsgMissingYear,
		},
		{
			name: "journal type without journal name warns",
			citation: Citation{
				Type:    TypeJournal,
				Title:   "A study",
				Authors: []Author{{LastName: "Doe"}},
				Year:    2023,
			},
			wantValid:   true,
			wantWarning: WarnMsgMissingVenue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ValidateCitations([]Citation{tt.citation})[0]

			if r.IsValid != tt.wantValid {
				t.Errorf("IsValid = %v, want %v (errors: %v)", r.IsValid, tt.wantValid, r.Errors)
			}
			if tt.wantError != "" && !containsString(r.Errors, tt.wantError) {
				t.Errorf("errors %v missing %q", r.Errors, tt.wantError)
			}
			if tt.wantWarning != "" && !containsString(r.Warnings, tt.wantWarning) {
				t.Errorf("warnings %v missing %q", r.Warnings, tt.wantWarning)
			}
			if tt.wantNoErrors && len(r.Errors) != 0 {
				t.Errorf("unexpected errors: %v", r.Errors)
			}
		})
	}
}

func TestValidateCitations_SuggestionsDoNotGateValidity(t *testing.T) {
	c := Citation{
		Type:    TypeJournal,
		Title:   "A study",
		Authors: []Author{{FirstName: "John", LastName: "Doe"}}, // no ORCID
		Year:    2023,
		Journal: "Nature",
	}
	r := ValidateCitations([]Citation{c})[0]
	if !r.IsValid {
		t.Errorf("citation with only suggestions reported invalid: %+v", r)
	}
	if len(r.Suggestions) == 0 {
		t.Error("expected at least one suggestion (missing ORCID, missing DOI)")
	}
}

func TestValidateCitations_PairedByPosition(t *testing.T) {
	in := []Citation{
		{Title: "Valid", Authors: []Author{{LastName: "Doe"}}, Year: 2023},
		{},
		{Title: "Also valid", Authors: []Author{{LastName: "Roe"}}, Year: 2022},
	}
	results := ValidateCitations(in)
	if len(results) != len(in) {
		t.Fatalf("got %d results, want %d", len(results), len(in))
	}
	if !results[0].IsValid || results[1].IsValid || !results[2].IsValid {
		t.Errorf("validity not paired by position: %+v", results)
	}
}
