package citation

import "testing"

func TestNormalizeDOI(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "bare DOI",
			input: "10.1038/s41558-023-01234-5",
			want:  "10.1038/s41558-023-01234-5",
		},
		{
			name:  "resolver URL",
			input: "https://doi.org/10.1038/s41558-023-01234-5",
			want:  "10.1038/s41558-023-01234-5",
		},
		{
			name:  "dx resolver URL",
			input: "http://dx.doi.org/10.1000/182",
			want:  "10.1000/182",
		},
		{
			name:  "doi prefix uppercase",
			input: "DOI: 10.1126/science.abc1234",
			want:  "10.1126/science.abc1234",
		},
		{
			name:  "uppercase suffix lowered",
			input: "10.1000/ABC123",
			want:  "10.1000/abc123",
		},
		{
			name:  "trailing punctuation trimmed",
			input: "10.1000/abc123.",
			want:  "10.1000/abc123",
		},
		{
			name:  "surrounding whitespace",
			input: "  10.1000/abc123  ",
			want:  "10.1000/abc123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeDOI(tt.input); got != tt.want {
				t.Errorf("NormalizeDOI(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsValidDOI(t *testing.T) {
	tests := []struct {
		doi  string
		want bool
	}{
		{"10.1038/s41558-023-01234-5", true},
		{"10.1000/182", true},
		{"10.123/short-prefix", false}, // prefix needs 4+ digits
		{"11.1000/bad-directory", false},
		{"10.1000/", false},
		{"10.1000/has space", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsValidDOI(tt.doi); got != tt.want {
			t.Errorf("IsValidDOI(%q) = %v, want %v", tt.doi, got, tt.want)
		}
	}
}
