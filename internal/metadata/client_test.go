package metadata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

const searchResponse = `{
  "status": "ok",
  "message": {
    "items": [
      {
        "DOI": "10.1038/s41558-023-01234-5",
        "title": ["Climate feedback loops"],
        "author": [{"given": "John", "family": "Doe", "ORCID": "https://orcid.org/0000-0001-2345-6789"}],
        "abstract": "<jats:p>Feedback loops accelerate warming.</jats:p>",
        "URL": "https://doi.org/10.1038/s41558-023-01234-5",
        "container-title": ["Nature Climate Change"],
        "volume": "13",
        "issue": "2",
        "page": "100-110",
        "type": "journal-article",
        "issued": {"date-parts": [[2023, 2, 1]]}
      }
    ]
  }
}`

const workResponse = `{
  "status": "ok",
  "message": {
    "DOI": "10.1038/s41558-023-01234-5",
    "title": ["Climate feedback loops"],
    "author": [{"given": "John", "family": "Doe"}],
    "container-title": ["Nature Climate Change"],
    "volume": "13",
    "issue": "2",
    "page": "100-110",
    "type": "journal-article",
    "issued": {"date-parts": [[2023]]}
  }
}`

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
}

func TestSearch(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/works" {
			t.Errorf("path = %q, want /works", r.URL.Path)
		}
		if got := r.URL.Query().Get("query"); got != "climate feedback" {
			t.Errorf("query = %q", got)
		}
		w.Write([]byte(searchResponse))
	})

	candidates, err := c.Search(context.Background(), "climate feedback")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("got %d candidates, want 1", len(candidates))
	}

	got := candidates[0]
	if got.Title != "Climate feedback loops" {
		t.Errorf("Title = %q", got.Title)
	}
	if got.DOI != "10.1038/s41558-023-01234-5" {
		t.Errorf("DOI = %q", got.DOI)
	}
	if got.Abstract != "Feedback loops accelerate warming." {
		t.Errorf("Abstract = %q, want JATS markup stripped", got.Abstract)
	}
	if len(got.Authors) != 1 || got.Authors[0] != "John Doe" {
		t.Errorf("Authors = %v", got.Authors)
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request issued for empty query")
	})
	candidates, err := c.Search(context.Background(), "")
	if err != nil || candidates != nil {
		t.Errorf("Search(\"\") = %v, %v, want nil, nil", candidates, err)
	}
}

func TestLookupCitations_ByDOI(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/works/10.1038%2Fs41558-023-01234-5" && r.URL.Path != "/works/10.1038/s41558-023-01234-5" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(workResponse))
	})

	citations, err := c.LookupCitations(context.Background(), "https://doi.org/10.1038/s41558-023-01234-5")
	if err != nil {
		t.Fatalf("LookupCitations: %v", err)
	}
	if len(citations) != 1 {
		t.Fatalf("got %d citations, want 1", len(citations))
	}

	got := citations[0]
	if got.Title != "Climate feedback loops" || got.Year != 2023 {
		t.Errorf("Title/Year = %q/%d", got.Title, got.Year)
	}
	if got.Journal != "Nature Climate Change" || got.Volume != "13" {
		t.Errorf("Journal/Volume = %q/%q", got.Journal, got.Volume)
	}
	if got.Type != "journal" {
		t.Errorf("Type = %q, want journal", got.Type)
	}
	if len(got.Authors) != 1 || got.Authors[0].LastName != "Doe" {
		t.Errorf("Authors = %+v", got.Authors)
	}
}

func TestLookupCitations_FreeText(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("query.bibliographic"); got != "climate feedback loops doe" {
			t.Errorf("query.bibliographic = %q", got)
		}
		w.Write([]byte(searchResponse))
	})

	citations, err := c.LookupCitations(context.Background(), "climate feedback loops doe")
	if err != nil {
		t.Fatalf("LookupCitations: %v", err)
	}
	if len(citations) != 1 {
		t.Fatalf("got %d citations, want 1", len(citations))
	}
	if citations[0].Authors[0].ORCID != "0000-0001-2345-6789" {
		t.Errorf("ORCID = %q, want URL prefix stripped", citations[0].Authors[0].ORCID)
	}
	if citations[0].ID == "" {
		t.Error("looked-up citation has empty ID")
	}
}

func TestClient_NotFound(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})
	_, err := c.LookupCitations(context.Background(), "10.1000/missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if !IsNotFound(err) {
		t.Errorf("IsNotFound(%v) = false", err)
	}
}

func TestClient_RateLimited(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	})
	_, err := c.Search(context.Background(), "anything")
	if !IsRateLimited(err) {
		t.Errorf("IsRateLimited(%v) = false", err)
	}
}

func TestClient_ServerError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	_, err := c.Search(context.Background(), "anything")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d", apiErr.StatusCode)
	}
}

func TestClient_ContextCancelled(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(searchResponse))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Search(ctx, "anything"); err == nil {
		t.Error("Search with cancelled context returned nil error")
	}
}
