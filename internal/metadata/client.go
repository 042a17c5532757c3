package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/matsen/refcheck/internal/citation"
)

const (
	// BaseURL is the Crossref REST API base URL.
	BaseURL = "https://api.crossref.org"

	// DefaultTimeout bounds every registry request.
	DefaultTimeout = 5 * time.Second

	// RateLimit keeps the client inside the registry's polite-pool
	// guidance of a few requests per second.
	RateLimit = 5.0

	// DefaultSearchRows is the number of works requested per search.
	DefaultSearchRows = 20
)

// Client is a rate-limited HTTP client for a Crossref-compatible
// metadata registry.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	mailto     string // contact address for the polite pool
	rows       int
	log        *zap.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = u }
}

// WithMailto sets the polite-pool contact address.
func WithMailto(addr string) ClientOption {
	return func(c *Client) { c.mailto = addr }
}

// WithRows sets the number of works requested per search.
func WithRows(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.rows = n
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(log *zap.Logger) ClientOption {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// NewClient creates a metadata registry client. The contact address
// for the registry's polite pool is read from CROSSREF_MAILTO unless
// set explicitly.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
		rows:       DefaultSearchRows,
		log:        zap.NewNop(),
	}
	if addr := os.Getenv("CROSSREF_MAILTO"); addr != "" {
		c.mailto = addr
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search queries the registry for works matching the free-text query
// and returns them as candidate sources.
func (c *Client) Search(ctx context.Context, query string) ([]Candidate, error) {
	if query == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("rows", strconv.Itoa(c.rows))

	var resp crossrefResponse
	if err := c.get(ctx, "/works", params, &resp); err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(resp.Message.Items))
	for _, w := range resp.Message.Items {
		candidates = append(candidates, mapWorkToCandidate(w))
	}
	c.log.Debug("metadata search finished",
		zap.String("query", query),
		zap.Int("candidates", len(candidates)))
	return candidates, nil
}

// LookupCitations resolves a DOI or free-text query to citation
// records. A well-formed DOI triggers a direct work lookup; anything
// else becomes a bibliographic search.
func (c *Client) LookupCitations(ctx context.Context, query string) ([]citation.Citation, error) {
	if doi := citation.NormalizeDOI(query); citation.IsValidDOI(doi) {
		var resp crossrefResponse
		if err := c.get(ctx, "/works/"+url.PathEscape(doi), nil, &resp); err != nil {
			return nil, err
		}
		return []citation.Citation{mapWorkToCitation(resp.Message.crossrefWork)}, nil
	}

	params := url.Values{}
	params.Set("query.bibliographic", query)
	params.Set("rows", strconv.Itoa(c.rows))

	var resp crossrefResponse
	if err := c.get(ctx, "/works", params, &resp); err != nil {
		return nil, err
	}

	citations := make([]citation.Citation, 0, len(resp.Message.Items))
	for _, w := range resp.Message.Items {
		citations = append(citations, mapWorkToCitation(w))
	}
	return citations, nil
}

// get issues one rate-limited GET and decodes the JSON envelope.
func (c *Client) get(ctx context.Context, path string, params url.Values, out *crossrefResponse) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	if params == nil {
		params = url.Values{}
	}
	if c.mailto != "" {
		params.Set("mailto", c.mailto)
	}

	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case resp.StatusCode != http.StatusOK:
		return &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", ErrAPIError, err)
	}
	return nil
}
