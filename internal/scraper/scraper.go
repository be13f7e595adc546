package scraper

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/clubdash/ffcv-import/internal/fixture"
)

const (
	// UserAgent mimics a desktop browser; the federation site serves an
	// empty shell to clients it does not recognize.
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	// DefaultTimeout bounds a single calendar page fetch.
	DefaultTimeout = 30 * time.Second
)

// SiteAdapter extracts fixtures from one federation website's page layout.
// Adding a new federation means adding a new adapter; the reconciliation
// side never changes.
type SiteAdapter interface {
	// Name identifies the federation site, e.g. "ffcv".
	Name() string
	// Parse walks the document and returns the valid fixtures in page
	// order. A page without a recognizable fixture table yields an empty
	// slice, not an error.
	Parse(doc *goquery.Document) []*fixture.Fixture
}

// Client fetches calendar pages over HTTP.
type Client struct {
	client *http.Client
}

// NewClient creates a Client with the default timeout.
func NewClient() *Client {
	return NewClientWithTimeout(DefaultTimeout)
}

// NewClientWithTimeout creates a Client with an explicit fetch timeout.
func NewClientWithTimeout(timeout time.Duration) *Client {
	return &Client{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch performs one GET against the calendar URL and parses the body into
// a document. Non-2xx responses, network errors and timeouts are returned
// as errors; no retries are attempted.
func (c *Client) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}
