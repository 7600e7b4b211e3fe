package dataset

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// SheetCSVURL returns the CSV export URL of a Google Sheets tab.
func SheetCSVURL(sheetID, sheetName string) string {
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/gviz/tq?tqx=out:csv&sheet=%s",
		url.PathEscape(sheetID), url.QueryEscape(sheetName))
}

// HTTPSource fetches delimited dataset text over HTTP.
type HTTPSource struct {
	url        string
	client     *http.Client
	headerRows int
	cacheBust  bool
	now        func() time.Time
}

// HTTPOption configures an HTTPSource.
type HTTPOption func(*HTTPSource)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) HTTPOption {
	return func(s *HTTPSource) { s.client.Timeout = d }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(s *HTTPSource) { s.client = c }
}

// WithHeaderRows sets how many leading rows are skipped.
func WithHeaderRows(n int) HTTPOption {
	return func(s *HTTPSource) { s.headerRows = n }
}

// WithCacheBust appends a "v=<unix ms>" query parameter to every request so
// intermediaries never serve a stale sheet export.
func WithCacheBust(enabled bool) HTTPOption {
	return func(s *HTTPSource) { s.cacheBust = enabled }
}

// NewHTTPSource creates a source for the given URL.
func NewHTTPSource(rawURL string, opts ...HTTPOption) *HTTPSource {
	s := &HTTPSource{
		url:        rawURL,
		client:     &http.Client{Timeout: 15 * time.Second},
		headerRows: 1,
		now:        time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *HTTPSource) Name() string { return s.url }

func (s *HTTPSource) Rows(ctx context.Context) ([]Row, error) {
	target, err := s.requestURL()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Cache-Control", "no-store")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch dataset: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch dataset: HTTP %d for %s", resp.StatusCode, s.url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read dataset body: %w", err)
	}
	return ParseRows(bytes.NewReader(body), s.headerRows)
}

func (s *HTTPSource) requestURL() (string, error) {
	if !s.cacheBust {
		return s.url, nil
	}
	u, err := url.Parse(s.url)
	if err != nil {
		return "", fmt.Errorf("parse dataset url: %w", err)
	}
	q := u.Query()
	q.Set("v", strconv.FormatInt(s.now().UnixMilli(), 10))
	u.RawQuery = q.Encode()
	return u.String(), nil
}
