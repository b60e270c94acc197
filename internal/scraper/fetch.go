package scraper

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/favstats/zwemsterdam/internal/session"
)

const (
	UserAgent = "zwemsterdam/1.0 (github.com/favstats/zwemsterdam)"
	Timeout   = 30 * time.Second
)

// Adapter is the common contract for non-browser sources: fetch everything
// the source knows and return it as canonical sessions. Adapters swallow
// per-item failures internally; a returned error means the whole source
// produced nothing this run.
type Adapter interface {
	Name() string
	Fetch(ctx context.Context) ([]session.Session, error)
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: Timeout}
}

// getJSON fetches url and decodes the JSON body into v.
func getJSON(ctx context.Context, client *http.Client, source, url string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &FetchError{Source: source, URL: url, Err: err}
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return &FetchError{Source: source, URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &FetchError{Source: source, URL: url, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return &ParseError{Source: source, Detail: "JSON body", Err: err}
	}
	return nil
}

// getDocument fetches url and parses the HTML body.
func getDocument(ctx context.Context, client *http.Client, source, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{Source: source, URL: url, Err: err}
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, &FetchError{Source: source, URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{Source: source, URL: url, StatusCode: resp.StatusCode}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, &ParseError{Source: source, Detail: "HTML body", Err: err}
	}
	return doc, nil
}
