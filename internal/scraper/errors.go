package scraper

import "fmt"

// FetchError reports a failed HTTP fetch: a transport error or a non-2xx
// status. The source's contribution for the affected item is empty.
type FetchError struct {
	Source     string
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: fetching %s: %v", e.Source, e.URL, e.Err)
	}
	return fmt.Sprintf("%s: fetching %s: unexpected status %d", e.Source, e.URL, e.StatusCode)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError reports upstream content that does not match the expected
// JSON/HTML shape. Typed so a missing nested path surfaces as a parse
// failure, not a nil dereference.
type ParseError struct {
	Source string
	Detail string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: parsing %s: %v", e.Source, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: parsing %s", e.Source, e.Detail)
}

func (e *ParseError) Unwrap() error { return e.Err }
