package session

import "fmt"

// Session is one scheduled activity slot at one pool, canonical across all
// sources. JSON field names match the dashboard contract: the pool is "bad",
// the weekday "dag" and the note "extra".
type Session struct {
	ID       int     `json:"id"`
	Pool     string  `json:"bad"`
	Weekday  string  `json:"dag"`
	Date     string  `json:"date,omitempty"` // ISO date; empty for recurring weekday-only sources
	Activity string  `json:"activity"`
	Note     string  `json:"extra"`
	Start    float64 `json:"start"` // fractional hours, 14.5 = 14:30
	End      float64 `json:"end"`
	Website  string  `json:"website,omitempty"`
}

// Key returns the grouping key used for aggregation: sessions sharing a key
// are candidates for interval merging.
func (s Session) Key() string {
	return s.Pool + "|" + s.Weekday + "|" + s.Activity + "|" + s.Note
}

// Valid reports whether the session's interval is well-formed.
func (s Session) Valid() bool {
	return s.Start >= 0 && s.Start < s.End && s.End <= 24
}

// NormalizationError reports a time or weekday token that no known source
// format can explain. Records carrying one are dropped, never coerced.
type NormalizationError struct {
	Field string // "time", "date" or "weekday"
	Token string
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("cannot normalize %s token %q", e.Field, e.Token)
}
