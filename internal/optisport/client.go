package optisport

import (
	"context"
	"encoding/json"
	"time"

	"github.com/favstats/zwemsterdam/internal/logger"
	"github.com/favstats/zwemsterdam/internal/session"
)

const (
	schedulePath = "/api/v1/rooster"

	// maxPages is a safety ceiling on cursor-following, in case the API
	// ever returns a cycling cursor.
	maxPages = 20
)

// Location couples a canonical pool name to its Optisport location id.
type Location struct {
	Name string
	ID   string
}

// DefaultLocations lists the Amsterdam pools Optisport operates.
var DefaultLocations = []Location{
	{Name: "Sloterparkbad", ID: "sloterparkbad"},
}

type schedulePageRequest struct {
	Location string `json:"location"`
	Cursor   string `json:"cursor,omitempty"`
}

type scheduleItem struct {
	Activity string `json:"activity"`
	Date     string `json:"date"`      // "2006-01-02"
	Start    string `json:"startTime"` // "HH:MM"
	End      string `json:"endTime"`
	Capacity string `json:"capacity"` // free-text occupancy note
}

type schedulePageResponse struct {
	Items      []scheduleItem `json:"items"`
	NextCursor string         `json:"nextCursor"`
}

// apiCaller issues one schedule-page request. In production this is the
// browser session's in-page fetch; tests substitute a stub so pagination and
// mapping are testable without Chromium.
type apiCaller func(ctx context.Context, req schedulePageRequest) (*schedulePageResponse, error)

// Client fetches location schedules through a bootstrapped browser session.
type Client struct {
	locations []Location
	call      apiCaller
}

// NewClient creates a client issuing calls through the given session.
func NewClient(s *BrowserSession) *Client {
	return &Client{
		locations: DefaultLocations,
		call: func(ctx context.Context, req schedulePageRequest) (*schedulePageResponse, error) {
			body, err := json.Marshal(req)
			if err != nil {
				return nil, err
			}
			var resp schedulePageResponse
			if err := s.evalJSON(ctx, fetchExpr("POST", s.baseURL+schedulePath, s.token, string(body)), &resp); err != nil {
				return nil, err
			}
			return &resp, nil
		},
	}
}

// FetchAll fetches every location sequentially. Locations share the one
// browser session, so there is no per-location concurrency here. A failed
// location keeps whatever pages it already delivered and the next location
// still runs.
func (c *Client) FetchAll(ctx context.Context) []session.Session {
	var out []session.Session
	for _, loc := range c.locations {
		sessions, err := c.fetchLocation(ctx, loc)
		if err != nil {
			logger.Error("optisport location fetch ended early", logger.Fields{
				"location": loc.Name,
				"fetched":  len(sessions),
			}, err)
			logger.Add("optisport.fetch_failures", 1)
		}
		out = append(out, sessions...)
	}
	logger.Add("optisport.sessions", int64(len(out)))
	return out
}

// fetchLocation follows the server's next-page cursor until exhausted or the
// page ceiling is hit. No retries: a failed page ends this location's
// contribution.
func (c *Client) fetchLocation(ctx context.Context, loc Location) ([]session.Session, error) {
	var out []session.Session
	cursor := ""
	for page := 0; page < maxPages; page++ {
		resp, err := c.call(ctx, schedulePageRequest{Location: loc.ID, Cursor: cursor})
		if err != nil {
			return out, err
		}

		for _, item := range resp.Items {
			s, err := toSession(loc.Name, item)
			if err != nil {
				logger.Warn("optisport record dropped", logger.Fields{
					"location": loc.Name,
					"err":      err.Error(),
				})
				logger.Add("optisport.dropped_records", 1)
				continue
			}
			out = append(out, s)
		}

		cursor = resp.NextCursor
		if cursor == "" {
			break
		}
	}
	return out, nil
}

func toSession(pool string, item scheduleItem) (session.Session, error) {
	start, err := session.NormalizeTime(item.Start, session.FormatColon)
	if err != nil {
		return session.Session{}, err
	}
	end, err := session.NormalizeTime(item.End, session.FormatColon)
	if err != nil {
		return session.Session{}, err
	}

	s := session.Session{
		Pool:     pool,
		Activity: item.Activity,
		Note:     item.Capacity,
		Start:    start,
		End:      end,
	}
	if date, err := time.Parse("2006-01-02", item.Date); err == nil {
		s.Date = item.Date
		s.Weekday = session.WeekdayOf(date)
	} else {
		return session.Session{}, &session.NormalizationError{Field: "date", Token: item.Date}
	}
	return s, nil
}
