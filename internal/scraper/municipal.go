package scraper

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/favstats/zwemsterdam/internal/logger"
	"github.com/favstats/zwemsterdam/internal/session"
)

// municipalWindowDays is the forward-looking window: today plus a full week,
// so every weekday appears at least once.
const municipalWindowDays = 8

// MunicipalPool couples a canonical pool name to its slug in the municipal
// API.
type MunicipalPool struct {
	Name string
	Slug string
}

// DefaultMunicipalPools lists the pools operated by the municipality.
var DefaultMunicipalPools = []MunicipalPool{
	{Name: "Zuiderbad", Slug: "zuiderbad"},
	{Name: "De Mirandabad", Slug: "de-mirandabad"},
	{Name: "Flevoparkbad", Slug: "flevoparkbad"},
	{Name: "Noorderparkbad", Slug: "noorderparkbad"},
	{Name: "Bijlmerbad", Slug: "bijlmerbad"},
}

// Municipal fetches the municipal date-indexed schedule API: one request per
// pool per date. It is the only source that supplies concrete dates natively.
type Municipal struct {
	client  *http.Client
	baseURL string
	pools   []MunicipalPool

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

// NewMunicipal creates the municipal adapter against the given API base URL.
func NewMunicipal(baseURL string) *Municipal {
	return &Municipal{
		client:  newHTTPClient(),
		baseURL: baseURL,
		pools:   DefaultMunicipalPools,
		Now:     time.Now,
	}
}

func (m *Municipal) Name() string { return "municipal" }

type municipalEntry struct {
	Activity string `json:"activity"`
	Start    string `json:"start"` // "HH:MM"
	End      string `json:"end"`
	Note     string `json:"note"`
}

type municipalResponse struct {
	Entries []municipalEntry `json:"entries"`
}

// Fetch walks every (pool, date) combination in the window. A failed date is
// logged and skipped; the remaining dates still contribute.
func (m *Municipal) Fetch(ctx context.Context) ([]session.Session, error) {
	var out []session.Session
	for _, pool := range m.pools {
		for day := 0; day < municipalWindowDays; day++ {
			if err := ctx.Err(); err != nil {
				return out, err
			}

			date := m.Now().AddDate(0, 0, day)
			url := fmt.Sprintf("%s/%s/%s", m.baseURL, pool.Slug, date.Format("2006-01-02"))

			var resp municipalResponse
			if err := getJSON(ctx, m.client, m.Name(), url, &resp); err != nil {
				logger.Warn("municipal date fetch failed", logger.Fields{
					"pool": pool.Name,
					"date": date.Format("2006-01-02"),
					"err":  err.Error(),
				})
				logger.Add("municipal.fetch_failures", 1)
				continue
			}

			for _, entry := range resp.Entries {
				s, err := m.toSession(pool.Name, date, entry)
				if err != nil {
					logger.Warn("municipal record dropped", logger.Fields{
						"pool": pool.Name,
						"err":  err.Error(),
					})
					logger.Add("municipal.dropped_records", 1)
					continue
				}
				out = append(out, s)
			}
		}
	}
	logger.Add("municipal.sessions", int64(len(out)))
	return out, nil
}

func (m *Municipal) toSession(pool string, date time.Time, entry municipalEntry) (session.Session, error) {
	start, err := session.NormalizeTime(entry.Start, session.FormatColon)
	if err != nil {
		return session.Session{}, err
	}
	end, err := session.NormalizeTime(entry.End, session.FormatColon)
	if err != nil {
		return session.Session{}, err
	}

	return session.Session{
		Pool:     pool,
		Weekday:  session.WeekdayOf(date),
		Date:     date.Format("2006-01-02"),
		Activity: entry.Activity,
		Note:     entry.Note,
		Start:    start,
		End:      end,
	}, nil
}
