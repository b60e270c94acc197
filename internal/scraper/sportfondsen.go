package scraper

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/favstats/zwemsterdam/internal/logger"
	"github.com/favstats/zwemsterdam/internal/session"
)

// nextDataSelector is the Next.js script tag carrying the page's embedded
// JSON payload.
const nextDataSelector = "script#__NEXT_DATA__"

// Sportfondsen fetches a Sportfondsen-style Next.js page and reads the
// schedule out of its embedded JSON payload. Two deployments of the same CMS
// nest the schedule differently, so a primary and a fallback path are tried.
type Sportfondsen struct {
	client  *http.Client
	pageURL string
	pool    string

	Now func() time.Time
}

// NewSportfondsen creates the adapter for one Sportfondsen pool page.
func NewSportfondsen(pageURL, pool string) *Sportfondsen {
	return &Sportfondsen{
		client:  newHTTPClient(),
		pageURL: pageURL,
		pool:    pool,
		Now:     time.Now,
	}
}

func (s *Sportfondsen) Name() string { return "sportfondsen" }

type sportfondsenSlot struct {
	Activity string `json:"activity"`
	Start    string `json:"startTime"` // decimal-dot, "7.00"
	End      string `json:"endTime"`
	Label    string `json:"label"` // occupancy/capacity note
}

type sportfondsenDay struct {
	Day   string             `json:"day"` // weekday name, no date
	Slots []sportfondsenSlot `json:"slots"`
}

type sportfondsenSchedule struct {
	Days []sportfondsenDay `json:"days"`
}

// nextData models only the payload paths we read. Both nesting variants are
// optional pointers; "neither present" is a ParseError, not a nil panic.
type nextData struct {
	Props struct {
		PageProps struct {
			// Primary path, current deployments.
			Page *struct {
				Template struct {
					Schedule *sportfondsenSchedule `json:"schedule"`
				} `json:"template"`
			} `json:"page"`
			// Fallback path, older deployments.
			Content *struct {
				Schedule *sportfondsenSchedule `json:"schedule"`
			} `json:"content"`
		} `json:"pageProps"`
	} `json:"props"`
}

// Fetch loads the page, extracts the embedded payload and maps every time
// slot. Weekday-only slots get a date reconstructed from the current week's
// Monday.
func (s *Sportfondsen) Fetch(ctx context.Context) ([]session.Session, error) {
	doc, err := getDocument(ctx, s.client, s.Name(), s.pageURL)
	if err != nil {
		return nil, err
	}
	schedule, err := s.extractSchedule(doc)
	if err != nil {
		return nil, err
	}
	return s.toSessions(schedule), nil
}

func (s *Sportfondsen) extractSchedule(doc *goquery.Document) (*sportfondsenSchedule, error) {
	payload := strings.TrimSpace(doc.Find(nextDataSelector).Text())
	if payload == "" {
		return nil, &ParseError{Source: s.Name(), Detail: "missing __NEXT_DATA__ payload"}
	}

	var data nextData
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return nil, &ParseError{Source: s.Name(), Detail: "__NEXT_DATA__ payload", Err: err}
	}

	if page := data.Props.PageProps.Page; page != nil && page.Template.Schedule != nil {
		return page.Template.Schedule, nil
	}
	if content := data.Props.PageProps.Content; content != nil && content.Schedule != nil {
		return content.Schedule, nil
	}
	return nil, &ParseError{Source: s.Name(), Detail: "schedule not found at any known path"}
}

func (s *Sportfondsen) toSessions(schedule *sportfondsenSchedule) []session.Session {
	monday := session.WeekMonday(s.Now())

	var out []session.Session
	for _, day := range schedule.Days {
		weekday, err := session.NormalizeWeekday(day.Day)
		if err != nil {
			logger.Warn("sportfondsen day dropped", logger.Fields{
				"pool": s.pool,
				"day":  day.Day,
				"err":  err.Error(),
			})
			logger.Add("sportfondsen.dropped_records", int64(len(day.Slots)))
			continue
		}
		date := monday.AddDate(0, 0, session.WeekdayIndex(weekday))

		for _, slot := range day.Slots {
			start, err := session.NormalizeTime(slot.Start, session.FormatDecimal)
			if err == nil {
				var end float64
				end, err = session.NormalizeTime(slot.End, session.FormatDecimal)
				if err == nil {
					out = append(out, session.Session{
						Pool:     s.pool,
						Weekday:  weekday,
						Date:     date.Format("2006-01-02"),
						Activity: slot.Activity,
						Note:     slot.Label,
						Start:    start,
						End:      end,
					})
					continue
				}
			}
			logger.Warn("sportfondsen slot dropped", logger.Fields{
				"pool": s.pool,
				"day":  day.Day,
				"err":  err.Error(),
			})
			logger.Add("sportfondsen.dropped_records", 1)
		}
	}
	logger.Add("sportfondsen.sessions", int64(len(out)))
	return out
}
