package scraper

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/favstats/zwemsterdam/internal/logger"
	"github.com/favstats/zwemsterdam/internal/session"
)

const marnixPool = "Het Marnix"

// marnixTimeLayout is how the admin-ajax endpoint renders timestamps: local
// time, no zone designator.
const marnixTimeLayout = "2006-01-02T15:04:05"

// Marnix fetches the Het Marnix lesson list through the WordPress admin-ajax
// endpoint, one request covering the current ISO week.
type Marnix struct {
	client   *http.Client
	endpoint string

	Now func() time.Time
}

// NewMarnix creates the Het Marnix adapter against the given admin-ajax
// endpoint URL.
func NewMarnix(endpoint string) *Marnix {
	return &Marnix{
		client:   newHTTPClient(),
		endpoint: endpoint,
		Now:      time.Now,
	}
}

func (m *Marnix) Name() string { return "marnix" }

type marnixLesson struct {
	Title    string `json:"title"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Subtitle string `json:"subtitle"`
}

// Fetch requests the week from Monday 00:00 through the following Monday
// 23:59 and maps each lesson's absolute timestamps to a dated session.
func (m *Marnix) Fetch(ctx context.Context) ([]session.Session, error) {
	monday := session.WeekMonday(m.Now())
	nextMonday := monday.AddDate(0, 0, 7)

	query := url.Values{}
	query.Set("action", "get_lessen")
	query.Set("start", monday.Format("2006-01-02 15:04"))
	query.Set("end", nextMonday.Format("2006-01-02")+" 23:59")

	var lessons []marnixLesson
	if err := getJSON(ctx, m.client, m.Name(), m.endpoint+"?"+query.Encode(), &lessons); err != nil {
		return nil, err
	}

	out := make([]session.Session, 0, len(lessons))
	for _, lesson := range lessons {
		s, err := m.toSession(lesson)
		if err != nil {
			logger.Warn("marnix lesson dropped", logger.Fields{
				"title": lesson.Title,
				"err":   err.Error(),
			})
			logger.Add("marnix.dropped_records", 1)
			continue
		}
		out = append(out, s)
	}
	logger.Add("marnix.sessions", int64(len(out)))
	return out, nil
}

func (m *Marnix) toSession(lesson marnixLesson) (session.Session, error) {
	start, err := time.Parse(marnixTimeLayout, lesson.Start)
	if err != nil {
		return session.Session{}, &ParseError{Source: m.Name(), Detail: "lesson start timestamp", Err: err}
	}
	end, err := time.Parse(marnixTimeLayout, lesson.End)
	if err != nil {
		return session.Session{}, &ParseError{Source: m.Name(), Detail: "lesson end timestamp", Err: err}
	}

	return session.Session{
		Pool:     marnixPool,
		Weekday:  session.WeekdayOf(start),
		Date:     start.Format("2006-01-02"),
		Activity: lesson.Title,
		Note:     lesson.Subtitle,
		Start:    float64(start.Hour()) + float64(start.Minute())/60,
		End:      float64(end.Hour()) + float64(end.Minute())/60,
	}, nil
}
