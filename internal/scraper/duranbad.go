package scraper

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/favstats/zwemsterdam/internal/logger"
	"github.com/favstats/zwemsterdam/internal/session"
)

const (
	duranbadPool = "Duranbad"

	// duranbadSchedulePath and duranbadOverridePath are relative to the
	// site base URL.
	duranbadSchedulePath = "/openingstijden"
	duranbadOverridePath = "/aangepast-rooster"
)

var (
	// dayHeaderPattern starts a new current-day context:
	// "Maandag" or "Maandag:".
	dayHeaderPattern = regexp.MustCompile(`(?i)^(maandag|dinsdag|woensdag|donderdag|vrijdag|zaterdag|zondag)\s*:?\s*$`)

	// timeLinePattern matches a schedule line: "07:00-09:30 uur Banenzwemmen (rustig)".
	timeLinePattern = regexp.MustCompile(`^(\d{1,2}[:.]\d{2})\s*[-–]\s*(\d{1,2}[:.]\d{2})\s*uur\s*(.*)$`)

	// labelNotePattern splits a trailing parenthetical off the activity
	// label.
	labelNotePattern = regexp.MustCompile(`^(.*?)\s*\((.*?)\)\s*$`)

	// overridePattern detects a temporary-schedule announcement:
	// "aangepast rooster van 21 juli t/m 1 september".
	overridePattern = regexp.MustCompile(`(?i)aangepast(?:e)?\s+(?:rooster|openingstijden).*?van\s+(\d{1,2})\s+([a-z]+)\s+(?:t/m|tot en met)\s+(\d{1,2})\s+([a-z]+)`)
)

var dutchMonths = map[string]time.Month{
	"januari": time.January, "jan": time.January,
	"februari": time.February, "feb": time.February,
	"maart": time.March, "mrt": time.March,
	"april": time.April, "apr": time.April,
	"mei": time.May,
	"juni": time.June, "jun": time.June,
	"juli": time.July, "jul": time.July,
	"augustus": time.August, "aug": time.August,
	"september": time.September, "sep": time.September,
	"oktober": time.October, "okt": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

// Duranbad scrapes the Duranbad site, which publishes its schedule as plain
// text: day-name headers followed by "HH:MM-HH:MM uur <label>" lines. The
// site also announces temporary override schedules for holiday periods; while
// an override range covers today, the override page replaces the regular one.
type Duranbad struct {
	client  *http.Client
	baseURL string

	Now func() time.Time
}

// NewDuranbad creates the Duranbad adapter against the given site base URL.
func NewDuranbad(baseURL string) *Duranbad {
	return &Duranbad{
		client:  newHTTPClient(),
		baseURL: baseURL,
		Now:     time.Now,
	}
}

func (d *Duranbad) Name() string { return "duranbad" }

// Fetch loads the regular schedule page; when an announced override range
// covers today, the override page is fetched and its entries supersede the
// regular ones entirely (precedence, not merge).
func (d *Duranbad) Fetch(ctx context.Context) ([]session.Session, error) {
	doc, err := getDocument(ctx, d.client, d.Name(), d.baseURL+duranbadSchedulePath)
	if err != nil {
		return nil, err
	}
	lines := textLines(doc)
	sessions := ParseScheduleLines(lines)

	if from, until, ok := FindOverrideRange(lines, d.Now().Year()); ok {
		today := d.Now()
		// A wrapped range anchored to the current year points at next
		// winter when today sits in its January tail; the previous
		// year's instance is the one that covers today then.
		if today.Before(from) {
			prevFrom, prevUntil := from.AddDate(-1, 0, 0), until.AddDate(-1, 0, 0)
			if !today.Before(prevFrom) && !today.After(prevUntil) {
				from, until = prevFrom, prevUntil
			}
		}
		if !today.Before(from) && !today.After(until) {
			overrideDoc, err := getDocument(ctx, d.client, d.Name(), d.baseURL+duranbadOverridePath)
			if err != nil {
				// The announced override page is unreachable; the
				// regular schedule is wrong for this period, so
				// contribute nothing rather than stale data.
				logger.Error("duranbad override page fetch failed", logger.Fields{
					"from":  from.Format("2006-01-02"),
					"until": until.Format("2006-01-02"),
				}, err)
				logger.Add("duranbad.fetch_failures", 1)
				return nil, err
			}
			logger.Info("duranbad override schedule active", logger.Fields{
				"from":  from.Format("2006-01-02"),
				"until": until.Format("2006-01-02"),
			})
			sessions = ParseScheduleLines(textLines(overrideDoc))
		}
	}

	logger.Add("duranbad.sessions", int64(len(sessions)))
	return sessions, nil
}

// textLines flattens the paragraph-like nodes of a page into trimmed text
// lines, preserving document order.
func textLines(doc *goquery.Document) []string {
	var lines []string
	doc.Find("p, li, td, h1, h2, h3, h4").Each(func(i int, sel *goquery.Selection) {
		for _, line := range strings.Split(sel.Text(), "\n") {
			line = strings.TrimSpace(line)
			if line != "" {
				lines = append(lines, line)
			}
		}
	})
	return lines
}

// ParseScheduleLines turns schedule text lines into sessions. A day-header
// line opens a day context; time lines before any header are skipped. Pure
// function, testable against captured page text.
func ParseScheduleLines(lines []string) []session.Session {
	var out []session.Session
	currentDay := ""

	for _, line := range lines {
		if matches := dayHeaderPattern.FindStringSubmatch(line); matches != nil {
			day, err := session.NormalizeWeekday(matches[1])
			if err != nil {
				continue
			}
			currentDay = day
			continue
		}

		matches := timeLinePattern.FindStringSubmatch(line)
		if matches == nil || currentDay == "" {
			continue
		}

		// The site mixes "07:00" and "07.00"; fold both onto the colon
		// form before parsing.
		start, err := session.NormalizeTime(strings.Replace(matches[1], ".", ":", 1), session.FormatColon)
		if err != nil {
			logger.Add("duranbad.dropped_records", 1)
			continue
		}
		end, err := session.NormalizeTime(strings.Replace(matches[2], ".", ":", 1), session.FormatColon)
		if err != nil {
			logger.Add("duranbad.dropped_records", 1)
			continue
		}

		activity, note := splitLabel(matches[3])
		out = append(out, session.Session{
			Pool:     duranbadPool,
			Weekday:  currentDay,
			Activity: activity,
			Note:     note,
			Start:    start,
			End:      end,
		})
	}
	return out
}

// splitLabel separates "Banenzwemmen (alleen dames)" into the activity and
// the parenthetical note.
func splitLabel(label string) (activity, note string) {
	label = strings.TrimSpace(label)
	if matches := labelNotePattern.FindStringSubmatch(label); matches != nil {
		return strings.TrimSpace(matches[1]), strings.TrimSpace(matches[2])
	}
	return label, ""
}

// FindOverrideRange scans page lines for a temporary-schedule announcement
// and returns its date range. A range whose end month precedes its start
// month wraps into the next year.
func FindOverrideRange(lines []string, year int) (from, until time.Time, ok bool) {
	for _, line := range lines {
		matches := overridePattern.FindStringSubmatch(strings.ToLower(line))
		if matches == nil {
			continue
		}

		fromDay, fromMonth, okFrom := parseDutchDay(matches[1], matches[2])
		untilDay, untilMonth, okUntil := parseDutchDay(matches[3], matches[4])
		if !okFrom || !okUntil {
			continue
		}

		from = time.Date(year, fromMonth, fromDay, 0, 0, 0, 0, time.Local)
		untilYear := year
		if untilMonth < fromMonth {
			untilYear++
		}
		until = time.Date(untilYear, untilMonth, untilDay, 23, 59, 59, 0, time.Local)
		return from, until, true
	}
	return time.Time{}, time.Time{}, false
}

func parseDutchDay(dayToken, monthToken string) (int, time.Month, bool) {
	month, ok := dutchMonths[monthToken]
	if !ok {
		return 0, 0, false
	}
	day := 0
	for _, r := range dayToken {
		day = day*10 + int(r-'0')
	}
	if day < 1 || day > 31 {
		return 0, 0, false
	}
	return day, month, true
}
