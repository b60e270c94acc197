// Package calendar renders dated sessions as an iCalendar file so dashboard
// users can subscribe to a pool's schedule.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/favstats/zwemsterdam/internal/session"
)

const prodID = "-//zwemsterdam//rooster//NL"

// GenerateICS builds a VCALENDAR containing one VEVENT per dated session.
// Sessions without a concrete date describe a recurring weekday pattern and
// are skipped; a calendar entry needs a real day.
func GenerateICS(sessions []session.Session) string {
	var ics strings.Builder

	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString("PRODID:" + prodID + "\r\n")
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")

	stamp := formatICSTime(time.Now().UTC())
	for _, s := range sessions {
		if s.Date == "" {
			continue
		}
		date, err := time.Parse("2006-01-02", s.Date)
		if err != nil {
			continue
		}

		start := date.Add(hoursToDuration(s.Start))
		end := date.Add(hoursToDuration(s.End))

		ics.WriteString("BEGIN:VEVENT\r\n")
		ics.WriteString(fmt.Sprintf("UID:zwemsterdam-%d-%s\r\n", s.ID, s.Date))
		ics.WriteString("DTSTAMP:" + stamp + "\r\n")
		ics.WriteString("DTSTART:" + formatICSTime(start) + "\r\n")
		ics.WriteString("DTEND:" + formatICSTime(end) + "\r\n")
		ics.WriteString("SUMMARY:" + escapeICS(s.Activity+" - "+s.Pool) + "\r\n")
		if s.Note != "" {
			ics.WriteString("DESCRIPTION:" + escapeICS(s.Note) + "\r\n")
		}
		ics.WriteString("LOCATION:" + escapeICS(s.Pool) + "\r\n")
		if s.Website != "" {
			ics.WriteString("URL:" + s.Website + "\r\n")
		}
		ics.WriteString("STATUS:CONFIRMED\r\n")
		ics.WriteString("TRANSP:OPAQUE\r\n")
		ics.WriteString("END:VEVENT\r\n")
	}

	ics.WriteString("END:VCALENDAR\r\n")
	return ics.String()
}

func hoursToDuration(hours float64) time.Duration {
	return time.Duration(hours * float64(time.Hour))
}

// formatICSTime formats a time as an iCalendar datetime string.
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeICS escapes special characters per RFC 5545.
func escapeICS(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
