package calendar

import (
	"strings"
	"testing"

	"github.com/favstats/zwemsterdam/internal/session"
)

func TestGenerateICS(t *testing.T) {
	sessions := []session.Session{
		{
			ID: 1, Pool: "Zuiderbad", Weekday: "Maandag", Date: "2026-09-07",
			Activity: "Banenzwemmen", Note: "rustig", Start: 7, End: 9.5,
			Website: "https://www.amsterdam.nl/zuiderbad",
		},
		// Recurring weekday pattern without a date: not representable.
		{ID: 2, Pool: "Duranbad", Weekday: "Woensdag", Activity: "Aquarobics", Start: 9.5, End: 11},
	}

	ics := GenerateICS(sessions)

	if !strings.HasPrefix(ics, "BEGIN:VCALENDAR\r\n") || !strings.HasSuffix(ics, "END:VCALENDAR\r\n") {
		t.Error("missing VCALENDAR envelope")
	}
	if got := strings.Count(ics, "BEGIN:VEVENT"); got != 1 {
		t.Errorf("only dated sessions should become events, got %d", got)
	}
	for _, want := range []string{
		"DTSTART:20260907T070000Z",
		"DTEND:20260907T093000Z",
		"SUMMARY:Banenzwemmen - Zuiderbad",
		"DESCRIPTION:rustig",
		"URL:https://www.amsterdam.nl/zuiderbad",
	} {
		if !strings.Contains(ics, want) {
			t.Errorf("ICS missing %q", want)
		}
	}
}

func TestEscapeICS(t *testing.T) {
	got := escapeICS("a,b;c\nd\\e")
	if got != "a\\,b\\;c\\nd\\\\e" {
		t.Errorf("unexpected escaping: %q", got)
	}
}
