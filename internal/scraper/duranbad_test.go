package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
)

func loadFixtureLines(t *testing.T, name string) []string {
	t.Helper()
	data, err := os.ReadFile("../../testdata/fixtures/" + name)
	if err != nil {
		t.Fatalf("failed to load fixture %s: %v", name, err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("failed to parse fixture %s: %v", name, err)
	}
	return textLines(doc)
}

func TestParseScheduleLines(t *testing.T) {
	lines := loadFixtureLines(t, "duranbad.html")

	sessions := ParseScheduleLines(lines)
	if len(sessions) != 6 {
		t.Fatalf("expected 6 sessions, got %d: %v", len(sessions), sessions)
	}

	first := sessions[0]
	if first.Weekday != "Maandag" || first.Activity != "Banenzwemmen" {
		t.Errorf("unexpected first session: %+v", first)
	}
	if first.Start != 7.0 || first.End != 9.5 {
		t.Errorf("expected [7,9.5], got [%v,%v]", first.Start, first.End)
	}

	// Parenthetical remainder becomes the note.
	withNote := sessions[2]
	if withNote.Activity != "Banenzwemmen" || withNote.Note != "alleen dames" {
		t.Errorf("label not split: %+v", withNote)
	}

	byDay := make(map[string]int)
	for _, s := range sessions {
		byDay[s.Weekday]++
		if s.Pool != "Duranbad" {
			t.Errorf("unexpected pool: %q", s.Pool)
		}
		if s.Date != "" {
			t.Errorf("duranbad sessions carry no date, got %q", s.Date)
		}
	}
	if byDay["Maandag"] != 3 || byDay["Woensdag"] != 2 || byDay["Zaterdag"] != 1 {
		t.Errorf("unexpected day distribution: %v", byDay)
	}
}

func TestParseScheduleLinesSkipsHeaderlessTimes(t *testing.T) {
	sessions := ParseScheduleLines([]string{
		"07:00-09:00 uur Banenzwemmen",
		"Maandag",
		"10:00-11:00 uur Aquarobics",
	})
	if len(sessions) != 1 {
		t.Fatalf("time lines before a day header must be skipped, got %d", len(sessions))
	}
	if sessions[0].Activity != "Aquarobics" {
		t.Errorf("unexpected session: %+v", sessions[0])
	}
}

func TestParseScheduleLinesDottedTimes(t *testing.T) {
	sessions := ParseScheduleLines([]string{
		"Maandag",
		"07.00-09.30 uur Banenzwemmen",
	})
	if len(sessions) != 1 {
		t.Fatalf("dotted times should parse like colon times, got %d sessions", len(sessions))
	}
	if sessions[0].Start != 7.0 || sessions[0].End != 9.5 {
		t.Errorf("expected [7,9.5], got [%v,%v]", sessions[0].Start, sessions[0].End)
	}
}

func TestFindOverrideRange(t *testing.T) {
	lines := loadFixtureLines(t, "duranbad.html")

	from, until, ok := FindOverrideRange(lines, 2026)
	if !ok {
		t.Fatal("expected an override range to be detected")
	}
	if from.Format("2006-01-02") != "2026-07-21" {
		t.Errorf("unexpected range start: %s", from.Format("2006-01-02"))
	}
	if until.Format("2006-01-02") != "2026-08-31" {
		t.Errorf("unexpected range end: %s", until.Format("2006-01-02"))
	}
}

func TestFindOverrideRangeYearWrap(t *testing.T) {
	lines := []string{"Aangepaste openingstijden van 20 december t/m 5 januari."}

	from, until, ok := FindOverrideRange(lines, 2026)
	if !ok {
		t.Fatal("expected an override range to be detected")
	}
	if from.Year() != 2026 || until.Year() != 2027 {
		t.Errorf("range crossing new year should wrap: %v .. %v", from, until)
	}
}

func TestFindOverrideRangeAbsent(t *testing.T) {
	if _, _, ok := FindOverrideRange([]string{"Gewoon geopend deze week."}, 2026); ok {
		t.Error("no announcement should mean no range")
	}
}

func newDuranbadTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var file string
		switch r.URL.Path {
		case duranbadSchedulePath:
			file = "../../testdata/fixtures/duranbad.html"
		case duranbadOverridePath:
			file = "../../testdata/fixtures/duranbad_override.html"
		default:
			http.NotFound(w, r)
			return
		}
		data, err := os.ReadFile(file)
		if err != nil {
			t.Errorf("fixture read failed: %v", err)
			return
		}
		w.Write(data)
	}))
}

func TestDuranbadOverridePrecedence(t *testing.T) {
	server := newDuranbadTestServer(t)
	defer server.Close()

	d := NewDuranbad(server.URL)
	// Inside the announced 21 juli - 31 augustus window.
	d.Now = func() time.Time { return time.Date(2026, 7, 25, 12, 0, 0, 0, time.Local) }

	sessions, err := d.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("override schedule should fully replace the regular one, got %d sessions", len(sessions))
	}
	for _, s := range sessions {
		if s.Start == 7.0 {
			t.Errorf("regular-schedule session leaked through the override: %+v", s)
		}
	}
}

func TestDuranbadOverridePrecedenceAcrossNewYear(t *testing.T) {
	schedule := `<html><body>
<p>Aangepaste openingstijden van 20 december t/m 5 januari.</p>
<h3>Maandag</h3>
<p>07:00-09:00 uur Banenzwemmen</p>
</body></html>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case duranbadSchedulePath:
			w.Write([]byte(schedule))
		case duranbadOverridePath:
			data, err := os.ReadFile("../../testdata/fixtures/duranbad_override.html")
			if err != nil {
				t.Errorf("fixture read failed: %v", err)
				return
			}
			w.Write(data)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	d := NewDuranbad(server.URL)
	// January tail of a range announced the previous December.
	d.Now = func() time.Time { return time.Date(2027, 1, 2, 12, 0, 0, 0, time.Local) }

	sessions, err := d.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("override schedule should replace the regular one in the January tail, got %d sessions", len(sessions))
	}
	for _, s := range sessions {
		if s.Start == 7.0 {
			t.Errorf("regular-schedule session leaked through the override: %+v", s)
		}
	}
}

func TestDuranbadRegularOutsideOverride(t *testing.T) {
	server := newDuranbadTestServer(t)
	defer server.Close()

	d := NewDuranbad(server.URL)
	d.Now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local) }

	sessions, err := d.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(sessions) != 6 {
		t.Fatalf("expected the regular schedule (6 sessions), got %d", len(sessions))
	}
}
