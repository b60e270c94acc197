package session

import (
	"testing"
	"time"
)

func TestNormalizeWeekday(t *testing.T) {
	tests := []struct {
		token    string
		expected string
	}{
		{"Monday", "Maandag"},
		{"maandag", "Maandag"},
		{"MAANDAG", "Maandag"},
		{"ma", "Maandag"},
		{"Tue", "Dinsdag"},
		{"woensdag", "Woensdag"},
		{"Thu", "Donderdag"},
		{"vrijdag", "Vrijdag"},
		{"Sat", "Zaterdag"},
		{"zo", "Zondag"},
		{"  Sunday  ", "Zondag"},
		{"wo.", "Woensdag"},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := NormalizeWeekday(tt.token)
			if err != nil {
				t.Fatalf("NormalizeWeekday(%q) returned error: %v", tt.token, err)
			}
			if got != tt.expected {
				t.Errorf("NormalizeWeekday(%q) = %q, expected %q", tt.token, got, tt.expected)
			}
		})
	}
}

func TestNormalizeWeekdayUnknown(t *testing.T) {
	for _, token := range []string{"", "funday", "m0nday", "8"} {
		if _, err := NormalizeWeekday(token); err == nil {
			t.Errorf("NormalizeWeekday(%q) should have failed", token)
		}
	}
}

func TestWeekdayOf(t *testing.T) {
	// 2026-09-07 is a Monday.
	monday := time.Date(2026, 9, 7, 12, 0, 0, 0, time.UTC)
	for i, expected := range Weekdays {
		day := monday.AddDate(0, 0, i)
		if got := WeekdayOf(day); got != expected {
			t.Errorf("WeekdayOf(%s) = %q, expected %q", day.Format("2006-01-02"), got, expected)
		}
	}
}

func TestWeekMonday(t *testing.T) {
	tests := []struct {
		day      string
		expected string
	}{
		{"2026-09-07", "2026-09-07"}, // Monday maps to itself
		{"2026-09-09", "2026-09-07"},
		{"2026-09-13", "2026-09-07"}, // Sunday still belongs to the week's Monday
	}

	for _, tt := range tests {
		day, err := time.Parse("2006-01-02", tt.day)
		if err != nil {
			t.Fatal(err)
		}
		if got := WeekMonday(day).Format("2006-01-02"); got != tt.expected {
			t.Errorf("WeekMonday(%s) = %s, expected %s", tt.day, got, tt.expected)
		}
	}
}
