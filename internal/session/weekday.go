package session

import (
	"strings"
	"time"
)

// Weekdays is the canonical Dutch weekday set, Monday first. Every session's
// Weekday field holds one of these seven values.
var Weekdays = []string{
	"Maandag", "Dinsdag", "Woensdag", "Donderdag", "Vrijdag", "Zaterdag", "Zondag",
}

// weekdayAliases maps lowercased Dutch and English day names, full and
// abbreviated, to an index into Weekdays.
var weekdayAliases = map[string]int{
	"maandag": 0, "ma": 0, "monday": 0, "mon": 0,
	"dinsdag": 1, "di": 1, "tuesday": 1, "tue": 1, "tues": 1,
	"woensdag": 2, "wo": 2, "wednesday": 2, "wed": 2,
	"donderdag": 3, "do": 3, "thursday": 3, "thu": 3, "thur": 3, "thurs": 3,
	"vrijdag": 4, "vr": 4, "vrij": 4, "friday": 4, "fri": 4,
	"zaterdag": 5, "za": 5, "zat": 5, "saturday": 5, "sat": 5,
	"zondag": 6, "zo": 6, "zon": 6, "sunday": 6, "sun": 6,
}

// NormalizeWeekday maps a raw day token (Dutch or English, any case, full or
// abbreviated) to the canonical Dutch name. Unknown tokens are an error, not
// a default.
func NormalizeWeekday(token string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(strings.Trim(token, ".:")))
	idx, ok := weekdayAliases[key]
	if !ok {
		return "", &NormalizationError{Field: "weekday", Token: token}
	}
	return Weekdays[idx], nil
}

// WeekdayIndex returns the position of a canonical weekday in the week,
// Maandag = 0. Unrecognized names sort last.
func WeekdayIndex(weekday string) int {
	for i, d := range Weekdays {
		if d == weekday {
			return i
		}
	}
	return len(Weekdays)
}

// WeekdayOf returns the canonical Dutch weekday for a calendar date.
func WeekdayOf(t time.Time) string {
	// time.Weekday is Sunday-based; our week starts on Monday.
	return Weekdays[(int(t.Weekday())+6)%7]
}

// WeekMonday returns the Monday of the ISO week containing t, at midnight in
// t's location.
func WeekMonday(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	monday := t.AddDate(0, 0, -offset)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, t.Location())
}
