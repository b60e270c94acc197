package session

import (
	"strconv"
	"strings"
)

// TimeFormat tags the encoding a source uses for clock times. Every adapter
// knows its own format; nothing is guessed from the token alone.
type TimeFormat int

const (
	// FormatDecimal is "H.MM" with a dot: "7.00", "15.30". The fractional
	// part is a minute count, not a decimal fraction of an hour.
	FormatDecimal TimeFormat = iota
	// FormatColon is "HH:MM".
	FormatColon
	// FormatPacked is an integer HHMM, e.g. 1230, sometimes delivered as a
	// bare digit string "0930".
	FormatPacked
)

// NormalizeTime converts a raw time token into fractional hours in [0,24].
// The minute component is always base-60 regardless of encoding; "15.30"
// means 15:30 and yields 15.5, never 15.3.
func NormalizeTime(token string, format TimeFormat) (float64, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, &NormalizationError{Field: "time", Token: token}
	}

	var hourPart, minutePart string
	switch format {
	case FormatDecimal:
		hourPart, minutePart = splitOnce(token, ".")
	case FormatColon:
		hourPart, minutePart = splitOnce(token, ":")
		if minutePart == "" && strings.Contains(token, ":") {
			minutePart = "0"
		}
	case FormatPacked:
		// HHMM: the last two digits are minutes. Shorter tokens are a
		// bare hour count ("9" → 09:00).
		if len(token) > 2 {
			hourPart, minutePart = token[:len(token)-2], token[len(token)-2:]
		} else {
			hourPart, minutePart = token, "0"
		}
	default:
		return 0, &NormalizationError{Field: "time", Token: token}
	}

	hour, err := strconv.Atoi(hourPart)
	if err != nil {
		return 0, &NormalizationError{Field: "time", Token: token}
	}

	minute := 0
	if minutePart != "" {
		// A lone fractional digit in decimal format ("7.5") is a
		// truncated trailing zero, so it counts tens of minutes: 7.5 is
		// 07:50, not 07:05. Two-digit parts are literal minutes.
		if format == FormatDecimal && len(minutePart) == 1 {
			minutePart += "0"
		}
		minute, err = strconv.Atoi(minutePart)
		if err != nil {
			return 0, &NormalizationError{Field: "time", Token: token}
		}
	}

	if hour < 0 || hour > 24 || minute < 0 || minute > 59 || (hour == 24 && minute != 0) {
		return 0, &NormalizationError{Field: "time", Token: token}
	}

	return float64(hour) + float64(minute)/60, nil
}

func splitOnce(s, sep string) (string, string) {
	before, after, found := strings.Cut(s, sep)
	if !found {
		return s, ""
	}
	return before, after
}

// FormatClock renders fractional hours back into "HH:MM" for display and ICS
// output.
func FormatClock(hours float64) string {
	h := int(hours)
	m := int((hours-float64(h))*60 + 0.5)
	if m == 60 {
		h++
		m = 0
	}
	return pad2(h) + ":" + pad2(m)
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
