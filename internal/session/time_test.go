package session

import (
	"errors"
	"testing"
)

func TestNormalizeTime(t *testing.T) {
	tests := []struct {
		token    string
		format   TimeFormat
		expected float64
	}{
		{"7.00", FormatDecimal, 7.0},
		{"15.30", FormatDecimal, 15.5},
		{"9.05", FormatDecimal, 9 + 5.0/60},
		{"9.50", FormatDecimal, 9 + 50.0/60},
		// Single fractional digit counts tens of minutes: 7.5 is 07:50.
		{"7.5", FormatDecimal, 7 + 50.0/60},
		{"12", FormatDecimal, 12.0},
		{"12:45", FormatColon, 12.75},
		{"08:05", FormatColon, 8 + 5.0/60},
		{"23:50", FormatColon, 23 + 50.0/60},
		{"0930", FormatPacked, 9.5},
		{"1230", FormatPacked, 12.5},
		{"905", FormatPacked, 9 + 5.0/60},
		{"9", FormatPacked, 9.0},
		{"24:00", FormatColon, 24.0},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := NormalizeTime(tt.token, tt.format)
			if err != nil {
				t.Fatalf("NormalizeTime(%q) returned error: %v", tt.token, err)
			}
			if diff := got - tt.expected; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("NormalizeTime(%q) = %v, expected %v", tt.token, got, tt.expected)
			}
		})
	}
}

func TestNormalizeTimeInvalid(t *testing.T) {
	tests := []struct {
		token  string
		format TimeFormat
	}{
		{"", FormatDecimal},
		{"abc", FormatColon},
		{"12:60", FormatColon},
		{"25:00", FormatColon},
		{"24:30", FormatColon},
		{"12.xx", FormatDecimal},
		{"-1:00", FormatColon},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			_, err := NormalizeTime(tt.token, tt.format)
			if err == nil {
				t.Fatalf("NormalizeTime(%q) should have failed", tt.token)
			}
			var normErr *NormalizationError
			if !errors.As(err, &normErr) {
				t.Errorf("expected NormalizationError, got %T", err)
			}
		})
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		hours    float64
		expected string
	}{
		{7.0, "07:00"},
		{15.5, "15:30"},
		{12.75, "12:45"},
		{9 + 5.0/60, "09:05"},
		{0, "00:00"},
	}

	for _, tt := range tests {
		if got := FormatClock(tt.hours); got != tt.expected {
			t.Errorf("FormatClock(%v) = %q, expected %q", tt.hours, got, tt.expected)
		}
	}
}
