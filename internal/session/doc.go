// Package session defines the canonical swim-session model and the
// normalization steps every source goes through before export.
//
// Sources encode times and weekdays in several shapes ("7.00", "12:30", 1230,
// "Monday", "maandag"). This package canonicalizes all of them into fractional
// hours and the fixed Dutch weekday set, and merges overlapping or adjacent
// time spans for the same pool/day/activity into minimal intervals.
package session
