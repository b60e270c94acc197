package session

import (
	"reflect"
	"testing"
)

func span(pool, day, activity, note string, start, end float64) Session {
	return Session{Pool: pool, Weekday: day, Activity: activity, Note: note, Start: start, End: end}
}

func TestAggregateAdjacent(t *testing.T) {
	in := []Session{
		span("Zuiderbad", "Maandag", "Banenzwemmen", "", 9, 10),
		span("Zuiderbad", "Maandag", "Banenzwemmen", "", 10, 11),
	}

	out := Aggregate(in)
	if len(out) != 1 {
		t.Fatalf("expected 1 merged span, got %d", len(out))
	}
	if out[0].Start != 9 || out[0].End != 11 {
		t.Errorf("expected [9,11], got [%v,%v]", out[0].Start, out[0].End)
	}
}

func TestAggregateOverlap(t *testing.T) {
	in := []Session{
		span("Zuiderbad", "Maandag", "Banenzwemmen", "", 9, 11),
		span("Zuiderbad", "Maandag", "Banenzwemmen", "", 10, 12),
	}

	out := Aggregate(in)
	if len(out) != 1 {
		t.Fatalf("expected 1 merged span, got %d", len(out))
	}
	if out[0].Start != 9 || out[0].End != 12 {
		t.Errorf("expected [9,12], got [%v,%v]", out[0].Start, out[0].End)
	}
}

func TestAggregateIdempotent(t *testing.T) {
	minimal := []Session{
		span("Zuiderbad", "Maandag", "Banenzwemmen", "", 7, 9),
		span("Zuiderbad", "Maandag", "Banenzwemmen", "", 12, 14),
		span("Zuiderbad", "Dinsdag", "Banenzwemmen", "", 7, 9),
	}

	once := Aggregate(minimal)
	twice := Aggregate(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("aggregating a minimal set changed it: %v vs %v", once, twice)
	}
	if len(once) != 3 {
		t.Errorf("expected 3 spans, got %d", len(once))
	}
}

func TestAggregateDeduplicates(t *testing.T) {
	s := span("Flevoparkbad", "Zaterdag", "Recreatief zwemmen", "druk", 10, 12)
	out := Aggregate([]Session{s, s})
	if len(out) != 1 {
		t.Fatalf("identical sessions should collapse to one, got %d", len(out))
	}
}

func TestAggregateKeyIsolation(t *testing.T) {
	in := []Session{
		span("Zuiderbad", "Maandag", "Banenzwemmen", "", 9, 10),
		span("Zuiderbad", "Maandag", "Aquajoggen", "", 10, 11),
		span("Zuiderbad", "Dinsdag", "Banenzwemmen", "", 9, 10),
		span("Marnix", "Maandag", "Banenzwemmen", "", 9, 10),
		span("Zuiderbad", "Maandag", "Banenzwemmen", "vol", 10, 11),
	}

	out := Aggregate(in)
	if len(out) != 5 {
		t.Errorf("sessions with different keys must not merge; expected 5, got %d", len(out))
	}
}

func TestAggregateDropsMalformed(t *testing.T) {
	in := []Session{
		span("Zuiderbad", "Maandag", "Banenzwemmen", "", 10, 9),
		span("Zuiderbad", "Maandag", "Banenzwemmen", "", 12, 12),
		span("Zuiderbad", "Maandag", "Banenzwemmen", "", 14, 15),
	}

	out := Aggregate(in)
	if len(out) != 1 {
		t.Fatalf("malformed intervals should be dropped, got %d spans", len(out))
	}
	if out[0].Start != 14 || out[0].End != 15 {
		t.Errorf("surviving span should be [14,15], got [%v,%v]", out[0].Start, out[0].End)
	}
}

func TestDiff(t *testing.T) {
	previous := []Session{
		span("Zuiderbad", "Maandag", "Banenzwemmen", "", 7, 9),
		span("Marnix", "Dinsdag", "Aquafit", "", 18, 19),
	}
	current := []Session{
		span("Zuiderbad", "Maandag", "Banenzwemmen", "", 7, 9),
		span("Marnix", "Woensdag", "Aquafit", "", 18, 19),
	}

	diff := Diff(previous, current)
	if len(diff.Added) != 1 || diff.Added[0].Weekday != "Woensdag" {
		t.Errorf("unexpected Added: %v", diff.Added)
	}
	if len(diff.Removed) != 1 || diff.Removed[0].Weekday != "Dinsdag" {
		t.Errorf("unexpected Removed: %v", diff.Removed)
	}
}
