package session

// DiffResult summarizes how an export differs from the previous one. Export
// ids are not stable across runs, so sessions are compared by their full
// content key instead.
type DiffResult struct {
	Added   []Session
	Removed []Session
}

// Diff compares the current export against the previous one. A large Removed
// count for a single pool usually means a source changed shape or moved
// domains rather than a real schedule change.
func Diff(previous, current []Session) *DiffResult {
	result := &DiffResult{}

	prevSet := make(map[string]bool, len(previous))
	for _, s := range previous {
		prevSet[contentKey(s)] = true
	}
	currSet := make(map[string]bool, len(current))
	for _, s := range current {
		currSet[contentKey(s)] = true
	}

	for _, s := range current {
		if !prevSet[contentKey(s)] {
			result.Added = append(result.Added, s)
		}
	}
	for _, s := range previous {
		if !currSet[contentKey(s)] {
			result.Removed = append(result.Removed, s)
		}
	}
	return result
}

func contentKey(s Session) string {
	return s.Key() + "|" + s.Date + "|" + FormatClock(s.Start) + "|" + FormatClock(s.End)
}
