package session

import "sort"

// Aggregate collapses overlapping and exactly-adjacent time spans that share
// a grouping key into the minimal covering set. Sessions with a malformed
// interval (end <= start) are dropped before merging. Input order does not
// matter; output is sorted by key, then start.
func Aggregate(sessions []Session) []Session {
	groups := make(map[string][]Session)
	keys := make([]string, 0)
	for _, s := range sessions {
		if !s.Valid() {
			continue
		}
		if _, seen := groups[s.Key()]; !seen {
			keys = append(keys, s.Key())
		}
		groups[s.Key()] = append(groups[s.Key()], s)
	}
	sort.Strings(keys)

	merged := make([]Session, 0, len(sessions))
	for _, key := range keys {
		merged = append(merged, mergeGroup(groups[key])...)
	}
	return merged
}

// mergeGroup sweep-merges one key's spans: sorted by start (ties by end), a
// span whose start is at or before the open span's end extends it. Touching
// spans ([9,10] then [10,11]) merge the same as overlapping ones.
func mergeGroup(group []Session) []Session {
	sort.Slice(group, func(i, j int) bool {
		if group[i].Start != group[j].Start {
			return group[i].Start < group[j].Start
		}
		return group[i].End < group[j].End
	})

	out := make([]Session, 0, len(group))
	current := group[0]
	for _, next := range group[1:] {
		if next.Start <= current.End {
			if next.End > current.End {
				current.End = next.End
			}
			continue
		}
		out = append(out, current)
		current = next
	}
	return append(out, current)
}
