package alerts

import "slices"

// Rank returns the display priority of a severity. Lower sorts first.
func Rank(s Severity) int {
	switch s {
	case SeverityCritical:
		return 1
	case SeverityWarning:
		return 2
	default:
		return 3
	}
}

// OrderForDisplay returns a new slice sorted by Rank. Alerts of equal
// severity keep their sheet order, which editors use to express recency.
func OrderForDisplay(records []Alert) []Alert {
	ordered := slices.Clone(records)
	if ordered == nil {
		ordered = []Alert{}
	}
	slices.SortStableFunc(ordered, func(a, b Alert) int {
		return Rank(a.Severity) - Rank(b.Severity)
	})
	return ordered
}

// SelectLeadCritical returns the first critical alert in sheet order.
// The sheet has no reliable date column, so "first" is the only tie-break.
func SelectLeadCritical(records []Alert) (Alert, bool) {
	for _, a := range records {
		if a.IsCritical() {
			return a, true
		}
	}
	return Alert{}, false
}
