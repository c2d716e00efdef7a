package alerts

import "slices"

// SortByPriority orders urgent alerts before informational ones in place.
// Alerts of the same type keep their relative order.
func SortByPriority(alerts []*Alert) {
	slices.SortStableFunc(alerts, func(a, b *Alert) int {
		return priorityRank(a.Type) - priorityRank(b.Type)
	})
}

// priorityRank puts anything that is not urgent in the informational bucket.
func priorityRank(t Type) int {
	if t == TypeUrgent {
		return 0
	}
	return 1
}
