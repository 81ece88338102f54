package observability

import (
	"fmt"
	"sort"
	"time"
)

// DefaultTrendWindowDays is the trailing window used when none is given.
const DefaultTrendWindowDays = 7

// CalculateTrend classifies the generic data.value samples of metricName
// within the windowDays ending at now. The samples are split at the midpoint,
// with the later half taking the extra element on odd counts, and the half
// means are compared with a 5% band.
//
// The split index is floor(n/2), so three samples compare [a] with [b, c],
// not [a, b] with [c].
func CalculateTrend(events []Event, metricName string, windowDays int, now time.Time) (Trend, error) {
	start := now.AddDate(0, 0, -windowDays)
	matched, err := Filter(events, EventFilter{MetricName: metricName, Start: &start, End: &now})
	if err != nil {
		return TrendAbsent, fmt.Errorf("calculating %s trend: %w", metricName, err)
	}
	if len(matched) < 2 {
		return TrendAbsent, nil
	}

	// Filter already proved every timestamp parses.
	instants := make([]time.Time, len(matched))
	for i, e := range matched {
		instants[i], _ = ParseTimestamp(e.Timestamp)
	}
	order := make([]int, len(matched))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return instants[order[a]].Before(instants[order[b]])
	})

	mid := len(order) / 2
	first := meanValue(matched, order[:mid])
	second := meanValue(matched, order[mid:])

	switch {
	case second > first*1.05:
		return TrendImproving, nil
	case second < first*0.95:
		return TrendDeclining, nil
	default:
		return TrendStable, nil
	}
}

func meanValue(events []Event, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	var sum float64
	for _, i := range idx {
		sum += events[i].Value
	}
	return sum / float64(len(idx))
}
