package observability

import (
	"fmt"
	"sort"
	"strings"
)

// Counter tallies occurrences per label. The zero value is not usable; use
// NewCounter. Output order never depends on insertion order.
type Counter map[string]int

// NewCounter returns an empty Counter.
func NewCounter() Counter {
	return make(Counter)
}

// Inc adds one occurrence of label.
func (c Counter) Inc(label string) {
	c[label]++
}

// Total returns the sum of all counts.
func (c Counter) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// LabelCount is one entry of a Counter.
type LabelCount struct {
	Label string
	Count int
}

// MostCommon lists entries by descending count, ties broken by label.
func (c Counter) MostCommon() []LabelCount {
	out := make([]LabelCount, 0, len(c))
	for label, count := range c {
		out = append(out, LabelCount{Label: label, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// String renders the counter as {label: n, ...} in MostCommon order.
func (c Counter) String() string {
	entries := c.MostCommon()
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = fmt.Sprintf("%s: %d", e.Label, e.Count)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
