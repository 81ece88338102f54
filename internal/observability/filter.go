package observability

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidTimestamp is returned when an event's timestamp cannot be parsed
// while a date bound is active.
var ErrInvalidTimestamp = errors.New("invalid event timestamp")

// EventFilter specifies criteria for selecting events. Zero-valued fields
// are inactive; active fields are combined with AND.
type EventFilter struct {
	MetricName string
	AgentName  string
	SessionID  string
	// Start and End are inclusive bounds.
	Start *time.Time
	End   *time.Time
}

// timestampLayouts are tried in order. Layouts without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseTimestamp converts an ISO-8601 event timestamp into an instant.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidTimestamp)
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
}

// Filter returns a new slice holding the events that match f, in input order.
// The predicates run in order metric, agent, session, start, end. An event
// with an unparsable timestamp fails the whole call when a date bound is set.
func Filter(events []Event, f EventFilter) ([]Event, error) {
	out := make([]Event, 0, len(events))
	for _, e := range events {
		if f.MetricName != "" && e.MetricName != f.MetricName {
			continue
		}
		if f.AgentName != "" && e.AgentName != f.AgentName {
			continue
		}
		if f.SessionID != "" && e.SessionID != f.SessionID {
			continue
		}
		if f.Start != nil || f.End != nil {
			ts, err := ParseTimestamp(e.Timestamp)
			if err != nil {
				return nil, fmt.Errorf("filtering %s events: %w", e.MetricName, err)
			}
			if f.Start != nil && ts.Before(*f.Start) {
				continue
			}
			if f.End != nil && ts.After(*f.End) {
				continue
			}
		}
		out = append(out, e)
	}
	return out, nil
}

// ofMetric is Filter restricted to a metric name, which cannot fail.
func ofMetric(events []Event, metricName string) []Event {
	out, _ := Filter(events, EventFilter{MetricName: metricName})
	return out
}
