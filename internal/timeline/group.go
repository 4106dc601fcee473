// Package timeline partitions chronologically ordered records into
// calendar-day buckets for display.
package timeline

import "time"

// Group is a contiguous run of records sharing one calendar day.
type Group[T any] struct {
	Label string    `json:"label"`
	Date  time.Time `json:"date"`
	Items []T       `json:"items"`
}

// GroupByDay partitions items into contiguous same-day groups, preserving
// chronological order across and within groups. Pure function; empty input
// produces zero groups.
func GroupByDay[T any](items []T, at func(T) time.Time, now time.Time) []Group[T] {
	var groups []Group[T]
	for _, it := range items {
		ts := at(it)
		if n := len(groups); n > 0 && SameDay(groups[n-1].Date, ts) {
			groups[n-1].Items = append(groups[n-1].Items, it)
			continue
		}
		groups = append(groups, Group[T]{
			Label: DayLabel(ts, now),
			Date:  ts,
			Items: []T{it},
		})
	}
	return groups
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// DayLabel renders a day header, with "Today" and "Yesterday" relative to
// now and a long date for anything older.
func DayLabel(ts, now time.Time) string {
	switch {
	case SameDay(ts, now):
		return "Today"
	case SameDay(ts, now.AddDate(0, 0, -1)):
		return "Yesterday"
	default:
		return ts.Format("January 2, 2006")
	}
}
