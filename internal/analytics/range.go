// Package analytics aggregates sessions and runs for charts and summaries.
// Everything here is a pure function over a snapshot; nothing is cached
// because the graph can change between calls.
package analytics

import (
	"time"

	"github.com/balkashynov/rangelog/internal/models"
)

// Range is a reporting window ending today
type Range string

const (
	Last7Days  Range = "7d"
	Last30Days Range = "30d"
	Last90Days Range = "90d"
	YearToDate Range = "ytd"
	AllTime    Range = "all"
)

// Ranges lists every range in display order
func Ranges() []Range {
	return []Range{Last7Days, Last30Days, Last90Days, YearToDate, AllTime}
}

var rangeLabels = map[Range]string{
	Last7Days:  "Last 7 days",
	Last30Days: "Last 30 days",
	Last90Days: "Last 90 days",
	YearToDate: "Year to date",
	AllTime:    "All time",
}

// Label returns the human readable name
func (r Range) Label() string {
	if l, ok := rangeLabels[r]; ok {
		return l
	}
	return string(r)
}

// Extended reports whether the range reaches further back than 30 days
func (r Range) Extended() bool {
	switch r {
	case Last7Days, Last30Days:
		return false
	default:
		return true
	}
}

// Cutoff returns the first instant inside the range. The day-based ranges
// count today as their first day. ok is false for AllTime and unknown ranges.
func (r Range) Cutoff(now time.Time) (cutoff time.Time, ok bool) {
	y, m, d := now.Date()
	loc := now.Location()
	switch r {
	case Last7Days:
		return time.Date(y, m, d-6, 0, 0, 0, 0, loc), true
	case Last30Days:
		return time.Date(y, m, d-29, 0, 0, 0, 0, loc), true
	case Last90Days:
		return time.Date(y, m, d-89, 0, 0, 0, 0, loc), true
	case YearToDate:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, loc), true
	default:
		return time.Time{}, false
	}
}

// FilterByRange keeps sessions that started at or after the range cutoff.
// AllTime returns the input unchanged.
func FilterByRange(sessions []*models.Session, r Range, now time.Time) []*models.Session {
	cutoff, ok := r.Cutoff(now)
	if !ok {
		return sessions
	}
	out := make([]*models.Session, 0, len(sessions))
	for _, s := range sessions {
		if !s.StartedAt.Before(cutoff) {
			out = append(out, s)
		}
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// startOfWeek returns the Monday that opens t's ISO week
func startOfWeek(t time.Time) time.Time {
	y, m, d := t.Date()
	offset := (int(t.Weekday()) + 6) % 7
	return time.Date(y, m, d-offset, 0, 0, 0, 0, t.Location())
}
