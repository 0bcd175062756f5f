package analytics

import (
	"sort"
	"time"

	"github.com/balkashynov/rangelog/internal/models"
)

// Summary totals a set of sessions
type Summary struct {
	Sessions     int           `json:"sessions"`
	Runs         int           `json:"runs"`
	Rounds       int           `json:"rounds"`
	Malfunctions int           `json:"malfunctions"`
	Duration     time.Duration `json:"duration"`
}

// MalfunctionsPer1000 is the malfunction rate per thousand rounds, zero when
// no rounds were fired
func (s Summary) MalfunctionsPer1000() float64 {
	if s.Rounds <= 0 {
		return 0
	}
	return float64(s.Malfunctions) / float64(s.Rounds) * 1000
}

// Totals sums rounds, malfunctions and closed run time across every run
func Totals(sessions []*models.Session) Summary {
	var sum Summary
	for _, s := range sessions {
		sum.Sessions++
		for _, r := range s.Runs {
			sum.Runs++
			sum.Rounds += r.Rounds
			sum.Malfunctions += r.MalfunctionTotal
			sum.Duration += r.Duration()
		}
	}
	return sum
}

// Bucket is the rounds fired in one calendar day or week
type Bucket struct {
	Start  time.Time `json:"start"`
	Rounds int       `json:"rounds"`
}

// RoundsByDay groups rounds by the calendar day each session started.
// Days without activity are absent, not zero.
func RoundsByDay(sessions []*models.Session) []Bucket {
	return bucketRounds(sessions, startOfDay)
}

// RoundsByWeek groups rounds by the ISO week (Monday start) each session
// started. Weeks without activity are absent, not zero.
func RoundsByWeek(sessions []*models.Session) []Bucket {
	return bucketRounds(sessions, startOfWeek)
}

func bucketRounds(sessions []*models.Session, keyOf func(time.Time) time.Time) []Bucket {
	acc := make(map[int64]*Bucket)
	for _, s := range sessions {
		start := keyOf(s.StartedAt)
		b, ok := acc[start.Unix()]
		if !ok {
			b = &Bucket{Start: start}
			acc[start.Unix()] = b
		}
		for _, r := range s.Runs {
			b.Rounds += r.Rounds
		}
	}

	out := make([]Bucket, 0, len(acc))
	for _, b := range acc {
		if b.Rounds > 0 {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

// FirearmRounds is one entry of the most-used ranking
type FirearmRounds struct {
	FirearmID string `json:"firearm_id"`
	Name      string `json:"name"`
	Rounds    int    `json:"rounds"`
}

// TopByRounds ranks firearms by rounds fired in the given sessions, most
// first. Ties keep the order firearms were first seen in. limit <= 0 returns
// the whole ranking.
func TopByRounds(sessions []*models.Session, limit int) []FirearmRounds {
	index := make(map[string]int)
	var out []FirearmRounds
	for _, s := range sessions {
		for _, r := range s.Runs {
			i, ok := index[r.FirearmID]
			if !ok {
				i = len(out)
				index[r.FirearmID] = i
				name := r.FirearmID
				if r.Firearm != nil {
					name = r.Firearm.DisplayName()
				}
				out = append(out, FirearmRounds{FirearmID: r.FirearmID, Name: name})
			}
			out[i].Rounds += r.Rounds
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Rounds > out[j].Rounds })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// KindCount is the total for one malfunction kind
type KindCount struct {
	Kind  models.MalfunctionKind `json:"kind"`
	Count int                    `json:"count"`
}

// MalfunctionsByKind totals tallies per kind, most frequent first. Kinds that
// never occurred are omitted.
func MalfunctionsByKind(sessions []*models.Session) []KindCount {
	acc := make(map[models.MalfunctionKind]int)
	for _, s := range sessions {
		for _, r := range s.Runs {
			for _, t := range r.Malfunctions {
				acc[t.Kind] += t.Count
			}
		}
	}

	var out []KindCount
	for _, kind := range models.MalfunctionKinds() {
		if n := acc[kind]; n > 0 {
			out = append(out, KindCount{Kind: kind, Count: n})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// Report bundles everything the stats screen shows for one range
type Report struct {
	Range        Range           `json:"range"`
	Summary      Summary         `json:"summary"`
	Per1000      float64         `json:"malfunctions_per_1000"`
	ByDay        []Bucket        `json:"by_day"`
	ByWeek       []Bucket        `json:"by_week"`
	TopFirearms  []FirearmRounds `json:"top_firearms"`
	Malfunctions []KindCount     `json:"malfunctions"`
}

// BuildReport filters sessions to r and runs every aggregation over the result
func BuildReport(sessions []*models.Session, r Range, now time.Time, top int) Report {
	filtered := FilterByRange(sessions, r, now)
	summary := Totals(filtered)
	return Report{
		Range:        r,
		Summary:      summary,
		Per1000:      summary.MalfunctionsPer1000(),
		ByDay:        RoundsByDay(filtered),
		ByWeek:       RoundsByWeek(filtered),
		TopFirearms:  TopByRounds(filtered, top),
		Malfunctions: MalfunctionsByKind(filtered),
	}
}
