package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/rangelog/internal/models"
)

var (
	glock = &models.Firearm{ID: "g", Brand: "Glock", Model: "19", Caliber: "9mm"}
	ar15  = &models.Firearm{ID: "a", Brand: "Colt", Model: "6920", Caliber: "5.56"}
	ruger = &models.Firearm{ID: "r", Brand: "Ruger", Model: "10/22", Caliber: ".22LR"}
)

func session(id string, start time.Time, runs ...*models.Run) *models.Session {
	s := &models.Session{ID: id, StartedAt: start}
	for _, r := range runs {
		r.SessionID = id
		s.Runs = append(s.Runs, r)
	}
	return s
}

func run(f *models.Firearm, rounds, malfunctions int, start time.Time, length time.Duration) *models.Run {
	r := &models.Run{
		FirearmID:        f.ID,
		Firearm:          f,
		Rounds:           rounds,
		MalfunctionTotal: malfunctions,
		StartedAt:        start,
	}
	if length > 0 {
		end := start.Add(length)
		r.EndedAt = &end
	}
	return r
}

func TestFilterByRange_Last7DaysBoundary(t *testing.T) {
	now := time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC)
	cutoff := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)

	atCutoff := session("at", cutoff)
	justBefore := session("before", cutoff.Add(-time.Second))
	today := session("today", now)

	got := FilterByRange([]*models.Session{justBefore, atCutoff, today}, Last7Days, now)
	require.Len(t, got, 2)
	assert.Equal(t, "at", got[0].ID)
	assert.Equal(t, "today", got[1].ID)
}

func TestFilterByRange_Cutoffs(t *testing.T) {
	now := time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)
	tests := []struct {
		r    Range
		want time.Time
	}{
		{Last7Days, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)},
		{Last30Days, time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)},
		{Last90Days, time.Date(2023, 12, 17, 0, 0, 0, 0, time.UTC)},
		{YearToDate, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(string(tt.r), func(t *testing.T) {
			got, ok := tt.r.Cutoff(now)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := AllTime.Cutoff(now)
	assert.False(t, ok)
}

func TestFilterByRange_AllTimeUnchanged(t *testing.T) {
	now := time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)
	in := []*models.Session{session("old", now.AddDate(-5, 0, 0)), session("new", now)}
	assert.Equal(t, in, FilterByRange(in, AllTime, now))
}

func TestRange_Extended(t *testing.T) {
	assert.False(t, Last7Days.Extended())
	assert.False(t, Last30Days.Extended())
	assert.True(t, Last90Days.Extended())
	assert.True(t, YearToDate.Extended())
	assert.True(t, AllTime.Extended())
	assert.Equal(t, "Year to date", YearToDate.Label())
}

func TestTotals_Empty(t *testing.T) {
	sum := Totals(nil)
	assert.Equal(t, 0, sum.Rounds)
	assert.Equal(t, 0, sum.Malfunctions)
	assert.Equal(t, time.Duration(0), sum.Duration)
	assert.Equal(t, 0.0, sum.MalfunctionsPer1000())
}

func TestTotals_SumsEveryRun(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	sessions := []*models.Session{
		session("s1", t0,
			run(glock, 150, 2, t0, 20*time.Minute),
			run(ar15, 90, 1, t0.Add(30*time.Minute), 15*time.Minute),
		),
		session("s2", t0.AddDate(0, 0, 3),
			run(glock, 260, 0, t0.AddDate(0, 0, 3), 0), // still open
		),
	}

	sum := Totals(sessions)
	assert.Equal(t, 2, sum.Sessions)
	assert.Equal(t, 3, sum.Runs)
	assert.Equal(t, 500, sum.Rounds)
	assert.Equal(t, 3, sum.Malfunctions)
	assert.Equal(t, 35*time.Minute, sum.Duration)
	assert.InDelta(t, 6.0, sum.MalfunctionsPer1000(), 1e-9)
}

func TestRoundsByDay_SparseAndSorted(t *testing.T) {
	d1 := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	d1Later := time.Date(2024, 3, 4, 19, 0, 0, 0, time.UTC)
	d3 := time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC)

	sessions := []*models.Session{
		session("c", d3, run(glock, 30, 0, d3, time.Minute)),
		session("a", d1, run(glock, 50, 0, d1, time.Minute)),
		session("b", d1Later, run(ar15, 20, 0, d1Later, time.Minute), run(glock, 5, 0, d1Later, time.Minute)),
		session("empty", d1.AddDate(0, 0, 1)),
	}

	got := RoundsByDay(sessions)
	require.Len(t, got, 2, "days without rounds are omitted")
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), got[0].Start)
	assert.Equal(t, 75, got[0].Rounds)
	assert.Equal(t, time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC), got[1].Start)
	assert.Equal(t, 30, got[1].Rounds)
}

func TestRoundsByWeek_MondayBuckets(t *testing.T) {
	sunday := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC) // ISO week 10
	monday := time.Date(2024, 3, 11, 12, 0, 0, 0, time.UTC) // ISO week 11
	wednesday := time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC)

	sessions := []*models.Session{
		session("w", wednesday, run(glock, 10, 0, wednesday, time.Minute)),
		session("m", monday, run(glock, 20, 0, monday, time.Minute)),
		session("s", sunday, run(glock, 40, 0, sunday, time.Minute)),
	}

	got := RoundsByWeek(sessions)
	require.Len(t, got, 2)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), got[0].Start)
	assert.Equal(t, 40, got[0].Rounds)
	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), got[1].Start)
	assert.Equal(t, 30, got[1].Rounds)
}

func TestRoundsByWeek_AcrossYearBoundary(t *testing.T) {
	dec31 := time.Date(2024, 12, 31, 12, 0, 0, 0, time.UTC) // Tuesday, ISO week 1 of 2025
	jan2 := time.Date(2025, 1, 2, 12, 0, 0, 0, time.UTC)

	got := RoundsByWeek([]*models.Session{
		session("a", dec31, run(glock, 10, 0, dec31, time.Minute)),
		session("b", jan2, run(glock, 15, 0, jan2, time.Minute)),
	})
	require.Len(t, got, 1)
	assert.Equal(t, time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC), got[0].Start)
	assert.Equal(t, 25, got[0].Rounds)
}

func TestTopByRounds(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	sessions := []*models.Session{
		session("s1", t0,
			run(ruger, 100, 0, t0, time.Minute),
			run(glock, 100, 0, t0, time.Minute),
			run(ar15, 300, 0, t0, time.Minute),
		),
		session("s2", t0.AddDate(0, 0, 1),
			run(glock, 50, 0, t0, time.Minute),
			run(ruger, 50, 0, t0, time.Minute),
		),
	}

	got := TopByRounds(sessions, 2)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].FirearmID)
	assert.Equal(t, 300, got[0].Rounds)
	assert.Equal(t, "r", got[1].FirearmID, "ties keep first-seen order")
	assert.Equal(t, 150, got[1].Rounds)
	assert.Equal(t, "Colt 6920 (5.56)", got[0].Name)

	all := TopByRounds(sessions, 0)
	assert.Len(t, all, 3)
	assert.Empty(t, TopByRounds(nil, 5))
}

func TestMalfunctionsByKind(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	r1 := run(glock, 100, 3, t0, time.Minute)
	r1.Malfunctions = []*models.MalfunctionTally{
		{Kind: models.MalfunctionStovepipe, Count: 1},
		{Kind: models.MalfunctionLightStrike, Count: 2},
	}
	r2 := run(ar15, 100, 2, t0, time.Minute)
	r2.Malfunctions = []*models.MalfunctionTally{
		{Kind: models.MalfunctionStovepipe, Count: 2},
		{Kind: models.MalfunctionDoubleFeed, Count: 0},
	}

	got := MalfunctionsByKind([]*models.Session{session("s", t0, r1, r2)})
	require.Len(t, got, 2)
	assert.Equal(t, KindCount{Kind: models.MalfunctionStovepipe, Count: 3}, got[0])
	assert.Equal(t, KindCount{Kind: models.MalfunctionLightStrike, Count: 2}, got[1])
}

func TestBuildReport(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	recent := now.AddDate(0, 0, -2)
	old := now.AddDate(0, -2, 0)
	sessions := []*models.Session{
		session("old", old, run(glock, 1000, 10, old, time.Hour)),
		session("recent", recent, run(glock, 200, 1, recent, time.Hour)),
	}

	report := BuildReport(sessions, Last7Days, now, 5)
	assert.Equal(t, Last7Days, report.Range)
	assert.Equal(t, 200, report.Summary.Rounds)
	assert.InDelta(t, 5.0, report.Per1000, 1e-9)
	require.Len(t, report.ByDay, 1)
	require.Len(t, report.TopFirearms, 1)
	assert.Equal(t, 200, report.TopFirearms[0].Rounds)
}
