package timeclock

import (
	"math/rand"
	"testing"
	"time"

	"github.com/staffdesk/timeclock-backend-go/internal/domain/timerecord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tp(t time.Time) *time.Time {
	return &t
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestResolve_EmptyHistory(t *testing.T) {
	now := at(2024, 3, 1, 9, 0)

	state := Resolve(nil, now)

	assert.Nil(t, state.LastRecord)
	assert.False(t, state.IsToday)
	assert.Equal(t, StatusAbsent, state.Status)
	assert.True(t, state.CanCheckIn)
	assert.False(t, state.CanCheckOut)
	assert.True(t, state.CanMarkAbsent)
}

func TestResolve_LastRecordNotToday(t *testing.T) {
	now := at(2024, 3, 2, 9, 0)
	records := []timerecord.TimeRecord{
		{
			ID:        "r1",
			Date:      day(2024, 3, 1),
			EntryTime: tp(at(2024, 3, 1, 8, 0)),
			LeaveTime: tp(at(2024, 3, 1, 17, 0)),
		},
	}

	state := Resolve(records, now)

	assert.False(t, state.IsToday)
	assert.Equal(t, StatusAbsent, state.Status)
	assert.True(t, state.CanCheckIn)
	assert.False(t, state.CanCheckOut)
	assert.True(t, state.CanMarkAbsent)
}

func TestResolve_AbsenceMarkedToday(t *testing.T) {
	now := at(2024, 3, 1, 14, 0)
	records := []timerecord.TimeRecord{
		{ID: "r1", Date: day(2024, 3, 1), IsAbsent: true},
	}

	state := Resolve(records, now)

	assert.True(t, state.IsToday)
	assert.Equal(t, StatusAbsentMarked, state.Status)
	assert.True(t, state.CanCheckIn, "absence today must keep the late-arrival path open")
	assert.False(t, state.CanCheckOut)
	assert.False(t, state.CanMarkAbsent)
}

func TestResolve_LateArrivalToday(t *testing.T) {
	now := at(2024, 3, 1, 15, 0)
	records := []timerecord.TimeRecord{
		{
			ID:        "r1",
			Date:      day(2024, 3, 1),
			EntryTime: tp(at(2024, 3, 1, 14, 0)),
			IsAbsent:  true,
		},
	}

	state := Resolve(records, now)

	assert.True(t, state.IsToday)
	assert.Equal(t, StatusLate, state.Status)
	assert.False(t, state.CanCheckIn)
	assert.False(t, state.CanCheckOut)
	assert.False(t, state.CanMarkAbsent)
}

func TestResolve_OpenEntryToday(t *testing.T) {
	now := at(2024, 3, 1, 12, 0)
	records := []timerecord.TimeRecord{
		{
			ID:        "r1",
			Date:      day(2024, 3, 1),
			EntryTime: tp(at(2024, 3, 1, 8, 0)),
		},
	}

	state := Resolve(records, now)

	assert.True(t, state.IsToday)
	assert.Equal(t, StatusPresent, state.Status)
	assert.False(t, state.CanCheckIn)
	assert.True(t, state.CanCheckOut)
	assert.False(t, state.CanMarkAbsent)
}

func TestResolve_CompletedCycleToday(t *testing.T) {
	now := at(2024, 3, 1, 18, 0)
	records := []timerecord.TimeRecord{
		{
			ID:        "r1",
			Date:      day(2024, 3, 1),
			EntryTime: tp(at(2024, 3, 1, 8, 0)),
			LeaveTime: tp(at(2024, 3, 1, 17, 0)),
		},
	}

	state := Resolve(records, now)

	// A fully worked day reverts to the neutral label.
	assert.True(t, state.IsToday)
	assert.Equal(t, StatusAbsent, state.Status)
	assert.False(t, state.CanCheckIn)
	assert.False(t, state.CanCheckOut)
	assert.False(t, state.CanMarkAbsent)
}

func TestResolve_PicksMostRecentByEffectiveDate(t *testing.T) {
	now := at(2024, 3, 3, 9, 0)
	records := []timerecord.TimeRecord{
		{ID: "old", Date: day(2024, 3, 1), EntryTime: tp(at(2024, 3, 1, 8, 0)), LeaveTime: tp(at(2024, 3, 1, 17, 0))},
		{ID: "newest", Date: day(2024, 3, 3), EntryTime: tp(at(2024, 3, 3, 8, 0))},
		{ID: "mid", Date: day(2024, 3, 2), IsAbsent: true},
	}

	state := Resolve(records, now)

	require.NotNil(t, state.LastRecord)
	assert.Equal(t, "newest", state.LastRecord.ID)
	assert.Equal(t, StatusPresent, state.Status)
}

func TestResolve_EffectiveDateFallsBackToCreatedAt(t *testing.T) {
	// No entry time and no logical date: created_at decides the day.
	now := at(2024, 3, 1, 10, 0)
	records := []timerecord.TimeRecord{
		{ID: "r1", IsAbsent: true, CreatedAt: at(2024, 3, 1, 7, 0)},
	}

	state := Resolve(records, now)

	assert.True(t, state.IsToday)
	assert.Equal(t, StatusAbsentMarked, state.Status)
}

func TestResolve_DoesNotMutateInput(t *testing.T) {
	now := at(2024, 3, 1, 9, 0)
	records := []timerecord.TimeRecord{
		{ID: "b", Date: day(2024, 2, 28)},
		{ID: "a", Date: day(2024, 2, 27)},
	}

	_ = Resolve(records, now)

	assert.Equal(t, "b", records[0].ID)
	assert.Equal(t, "a", records[1].ID)
}

func TestSameCalendarDay(t *testing.T) {
	cases := []struct {
		name string
		a, b time.Time
		want bool
	}{
		{"same instant", at(2024, 3, 1, 9, 0), at(2024, 3, 1, 9, 0), true},
		{"same day different time", at(2024, 3, 1, 0, 0), at(2024, 3, 1, 23, 59), true},
		{"adjacent days", at(2024, 3, 1, 23, 59), at(2024, 3, 2, 0, 0), false},
		{"same day different year", at(2023, 3, 1, 9, 0), at(2024, 3, 1, 9, 0), false},
		{"same day different month", at(2024, 2, 1, 9, 0), at(2024, 3, 1, 9, 0), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, SameCalendarDay(c.a, c.b))
		})
	}
}

func TestGroupByDay_OrdersDaysMostRecentFirst(t *testing.T) {
	records := []timerecord.TimeRecord{
		{ID: "r1", Date: day(2024, 3, 1), EntryTime: tp(at(2024, 3, 1, 8, 0))},
		{ID: "r2", Date: day(2024, 3, 3), IsAbsent: true},
		{ID: "r3", Date: day(2024, 3, 2), EntryTime: tp(at(2024, 3, 2, 9, 0))},
	}

	groups := GroupByDay(records)

	require.Len(t, groups, 3)
	assert.Equal(t, day(2024, 3, 3), groups[0].Day)
	assert.Equal(t, day(2024, 3, 2), groups[1].Day)
	assert.Equal(t, day(2024, 3, 1), groups[2].Day)
}

func TestGroupByDay_StableUnderPermutation(t *testing.T) {
	records := []timerecord.TimeRecord{
		{ID: "r1", Date: day(2024, 3, 1), EntryTime: tp(at(2024, 3, 1, 8, 0))},
		{ID: "r2", Date: day(2024, 3, 1), EntryTime: tp(at(2024, 3, 1, 0, 0)), LeaveTime: tp(at(2024, 3, 1, 9, 0))},
		{ID: "r3", Date: day(2024, 3, 2), IsAbsent: true},
		{ID: "r4", Date: day(2024, 2, 28), CreatedAt: at(2024, 2, 28, 12, 0)},
	}

	want := GroupByDay(records)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := make([]timerecord.TimeRecord, len(records))
		copy(shuffled, records)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		assert.Equal(t, want, GroupByDay(shuffled))
	}
}

func TestGroupByDay_EffectiveDateDecidesBucket(t *testing.T) {
	// Entry time wins over the logical date field when they disagree.
	records := []timerecord.TimeRecord{
		{ID: "r1", Date: day(2024, 3, 1), EntryTime: tp(at(2024, 3, 2, 0, 0))},
	}

	groups := GroupByDay(records)

	require.Len(t, groups, 1)
	assert.Equal(t, day(2024, 3, 2), groups[0].Day)
}

func TestGroupByDay_Empty(t *testing.T) {
	assert.Empty(t, GroupByDay(nil))
}
