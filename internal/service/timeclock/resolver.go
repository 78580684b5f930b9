package timeclock

import (
	"sort"
	"time"

	"github.com/staffdesk/timeclock-backend-go/internal/domain/timerecord"
)

// Status is the UI-facing attendance label for a worker's day.
type Status string

const (
	// StatusAbsent covers no history, no record for today, and a completed
	// entry/leave cycle. A fully worked day intentionally reverts to the
	// neutral label instead of a distinct "Done".
	StatusAbsent Status = "Absent"
	// StatusAbsentMarked is a pure absence recorded for today.
	StatusAbsentMarked Status = "Absent-Marked"
	// StatusLate is an absence amended with a late arrival.
	StatusLate Status = "Late"
	// StatusPresent is an open entry: the worker is currently clocked in.
	StatusPresent Status = "Present"
)

// DayState is the derived attendance state for a worker at a given instant.
// It is a pure function of the record snapshot, safe to recompute at will.
type DayState struct {
	LastRecord    *timerecord.TimeRecord
	IsToday       bool
	Status        Status
	CanCheckIn    bool
	CanCheckOut   bool
	CanMarkAbsent bool
}

// SameCalendarDay compares year, month and day components only. Each value
// is read in its own location; there is no timezone normalization.
func SameCalendarDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// lastRecord returns a copy of the record with the most recent effective
// date, or nil for an empty list.
func lastRecord(records []timerecord.TimeRecord) *timerecord.TimeRecord {
	var last *timerecord.TimeRecord
	for i := range records {
		if last == nil || records[i].EffectiveDate().After(last.EffectiveDate()) {
			rec := records[i]
			last = &rec
		}
	}
	return last
}

// Resolve derives the status label and the three action gates from a
// worker's record snapshot.
//
// Check-in is allowed when today has no record yet, or when today's record
// is a pure absence (the late-arrival path). Any other record for today
// blocks it: an open entry, a completed cycle, or a late arrival that is
// already running or closed. Check-out requires an open non-absent entry
// for today. Mark-absent is blocked as soon as any record exists for today,
// regardless of its shape.
func Resolve(records []timerecord.TimeRecord, now time.Time) DayState {
	last := lastRecord(records)

	if last == nil || !SameCalendarDay(now, last.EffectiveDate()) {
		return DayState{
			LastRecord:    last,
			Status:        StatusAbsent,
			CanCheckIn:    true,
			CanMarkAbsent: true,
		}
	}

	state := DayState{
		LastRecord: last,
		IsToday:    true,
	}

	switch last.Kind() {
	case timerecord.KindAbsence:
		state.Status = StatusAbsentMarked
		state.CanCheckIn = true
	case timerecord.KindLateArrival:
		state.Status = StatusLate
	case timerecord.KindOpenEntry:
		state.Status = StatusPresent
		state.CanCheckOut = true
	case timerecord.KindClosedEntry:
		state.Status = StatusAbsent
	}

	return state
}

// DayGroup is one calendar day of a worker's history.
type DayGroup struct {
	Day     time.Time
	Records []timerecord.TimeRecord
}

// GroupByDay buckets records by the calendar day of their effective date,
// most recent day first. Ordering inside a day is by effective date, with
// created_at and then id as tie-breakers, so the grouping is identical for
// any permutation of the input.
func GroupByDay(records []timerecord.TimeRecord) []DayGroup {
	buckets := make(map[string][]timerecord.TimeRecord)
	days := make(map[string]time.Time)

	for _, rec := range records {
		eff := rec.EffectiveDate()
		key := eff.Format("2006-01-02")
		buckets[key] = append(buckets[key], rec)
		if _, ok := days[key]; !ok {
			days[key] = time.Date(eff.Year(), eff.Month(), eff.Day(), 0, 0, 0, 0, eff.Location())
		}
	}

	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	groups := make([]DayGroup, 0, len(keys))
	for _, key := range keys {
		recs := buckets[key]
		sort.Slice(recs, func(i, j int) bool {
			a, b := recs[i], recs[j]
			if !a.EffectiveDate().Equal(b.EffectiveDate()) {
				return a.EffectiveDate().Before(b.EffectiveDate())
			}
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return a.ID < b.ID
		})
		groups = append(groups, DayGroup{Day: days[key], Records: recs})
	}

	return groups
}
