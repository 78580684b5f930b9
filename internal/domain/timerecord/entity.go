package timerecord

import (
	"time"
)

// Kind classifies a record by its field shape so callers never have to
// re-infer it from pointer presence.
type Kind int

const (
	// KindAbsence is a pure absence mark: is_absent set, no entry time.
	KindAbsence Kind = iota
	// KindLateArrival is an absence later amended with an entry time.
	KindLateArrival
	// KindOpenEntry is a normal clock-in without a clock-out yet.
	KindOpenEntry
	// KindClosedEntry is a completed clock-in/clock-out cycle.
	KindClosedEntry
)

type TimeRecord struct {
	ID        string
	WorkerID  string
	Date      time.Time
	EntryTime *time.Time
	LeaveTime *time.Time
	IsAbsent  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r TimeRecord) Kind() Kind {
	switch {
	case r.IsAbsent && r.EntryTime == nil:
		return KindAbsence
	case r.IsAbsent:
		return KindLateArrival
	case r.EntryTime != nil && r.LeaveTime == nil:
		return KindOpenEntry
	default:
		return KindClosedEntry
	}
}

// EffectiveDate is the calendar day a record is grouped under.
// Precedence: entry time, then the record's logical date, then created_at.
// Kept as a single function because sort order silently changes if any of
// these fields is backfilled inconsistently.
func (r TimeRecord) EffectiveDate() time.Time {
	if r.EntryTime != nil {
		return *r.EntryTime
	}
	if !r.Date.IsZero() {
		return r.Date
	}
	return r.CreatedAt
}

// Open reports whether the record represents a worker currently clocked in
// on a normal (non-absent) day.
func (r TimeRecord) Open() bool {
	return r.Kind() == KindOpenEntry
}
