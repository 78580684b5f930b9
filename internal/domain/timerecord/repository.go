package timerecord

import (
	"context"
	"time"
)

// TimeRecordRepository defines data access methods for time records.
// The backing store enforces one record per worker per calendar day; Create
// returns ErrDuplicateRecord when that constraint rejects the insert, which
// is how the loser of a concurrent check-in race finds out.
type TimeRecordRepository interface {
	// Create inserts a new time record
	Create(ctx context.Context, record TimeRecord) (TimeRecord, error)

	// Update rewrites the mutable columns (entry_time, leave_time) of a record
	Update(ctx context.Context, record TimeRecord) (TimeRecord, error)

	// GetByID retrieves a record by ID
	GetByID(ctx context.Context, id string) (TimeRecord, error)

	// GetByWorkerAndDate retrieves the record for a worker on a logical day,
	// nil when none exists. Used to gate check-in and mark-absent.
	GetByWorkerAndDate(ctx context.Context, workerID string, day time.Time) (*TimeRecord, error)

	// GetOpenRecord retrieves the most recent record with an entry time and no
	// leave time on a non-absent day, nil when the worker is not clocked in.
	GetOpenRecord(ctx context.Context, workerID string) (*TimeRecord, error)

	// ListByWorker retrieves records whose logical date falls inside the
	// inclusive window, newest first
	ListByWorker(ctx context.Context, workerID string, from, to time.Time) ([]TimeRecord, error)
}
