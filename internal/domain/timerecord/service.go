package timerecord

import (
	"context"
)

// TimeclockService defines business logic for the daily attendance cycle.
// Worker identity comes from the access token claims in ctx.
type TimeclockService interface {
	// Status derives the current attendance state and permitted actions
	Status(ctx context.Context) (StatusResponse, error)

	// CheckIn opens today's record, or amends a pure absence into a late arrival
	CheckIn(ctx context.Context) (TimeRecordResponse, error)

	// CheckOut closes the open record; an open record left over from an earlier
	// day is closed at the end of that day and a second record covers today
	CheckOut(ctx context.Context) ([]TimeRecordResponse, error)

	// MarkAbsent records a pure absence for today
	MarkAbsent(ctx context.Context) (TimeRecordResponse, error)

	// History groups a worker's records by calendar day, newest day first
	History(ctx context.Context, filter HistoryFilter) (HistoryResponse, error)
}
