package timeclock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/staffdesk/timeclock-backend-go/internal/domain/timerecord"
	"github.com/staffdesk/timeclock-backend-go/internal/domain/worker"
)

// statusWindowDays is how far back the status endpoint fetches records.
// The resolver only needs the most recent record; a week of slack covers
// workers who forgot to check out before a weekend.
const statusWindowDays = 7

// defaultHistoryDays is the history window when the filter gives no range.
const defaultHistoryDays = 30

type TimeclockServiceImpl struct {
	timerecord.TimeRecordRepository
	worker.WorkerRepository
}

func NewTimeclockService(
	recordRepo timerecord.TimeRecordRepository,
	workerRepo worker.WorkerRepository,
) timerecord.TimeclockService {
	return &TimeclockServiceImpl{
		TimeRecordRepository: recordRepo,
		WorkerRepository:     workerRepo,
	}
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format("2006-01-02 15:04:05")
	return &format
}

func mapRecordToResponse(rec timerecord.TimeRecord) timerecord.TimeRecordResponse {
	return timerecord.TimeRecordResponse{
		ID:        rec.ID,
		WorkerID:  rec.WorkerID,
		Date:      rec.Date.Format("2006-01-02"),
		EntryTime: timePtrToString(rec.EntryTime),
		LeaveTime: timePtrToString(rec.LeaveTime),
		IsAbsent:  rec.IsAbsent,
		CreatedAt: rec.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt: rec.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

func workerIDFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	workerID, ok := claims["worker_id"].(string)
	if !ok || workerID == "" {
		return "", fmt.Errorf("worker_id claim is missing or invalid")
	}

	return workerID, nil
}

// activeWorkerFromContext resolves the calling worker and rejects new
// records for unknown or deactivated accounts. Read-only operations skip
// this so a deactivated worker can still see their own history.
func (s *TimeclockServiceImpl) activeWorkerFromContext(ctx context.Context) (string, error) {
	workerID, err := workerIDFromContext(ctx)
	if err != nil {
		return "", err
	}

	w, err := s.WorkerRepository.GetByID(ctx, workerID)
	if err != nil {
		return "", err
	}
	if !w.IsActive {
		return "", worker.ErrWorkerInactive
	}

	return workerID, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// Status implements timerecord.TimeclockService.
func (s *TimeclockServiceImpl) Status(ctx context.Context) (timerecord.StatusResponse, error) {
	workerID, err := workerIDFromContext(ctx)
	if err != nil {
		return timerecord.StatusResponse{}, err
	}

	now := time.Now()
	records, err := s.TimeRecordRepository.ListByWorker(ctx, workerID, startOfDay(now).AddDate(0, 0, -statusWindowDays), endOfDay(now))
	if err != nil {
		return timerecord.StatusResponse{}, fmt.Errorf("failed to list time records: %w", err)
	}

	state := Resolve(records, now)

	resp := timerecord.StatusResponse{
		Status:        string(state.Status),
		IsToday:       state.IsToday,
		CanCheckIn:    state.CanCheckIn,
		CanCheckOut:   state.CanCheckOut,
		CanMarkAbsent: state.CanMarkAbsent,
	}
	if state.LastRecord != nil {
		mapped := mapRecordToResponse(*state.LastRecord)
		resp.LastRecord = &mapped
	}

	return resp, nil
}

// CheckIn implements timerecord.TimeclockService.
func (s *TimeclockServiceImpl) CheckIn(ctx context.Context) (timerecord.TimeRecordResponse, error) {
	workerID, err := s.activeWorkerFromContext(ctx)
	if err != nil {
		return timerecord.TimeRecordResponse{}, err
	}

	now := time.Now()
	today := startOfDay(now)

	existing, err := s.TimeRecordRepository.GetByWorkerAndDate(ctx, workerID, today)
	if err != nil {
		return timerecord.TimeRecordResponse{}, fmt.Errorf("failed to get today's record: %w", err)
	}

	if existing != nil {
		// An absence mark without an entry becomes a late arrival; the same
		// record is amended rather than creating a second one for the day.
		if existing.Kind() != timerecord.KindAbsence {
			return timerecord.TimeRecordResponse{}, timerecord.ErrCheckInNotAllowed
		}

		existing.EntryTime = &now
		updated, err := s.TimeRecordRepository.Update(ctx, *existing)
		if err != nil {
			return timerecord.TimeRecordResponse{}, fmt.Errorf("failed to amend absence with late arrival: %w", err)
		}
		return mapRecordToResponse(updated), nil
	}

	created, err := s.TimeRecordRepository.Create(ctx, timerecord.TimeRecord{
		WorkerID:  workerID,
		Date:      today,
		EntryTime: &now,
		IsAbsent:  false,
	})
	if err != nil {
		if errors.Is(err, timerecord.ErrDuplicateRecord) {
			// Lost a race against a concurrent check-in for the same day.
			return timerecord.TimeRecordResponse{}, timerecord.ErrDuplicateRecord
		}
		return timerecord.TimeRecordResponse{}, fmt.Errorf("failed to create time record: %w", err)
	}

	return mapRecordToResponse(created), nil
}

// CheckOut implements timerecord.TimeclockService.
func (s *TimeclockServiceImpl) CheckOut(ctx context.Context) ([]timerecord.TimeRecordResponse, error) {
	workerID, err := s.activeWorkerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	today := startOfDay(now)

	open, err := s.TimeRecordRepository.GetOpenRecord(ctx, workerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get open record: %w", err)
	}

	if open == nil {
		// Nothing open: record a same-instant in/out for today instead of
		// failing, so an operator mis-click still leaves an audit trail.
		created, err := s.TimeRecordRepository.Create(ctx, timerecord.TimeRecord{
			WorkerID:  workerID,
			Date:      today,
			EntryTime: &now,
			LeaveTime: &now,
			IsAbsent:  false,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create fallback record: %w", err)
		}
		return []timerecord.TimeRecordResponse{mapRecordToResponse(created)}, nil
	}

	entry := *open.EntryTime

	if SameCalendarDay(entry, now) {
		open.LeaveTime = &now
		updated, err := s.TimeRecordRepository.Update(ctx, *open)
		if err != nil {
			return nil, fmt.Errorf("failed to close time record: %w", err)
		}
		return []timerecord.TimeRecordResponse{mapRecordToResponse(updated)}, nil
	}

	// The worker never checked out before midnight. Close the stale record at
	// the end of its own entry day, then open and close a second record
	// spanning the start of today up to now.
	closeAt := endOfDay(entry)
	open.LeaveTime = &closeAt
	closed, err := s.TimeRecordRepository.Update(ctx, *open)
	if err != nil {
		return nil, fmt.Errorf("failed to close overnight record: %w", err)
	}

	entryToday := today
	created, err := s.TimeRecordRepository.Create(ctx, timerecord.TimeRecord{
		WorkerID:  workerID,
		Date:      today,
		EntryTime: &entryToday,
		LeaveTime: &now,
		IsAbsent:  false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create rollover record: %w", err)
	}

	return []timerecord.TimeRecordResponse{
		mapRecordToResponse(closed),
		mapRecordToResponse(created),
	}, nil
}

// MarkAbsent implements timerecord.TimeclockService.
func (s *TimeclockServiceImpl) MarkAbsent(ctx context.Context) (timerecord.TimeRecordResponse, error) {
	workerID, err := s.activeWorkerFromContext(ctx)
	if err != nil {
		return timerecord.TimeRecordResponse{}, err
	}

	now := time.Now()
	today := startOfDay(now)

	existing, err := s.TimeRecordRepository.GetByWorkerAndDate(ctx, workerID, today)
	if err != nil {
		return timerecord.TimeRecordResponse{}, fmt.Errorf("failed to get today's record: %w", err)
	}
	if existing != nil {
		return timerecord.TimeRecordResponse{}, timerecord.ErrAbsenceNotAllowed
	}

	created, err := s.TimeRecordRepository.Create(ctx, timerecord.TimeRecord{
		WorkerID: workerID,
		Date:     today,
		IsAbsent: true,
	})
	if err != nil {
		if errors.Is(err, timerecord.ErrDuplicateRecord) {
			return timerecord.TimeRecordResponse{}, timerecord.ErrDuplicateRecord
		}
		return timerecord.TimeRecordResponse{}, fmt.Errorf("failed to create absence record: %w", err)
	}

	return mapRecordToResponse(created), nil
}

// History implements timerecord.TimeclockService.
func (s *TimeclockServiceImpl) History(ctx context.Context, filter timerecord.HistoryFilter) (timerecord.HistoryResponse, error) {
	if err := filter.Validate(); err != nil {
		return timerecord.HistoryResponse{}, err
	}

	workerID, err := workerIDFromContext(ctx)
	if err != nil {
		return timerecord.HistoryResponse{}, err
	}

	now := time.Now()
	from := startOfDay(now).AddDate(0, 0, -defaultHistoryDays)
	to := endOfDay(now)

	if filter.StartDate != nil && *filter.StartDate != "" {
		parsed, _ := time.Parse("2006-01-02", *filter.StartDate)
		from = parsed
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		parsed, _ := time.Parse("2006-01-02", *filter.EndDate)
		to = endOfDay(parsed)
	}

	records, err := s.TimeRecordRepository.ListByWorker(ctx, workerID, from, to)
	if err != nil {
		return timerecord.HistoryResponse{}, fmt.Errorf("failed to list time records: %w", err)
	}

	groups := GroupByDay(records)

	days := make([]timerecord.DayGroupResponse, 0, len(groups))
	for _, group := range groups {
		recs := make([]timerecord.TimeRecordResponse, 0, len(group.Records))
		for _, rec := range group.Records {
			recs = append(recs, mapRecordToResponse(rec))
		}
		days = append(days, timerecord.DayGroupResponse{
			Day:     group.Day.Format("2006-01-02"),
			Records: recs,
		})
	}

	return timerecord.HistoryResponse{Days: days}, nil
}
