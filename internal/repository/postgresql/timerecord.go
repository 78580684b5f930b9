package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/staffdesk/timeclock-backend-go/internal/domain/timerecord"
	"github.com/staffdesk/timeclock-backend-go/internal/pkg/database"
)

// uniqueViolation is the PostgreSQL error code for a unique constraint hit.
// The time_records table carries UNIQUE (worker_id, date), which is the
// store-side guard against two records for the same worker and day.
const uniqueViolation = "23505"

type timeRecordRepository struct {
	db *database.DB
}

func NewTimeRecordRepository(db *database.DB) timerecord.TimeRecordRepository {
	return &timeRecordRepository{db: db}
}

// Create implements timerecord.TimeRecordRepository.
func (r *timeRecordRepository) Create(ctx context.Context, newRecord timerecord.TimeRecord) (timerecord.TimeRecord, error) {
	q := GetQuerier(ctx, r.db)

	if newRecord.ID == "" {
		newRecord.ID = uuid.New().String()
	}

	query := `
		INSERT INTO time_records (
			id, worker_id, date, entry_time, leave_time, is_absent
		) VALUES (
			$1, $2, $3, $4, $5, $6
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		newRecord.ID,
		newRecord.WorkerID,
		newRecord.Date,
		newRecord.EntryTime,
		newRecord.LeaveTime,
		newRecord.IsAbsent,
	).Scan(&newRecord.CreatedAt, &newRecord.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return timerecord.TimeRecord{}, timerecord.ErrDuplicateRecord
		}
		return timerecord.TimeRecord{}, fmt.Errorf("failed to create time record: %w", err)
	}

	return newRecord, nil
}

// Update implements timerecord.TimeRecordRepository.
func (r *timeRecordRepository) Update(ctx context.Context, record timerecord.TimeRecord) (timerecord.TimeRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE time_records
		SET entry_time = $2,
			leave_time = $3,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := q.QueryRow(ctx, query, record.ID, record.EntryTime, record.LeaveTime).Scan(&record.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return timerecord.TimeRecord{}, timerecord.ErrRecordNotFound
		}
		return timerecord.TimeRecord{}, fmt.Errorf("failed to update time record: %w", err)
	}

	return record, nil
}

// GetByID implements timerecord.TimeRecordRepository.
func (r *timeRecordRepository) GetByID(ctx context.Context, id string) (timerecord.TimeRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, worker_id, date, entry_time, leave_time, is_absent, created_at, updated_at
		FROM time_records
		WHERE id = $1
	`

	var rec timerecord.TimeRecord
	err := q.QueryRow(ctx, query, id).Scan(
		&rec.ID, &rec.WorkerID, &rec.Date, &rec.EntryTime, &rec.LeaveTime,
		&rec.IsAbsent, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return timerecord.TimeRecord{}, timerecord.ErrRecordNotFound
		}
		return timerecord.TimeRecord{}, fmt.Errorf("failed to get time record by ID: %w", err)
	}

	return rec, nil
}

// GetByWorkerAndDate implements timerecord.TimeRecordRepository.
func (r *timeRecordRepository) GetByWorkerAndDate(ctx context.Context, workerID string, day time.Time) (*timerecord.TimeRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, worker_id, date, entry_time, leave_time, is_absent, created_at, updated_at
		FROM time_records
		WHERE worker_id = $1
		  AND date = $2
		LIMIT 1
	`

	var rec timerecord.TimeRecord
	err := q.QueryRow(ctx, query, workerID, day).Scan(
		&rec.ID, &rec.WorkerID, &rec.Date, &rec.EntryTime, &rec.LeaveTime,
		&rec.IsAbsent, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // No record for this day
		}
		return nil, fmt.Errorf("failed to get time record by worker and date: %w", err)
	}

	return &rec, nil
}

// GetOpenRecord implements timerecord.TimeRecordRepository.
func (r *timeRecordRepository) GetOpenRecord(ctx context.Context, workerID string) (*timerecord.TimeRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, worker_id, date, entry_time, leave_time, is_absent, created_at, updated_at
		FROM time_records
		WHERE worker_id = $1
		  AND entry_time IS NOT NULL
		  AND leave_time IS NULL
		  AND is_absent = false
		ORDER BY entry_time DESC
		LIMIT 1
	`

	var rec timerecord.TimeRecord
	err := q.QueryRow(ctx, query, workerID).Scan(
		&rec.ID, &rec.WorkerID, &rec.Date, &rec.EntryTime, &rec.LeaveTime,
		&rec.IsAbsent, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // Not clocked in
		}
		return nil, fmt.Errorf("failed to get open record: %w", err)
	}

	return &rec, nil
}

// ListByWorker implements timerecord.TimeRecordRepository.
func (r *timeRecordRepository) ListByWorker(ctx context.Context, workerID string, from, to time.Time) ([]timerecord.TimeRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, worker_id, date, entry_time, leave_time, is_absent, created_at, updated_at
		FROM time_records
		WHERE worker_id = $1
		  AND date BETWEEN $2 AND $3
		ORDER BY date DESC, entry_time DESC NULLS LAST, created_at DESC
	`

	rows, err := q.Query(ctx, query, workerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list time records: %w", err)
	}
	defer rows.Close()

	var records []timerecord.TimeRecord
	for rows.Next() {
		var rec timerecord.TimeRecord
		if err := rows.Scan(
			&rec.ID, &rec.WorkerID, &rec.Date, &rec.EntryTime, &rec.LeaveTime,
			&rec.IsAbsent, &rec.CreatedAt, &rec.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan time record: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate time records: %w", err)
	}

	return records, nil
}
