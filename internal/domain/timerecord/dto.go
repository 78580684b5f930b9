package timerecord

import (
	"github.com/staffdesk/timeclock-backend-go/internal/pkg/validator"
)

// ========================================
// TIMECLOCK DTOs
// ========================================

type TimeRecordResponse struct {
	ID        string  `json:"id"`
	WorkerID  string  `json:"worker_id"`
	Date      string  `json:"date"`
	EntryTime *string `json:"entry_time,omitempty"`
	LeaveTime *string `json:"leave_time,omitempty"`
	IsAbsent  bool    `json:"is_absent"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

// StatusResponse is what the timeclock UI binds its buttons to.
type StatusResponse struct {
	Status        string              `json:"status"`
	IsToday       bool                `json:"is_today"`
	CanCheckIn    bool                `json:"can_check_in"`
	CanCheckOut   bool                `json:"can_check_out"`
	CanMarkAbsent bool                `json:"can_mark_absent"`
	LastRecord    *TimeRecordResponse `json:"last_record,omitempty"`
}

type DayGroupResponse struct {
	Day     string               `json:"day"`
	Records []TimeRecordResponse `json:"records"`
}

type HistoryFilter struct {
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD
}

func (f *HistoryFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.StartDate != nil && *f.StartDate != "" {
		if _, ok := validator.IsValidDate(*f.StartDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.EndDate != nil && *f.EndDate != "" {
		if _, ok := validator.IsValidDate(*f.EndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.StartDate != nil && f.EndDate != nil && *f.StartDate != "" && *f.EndDate != "" {
		start, _ := validator.IsValidDate(*f.StartDate)
		end, _ := validator.IsValidDate(*f.EndDate)
		if end.Before(start) {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must not be before start_date",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type HistoryResponse struct {
	Days []DayGroupResponse `json:"days"`
}
