package response

import (
	"errors"
	"net/http"

	"github.com/staffdesk/timeclock-backend-go/internal/domain/timerecord"
	"github.com/staffdesk/timeclock-backend-go/internal/domain/worker"
	"github.com/staffdesk/timeclock-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Timeclock domain errors
	switch {
	case errors.Is(err, timerecord.ErrDuplicateRecord):
		Conflict(w, "A time record already exists for this day")
	case errors.Is(err, timerecord.ErrCheckInNotAllowed):
		BadRequest(w, "Check-in is not allowed right now", nil)
	case errors.Is(err, timerecord.ErrAbsenceNotAllowed):
		BadRequest(w, "Worker already has a time record for today", nil)
	case errors.Is(err, timerecord.ErrRecordNotFound):
		NotFound(w, "Time record not found")

	// Worker domain errors
	case errors.Is(err, worker.ErrWorkerNotFound):
		NotFound(w, "Worker not found")
	case errors.Is(err, worker.ErrWorkerInactive):
		Forbidden(w, "Worker account is inactive")
	case errors.Is(err, worker.ErrEmailExists):
		Conflict(w, "Email already registered")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
