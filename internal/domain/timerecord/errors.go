package timerecord

import "errors"

// Timeclock domain errors
var (
	// Check-in / absence errors
	ErrDuplicateRecord   = errors.New("a time record already exists for this day")
	ErrCheckInNotAllowed = errors.New("check-in is not allowed right now")
	ErrAbsenceNotAllowed = errors.New("worker already has a time record for today")

	// General errors
	ErrRecordNotFound = errors.New("time record not found")
)
