package worker

import (
	"time"
)

type Worker struct {
	ID        string
	FullName  string
	Email     string
	Position  *string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
