package worker

import (
	"context"
)

// WorkerRepository defines data access methods for the worker directory.
type WorkerRepository interface {
	Create(ctx context.Context, w Worker) (Worker, error)

	GetByID(ctx context.Context, id string) (Worker, error)

	Update(ctx context.Context, w Worker) error

	Delete(ctx context.Context, id string) error

	// List retrieves workers with optional name/email search and pagination
	List(ctx context.Context, filter WorkerFilter) ([]Worker, int64, error)
}
