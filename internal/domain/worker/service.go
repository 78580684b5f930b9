package worker

import (
	"context"
)

// WorkerService defines business logic for worker directory operations.
type WorkerService interface {
	Create(ctx context.Context, req CreateWorkerRequest) (WorkerResponse, error)

	Get(ctx context.Context, id string) (WorkerResponse, error)

	Update(ctx context.Context, req UpdateWorkerRequest) (WorkerResponse, error)

	Delete(ctx context.Context, id string) error

	List(ctx context.Context, filter WorkerFilter) (ListWorkersResponse, error)
}
