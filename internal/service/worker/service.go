package worker

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/staffdesk/timeclock-backend-go/internal/domain/worker"
	"github.com/staffdesk/timeclock-backend-go/internal/pkg/database"
	"github.com/staffdesk/timeclock-backend-go/internal/repository/postgresql"
)

type WorkerServiceImpl struct {
	db *database.DB
	worker.WorkerRepository
}

func NewWorkerService(db *database.DB, workerRepo worker.WorkerRepository) worker.WorkerService {
	return &WorkerServiceImpl{
		db:               db,
		WorkerRepository: workerRepo,
	}
}

func mapWorkerToResponse(w worker.Worker) worker.WorkerResponse {
	return worker.WorkerResponse{
		ID:        w.ID,
		FullName:  w.FullName,
		Email:     w.Email,
		Position:  w.Position,
		IsActive:  w.IsActive,
		CreatedAt: w.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt: w.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

// Create implements worker.WorkerService.
func (s *WorkerServiceImpl) Create(ctx context.Context, req worker.CreateWorkerRequest) (worker.WorkerResponse, error) {
	if err := req.Validate(); err != nil {
		return worker.WorkerResponse{}, err
	}

	created, err := s.WorkerRepository.Create(ctx, worker.Worker{
		FullName: req.FullName,
		Email:    req.Email,
		Position: req.Position,
		IsActive: true,
	})
	if err != nil {
		return worker.WorkerResponse{}, err
	}

	return mapWorkerToResponse(created), nil
}

// Get implements worker.WorkerService.
func (s *WorkerServiceImpl) Get(ctx context.Context, id string) (worker.WorkerResponse, error) {
	w, err := s.WorkerRepository.GetByID(ctx, id)
	if err != nil {
		return worker.WorkerResponse{}, err
	}

	return mapWorkerToResponse(w), nil
}

// Update implements worker.WorkerService.
// Read-modify-write runs inside a transaction so concurrent edits cannot
// interleave between the read and the write.
func (s *WorkerServiceImpl) Update(ctx context.Context, req worker.UpdateWorkerRequest) (worker.WorkerResponse, error) {
	if err := req.Validate(); err != nil {
		return worker.WorkerResponse{}, err
	}

	var updated worker.Worker
	err := postgresql.WithTransaction(ctx, s.db, func(txCtx context.Context) error {
		w, err := s.WorkerRepository.GetByID(txCtx, req.ID)
		if err != nil {
			return err
		}

		if req.FullName != nil {
			w.FullName = *req.FullName
		}
		if req.Email != nil {
			w.Email = *req.Email
		}
		if req.Position != nil {
			w.Position = req.Position
		}
		if req.IsActive != nil {
			w.IsActive = *req.IsActive
		}

		if err := s.WorkerRepository.Update(txCtx, w); err != nil {
			return err
		}

		w.UpdatedAt = time.Now()
		updated = w
		return nil
	})
	if err != nil {
		return worker.WorkerResponse{}, err
	}

	return mapWorkerToResponse(updated), nil
}

// Delete implements worker.WorkerService.
func (s *WorkerServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.WorkerRepository.Delete(ctx, id); err != nil {
		return err
	}
	return nil
}

// List implements worker.WorkerService.
func (s *WorkerServiceImpl) List(ctx context.Context, filter worker.WorkerFilter) (worker.ListWorkersResponse, error) {
	if err := filter.Validate(); err != nil {
		return worker.ListWorkersResponse{}, err
	}

	workers, total, err := s.WorkerRepository.List(ctx, filter)
	if err != nil {
		return worker.ListWorkersResponse{}, fmt.Errorf("failed to list workers: %w", err)
	}

	responses := make([]worker.WorkerResponse, 0, len(workers))
	for _, w := range workers {
		responses = append(responses, mapWorkerToResponse(w))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))

	return worker.ListWorkersResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Workers:    responses,
	}, nil
}
