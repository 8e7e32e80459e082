package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/noah-isme/portal-go-api/internal/kv"
	"github.com/noah-isme/portal-go-api/internal/models"
)

// AssignmentRepository persists assignment records keyed by their own id.
type AssignmentRepository interface {
	Put(ctx context.Context, assignment models.Assignment) error
	Get(ctx context.Context, id string) (models.Assignment, bool, error)
	// GetMany resolves ids to records, skipping dangling ids.
	GetMany(ctx context.Context, ids []string) ([]models.Assignment, error)
	// ListAll scans the whole assignment: prefix. Students browse every
	// assignment system-wide, so there is no per-student index to consult.
	ListAll(ctx context.Context) ([]models.Assignment, error)
}

type assignmentRepository struct {
	store kv.Store
}

// NewAssignmentRepository builds a KV-backed assignment repository.
func NewAssignmentRepository(store kv.Store) AssignmentRepository {
	return &assignmentRepository{store: store}
}

func (r *assignmentRepository) Put(ctx context.Context, assignment models.Assignment) error {
	payload, err := json.Marshal(assignment)
	if err != nil {
		return fmt.Errorf("failed to encode assignment %s: %w", assignment.ID, err)
	}

	if err := r.store.Set(ctx, assignment.ID, payload); err != nil {
		return fmt.Errorf("failed to store assignment %s: %w", assignment.ID, err)
	}

	return nil
}

func (r *assignmentRepository) Get(ctx context.Context, id string) (models.Assignment, bool, error) {
	payload, exists, err := r.store.Get(ctx, id)
	if err != nil || !exists {
		return models.Assignment{}, false, err
	}

	var assignment models.Assignment
	if err := json.Unmarshal(payload, &assignment); err != nil {
		return models.Assignment{}, false, fmt.Errorf("failed to decode assignment %s: %w", id, err)
	}

	return assignment, true, nil
}

func (r *assignmentRepository) GetMany(ctx context.Context, ids []string) ([]models.Assignment, error) {
	assignments := make([]models.Assignment, 0, len(ids))
	for _, id := range ids {
		assignment, exists, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if !exists {
			continue
		}
		assignments = append(assignments, assignment)
	}

	return assignments, nil
}

func (r *assignmentRepository) ListAll(ctx context.Context) ([]models.Assignment, error) {
	payloads, err := r.store.GetByPrefix(ctx, kv.AssignmentPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to scan assignments: %w", err)
	}

	assignments := make([]models.Assignment, 0, len(payloads))
	for _, payload := range payloads {
		var assignment models.Assignment
		if err := json.Unmarshal(payload, &assignment); err != nil {
			return nil, fmt.Errorf("failed to decode assignment: %w", err)
		}
		assignments = append(assignments, assignment)
	}

	return assignments, nil
}
