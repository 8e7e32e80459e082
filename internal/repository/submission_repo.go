package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/noah-isme/portal-go-api/internal/kv"
	"github.com/noah-isme/portal-go-api/internal/models"
)

// SubmissionRepository persists submissions at their deterministic keys.
// There is no secondary index for submissions: reads rely on prefix scans,
// trading index maintenance for O(n) scan cost.
type SubmissionRepository interface {
	Put(ctx context.Context, submission models.Submission) error
	Get(ctx context.Context, id string) (models.Submission, bool, error)
	ListByAssignment(ctx context.Context, assignmentID string) ([]models.Submission, error)
	CountByAssignment(ctx context.Context, assignmentID string) (int, error)
	ListAll(ctx context.Context) ([]models.Submission, error)
}

type submissionRepository struct {
	store kv.Store
}

// NewSubmissionRepository builds a KV-backed submission repository.
func NewSubmissionRepository(store kv.Store) SubmissionRepository {
	return &submissionRepository{store: store}
}

func (r *submissionRepository) Put(ctx context.Context, submission models.Submission) error {
	payload, err := json.Marshal(submission)
	if err != nil {
		return fmt.Errorf("failed to encode submission %s: %w", submission.ID, err)
	}

	if err := r.store.Set(ctx, submission.ID, payload); err != nil {
		return fmt.Errorf("failed to store submission %s: %w", submission.ID, err)
	}

	return nil
}

func (r *submissionRepository) Get(ctx context.Context, id string) (models.Submission, bool, error) {
	payload, exists, err := r.store.Get(ctx, id)
	if err != nil || !exists {
		return models.Submission{}, false, err
	}

	var submission models.Submission
	if err := json.Unmarshal(payload, &submission); err != nil {
		return models.Submission{}, false, fmt.Errorf("failed to decode submission %s: %w", id, err)
	}

	return submission, true, nil
}

func (r *submissionRepository) ListByAssignment(ctx context.Context, assignmentID string) ([]models.Submission, error) {
	return r.scan(ctx, kv.AssignmentSubmissionsPrefix(assignmentID))
}

func (r *submissionRepository) CountByAssignment(ctx context.Context, assignmentID string) (int, error) {
	payloads, err := r.store.GetByPrefix(ctx, kv.AssignmentSubmissionsPrefix(assignmentID))
	if err != nil {
		return 0, fmt.Errorf("failed to scan submissions: %w", err)
	}

	return len(payloads), nil
}

func (r *submissionRepository) ListAll(ctx context.Context) ([]models.Submission, error) {
	return r.scan(ctx, kv.SubmissionPrefix)
}

func (r *submissionRepository) scan(ctx context.Context, prefix string) ([]models.Submission, error) {
	payloads, err := r.store.GetByPrefix(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to scan submissions: %w", err)
	}

	submissions := make([]models.Submission, 0, len(payloads))
	for _, payload := range payloads {
		var submission models.Submission
		if err := json.Unmarshal(payload, &submission); err != nil {
			return nil, fmt.Errorf("failed to decode submission: %w", err)
		}
		submissions = append(submissions, submission)
	}

	return submissions, nil
}
