package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/noah-isme/portal-go-api/internal/kv"
	"github.com/noah-isme/portal-go-api/internal/models"
)

// CourseRepository persists course records keyed by their own id.
type CourseRepository interface {
	Put(ctx context.Context, course models.Course) error
	Get(ctx context.Context, id string) (models.Course, bool, error)
	// GetMany resolves ids to records, silently skipping ids whose record
	// is gone. Index/record drift degrades a listing, never fails it.
	GetMany(ctx context.Context, ids []string) ([]models.Course, error)
	Delete(ctx context.Context, id string) error
}

type courseRepository struct {
	store kv.Store
}

// NewCourseRepository builds a KV-backed course repository.
func NewCourseRepository(store kv.Store) CourseRepository {
	return &courseRepository{store: store}
}

func (r *courseRepository) Put(ctx context.Context, course models.Course) error {
	payload, err := json.Marshal(course)
	if err != nil {
		return fmt.Errorf("failed to encode course %s: %w", course.ID, err)
	}

	if err := r.store.Set(ctx, course.ID, payload); err != nil {
		return fmt.Errorf("failed to store course %s: %w", course.ID, err)
	}

	return nil
}

func (r *courseRepository) Get(ctx context.Context, id string) (models.Course, bool, error) {
	payload, exists, err := r.store.Get(ctx, id)
	if err != nil || !exists {
		return models.Course{}, false, err
	}

	var course models.Course
	if err := json.Unmarshal(payload, &course); err != nil {
		return models.Course{}, false, fmt.Errorf("failed to decode course %s: %w", id, err)
	}

	return course, true, nil
}

func (r *courseRepository) GetMany(ctx context.Context, ids []string) ([]models.Course, error) {
	courses := make([]models.Course, 0, len(ids))
	for _, id := range ids {
		course, exists, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if !exists {
			continue
		}
		courses = append(courses, course)
	}

	return courses, nil
}

func (r *courseRepository) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete course %s: %w", id, err)
	}

	return nil
}
