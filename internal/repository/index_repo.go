package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/noah-isme/portal-go-api/internal/kv"
	"github.com/noah-isme/portal-go-api/internal/models"
)

// IndexRepository keeps the denormalized id lists in step with the
// authoritative course and assignment records, so listings never scan the
// whole keyspace. Each update is an independent read-modify-write; the store
// has no multi-key transaction, so a crash mid-fan-out can leave an index
// ahead of or behind its record. Readers tolerate that drift by skipping
// dangling ids.
type IndexRepository interface {
	// AddCourse appends the course id to the creating teacher's index and
	// to each enrolled student's index.
	AddCourse(ctx context.Context, course models.Course) error
	// RemoveCourse filters the course id out of the same lists. Removal is
	// by value, not position, so repeating it is idempotent.
	RemoveCourse(ctx context.Context, course models.Course) error
	AddAssignment(ctx context.Context, assignment models.Assignment) error

	TeacherCourses(ctx context.Context, username string) ([]string, error)
	StudentCourses(ctx context.Context, username string) ([]string, error)
	TeacherAssignments(ctx context.Context, username string) ([]string, error)
}

type indexRepository struct {
	store kv.Store
}

// NewIndexRepository builds the KV-backed index maintainer.
func NewIndexRepository(store kv.Store) IndexRepository {
	return &indexRepository{store: store}
}

func (r *indexRepository) AddCourse(ctx context.Context, course models.Course) error {
	if err := r.appendID(ctx, kv.TeacherCoursesKey(course.CreatedBy), course.ID); err != nil {
		return err
	}

	for _, student := range course.EnrolledStudents {
		if err := r.appendID(ctx, kv.StudentCoursesKey(student), course.ID); err != nil {
			return err
		}
	}

	return nil
}

func (r *indexRepository) RemoveCourse(ctx context.Context, course models.Course) error {
	if err := r.removeID(ctx, kv.TeacherCoursesKey(course.CreatedBy), course.ID); err != nil {
		return err
	}

	for _, student := range course.EnrolledStudents {
		if err := r.removeID(ctx, kv.StudentCoursesKey(student), course.ID); err != nil {
			return err
		}
	}

	return nil
}

func (r *indexRepository) AddAssignment(ctx context.Context, assignment models.Assignment) error {
	return r.appendID(ctx, kv.TeacherAssignmentsKey(assignment.CreatedBy), assignment.ID)
}

func (r *indexRepository) TeacherCourses(ctx context.Context, username string) ([]string, error) {
	return r.readIDs(ctx, kv.TeacherCoursesKey(username))
}

func (r *indexRepository) StudentCourses(ctx context.Context, username string) ([]string, error) {
	return r.readIDs(ctx, kv.StudentCoursesKey(username))
}

func (r *indexRepository) TeacherAssignments(ctx context.Context, username string) ([]string, error) {
	return r.readIDs(ctx, kv.TeacherAssignmentsKey(username))
}

func (r *indexRepository) readIDs(ctx context.Context, key string) ([]string, error) {
	payload, exists, err := r.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read index %s: %w", key, err)
	}
	if !exists {
		return []string{}, nil
	}

	var ids []string
	if err := json.Unmarshal(payload, &ids); err != nil {
		return nil, fmt.Errorf("failed to decode index %s: %w", key, err)
	}

	return ids, nil
}

func (r *indexRepository) writeIDs(ctx context.Context, key string, ids []string) error {
	payload, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to encode index %s: %w", key, err)
	}

	if err := r.store.Set(ctx, key, payload); err != nil {
		return fmt.Errorf("failed to store index %s: %w", key, err)
	}

	return nil
}

func (r *indexRepository) appendID(ctx context.Context, key, id string) error {
	ids, err := r.readIDs(ctx, key)
	if err != nil {
		return err
	}

	return r.writeIDs(ctx, key, append(ids, id))
}

func (r *indexRepository) removeID(ctx context.Context, key, id string) error {
	ids, err := r.readIDs(ctx, key)
	if err != nil {
		return err
	}

	filtered := make([]string, 0, len(ids))
	for _, existing := range ids {
		if existing != id {
			filtered = append(filtered, existing)
		}
	}

	return r.writeIDs(ctx, key, filtered)
}
