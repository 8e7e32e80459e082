package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/portal-go-api/internal/apperr"
	"github.com/noah-isme/portal-go-api/internal/auth"
	"github.com/noah-isme/portal-go-api/internal/dto"
	"github.com/noah-isme/portal-go-api/internal/kv"
	"github.com/noah-isme/portal-go-api/internal/models"
	"github.com/noah-isme/portal-go-api/internal/observability"
	"github.com/noah-isme/portal-go-api/internal/repository"
)

// CourseService exposes the course use cases.
type CourseService interface {
	Create(ctx context.Context, identity models.Identity, payload dto.CourseCreateRequest) (models.Course, error)
	List(ctx context.Context, identity models.Identity) ([]models.Course, error)
	Delete(ctx context.Context, identity models.Identity, courseID string) error
}

type courseService struct {
	courses   repository.CourseRepository
	indexes   repository.IndexRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// NewCourseService builds the course service.
func NewCourseService(courses repository.CourseRepository, indexes repository.IndexRepository, validate *validator.Validate, logger zerolog.Logger) CourseService {
	return &courseService{
		courses:   courses,
		indexes:   indexes,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "course_service").Logger(),
		tracer:    otel.Tracer("github.com/noah-isme/portal-go-api/internal/service/course"),
		now:       time.Now,
	}
}

func (s *courseService) Create(ctx context.Context, identity models.Identity, payload dto.CourseCreateRequest) (models.Course, error) {
	if err := auth.RequireRole(identity, models.RoleTeacher); err != nil {
		return models.Course{}, err
	}

	if err := s.validator.Struct(payload); err != nil {
		return models.Course{}, err
	}

	spanCtx, span := s.tracer.Start(ctx, "courses.create", trace.WithAttributes(
		attribute.String("course.created_by", identity.Username),
		attribute.Int("course.enrolled_count", len(payload.EnrolledStudents)),
	))
	defer span.End()

	enrolled := payload.EnrolledStudents
	if enrolled == nil {
		enrolled = []string{}
	}

	course := models.Course{
		ID:               kv.NewCourseID(),
		Name:             strings.TrimSpace(payload.Name),
		Description:      s.sanitizer.Sanitize(payload.Description),
		EnrolledStudents: enrolled,
		CreatedBy:        identity.Username,
		CreatedAt:        s.now().UTC(),
	}

	// Record before indexes: a crash between the two leaves an unindexed
	// record rather than an index entry pointing at nothing.
	if err := s.courses.Put(spanCtx, course); err != nil {
		span.RecordError(err)
		return models.Course{}, apperr.Upstream("failed to store course", err)
	}

	if err := s.indexes.AddCourse(spanCtx, course); err != nil {
		span.RecordError(err)
		return models.Course{}, apperr.Upstream("failed to index course", err)
	}

	observability.CoursesCreated().Inc()
	s.logger.Info().Str("course_id", course.ID).Str("created_by", course.CreatedBy).Msg("course created")

	return course, nil
}

func (s *courseService) List(ctx context.Context, identity models.Identity) ([]models.Course, error) {
	if err := auth.RequireRole(identity); err != nil {
		return nil, err
	}

	var (
		ids []string
		err error
	)

	if identity.Role == models.RoleTeacher {
		ids, err = s.indexes.TeacherCourses(ctx, identity.Username)
	} else {
		ids, err = s.indexes.StudentCourses(ctx, identity.Username)
	}
	if err != nil {
		return nil, apperr.Upstream("failed to read course index", err)
	}

	courses, err := s.courses.GetMany(ctx, ids)
	if err != nil {
		return nil, apperr.Upstream("failed to load courses", err)
	}

	return courses, nil
}

func (s *courseService) Delete(ctx context.Context, identity models.Identity, courseID string) error {
	if err := auth.RequireRole(identity, models.RoleTeacher); err != nil {
		return err
	}

	course, exists, err := s.courses.Get(ctx, courseID)
	if err != nil {
		return apperr.Upstream("failed to load course", err)
	}
	if !exists {
		return apperr.NotFound("course not found")
	}

	// Ownership check before any mutation; a rejected delete must leave
	// every index and record untouched.
	if course.CreatedBy != identity.Username {
		return apperr.Forbidden("only the course owner can delete it")
	}

	spanCtx, span := s.tracer.Start(ctx, "courses.delete", trace.WithAttributes(
		attribute.String("course.id", course.ID),
		attribute.Int("course.enrolled_count", len(course.EnrolledStudents)),
	))
	defer span.End()

	// Indexes first: a crash here leaves an index entry pointing at a
	// record that still exists, which readers resolve normally, or at a
	// record deleted next, which readers skip.
	if err := s.indexes.RemoveCourse(spanCtx, course); err != nil {
		span.RecordError(err)
		return apperr.Upstream("failed to unindex course", err)
	}

	if err := s.courses.Delete(spanCtx, course.ID); err != nil {
		span.RecordError(err)
		return apperr.Upstream("failed to delete course", err)
	}

	observability.CoursesDeleted().Inc()
	s.logger.Info().Str("course_id", course.ID).Str("deleted_by", identity.Username).Msg("course deleted")

	return nil
}
