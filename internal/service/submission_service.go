package service

import (
	"context"
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

// SubmissionService exposes the submission and grading use cases.
type SubmissionService interface {
	Submit(ctx context.Context, identity models.Identity, payload dto.SubmissionCreateRequest) (models.Submission, error)
	List(ctx context.Context, identity models.Identity) ([]models.Submission, error)
	Grade(ctx context.Context, identity models.Identity, payload dto.GradeRequest) (models.Submission, error)
}

type submissionService struct {
	submissions repository.SubmissionRepository
	assignments repository.AssignmentRepository
	indexes     repository.IndexRepository
	validator   *validator.Validate
	sanitizer   *bluemonday.Policy
	logger      zerolog.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

// NewSubmissionService builds the submission service.
func NewSubmissionService(submissions repository.SubmissionRepository, assignments repository.AssignmentRepository, indexes repository.IndexRepository, validate *validator.Validate, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		submissions: submissions,
		assignments: assignments,
		indexes:     indexes,
		validator:   validate,
		sanitizer:   bluemonday.StrictPolicy(),
		logger:      logger.With().Str("component", "submission_service").Logger(),
		tracer:      otel.Tracer("github.com/noah-isme/portal-go-api/internal/service/submission"),
		now:         time.Now,
	}
}

func (s *submissionService) Submit(ctx context.Context, identity models.Identity, payload dto.SubmissionCreateRequest) (models.Submission, error) {
	if err := auth.RequireRole(identity, models.RoleStudent); err != nil {
		return models.Submission{}, err
	}

	if err := s.validator.Struct(payload); err != nil {
		return models.Submission{}, err
	}

	assignment, exists, err := s.assignments.Get(ctx, payload.AssignmentID)
	if err != nil {
		return models.Submission{}, apperr.Upstream("failed to load assignment", err)
	}
	if !exists {
		return models.Submission{}, apperr.NotFound("assignment not found")
	}

	spanCtx, span := s.tracer.Start(ctx, "submissions.submit", trace.WithAttributes(
		attribute.String("assignment.id", assignment.ID),
		attribute.String("submission.student", identity.Username),
	))
	defer span.End()

	// The deterministic key makes a resubmission overwrite the previous
	// record; there is no submission history. MaxScore is snapshotted from
	// the assignment as it stands right now.
	submission := models.Submission{
		ID:              kv.SubmissionKey(assignment.ID, identity.Username),
		AssignmentID:    assignment.ID,
		AssignmentTitle: assignment.Title,
		StudentName:     identity.Username,
		StudentID:       identity.ID,
		Content:         s.sanitizer.Sanitize(payload.Content),
		SubmittedAt:     s.now().UTC(),
		Status:          models.SubmissionStatusPending,
		MaxScore:        assignment.MaxScore,
	}

	if err := s.submissions.Put(spanCtx, submission); err != nil {
		span.RecordError(err)
		return models.Submission{}, apperr.Upstream("failed to store submission", err)
	}

	observability.SubmissionsReceived().Inc()
	s.logger.Info().Str("submission_id", submission.ID).Str("student", identity.Username).Msg("submission received")

	return submission, nil
}

func (s *submissionService) List(ctx context.Context, identity models.Identity) ([]models.Submission, error) {
	if err := auth.RequireRole(identity); err != nil {
		return nil, err
	}

	if identity.Role == models.RoleTeacher {
		return s.listForTeacher(ctx, identity.Username)
	}

	return s.listForStudent(ctx, identity.Username)
}

// listForTeacher unions the submissions of every assignment the teacher
// created, one prefix scan per assignment id.
func (s *submissionService) listForTeacher(ctx context.Context, username string) ([]models.Submission, error) {
	ids, err := s.indexes.TeacherAssignments(ctx, username)
	if err != nil {
		return nil, apperr.Upstream("failed to read assignment index", err)
	}

	submissions := make([]models.Submission, 0)
	for _, assignmentID := range ids {
		batch, err := s.submissions.ListByAssignment(ctx, assignmentID)
		if err != nil {
			return nil, apperr.Upstream("failed to load submissions", err)
		}
		submissions = append(submissions, batch...)
	}

	return submissions, nil
}

// listForStudent scans the whole submission: prefix and keeps the caller's
// records. There is no per-student submission index, so the scan is O(total
// submissions).
func (s *submissionService) listForStudent(ctx context.Context, username string) ([]models.Submission, error) {
	all, err := s.submissions.ListAll(ctx)
	if err != nil {
		return nil, apperr.Upstream("failed to load submissions", err)
	}

	own := make([]models.Submission, 0)
	for _, submission := range all {
		if submission.StudentName == username {
			own = append(own, submission)
		}
	}

	return own, nil
}

func (s *submissionService) Grade(ctx context.Context, identity models.Identity, payload dto.GradeRequest) (models.Submission, error) {
	// Any teacher may grade any submission; grading rights are not tied to
	// the assignment's creator.
	if err := auth.RequireRole(identity, models.RoleTeacher); err != nil {
		return models.Submission{}, err
	}

	if err := s.validator.Struct(payload); err != nil {
		return models.Submission{}, err
	}

	submission, exists, err := s.submissions.Get(ctx, payload.SubmissionID)
	if err != nil {
		return models.Submission{}, apperr.Upstream("failed to load submission", err)
	}
	if !exists {
		return models.Submission{}, apperr.NotFound("submission not found")
	}

	spanCtx, span := s.tracer.Start(ctx, "submissions.grade", trace.WithAttributes(
		attribute.String("submission.id", submission.ID),
		attribute.String("submission.graded_by", identity.Username),
	))
	defer span.End()

	// Regrading overwrites score and feedback; the identifying fields stay
	// untouched and the status never leaves graded.
	score := payload.Score
	gradedAt := s.now().UTC()
	submission.Status = models.SubmissionStatusGraded
	submission.Score = &score
	submission.Feedback = s.sanitizer.Sanitize(payload.Feedback)
	submission.GradedAt = &gradedAt
	submission.GradedBy = identity.Username

	if err := s.submissions.Put(spanCtx, submission); err != nil {
		span.RecordError(err)
		return models.Submission{}, apperr.Upstream("failed to store submission", err)
	}

	observability.GradesRecorded().Inc()
	s.logger.Info().Str("submission_id", submission.ID).Str("graded_by", identity.Username).Msg("submission graded")

	return submission, nil
}
