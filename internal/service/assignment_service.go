package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/noah-isme/portal-go-api/internal/apperr"
	"github.com/noah-isme/portal-go-api/internal/auth"
	"github.com/noah-isme/portal-go-api/internal/dto"
	"github.com/noah-isme/portal-go-api/internal/kv"
	"github.com/noah-isme/portal-go-api/internal/models"
	"github.com/noah-isme/portal-go-api/internal/observability"
	"github.com/noah-isme/portal-go-api/internal/repository"
)

// AssignmentService exposes the assignment use cases. Listing is role-shaped:
// teachers see their own assignments with live submission counts, students
// see every assignment system-wide annotated with their own progress.
type AssignmentService interface {
	Create(ctx context.Context, identity models.Identity, payload dto.AssignmentCreateRequest) (models.Assignment, error)
	List(ctx context.Context, identity models.Identity) ([]dto.AssignmentResponse, error)
}

type assignmentService struct {
	assignments repository.AssignmentRepository
	submissions repository.SubmissionRepository
	indexes     repository.IndexRepository
	validator   *validator.Validate
	sanitizer   *bluemonday.Policy
	logger      zerolog.Logger
}

// NewAssignmentService builds the assignment service.
func NewAssignmentService(assignments repository.AssignmentRepository, submissions repository.SubmissionRepository, indexes repository.IndexRepository, validate *validator.Validate, logger zerolog.Logger) AssignmentService {
	return &assignmentService{
		assignments: assignments,
		submissions: submissions,
		indexes:     indexes,
		validator:   validate,
		sanitizer:   bluemonday.StrictPolicy(),
		logger:      logger.With().Str("component", "assignment_service").Logger(),
	}
}

func (s *assignmentService) Create(ctx context.Context, identity models.Identity, payload dto.AssignmentCreateRequest) (models.Assignment, error) {
	if err := auth.RequireRole(identity, models.RoleTeacher); err != nil {
		return models.Assignment{}, err
	}

	if err := s.validator.Struct(payload); err != nil {
		return models.Assignment{}, err
	}

	assignment := models.Assignment{
		ID:            kv.NewAssignmentID(),
		Title:         strings.TrimSpace(payload.Title),
		Description:   s.sanitizer.Sanitize(payload.Description),
		DueDate:       payload.DueDate,
		MaxScore:      payload.MaxScore,
		CreatedBy:     identity.Username,
		CreatedAt:     time.Now().UTC(),
		Submissions:   0,
		TotalStudents: models.TotalStudentsPlaceholder,
	}

	if err := s.assignments.Put(ctx, assignment); err != nil {
		return models.Assignment{}, apperr.Upstream("failed to store assignment", err)
	}

	if err := s.indexes.AddAssignment(ctx, assignment); err != nil {
		return models.Assignment{}, apperr.Upstream("failed to index assignment", err)
	}

	observability.AssignmentsCreated().Inc()
	s.logger.Info().Str("assignment_id", assignment.ID).Str("created_by", assignment.CreatedBy).Msg("assignment created")

	return assignment, nil
}

func (s *assignmentService) List(ctx context.Context, identity models.Identity) ([]dto.AssignmentResponse, error) {
	if err := auth.RequireRole(identity); err != nil {
		return nil, err
	}

	if identity.Role == models.RoleTeacher {
		return s.listForTeacher(ctx, identity.Username)
	}

	return s.listForStudent(ctx, identity.Username)
}

func (s *assignmentService) listForTeacher(ctx context.Context, username string) ([]dto.AssignmentResponse, error) {
	ids, err := s.indexes.TeacherAssignments(ctx, username)
	if err != nil {
		return nil, apperr.Upstream("failed to read assignment index", err)
	}

	assignments, err := s.assignments.GetMany(ctx, ids)
	if err != nil {
		return nil, apperr.Upstream("failed to load assignments", err)
	}

	responses := make([]dto.AssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		// The stored counter is never authoritative; recount on read.
		count, err := s.submissions.CountByAssignment(ctx, assignment.ID)
		if err != nil {
			return nil, apperr.Upstream("failed to count submissions", err)
		}
		assignment.Submissions = count
		responses = append(responses, dto.NewAssignmentResponse(assignment))
	}

	return responses, nil
}

func (s *assignmentService) listForStudent(ctx context.Context, username string) ([]dto.AssignmentResponse, error) {
	assignments, err := s.assignments.ListAll(ctx)
	if err != nil {
		return nil, apperr.Upstream("failed to load assignments", err)
	}

	responses := make([]dto.AssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		submission, exists, err := s.submissions.Get(ctx, kv.SubmissionKey(assignment.ID, username))
		if err != nil {
			return nil, apperr.Upstream("failed to load submission", err)
		}

		if exists {
			responses = append(responses, dto.NewStudentAssignmentResponse(assignment, &submission))
		} else {
			responses = append(responses, dto.NewStudentAssignmentResponse(assignment, nil))
		}
	}

	return responses, nil
}
