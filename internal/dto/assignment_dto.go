package dto

import (
	"time"

	"github.com/noah-isme/portal-go-api/internal/models"
)

// Derived per-student assignment states. "submitted" and "graded" follow the
// student's own submission; an assignment they never touched is not_started.
const (
	AssignmentStatusNotStarted = "not_started"
	AssignmentStatusSubmitted  = "submitted"
	AssignmentStatusGraded     = "graded"
)

// AssignmentCreateRequest describes the payload for creating an assignment.
type AssignmentCreateRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate" validate:"required"`
	MaxScore    int    `json:"maxScore" validate:"required,gt=0"`
}

// AssignmentResponse is the role-shaped listing row. Teacher rows carry a
// live submission count and no status; student rows are annotated with the
// caller's own submission state.
type AssignmentResponse struct {
	models.Assignment
	Status      string     `json:"status,omitempty"`
	Score       *int       `json:"score,omitempty"`
	Feedback    string     `json:"feedback,omitempty"`
	SubmittedAt *time.Time `json:"submittedAt,omitempty"`
}

// NewAssignmentResponse wraps an assignment without student annotations.
func NewAssignmentResponse(assignment models.Assignment) AssignmentResponse {
	return AssignmentResponse{Assignment: assignment}
}

// NewStudentAssignmentResponse annotates an assignment with the student's
// own submission, when one exists.
func NewStudentAssignmentResponse(assignment models.Assignment, submission *models.Submission) AssignmentResponse {
	response := AssignmentResponse{
		Assignment: assignment,
		Status:     AssignmentStatusNotStarted,
	}

	if submission == nil {
		return response
	}

	if submission.IsGraded() {
		response.Status = AssignmentStatusGraded
	} else {
		response.Status = AssignmentStatusSubmitted
	}

	response.Score = submission.Score
	response.Feedback = submission.Feedback
	submittedAt := submission.SubmittedAt
	response.SubmittedAt = &submittedAt

	return response
}
