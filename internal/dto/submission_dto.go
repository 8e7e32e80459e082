package dto

// SubmissionCreateRequest describes the payload for submitting work.
type SubmissionCreateRequest struct {
	AssignmentID string `json:"assignmentId" validate:"required"`
	Content      string `json:"content" validate:"required"`
}

// GradeRequest describes the payload for grading a submission.
type GradeRequest struct {
	SubmissionID string `json:"submissionId" validate:"required"`
	Score        int    `json:"score" validate:"gte=0"`
	Feedback     string `json:"feedback"`
}
