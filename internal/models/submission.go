package models

import "time"

const (
	// SubmissionStatusPending indicates the work awaits grading.
	SubmissionStatusPending = "pending"
	// SubmissionStatusGraded indicates a teacher has recorded a score.
	SubmissionStatusGraded = "graded"
)

// Submission is stored at submission:<assignmentId>:<username>; the key is
// also the id, which caps submissions at one per (assignment, student) pair.
// MaxScore is snapshotted from the assignment at submit time and does not
// follow later assignment edits. Status only ever moves pending -> graded.
type Submission struct {
	ID              string     `json:"id"`
	AssignmentID    string     `json:"assignmentId"`
	AssignmentTitle string     `json:"assignmentTitle"`
	StudentName     string     `json:"studentName"`
	StudentID       string     `json:"studentId"`
	Content         string     `json:"content"`
	SubmittedAt     time.Time  `json:"submittedAt"`
	Status          string     `json:"status"`
	MaxScore        int        `json:"maxScore"`
	Score           *int       `json:"score,omitempty"`
	Feedback        string     `json:"feedback,omitempty"`
	GradedAt        *time.Time `json:"gradedAt,omitempty"`
	GradedBy        string     `json:"gradedBy,omitempty"`
}

// IsGraded reports whether the submission carries a final score.
func (s Submission) IsGraded() bool {
	return s.Status == SubmissionStatusGraded
}
