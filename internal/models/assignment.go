package models

import "time"

// TotalStudentsPlaceholder is written into every new assignment. Enrollment
// is not tracked per assignment, so the value is a fixed stand-in.
const TotalStudentsPlaceholder = 25

// Assignment is stored under its own id. The Submissions counter is written
// once at creation and never trusted afterwards; teacher listings recompute
// it from a live prefix scan.
type Assignment struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	DueDate       string    `json:"dueDate"`
	MaxScore      int       `json:"maxScore"`
	CreatedBy     string    `json:"createdBy"`
	CreatedAt     time.Time `json:"createdAt"`
	Submissions   int       `json:"submissions"`
	TotalStudents int       `json:"totalStudents"`
}
