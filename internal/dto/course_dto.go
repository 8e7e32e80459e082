package dto

// CourseCreateRequest describes the payload for creating a course.
// EnrolledStudents holds usernames and may be empty.
type CourseCreateRequest struct {
	Name             string   `json:"name" validate:"required"`
	Description      string   `json:"description"`
	EnrolledStudents []string `json:"enrolledStudents"`
}
