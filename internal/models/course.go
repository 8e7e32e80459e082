package models

import "time"

// Course is stored under its own id, which doubles as the storage key.
// EnrolledStudents holds usernames; each of them carries the course id in
// their student_courses index while the record exists.
type Course struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	EnrolledStudents []string  `json:"enrolledStudents"`
	CreatedBy        string    `json:"createdBy"`
	CreatedAt        time.Time `json:"createdAt"`
}
