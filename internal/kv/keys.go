package kv

import "github.com/google/uuid"

// Key patterns of the portal namespace. Entity ids for courses, assignments
// and submissions include their prefix: the id doubles as the storage key.
const (
	// RosterKey holds the set of all registered students.
	RosterKey = "all_students"

	// CoursePrefix and AssignmentPrefix start every course/assignment id.
	CoursePrefix     = "course:"
	AssignmentPrefix = "assignment:"

	// SubmissionPrefix starts every submission id; the full key embeds the
	// assignment id and the student username, which makes a submission
	// unique per (assignment, student) pair by construction.
	SubmissionPrefix = "submission:"

	userPrefix               = "user:"
	userIDPrefix             = "userid:"
	teacherCoursesPrefix     = "teacher_courses:"
	studentCoursesPrefix     = "student_courses:"
	teacherAssignmentsPrefix = "teacher_assignments:"
)

// UserKey addresses the account record for a username.
func UserKey(username string) string { return userPrefix + username }

// UserIDKey addresses the reverse mapping from subject id to username.
func UserIDKey(id string) string { return userIDPrefix + id }

// TeacherCoursesKey addresses a teacher's list of created course ids.
func TeacherCoursesKey(username string) string { return teacherCoursesPrefix + username }

// StudentCoursesKey addresses a student's list of enrolled course ids.
func StudentCoursesKey(username string) string { return studentCoursesPrefix + username }

// TeacherAssignmentsKey addresses a teacher's list of assignment ids.
func TeacherAssignmentsKey(username string) string { return teacherAssignmentsPrefix + username }

// NewCourseID mints a fresh course id. A random UUID replaces the original
// timestamp suffix so concurrent creates cannot collide.
func NewCourseID() string { return CoursePrefix + uuid.NewString() }

// NewAssignmentID mints a fresh assignment id.
func NewAssignmentID() string { return AssignmentPrefix + uuid.NewString() }

// SubmissionKey derives the deterministic key for a student's submission to
// an assignment. Writing it twice overwrites rather than appends.
func SubmissionKey(assignmentID, username string) string {
	return SubmissionPrefix + assignmentID + ":" + username
}

// AssignmentSubmissionsPrefix is the scan prefix covering every submission
// for one assignment.
func AssignmentSubmissionsPrefix(assignmentID string) string {
	return SubmissionPrefix + assignmentID + ":"
}
