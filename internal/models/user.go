package models

import "time"

// Roles understood by the authorization gate.
const (
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// User is the authoritative account record stored at user:<username>.
// The username is globally unique and the id never changes once assigned.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// RosterEntry is one student row in the all_students set.
type RosterEntry struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Identity is the resolved caller: a verified identity-provider subject
// mapped back to its account record.
type Identity struct {
	ID       string
	Username string
	Role     string
}
