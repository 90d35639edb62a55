package domain

import "time"

// Role enumerates the mutually exclusive account roles.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleTeacher
}

// ProfileKind returns the profile variant that accounts of this role carry.
func (r Role) ProfileKind() ProfileKind {
	switch r {
	case RoleStudent:
		return ProfileKindStudent
	case RoleTeacher:
		return ProfileKindTeacher
	default:
		return ""
	}
}

// ProfileRef is a weak reference from a user to its profile record.
type ProfileRef struct {
	ID   string      `json:"id"`
	Kind ProfileKind `json:"kind"`
}

// User represents a portal account.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash []byte
	Role         Role
	Profile      ProfileRef
	CreatedAt    time.Time
}

// Principal returns the read-only identity view of the user.
func (u User) Principal() Principal {
	return Principal{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role}
}

// Principal is the authenticated identity attached to a request.
type Principal struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}
