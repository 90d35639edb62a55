package domain

import "time"

// ProfileKind discriminates the profile variants.
type ProfileKind string

const (
	ProfileKindStudent ProfileKind = "Student"
	ProfileKindTeacher ProfileKind = "Teacher"
)

// Valid reports whether k is a known profile kind.
func (k ProfileKind) Valid() bool {
	return k == ProfileKindStudent || k == ProfileKindTeacher
}

// Profile is the role specific record linked to exactly one user. Exactly one
// of Student or Teacher is set and it always matches Kind.
type Profile struct {
	ID        string
	Kind      ProfileKind
	Student   *StudentProfile
	Teacher   *TeacherProfile
	CreatedAt time.Time
}

// StudentProfile holds the fields of a student account.
type StudentProfile struct {
	FullName   string `json:"fullName"`
	StudentID  string `json:"studentId"`
	Department string `json:"department,omitempty"`
	Batch      string `json:"batch,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Email      string `json:"email"`
}

// TeacherProfile holds the fields of a teacher account.
type TeacherProfile struct {
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	Department  string `json:"department,omitempty"`
	Designation string `json:"designation,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

// NewStudentProfile builds a student variant.
func NewStudentProfile(id string, fields StudentProfile, createdAt time.Time) *Profile {
	return &Profile{ID: id, Kind: ProfileKindStudent, Student: &fields, CreatedAt: createdAt}
}

// NewTeacherProfile builds a teacher variant.
func NewTeacherProfile(id string, fields TeacherProfile, createdAt time.Time) *Profile {
	return &Profile{ID: id, Kind: ProfileKindTeacher, Teacher: &fields, CreatedAt: createdAt}
}

// Ref returns the reference a user stores for this profile.
func (p Profile) Ref() ProfileRef {
	return ProfileRef{ID: p.ID, Kind: p.Kind}
}

// FullName returns the display name regardless of variant.
func (p Profile) FullName() string {
	switch p.Kind {
	case ProfileKindStudent:
		if p.Student != nil {
			return p.Student.FullName
		}
	case ProfileKindTeacher:
		if p.Teacher != nil {
			return p.Teacher.FullName
		}
	}
	return ""
}
