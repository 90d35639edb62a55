package domain

import "time"

// Course is an offering owned by the teacher account that created it.
type Course struct {
	ID         string
	CourseCode string
	CourseName string
	Credit     float64
	Department string
	Semester   string
	TeacherID  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CoursePatch carries the fields of a partial course update; nil fields are left
// untouched.
type CoursePatch struct {
	CourseCode *string
	CourseName *string
	Credit     *float64
	Department *string
	Semester   *string
}

// Empty reports whether the patch changes nothing.
func (p CoursePatch) Empty() bool {
	return p.CourseCode == nil && p.CourseName == nil && p.Credit == nil && p.Department == nil && p.Semester == nil
}

// Apply copies the set fields onto c.
func (p CoursePatch) Apply(c *Course) {
	if p.CourseCode != nil {
		c.CourseCode = *p.CourseCode
	}
	if p.CourseName != nil {
		c.CourseName = *p.CourseName
	}
	if p.Credit != nil {
		c.Credit = *p.Credit
	}
	if p.Department != nil {
		c.Department = *p.Department
	}
	if p.Semester != nil {
		c.Semester = *p.Semester
	}
}
