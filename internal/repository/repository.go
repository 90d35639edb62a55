package repository

import (
	"context"

	"github.com/Adnan2-a11y/LearnCraft/internal/domain"
)

// Field names a lookup column. Implementations only accept the fields listed
// for each repository and return ErrInvalidArgument otherwise.
type Field string

const (
	FieldID         Field = "id"
	FieldUsername   Field = "username"
	FieldEmail      Field = "email"
	FieldCourseCode Field = "course_code"
)

// UserRepository persists accounts. Username and email are unique; inserts
// that collide return ErrConflict.
type UserRepository interface {
	// FindUser looks a user up by id, username or email.
	FindUser(ctx context.Context, field Field, value string) (*domain.User, error)
	// FindUserByIdentity returns the first user matching username or email.
	FindUserByIdentity(ctx context.Context, username, email string) (*domain.User, error)
	InsertUser(ctx context.Context, user *domain.User) error
}

// ProfileRepository persists student and teacher profiles.
type ProfileRepository interface {
	InsertProfile(ctx context.Context, profile *domain.Profile) error
	FindProfile(ctx context.Context, ref domain.ProfileRef) (*domain.Profile, error)
	// DeleteProfile removes a profile; deleting an absent profile is not an error.
	DeleteProfile(ctx context.Context, ref domain.ProfileRef) error
}

// CourseRepository persists courses. Course codes are unique.
type CourseRepository interface {
	// FindCourse looks a course up by id or course code.
	FindCourse(ctx context.Context, field Field, value string) (*domain.Course, error)
	ListCourses(ctx context.Context, search string) ([]domain.Course, error)
	InsertCourse(ctx context.Context, course *domain.Course) error
	UpdateCourse(ctx context.Context, id string, patch domain.CoursePatch) (*domain.Course, error)
	DeleteCourse(ctx context.Context, id string) error
}

// EventRepository persists events.
type EventRepository interface {
	FindEvent(ctx context.Context, id string) (*domain.Event, error)
	ListEvents(ctx context.Context, search string) ([]domain.Event, error)
	InsertEvent(ctx context.Context, event *domain.Event) error
	UpdateEvent(ctx context.Context, id string, patch domain.EventPatch) (*domain.Event, error)
	DeleteEvent(ctx context.Context, id string) error
}

// Store bundles every repository behind a single backend.
type Store interface {
	UserRepository
	ProfileRepository
	CourseRepository
	EventRepository
	Ping(ctx context.Context) error
}
