package course

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Adnan2-a11y/LearnCraft/internal/apperror"
	"github.com/Adnan2-a11y/LearnCraft/internal/domain"
	"github.com/Adnan2-a11y/LearnCraft/internal/repository"
	"github.com/Adnan2-a11y/LearnCraft/internal/service/access"
	"github.com/Adnan2-a11y/LearnCraft/internal/validate"
)

// CreateInput encapsulates course creation attributes.
type CreateInput struct {
	CourseCode string  `json:"courseCode" validate:"required"`
	CourseName string  `json:"courseName" validate:"required"`
	Credit     float64 `json:"credit" validate:"gt=0"`
	Department string  `json:"department" validate:"required"`
	Semester   string  `json:"semester" validate:"required"`
}

// UpdateInput carries a partial course update; absent fields stay unchanged.
type UpdateInput struct {
	CourseCode *string  `json:"courseCode" validate:"omitnil,min=1"`
	CourseName *string  `json:"courseName" validate:"omitnil,min=1"`
	Credit     *float64 `json:"credit" validate:"omitnil,gt=0"`
	Department *string  `json:"department" validate:"omitnil,min=1"`
	Semester   *string  `json:"semester" validate:"omitnil,min=1"`
}

func (in UpdateInput) patch() domain.CoursePatch {
	return domain.CoursePatch{
		CourseCode: trimmed(in.CourseCode),
		CourseName: trimmed(in.CourseName),
		Credit:     in.Credit,
		Department: trimmed(in.Department),
		Semester:   trimmed(in.Semester),
	}
}

// Service manages courses owned by teachers.
type Service struct {
	courses   repository.CourseRepository
	validator *validate.Validator
	logger    *slog.Logger
	now       func() time.Time
}

// New returns a course service.
func New(courses repository.CourseRepository, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return Service{courses: courses, validator: validate.New(), logger: logger, now: time.Now}
}

// List returns courses matching search on name or code.
func (s Service) List(ctx context.Context, search string) ([]domain.Course, error) {
	courses, err := s.courses.ListCourses(ctx, search)
	if err != nil {
		return nil, apperror.Server("server error while fetching courses", err)
	}
	return courses, nil
}

// Get returns a single course.
func (s Service) Get(ctx context.Context, id string) (*domain.Course, error) {
	course, err := s.courses.FindCourse(ctx, repository.FieldID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("course not found")
		}
		return nil, apperror.Server("server error while fetching course", err)
	}
	return course, nil
}

// Create adds a course owned by the calling teacher.
func (s Service) Create(ctx context.Context, principal *domain.Principal, in CreateInput) (*domain.Course, error) {
	if err := access.RequireRole(principal, domain.RoleTeacher); err != nil {
		return nil, err
	}
	in.CourseCode = strings.TrimSpace(in.CourseCode)
	in.CourseName = strings.TrimSpace(in.CourseName)
	in.Department = strings.TrimSpace(in.Department)
	in.Semester = strings.TrimSpace(in.Semester)
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}
	if err := s.ensureCodeFree(ctx, in.CourseCode, ""); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	course := &domain.Course{
		ID:         uuid.NewString(),
		CourseCode: in.CourseCode,
		CourseName: in.CourseName,
		Credit:     in.Credit,
		Department: in.Department,
		Semester:   in.Semester,
		TeacherID:  principal.ID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.courses.InsertCourse(ctx, course); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, codeTaken(in.CourseCode)
		}
		return nil, apperror.Server("server error while adding course", err)
	}
	s.logger.Info("course created", "course_id", course.ID, "user_id", principal.ID)
	return course, nil
}

// Update changes a course. Only the owning teacher may update it.
func (s Service) Update(ctx context.Context, principal *domain.Principal, id string, in UpdateInput) (*domain.Course, error) {
	if err := access.RequireRole(principal, domain.RoleTeacher); err != nil {
		return nil, err
	}
	course, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.RequireOwnership(principal, course.TeacherID); err != nil {
		return nil, apperror.Forbidden("you are not authorized to update this course")
	}
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}
	patch := in.patch()
	if patch.Empty() {
		return course, nil
	}
	if patch.CourseCode != nil && *patch.CourseCode != course.CourseCode {
		if err := s.ensureCodeFree(ctx, *patch.CourseCode, course.ID); err != nil {
			return nil, err
		}
	}

	updated, err := s.courses.UpdateCourse(ctx, id, patch)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperror.NotFound("course not found")
		case errors.Is(err, repository.ErrConflict):
			return nil, codeTaken(*patch.CourseCode)
		}
		return nil, apperror.Server("server error while updating course", err)
	}
	s.logger.Info("course updated", "course_id", id, "user_id", principal.ID)
	return updated, nil
}

// Delete removes a course. Only the owning teacher may delete it.
func (s Service) Delete(ctx context.Context, principal *domain.Principal, id string) error {
	if err := access.RequireRole(principal, domain.RoleTeacher); err != nil {
		return err
	}
	course, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := access.RequireOwnership(principal, course.TeacherID); err != nil {
		return apperror.Forbidden("you are not authorized to delete this course")
	}
	if err := s.courses.DeleteCourse(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound("course not found")
		}
		return apperror.Server("server error while deleting course", err)
	}
	s.logger.Info("course deleted", "course_id", id, "user_id", principal.ID)
	return nil
}

func (s Service) ensureCodeFree(ctx context.Context, code, exceptID string) error {
	existing, err := s.courses.FindCourse(ctx, repository.FieldCourseCode, code)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil
	case err != nil:
		return apperror.Server("server error while checking course code", err)
	case existing.ID != exceptID:
		return codeTaken(code)
	}
	return nil
}

func codeTaken(code string) error {
	msg := fmt.Sprintf("course with code '%s' already exists", code)
	return apperror.Validation(msg, apperror.FieldError{Field: "courseCode", Message: msg})
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	return &t
}
