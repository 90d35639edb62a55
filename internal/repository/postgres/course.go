package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/Adnan2-a11y/LearnCraft/internal/domain"
	"github.com/Adnan2-a11y/LearnCraft/internal/repository"
)

const courseColumns = `id, course_code, course_name, credit, department, semester, teacher_id, created_at, updated_at`

var courseLookupColumns = map[repository.Field]string{
	repository.FieldID:         "id",
	repository.FieldCourseCode: "course_code",
}

// FindCourse fetches a course by id or course code.
func (r *Repository) FindCourse(ctx context.Context, field repository.Field, value string) (*domain.Course, error) {
	column, ok := courseLookupColumns[field]
	if !ok {
		return nil, fmt.Errorf("%w: course lookup by %q", repository.ErrInvalidArgument, field)
	}
	query := `SELECT ` + courseColumns + ` FROM courses WHERE ` + column + ` = $1`
	return scanCourse(r.pool.QueryRow(ctx, query, value))
}

// ListCourses returns courses whose name or code contains search, newest first.
func (r *Repository) ListCourses(ctx context.Context, search string) ([]domain.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses`
	var args []any
	if strings.TrimSpace(search) != "" {
		query += ` WHERE course_name ILIKE $1 OR course_code ILIKE $1`
		args = append(args, likePattern(search))
	}
	query += ` ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	courses := make([]domain.Course, 0)
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, *course)
	}
	return courses, rows.Err()
}

// InsertCourse inserts a course.
func (r *Repository) InsertCourse(ctx context.Context, course *domain.Course) error {
	const query = `INSERT INTO courses (id, course_code, course_name, credit, department, semester, teacher_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.pool.Exec(ctx, query, course.ID, course.CourseCode, course.CourseName, course.Credit, course.Department, course.Semester, course.TeacherID, course.CreatedAt, course.UpdatedAt)
	return mapError(err)
}

// UpdateCourse applies a partial update and returns the stored course.
func (r *Repository) UpdateCourse(ctx context.Context, id string, patch domain.CoursePatch) (*domain.Course, error) {
	const query = `UPDATE courses SET
			course_code = COALESCE($2, course_code),
			course_name = COALESCE($3, course_name),
			credit = COALESCE($4, credit),
			department = COALESCE($5, department),
			semester = COALESCE($6, semester),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + courseColumns
	return scanCourse(r.pool.QueryRow(ctx, query, id, patch.CourseCode, patch.CourseName, patch.Credit, patch.Department, patch.Semester))
}

// DeleteCourse removes a course.
func (r *Repository) DeleteCourse(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanCourse(row pgx.Row) (*domain.Course, error) {
	var c domain.Course
	if err := row.Scan(&c.ID, &c.CourseCode, &c.CourseName, &c.Credit, &c.Department, &c.Semester, &c.TeacherID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, mapError(err)
	}
	return &c, nil
}

const eventColumns = `id, title, date, location, description, created_by, created_at, updated_at`

// FindEvent fetches an event by id.
func (r *Repository) FindEvent(ctx context.Context, id string) (*domain.Event, error) {
	return scanEvent(r.pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
}

// ListEvents returns events whose title or location contains search, soonest first.
func (r *Repository) ListEvents(ctx context.Context, search string) ([]domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events`
	var args []any
	if strings.TrimSpace(search) != "" {
		query += ` WHERE title ILIKE $1 OR location ILIKE $1`
		args = append(args, likePattern(search))
	}
	query += ` ORDER BY date ASC`
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]domain.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}
	return events, rows.Err()
}

// InsertEvent inserts an event.
func (r *Repository) InsertEvent(ctx context.Context, event *domain.Event) error {
	const query = `INSERT INTO events (id, title, date, location, description, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.pool.Exec(ctx, query, event.ID, event.Title, event.Date, event.Location, event.Description, event.CreatedBy, event.CreatedAt, event.UpdatedAt)
	return mapError(err)
}

// UpdateEvent applies a partial update and returns the stored event.
func (r *Repository) UpdateEvent(ctx context.Context, id string, patch domain.EventPatch) (*domain.Event, error) {
	const query = `UPDATE events SET
			title = COALESCE($2, title),
			date = COALESCE($3, date),
			location = COALESCE($4, location),
			description = COALESCE($5, description),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + eventColumns
	return scanEvent(r.pool.QueryRow(ctx, query, id, patch.Title, patch.Date, patch.Location, patch.Description))
}

// DeleteEvent removes an event.
func (r *Repository) DeleteEvent(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanEvent(row pgx.Row) (*domain.Event, error) {
	var e domain.Event
	if err := row.Scan(&e.ID, &e.Title, &e.Date, &e.Location, &e.Description, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, mapError(err)
	}
	return &e, nil
}
