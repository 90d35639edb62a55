package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Adnan2-a11y/LearnCraft/internal/domain"
	"github.com/Adnan2-a11y/LearnCraft/internal/repository"
)

const (
	pgUniqueViolation   = "23505"
	pgInvalidTextFormat = "22P02"
)

// Repository implements persistence interfaces on PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// New constructs a Repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ensure Repository satisfies interfaces.
var _ repository.Store = (*Repository)(nil)

// Ping checks database connectivity.
func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

const userColumns = `id, username, email, password_hash, role, profile_id, profile_kind, created_at`

var userLookupColumns = map[repository.Field]string{
	repository.FieldID:       "id",
	repository.FieldUsername: "username",
	repository.FieldEmail:    "email",
}

// FindUser fetches a user by one of its unique fields.
func (r *Repository) FindUser(ctx context.Context, field repository.Field, value string) (*domain.User, error) {
	column, ok := userLookupColumns[field]
	if !ok {
		return nil, fmt.Errorf("%w: user lookup by %q", repository.ErrInvalidArgument, field)
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + column + ` = $1`
	return scanUser(r.pool.QueryRow(ctx, query, value))
}

// FindUserByIdentity fetches the first user holding either the username or the email.
func (r *Repository) FindUserByIdentity(ctx context.Context, username, email string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE username = $1 OR email = $2 LIMIT 1`
	return scanUser(r.pool.QueryRow(ctx, query, username, email))
}

// InsertUser inserts a user.
func (r *Repository) InsertUser(ctx context.Context, user *domain.User) error {
	const query = `INSERT INTO users (id, username, email, password_hash, role, profile_id, profile_kind, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.pool.Exec(ctx, query, user.ID, user.Username, user.Email, user.PasswordHash, string(user.Role), user.Profile.ID, string(user.Profile.Kind), user.CreatedAt)
	return mapError(err)
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u           domain.User
		role        string
		profileKind string
	)
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &role, &u.Profile.ID, &profileKind, &u.CreatedAt); err != nil {
		return nil, mapError(err)
	}
	u.Role = domain.Role(role)
	u.Profile.Kind = domain.ProfileKind(profileKind)
	return &u, nil
}

// InsertProfile stores a profile in the table of its variant.
func (r *Repository) InsertProfile(ctx context.Context, profile *domain.Profile) error {
	if profile == nil {
		return repository.ErrInvalidArgument
	}
	switch profile.Kind {
	case domain.ProfileKindStudent:
		if profile.Student == nil {
			return repository.ErrInvalidArgument
		}
		const query = `INSERT INTO students (id, full_name, student_id, department, batch, phone, email, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
		s := profile.Student
		_, err := r.pool.Exec(ctx, query, profile.ID, s.FullName, s.StudentID, s.Department, s.Batch, s.Phone, s.Email, profile.CreatedAt)
		return mapError(err)
	case domain.ProfileKindTeacher:
		if profile.Teacher == nil {
			return repository.ErrInvalidArgument
		}
		const query = `INSERT INTO teachers (id, full_name, email, department, designation, phone, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`
		t := profile.Teacher
		_, err := r.pool.Exec(ctx, query, profile.ID, t.FullName, t.Email, t.Department, t.Designation, t.Phone, profile.CreatedAt)
		return mapError(err)
	default:
		return fmt.Errorf("%w: profile kind %q", repository.ErrInvalidArgument, profile.Kind)
	}
}

// FindProfile resolves a profile reference.
func (r *Repository) FindProfile(ctx context.Context, ref domain.ProfileRef) (*domain.Profile, error) {
	profile := domain.Profile{ID: ref.ID, Kind: ref.Kind}
	switch ref.Kind {
	case domain.ProfileKindStudent:
		const query = `SELECT full_name, student_id, department, batch, phone, email, created_at FROM students WHERE id = $1`
		var s domain.StudentProfile
		if err := r.pool.QueryRow(ctx, query, ref.ID).Scan(&s.FullName, &s.StudentID, &s.Department, &s.Batch, &s.Phone, &s.Email, &profile.CreatedAt); err != nil {
			return nil, mapError(err)
		}
		profile.Student = &s
	case domain.ProfileKindTeacher:
		const query = `SELECT full_name, email, department, designation, phone, created_at FROM teachers WHERE id = $1`
		var t domain.TeacherProfile
		if err := r.pool.QueryRow(ctx, query, ref.ID).Scan(&t.FullName, &t.Email, &t.Department, &t.Designation, &t.Phone, &profile.CreatedAt); err != nil {
			return nil, mapError(err)
		}
		profile.Teacher = &t
	default:
		return nil, fmt.Errorf("%w: profile kind %q", repository.ErrInvalidArgument, ref.Kind)
	}
	return &profile, nil
}

// DeleteProfile removes a profile. Missing rows are not an error so the call
// can be repeated safely.
func (r *Repository) DeleteProfile(ctx context.Context, ref domain.ProfileRef) error {
	var query string
	switch ref.Kind {
	case domain.ProfileKindStudent:
		query = `DELETE FROM students WHERE id = $1`
	case domain.ProfileKindTeacher:
		query = `DELETE FROM teachers WHERE id = $1`
	default:
		return fmt.Errorf("%w: profile kind %q", repository.ErrInvalidArgument, ref.Kind)
	}
	_, err := r.pool.Exec(ctx, query, ref.ID)
	if err = mapError(err); errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	return err
}

// mapError translates driver errors into repository sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", repository.ErrConflict, pgErr.ConstraintName)
		case pgInvalidTextFormat:
			// malformed uuid: nothing can match it
			return repository.ErrNotFound
		}
	}
	return err
}

// likePattern turns free text into a case-insensitive substring pattern.
func likePattern(search string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(strings.TrimSpace(search)) + "%"
}
