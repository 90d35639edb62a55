package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Adnan2-a11y/LearnCraft/internal/apperror"
	"github.com/Adnan2-a11y/LearnCraft/internal/domain"
	"github.com/Adnan2-a11y/LearnCraft/internal/repository"
)

// ErrOrphanedProfile marks a profile left behind because its compensating
// delete failed. Operators must remove it by hand.
var ErrOrphanedProfile = errors.New("auth: orphaned profile")

const compensationTimeout = 5 * time.Second

type sagaState int

const (
	sagaStarted sagaState = iota
	sagaProfileCreated
	sagaUserCreated
	sagaUserFailed
	sagaProfileCompensated
	sagaProfileCompensationFailed
)

func (s sagaState) String() string {
	switch s {
	case sagaStarted:
		return "started"
	case sagaProfileCreated:
		return "profile_created"
	case sagaUserCreated:
		return "user_created"
	case sagaUserFailed:
		return "user_failed"
	case sagaProfileCompensated:
		return "profile_compensated"
	case sagaProfileCompensationFailed:
		return "profile_compensation_failed"
	default:
		return "unknown"
	}
}

// registration writes the profile and then the user. If the user insert fails
// the profile is deleted again.
type registration struct {
	svc     Service
	state   sagaState
	profile *domain.Profile
	user    *domain.User
}

func (s Service) newRegistration(in RegisterInput, hash []byte) *registration {
	now := s.now().UTC()
	var profile *domain.Profile
	switch in.Role {
	case domain.RoleTeacher:
		profile = domain.NewTeacherProfile(s.newID(), domain.TeacherProfile{
			FullName:    in.FullName,
			Email:       in.Email,
			Department:  in.Department,
			Designation: in.Designation,
			Phone:       in.Phone,
		}, now)
	default:
		profile = domain.NewStudentProfile(s.newID(), domain.StudentProfile{
			FullName:   in.FullName,
			StudentID:  in.StudentID,
			Department: in.Department,
			Batch:      in.Batch,
			Phone:      in.Phone,
			Email:      in.Email,
		}, now)
	}
	user := &domain.User{
		ID:           s.newID(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		Profile:      profile.Ref(),
		CreatedAt:    now,
	}
	return &registration{svc: s, state: sagaStarted, profile: profile, user: user}
}

func (r *registration) run(ctx context.Context) error {
	if err := r.svc.profiles.InsertProfile(ctx, r.profile); err != nil {
		return apperror.Server("server error during registration", err)
	}
	r.transition(sagaProfileCreated)

	if err := r.svc.users.InsertUser(ctx, r.user); err != nil {
		r.transition(sagaUserFailed)
		return r.compensate(ctx, err)
	}
	r.transition(sagaUserCreated)
	return nil
}

// compensate removes the profile written in phase one and classifies cause.
func (r *registration) compensate(ctx context.Context, cause error) error {
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
	defer cancel()

	if err := r.svc.profiles.DeleteProfile(cctx, r.profile.Ref()); err != nil {
		r.transition(sagaProfileCompensationFailed)
		r.svc.logger.Error("profile compensation failed",
			"profile_id", r.profile.ID,
			"profile_kind", r.profile.Kind,
			"username", r.user.Username,
			"cause", cause,
			"error", err,
		)
		orphan := fmt.Errorf("%w %s: %w", ErrOrphanedProfile, r.profile.ID, err)
		return apperror.Server("server error during registration", errors.Join(cause, orphan))
	}
	r.transition(sagaProfileCompensated)

	if errors.Is(cause, repository.ErrConflict) {
		return apperror.DuplicateIdentity("user with this username or email already exists", cause)
	}
	return apperror.Server("server error during registration", cause)
}

func (r *registration) transition(next sagaState) {
	r.svc.logger.Debug("registration step", "from", r.state.String(), "to", next.String(), "profile_id", r.profile.ID)
	r.state = next
}
