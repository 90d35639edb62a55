package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Adnan2-a11y/LearnCraft/internal/apperror"
	"github.com/Adnan2-a11y/LearnCraft/internal/domain"
	"github.com/Adnan2-a11y/LearnCraft/internal/repository"
	"github.com/Adnan2-a11y/LearnCraft/internal/validate"
	"github.com/Adnan2-a11y/LearnCraft/pkg/crypto"
	jwtpkg "github.com/Adnan2-a11y/LearnCraft/pkg/jwt"
)

const invalidCredentialsMessage = "invalid email or password"

// TokenService issues and verifies session tokens.
type TokenService interface {
	Issue(userID, role string) (jwtpkg.Token, error)
	Verify(token string) (*jwtpkg.Claims, error)
}

// PasswordHasher hashes and checks passwords.
type PasswordHasher interface {
	Hash(plain string) ([]byte, error)
	Compare(hash []byte, plain string) error
	CompareDummy(plain string)
}

// Service handles authentication workflows.
type Service struct {
	users     repository.UserRepository
	profiles  repository.ProfileRepository
	tokens    TokenService
	hasher    PasswordHasher
	validator *validate.Validator
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string
}

// New constructs a Service.
func New(users repository.UserRepository, profiles repository.ProfileRepository, tokens TokenService, hasher PasswordHasher, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return Service{
		users:     users,
		profiles:  profiles,
		tokens:    tokens,
		hasher:    hasher,
		validator: validate.New(),
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// RegisterInput carries the registration form.
type RegisterInput struct {
	Username    string      `json:"username" validate:"required,min=3"`
	Email       string      `json:"email" validate:"required,email"`
	Password    string      `json:"password" validate:"required,min=6,max_bytes=72,password_policy"`
	Role        domain.Role `json:"role" validate:"oneof=student teacher"`
	FullName    string      `json:"fullName" validate:"required"`
	StudentID   string      `json:"studentId" validate:"required_if=Role student"`
	Department  string      `json:"department"`
	Batch       string      `json:"batch"`
	Phone       string      `json:"phone"`
	Designation string      `json:"designation"`
}

func (in *RegisterInput) normalize() {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = normalizeEmail(in.Email)
	in.Role = domain.Role(strings.ToLower(strings.TrimSpace(string(in.Role))))
	if in.Role == "" {
		in.Role = domain.RoleStudent
	}
	in.FullName = strings.TrimSpace(in.FullName)
	in.StudentID = strings.TrimSpace(in.StudentID)
	in.Department = strings.TrimSpace(in.Department)
	in.Batch = strings.TrimSpace(in.Batch)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Designation = strings.TrimSpace(in.Designation)
}

// LoginInput carries the login form.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Account is a user together with its resolved profile.
type Account struct {
	User    *domain.User
	Profile *domain.Profile
}

// Session is an authenticated account and its token.
type Session struct {
	Account
	Token jwtpkg.Token
}

// Register creates a profile and a user as one logical unit and signs the new
// account in.
func (s Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	in.normalize()
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	existing, err := s.users.FindUserByIdentity(ctx, in.Username, in.Email)
	switch {
	case err == nil && existing != nil:
		return nil, apperror.DuplicateIdentity("user with this username or email already exists", nil)
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		return nil, apperror.Server("server error during registration", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperror.Server("server error during registration", err)
	}

	reg := s.newRegistration(in, hash)
	if err := reg.run(ctx); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(reg.user.ID, string(reg.user.Role))
	if err != nil {
		return nil, apperror.Server("server error during registration", err)
	}
	s.logger.Info("user registered", "user_id", reg.user.ID, "role", reg.user.Role, "profile_id", reg.profile.ID)
	return &Session{Account: Account{User: reg.user, Profile: reg.profile}, Token: token}, nil
}

// Login verifies credentials and issues a token.
func (s Service) Login(ctx context.Context, in LoginInput) (*Session, error) {
	in.Email = normalizeEmail(in.Email)
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	user, err := s.users.FindUser(ctx, repository.FieldEmail, in.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.hasher.CompareDummy(in.Password)
			return nil, apperror.InvalidCredential(invalidCredentialsMessage)
		}
		return nil, apperror.Server("server error during login", err)
	}
	if err := s.hasher.Compare(user.PasswordHash, in.Password); err != nil {
		if errors.Is(err, crypto.ErrPasswordMismatch) {
			s.logger.Warn("login rejected", "user_id", user.ID)
			return nil, apperror.InvalidCredential(invalidCredentialsMessage)
		}
		return nil, apperror.Server("server error during login", err)
	}

	token, err := s.tokens.Issue(user.ID, string(user.Role))
	if err != nil {
		return nil, apperror.Server("server error during login", err)
	}
	profile := s.lookupProfile(ctx, user)
	s.logger.Info("user logged in", "user_id", user.ID)
	return &Session{Account: Account{User: user, Profile: profile}, Token: token}, nil
}

// Authorize validates a session token and returns the principal it belongs to.
func (s Service) Authorize(ctx context.Context, token string) (*domain.Principal, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return nil, apperror.Unauthenticated("authentication required", nil)
	}
	claims, err := s.tokens.Verify(trimmed)
	if err != nil {
		if errors.Is(err, jwtpkg.ErrExpiredToken) {
			return nil, apperror.ExpiredToken(err)
		}
		return nil, apperror.InvalidToken(err)
	}
	user, err := s.users.FindUser(ctx, repository.FieldID, claims.UserID())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.Unauthenticated("user no longer exists", err)
		}
		return nil, apperror.Server("server error during authentication", err)
	}
	principal := user.Principal()
	return &principal, nil
}

// Me returns the account of an authenticated user.
func (s Service) Me(ctx context.Context, userID string) (*Account, error) {
	user, err := s.users.FindUser(ctx, repository.FieldID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("user not found")
		}
		return nil, apperror.Server("failed to load user", err)
	}
	return &Account{User: user, Profile: s.lookupProfile(ctx, user)}, nil
}

// lookupProfile resolves the profile of user. A dangling reference is logged
// and yields nil.
func (s Service) lookupProfile(ctx context.Context, user *domain.User) *domain.Profile {
	profile, err := s.profiles.FindProfile(ctx, user.Profile)
	if err != nil {
		s.logger.Warn("profile lookup failed", "user_id", user.ID, "profile_id", user.Profile.ID, "error", err)
		return nil
	}
	return profile
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
