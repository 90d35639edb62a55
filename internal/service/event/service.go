package event

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
	"github.com/Adnan2-a11y/LearnCraft/internal/service/access"
	"github.com/Adnan2-a11y/LearnCraft/internal/validate"
)

// dateLayouts are accepted for event dates, most specific first.
var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

// CreateInput encapsulates event creation attributes.
type CreateInput struct {
	Title       string `json:"title" validate:"required"`
	Date        string `json:"date" validate:"required"`
	Location    string `json:"location" validate:"required"`
	Description string `json:"description"`
}

// UpdateInput carries a partial event update.
type UpdateInput struct {
	Title       *string `json:"title" validate:"omitnil,min=1"`
	Date        *string `json:"date" validate:"omitnil,min=1"`
	Location    *string `json:"location" validate:"omitnil,min=1"`
	Description *string `json:"description"`
}

// Service manages campus events.
type Service struct {
	events    repository.EventRepository
	validator *validate.Validator
	logger    *slog.Logger
	now       func() time.Time
}

// New returns an event service.
func New(events repository.EventRepository, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return Service{events: events, validator: validate.New(), logger: logger, now: time.Now}
}

// List returns events matching search on title or location.
func (s Service) List(ctx context.Context, search string) ([]domain.Event, error) {
	events, err := s.events.ListEvents(ctx, search)
	if err != nil {
		return nil, apperror.Server("error fetching events", err)
	}
	return events, nil
}

// Get returns a single event.
func (s Service) Get(ctx context.Context, id string) (*domain.Event, error) {
	event, err := s.events.FindEvent(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("event not found")
		}
		return nil, apperror.Server("error fetching event", err)
	}
	return event, nil
}

// Create publishes an event. Teachers only.
func (s Service) Create(ctx context.Context, principal *domain.Principal, in CreateInput) (*domain.Event, error) {
	if err := access.RequireRole(principal, domain.RoleTeacher); err != nil {
		return nil, err
	}
	in.Title = strings.TrimSpace(in.Title)
	in.Location = strings.TrimSpace(in.Location)
	in.Description = strings.TrimSpace(in.Description)
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}
	date, err := parseDate(in.Date)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	event := &domain.Event{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Date:        date,
		Location:    in.Location,
		Description: in.Description,
		CreatedBy:   principal.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.events.InsertEvent(ctx, event); err != nil {
		return nil, apperror.Server("error creating event", err)
	}
	s.logger.Info("event created", "event_id", event.ID, "user_id", principal.ID)
	return event, nil
}

// Update changes an event. Teachers only.
func (s Service) Update(ctx context.Context, principal *domain.Principal, id string, in UpdateInput) (*domain.Event, error) {
	if err := access.RequireRole(principal, domain.RoleTeacher); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}
	patch := domain.EventPatch{
		Title:       trimmed(in.Title),
		Location:    trimmed(in.Location),
		Description: trimmed(in.Description),
	}
	if in.Date != nil {
		date, err := parseDate(*in.Date)
		if err != nil {
			return nil, err
		}
		patch.Date = &date
	}
	if patch.Empty() {
		return s.Get(ctx, id)
	}

	updated, err := s.events.UpdateEvent(ctx, id, patch)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("event not found")
		}
		return nil, apperror.Server("error updating event", err)
	}
	s.logger.Info("event updated", "event_id", id, "user_id", principal.ID)
	return updated, nil
}

// Delete removes an event. Teachers only.
func (s Service) Delete(ctx context.Context, principal *domain.Principal, id string) error {
	if err := access.RequireRole(principal, domain.RoleTeacher); err != nil {
		return err
	}
	if err := s.events.DeleteEvent(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound("event not found")
		}
		return apperror.Server("error deleting event", err)
	}
	s.logger.Info("event deleted", "event_id", id, "user_id", principal.ID)
	return nil
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, apperror.Validation("validation failed", apperror.FieldError{
		Field:   "date",
		Message: "date must be an ISO 8601 date or timestamp",
	})
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	return &t
}
