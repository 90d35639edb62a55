// Package memory provides a process-local store used for development and
// tests. It enforces the same uniqueness rules as the PostgreSQL schema.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Adnan2-a11y/LearnCraft/internal/domain"
	"github.com/Adnan2-a11y/LearnCraft/internal/repository"
)

// Store keeps every entity in maps guarded by a single mutex.
type Store struct {
	mu       sync.RWMutex
	users    map[string]domain.User
	profiles map[domain.ProfileRef]domain.Profile
	courses  map[string]domain.Course
	events   map[string]domain.Event
	now      func() time.Time
}

var _ repository.Store = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{
		users:    make(map[string]domain.User),
		profiles: make(map[domain.ProfileRef]domain.Profile),
		courses:  make(map[string]domain.Course),
		events:   make(map[string]domain.Event),
		now:      time.Now,
	}
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) FindUser(_ context.Context, field repository.Field, value string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch field {
	case repository.FieldID:
		if u, ok := s.users[value]; ok {
			return &u, nil
		}
		return nil, repository.ErrNotFound
	case repository.FieldUsername, repository.FieldEmail:
		for _, u := range s.users {
			if (field == repository.FieldUsername && u.Username == value) || (field == repository.FieldEmail && u.Email == value) {
				return &u, nil
			}
		}
		return nil, repository.ErrNotFound
	default:
		return nil, fmt.Errorf("%w: user lookup by %q", repository.ErrInvalidArgument, field)
	}
}

func (s *Store) FindUserByIdentity(_ context.Context, username, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username || u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) InsertUser(_ context.Context, user *domain.User) error {
	if user == nil || user.ID == "" {
		return repository.ErrInvalidArgument
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; ok {
		return fmt.Errorf("%w: users_pkey", repository.ErrConflict)
	}
	for _, u := range s.users {
		if u.Username == user.Username {
			return fmt.Errorf("%w: users_username_key", repository.ErrConflict)
		}
		if u.Email == user.Email {
			return fmt.Errorf("%w: users_email_key", repository.ErrConflict)
		}
	}
	stored := *user
	stored.PasswordHash = append([]byte(nil), user.PasswordHash...)
	s.users[user.ID] = stored
	return nil
}

func (s *Store) InsertProfile(_ context.Context, profile *domain.Profile) error {
	if profile == nil || profile.ID == "" || !profile.Kind.Valid() {
		return repository.ErrInvalidArgument
	}
	if (profile.Kind == domain.ProfileKindStudent && profile.Student == nil) || (profile.Kind == domain.ProfileKindTeacher && profile.Teacher == nil) {
		return repository.ErrInvalidArgument
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ref := profile.Ref()
	if _, ok := s.profiles[ref]; ok {
		return fmt.Errorf("%w: profile %s", repository.ErrConflict, ref.ID)
	}
	s.profiles[ref] = cloneProfile(*profile)
	return nil
}

func (s *Store) FindProfile(_ context.Context, ref domain.ProfileRef) (*domain.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[ref]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p = cloneProfile(p)
	return &p, nil
}

func (s *Store) DeleteProfile(_ context.Context, ref domain.ProfileRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.profiles, ref)
	return nil
}

// ProfileCount reports how many profiles are stored.
func (s *Store) ProfileCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles)
}

// UserCount reports how many users are stored.
func (s *Store) UserCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

func cloneProfile(p domain.Profile) domain.Profile {
	if p.Student != nil {
		student := *p.Student
		p.Student = &student
	}
	if p.Teacher != nil {
		teacher := *p.Teacher
		p.Teacher = &teacher
	}
	return p
}

func (s *Store) FindCourse(_ context.Context, field repository.Field, value string) (*domain.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch field {
	case repository.FieldID:
		if c, ok := s.courses[value]; ok {
			return &c, nil
		}
	case repository.FieldCourseCode:
		for _, c := range s.courses {
			if c.CourseCode == value {
				return &c, nil
			}
		}
	default:
		return nil, fmt.Errorf("%w: course lookup by %q", repository.ErrInvalidArgument, field)
	}
	return nil, repository.ErrNotFound
}

func (s *Store) ListCourses(_ context.Context, search string) ([]domain.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	needle := strings.ToLower(strings.TrimSpace(search))
	courses := make([]domain.Course, 0, len(s.courses))
	for _, c := range s.courses {
		if needle == "" || strings.Contains(strings.ToLower(c.CourseName), needle) || strings.Contains(strings.ToLower(c.CourseCode), needle) {
			courses = append(courses, c)
		}
	}
	sort.Slice(courses, func(i, j int) bool {
		return courses[i].CreatedAt.After(courses[j].CreatedAt)
	})
	return courses, nil
}

func (s *Store) InsertCourse(_ context.Context, course *domain.Course) error {
	if course == nil || course.ID == "" {
		return repository.ErrInvalidArgument
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.courses[course.ID]; ok {
		return fmt.Errorf("%w: courses_pkey", repository.ErrConflict)
	}
	if s.courseCodeTaken(course.CourseCode, "") {
		return fmt.Errorf("%w: courses_course_code_key", repository.ErrConflict)
	}
	s.courses[course.ID] = *course
	return nil
}

func (s *Store) UpdateCourse(_ context.Context, id string, patch domain.CoursePatch) (*domain.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.courses[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if patch.CourseCode != nil && s.courseCodeTaken(*patch.CourseCode, id) {
		return nil, fmt.Errorf("%w: courses_course_code_key", repository.ErrConflict)
	}
	patch.Apply(&c)
	c.UpdatedAt = s.now().UTC()
	s.courses[id] = c
	return &c, nil
}

func (s *Store) DeleteCourse(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.courses[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.courses, id)
	return nil
}

// courseCodeTaken must be called with the lock held.
func (s *Store) courseCodeTaken(code, exceptID string) bool {
	for id, c := range s.courses {
		if id != exceptID && c.CourseCode == code {
			return true
		}
	}
	return false
}

func (s *Store) FindEvent(_ context.Context, id string) (*domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.events[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (s *Store) ListEvents(_ context.Context, search string) ([]domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	needle := strings.ToLower(strings.TrimSpace(search))
	events := make([]domain.Event, 0, len(s.events))
	for _, e := range s.events {
		if needle == "" || strings.Contains(strings.ToLower(e.Title), needle) || strings.Contains(strings.ToLower(e.Location), needle) {
			events = append(events, e)
		}
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})
	return events, nil
}

func (s *Store) InsertEvent(_ context.Context, event *domain.Event) error {
	if event == nil || event.ID == "" {
		return repository.ErrInvalidArgument
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[event.ID]; ok {
		return fmt.Errorf("%w: events_pkey", repository.ErrConflict)
	}
	s.events[event.ID] = *event
	return nil
}

func (s *Store) UpdateEvent(_ context.Context, id string, patch domain.EventPatch) (*domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	patch.Apply(&e)
	e.UpdatedAt = s.now().UTC()
	s.events[id] = e
	return &e, nil
}

func (s *Store) DeleteEvent(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.events, id)
	return nil
}
