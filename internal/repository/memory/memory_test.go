package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Adnan2-a11y/LearnCraft/internal/domain"
	"github.com/Adnan2-a11y/LearnCraft/internal/repository"
)

func TestInsertUserRejectsDuplicateUsernameAndEmail(t *testing.T) {
	store := New()
	ctx := context.Background()
	first := &domain.User{ID: "u1", Username: "alice", Email: "alice@example.com", Role: domain.RoleStudent}
	if err := store.InsertUser(ctx, first); err != nil {
		t.Fatalf("insert: %v", err)
	}

	sameName := &domain.User{ID: "u2", Username: "alice", Email: "other@example.com"}
	if err := store.InsertUser(ctx, sameName); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("expected conflict on username, got %v", err)
	}
	sameEmail := &domain.User{ID: "u3", Username: "bob", Email: "alice@example.com"}
	if err := store.InsertUser(ctx, sameEmail); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("expected conflict on email, got %v", err)
	}
	if store.UserCount() != 1 {
		t.Fatalf("expected a single user, got %d", store.UserCount())
	}
}

func TestFindUserByFields(t *testing.T) {
	store := New()
	ctx := context.Background()
	user := &domain.User{ID: "u1", Username: "alice", Email: "alice@example.com"}
	if err := store.InsertUser(ctx, user); err != nil {
		t.Fatalf("insert: %v", err)
	}

	for field, value := range map[repository.Field]string{
		repository.FieldID:       "u1",
		repository.FieldUsername: "alice",
		repository.FieldEmail:    "alice@example.com",
	} {
		got, err := store.FindUser(ctx, field, value)
		if err != nil {
			t.Fatalf("find by %s: %v", field, err)
		}
		if got.ID != "u1" {
			t.Fatalf("find by %s returned %s", field, got.ID)
		}
	}

	if _, err := store.FindUser(ctx, repository.FieldEmail, "nobody@example.com"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := store.FindUser(ctx, repository.FieldCourseCode, "x"); !errors.Is(err, repository.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
	if _, err := store.FindUserByIdentity(ctx, "someone", "alice@example.com"); err != nil {
		t.Fatalf("identity lookup by email: %v", err)
	}
}

func TestDeleteProfileIsIdempotent(t *testing.T) {
	store := New()
	ctx := context.Background()
	profile := domain.NewStudentProfile("p1", domain.StudentProfile{FullName: "Alice", StudentID: "S-1"}, time.Now())
	if err := store.InsertProfile(ctx, profile); err != nil {
		t.Fatalf("insert profile: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := store.DeleteProfile(ctx, profile.Ref()); err != nil {
			t.Fatalf("delete #%d: %v", i+1, err)
		}
	}
	if store.ProfileCount() != 0 {
		t.Fatalf("expected no profiles, got %d", store.ProfileCount())
	}
	if _, err := store.FindProfile(ctx, profile.Ref()); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestInsertProfileRejectsMismatchedVariant(t *testing.T) {
	store := New()
	bad := &domain.Profile{ID: "p1", Kind: domain.ProfileKindTeacher, Student: &domain.StudentProfile{FullName: "x"}}
	if err := store.InsertProfile(context.Background(), bad); !errors.Is(err, repository.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestCourseCodeUniqueness(t *testing.T) {
	store := New()
	ctx := context.Background()
	for _, c := range []domain.Course{
		{ID: "c1", CourseCode: "CSE101", CourseName: "Intro"},
		{ID: "c2", CourseCode: "CSE102", CourseName: "Data Structures"},
	} {
		c := c
		if err := store.InsertCourse(ctx, &c); err != nil {
			t.Fatalf("insert %s: %v", c.ID, err)
		}
	}
	if err := store.InsertCourse(ctx, &domain.Course{ID: "c3", CourseCode: "CSE101"}); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	taken := "CSE101"
	if _, err := store.UpdateCourse(ctx, "c2", domain.CoursePatch{CourseCode: &taken}); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("expected conflict on update, got %v", err)
	}
	// keeping its own code is not a conflict
	same := "CSE102"
	if _, err := store.UpdateCourse(ctx, "c2", domain.CoursePatch{CourseCode: &same}); err != nil {
		t.Fatalf("update with own code: %v", err)
	}
}

func TestListCoursesFiltersBySearch(t *testing.T) {
	store := New()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range []domain.Course{
		{ID: "c1", CourseCode: "CSE101", CourseName: "Intro to Programming"},
		{ID: "c2", CourseCode: "MAT201", CourseName: "Linear Algebra"},
	} {
		c := c
		c.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		if err := store.InsertCourse(ctx, &c); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	all, _ := store.ListCourses(ctx, "")
	if len(all) != 2 || all[0].ID != "c2" {
		t.Fatalf("expected newest first, got %+v", all)
	}
	found, _ := store.ListCourses(ctx, "algebra")
	if len(found) != 1 || found[0].ID != "c2" {
		t.Fatalf("expected algebra match, got %+v", found)
	}
	byCode, _ := store.ListCourses(ctx, "cse")
	if len(byCode) != 1 || byCode[0].ID != "c1" {
		t.Fatalf("expected code match, got %+v", byCode)
	}
}

func TestEventLifecycle(t *testing.T) {
	store := New()
	ctx := context.Background()
	event := &domain.Event{ID: "e1", Title: "Orientation", Date: time.Date(2024, 9, 1, 10, 0, 0, 0, time.UTC)}
	if err := store.InsertEvent(ctx, event); err != nil {
		t.Fatalf("insert: %v", err)
	}
	title := "Welcome Week"
	updated, err := store.UpdateEvent(ctx, "e1", domain.EventPatch{Title: &title})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != title || updated.UpdatedAt.IsZero() {
		t.Fatalf("unexpected update result: %+v", updated)
	}
	if err := store.DeleteEvent(ctx, "e1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.DeleteEvent(ctx, "e1"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}
