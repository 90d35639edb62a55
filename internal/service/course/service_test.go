package course

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/Adnan2-a11y/LearnCraft/internal/apperror"
	"github.com/Adnan2-a11y/LearnCraft/internal/domain"
	"github.com/Adnan2-a11y/LearnCraft/internal/repository/memory"
)

var (
	teacherOne = &domain.Principal{ID: "t1", Username: "tina", Role: domain.RoleTeacher}
	teacherTwo = &domain.Principal{ID: "t2", Username: "tom", Role: domain.RoleTeacher}
	student    = &domain.Principal{ID: "s1", Username: "sam", Role: domain.RoleStudent}
)

func newService() (Service, *memory.Store) {
	store := memory.New()
	return New(store, slog.New(slog.NewTextHandler(io.Discard, nil))), store
}

func algorithms() CreateInput {
	return CreateInput{CourseCode: "CSE201", CourseName: "Algorithms", Credit: 3, Department: "CSE", Semester: "Fall"}
}

func TestCreateRequiresTeacher(t *testing.T) {
	svc, _ := newService()
	if _, err := svc.Create(context.Background(), student, algorithms()); !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestCreateValidatesAndRejectsDuplicateCode(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, teacherOne, CreateInput{CourseCode: "X"}); !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	course, err := svc.Create(ctx, teacherOne, algorithms())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if course.TeacherID != teacherOne.ID {
		t.Fatalf("expected owner %s, got %s", teacherOne.ID, course.TeacherID)
	}
	if _, err := svc.Create(ctx, teacherTwo, algorithms()); !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("expected duplicate code rejection, got %v", err)
	}
}

func TestDeleteEnforcesOwnership(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	course, err := svc.Create(ctx, teacherOne, algorithms())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(ctx, teacherTwo, course.ID); !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("expected forbidden for other teacher, got %v", err)
	}
	if err := svc.Delete(ctx, teacherOne, course.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if _, err := svc.Get(ctx, course.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected course gone, got %v", err)
	}
}

func TestNotFoundWinsOverForbidden(t *testing.T) {
	svc, _ := newService()
	if err := svc.Delete(context.Background(), teacherTwo, "missing"); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdate(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	course, err := svc.Create(ctx, teacherOne, algorithms())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	other := algorithms()
	other.CourseCode = "CSE301"
	if _, err := svc.Create(ctx, teacherOne, other); err != nil {
		t.Fatalf("create other: %v", err)
	}

	name := " Advanced Algorithms "
	updated, err := svc.Update(ctx, teacherOne, course.ID, UpdateInput{CourseName: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.CourseName != "Advanced Algorithms" || updated.CourseCode != "CSE201" {
		t.Fatalf("unexpected course: %+v", updated)
	}

	taken := "CSE301"
	if _, err := svc.Update(ctx, teacherOne, course.ID, UpdateInput{CourseCode: &taken}); !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("expected duplicate code rejection, got %v", err)
	}
	if _, err := svc.Update(ctx, teacherTwo, course.ID, UpdateInput{CourseName: &name}); !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	zero := 0.0
	if _, err := svc.Update(ctx, teacherOne, course.ID, UpdateInput{Credit: &zero}); !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("expected credit validation, got %v", err)
	}
}

func TestListSearch(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	if _, err := svc.Create(ctx, teacherOne, algorithms()); err != nil {
		t.Fatalf("create: %v", err)
	}
	courses, err := svc.List(ctx, "algo")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(courses) != 1 {
		t.Fatalf("expected one match, got %d", len(courses))
	}
	none, _ := svc.List(ctx, "physics")
	if len(none) != 0 {
		t.Fatalf("expected no match, got %d", len(none))
	}
}
