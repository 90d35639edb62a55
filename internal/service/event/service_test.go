package event

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Adnan2-a11y/LearnCraft/internal/apperror"
	"github.com/Adnan2-a11y/LearnCraft/internal/domain"
	"github.com/Adnan2-a11y/LearnCraft/internal/repository/memory"
)

var (
	teacher = &domain.Principal{ID: "t1", Role: domain.RoleTeacher}
	student = &domain.Principal{ID: "s1", Role: domain.RoleStudent}
)

func newService() Service {
	return New(memory.New(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCreateAndGet(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	event, err := svc.Create(ctx, teacher, CreateInput{Title: "Orientation", Date: "2024-09-01", Location: "Hall A"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !event.Date.Equal(time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date %s", event.Date)
	}
	got, err := svc.Get(ctx, event.ID)
	if err != nil || got.CreatedBy != teacher.ID {
		t.Fatalf("get: %v %+v", err, got)
	}
}

func TestMutationsRequireTeacher(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	if _, err := svc.Create(ctx, student, CreateInput{Title: "x", Date: "2024-09-01", Location: "y"}); !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if err := svc.Delete(ctx, student, "e1"); !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestCreateRejectsBadDate(t *testing.T) {
	svc := newService()
	_, err := svc.Create(context.Background(), teacher, CreateInput{Title: "x", Date: "next friday", Location: "y"})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	event, err := svc.Create(ctx, teacher, CreateInput{Title: "Orientation", Date: "2024-09-01T10:00:00Z", Location: "Hall A"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	location := "Hall B"
	updated, err := svc.Update(ctx, teacher, event.ID, UpdateInput{Location: &location})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Location != "Hall B" || updated.Title != "Orientation" {
		t.Fatalf("unexpected event: %+v", updated)
	}
	if err := svc.Delete(ctx, teacher, event.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Update(ctx, teacher, event.ID, UpdateInput{Location: &location}); !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
