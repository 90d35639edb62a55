package client

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/crypto/bcrypt"

	httpx "github.com/Adnan2-a11y/LearnCraft/internal/http"
	"github.com/Adnan2-a11y/LearnCraft/internal/ratelimit"
	"github.com/Adnan2-a11y/LearnCraft/internal/repository/memory"
	"github.com/Adnan2-a11y/LearnCraft/internal/service/auth"
	"github.com/Adnan2-a11y/LearnCraft/internal/service/course"
	"github.com/Adnan2-a11y/LearnCraft/internal/service/event"
	"github.com/Adnan2-a11y/LearnCraft/pkg/config"
	"github.com/Adnan2-a11y/LearnCraft/pkg/crypto"
	jwtpkg "github.com/Adnan2-a11y/LearnCraft/pkg/jwt"
)

func newTestAPI(t *testing.T) *Client {
	t.Helper()
	store := memory.New()
	tokens, err := jwtpkg.NewService(&config.TokenConfig{Secret: "client-secret", Issuer: "learncraft", TTL: time.Hour})
	if err != nil {
		t.Fatalf("token service: %v", err)
	}
	hasher, err := crypto.NewPasswordHasher(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hasher: %v", err)
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	registry := prometheus.NewRegistry()
	router := httpx.NewRouter(httpx.Options{
		Logger:     logger,
		Auth:       auth.New(store, store, tokens, hasher, logger),
		Courses:    course.New(store, logger),
		Events:     event.New(store, logger),
		Limiter:    ratelimit.NewMemory(),
		Cookie:     httpx.CookieConfig{MaxAge: time.Hour},
		Registerer: registry,
		Gatherer:   registry,
	})
	srv := httptest.NewServer(router)
	t.Cleanup(func() {
		srv.Close()
		router.Close()
	})

	cli, err := New(srv.URL, WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return cli
}

func strPtr(s string) *string { return &s }

func TestClientSessionFlow(t *testing.T) {
	cli := newTestAPI(t)
	ctx := context.Background()

	session, err := cli.Register(ctx, RegisterInput{
		Username:    "tina",
		Email:       "tina@x.com",
		Password:    "Teach3r!",
		Role:        "teacher",
		FullName:    "Tina",
		Designation: "Lecturer",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if session.Token == "" || session.User.Role != "teacher" || session.Profile == nil || session.Profile.Kind != "Teacher" {
		t.Fatalf("unexpected session: %+v", session)
	}

	login, err := cli.Login(ctx, "tina@x.com", "Teach3r!")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	me, err := cli.Me(ctx, login.Token)
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if me.User.ID != session.User.ID {
		t.Fatalf("me returned %s, want %s", me.User.ID, session.User.ID)
	}
	if err := cli.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
}

func TestClientCourseAndEventCalls(t *testing.T) {
	cli := newTestAPI(t)
	ctx := context.Background()
	session, err := cli.Register(ctx, RegisterInput{
		Username: "tina", Email: "tina@x.com", Password: "Teach3r!", Role: "teacher", FullName: "Tina",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	credit := 3.0
	created, err := cli.CreateCourse(ctx, session.Token, CourseInput{
		CourseCode: strPtr("CSE201"),
		CourseName: strPtr("Algorithms"),
		Credit:     &credit,
		Department: strPtr("CSE"),
		Semester:   strPtr("Fall"),
	})
	if err != nil {
		t.Fatalf("create course: %v", err)
	}
	if created.TeacherID != session.User.ID {
		t.Fatalf("course owner %s, want %s", created.TeacherID, session.User.ID)
	}

	updated, err := cli.UpdateCourse(ctx, session.Token, created.ID, CourseInput{CourseName: strPtr("Advanced Algorithms")})
	if err != nil {
		t.Fatalf("update course: %v", err)
	}
	if updated.CourseName != "Advanced Algorithms" || updated.CourseCode != "CSE201" {
		t.Fatalf("unexpected update: %+v", updated)
	}

	courses, err := cli.ListCourses(ctx, session.Token, "advanced")
	if err != nil || len(courses) != 1 {
		t.Fatalf("list courses: %v %+v", err, courses)
	}
	if err := cli.DeleteCourse(ctx, session.Token, created.ID); err != nil {
		t.Fatalf("delete course: %v", err)
	}
	_, err = cli.GetCourse(ctx, session.Token, created.ID)
	var apiErr APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound {
		t.Fatalf("expected 404 api error, got %v", err)
	}

	ev, err := cli.CreateEvent(ctx, session.Token, EventInput{
		Title: strPtr("Orientation"), Date: strPtr("2024-09-01"), Location: strPtr("Hall A"),
	})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	if !ev.Date.Equal(time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected event date %s", ev.Date)
	}
	events, err := cli.ListEvents(ctx, session.Token, "")
	if err != nil || len(events) != 1 {
		t.Fatalf("list events: %v %+v", err, events)
	}
	if err := cli.DeleteEvent(ctx, session.Token, ev.ID); err != nil {
		t.Fatalf("delete event: %v", err)
	}
}

func TestClientSurfacesValidationErrors(t *testing.T) {
	cli := newTestAPI(t)
	_, err := cli.Register(context.Background(), RegisterInput{Username: "al", Email: "bad", Password: "x", FullName: ""})
	var apiErr APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusBadRequest || len(apiErr.Fields) == 0 {
		t.Fatalf("expected field errors, got %+v", apiErr)
	}
}

func TestNewNormalisesBaseURL(t *testing.T) {
	cli, err := New("localhost:5000/")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if cli.baseURL != "http://localhost:5000" {
		t.Fatalf("unexpected base url %q", cli.baseURL)
	}
}
