package validate

import (
	"errors"
	"strings"
	"testing"

	"github.com/Adnan2-a11y/LearnCraft/internal/apperror"
)

type signup struct {
	Username  string `json:"username" validate:"required,min=3"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6,max_bytes=72,password_policy"`
	Role      string `json:"role" validate:"oneof=student teacher"`
	StudentID string `json:"studentId" validate:"required_if=Role student"`
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	err := New().Struct(signup{Username: "al", Email: "nope", Password: "weak", Role: "student"})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	appErr := apperror.From(err)
	got := map[string]bool{}
	for _, f := range appErr.Fields {
		got[f.Field] = true
	}
	for _, want := range []string{"username", "email", "password", "studentId"} {
		if !got[want] {
			t.Fatalf("expected field %q in %+v", want, appErr.Fields)
		}
	}
}

func TestStructAcceptsCompliantInput(t *testing.T) {
	err := New().Struct(signup{Username: "alice", Email: "alice@example.com", Password: "Secret1!", Role: "teacher"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPasswordCompliant(t *testing.T) {
	cases := map[string]bool{
		"Secret1!":   true,
		"secret1!":   false,
		"SECRET1!":   false,
		"Secret!!":   false,
		"Secret12":   false,
		"Secret1#":   false,
		"Aa1@":       true,
		"Pässwort1&": true,
	}
	for in, want := range cases {
		if got := PasswordCompliant(in); got != want {
			t.Fatalf("%q: expected %v, got %v", in, want, got)
		}
	}
}

func TestStructRejectsPasswordsOverBcryptLimit(t *testing.T) {
	base := signup{Username: "alice", Email: "alice@example.com", Role: "teacher"}

	base.Password = "Secret1!" + strings.Repeat("a", MaxPasswordBytes-8)
	if err := New().Struct(base); err != nil {
		t.Fatalf("expected %d bytes to pass, got %v", MaxPasswordBytes, err)
	}

	// 70 runes but 74 bytes
	base.Password = "Secret1!" + strings.Repeat("é", 4) + strings.Repeat("a", 58)
	err := New().Struct(base)
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	fields := apperror.From(err).Fields
	if len(fields) != 1 || fields[0].Field != "password" || fields[0].Message != "password must be at most 72 bytes long" {
		t.Fatalf("unexpected field issues: %+v", fields)
	}
}
