package crypto

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasherRoundTrip(t *testing.T) {
	hasher, err := NewPasswordHasher(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("new hasher: %v", err)
	}
	hash, err := hasher.Hash("Secret1!")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if string(hash) == "Secret1!" {
		t.Fatal("hash must not equal plaintext")
	}
	if err := hasher.Compare(hash, "Secret1!"); err != nil {
		t.Fatalf("compare: %v", err)
	}
	if err := hasher.Compare(hash, "Secret2!"); !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("expected mismatch, got %v", err)
	}
	hasher.CompareDummy("anything")
}

func TestNewPasswordHasherClampsCost(t *testing.T) {
	hasher, err := NewPasswordHasher(0)
	if err != nil {
		t.Fatalf("new hasher: %v", err)
	}
	if hasher.cost != bcrypt.DefaultCost {
		t.Fatalf("expected default cost, got %d", hasher.cost)
	}
}
