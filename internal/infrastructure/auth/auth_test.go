package auth

import (
	"testing"
	"time"

	"github.com/dkoval/hotelreg-assistant/internal/core/domain"
)

func TestJWTRoundTrip(t *testing.T) {
	mgr := NewJWTManager("test-secret", time.Hour)

	token, err := mgr.Issue("u-1", "inspector@example.com")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	userID, email, err := mgr.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if userID != "u-1" || email != "inspector@example.com" {
		t.Fatalf("claims lost: %q %q", userID, email)
	}
}

func TestJWTRejectsExpiredToken(t *testing.T) {
	mgr := NewJWTManager("test-secret", time.Minute)
	issued := time.Now().UTC()
	mgr.now = func() time.Time { return issued }

	token, err := mgr.Issue("u-1", "inspector@example.com")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	mgr.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, _, err = mgr.Validate(token)
	if !domain.IsKind(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for expired token, got %v", err)
	}
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	token, err := NewJWTManager("secret-a", time.Hour).Issue("u-1", "a@example.com")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	_, _, err = NewJWTManager("secret-b", time.Hour).Validate(token)
	if !domain.IsKind(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for wrong secret, got %v", err)
	}
}

func TestBcryptHashVerify(t *testing.T) {
	hasher := NewBcryptHasher()
	hash, err := hasher.Hash("hunter2-but-longer")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if hash == "hunter2-but-longer" {
		t.Fatalf("hash must not equal plaintext")
	}
	if !hasher.Verify("hunter2-but-longer", hash) {
		t.Fatalf("expected verify to succeed")
	}
	if hasher.Verify("wrong", hash) {
		t.Fatalf("expected verify to fail for wrong password")
	}
}
