package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/azamat-omonkeldiyev/course/internal/models"
)

func testUser() *models.User {
	return &models.User{
		ID:    "11111111-2222-3333-4444-555555555555",
		Name:  "Test User",
		Email: "test@example.com",
		Role:  models.RoleStudent,
	}
}

func TestTokenRoundtrip(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	user := testUser()

	token, err := tm.Generate(user)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if token == "" {
		t.Fatal("Generate() returned empty token")
	}

	claims, err := tm.Parse(token)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if claims.Subject != user.ID {
		t.Errorf("Subject = %q, want %q", claims.Subject, user.ID)
	}
	if claims.Role != models.RoleStudent {
		t.Errorf("Role = %q, want %q", claims.Role, models.RoleStudent)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	tm := NewTokenManager("secret-a", time.Hour)
	other := NewTokenManager("secret-b", time.Hour)

	token, err := tm.Generate(testUser())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if _, err := other.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Parse() with wrong secret error = %v, want ErrInvalidToken", err)
	}
}

func TestTokenExpired(t *testing.T) {
	tm := NewTokenManager("test-secret", -time.Minute)

	token, err := tm.Generate(testUser())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if _, err := tm.Parse(token); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Parse() of expired token error = %v, want ErrTokenExpired", err)
	}
}

func TestTokenGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	if _, err := tm.Parse("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Parse() of garbage error = %v, want ErrInvalidToken", err)
	}
}

func TestPasswordHashAndCheck(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "s3cret" {
		t.Fatal("HashPassword() returned the plaintext")
	}

	if !CheckPassword(hash, "s3cret") {
		t.Error("CheckPassword() = false for correct password")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("CheckPassword() = true for wrong password")
	}
}
