package store

import (
	"testing"

	"github.com/google/uuid"

	"promptlib/internal/models"
)

func TestUserCreateAndAuthenticate(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)

	email := "test-" + uuid.New().String()[:8] + "@example.com"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	u, err := s.Create(email, "correct horse", "Test User", models.RoleAdmin)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if u.PasswordHash == "correct horse" {
		t.Error("password stored in plaintext")
	}
	if !u.IsAdmin() {
		t.Error("role not persisted as admin")
	}

	found, err := s.FindByEmail(email)
	if err != nil {
		t.Fatalf("FindByEmail failed: %v", err)
	}
	if found == nil || found.ID != u.ID {
		t.Fatal("FindByEmail returned wrong user")
	}

	if !s.CheckPassword(found, "correct horse") {
		t.Error("correct password rejected")
	}
	if s.CheckPassword(found, "wrong horse") {
		t.Error("wrong password accepted")
	}
}

func TestUserFindMissing(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)

	u, err := s.FindByEmail("nobody-" + uuid.New().String() + "@example.com")
	if err != nil {
		t.Fatalf("FindByEmail errored: %v", err)
	}
	if u != nil {
		t.Error("expected nil for missing user")
	}
}
