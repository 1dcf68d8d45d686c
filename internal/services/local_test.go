package services

import (
	"testing"

	"github.com/taskhive/taskhive/internal/models"
)

func seedLocalUser(t *testing.T, verifier *LocalVerifier, username, password string, active bool) {
	t.Helper()
	hashed, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	user := models.User{Username: username, Password: hashed, IsActive: active}
	if err := verifier.db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
}

func TestLocalVerifier(t *testing.T) {
	verifier := NewLocalVerifier(newTestDB(t))
	seedLocalUser(t, verifier, "alice", "alice-pw", true)
	seedLocalUser(t, verifier, "mallory", "mallory-pw", false)

	if err := verifier.Verify("alice", "alice-pw"); err != nil {
		t.Errorf("valid credentials: error = %v", err)
	}
	if err := verifier.Verify("alice", "wrong-password"); err == nil {
		t.Error("wrong password should be rejected")
	}
	if err := verifier.Verify("ghost", "anything"); err == nil {
		t.Error("unknown user should be rejected")
	}
	if err := verifier.Verify("mallory", "mallory-pw"); err == nil {
		t.Error("inactive user should be rejected")
	}
}

func TestLocalVerifier_UpdatesLastLogin(t *testing.T) {
	db := newTestDB(t)
	verifier := NewLocalVerifier(db)
	seedLocalUser(t, verifier, "alice", "alice-pw", true)

	if err := verifier.Verify("alice", "alice-pw"); err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	var user models.User
	db.Where("username = ?", "alice").First(&user)
	if user.LastLogin == nil {
		t.Error("LastLogin should be set after a successful verification")
	}
}

func TestCreateAdminIfNotExists(t *testing.T) {
	db := newTestDB(t)

	if err := CreateAdminIfNotExists(db); err != nil {
		t.Fatalf("CreateAdminIfNotExists() error = %v", err)
	}
	// Idempotent on a second call.
	if err := CreateAdminIfNotExists(db); err != nil {
		t.Fatalf("second CreateAdminIfNotExists() error = %v", err)
	}

	var count int64
	db.Model(&models.User{}).Where("username = ?", "admin").Count(&count)
	if count != 1 {
		t.Fatalf("expected exactly one admin row, got %d", count)
	}

	verifier := NewLocalVerifier(db)
	if err := verifier.Verify("admin", "admin"); err != nil {
		t.Errorf("seeded admin should authenticate, got %v", err)
	}
}
