package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/taskhive/taskhive/internal/config"
)

func newTestTokenService() *TokenService {
	return NewTokenService(&config.JWTConfig{
		Secret:              "test-secret-key-for-testing",
		AccessExpireMinutes: 15,
		RefreshExpireDays:   7,
	})
}

func TestGenerateAccessToken_RoundTrip(t *testing.T) {
	svc := newTestTokenService()

	token, err := svc.GenerateAccessToken("alice")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}
	if token == "" {
		t.Fatal("GenerateAccessToken() returned empty token")
	}

	claims, err := svc.Parse(token)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if claims.Subject != "alice" {
		t.Errorf("Subject = %q, expected %q", claims.Subject, "alice")
	}
	if claims.TokenType != TokenTypeAccess {
		t.Errorf("TokenType = %q, expected %q", claims.TokenType, TokenTypeAccess)
	}
}

func TestGenerateRefreshToken_RoundTrip(t *testing.T) {
	svc := newTestTokenService()

	token, err := svc.GenerateRefreshToken("bob")
	if err != nil {
		t.Fatalf("GenerateRefreshToken() error = %v", err)
	}

	claims, err := svc.Parse(token)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if claims.Subject != "bob" {
		t.Errorf("Subject = %q, expected %q", claims.Subject, "bob")
	}
	if claims.TokenType != TokenTypeRefresh {
		t.Errorf("TokenType = %q, expected %q", claims.TokenType, TokenTypeRefresh)
	}
}

func TestGenerate_UniqueTokens(t *testing.T) {
	svc := newTestTokenService()

	t1, _ := svc.GenerateRefreshToken("alice")
	t2, _ := svc.GenerateRefreshToken("alice")

	if t1 == t2 {
		t.Error("two tokens issued back-to-back for the same user should differ")
	}
}

func TestParse_Expired(t *testing.T) {
	svc := newTestTokenService()
	svc.accessTTL = -time.Minute

	token, err := svc.GenerateAccessToken("alice")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	_, err = svc.Parse(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Parse() error = %v, expected ErrTokenExpired", err)
	}
	if svc.IsValid(token) {
		t.Error("IsValid() should be false for an expired token")
	}
}

func TestParse_WrongSecret(t *testing.T) {
	svc := newTestTokenService()
	other := NewTokenService(&config.JWTConfig{
		Secret:              "a-completely-different-secret",
		AccessExpireMinutes: 15,
		RefreshExpireDays:   7,
	})

	token, _ := svc.GenerateAccessToken("alice")

	if _, err := other.Parse(token); !errors.Is(err, ErrTokenSignature) {
		t.Errorf("Parse() error = %v, expected ErrTokenSignature", err)
	}
}

func TestParse_Malformed(t *testing.T) {
	svc := newTestTokenService()

	for _, tokenString := range []string{"", "garbage", "a.b.c"} {
		if _, err := svc.Parse(tokenString); !errors.Is(err, ErrTokenMalformed) {
			t.Errorf("Parse(%q) error = %v, expected ErrTokenMalformed", tokenString, err)
		}
	}
}

func TestParse_TamperedPayload(t *testing.T) {
	svc := newTestTokenService()

	token, _ := svc.GenerateAccessToken("alice")
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token format: %q", token)
	}

	// Swap in the payload of a token for another user; the signature no
	// longer matches.
	other, _ := svc.GenerateAccessToken("mallory")
	otherParts := strings.Split(other, ".")
	tampered := parts[0] + "." + otherParts[1] + "." + parts[2]

	if svc.IsValid(tampered) {
		t.Error("IsValid() should be false for a tampered token")
	}
}

func TestTokenTypeChecks(t *testing.T) {
	svc := newTestTokenService()

	access, _ := svc.GenerateAccessToken("alice")
	refresh, _ := svc.GenerateRefreshToken("alice")

	if !svc.IsAccessToken(access) {
		t.Error("IsAccessToken(access) should be true")
	}
	if svc.IsRefreshToken(access) {
		t.Error("IsRefreshToken(access) should be false")
	}
	if !svc.IsRefreshToken(refresh) {
		t.Error("IsRefreshToken(refresh) should be true")
	}
	if svc.IsAccessToken(refresh) {
		t.Error("IsAccessToken(refresh) should be false")
	}
	if svc.IsAccessToken("not-a-token") {
		t.Error("IsAccessToken should be false for garbage")
	}
}

func TestSubject(t *testing.T) {
	svc := newTestTokenService()

	token, _ := svc.GenerateAccessToken("carol")
	subject, err := svc.Subject(token)
	if err != nil {
		t.Fatalf("Subject() error = %v", err)
	}
	if subject != "carol" {
		t.Errorf("Subject() = %q, expected %q", subject, "carol")
	}

	if _, err := svc.Subject("garbage"); err == nil {
		t.Error("Subject() should fail for an unverifiable token")
	}
}
