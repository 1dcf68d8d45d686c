package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/taskhive/taskhive/internal/config"
)

// Token type claim values. The claim name "typ" matches what clients
// already hold, so issued tokens stay compatible across deploys.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Token verification failures, classified for logging. HTTP boundaries must
// collapse these into one generic unauthorized message.
var (
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenSignature = errors.New("token signature is invalid")
	ErrTokenExpired   = errors.New("token is expired")
)

// TokenClaims are the signed claims carried by both access and refresh tokens.
type TokenClaims struct {
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HMAC-signed bearer tokens. It is stateless;
// the signing key is fixed at construction and safe for concurrent use.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenService(cfg *config.JWTConfig) *TokenService {
	return &TokenService{
		secret:     []byte(cfg.Secret),
		accessTTL:  time.Duration(cfg.AccessExpireMinutes) * time.Minute,
		refreshTTL: time.Duration(cfg.RefreshExpireDays) * 24 * time.Hour,
	}
}

func (s *TokenService) AccessTTL() time.Duration  { return s.accessTTL }
func (s *TokenService) RefreshTTL() time.Duration { return s.refreshTTL }

// GenerateAccessToken issues a short-lived access token for the given user.
func (s *TokenService) GenerateAccessToken(username string) (string, error) {
	return s.generate(username, TokenTypeAccess, s.accessTTL)
}

// GenerateRefreshToken issues a long-lived refresh token for the given user.
func (s *TokenService) GenerateRefreshToken(username string) (string, error) {
	return s.generate(username, TokenTypeRefresh, s.refreshTTL)
}

func (s *TokenService) generate(username, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			// The jti claim keeps token strings unique even when two are
			// issued for the same user within the same second.
			ID:        uuid.NewString(),
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Parse verifies the signature and expiry of a token and returns its claims.
// Claims are never inspected before the signature check passes.
func (s *TokenService) Parse(tokenString string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenSignature
		default:
			return nil, ErrTokenMalformed
		}
	}

	return claims, nil
}

// IsValid reports whether the token verifies and has not expired.
func (s *TokenService) IsValid(tokenString string) bool {
	_, err := s.Parse(tokenString)
	return err == nil
}

// Subject returns the username a verified token was issued to.
func (s *TokenService) Subject(tokenString string) (string, error) {
	claims, err := s.Parse(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// IsAccessToken reports whether the token verifies and carries the access
// type claim. The token is re-verified here: the type claim of an unverified
// token is attacker-controlled.
func (s *TokenService) IsAccessToken(tokenString string) bool {
	claims, err := s.Parse(tokenString)
	return err == nil && claims.TokenType == TokenTypeAccess
}

// IsRefreshToken reports whether the token verifies and carries the refresh
// type claim. Same re-verification contract as IsAccessToken.
func (s *TokenService) IsRefreshToken(tokenString string) bool {
	claims, err := s.Parse(tokenString)
	return err == nil && claims.TokenType == TokenTypeRefresh
}
