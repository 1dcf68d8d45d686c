package services

import (
	"errors"
	"sync"

	"github.com/taskhive/taskhive/pkg/logger"
)

// Session failure kinds surfaced to handlers. Login rejections are uniform:
// an unknown user and a wrong password produce the same error, so the
// endpoint cannot be used to enumerate accounts.
var (
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrInvalidRefreshToken  = errors.New("invalid or expired refresh token")
	ErrRefreshTokenMismatch = errors.New("refresh token mismatch")
)

// CredentialVerifier checks a username/password pair against some backend
// (LDAP bind, local bcrypt hashes, a test stub). Any rejection must come
// back as a plain error; the session service does not distinguish reasons.
type CredentialVerifier interface {
	Verify(username, password string) error
}

// TokenPair is what login and refresh hand back to the client.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// SessionService orchestrates login, refresh and logout over the token
// codec, the revocation ledger and the refresh-token store.
//
// All mutation of a user's refresh slot happens under that user's lock.
// Without it, two refresh calls racing on the same stale token could both
// pass FindValid and both rotate, leaving one caller with a token the
// server no longer recognizes.
type SessionService struct {
	tokens   *TokenService
	ledger   *RevocationLedger
	store    *RefreshTokenStore
	verifier CredentialVerifier

	mu    sync.Mutex
	locks map[string]*sync.Mutex // per-username
}

func NewSessionService(tokens *TokenService, ledger *RevocationLedger, store *RefreshTokenStore, verifier CredentialVerifier) *SessionService {
	return &SessionService{
		tokens:   tokens,
		ledger:   ledger,
		store:    store,
		verifier: verifier,
		locks:    make(map[string]*sync.Mutex),
	}
}

func (s *SessionService) userLock(username string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[username]
	if !ok {
		l = &sync.Mutex{}
		s.locks[username] = l
	}
	return l
}

// Login verifies the credentials and issues a fresh token pair. The user's
// refresh slot is replaced; a refresh token from an earlier login stops
// working because it was overwritten, not because it was revoked.
func (s *SessionService) Login(username, password string) (*TokenPair, error) {
	if err := s.verifier.Verify(username, password); err != nil {
		logger.Debug().Str("username", username).Msg("credential check rejected")
		return nil, ErrInvalidCredentials
	}

	lock := s.userLock(username)
	lock.Lock()
	defer lock.Unlock()

	accessToken, err := s.tokens.GenerateAccessToken(username)
	if err != nil {
		return nil, err
	}

	record, err := s.store.CreateOrReplace(username)
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: record.Token}, nil
}

// Refresh exchanges a valid refresh token for a new token pair and rotates
// the refresh slot. The presented token becomes single-use: of two
// concurrent calls with the same token, exactly one succeeds and the other
// sees ErrInvalidRefreshToken.
func (s *SessionService) Refresh(refreshToken string) (*TokenPair, error) {
	// Subject comes from the verified token, which also pins down which
	// user's lock serializes this call.
	claims, err := s.tokens.Parse(refreshToken)
	if err != nil || claims.TokenType != TokenTypeRefresh {
		return nil, ErrInvalidRefreshToken
	}
	username := claims.Subject

	lock := s.userLock(username)
	lock.Lock()
	defer lock.Unlock()

	record, err := s.store.FindValid(refreshToken)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrInvalidRefreshToken
	}

	// The token verified but the stored row belongs to someone else: the
	// storage layer was tampered with or rows were swapped.
	if record.Username != username {
		return nil, ErrRefreshTokenMismatch
	}

	accessToken, err := s.tokens.GenerateAccessToken(username)
	if err != nil {
		return nil, err
	}

	rotated, err := s.store.Rotate(username, refreshToken)
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: rotated.Token}, nil
}

// Logout ends a session best-effort. Either token may be absent; presenting
// nothing is a successful no-op. The only failure is a verified refresh
// token whose subject disagrees with the presented access token's subject,
// which would let a caller end someone else's session.
func (s *SessionService) Logout(accessToken, refreshToken string) error {
	var accessSubject string

	if accessToken != "" && s.tokens.IsAccessToken(accessToken) && !s.ledger.IsRevoked(accessToken) {
		if subject, err := s.tokens.Subject(accessToken); err == nil {
			accessSubject = subject
			s.ledger.Revoke(accessToken)
		}
	}

	if refreshToken != "" && s.tokens.IsRefreshToken(refreshToken) {
		subject, err := s.tokens.Subject(refreshToken)
		if err == nil {
			if accessSubject != "" && subject != accessSubject {
				return ErrRefreshTokenMismatch
			}
			if err := s.store.Revoke(refreshToken); err != nil {
				logger.Warn().Err(err).Msg("failed to revoke refresh token on logout")
			}
		}
	}

	return nil
}
