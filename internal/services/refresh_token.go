package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive/internal/models"
	"gorm.io/gorm"
)

// RefreshTokenStore manages the single refresh-token slot per user.
// Callers that chain FindValid with Rotate (the session service) must hold
// the per-user lock for the whole sequence; see SessionService.
type RefreshTokenStore struct {
	db     *gorm.DB
	tokens *TokenService
}

func NewRefreshTokenStore(db *gorm.DB, tokens *TokenService) *RefreshTokenStore {
	return &RefreshTokenStore{db: db, tokens: tokens}
}

// CreateOrReplace issues a fresh refresh token for the user and persists it
// into the user's slot. An existing row is mutated in place (same id,
// revoked cleared); otherwise a new row is inserted. A second login from
// another device therefore invalidates the first device's refresh token —
// single-session-per-user is the designed behavior.
func (s *RefreshTokenStore) CreateOrReplace(username string) (*models.RefreshToken, error) {
	var record *models.RefreshToken
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		record, err = s.createOrReplaceTx(tx, username)
		return err
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// Rotate revokes the row holding oldToken, if any, and replaces the user's
// slot with a fresh token, as one transaction: no reader observes the user
// without a valid slot mid-rotation. Rotation proceeds even when oldToken
// matches no row; single-use of refresh tokens is enforced by FindValid,
// not here.
func (s *RefreshTokenStore) Rotate(username, oldToken string) (*models.RefreshToken, error) {
	var record *models.RefreshToken
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.RefreshToken{}).
			Where("token = ?", oldToken).
			Update("revoked", true).Error; err != nil {
			return err
		}
		var err error
		record, err = s.createOrReplaceTx(tx, username)
		return err
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (s *RefreshTokenStore) createOrReplaceTx(tx *gorm.DB, username string) (*models.RefreshToken, error) {
	tokenString, err := s.tokens.GenerateRefreshToken(username)
	if err != nil {
		return nil, err
	}
	expiresAt := time.Now().Add(s.tokens.RefreshTTL())

	var existing models.RefreshToken
	err = tx.Where("username = ?", username).First(&existing).Error
	switch {
	case err == nil:
		existing.Token = tokenString
		existing.ExpiresAt = expiresAt
		existing.Revoked = false
		if err := tx.Save(&existing).Error; err != nil {
			return nil, err
		}
		return &existing, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		record := models.RefreshToken{
			ID:        uuid.NewString(),
			Username:  username,
			Token:     tokenString,
			ExpiresAt: expiresAt,
		}
		if err := tx.Create(&record).Error; err != nil {
			return nil, err
		}
		return &record, nil
	default:
		return nil, err
	}
}

// FindValid returns the record for tokenString only when every check holds:
// the row exists, is not revoked, has not expired, and the token itself
// verifies cryptographically as a refresh token. A miss returns (nil, nil);
// an unknown token is expected input, not an error.
func (s *RefreshTokenStore) FindValid(tokenString string) (*models.RefreshToken, error) {
	var record models.RefreshToken
	err := s.db.Where("token = ?", tokenString).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if record.Revoked {
		return nil, nil
	}
	if !record.ExpiresAt.After(time.Now()) {
		return nil, nil
	}
	if !s.tokens.IsRefreshToken(tokenString) {
		return nil, nil
	}

	return &record, nil
}

// FindByUsername returns the user's slot, or (nil, nil) when none exists.
func (s *RefreshTokenStore) FindByUsername(username string) (*models.RefreshToken, error) {
	var record models.RefreshToken
	err := s.db.Where("username = ?", username).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Revoke marks the row holding tokenString as revoked. No-op when not found.
func (s *RefreshTokenStore) Revoke(tokenString string) error {
	return s.db.Model(&models.RefreshToken{}).
		Where("token = ?", tokenString).
		Update("revoked", true).Error
}

// PurgeExpired deletes rows whose expiry has passed. Called by the cleanup
// scheduler; expired rows can never validate again.
func (s *RefreshTokenStore) PurgeExpired(now time.Time) (int64, error) {
	res := s.db.Where("expires_at <= ?", now).Delete(&models.RefreshToken{})
	return res.RowsAffected, res.Error
}
