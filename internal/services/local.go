package services

import (
	"errors"
	"time"

	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/pkg/logger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// LocalVerifier authenticates against the users table with bcrypt hashes.
// Used when LDAP is disabled (development, tests) and for the seeded admin
// account. Rejections are uniform, same contract as LDAPVerifier.
type LocalVerifier struct {
	db *gorm.DB
}

func NewLocalVerifier(db *gorm.DB) *LocalVerifier {
	return &LocalVerifier{db: db}
}

var errLocalRejected = errors.New("local authentication rejected")

func (v *LocalVerifier) Verify(username, password string) error {
	var user models.User
	if err := v.db.Where("username = ?", username).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error().Err(err).Msg("user lookup failed")
		}
		// Burn a hash comparison anyway so a missing user costs the same
		// as a wrong password.
		bcrypt.CompareHashAndPassword([]byte("$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5B0a7hNzW0MdS7vGJ0zV6aQy1sW2y"), []byte(password))
		return errLocalRejected
	}

	if !user.IsActive {
		return errLocalRejected
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return errLocalRejected
	}

	now := time.Now()
	v.db.Model(&user).Update("last_login", &now)
	return nil
}

// HashPassword hashes a plaintext password for storage on a local user.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CreateAdminIfNotExists seeds a default local admin account so a fresh
// install is reachable before LDAP is configured.
func CreateAdminIfNotExists(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Where("username = ?", "admin").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := HashPassword("admin")
	if err != nil {
		return err
	}

	admin := models.User{
		Username: "admin",
		Password: hashed,
		IsActive: true,
	}
	return db.Create(&admin).Error
}
