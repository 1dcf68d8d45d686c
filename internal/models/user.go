package models

import (
	"time"

	"gorm.io/gorm"
)

// User is a local account. LDAP users are authenticated by directory bind
// and never have a row here; only local (dev/bootstrap) accounts do.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"uniqueIndex;size:100;not null" json:"username"`
	Password  string         `gorm:"size:255" json:"-"` // bcrypt hash
	Email     string         `gorm:"size:255" json:"email"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	LastLogin *time.Time     `json:"last_login"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }
