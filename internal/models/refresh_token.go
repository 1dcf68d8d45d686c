package models

import "time"

// RefreshToken is the single refresh-token slot for a user. The unique
// username index means a second login replaces the first session's slot
// instead of adding a row; rotation and logout only flip Revoked, rows are
// removed solely by the expiry purge job.
type RefreshToken struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Username  string    `gorm:"uniqueIndex;size:100;not null" json:"username"`
	Token     string    `gorm:"uniqueIndex;size:512;not null" json:"-"`
	ExpiresAt time.Time `gorm:"index;not null" json:"expires_at"`
	Revoked   bool      `gorm:"default:false" json:"revoked"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (RefreshToken) TableName() string { return "refresh_tokens" }
