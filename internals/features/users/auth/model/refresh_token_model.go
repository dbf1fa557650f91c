package model

import (
	"time"

	"github.com/google/uuid"
)

// RefreshTokenModel stores a SHA-256 hash of each issued refresh token so a
// stolen DB dump cannot be replayed. Rotation deletes the old hash.
type RefreshTokenModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Token     string    `gorm:"type:text;not null;uniqueIndex" json:"-"`
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`
	UserAgent *string   `gorm:"type:text" json:"user_agent,omitempty"`
	IP        *string   `gorm:"type:varchar(64)" json:"ip,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (RefreshTokenModel) TableName() string {
	return "refresh_tokens"
}
