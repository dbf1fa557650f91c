package model

import (
	"time"

	"gorm.io/gorm"
)

// TokenBlacklist stores revoked access tokens until they would have expired
// anyway; the cleanup scheduler prunes old rows.
type TokenBlacklist struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Token     string         `gorm:"type:text;not null;unique" json:"token"`
	ExpiredAt time.Time      `gorm:"index" json:"expired_at"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (TokenBlacklist) TableName() string {
	return "token_blacklist"
}

// IsTokenBlacklisted is plugged into the JWT middleware.
func IsTokenBlacklisted(db *gorm.DB, token string) (bool, error) {
	var n int64
	err := db.Model(&TokenBlacklist{}).
		Where("token = ? AND deleted_at IS NULL", token).
		Count(&n).Error
	return n > 0, err
}
