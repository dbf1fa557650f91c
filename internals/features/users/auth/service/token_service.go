// file: internals/features/users/auth/service/token_service.go
package service

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"eventpulse_backend/internals/configs"
	authModel "eventpulse_backend/internals/features/users/auth/model"
	userModel "eventpulse_backend/internals/features/users/user/model"
)

const (
	defaultAccessTTLHours  = 24
	defaultRefreshTTLHours = 24 * 7
)

func accessTTL() time.Duration {
	if v := configs.GetEnv("JWT_ACCESS_TTL_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Hour
		}
	}
	return defaultAccessTTLHours * time.Hour
}

func refreshTTL() time.Duration {
	if v := configs.GetEnv("JWT_REFRESH_TTL_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Hour
		}
	}
	return defaultRefreshTTLHours * time.Hour
}

// ========================== ACCESS TOKEN ==========================

// IssueAccessToken signs an HS256 access token with the claims the auth
// middleware hydrates locals from.
func IssueAccessToken(u *userModel.UserModel) (string, time.Time, error) {
	if configs.JWTSecret == "" {
		return "", time.Time{}, errors.New("JWT_SECRET is not configured")
	}
	now := time.Now().UTC()
	exp := now.Add(accessTTL())
	claims := jwt.MapClaims{
		"id":    u.ID.String(),
		"name":  u.UserName,
		"email": u.Email,
		"role":  u.Role,
		"typ":   "access",
		"iat":   now.Unix(),
		"exp":   exp.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(configs.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// ========================== REFRESH TOKEN ==========================

func computeRefreshHash(token string) string {
	sum := sha256.Sum256([]byte(token + configs.JWTRefreshSecret))
	return hex.EncodeToString(sum[:])
}

// IssueRefreshToken signs a refresh JWT and stores its hash.
func IssueRefreshToken(db *gorm.DB, userID uuid.UUID, userAgent, ip string) (string, time.Time, error) {
	if configs.JWTRefreshSecret == "" {
		return "", time.Time{}, errors.New("JWT_REFRESH_SECRET is not configured")
	}
	now := time.Now().UTC()
	exp := now.Add(refreshTTL())
	claims := jwt.MapClaims{
		"sub": userID.String(),
		"typ": "refresh",
		"iat": now.Unix(),
		"exp": exp.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(configs.JWTRefreshSecret))
	if err != nil {
		return "", time.Time{}, err
	}

	var uaPtr, ipPtr *string
	if userAgent != "" {
		uaPtr = &userAgent
	}
	if ip != "" {
		ipPtr = &ip
	}
	row := &authModel.RefreshTokenModel{
		UserID:    userID,
		Token:     computeRefreshHash(signed),
		ExpiresAt: exp,
		UserAgent: uaPtr,
		IP:        ipPtr,
	}
	if err := db.Create(row).Error; err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// ParseRefreshToken validates the JWT and checks its hash is still known.
func ParseRefreshToken(db *gorm.DB, token string) (uuid.UUID, error) {
	tok, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(configs.JWTRefreshSecret), nil
	})
	if err != nil || !tok.Valid {
		return uuid.Nil, errors.New("refresh token invalid")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errors.New("refresh token invalid")
	}
	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, errors.New("refresh token invalid")
	}

	var n int64
	if err := db.Model(&authModel.RefreshTokenModel{}).
		Where("token = ? AND expires_at > ?", computeRefreshHash(token), time.Now().UTC()).
		Count(&n).Error; err != nil {
		return uuid.Nil, err
	}
	if n == 0 {
		return uuid.Nil, errors.New("refresh token unknown or expired")
	}
	return userID, nil
}

// RevokeRefreshToken drops the stored hash; part of rotation and logout.
func RevokeRefreshToken(db *gorm.DB, token string) error {
	return db.
		Where("token = ?", computeRefreshHash(token)).
		Delete(&authModel.RefreshTokenModel{}).Error
}

// BlacklistAccessToken parks a revoked access token until its own expiry.
func BlacklistAccessToken(db *gorm.DB, token string) error {
	expiredAt := time.Now().UTC().Add(accessTTL())
	if tok, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{}); err == nil {
		if claims, ok := tok.Claims.(jwt.MapClaims); ok {
			if expf, ok := claims["exp"].(float64); ok {
				expiredAt = time.Unix(int64(expf), 0).UTC()
			}
		}
	}
	return db.Create(&authModel.TokenBlacklist{
		Token:     token,
		ExpiredAt: expiredAt,
	}).Error
}
