// file: internals/features/users/auth/controller/auth_controller.go
package controller

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	helper "eventpulse_backend/internals/helpers"
	helperAuth "eventpulse_backend/internals/helpers/auth"

	authService "eventpulse_backend/internals/features/users/auth/service"
	userModel "eventpulse_backend/internals/features/users/user/model"
)

/* =========================
   Controller
   ========================= */

type AuthController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{
		DB:        db,
		Validator: validator.New(),
	}
}

func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint") || strings.Contains(msg, "23505")
}

func setRefreshCookie(c *fiber.Ctx, token string, exp time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    token,
		Expires:  exp,
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
		Path:     "/api/auth",
	})
}

func clearRefreshCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
		Path:     "/api/auth",
	})
}

func (ctl *AuthController) issueSession(c *fiber.Ctx, u *userModel.UserModel) (fiber.Map, error) {
	access, accessExp, err := authService.IssueAccessToken(u)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := authService.IssueRefreshToken(ctl.DB, u.ID, c.Get("User-Agent"), c.IP())
	if err != nil {
		return nil, err
	}
	setRefreshCookie(c, refresh, refreshExp)
	return fiber.Map{
		"access_token": access,
		"expires_at":   accessExp.Format(time.RFC3339),
		"user": fiber.Map{
			"id":        u.ID,
			"user_name": u.UserName,
			"email":     u.Email,
			"role":      u.Role,
		},
	}, nil
}

/*
=========================================================

	REGISTER
	POST /api/auth/register
	=========================================================
*/
type registerRequest struct {
	UserName string `json:"user_name" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func (ctl *AuthController) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "Invalid request format")
	}
	req.UserName = strings.TrimSpace(req.UserName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonError(c, http.StatusUnprocessableEntity, err.Error())
	}

	hashed, err := authService.HashPassword(req.Password)
	if err != nil {
		return helper.JsonError(c, http.StatusUnprocessableEntity, err.Error())
	}

	u := &userModel.UserModel{
		UserName: req.UserName,
		Email:    req.Email,
		Password: hashed,
	}
	u.SetDefaultValues()

	if err := ctl.DB.WithContext(c.Context()).Create(u).Error; err != nil {
		if isDuplicateKey(err) {
			return helper.JsonError(c, http.StatusConflict, "email is already registered")
		}
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	payload, err := ctl.issueSession(c, u)
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	return helper.JsonCreated(c, "Account created", payload)
}

/*
=========================================================

	LOGIN
	POST /api/auth/login
	=========================================================
*/
type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (ctl *AuthController) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "Invalid request format")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonError(c, http.StatusUnprocessableEntity, err.Error())
	}

	var u userModel.UserModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("email = ? AND deleted_at IS NULL", req.Email).
		First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, http.StatusUnauthorized, "invalid email or password")
		}
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	if !u.IsActive {
		return helper.JsonError(c, http.StatusForbidden, "account is deactivated")
	}
	if err := authService.CheckPasswordHash(u.Password, req.Password); err != nil {
		return helper.JsonError(c, http.StatusUnauthorized, "invalid email or password")
	}

	payload, err := ctl.issueSession(c, &u)
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "Logged in", payload)
}

/*
=========================================================

	REFRESH TOKEN (rotate)
	POST /api/auth/refresh-token
	=========================================================
*/
func (ctl *AuthController) RefreshToken(c *fiber.Ctx) error {
	cookie := strings.TrimSpace(c.Cookies("refresh_token"))
	if cookie == "" {
		return helper.JsonError(c, http.StatusUnauthorized, "missing refresh token")
	}

	userID, err := authService.ParseRefreshToken(ctl.DB.WithContext(c.Context()), cookie)
	if err != nil {
		clearRefreshCookie(c)
		return helper.JsonError(c, http.StatusUnauthorized, err.Error())
	}

	var u userModel.UserModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("id = ? AND deleted_at IS NULL", userID).
		First(&u).Error; err != nil {
		return helper.JsonError(c, http.StatusUnauthorized, "user not found")
	}
	if !u.IsActive {
		return helper.JsonError(c, http.StatusForbidden, "account is deactivated")
	}

	// rotate: old hash out before new one goes in
	if err := authService.RevokeRefreshToken(ctl.DB.WithContext(c.Context()), cookie); err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	payload, err := ctl.issueSession(c, &u)
	if err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "Token refreshed", payload)
}

/*
=========================================================

	LOGOUT
	POST /api/auth/logout
	Blacklists the presented access token and drops the
	refresh token.
	=========================================================
*/
func (ctl *AuthController) Logout(c *fiber.Ctx) error {
	authHeader := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if strings.HasPrefix(authHeader, "Bearer ") {
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if token != "" {
			if err := authService.BlacklistAccessToken(ctl.DB.WithContext(c.Context()), token); err != nil && !isDuplicateKey(err) {
				return helper.JsonError(c, http.StatusInternalServerError, err.Error())
			}
		}
	}

	if cookie := strings.TrimSpace(c.Cookies("refresh_token")); cookie != "" {
		_ = authService.RevokeRefreshToken(ctl.DB.WithContext(c.Context()), cookie)
	}
	clearRefreshCookie(c)

	return helper.JsonOK(c, "Logged out", nil)
}

/*
=========================================================

	ME
	GET /api/u/me
	=========================================================
*/
func (ctl *AuthController) Me(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserIDFromLocals(c)
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		return helper.JsonError(c, http.StatusUnauthorized, err.Error())
	}

	var u userModel.UserModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("id = ? AND deleted_at IS NULL", userID).
		First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, http.StatusNotFound, "user not found")
		}
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	return helper.JsonOK(c, "ok", fiber.Map{
		"id":        u.ID,
		"user_name": u.UserName,
		"email":     u.Email,
		"role":      u.Role,
		"is_active": u.IsActive,
	})
}

/*
=========================================================

	CHANGE PASSWORD
	POST /api/u/change-password
	=========================================================
*/
type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

func (ctl *AuthController) ChangePassword(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserIDFromLocals(c)
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		return helper.JsonError(c, http.StatusUnauthorized, err.Error())
	}

	var req changePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, http.StatusBadRequest, "Invalid request format")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonError(c, http.StatusUnprocessableEntity, err.Error())
	}

	var u userModel.UserModel
	if err := ctl.DB.WithContext(c.Context()).
		Where("id = ? AND deleted_at IS NULL", userID).
		First(&u).Error; err != nil {
		return helper.JsonError(c, http.StatusUnauthorized, "user not found")
	}
	if err := authService.CheckPasswordHash(u.Password, req.CurrentPassword); err != nil {
		return helper.JsonError(c, http.StatusUnauthorized, "current password incorrect")
	}

	newHash, err := authService.HashPassword(req.NewPassword)
	if err != nil {
		return helper.JsonError(c, http.StatusUnprocessableEntity, err.Error())
	}
	if err := ctl.DB.WithContext(c.Context()).
		Model(&userModel.UserModel{}).
		Where("id = ?", userID).
		Update("password", newHash).Error; err != nil {
		return helper.JsonError(c, http.StatusInternalServerError, err.Error())
	}

	return helper.JsonUpdated(c, "Password changed successfully", nil)
}
