package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"eventpulse_backend/internals/constants"
)

// Locals keys hydrated by the JWT middleware.
const (
	LocUserID   = "user_id"
	LocUserRole = "user_role"
	LocUserName = "user_name"
	LocEmail    = "user_email"
)

// GetUserIDFromLocals reads the authenticated user id set by AuthJWT.
func GetUserIDFromLocals(c *fiber.Ctx) (uuid.UUID, error) {
	v := c.Locals(LocUserID)
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid user id in token")
	}
	return id, nil
}

func GetUserRoleFromLocals(c *fiber.Ctx) string {
	if s, ok := c.Locals(LocUserRole).(string); ok {
		return s
	}
	return ""
}

func GetUserNameFromLocals(c *fiber.Ctx) string {
	if s, ok := c.Locals(LocUserName).(string); ok {
		return s
	}
	return ""
}

func GetUserEmailFromLocals(c *fiber.Ctx) string {
	if s, ok := c.Locals(LocEmail).(string); ok {
		return s
	}
	return ""
}

// EnsureHost rejects callers whose role is below host.
func EnsureHost(c *fiber.Ctx) error {
	role := GetUserRoleFromLocals(c)
	for _, r := range constants.HostAndAbove {
		if role == r {
			return nil
		}
	}
	return fiber.NewError(fiber.StatusForbidden, constants.RoleErrorHost("this feature"))
}
