package constants

import "fmt"

// Role names stored on users and inside JWT claims.
const (
	RoleUser  = "user"
	RoleHost  = "host"
	RoleAdmin = "admin"
)

// Role error message templates
const (
	ErrOnlyHostsCanAccess  = "❌ Only hosts or admins may access %s."
	ErrOnlyAdminsCanAccess = "❌ Only admins may access %s."
)

func RoleErrorHost(feature string) string {
	return fmt.Sprintf(ErrOnlyHostsCanAccess, feature)
}

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

// ==========================
// ✅ Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleUser,
		RoleHost,
		RoleAdmin,
	}

	HostAndAbove = []string{
		RoleHost,
		RoleAdmin,
	}
)
