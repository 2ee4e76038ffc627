package constants

import "fmt"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Template pesan error role
const (
	ErrOnlyAdminsCanAccess = "Permission denied: only the librarian can %s."
	ErrOnlyOwnerCanAccess  = "Permission denied: you can only %s for your own account."
)

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorOwner(feature string) string {
	return fmt.Sprintf(ErrOnlyOwnerCanAccess, feature)
}

// ==========================
// ✅ Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleAdmin,
		RoleUser,
	}

	AdminOnly = []string{
		RoleAdmin,
	}
)
