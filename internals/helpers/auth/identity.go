// file: internals/helpers/auth/identity.go
package helper

import (
	"github.com/gofiber/fiber/v2"

	"librarian_backend/internals/constants"
	customerrors "librarian_backend/internals/customErrors"
)

// Locals keys set by the access gateway.
const (
	LocUserID    = "user_id"
	LocUserRole  = "userRole"
	LocUserEmail = "user_email"
)

// Identity is the caller resolved once per request by the gateway and
// handed to services as their capability.
type Identity struct {
	UserID uint
	Email  string
	Role   string
}

func (i Identity) IsAdmin() bool { return i.Role == constants.RoleAdmin }

// CanActFor reports whether the caller may read or write data owned by userID.
func (i Identity) CanActFor(userID uint) bool {
	return i.IsAdmin() || i.UserID == userID
}

func SetIdentity(c *fiber.Ctx, id Identity) {
	c.Locals(LocUserID, id.UserID)
	c.Locals(LocUserRole, id.Role)
	c.Locals(LocUserEmail, id.Email)
}

// GetIdentity returns 401 when the gateway did not run for this route.
func GetIdentity(c *fiber.Ctx) (Identity, error) {
	userID, ok := c.Locals(LocUserID).(uint)
	if !ok || userID == 0 {
		return Identity{}, customerrors.ErrUnauthorized
	}
	role, _ := c.Locals(LocUserRole).(string)
	email, _ := c.Locals(LocUserEmail).(string)
	return Identity{UserID: userID, Email: email, Role: role}, nil
}
