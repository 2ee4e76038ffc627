package auth

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"

	customerrors "librarian_backend/internals/customErrors"
	helper "librarian_backend/internals/helpers"
	helperAuth "librarian_backend/internals/helpers/auth"
)

// Locals keys under which basicauth stores the decoded pair.
const (
	localUsername = "username"
	localPassword = "password"
)

const verifyTimeout = 3 * time.Second

type CredentialVerifier interface {
	VerifyCredentials(ctx context.Context, username, password string) (helperAuth.Identity, error)
}

func unauthorized(realm string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderWWWAuthenticate, `Basic realm="`+realm+`"`)
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
}

// BasicAuth decodes HTTP Basic credentials into c.Locals. Malformed or empty
// pairs are rejected here; ResolveIdentity checks them against the store.
func BasicAuth(realm string) fiber.Handler {
	return basicauth.New(basicauth.Config{
		Realm: realm,
		Authorizer: func(username, password string) bool {
			return username != "" && password != ""
		},
		Unauthorized:    unauthorized(realm),
		ContextUsername: localUsername,
		ContextPassword: localPassword,
	})
}

// ResolveIdentity verifies the decoded pair with a single store read and
// stores the caller in c.Locals for the role guard and the controllers.
func ResolveIdentity(verifier CredentialVerifier, realm string) fiber.Handler {
	deny := unauthorized(realm)
	return func(c *fiber.Ctx) error {
		username, _ := c.Locals(localUsername).(string)
		password, _ := c.Locals(localPassword).(string)
		if username == "" {
			return deny(c)
		}

		ctx, cancel := context.WithTimeout(c.UserContext(), verifyTimeout)
		identity, err := verifier.VerifyCredentials(ctx, username, password)
		cancel()
		if err != nil {
			if errors.Is(err, customerrors.ErrUnauthorized) {
				return deny(c)
			}
			log.Printf("[ERROR] BasicAuth verify %q: %v", username, err)
			return helper.FromError(c, err)
		}

		helperAuth.SetIdentity(c, identity)
		return c.Next()
	}
}
