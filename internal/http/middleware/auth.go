package middleware

import (
	"context"
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"

	"azimute/internal/model"
)

// UserLocalKey stores the authenticated *model.User in Fiber's context locals.
const UserLocalKey = "user"

var (
	ErrUnauthenticated        = fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	ErrPasswordChangeRequired = fiber.NewError(fiber.StatusForbidden, "password change required")
	ErrRoleRequired           = fiber.NewError(fiber.StatusForbidden, "insufficient permissions")
)

// Authenticator resolves a bearer token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

// Auth requires a valid "Authorization: Bearer <token>" header and stores the
// user under UserLocalKey. Users flagged for a forced password change only
// reach the paths listed in allowWhileForced.
func Auth(a Authenticator, allowWhileForced ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return ErrUnauthenticated
		}
		u, err := a.Authenticate(c.UserContext(), token)
		if err != nil || u == nil {
			return ErrUnauthenticated
		}
		c.Locals(UserLocalKey, u)

		if u.ForcePasswordChange && !slices.Contains(allowWhileForced, strings.TrimSuffix(c.Path(), "/")) {
			return ErrPasswordChangeRequired
		}
		return c.Next()
	}
}

// RequireRole lets the request through when the user holds any of roles.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := CurrentUser(c)
		if u == nil {
			return ErrUnauthenticated
		}
		for _, r := range roles {
			if u.HasRole(r) {
				return c.Next()
			}
		}
		return ErrRoleRequired
	}
}

// CurrentUser returns the user stored by Auth, or nil.
func CurrentUser(c *fiber.Ctx) *model.User {
	u, _ := c.Locals(UserLocalKey).(*model.User)
	return u
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
