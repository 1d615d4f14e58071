package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ringside/roster-service/internal/domain"
)

const principalKey = "auth_principal"

// Principal is the authenticated operator attached to a request.
type Principal struct {
	UserID string
	Role   domain.UserRole
}

// PrincipalFromCtx returns the principal set by the auth middleware, if any.
func PrincipalFromCtx(c *fiber.Ctx) (Principal, bool) {
	p, ok := c.Locals(principalKey).(Principal)
	return p, ok
}

// Middleware authenticates requests with a bearer token.
func Middleware(tokens *TokenManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return unauthorized(c, "missing authorization header")
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return unauthorized(c, "malformed authorization header")
		}
		claims, err := tokens.Verify(parts[1])
		if err != nil {
			return unauthorized(c, "invalid or expired token")
		}
		c.Locals(principalKey, Principal{UserID: claims.UserID, Role: claims.Role})
		return c.Next()
	}
}

// RequireRole restricts a route to the given roles. Admins always pass.
func RequireRole(roles ...domain.UserRole) fiber.Handler {
	allowed := make(map[domain.UserRole]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromCtx(c)
		if !ok {
			return unauthorized(c, "not authenticated")
		}
		if principal.Role == domain.RoleAdmin || allowed[principal.Role] {
			return c.Next()
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": fiber.Map{"code": "FORBIDDEN", "message": "insufficient role"},
		})
	}
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": fiber.Map{"code": "UNAUTHORIZED", "message": message},
	})
}
