package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eztransport/logistics-api/internal/policy"
)

// RequireRole gates a route group on the closed role set. The role
// claim placed in context by JWTAuth is parsed into a policy.Role and
// run through the same guard decision the navigation layer uses, so an
// absent principal yields 401 while a present but unauthorized one
// yields 403. Passing no roles leaves the route open to any
// authenticated principal.
func RequireRole(roles ...policy.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claim, _ := c.Get("role").(string)
			role := policy.ParseRole(claim)
			authenticated := claim != "" && role != policy.RoleUnknown

			switch policy.Decide(role, authenticated, roles) {
			case policy.StateAllowed:
				return next(c)
			case policy.StateUnauthenticated:
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			default:
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
		}
	}
}
