package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/girumdom/caretaker-portal/internal/core/domain"
)

// RBAC only lets sessions with one of the allowed roles through.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ws, ok := WorkspaceFrom(c)
			if !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			s := ws.Session.Current()
			if !s.Active() {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			if _, ok := allowed[s.User.Role]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
