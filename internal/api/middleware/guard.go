package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/girumdom/caretaker-portal/internal/core/domain"
	"github.com/girumdom/caretaker-portal/internal/core/service"
)

// Guard applies the workspace's Route Guard to every request of the route.
// It waits up to wait for the initial restore before deciding; a workspace
// still loading afterwards gets a 202 placeholder.
func Guard(access service.Access, wait time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ws, ok := WorkspaceFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusInternalServerError, "workspace missing")
			}

			if access != service.AccessPublic && wait > 0 {
				ctx, cancel := context.WithTimeout(c.Request().Context(), wait)
				ws.Guard.Wait(ctx)
				cancel()
			}

			d := ws.Guard.Decide(access)
			switch d.Action {
			case service.ActionPlaceholder:
				c.Response().Header().Set("Retry-After", "1")
				return c.JSON(http.StatusAccepted, map[string]string{"state": service.GuardLoading.String()})
			case service.ActionRedirect:
				method := c.Request().Method
				if access == service.AccessProtected && method != http.MethodGet && method != http.MethodHead {
					return domain.ErrNotAuthenticated
				}
				return c.Redirect(http.StatusSeeOther, d.Location)
			}
			return next(c)
		}
	}
}
