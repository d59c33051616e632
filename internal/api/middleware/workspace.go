package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/girumdom/caretaker-portal/internal/api/metrics"
	"github.com/girumdom/caretaker-portal/internal/core/service"
)

const workspaceKey = "workspace"

// CookieConfig describes the browser-identifying cookie.
type CookieConfig struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

// WorkspaceSource hands out the workspace of a browser id.
type WorkspaceSource interface {
	Get(id string) *service.Workspace
	Len() int
}

// Workspace identifies the browser by cookie, issuing a new id when the
// cookie is absent or malformed, and injects its workspace into the context.
func Workspace(src WorkspaceSource, cfg CookieConfig) echo.MiddlewareFunc {
	if cfg.Name == "" {
		cfg.Name = "portal_sid"
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := ""
			if ck, err := c.Cookie(cfg.Name); err == nil {
				if _, err := uuid.Parse(ck.Value); err == nil {
					id = ck.Value
				}
			}
			if id == "" {
				id = uuid.NewString()
			}

			c.SetCookie(&http.Cookie{
				Name:     cfg.Name,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				Secure:   cfg.Secure,
				SameSite: http.SameSiteLaxMode,
				MaxAge:   int(cfg.MaxAge.Seconds()),
			})

			WithWorkspace(c, src.Get(id))
			metrics.WorkspacesActive.Set(float64(src.Len()))
			return next(c)
		}
	}
}

// WorkspaceFrom returns the workspace injected by Workspace.
func WorkspaceFrom(c echo.Context) (*service.Workspace, bool) {
	ws, ok := c.Get(workspaceKey).(*service.Workspace)
	return ws, ok && ws != nil
}

// WithWorkspace binds ws to the request.
func WithWorkspace(c echo.Context, ws *service.Workspace) {
	c.Set(workspaceKey, ws)
}
