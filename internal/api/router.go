package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/girumdom/caretaker-portal/internal/api/handler"
	"github.com/girumdom/caretaker-portal/internal/api/middleware"
	"github.com/girumdom/caretaker-portal/internal/core/domain"
	"github.com/girumdom/caretaker-portal/internal/core/service"
	_ "github.com/girumdom/caretaker-portal/internal/docs"
)

// Deps is everything the router needs to build the portal's handlers.
type Deps struct {
	AppName    string
	Workspaces middleware.WorkspaceSource
	Cookie     middleware.CookieConfig
	// GuardWait bounds how long a request waits for the session restore.
	GuardWait time.Duration

	Auth      handler.AuthFlows
	Portal    handler.PortalFlows
	Memories  handler.MemoryFlows
	Reminders handler.ReminderFlows

	Checks map[string]handler.Checker

	// Registerer and Gatherer default to the prometheus globals.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer

	Log zerolog.Logger
}

// NewRouter builds the Echo instance with all portal routes registered.
func NewRouter(d Deps) *echo.Echo {
	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "portal",
		Registerer: d.Registerer,
	}))

	// --- Operational endpoints (no workspace) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(d.Checks).Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Handlers ---
	public := handler.NewPublicHandler(d.AppName)
	auth := handler.NewAuthHandler(d.Auth)
	portal := handler.NewPortalHandler(d.Portal)
	memories := handler.NewMemoryHandler(d.Memories)
	reminders := handler.NewReminderHandler(d.Reminders)
	invitations := handler.NewInvitationHandler()

	site := e.Group("", middleware.Workspace(d.Workspaces, d.Cookie))

	// --- Public views ---
	site.GET("/", public.Landing)
	site.GET("/about", public.About)
	site.GET("/state", auth.State)
	site.POST("/forgot-password", auth.ForgotPassword)
	site.POST("/reset-password", auth.ResetPassword)

	// --- Guest views: signed-in users are sent to the dashboard ---
	guest := site.Group("", middleware.Guard(service.AccessGuest, d.GuardWait))
	guest.GET("/login", auth.LoginView)
	guest.POST("/login", auth.Login)
	guest.GET("/signup", auth.SignupView)
	guest.POST("/signup", auth.Signup)

	// --- Protected views ---
	protected := site.Group("",
		middleware.Guard(service.AccessProtected, d.GuardWait),
		middleware.RBAC(domain.RoleCaretaker, domain.RoleFamilyMember),
	)
	protected.POST("/logout", auth.Logout)
	protected.GET("/dashboard", portal.Dashboard)
	protected.PATCH("/profile", portal.UpdateProfile)
	protected.PATCH("/profile/picture", portal.UpdatePicture)

	protected.GET("/seniors", portal.Seniors)
	protected.POST("/seniors/connect", invitations.RequestAccess)
	protected.GET("/seniors/:id", portal.Senior)

	protected.GET("/memories", memories.List)
	protected.POST("/memories", memories.Create)
	protected.DELETE("/memories/:id", memories.Delete)

	protected.GET("/reminders", reminders.List)
	protected.POST("/reminders", reminders.Create)
	protected.PUT("/reminders/:id", reminders.Update)
	protected.DELETE("/reminders/:id", reminders.Delete)

	protected.GET("/invitations", invitations.List)
	protected.GET("/invitations/stream", invitations.Stream)
	protected.POST("/invitations/:id/accept", invitations.Accept)
	protected.POST("/invitations/:id/decline", invitations.Decline)

	// --- Anything else; registered last so it replaces the groups' own catch-alls ---
	site.RouteNotFound("/*", handler.NotFound, middleware.Guard(service.AccessUnknown, d.GuardWait))

	return e
}
