package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/girumdom/caretaker-portal/internal/api/metrics"
	"github.com/girumdom/caretaker-portal/internal/core/domain"
	"github.com/girumdom/caretaker-portal/internal/core/service"
)

// AuthFlows is what the auth handler needs from the auth service.
type AuthFlows interface {
	Login(ctx context.Context, ws *service.Workspace, email, password string) (domain.Session, error)
	Logout(ctx context.Context, ws *service.Workspace) error
	Signup(ctx context.Context, req service.SignupRequest) error
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, req service.ResetRequest) error
}

// AuthHandler serves the login, signup, password-recovery and session views.
type AuthHandler struct {
	flows AuthFlows
}

func NewAuthHandler(flows AuthFlows) *AuthHandler {
	return &AuthHandler{flows: flows}
}

// LoginView handles GET /login.
//
// @Summary      Login view
// @Tags         auth
// @Produce      json
// @Success      200  {object}  viewResponse
// @Success      303  "Already signed in; redirected to /dashboard"
// @Router       /login [get]
func (h *AuthHandler) LoginView(c echo.Context) error {
	return c.JSON(http.StatusOK, viewResponse{View: "login"})
}

// SignupView handles GET /signup.
//
// @Summary      Signup view
// @Tags         auth
// @Produce      json
// @Success      200  {object}  viewResponse
// @Router       /signup [get]
func (h *AuthHandler) SignupView(c echo.Context) error {
	return c.JSON(http.StatusOK, viewResponse{View: "signup"})
}

// Login handles POST /login.
//
// @Summary      Sign in to the portal
// @Description  Caretakers and family members only. Elderly accounts are refused.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	ws, err := workspace(c)
	if err != nil {
		return err
	}

	s, err := h.flows.Login(c.Request().Context(), ws, req.Email, req.Password)
	metrics.LoginsTotal.WithLabelValues(loginResult(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionResponse{State: service.GuardAuthenticated.String(), User: s.User})
}

func loginResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrAccessDenied):
		return "access_denied"
	default:
		return "error"
	}
}

// Logout handles POST /logout.
//
// @Summary      Sign out
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	ws, err := workspace(c)
	if err != nil {
		return err
	}
	if err := h.flows.Logout(c.Request().Context(), ws); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionResponse{State: service.GuardUnauthenticated.String()})
}

// State handles GET /state. It never waits for the restore to finish.
//
// @Summary      Current session state
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /state [get]
func (h *AuthHandler) State(c echo.Context) error {
	ws, err := workspace(c)
	if err != nil {
		return err
	}
	resp := sessionResponse{State: ws.Guard.State().String()}
	if s := ws.Session.Current(); s.Active() && ws.Guard.State() == service.GuardAuthenticated {
		resp.User = s.User
	}
	return c.JSON(http.StatusOK, resp)
}

// Signup handles POST /signup.
//
// @Summary      Create a caretaker or family-member account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Signup form"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	err := h.flows.Signup(c.Request().Context(), service.SignupRequest{
		Fullname:        req.Fullname,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Role:            domain.Role(req.Role),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, messageResponse{Message: "Account created. You can now sign in."})
}

// ForgotPassword handles POST /forgot-password.
//
// @Summary      Email a password reset code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      forgotPasswordRequest  true  "Account email"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Router       /forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	msg, err := h.flows.ForgotPassword(c.Request().Context(), req.Email)
	if err != nil {
		return err
	}
	if msg == "" {
		msg = "If the email exists, a reset code has been sent."
	}
	return c.JSON(http.StatusOK, messageResponse{Message: msg})
}

// ResetPassword handles POST /reset-password.
//
// @Summary      Set a new password with an emailed code
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      resetPasswordRequest  true  "Reset form"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	err := h.flows.ResetPassword(c.Request().Context(), service.ResetRequest{
		Email:           req.Email,
		Code:            req.Code,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Password updated. You can now sign in."})
}
