package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/girumdom/caretaker-portal/internal/core/domain"
	"github.com/girumdom/caretaker-portal/internal/core/service"
)

// stubAuth lets each test decide how the auth flows answer.
type stubAuth struct {
	loginFn  func(ctx context.Context, ws *service.Workspace, email, password string) (domain.Session, error)
	signupFn func(ctx context.Context, req service.SignupRequest) error
}

func (s *stubAuth) Login(ctx context.Context, ws *service.Workspace, email, password string) (domain.Session, error) {
	return s.loginFn(ctx, ws, email, password)
}

func (s *stubAuth) Logout(ctx context.Context, ws *service.Workspace) error {
	return ws.Session.Logout(ctx)
}

func (s *stubAuth) Signup(ctx context.Context, req service.SignupRequest) error {
	return s.signupFn(ctx, req)
}

func (s *stubAuth) ForgotPassword(context.Context, string) (string, error) {
	return "", nil
}

func (s *stubAuth) ResetPassword(context.Context, service.ResetRequest) error {
	return nil
}

func TestLogin_Success(t *testing.T) {
	ws := newWorkspace(t, &fakeBackend{}, 0)
	ws.Guard.Settle(domain.Session{})
	h := NewAuthHandler(&stubAuth{
		loginFn: func(_ context.Context, _ *service.Workspace, email, _ string) (domain.Session, error) {
			return domain.Session{User: &domain.UserProfile{ID: 1, Email: email, Role: domain.RoleCaretaker}, Credential: "t"}, nil
		},
	})

	c, rec := newContext(http.MethodPost, "/login", strings.NewReader(`{"email":"ana@example.com","password":"secret"}`), ws)
	if err := h.Login(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp sessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.State != "authenticated" || resp.User == nil || resp.User.Email != "ana@example.com" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestLogin_ElderlyDenied(t *testing.T) {
	ws := newWorkspace(t, &fakeBackend{}, 0)
	h := NewAuthHandler(&stubAuth{
		loginFn: func(context.Context, *service.Workspace, string, string) (domain.Session, error) {
			return domain.Session{}, domain.ErrAccessDenied
		},
	})

	c, _ := newContext(http.MethodPost, "/login", strings.NewReader(`{"email":"lola@example.com","password":"secret"}`), ws)
	if err := h.Login(c); !errors.Is(err, domain.ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
}

func TestLogin_InvalidBody(t *testing.T) {
	called := false
	h := NewAuthHandler(&stubAuth{
		loginFn: func(context.Context, *service.Workspace, string, string) (domain.Session, error) {
			called = true
			return domain.Session{}, nil
		},
	})

	c, _ := newContext(http.MethodPost, "/login", strings.NewReader(`{"email":"not-an-email"}`), newWorkspace(t, &fakeBackend{}, 0))
	err := h.Login(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
	if called {
		t.Fatalf("login flow must not run on invalid input")
	}
}

func TestSignup_Created(t *testing.T) {
	var got service.SignupRequest
	h := NewAuthHandler(&stubAuth{
		signupFn: func(_ context.Context, req service.SignupRequest) error {
			got = req
			return nil
		},
	})

	body := `{"fullname":"Ana","email":"ana@example.com","password":"longenough","confirm_password":"longenough","role":"Family Member"}`
	c, rec := newContext(http.MethodPost, "/signup", strings.NewReader(body), nil)
	if err := h.Signup(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if got.Role != domain.RoleFamilyMember || got.ConfirmPassword != "longenough" {
		t.Fatalf("request not forwarded: %+v", got)
	}
}

func TestState_ReportsLoadingUntilSettled(t *testing.T) {
	ws := newWorkspace(t, &fakeBackend{}, 0)
	h := NewAuthHandler(&stubAuth{})

	c, rec := newContext(http.MethodGet, "/state", nil, ws)
	if err := h.State(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"state":"loading"`) {
		t.Fatalf("expected loading, got %s", rec.Body.String())
	}

	loggedIn(t, ws)
	c, rec = newContext(http.MethodGet, "/state", nil, ws)
	if err := h.State(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"state":"authenticated"`) {
		t.Fatalf("expected authenticated, got %s", rec.Body.String())
	}
}

func TestLogout_ClearsSession(t *testing.T) {
	ws := loggedIn(t, newWorkspace(t, &fakeBackend{}, 0))
	h := NewAuthHandler(&stubAuth{})

	c, rec := newContext(http.MethodPost, "/logout", nil, ws)
	if err := h.Logout(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK || ws.Session.Current().Active() {
		t.Fatalf("expected logged-out session, got code=%d active=%v", rec.Code, ws.Session.Current().Active())
	}
	if ws.Guard.State() != service.GuardUnauthenticated {
		t.Fatalf("guard must follow logout, got %s", ws.Guard.State())
	}
}
