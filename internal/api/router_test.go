package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/girumdom/caretaker-portal/internal/api/handler"
	"github.com/girumdom/caretaker-portal/internal/api/middleware"
	"github.com/girumdom/caretaker-portal/internal/core/domain"
	"github.com/girumdom/caretaker-portal/internal/core/ports"
	"github.com/girumdom/caretaker-portal/internal/core/service"
)

type memStorage struct {
	mu   sync.Mutex
	data map[string]string
}

func (m *memStorage) Get(_ context.Context, k string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[k]
	return v, ok, nil
}

func (m *memStorage) Set(_ context.Context, k, v string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[k] = v
	return nil
}

func (m *memStorage) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

type rejectDecoder struct{}

func (rejectDecoder) Decode(string) (domain.TokenClaims, error) {
	return domain.TokenClaims{}, errors.New("malformed")
}

type nopBackend struct{ ports.Backend }

func newTestRouter(t *testing.T, checks map[string]handler.Checker) http.Handler {
	t.Helper()
	storage := &memStorage{data: make(map[string]string)}
	registry := service.NewWorkspaceRegistry(context.Background(), service.WorkspaceDeps{
		Backend: nopBackend{},
		Decoder: rejectDecoder{},
		Storage: func(string) ports.SessionStorage { return storage },
		Log:     zerolog.Nop(),
	}, time.Hour, time.Second)
	t.Cleanup(registry.CloseAll)

	reg := prometheus.NewRegistry()
	return NewRouter(Deps{
		AppName:    "Girumdom",
		Workspaces: registry,
		Cookie:     middleware.CookieConfig{Name: "portal_sid", MaxAge: time.Hour},
		GuardWait:  time.Second,
		Checks:     checks,
		Registerer: reg,
		Gatherer:   reg,
		Log:        zerolog.Nop(),
	})
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestRouter_ProtectedRedirectsToLogin(t *testing.T) {
	r := newTestRouter(t, nil)

	rec := serve(r, http.MethodGet, "/dashboard")
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Fatalf("expected 303 to /login, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if !strings.Contains(rec.Header().Get("Set-Cookie"), "portal_sid=") {
		t.Fatalf("expected a portal cookie to be issued")
	}
}

func TestRouter_MutationWithoutSession(t *testing.T) {
	r := newTestRouter(t, nil)

	rec := serve(r, http.MethodDelete, "/memories/3?confirm=true")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRouter_UnknownRouteRedirects(t *testing.T) {
	r := newTestRouter(t, nil)

	rec := serve(r, http.MethodGet, "/no/such/view")
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Fatalf("expected 303 to /login, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestRouter_PublicViews(t *testing.T) {
	r := newTestRouter(t, nil)

	for _, path := range []string{"/", "/about", "/login", "/health"} {
		if rec := serve(r, http.MethodGet, path); rec.Code != http.StatusOK {
			t.Fatalf("GET %s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestRouter_Readiness(t *testing.T) {
	r := newTestRouter(t, map[string]handler.Checker{
		"session_storage": func(context.Context) error { return nil },
		"backend":         func(context.Context) error { return errors.New("connection refused") },
	})

	rec := serve(r, http.MethodGet, "/health/ready")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "connection refused") {
		t.Fatalf("expected failing dependency in body, got %s", rec.Body.String())
	}
}

func TestRouter_Metrics(t *testing.T) {
	r := newTestRouter(t, nil)
	serve(r, http.MethodGet, "/health")

	rec := serve(r, http.MethodGet, "/metrics")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "portal_requests_total") {
		t.Fatalf("expected request metrics, got %d", rec.Code)
	}
}
