package handler

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

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

// expDecoder reads tokens of the form "exp-<unix>".
type expDecoder struct{}

func (expDecoder) Decode(token string) (domain.TokenClaims, error) {
	raw, ok := strings.CutPrefix(token, "exp-")
	if !ok {
		return domain.TokenClaims{}, errors.New("malformed")
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return domain.TokenClaims{}, err
	}
	return domain.TokenClaims{ExpiresAt: time.Unix(n, 0)}, nil
}

// fakeBackend implements the calls these tests reach; anything else panics
// on the nil embedded interface.
type fakeBackend struct {
	ports.Backend

	mu       sync.Mutex
	pending  []domain.Invitation
	declined []int64
	deleted  []int64
	polls    int
	onPoll   func(n int)
}

func (f *fakeBackend) PendingInvitations(context.Context, string) ([]domain.Invitation, error) {
	f.mu.Lock()
	f.polls++
	n := f.polls
	out := append([]domain.Invitation(nil), f.pending...)
	hook := f.onPoll
	f.mu.Unlock()
	if hook != nil {
		hook(n)
	}
	return out, nil
}

func (f *fakeBackend) DeclineInvitation(_ context.Context, _ string, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.declined = append(f.declined, id)
	kept := f.pending[:0:0]
	for _, inv := range f.pending {
		if inv.ID != id {
			kept = append(kept, inv)
		}
	}
	f.pending = kept
	return nil
}

func (f *fakeBackend) DeleteMemory(_ context.Context, _ string, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeBackend) ListMemories(context.Context, string) ([]domain.Memory, error) {
	return []domain.Memory{{ID: 5, Title: "Beach"}, {ID: 6, Title: "Fiesta"}}, nil
}

func (f *fakeBackend) calls() (declined, deleted []int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.declined...), append([]int64(nil), f.deleted...)
}

func newWorkspace(t *testing.T, backend ports.Backend, poll time.Duration) *service.Workspace {
	t.Helper()
	storage := &memStorage{data: make(map[string]string)}
	ws := service.NewWorkspace("w", service.WorkspaceDeps{
		Backend:     backend,
		Decoder:     expDecoder{},
		Storage:     func(string) ports.SessionStorage { return storage },
		Invitations: service.InvitationOptions{PollInterval: poll},
		Log:         zerolog.Nop(),
	})
	t.Cleanup(ws.Close)
	return ws
}

// loggedIn settles ws and signs it in as a caretaker.
func loggedIn(t *testing.T, ws *service.Workspace) *service.Workspace {
	t.Helper()
	ws.Guard.Settle(domain.Session{})
	token := "exp-" + strconv.FormatInt(time.Now().Add(time.Hour).Unix(), 10)
	profile := domain.UserProfile{ID: 7, Email: "ana@example.com", Fullname: "Ana", Role: domain.RoleCaretaker}
	if _, err := ws.Session.Login(context.Background(), token, profile); err != nil {
		t.Fatalf("login: %v", err)
	}
	return ws
}

// newContext builds an echo context for method/target carrying ws.
func newContext(method, target string, body io.Reader, ws *service.Workspace) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if ws != nil {
		middleware.WithWorkspace(c, ws)
	}
	return c, rec
}
