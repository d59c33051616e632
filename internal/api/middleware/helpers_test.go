package middleware

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

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

// nopBackend satisfies ports.Backend; no test here reaches the backend.
type nopBackend struct{ ports.Backend }

func newWorkspace(t *testing.T, id string) *service.Workspace {
	t.Helper()
	storage := &memStorage{data: make(map[string]string)}
	return service.NewWorkspace(id, service.WorkspaceDeps{
		Backend: nopBackend{},
		Decoder: expDecoder{},
		Storage: func(string) ports.SessionStorage { return storage },
		Log:     zerolog.Nop(),
	})
}

// settled returns a workspace whose guard has settled, logged in with role
// when role is non-empty.
func settled(t *testing.T, role domain.Role) *service.Workspace {
	t.Helper()
	ws := newWorkspace(t, "w")
	ws.Guard.Settle(domain.Session{})
	if role != "" {
		token := "exp-" + strconv.FormatInt(time.Now().Add(time.Hour).Unix(), 10)
		if _, err := ws.Session.Login(context.Background(), token, domain.UserProfile{ID: 1, Role: role}); err != nil {
			t.Fatalf("login: %v", err)
		}
	}
	return ws
}

type fakeSource struct {
	mu   sync.Mutex
	seen []string
	ws   map[string]*service.Workspace
	t    *testing.T
}

func (f *fakeSource) Get(id string) *service.Workspace {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, id)
	if f.ws == nil {
		f.ws = make(map[string]*service.Workspace)
	}
	if ws, ok := f.ws[id]; ok {
		return ws
	}
	ws := newWorkspace(f.t, id)
	f.ws[id] = ws
	return ws
}

func (f *fakeSource) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.ws)
}
