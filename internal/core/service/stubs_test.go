package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/girumdom/caretaker-portal/internal/core/domain"
	"github.com/girumdom/caretaker-portal/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Storage
// ---------------------------------------------------------------------------

type memStorage struct {
	mu     sync.Mutex
	data   map[string]string
	setErr error
	getErr error
	// onSet runs before each Set is applied.
	onSet func(key string)
}

func newMemStorage() *memStorage {
	return &memStorage{data: make(map[string]string)}
}

func (m *memStorage) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memStorage) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	hook := m.onSet
	m.mu.Unlock()
	if hook != nil {
		hook(key)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
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

func (m *memStorage) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

// ---------------------------------------------------------------------------
// Token decoder: tokens look like "tok-<userID>-<unix expiry>".
// ---------------------------------------------------------------------------

type stubDecoder struct{}

func (stubDecoder) Decode(token string) (domain.TokenClaims, error) {
	parts := strings.Split(token, "-")
	if len(parts) != 3 || parts[0] != "tok" {
		return domain.TokenClaims{}, errors.New("malformed token")
	}
	uid, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return domain.TokenClaims{}, err
	}
	exp, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return domain.TokenClaims{}, err
	}
	return domain.TokenClaims{UserID: uid, ExpiresAt: time.Unix(exp, 0)}, nil
}

func tokenFor(userID int64, exp time.Time) string {
	return fmt.Sprintf("tok-%d-%d", userID, exp.Unix())
}

func validToken(userID int64) string {
	return tokenFor(userID, time.Now().Add(time.Hour))
}

func caretaker(id int64) domain.UserProfile {
	return domain.UserProfile{ID: id, Email: "carer@example.com", Fullname: "Ana Cruz", Role: domain.RoleCaretaker}
}

// ---------------------------------------------------------------------------
// Backend
// ---------------------------------------------------------------------------

type stubBackend struct {
	mu sync.Mutex

	loginToken string
	loginUser  *domain.UserProfile
	loginErr   error
	signups    []ports.SignupInput
	resets     int

	seniors    []domain.MonitoredSenior
	seniorsErr error
	detail     *domain.SeniorDetail
	accessReqs []string

	invites       []domain.Invitation
	pendingCalls  int
	decisionCalls int
	decisionErr   error
	// pendingGate, when set, holds the next poll after it has read the
	// invites. It is used once.
	pendingGate    chan struct{}
	pendingStarted chan struct{}
	// decisionGate, when set, blocks each accept/decline until it is closed.
	decisionGate    chan struct{}
	decisionStarted chan struct{}

	memories        []domain.Memory
	memoriesErr     error
	memoriesGate    chan struct{}
	memoriesStarted chan struct{}
	nextMemoryID    int64
	created         []ports.MemoryInput
	images          map[int64][]string
	narrations      map[int64]string

	reminders       []domain.Reminder
	remindersErr    error
	createdReminder []ports.ReminderInput
	updatedReminder map[int64]ports.ReminderInput

	deleteCalls []int64
	deleteErr   error
	deleteGate  chan struct{}

	pictures map[int64]string
}

func newStubBackend() *stubBackend {
	return &stubBackend{
		nextMemoryID:    100,
		images:          make(map[int64][]string),
		narrations:      make(map[int64]string),
		updatedReminder: make(map[int64]ports.ReminderInput),
		pictures:        make(map[int64]string),
	}
}

func (b *stubBackend) Login(_ context.Context, _, _ string) (string, *domain.UserProfile, error) {
	return b.loginToken, b.loginUser, b.loginErr
}

func (b *stubBackend) Signup(_ context.Context, in ports.SignupInput) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.signups = append(b.signups, in)
	return nil
}

func (b *stubBackend) ForgotPassword(_ context.Context, _ string) (string, error) {
	return "Reset code sent", nil
}

func (b *stubBackend) ResetPassword(_ context.Context, _, _, _ string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.resets++
	return nil
}

func (b *stubBackend) ListSeniors(_ context.Context, _ string) ([]domain.MonitoredSenior, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.MonitoredSenior(nil), b.seniors...), b.seniorsErr
}

func (b *stubBackend) GetSenior(_ context.Context, _ string, _ int64) (*domain.SeniorDetail, error) {
	if b.detail == nil {
		return nil, &domain.BackendError{Status: 404}
	}
	return b.detail, nil
}

func (b *stubBackend) RequestAccess(_ context.Context, _, email string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.accessReqs = append(b.accessReqs, email)
	return nil
}

func (b *stubBackend) PendingInvitations(_ context.Context, _ string) ([]domain.Invitation, error) {
	b.mu.Lock()
	b.pendingCalls++
	snapshot := append([]domain.Invitation(nil), b.invites...)
	gate, started := b.pendingGate, b.pendingStarted
	b.pendingGate, b.pendingStarted = nil, nil
	b.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if gate != nil {
		<-gate
	}
	return snapshot, nil
}

func (b *stubBackend) AcceptInvitation(_ context.Context, _ string, id int64) error {
	return b.decide(id)
}

func (b *stubBackend) DeclineInvitation(_ context.Context, _ string, id int64) error {
	return b.decide(id)
}

func (b *stubBackend) decide(id int64) error {
	b.mu.Lock()
	b.decisionCalls++
	gate, started := b.decisionGate, b.decisionStarted
	b.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if gate != nil {
		<-gate
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.decisionErr != nil {
		return b.decisionErr
	}
	kept := b.invites[:0:0]
	for _, inv := range b.invites {
		if inv.ID != id {
			kept = append(kept, inv)
		}
	}
	b.invites = kept
	return nil
}

func (b *stubBackend) ListMemories(ctx context.Context, _ string) ([]domain.Memory, error) {
	b.mu.Lock()
	gate, started := b.memoriesGate, b.memoriesStarted
	b.mu.Unlock()
	if started != nil {
		started <- struct{}{}
	}
	if gate != nil {
		<-gate
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.Memory(nil), b.memories...), b.memoriesErr
}

func (b *stubBackend) CreateMemory(_ context.Context, _ string, _ int64, in ports.MemoryInput) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextMemoryID++
	b.created = append(b.created, in)
	b.memories = append([]domain.Memory{{ID: b.nextMemoryID, Title: in.Title}}, b.memories...)
	return b.nextMemoryID, nil
}

func (b *stubBackend) DeleteMemory(_ context.Context, _ string, id int64) error {
	return b.remove(id)
}

func (b *stubBackend) UploadImages(_ context.Context, _ string, memoryID int64, images []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.images[memoryID] = append(b.images[memoryID], images...)
	return nil
}

func (b *stubBackend) UploadNarration(_ context.Context, _ string, memoryID, _ int64, audio string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.narrations[memoryID] = audio
	return nil
}

func (b *stubBackend) ListReminders(_ context.Context, _ string) ([]domain.Reminder, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.Reminder(nil), b.reminders...), b.remindersErr
}

func (b *stubBackend) CreateReminder(_ context.Context, _ string, _ int64, in ports.ReminderInput) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.createdReminder = append(b.createdReminder, in)
	return nil
}

func (b *stubBackend) UpdateReminder(_ context.Context, _ string, id int64, in ports.ReminderInput) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.updatedReminder[id] = in
	return nil
}

func (b *stubBackend) DeleteReminder(_ context.Context, _ string, id int64) error {
	return b.remove(id)
}

func (b *stubBackend) remove(id int64) error {
	b.mu.Lock()
	b.deleteCalls = append(b.deleteCalls, id)
	gate := b.deleteGate
	b.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return b.deleteErr
}

func (b *stubBackend) UpdateProfilePicture(_ context.Context, _ string, userID int64, url string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pictures[userID] = url
	return nil
}

func (b *stubBackend) counts() (pending, decisions, deletes int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pendingCalls, b.decisionCalls, len(b.deleteCalls)
}

// ---------------------------------------------------------------------------
// Credentials
// ---------------------------------------------------------------------------

type staticCreds struct{ token string }

func (c staticCreds) Credential(context.Context) (string, bool) {
	return c.token, c.token != ""
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

type storageSet struct {
	mu    sync.Mutex
	items map[string]*memStorage
}

func (s *storageSet) get(id string) ports.SessionStorage {
	return s.mem(id)
}

func (s *storageSet) mem(id string) *memStorage {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.items == nil {
		s.items = make(map[string]*memStorage)
	}
	m, ok := s.items[id]
	if !ok {
		m = newMemStorage()
		s.items[id] = m
	}
	return m
}

func testDeps(backend *stubBackend, storages *storageSet) WorkspaceDeps {
	return WorkspaceDeps{
		Backend: backend,
		Decoder: stubDecoder{},
		Storage: storages.get,
		Invitations: InvitationOptions{
			PollInterval: time.Hour,
		},
		Log: zerolog.Nop(),
	}
}

// newSettledWorkspace returns a workspace whose restore has completed.
func newSettledWorkspace(backend *stubBackend, storages *storageSet, id string) *Workspace {
	ws := NewWorkspace(id, testDeps(backend, storages))
	ws.Start(context.Background(), time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	ws.Guard.Wait(ctx)
	return ws
}

// loggedIn returns a settled workspace with an active caretaker session.
func loggedIn(backend *stubBackend) *Workspace {
	ws := newSettledWorkspace(backend, &storageSet{}, "ws-1")
	if _, err := ws.Session.Login(context.Background(), validToken(7), caretaker(7)); err != nil {
		panic(err)
	}
	return ws
}
