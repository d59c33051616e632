package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/girumdom/caretaker-portal/internal/core/domain"
	"github.com/girumdom/caretaker-portal/internal/core/ports"
)

// Workspace is the client-side state the portal keeps for one browser: its
// session, route guard, invitation workflow and resource views.
type Workspace struct {
	ID          string
	Session     *SessionStore
	Guard       *RouteGuard
	Invitations *InvitationWorkflow
	Seniors     *ListView[domain.MonitoredSenior]
	Memories    *ListView[domain.Memory]
	Reminders   *ListView[domain.Reminder]

	lastSeen  atomic.Int64
	closeOnce sync.Once
	done      chan struct{}
}

// WorkspaceDeps are the shared collaborators every workspace is built from.
type WorkspaceDeps struct {
	Backend ports.Backend
	Decoder ports.TokenDecoder
	// Storage returns the session storage scoped to one browser id.
	Storage     func(id string) ports.SessionStorage
	Paths       GuardPaths
	Invitations InvitationOptions
	Log         zerolog.Logger
}

// NewWorkspace wires a fresh, Loading workspace. Call Start to begin the restore.
func NewWorkspace(id string, deps WorkspaceDeps) *Workspace {
	log := deps.Log.With().Str("workspace", id).Logger()
	store := NewSessionStore(deps.Storage(id), deps.Decoder, log)

	invOpts := deps.Invitations
	if invOpts.Lock != nil && invOpts.LockKey == "" {
		invOpts.LockKey = "portal:" + id + ":invitation-action"
	}

	ws := &Workspace{
		ID:          id,
		done:        make(chan struct{}),
		Session:     store,
		Guard:       NewRouteGuard(store, deps.Paths),
		Invitations: NewInvitationWorkflow(deps.Backend, store, invOpts, log),
		Seniors: NewListView("seniors", store, deps.Backend.ListSeniors,
			func(s domain.MonitoredSenior) int64 { return s.SeniorID }, log),
		Memories: NewListView("memories", store, deps.Backend.ListMemories,
			func(m domain.Memory) int64 { return m.ID }, log),
		Reminders: NewListView("reminders", store, deps.Backend.ListReminders,
			func(r domain.Reminder) int64 { return r.ID }, log),
	}
	store.Subscribe(func(s domain.Session) {
		if !s.Active() {
			ws.resetViews()
		}
	})
	ws.Touch(time.Now())
	return ws
}

// Start restores the persisted session in the background and settles the
// guard when it is done.
func (w *Workspace) Start(ctx context.Context, timeout time.Duration) {
	go func() {
		rctx := ctx
		if timeout > 0 {
			var cancel context.CancelFunc
			rctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		w.Guard.Settle(w.Session.Restore(rctx))
	}()
}

// Touch records activity at now.
func (w *Workspace) Touch(now time.Time) {
	w.lastSeen.Store(now.UnixNano())
}

// LastSeen returns the time of the most recent Touch.
func (w *Workspace) LastSeen() time.Time {
	return time.Unix(0, w.lastSeen.Load())
}

// Close unmounts every view. Persisted session data is kept.
func (w *Workspace) Close() {
	w.closeOnce.Do(func() {
		w.Seniors.Close()
		w.Memories.Close()
		w.Reminders.Close()
		w.Invitations.Reset()
		close(w.done)
	})
}

// Done is closed once the workspace has been closed.
func (w *Workspace) Done() <-chan struct{} {
	return w.done
}

func (w *Workspace) resetViews() {
	w.Seniors.Reset()
	w.Memories.Reset()
	w.Reminders.Reset()
	w.Invitations.Reset()
}
