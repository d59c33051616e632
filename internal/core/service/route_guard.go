package service

import (
	"context"
	"sync"

	"github.com/girumdom/caretaker-portal/internal/core/domain"
)

// GuardState is the Route Guard's view of authentication.
type GuardState int

const (
	GuardLoading GuardState = iota
	GuardAuthenticated
	GuardUnauthenticated
)

func (s GuardState) String() string {
	switch s {
	case GuardAuthenticated:
		return "authenticated"
	case GuardUnauthenticated:
		return "unauthenticated"
	default:
		return "loading"
	}
}

// Access classifies a route for the guard.
type Access int

const (
	// AccessPublic renders regardless of authentication.
	AccessPublic Access = iota
	// AccessProtected requires an authenticated session.
	AccessProtected
	// AccessGuest is the login/signup family; authenticated users are sent home.
	AccessGuest
	// AccessUnknown is any route the portal does not serve.
	AccessUnknown
)

// Action is what the guard tells the caller to do with a navigation.
type Action int

const (
	ActionRender Action = iota
	ActionPlaceholder
	ActionRedirect
)

// Decision is the outcome of RouteGuard.Decide.
type Decision struct {
	Action   Action
	Location string
}

// GuardPaths configures redirect targets.
type GuardPaths struct {
	Login string
	Home  string
}

// RouteGuard gates views on the session state. It stays Loading until the
// first Restore settles and then follows the Session Store synchronously.
type RouteGuard struct {
	paths GuardPaths

	mu      sync.RWMutex
	state   GuardState
	settled chan struct{}
	once    sync.Once
}

// NewRouteGuard returns a Loading guard subscribed to store.
func NewRouteGuard(store *SessionStore, paths GuardPaths) *RouteGuard {
	if paths.Login == "" {
		paths.Login = "/login"
	}
	if paths.Home == "" {
		paths.Home = "/dashboard"
	}
	g := &RouteGuard{
		paths:   paths,
		state:   GuardLoading,
		settled: make(chan struct{}),
	}
	store.Subscribe(g.onSession)
	return g
}

func (g *RouteGuard) onSession(s domain.Session) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == GuardLoading {
		return
	}
	g.state = stateFor(s)
}

// Settle leaves Loading with the result of the initial restore. Later calls
// are ignored.
func (g *RouteGuard) Settle(s domain.Session) {
	g.once.Do(func() {
		g.mu.Lock()
		g.state = stateFor(s)
		g.mu.Unlock()
		close(g.settled)
	})
}

// State returns the current guard state.
func (g *RouteGuard) State() GuardState {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

// Wait blocks until the guard has settled or ctx is done, and returns the
// state at that point.
func (g *RouteGuard) Wait(ctx context.Context) GuardState {
	select {
	case <-g.settled:
	case <-ctx.Done():
	}
	return g.State()
}

// Decide returns what to do with a navigation to a route of the given access.
func (g *RouteGuard) Decide(access Access) Decision {
	state := g.State()
	if access == AccessPublic {
		return Decision{Action: ActionRender}
	}
	if state == GuardLoading {
		return Decision{Action: ActionPlaceholder}
	}

	authed := state == GuardAuthenticated
	switch access {
	case AccessProtected:
		if authed {
			return Decision{Action: ActionRender}
		}
		return Decision{Action: ActionRedirect, Location: g.paths.Login}
	case AccessGuest:
		if authed {
			return Decision{Action: ActionRedirect, Location: g.paths.Home}
		}
		return Decision{Action: ActionRender}
	default:
		if authed {
			return Decision{Action: ActionRedirect, Location: g.paths.Home}
		}
		return Decision{Action: ActionRedirect, Location: g.paths.Login}
	}
}

func stateFor(s domain.Session) GuardState {
	if s.Active() {
		return GuardAuthenticated
	}
	return GuardUnauthenticated
}
