package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// WorkspaceRegistry maps browser ids to live workspaces. A workspace that has
// been idle longer than the TTL is evicted; the next request for that browser
// builds a new one and restores it from storage.
type WorkspaceRegistry struct {
	deps           WorkspaceDeps
	idleTTL        time.Duration
	restoreTimeout time.Duration
	baseCtx        context.Context
	log            zerolog.Logger

	mu    sync.Mutex
	items map[string]*Workspace
}

// NewWorkspaceRegistry returns an empty registry. baseCtx bounds background
// restores.
func NewWorkspaceRegistry(baseCtx context.Context, deps WorkspaceDeps, idleTTL, restoreTimeout time.Duration) *WorkspaceRegistry {
	return &WorkspaceRegistry{
		deps:           deps,
		idleTTL:        idleTTL,
		restoreTimeout: restoreTimeout,
		baseCtx:        baseCtx,
		log:            deps.Log,
		items:          make(map[string]*Workspace),
	}
}

// Get returns the workspace for id, creating and starting it if needed.
func (r *WorkspaceRegistry) Get(id string) *Workspace {
	now := time.Now()

	r.mu.Lock()
	ws, ok := r.items[id]
	if !ok {
		ws = NewWorkspace(id, r.deps)
		r.items[id] = ws
	}
	r.mu.Unlock()

	ws.Touch(now)
	if !ok {
		ws.Start(r.baseCtx, r.restoreTimeout)
		r.log.Debug().Str("workspace", id).Msg("workspace created")
	}
	return ws
}

// Len returns the number of live workspaces.
func (r *WorkspaceRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Sweep evicts workspaces idle since before now minus the TTL and returns how
// many were evicted.
func (r *WorkspaceRegistry) Sweep(now time.Time) int {
	if r.idleTTL <= 0 {
		return 0
	}
	cutoff := now.Add(-r.idleTTL)

	r.mu.Lock()
	var evicted []*Workspace
	for id, ws := range r.items {
		if ws.LastSeen().Before(cutoff) {
			evicted = append(evicted, ws)
			delete(r.items, id)
		}
	}
	r.mu.Unlock()

	for _, ws := range evicted {
		ws.Close()
	}
	if len(evicted) > 0 {
		r.log.Info().Int("evicted", len(evicted)).Msg("idle workspaces swept")
	}
	return len(evicted)
}

// CloseAll evicts every workspace.
func (r *WorkspaceRegistry) CloseAll() {
	r.mu.Lock()
	items := r.items
	r.items = make(map[string]*Workspace)
	r.mu.Unlock()
	for _, ws := range items {
		ws.Close()
	}
}
