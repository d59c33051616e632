package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/girumdom/caretaker-portal/internal/core/domain"
	"github.com/girumdom/caretaker-portal/internal/core/ports"
)

// CredentialSource yields the bearer credential for outbound requests.
type CredentialSource interface {
	Credential(ctx context.Context) (string, bool)
}

// InvitationOptions tunes an InvitationWorkflow.
type InvitationOptions struct {
	PollInterval time.Duration
	// Lock, when set, serialises decisions across portal instances under LockKey.
	Lock    ports.ActionLock
	LockKey string
	LockTTL time.Duration
}

// InvitationWorkflow keeps the pending invitation set of one browser and
// performs accept/decline decisions on it, one at a time.
type InvitationWorkflow struct {
	gateway ports.CollaborationGateway
	creds   CredentialSource
	opts    InvitationOptions
	log     zerolog.Logger

	mu      sync.RWMutex
	pending []domain.Invitation
	gen     uint64

	busy    atomic.Bool
	pollers atomic.Int32
	kick    chan struct{}
}

// NewInvitationWorkflow returns a workflow with an empty pending set.
func NewInvitationWorkflow(gateway ports.CollaborationGateway, creds CredentialSource, opts InvitationOptions, log zerolog.Logger) *InvitationWorkflow {
	if opts.PollInterval <= 0 {
		opts.PollInterval = 30 * time.Second
	}
	if opts.LockTTL <= 0 {
		opts.LockTTL = 30 * time.Second
	}
	return &InvitationWorkflow{
		gateway: gateway,
		creds:   creds,
		opts:    opts,
		log:     log,
		kick:    make(chan struct{}, 1),
	}
}

// Pending returns a copy of the current pending set.
func (w *InvitationWorkflow) Pending() []domain.Invitation {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]domain.Invitation(nil), w.pending...)
}

// Refresh replaces the pending set with the backend's. On failure the set is
// left as it was.
func (w *InvitationWorkflow) Refresh(ctx context.Context) ([]domain.Invitation, error) {
	token, ok := w.creds.Credential(ctx)
	if !ok {
		return nil, domain.ErrNotAuthenticated
	}

	w.mu.RLock()
	gen := w.gen
	w.mu.RUnlock()

	invites, err := w.gateway.PendingInvitations(ctx, token)
	if err != nil {
		return w.Pending(), fmt.Errorf("refresh invitations: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.gen {
		return append([]domain.Invitation(nil), w.pending...), nil
	}
	w.pending = append([]domain.Invitation(nil), invites...)
	w.gen++
	return append([]domain.Invitation(nil), w.pending...), nil
}

// Run polls immediately and then every PollInterval until ctx is done,
// passing each snapshot to onUpdate. A failed poll keeps the last snapshot.
func (w *InvitationWorkflow) Run(ctx context.Context, onUpdate func([]domain.Invitation)) {
	w.pollers.Add(1)
	defer w.pollers.Add(-1)

	ticker := time.NewTicker(w.opts.PollInterval)
	defer ticker.Stop()

	poll := func() {
		snapshot, err := w.Refresh(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.log.Warn().Err(err).Msg("invitation poll failed")
		}
		if onUpdate != nil && ctx.Err() == nil {
			onUpdate(snapshot)
		}
	}

	poll()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			poll()
		case <-w.kick:
			poll()
		}
	}
}

// Accept accepts an invitation. On success exactly that invitation leaves the
// pending set and a fresh poll is triggered.
func (w *InvitationWorkflow) Accept(ctx context.Context, inviteID int64) error {
	return w.decide(ctx, inviteID, domain.DecisionAccept)
}

// Decline declines an invitation once the user has confirmed. Without
// confirmation no request is made.
func (w *InvitationWorkflow) Decline(ctx context.Context, inviteID int64, confirmed bool) error {
	if !confirmed {
		return domain.ErrConfirmationRequired
	}
	return w.decide(ctx, inviteID, domain.DecisionDecline)
}

func (w *InvitationWorkflow) decide(ctx context.Context, inviteID int64, decision domain.InvitationDecision) error {
	if !w.busy.CompareAndSwap(false, true) {
		return domain.ErrActionInFlight
	}
	defer w.busy.Store(false)

	token, ok := w.creds.Credential(ctx)
	if !ok {
		return domain.ErrNotAuthenticated
	}

	if w.opts.Lock != nil && w.opts.LockKey != "" {
		acquired, err := w.opts.Lock.Acquire(ctx, w.opts.LockKey, w.opts.LockTTL)
		switch {
		case err != nil:
			w.log.Warn().Err(err).Msg("action lock unavailable, proceeding")
		case !acquired:
			return domain.ErrActionInFlight
		default:
			defer func() {
				if err := w.opts.Lock.Release(context.WithoutCancel(ctx), w.opts.LockKey); err != nil {
					w.log.Warn().Err(err).Msg("failed to release action lock")
				}
			}()
		}
	}

	var err error
	if decision == domain.DecisionAccept {
		err = w.gateway.AcceptInvitation(ctx, token, inviteID)
	} else {
		err = w.gateway.DeclineInvitation(ctx, token, inviteID)
	}
	if err != nil {
		return fmt.Errorf("%s invitation %d: %w", decision, inviteID, err)
	}

	w.remove(inviteID)
	w.log.Info().Int64("invite_id", inviteID).Str("decision", string(decision)).Msg("invitation decided")
	w.refreshSoon(ctx)
	return nil
}

// RequestAccess asks the senior with the given email to let the caller join
// their collaboration.
func (w *InvitationWorkflow) RequestAccess(ctx context.Context, seniorEmail string) error {
	token, ok := w.creds.Credential(ctx)
	if !ok {
		return domain.ErrNotAuthenticated
	}
	email := strings.TrimSpace(seniorEmail)
	if err := w.gateway.RequestAccess(ctx, token, email); err != nil {
		return fmt.Errorf("request access: %w", err)
	}
	return nil
}

// Reset empties the pending set and drops any poll still in flight.
func (w *InvitationWorkflow) Reset() {
	w.mu.Lock()
	w.pending = nil
	w.gen++
	w.mu.Unlock()
}

// remove drops inviteID locally. Polls already in flight may still carry it
// and are discarded.
func (w *InvitationWorkflow) remove(inviteID int64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.gen++
	kept := w.pending[:0:0]
	for _, inv := range w.pending {
		if inv.ID != inviteID {
			kept = append(kept, inv)
		}
	}
	w.pending = kept
}

func (w *InvitationWorkflow) refreshSoon(ctx context.Context) {
	if w.pollers.Load() > 0 {
		select {
		case w.kick <- struct{}{}:
		default:
		}
		return
	}
	if _, err := w.Refresh(ctx); err != nil {
		w.log.Warn().Err(err).Msg("post-decision refresh failed")
	}
}
