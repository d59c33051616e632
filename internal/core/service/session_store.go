package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/girumdom/caretaker-portal/internal/core/domain"
	"github.com/girumdom/caretaker-portal/internal/core/ports"
)

// SessionListener is notified synchronously after every session change.
// Listeners must not write to the store.
type SessionListener func(domain.Session)

// SessionStore owns the authenticated identity and credential of one browser.
// It is the only writer of the persisted authToken/userData pair.
type SessionStore struct {
	storage ports.SessionStorage
	decoder ports.TokenDecoder
	now     func() time.Time
	log     zerolog.Logger

	// writeMu serializes writers across storage and memory.
	writeMu sync.Mutex

	mu        sync.RWMutex
	session   domain.Session
	listeners []SessionListener
}

// NewSessionStore returns an empty (logged-out) store over storage.
func NewSessionStore(storage ports.SessionStorage, decoder ports.TokenDecoder, log zerolog.Logger) *SessionStore {
	return &SessionStore{
		storage: storage,
		decoder: decoder,
		now:     time.Now,
		log:     log,
	}
}

// Subscribe registers fn for every subsequent change.
func (s *SessionStore) Subscribe(fn SessionListener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Current returns a copy of the in-memory session.
func (s *SessionStore) Current() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySession(s.session)
}

// Login establishes a session from a credential and profile issued by the
// backend. An expired or undecodable credential leaves the store logged out
// and returns an inactive session with a nil error; only storage failures are
// returned as errors.
func (s *SessionStore) Login(ctx context.Context, token string, profile domain.UserProfile) (domain.Session, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if !s.fresh(token) {
		if err := s.logout(ctx); err != nil {
			return domain.Session{}, err
		}
		return domain.Session{}, nil
	}

	raw, err := json.Marshal(profile)
	if err != nil {
		return domain.Session{}, fmt.Errorf("login: encode profile: %w", err)
	}
	if err := s.storage.Set(ctx, domain.KeyAuthToken, token); err != nil {
		_ = s.logout(ctx)
		return domain.Session{}, fmt.Errorf("login: persist credential: %w", err)
	}
	if err := s.storage.Set(ctx, domain.KeyUserData, string(raw)); err != nil {
		_ = s.logout(ctx)
		return domain.Session{}, fmt.Errorf("login: persist profile: %w", err)
	}

	user := profile.Clone()
	next := domain.Session{User: &user, Credential: token}
	s.set(next)
	s.log.Info().Int64("user_id", profile.ID).Str("role", string(profile.Role)).Msg("session established")
	return copySession(next), nil
}

// Logout erases the persisted pair and the in-memory session. Calling it on a
// logged-out store is harmless. The in-memory session is cleared even when the
// storage delete fails.
func (s *SessionStore) Logout(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.logout(ctx)
}

func (s *SessionStore) logout(ctx context.Context) error {
	err := s.storage.Delete(ctx, domain.KeyAuthToken, domain.KeyUserData)
	s.set(domain.Session{})
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Restore reconstructs the session from storage. Anything missing, expired or
// unreadable yields a logged-out store with the persisted pair cleared.
func (s *SessionStore) Restore(ctx context.Context) domain.Session {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	token, user, err := s.load(ctx)
	if err != nil {
		s.log.Debug().Err(err).Msg("no session restored")
		if logoutErr := s.logout(ctx); logoutErr != nil {
			s.log.Warn().Err(logoutErr).Msg("failed to clear stale session")
		}
		return domain.Session{}
	}

	next := domain.Session{User: user, Credential: token}
	s.set(next)
	s.log.Debug().Int64("user_id", user.ID).Msg("session restored")
	return copySession(next)
}

var errNoSession = errors.New("no persisted session")

func (s *SessionStore) load(ctx context.Context) (string, *domain.UserProfile, error) {
	token, ok, err := s.storage.Get(ctx, domain.KeyAuthToken)
	if err != nil {
		return "", nil, fmt.Errorf("read credential: %w", err)
	}
	if !ok || token == "" {
		return "", nil, errNoSession
	}
	if !s.fresh(token) {
		return "", nil, errors.New("persisted credential expired or undecodable")
	}

	raw, ok, err := s.storage.Get(ctx, domain.KeyUserData)
	if err != nil {
		return "", nil, fmt.Errorf("read profile: %w", err)
	}
	if !ok {
		return "", nil, errNoSession
	}
	var user domain.UserProfile
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return "", nil, fmt.Errorf("decode profile: %w", err)
	}
	return token, &user, nil
}

// UpdateUser merges patch into the profile, in memory and in storage. The
// credential is untouched. Without a session it does nothing.
func (s *SessionStore) UpdateUser(ctx context.Context, patch domain.ProfilePatch) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	current := s.Current()
	if !current.Active() {
		return nil
	}

	merged := current.User.Merge(patch)
	raw, err := json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("update user: encode profile: %w", err)
	}
	if err := s.storage.Set(ctx, domain.KeyUserData, string(raw)); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	s.set(domain.Session{User: &merged, Credential: current.Credential})
	return nil
}

// Credential returns the bearer credential for an outbound request. The expiry
// is re-checked on every call; an elapsed credential logs the store out.
func (s *SessionStore) Credential(ctx context.Context) (string, bool) {
	current := s.Current()
	if !current.Active() {
		return "", false
	}
	if !s.fresh(current.Credential) {
		s.expire(ctx, current.Credential)
		return "", false
	}
	return current.Credential, true
}

// expire logs out unless another write already replaced the stale credential.
func (s *SessionStore) expire(ctx context.Context, stale string) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if s.Current().Credential != stale {
		return
	}
	s.log.Info().Msg("credential expired, logging out")
	if err := s.logout(ctx); err != nil {
		s.log.Warn().Err(err).Msg("failed to clear expired session")
	}
}

func (s *SessionStore) fresh(token string) bool {
	if token == "" {
		return false
	}
	claims, err := s.decoder.Decode(token)
	if err != nil {
		s.log.Debug().Err(err).Msg("credential not decodable")
		return false
	}
	return !claims.Expired(s.now())
}

func (s *SessionStore) set(next domain.Session) {
	s.mu.Lock()
	s.session = next
	listeners := append([]SessionListener(nil), s.listeners...)
	s.mu.Unlock()

	snapshot := copySession(next)
	for _, fn := range listeners {
		fn(snapshot)
	}
}

func copySession(in domain.Session) domain.Session {
	if in.User == nil {
		return domain.Session{}
	}
	u := in.User.Clone()
	return domain.Session{User: &u, Credential: in.Credential}
}
