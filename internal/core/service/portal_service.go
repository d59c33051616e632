package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/girumdom/caretaker-portal/internal/core/domain"
	"github.com/girumdom/caretaker-portal/internal/core/ports"
)

// recentMemories is how many memories the dashboard shows.
const recentMemories = 4

// Dashboard is the landing view for an authenticated user.
type Dashboard struct {
	User               domain.UserProfile `json:"user"`
	CollaborationCount int                `json:"collaboration_count"`
	MemoryCount        int                `json:"memory_count"`
	Reminders          []domain.Reminder  `json:"reminders"`
	RecentMemories     []domain.Memory    `json:"recent_memories"`
}

// PortalService serves the dashboard, senior and profile views.
type PortalService struct {
	collab  ports.CollaborationGateway
	profile ports.ProfileGateway
	log     zerolog.Logger
}

// NewPortalService returns a PortalService.
func NewPortalService(collab ports.CollaborationGateway, profile ports.ProfileGateway, log zerolog.Logger) *PortalService {
	return &PortalService{collab: collab, profile: profile, log: log}
}

// Dashboard loads reminders, memories and seniors. The collaboration count is
// the number of seniors fetched now, not the count cached on the profile.
func (s *PortalService) Dashboard(ctx context.Context, ws *Workspace) (Dashboard, error) {
	current := ws.Session.Current()
	if !current.Active() {
		return Dashboard{}, domain.ErrNotAuthenticated
	}

	reminders, err := ws.Reminders.Load(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("dashboard: %w", err)
	}
	memories, err := ws.Memories.Load(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("dashboard: %w", err)
	}
	seniors, err := ws.Seniors.Load(ctx)
	if err != nil {
		return Dashboard{}, fmt.Errorf("dashboard: %w", err)
	}

	recent := memories
	if len(recent) > recentMemories {
		recent = recent[:recentMemories]
	}
	return Dashboard{
		User:               *current.User,
		CollaborationCount: len(seniors),
		MemoryCount:        len(memories),
		Reminders:          reminders,
		RecentMemories:     recent,
	}, nil
}

// Seniors loads the seniors the caller monitors.
func (s *PortalService) Seniors(ctx context.Context, ws *Workspace) ([]domain.MonitoredSenior, error) {
	return ws.Seniors.Load(ctx)
}

// Senior loads one senior's profile with their memories and reminders.
func (s *PortalService) Senior(ctx context.Context, ws *Workspace, seniorID int64) (*domain.SeniorDetail, error) {
	token, ok := ws.Session.Credential(ctx)
	if !ok {
		return nil, domain.ErrNotAuthenticated
	}
	detail, err := s.collab.GetSenior(ctx, token, seniorID)
	if err != nil {
		return nil, fmt.Errorf("senior %d: %w", seniorID, err)
	}
	return detail, nil
}

// UpdateProfile merges a local profile change into the session.
func (s *PortalService) UpdateProfile(ctx context.Context, ws *Workspace, patch domain.ProfilePatch) (domain.Session, error) {
	if !ws.Session.Current().Active() {
		return domain.Session{}, domain.ErrNotAuthenticated
	}
	if err := ws.Session.UpdateUser(ctx, patch); err != nil {
		return domain.Session{}, err
	}
	return ws.Session.Current(), nil
}

// UpdateProfilePicture stores a picture URL obtained from an independent
// upload and mirrors it into the session.
func (s *PortalService) UpdateProfilePicture(ctx context.Context, ws *Workspace, pictureURL string) (domain.Session, error) {
	token, ok := ws.Session.Credential(ctx)
	if !ok {
		return domain.Session{}, domain.ErrNotAuthenticated
	}
	user := ws.Session.Current().User
	if user == nil {
		return domain.Session{}, domain.ErrNotAuthenticated
	}
	if err := s.profile.UpdateProfilePicture(ctx, token, user.ID, pictureURL); err != nil {
		return domain.Session{}, fmt.Errorf("update profile picture: %w", err)
	}
	if err := ws.Session.UpdateUser(ctx, domain.ProfilePatch{ProfilePicture: &pictureURL}); err != nil {
		return domain.Session{}, err
	}
	return ws.Session.Current(), nil
}
