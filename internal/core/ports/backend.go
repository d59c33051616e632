package ports

import (
	"context"

	"github.com/girumdom/caretaker-portal/internal/core/domain"
)

// SignupInput is the account-creation payload forwarded to the backend.
type SignupInput struct {
	Fullname string
	Email    string
	Password string
	Role     domain.Role
}

// MemoryInput is the text part of a new memory.
type MemoryInput struct {
	Title       string
	Content     string
	DateOfEvent string
}

// ReminderInput is the create/update payload for a reminder. ReminderDate is
// an RFC 3339 UTC timestamp.
type ReminderInput struct {
	Title          string
	Description    string
	ReminderDate   string
	RepeatInterval domain.RepeatInterval
}

// AuthGateway talks to the backend's unauthenticated auth endpoints.
type AuthGateway interface {
	Login(ctx context.Context, email, password string) (string, *domain.UserProfile, error)
	Signup(ctx context.Context, in SignupInput) error
	// ForgotPassword asks the backend to email a reset code and returns its message.
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, email, code, newPassword string) error
}

// CollaborationGateway covers monitored seniors and the invitation lifecycle.
type CollaborationGateway interface {
	ListSeniors(ctx context.Context, token string) ([]domain.MonitoredSenior, error)
	GetSenior(ctx context.Context, token string, seniorID int64) (*domain.SeniorDetail, error)
	RequestAccess(ctx context.Context, token, seniorEmail string) error
	PendingInvitations(ctx context.Context, token string) ([]domain.Invitation, error)
	AcceptInvitation(ctx context.Context, token string, inviteID int64) error
	DeclineInvitation(ctx context.Context, token string, inviteID int64) error
}

// MemoryGateway covers memory CRUD plus image and narration attachments.
// Attachments travel as base64 data URIs.
type MemoryGateway interface {
	ListMemories(ctx context.Context, token string) ([]domain.Memory, error)
	// CreateMemory creates a memory linked to a collaboration and returns its id.
	CreateMemory(ctx context.Context, token string, collaborationID int64, in MemoryInput) (int64, error)
	DeleteMemory(ctx context.Context, token string, memoryID int64) error
	UploadImages(ctx context.Context, token string, memoryID int64, images []string) error
	UploadNarration(ctx context.Context, token string, memoryID, userID int64, audio string) error
}

// ReminderGateway covers reminder CRUD.
type ReminderGateway interface {
	ListReminders(ctx context.Context, token string) ([]domain.Reminder, error)
	CreateReminder(ctx context.Context, token string, collaborationID int64, in ReminderInput) error
	UpdateReminder(ctx context.Context, token string, reminderID int64, in ReminderInput) error
	DeleteReminder(ctx context.Context, token string, reminderID int64) error
}

// ProfileGateway stores profile-picture references after an independent upload.
type ProfileGateway interface {
	UpdateProfilePicture(ctx context.Context, token string, userID int64, pictureURL string) error
}

// Backend is the full REST surface the portal consumes.
type Backend interface {
	AuthGateway
	CollaborationGateway
	MemoryGateway
	ReminderGateway
	ProfileGateway
}

// NarrationSynthesizer turns text into speech audio.
type NarrationSynthesizer interface {
	Synthesize(ctx context.Context, text string, lang domain.NarrationLanguage) (audio []byte, contentType string, err error)
}
