package handler

import (
	"github.com/girumdom/caretaker-portal/internal/core/domain"
	"github.com/girumdom/caretaker-portal/internal/core/service"
)

// --- Auth ---

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type signupRequest struct {
	Fullname        string `json:"fullname"         validate:"required"`
	Email           string `json:"email"            validate:"required,email"`
	Password        string `json:"password"         validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
	Role            string `json:"role"             validate:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Email           string `json:"email"            validate:"required,email"`
	Code            string `json:"code"             validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// sessionResponse is the portal's view of the caller's session.
type sessionResponse struct {
	State string              `json:"state"`
	User  *domain.UserProfile `json:"user,omitempty"`
}

// viewResponse names the view a guest route renders.
type viewResponse struct {
	View string `json:"view"`
}

// --- Profile ---

type updateProfileRequest struct {
	Fullname *string `json:"fullname" validate:"omitempty,min=1"`
	Email    *string `json:"email"    validate:"omitempty,email"`
}

type updatePictureRequest struct {
	ProfilePicture string `json:"profile_picture" validate:"required,url"`
}

// --- Seniors & invitations ---

type connectSeniorRequest struct {
	SeniorEmail string `json:"senior_email" validate:"required,email"`
}

type invitationsResponse struct {
	Invitations []domain.Invitation `json:"invitations"`
}

// --- Memories ---

type createMemoryRequest struct {
	CollaborationID int64    `json:"collaboration_id" validate:"required,gt=0"`
	Title           string   `json:"title"            validate:"required"`
	Content         string   `json:"content"`
	DateOfEvent     string   `json:"date_of_event"    validate:"required,datetime=2006-01-02"`
	Language        string   `json:"language"         validate:"omitempty,oneof=tgl en bikol"`
	Images          []string `json:"images"`
}

type createMemoryResponse struct {
	MemoryID        int64 `json:"memory_id"`
	ImagesUploaded  int   `json:"images_uploaded"`
	NarrationQueued bool  `json:"narration_queued"`
}

// --- Reminders ---

type reminderRequest struct {
	CollaborationID int64  `json:"collaboration_id"`
	Title           string `json:"title"           validate:"required"`
	Description     string `json:"description"`
	Date            string `json:"date"            validate:"required,datetime=2006-01-02"`
	Time            string `json:"time"            validate:"required,datetime=15:04"`
	RepeatInterval  string `json:"repeat_interval" validate:"omitempty,oneof=never daily weekly"`
}

func (r reminderRequest) toService() service.ReminderRequest {
	return service.ReminderRequest{
		CollaborationID: r.CollaborationID,
		Title:           r.Title,
		Description:     r.Description,
		Date:            r.Date,
		Time:            r.Time,
		RepeatInterval:  domain.RepeatInterval(r.RepeatInterval),
	}
}
