package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/girumdom/caretaker-portal/internal/core/domain"
	"github.com/girumdom/caretaker-portal/internal/core/ports"
)

// ReminderRequest is the create/edit reminder form. Date and Time are the
// user's local wall-clock values ("2006-01-02", "15:04").
type ReminderRequest struct {
	CollaborationID int64
	Title           string
	Description     string
	Date            string
	Time            string
	RepeatInterval  domain.RepeatInterval
}

// ReminderService runs the reminder flows on top of a workspace's Reminders view.
type ReminderService struct {
	gateway ports.ReminderGateway
	loc     *time.Location
	log     zerolog.Logger
}

// NewReminderService returns a ReminderService interpreting form times in loc.
func NewReminderService(gateway ports.ReminderGateway, loc *time.Location, log zerolog.Logger) *ReminderService {
	if loc == nil {
		loc = time.Local
	}
	return &ReminderService{gateway: gateway, loc: loc, log: log}
}

// List loads the caller's reminders.
func (s *ReminderService) List(ctx context.Context, ws *Workspace) ([]domain.Reminder, error) {
	return ws.Reminders.Load(ctx)
}

// Create adds a reminder to a collaboration and reloads the view.
func (s *ReminderService) Create(ctx context.Context, ws *Workspace, req ReminderRequest) error {
	token, ok := ws.Session.Credential(ctx)
	if !ok {
		return domain.ErrNotAuthenticated
	}
	in, err := s.input(req)
	if err != nil {
		return err
	}
	if err := s.gateway.CreateReminder(ctx, token, req.CollaborationID, in); err != nil {
		return fmt.Errorf("create reminder: %w", err)
	}
	s.reload(ctx, ws)
	return nil
}

// Update edits a reminder, applies the edit locally and reloads the view.
func (s *ReminderService) Update(ctx context.Context, ws *Workspace, reminderID int64, req ReminderRequest) error {
	token, ok := ws.Session.Credential(ctx)
	if !ok {
		return domain.ErrNotAuthenticated
	}
	in, err := s.input(req)
	if err != nil {
		return err
	}
	if err := s.gateway.UpdateReminder(ctx, token, reminderID, in); err != nil {
		return fmt.Errorf("update reminder %d: %w", reminderID, err)
	}
	s.apply(ws, reminderID, in)
	s.reload(ctx, ws)
	return nil
}

// apply writes a successful edit into the local view ahead of the reload.
func (s *ReminderService) apply(ws *Workspace, reminderID int64, in ports.ReminderInput) {
	for _, r := range ws.Reminders.Items() {
		if r.ID != reminderID {
			continue
		}
		r.Title = in.Title
		r.Description = nil
		if in.Description != "" {
			desc := in.Description
			r.Description = &desc
		}
		r.ReminderDate = in.ReminderDate
		r.RepeatInterval = in.RepeatInterval
		ws.Reminders.Replace(r)
		return
	}
}

// Delete removes a reminder once the user has confirmed.
func (s *ReminderService) Delete(ctx context.Context, ws *Workspace, reminderID int64, confirmed bool) error {
	return ws.Reminders.Delete(ctx, reminderID, confirmed, s.gateway.DeleteReminder)
}

func (s *ReminderService) input(req ReminderRequest) (ports.ReminderInput, error) {
	at, err := time.ParseInLocation("2006-01-02 15:04", req.Date+" "+req.Time, s.loc)
	if err != nil {
		return ports.ReminderInput{}, fmt.Errorf("reminder date %q %q: %w", req.Date, req.Time, domain.ErrInvalidInput)
	}
	repeat := req.RepeatInterval
	switch repeat {
	case "":
		repeat = domain.RepeatNever
	case domain.RepeatNever, domain.RepeatDaily, domain.RepeatWeekly:
	default:
		return ports.ReminderInput{}, fmt.Errorf("repeat interval %q: %w", repeat, domain.ErrInvalidInput)
	}
	return ports.ReminderInput{
		Title:          strings.TrimSpace(req.Title),
		Description:    strings.TrimSpace(req.Description),
		ReminderDate:   at.UTC().Format(time.RFC3339),
		RepeatInterval: repeat,
	}, nil
}

func (s *ReminderService) reload(ctx context.Context, ws *Workspace) {
	if _, err := ws.Reminders.Load(ctx); err != nil {
		s.log.Warn().Err(err).Msg("reminders reload failed")
	}
}
