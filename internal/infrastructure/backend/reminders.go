package backend

import (
	"context"
	"fmt"
	"net/http"

	"github.com/girumdom/caretaker-portal/internal/core/domain"
	"github.com/girumdom/caretaker-portal/internal/core/ports"
)

type reminderRequest struct {
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	ReminderDate   string `json:"reminder_date"`
	RepeatInterval string `json:"repeat_interval"`
}

func toReminderRequest(in ports.ReminderInput) reminderRequest {
	return reminderRequest{
		Title:          in.Title,
		Description:    in.Description,
		ReminderDate:   in.ReminderDate,
		RepeatInterval: string(in.RepeatInterval),
	}
}

func (c *Client) ListReminders(ctx context.Context, token string) ([]domain.Reminder, error) {
	var out []domain.Reminder
	if err := c.do(ctx, "list_reminders", http.MethodGet, "/api/reminders", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateReminder(ctx context.Context, token string, collaborationID int64, in ports.ReminderInput) error {
	path := fmt.Sprintf("/api/collaborations/%d/reminders", collaborationID)
	return c.do(ctx, "create_reminder", http.MethodPost, path, token, toReminderRequest(in), nil)
}

func (c *Client) UpdateReminder(ctx context.Context, token string, reminderID int64, in ports.ReminderInput) error {
	path := fmt.Sprintf("/api/reminders/%d", reminderID)
	return c.do(ctx, "update_reminder", http.MethodPut, path, token, toReminderRequest(in), nil)
}

func (c *Client) DeleteReminder(ctx context.Context, token string, reminderID int64) error {
	return c.do(ctx, "delete_reminder", http.MethodDelete, fmt.Sprintf("/api/reminders/%d", reminderID), token, nil, nil)
}
