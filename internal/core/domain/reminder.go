package domain

// RepeatInterval controls how often a reminder recurs.
type RepeatInterval string

const (
	RepeatNever  RepeatInterval = "never"
	RepeatDaily  RepeatInterval = "daily"
	RepeatWeekly RepeatInterval = "weekly"
)

// Reminder is a scheduled notification tied to a senior.
type Reminder struct {
	ID             int64          `json:"reminder_id"`
	Title          string         `json:"title"`
	Description    *string        `json:"description"`
	ReminderDate   string         `json:"reminder_date"`
	RepeatInterval RepeatInterval `json:"repeat_interval"`
	TargetUserID   int64          `json:"user_id,omitempty"`
	CreatedBy      int64          `json:"created_by,omitempty"`
}
