package domain

// MonitoredSenior is one row of the caller's collaborations list.
type MonitoredSenior struct {
	CollaborationID   int64   `json:"collaboration_id"`
	CollaborationName string  `json:"collaboration_name"`
	SeniorID          int64   `json:"senior_id"`
	SeniorName        string  `json:"senior_name"`
	SeniorPicture     *string `json:"senior_pfp"`
	MemoryCount       int     `json:"memory_count"`
	MyRole            string  `json:"my_role"`
}

// SeniorDetail is the profile of a single senior with their memories and reminders.
type SeniorDetail struct {
	Fullname       string     `json:"fullname"`
	Email          string     `json:"email"`
	ProfilePicture string     `json:"profile_picture"`
	Memories       []Memory   `json:"memories"`
	Reminders      []Reminder `json:"reminders"`
}
