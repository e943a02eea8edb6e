package domain

import "time"

// Reminder is a follow-up attached to a case. Cases with unresolved reminders
// cannot be closed.
type Reminder struct {
	ID        string
	GuildID   string
	CaseID    string
	OwnerID   string
	Message   string
	DueAt     time.Time
	Resolved  bool
	CreatedAt time.Time
}
