package domain

import "time"

type Notification struct {
	ID          string
	UserID      string
	Title       string
	Message     string
	Type        string // "general", "payment", "subscription", ...
	Read        bool
	ReadAt      *time.Time
	ScheduledAt *time.Time
	CreatedAt   time.Time
}

// NotificationFilter scopes reads to one user; notifications are never read
// across users.
type NotificationFilter struct {
	UserID     string
	UnreadOnly bool
	Offset     int
	Limit      int
}
