package model

import "time"

// Notification is a reminder surfaced to the user about a due task.
type Notification struct {
	// ID is the unique identifier for this notification.
	ID string `json:"id"`

	// TaskID links this notification to the task that came due.
	TaskID string `json:"task_id"`

	// Title is the notification headline, referencing the task name.
	Title string `json:"title"`

	// Message is the human-readable notification body.
	Message string `json:"message"`

	// Read indicates whether the user has seen this notification.
	Read bool `json:"read"`

	// CreatedAt is when this notification was emitted.
	CreatedAt time.Time `json:"created_at"`
}
