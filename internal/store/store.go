package store

import (
	"context"

	"github.com/nhle/smart-tasks/internal/model"
)

// Store defines the persistence interface for the task collection and
// the reminder notification log.
//
// The task collection is persisted as a single JSON document: SaveTasks
// overwrites the whole document, LoadTasks reads it back. LoadTasks
// never fails the caller; a missing or unparseable document yields an
// empty collection.
type Store interface {
	// LoadTasks reads the persisted task collection, applying legacy
	// record migration to each entry.
	LoadTasks(ctx context.Context) []model.Task

	// SaveTasks serializes the full collection and overwrites the
	// stored document.
	SaveTasks(ctx context.Context, tasks []model.Task) error

	// CreateNotification appends an emitted reminder to the log.
	CreateNotification(ctx context.Context, n model.Notification) error

	// GetUnreadNotifications returns unseen reminders, newest first.
	GetUnreadNotifications(ctx context.Context) ([]model.Notification, error)

	// MarkNotificationRead marks a single notification as seen.
	MarkNotificationRead(ctx context.Context, id string) error
}
