package remind

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nhle/smart-tasks/internal/model"
	"github.com/nhle/smart-tasks/internal/store"
)

// reminderBody is the fixed notification body for a due task.
const reminderBody = "הגיע הזמן לבצע את המשימה!"

// StoreNotifier records emitted reminders in the notification log so
// the presentation layer can surface and dismiss them.
type StoreNotifier struct {
	store  store.Store
	logger *zap.Logger
}

// NewStoreNotifier creates a notifier backed by the given store.
func NewStoreNotifier(s store.Store, logger *zap.Logger) *StoreNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StoreNotifier{store: s, logger: logger}
}

// Notify appends a reminder notification for the task.
func (n *StoreNotifier) Notify(ctx context.Context, task model.Task) error {
	notification := model.Notification{
		TaskID:    task.ID,
		Title:     fmt.Sprintf("תזכורת: %s", task.Title),
		Message:   reminderBody,
		CreatedAt: time.Now(),
	}

	if err := n.store.CreateNotification(ctx, notification); err != nil {
		return fmt.Errorf("recording reminder for task %s: %w", task.ID, err)
	}

	n.logger.Info("reminder emitted",
		zap.String("task_id", task.ID),
		zap.String("title", task.Title),
	)
	return nil
}
