package store

import "github.com/nhle/smart-tasks/internal/model"

// MigrateTask normalizes a loaded task record to the current schema.
// Records persisted before the status field existed derive it from the
// legacy isCompleted flag; missing priority, subtasks, and notes are
// backfilled. Applying it to an already-migrated record is a no-op.
func MigrateTask(t model.Task) model.Task {
	if !t.Status.Valid() {
		if t.IsCompleted {
			t.Status = model.StatusCompleted
		} else {
			t.Status = model.StatusPending
		}
	}

	if !t.Priority.Valid() {
		t.Priority = legacyPriority(t.Priority)
	}

	if t.Subtasks == nil {
		t.Subtasks = []model.SubTask{}
	}

	// Whatever was stored, isCompleted mirrors the resolved status.
	t.IsCompleted = t.Status == model.StatusCompleted

	return t
}

// legacyPriority maps the Hebrew display labels persisted by early
// versions onto the fixed priority set. Anything else becomes medium.
func legacyPriority(p model.Priority) model.Priority {
	switch string(p) {
	case model.PriorityLow.Label():
		return model.PriorityLow
	case model.PriorityMedium.Label():
		return model.PriorityMedium
	case model.PriorityHigh.Label():
		return model.PriorityHigh
	default:
		return model.PriorityMedium
	}
}
