package model

import "math"

// Status is the lifecycle state of a task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Priority is the fixed ordered priority set for a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Label returns the Hebrew display label for the priority.
func (p Priority) Label() string {
	switch p {
	case PriorityLow:
		return "נמוכה"
	case PriorityHigh:
		return "גבוהה"
	default:
		return "בינונית"
	}
}

// NextPriority advances through the cycle low -> medium -> high -> low.
// Unknown values restart at low.
func NextPriority(p Priority) Priority {
	switch p {
	case PriorityLow:
		return PriorityMedium
	case PriorityMedium:
		return PriorityHigh
	case PriorityHigh:
		return PriorityLow
	default:
		return PriorityLow
	}
}

// SubTask is an independently completable step within a task.
type SubTask struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	IsCompleted bool   `json:"isCompleted"`
}

// Task is a trackable unit of work. The JSON shape is the persisted
// document format: camelCase keys, instants as epoch milliseconds.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	// Status is the authoritative lifecycle field.
	Status Status `json:"status"`

	// IsCompleted mirrors Status == completed. It is retained for
	// records persisted before Status existed and is re-derived on load.
	IsCompleted bool `json:"isCompleted"`

	Priority Priority  `json:"priority"`
	Subtasks []SubTask `json:"subtasks"`
	Notes    string    `json:"notes"`

	// DueDate, when set, arms a one-shot reminder for this task.
	DueDate *int64 `json:"dueDate,omitempty"`

	CreatedAt     int64  `json:"createdAt"`
	EstimatedTime string `json:"estimatedTime,omitempty"`
}

// Progress returns the display completion percentage. With subtasks it
// is the rounded completed ratio; without, a fixed value per status.
// Derived on demand, never persisted.
func (t Task) Progress() int {
	if len(t.Subtasks) > 0 {
		done := 0
		for _, st := range t.Subtasks {
			if st.IsCompleted {
				done++
			}
		}
		return int(math.Round(float64(done) * 100 / float64(len(t.Subtasks))))
	}

	switch t.Status {
	case StatusCompleted:
		return 100
	case StatusInProgress:
		return 50
	default:
		return 0
	}
}

// Clone returns a deep copy of the task, including its subtask slice.
func (t Task) Clone() Task {
	c := t
	if t.Subtasks != nil {
		c.Subtasks = append([]SubTask(nil), t.Subtasks...)
	}
	if t.DueDate != nil {
		due := *t.DueDate
		c.DueDate = &due
	}
	return c
}
