package tasks

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nhle/smart-tasks/internal/ident"
	"github.com/nhle/smart-tasks/internal/model"
	"github.com/nhle/smart-tasks/internal/store"
)

// Filter selects which tasks List returns.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterPending   Filter = "pending"
	FilterCompleted Filter = "completed"
)

// Analyzer produces a structured suggestion for a task title, or an
// error when enrichment is unavailable.
type Analyzer interface {
	AnalyzeTask(ctx context.Context, title string) (*model.TaskAnalysis, error)
}

// Repository is the in-memory ordered task collection and the single
// mutation point for task state. New tasks are inserted at the front;
// the full collection is written back to the store after every
// mutation, best-effort.
//
// After every operation, isCompleted mirrors status == completed.
type Repository struct {
	mu       sync.Mutex
	tasks    []model.Task
	store    store.Store
	analyzer Analyzer
	logger   *zap.Logger

	now   func() time.Time
	newID func() string
}

// New creates a Repository backed by the given store. analyzer may be
// nil; CreateWithAI then behaves like Create.
func New(s store.Store, analyzer Analyzer, logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{
		store:    s,
		analyzer: analyzer,
		logger:   logger,
		now:      time.Now,
		newID:    ident.New,
	}
}

// Load replaces the in-memory collection with the persisted one.
func (r *Repository) Load(ctx context.Context) {
	tasks := r.store.LoadTasks(ctx)

	r.mu.Lock()
	r.tasks = tasks
	r.mu.Unlock()
}

// Create adds a new pending task at the front of the collection.
// A blank title is a no-op and returns nil.
func (r *Repository) Create(
	ctx context.Context,
	title string,
	priority model.Priority,
	dueDate *int64,
) *model.Task {
	return r.CreateFromAnalysis(ctx, title, priority, dueDate, nil)
}

// CreateFromAnalysis adds a new pending task, populating description,
// estimated time, and subtasks from the AI suggestion when analysis is
// non-nil. The AI's textual priority wins when it names a known level;
// otherwise the caller-supplied priority stands. A nil analysis makes
// this identical to Create.
func (r *Repository) CreateFromAnalysis(
	ctx context.Context,
	title string,
	priority model.Priority,
	dueDate *int64,
	analysis *model.TaskAnalysis,
) *model.Task {
	if strings.TrimSpace(title) == "" {
		return nil
	}
	if !priority.Valid() {
		priority = model.PriorityMedium
	}

	task := model.Task{
		ID:          r.newID(),
		Title:       title,
		Status:      model.StatusPending,
		IsCompleted: false,
		Priority:    priority,
		Subtasks:    []model.SubTask{},
		DueDate:     dueDate,
		CreatedAt:   r.now().UnixMilli(),
	}

	if analysis != nil {
		task.Description = analysis.RefinedDescription
		task.EstimatedTime = analysis.EstimatedTime

		if p := model.Priority(analysis.Priority); p.Valid() {
			task.Priority = p
		}

		for _, st := range analysis.Subtasks {
			task.Subtasks = append(task.Subtasks, model.SubTask{
				ID:    r.newID(),
				Title: st,
			})
		}
	}

	r.mu.Lock()
	r.tasks = append([]model.Task{task}, r.tasks...)
	r.mu.Unlock()

	r.persist(ctx)

	out := task.Clone()
	return &out
}

// CreateWithAI enriches the title through the analyzer and creates the
// task from the result. Any analyzer failure falls back to the plain
// create path; enrichment is never a hard failure.
func (r *Repository) CreateWithAI(
	ctx context.Context,
	title string,
	priority model.Priority,
	dueDate *int64,
) *model.Task {
	if strings.TrimSpace(title) == "" {
		return nil
	}

	var analysis *model.TaskAnalysis
	if r.analyzer != nil {
		result, err := r.analyzer.AnalyzeTask(ctx, title)
		if err != nil {
			r.logger.Info("AI enrichment unavailable, creating plain task",
				zap.Error(err))
		} else {
			analysis = result
		}
	}

	return r.CreateFromAnalysis(ctx, title, priority, dueDate, analysis)
}

// ToggleCompletion flips a task between completed and pending.
// Un-completing always resets to pending, never to in_progress, even
// when subtasks remain partially done. Unknown ids are a no-op.
func (r *Repository) ToggleCompletion(ctx context.Context, id string) {
	r.mutate(ctx, id, func(t *model.Task) {
		t.IsCompleted = !t.IsCompleted
		if t.IsCompleted {
			t.Status = model.StatusCompleted
		} else {
			t.Status = model.StatusPending
		}
	})
}

// SetStatus sets the lifecycle status directly. Any transition is
// allowed; isCompleted is recomputed from the new status.
func (r *Repository) SetStatus(ctx context.Context, id string, status model.Status) {
	r.mutate(ctx, id, func(t *model.Task) {
		t.Status = status
		t.IsCompleted = status == model.StatusCompleted
	})
}

// SetNotes replaces the task's notes.
func (r *Repository) SetNotes(ctx context.Context, id string, notes string) {
	r.mutate(ctx, id, func(t *model.Task) {
		t.Notes = notes
	})
}

// SetDueDate replaces the task's due date. A nil value clears it and
// disarms the reminder.
func (r *Repository) SetDueDate(ctx context.Context, id string, dueDate *int64) {
	r.mutate(ctx, id, func(t *model.Task) {
		t.DueDate = dueDate
	})
}

// SetPriority replaces the task's priority.
func (r *Repository) SetPriority(ctx context.Context, id string, priority model.Priority) {
	r.mutate(ctx, id, func(t *model.Task) {
		t.Priority = priority
	})
}

// CyclePriority advances the task's priority through
// low -> medium -> high -> low.
func (r *Repository) CyclePriority(ctx context.Context, id string) {
	r.mutate(ctx, id, func(t *model.Task) {
		t.Priority = model.NextPriority(t.Priority)
	})
}

// ToggleSubtask flips a subtask's completion. Completing any subtask of
// a pending task promotes the task to in_progress; un-completing never
// demotes it.
func (r *Repository) ToggleSubtask(ctx context.Context, taskID, subtaskID string) {
	r.mutate(ctx, taskID, func(t *model.Task) {
		found := false
		for i := range t.Subtasks {
			if t.Subtasks[i].ID == subtaskID {
				t.Subtasks[i].IsCompleted = !t.Subtasks[i].IsCompleted
				found = true
				break
			}
		}
		if !found {
			return
		}

		anyDone := false
		for _, st := range t.Subtasks {
			if st.IsCompleted {
				anyDone = true
				break
			}
		}
		if anyDone && t.Status == model.StatusPending {
			t.Status = model.StatusInProgress
		}
	})
}

// AddSubtask appends a new open subtask. Adding a work item to a
// pending task marks it in_progress. Blank titles and unknown task
// ids are a no-op.
func (r *Repository) AddSubtask(ctx context.Context, taskID, title string) {
	if strings.TrimSpace(title) == "" {
		return
	}

	r.mutate(ctx, taskID, func(t *model.Task) {
		t.Subtasks = append(t.Subtasks, model.SubTask{
			ID:    r.newID(),
			Title: title,
		})
		if t.Status == model.StatusPending {
			t.Status = model.StatusInProgress
		}
	})
}

// Remove deletes a task. Idempotent for unknown ids.
func (r *Repository) Remove(ctx context.Context, id string) {
	r.mu.Lock()
	removed := false
	for i := range r.tasks {
		if r.tasks[i].ID == id {
			r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
			removed = true
			break
		}
	}
	r.mu.Unlock()

	if removed {
		r.persist(ctx)
	}
}

// Get returns a copy of the task with the given id, or nil.
func (r *Repository) Get(id string) *model.Task {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.tasks {
		if r.tasks[i].ID == id {
			t := r.tasks[i].Clone()
			return &t
		}
	}
	return nil
}

// List returns copies of the tasks matching the filter, in collection
// order. FilterPending matches every non-completed status.
func (r *Repository) List(filter Filter) []model.Task {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.Task, 0, len(r.tasks))
	for i := range r.tasks {
		switch filter {
		case FilterCompleted:
			if r.tasks[i].Status != model.StatusCompleted {
				continue
			}
		case FilterPending:
			if r.tasks[i].Status == model.StatusCompleted {
				continue
			}
		}
		out = append(out, r.tasks[i].Clone())
	}
	return out
}

// Snapshot returns a copy of the full collection.
func (r *Repository) Snapshot() []model.Task {
	return r.List(FilterAll)
}

// PendingCount returns the number of not-yet-completed tasks.
func (r *Repository) PendingCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for i := range r.tasks {
		if r.tasks[i].Status != model.StatusCompleted {
			count++
		}
	}
	return count
}

// mutate applies fn to the task with the given id and persists the
// collection. Unknown ids are a silent no-op.
func (r *Repository) mutate(ctx context.Context, id string, fn func(t *model.Task)) {
	r.mu.Lock()
	found := false
	for i := range r.tasks {
		if r.tasks[i].ID == id {
			fn(&r.tasks[i])
			found = true
			break
		}
	}
	r.mu.Unlock()

	if found {
		r.persist(ctx)
	}
}

// persist writes the full collection back to the store. Failures are
// logged and not surfaced; persistence is best-effort.
func (r *Repository) persist(ctx context.Context) {
	r.mu.Lock()
	snapshot := make([]model.Task, len(r.tasks))
	for i := range r.tasks {
		snapshot[i] = r.tasks[i].Clone()
	}
	r.mu.Unlock()

	if err := r.store.SaveTasks(ctx, snapshot); err != nil {
		r.logger.Warn("saving task collection", zap.Error(err))
	}
}
