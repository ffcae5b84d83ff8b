package remind

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nhle/smart-tasks/internal/model"
)

// notifyTimeout is the maximum time allowed for a single notification
// delivery.
const notifyTimeout = 5 * time.Second

// TaskSource provides read access to the current task collection.
type TaskSource interface {
	Snapshot() []model.Task
}

// Notifier delivers a reminder for a task whose due time has arrived.
type Notifier interface {
	Notify(ctx context.Context, task model.Task) error
}

// Scanner periodically inspects task due dates and emits a reminder for
// every non-completed task whose due instant fell within the reminder
// window. It never mutates tasks.
//
// The scanner keeps no "already notified" memory: a task stays eligible
// on every tick while its due time is inside the window. The window is
// kept short relative to the poll interval to bound duplicate emissions.
type Scanner struct {
	source   TaskSource
	notifier Notifier
	interval time.Duration
	window   time.Duration
	logger   *zap.Logger

	mu        sync.Mutex
	running   bool
	permitted bool
	stopCh    chan struct{}

	now func() time.Time
}

// New creates a Scanner over the given task source. Scanning only runs
// while notification permission is granted (cfg.Enabled, later updated
// through SetPermission).
func New(
	source TaskSource,
	notifier Notifier,
	cfg model.ReminderConfig,
	logger *zap.Logger,
) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}

	interval := time.Duration(cfg.PollIntervalSec) * time.Second
	if interval <= 0 {
		interval = 10 * time.Second
	}
	window := time.Duration(cfg.WindowSec) * time.Second
	if window <= 0 {
		window = 60 * time.Second
	}

	return &Scanner{
		source:    source,
		notifier:  notifier,
		interval:  interval,
		window:    window,
		logger:    logger,
		permitted: cfg.Enabled,
		now:       time.Now,
	}
}

// SetPermission records the notification permission state. Revoking
// permission stops a running scanner; granting it does not start one,
// call Start explicitly.
func (s *Scanner) SetPermission(granted bool) {
	s.mu.Lock()
	s.permitted = granted
	s.mu.Unlock()

	if !granted {
		s.Stop()
	}
}

// Start launches the scanning loop. It is a no-op while the scanner is
// already running or notification permission is absent.
func (s *Scanner) Start() {
	s.mu.Lock()
	if s.running || !s.permitted {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})
	stopCh := s.stopCh
	s.mu.Unlock()

	go s.run(stopCh)
}

// Stop halts the scanning loop.
func (s *Scanner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	close(s.stopCh)
	s.running = false
}

// Running reports whether the scanning loop is active.
func (s *Scanner) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// run ticks at the poll interval until stopped.
func (s *Scanner) run(stopCh <-chan struct{}) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			s.scanOnce(s.now())
		}
	}
}

// scanOnce walks the current task snapshot and notifies every task
// whose due time is inside [due, due+window). Returns the number of
// reminders emitted.
func (s *Scanner) scanOnce(now time.Time) int {
	emitted := 0

	for _, task := range s.source.Snapshot() {
		if task.Status == model.StatusCompleted || task.DueDate == nil {
			continue
		}

		elapsed := now.UnixMilli() - *task.DueDate
		if elapsed < 0 || elapsed >= s.window.Milliseconds() {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		err := s.notifier.Notify(ctx, task)
		cancel()

		if err != nil {
			s.logger.Warn("delivering reminder",
				zap.String("task_id", task.ID), zap.Error(err))
			continue
		}
		emitted++
	}

	return emitted
}
