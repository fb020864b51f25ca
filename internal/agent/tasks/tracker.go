package tasks

import (
	"context"
	"sync"
	"time"

	"go-news-agent/pkg/logger"
	"go-news-agent/pkg/utils"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// Task statuses reported to polling clients.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusError     = "error"
)

const (
	taskTTL         = time.Hour
	cleanupInterval = 10 * time.Minute
)

// Task is the tracked state of one background pipeline run.
type Task struct {
	ID        string      `json:"task_id"`
	Kind      string      `json:"kind"`
	Status    string      `json:"status"`
	Progress  string      `json:"progress,omitempty"`
	Result    interface{} `json:"result,omitempty"`
	Error     string      `json:"error,omitempty"`
	StartedAt time.Time   `json:"started_at"`
}

// Tracker runs pipeline operations in the background and keeps their state
// queryable for an hour. Runs are serialized: the collector, enricher and
// analyzer all share one SQLite connection and one inference backend, so
// overlapping them buys nothing.
type Tracker struct {
	store  *cache.Cache
	logger *logger.Logger
	mu     sync.Mutex
}

// NewTracker creates a new Tracker.
func NewTracker(log *logger.Logger) *Tracker {
	return &Tracker{
		store:  cache.New(taskTTL, cleanupInterval),
		logger: log,
	}
}

// Run registers a task, executes fn on a background goroutine and returns the
// task ID immediately. fn's return value becomes the task result.
func (t *Tracker) Run(ctx context.Context, kind string, fn func(ctx context.Context) (interface{}, error)) string {
	task := &Task{
		ID:        uuid.NewString(),
		Kind:      kind,
		Status:    StatusRunning,
		StartedAt: time.Now(),
	}
	t.store.SetDefault(task.ID, task)

	utils.GoSafe(func() {
		t.mu.Lock()
		defer t.mu.Unlock()

		result, err := fn(ctx)

		done := *task
		if err != nil {
			done.Status = StatusError
			done.Error = err.Error()
			t.logger.Error("Background task failed",
				logger.ErrorField(err),
				logger.StringField("kind", kind),
				logger.StringField("task_id", task.ID))
		} else {
			done.Status = StatusCompleted
			done.Result = result
		}
		t.store.SetDefault(task.ID, &done)
	})

	return task.ID
}

// Get returns the tracked task, or false when the ID is unknown or expired.
func (t *Tracker) Get(id string) (*Task, bool) {
	v, ok := t.store.Get(id)
	if !ok {
		return nil, false
	}
	return v.(*Task), true
}
