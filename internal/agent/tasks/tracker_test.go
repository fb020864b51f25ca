package tasks

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go-news-agent/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForStatus(t *testing.T, tracker *Tracker, id, status string) *Task {
	t.Helper()
	var task *Task
	require.Eventually(t, func() bool {
		got, ok := tracker.Get(id)
		if !ok {
			return false
		}
		task = got
		return task.Status == status
	}, 2*time.Second, 5*time.Millisecond)
	return task
}

func TestRunCompletesTask(t *testing.T) {
	tracker := NewTracker(logger.NewNop())

	id := tracker.Run(context.Background(), "collect", func(ctx context.Context) (interface{}, error) {
		return 42, nil
	})
	require.NotEmpty(t, id)

	task := waitForStatus(t, tracker, id, StatusCompleted)
	assert.Equal(t, "collect", task.Kind)
	assert.Equal(t, 42, task.Result)
	assert.Empty(t, task.Error)
}

func TestRunRecordsFailure(t *testing.T) {
	tracker := NewTracker(logger.NewNop())

	id := tracker.Run(context.Background(), "enrich", func(ctx context.Context) (interface{}, error) {
		return nil, errors.New("boom")
	})

	task := waitForStatus(t, tracker, id, StatusError)
	assert.Equal(t, "boom", task.Error)
	assert.Nil(t, task.Result)
}

func TestGetUnknownTask(t *testing.T) {
	tracker := NewTracker(logger.NewNop())

	_, ok := tracker.Get("no-such-id")
	assert.False(t, ok)
}

func TestRunsAreSerialized(t *testing.T) {
	tracker := NewTracker(logger.NewNop())

	var running int32
	work := func(ctx context.Context) (interface{}, error) {
		if atomic.AddInt32(&running, 1) > 1 {
			t.Error("tasks overlapped")
		}
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt32(&running, -1)
		return nil, nil
	}

	first := tracker.Run(context.Background(), "collect", work)
	second := tracker.Run(context.Background(), "collect", work)

	waitForStatus(t, tracker, first, StatusCompleted)
	waitForStatus(t, tracker, second, StatusCompleted)
}
