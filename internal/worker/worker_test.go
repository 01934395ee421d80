package worker_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/queuectl/queuectl/internal/store"
	"github.com/queuectl/queuectl/internal/worker"
)

func testStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.OpenStore(filepath.Join(t.TempDir(), "queuectl.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// rewindETA moves a parked job's eta into the past so the next iteration
// sees it as due without waiting out the real backoff delay.
func rewindETA(t *testing.T, s *store.Store, jobID string) {
	t.Helper()
	past := time.Now().Add(-time.Minute).UTC().Format("2006-01-02T15:04:05.000")
	_, err := s.ReadDB().Exec("UPDATE jobs SET eta = ? WHERE id = ?", past, jobID)
	require.NoError(t, err)
}

func TestProcessOneSuccess(t *testing.T) {
	s := testStore(t)
	_, err := s.Enqueue(store.EnqueueRequest{ID: "j2", Command: "exit 0"})
	require.NoError(t, err)

	w := worker.New(s)
	claimed, err := w.ProcessOne()
	require.NoError(t, err)
	assert.True(t, claimed)

	job, err := s.GetJob("j2")
	require.NoError(t, err)
	assert.Equal(t, store.StateCompleted, job.State)
	assert.Equal(t, 0, job.Attempts)
}

func TestProcessOneIdle(t *testing.T) {
	s := testStore(t)

	claimed, err := worker.New(s).ProcessOne()
	require.NoError(t, err)
	assert.False(t, claimed)
}

func TestFailurePipelineToDeadLetter(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.ConfigSet(store.ConfigKeyBackoffBase, "2"))

	maxRetries := 2
	_, err := s.Enqueue(store.EnqueueRequest{ID: "j1", Command: "exit 1", MaxRetries: &maxRetries})
	require.NoError(t, err)

	w := worker.New(s)

	// Attempt 1: failed, attempts=1, eta about now+2s.
	before := time.Now()
	claimed, err := w.ProcessOne()
	require.NoError(t, err)
	require.True(t, claimed)

	job, err := s.GetJob("j1")
	require.NoError(t, err)
	assert.Equal(t, store.StateFailed, job.State)
	assert.Equal(t, 1, job.Attempts)
	require.NotNil(t, job.ETA)
	assert.InDelta(t, 2, job.ETA.Sub(before).Seconds(), 1.5, "first retry delay should be about 2s")

	// Attempt 2: failed, attempts=2, eta about now+4s.
	rewindETA(t, s, "j1")
	before = time.Now()
	claimed, err = w.ProcessOne()
	require.NoError(t, err)
	require.True(t, claimed)

	job, err = s.GetJob("j1")
	require.NoError(t, err)
	assert.Equal(t, store.StateFailed, job.State)
	assert.Equal(t, 2, job.Attempts)
	require.NotNil(t, job.ETA)
	assert.InDelta(t, 4, job.ETA.Sub(before).Seconds(), 1.5, "second retry delay should be about 4s")

	// Attempt 3: retries exhausted, dead-lettered.
	rewindETA(t, s, "j1")
	claimed, err = w.ProcessOne()
	require.NoError(t, err)
	require.True(t, claimed)

	job, err = s.GetJob("j1")
	require.NoError(t, err)
	assert.Equal(t, store.StateDead, job.State)
	assert.Nil(t, job.ETA)

	entries, err := s.ListDLQ(10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "j1", entries[0].JobID)
	assert.Equal(t, "Exit 1", entries[0].LastError)
}

func TestCommandNotFoundIsAFailure(t *testing.T) {
	s := testStore(t)

	maxRetries := 0
	_, err := s.Enqueue(store.EnqueueRequest{
		ID: "j1", Command: "definitely-not-a-real-command-xyz", MaxRetries: &maxRetries,
	})
	require.NoError(t, err)

	claimed, err := worker.New(s).ProcessOne()
	require.NoError(t, err)
	require.True(t, claimed)

	job, err := s.GetJob("j1")
	require.NoError(t, err)
	assert.Equal(t, store.StateDead, job.State)

	entries, err := s.ListDLQ(10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	// The shell reports a missing command as exit 127.
	assert.Equal(t, "Exit 127", entries[0].LastError)
}

func TestRunStopsOnStoreStopFlag(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.RequestStop())

	w := worker.New(s)
	w.SetPollInterval(10 * time.Millisecond)

	done := make(chan error, 1)
	go func() { done <- w.Run(context.Background()) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not observe stop flag")
	}

	workers, err := s.ListWorkers()
	require.NoError(t, err)
	assert.Empty(t, workers, "worker should deregister on exit")
}

func TestRunStopsOnContextCancel(t *testing.T) {
	s := testStore(t)

	w := worker.New(s)
	w.SetPollInterval(10 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not observe cancellation")
	}

	workers, err := s.ListWorkers()
	require.NoError(t, err)
	assert.Empty(t, workers, "worker should deregister on exit")
}

func TestRunFinishesInFlightJobBeforeStopping(t *testing.T) {
	s := testStore(t)
	_, err := s.Enqueue(store.EnqueueRequest{ID: "slow", Command: "sleep 0.3"})
	require.NoError(t, err)

	w := worker.New(s)
	w.SetPollInterval(10 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the worker time to claim, then cancel mid-execution.
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not exit")
	}

	job, err := s.GetJob("slow")
	require.NoError(t, err)
	assert.Equal(t, store.StateCompleted, job.State, "in-flight job must finish before shutdown")
}

func TestSignalRegisteredSkipsStalePids(t *testing.T) {
	s := testStore(t)
	// A pid that cannot exist on Linux (max pid is bounded well below this).
	require.NoError(t, s.RegisterWorker(1<<30, "default"))

	n, err := worker.SignalRegistered(s)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "stale pid should not count as signalled")

	// The stale row is left behind for manual reconciliation.
	workers, err := s.ListWorkers()
	require.NoError(t, err)
	assert.Len(t, workers, 1)
}
