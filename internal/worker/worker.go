package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/queuectl/queuectl/internal/store"
)

// DefaultPollInterval is the idle wait between claim attempts when the
// queue is empty. There is no backoff on idle polling itself.
const DefaultPollInterval = 1 * time.Second

// Worker is one execution loop. It claims jobs from the shared store, runs
// each command as a shell subprocess, and converts every execution fault
// into a retry or a dead-letter transition. Workers in different processes
// share nothing but the store.
type Worker struct {
	store        *store.Store
	pid          int
	queues       string
	pollInterval time.Duration
}

// New creates a Worker bound to the calling process id.
func New(s *store.Store) *Worker {
	return &Worker{
		store:        s,
		pid:          os.Getpid(),
		queues:       "default",
		pollInterval: DefaultPollInterval,
	}
}

// SetPollInterval overrides the idle wait. Mostly useful in tests.
func (w *Worker) SetPollInterval(d time.Duration) {
	w.pollInterval = d
}

// Run registers the worker and processes jobs until ctx is cancelled or the
// store-level stop flag is set; either signal alone initiates shutdown. The
// in-flight job always finishes before the loop exits. Deregistration is
// deferred so it runs on every exit path, including a store fault escaping
// the loop.
func (w *Worker) Run(ctx context.Context) error {
	if err := w.store.RegisterWorker(w.pid, w.queues); err != nil {
		return err
	}
	defer func() {
		if err := w.store.DeregisterWorker(w.pid); err != nil {
			slog.Error("deregister worker", "pid", w.pid, "error", err)
		}
	}()

	slog.Info("worker started", "pid", w.pid, "queues", w.queues)

	for {
		if ctx.Err() != nil {
			slog.Info("worker stopping on signal", "pid", w.pid)
			return nil
		}
		stop, err := w.store.StopRequested()
		if err != nil {
			return fmt.Errorf("read stop flag: %w", err)
		}
		if stop {
			slog.Info("worker stopping on stop flag", "pid", w.pid)
			return nil
		}

		claimed, err := w.ProcessOne()
		if err != nil {
			// Only store faults escape ProcessOne; they are fatal to
			// this worker.
			return err
		}
		if !claimed {
			select {
			case <-ctx.Done():
			case <-time.After(w.pollInterval):
			}
		}
	}
}

// ProcessOne re-admits due retries, claims at most one job and executes it.
// It returns false when no job was eligible. Execution failures are handled
// inside the iteration; only store errors are returned.
func (w *Worker) ProcessOne() (bool, error) {
	if _, err := w.store.Promote(); err != nil {
		return false, err
	}

	job, err := w.store.ClaimNext()
	if err != nil {
		return false, err
	}
	if job == nil {
		return false, nil
	}

	slog.Info("job claimed", "pid", w.pid, "job_id", job.ID, "command", job.Command,
		"attempts", job.Attempts, "max_retries", job.MaxRetries)

	runErr := runCommand(job.Command)
	if runErr == nil {
		slog.Info("job completed", "pid", w.pid, "job_id", job.ID)
		return true, w.store.MarkCompleted(job.ID)
	}

	return true, w.failJob(job, runErr)
}

// failJob applies the retry/dead-letter pipeline for one failed execution.
func (w *Worker) failJob(job *store.Job, runErr error) error {
	attempts := job.Attempts + 1
	reason := describeFailure(runErr)

	if attempts > job.MaxRetries {
		job.Attempts = attempts
		slog.Warn("job dead-lettered", "pid", w.pid, "job_id", job.ID,
			"attempts", attempts, "error", reason)
		return w.store.MoveToDLQ(job, reason)
	}

	base, err := w.store.ConfigFloat(store.ConfigKeyBackoffBase, store.DefaultBackoffBase)
	if err != nil {
		return err
	}
	delay := store.ComputeDelay(base, attempts)
	slog.Warn("job failed, will retry", "pid", w.pid, "job_id", job.ID,
		"attempts", attempts, "max_retries", job.MaxRetries,
		"delay", delay, "error", reason)
	return w.store.MarkFailedRetry(job.ID, attempts, delay)
}

// runCommand executes command through the shell and blocks until it exits.
// No timeout is enforced; a hung command blocks this worker.
func runCommand(command string) error {
	cmd := exec.Command("sh", "-c", command)
	return cmd.Run()
}

// describeFailure renders an execution fault as the human-readable string
// stored with the DLQ entry: "Exit <code>" for a non-zero exit, otherwise
// the fault kind and message.
func describeFailure(err error) string {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return fmt.Sprintf("Exit %d", exitErr.ExitCode())
	}
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		return fmt.Sprintf("LaunchError: %v", execErr)
	}
	return fmt.Sprintf("ExecError: %v", err)
}
