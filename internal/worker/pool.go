package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/queuectl/queuectl/internal/store"
)

// killGrace is how long the supervisor waits after SIGTERM before it
// resorts to SIGKILL on shutdown.
const killGrace = 10 * time.Second

// Pool launches N worker processes and supervises their lifecycle. Each
// child re-executes this binary's hidden worker-run command; the children
// share only the database file, never memory. The pool itself carries no
// retry or backoff logic.
type Pool struct {
	Binary string   // path to the queuectl binary; defaults to os.Executable
	Args   []string // argv for one worker child
	Count  int
}

// Run starts Count children and blocks until all exit. When ctx is
// cancelled (operator interrupt) it forwards SIGTERM to every child still
// alive, waits killGrace for them to finish their in-flight jobs, then
// kills stragglers and reaps them before returning.
func (p *Pool) Run(ctx context.Context) error {
	bin := p.Binary
	if bin == "" {
		exe, err := os.Executable()
		if err != nil {
			return fmt.Errorf("locate binary: %w", err)
		}
		bin = exe
	}
	if p.Count < 1 {
		p.Count = 1
	}

	procs := make([]*exec.Cmd, 0, p.Count)
	for i := 0; i < p.Count; i++ {
		cmd := exec.Command(bin, p.Args...)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Start(); err != nil {
			p.terminate(procs)
			p.reap(procs)
			return fmt.Errorf("start worker %d: %w", i+1, err)
		}
		slog.Info("worker process started", "pid", cmd.Process.Pid)
		procs = append(procs, cmd)
	}

	done := make(chan struct{})
	go func() {
		p.reap(procs)
		close(done)
	}()

	select {
	case <-done:
		slog.Info("all workers exited")
		return nil
	case <-ctx.Done():
		slog.Info("interrupt received, terminating workers")
		p.terminate(procs)
		select {
		case <-done:
		case <-time.After(killGrace):
			for _, c := range procs {
				if c.Process != nil {
					_ = c.Process.Kill()
				}
			}
			<-done
		}
		return nil
	}
}

func (p *Pool) terminate(procs []*exec.Cmd) {
	for _, c := range procs {
		if c.Process != nil {
			_ = c.Process.Signal(syscall.SIGTERM)
		}
	}
}

func (p *Pool) reap(procs []*exec.Cmd) {
	for _, c := range procs {
		if err := c.Wait(); err != nil {
			var exitErr *exec.ExitError
			if !errors.As(err, &exitErr) {
				slog.Error("wait for worker", "error", err)
			}
		}
	}
}

// SignalRegistered sends SIGTERM to every pid in the worker registry and
// returns how many were signalled. A pid that no longer exists is skipped;
// its stale registry row is left for manual reconciliation.
func SignalRegistered(s *store.Store) (int, error) {
	workers, err := s.ListWorkers()
	if err != nil {
		return 0, err
	}
	n := 0
	for _, w := range workers {
		if err := syscall.Kill(w.PID, syscall.SIGTERM); err != nil {
			if errors.Is(err, syscall.ESRCH) {
				slog.Warn("worker pid not running, registry row is stale", "pid", w.PID)
				continue
			}
			slog.Error("signal worker", "pid", w.PID, "error", err)
			continue
		}
		n++
	}
	return n, nil
}
