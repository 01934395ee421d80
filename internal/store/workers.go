package store

import (
	"fmt"
	"time"
)

// RegisterWorker upserts a registry row for the worker process. The row is
// advisory only; a process killed without cleanup leaves it behind.
func (s *Store) RegisterWorker(pid int, queues string) error {
	if queues == "" {
		queues = "default"
	}
	_, err := s.db.Write.Exec(
		"INSERT OR REPLACE INTO workers (pid, started_at, queues) VALUES (?, ?, ?)",
		pid, formatTime(time.Now()), queues,
	)
	if err != nil {
		return fmt.Errorf("register worker %d: %w", pid, err)
	}
	return nil
}

// DeregisterWorker removes the registry row for pid. Removing an absent row
// is not an error.
func (s *Store) DeregisterWorker(pid int) error {
	_, err := s.db.Write.Exec("DELETE FROM workers WHERE pid = ?", pid)
	if err != nil {
		return fmt.Errorf("deregister worker %d: %w", pid, err)
	}
	return nil
}

// ListWorkers returns all registered worker processes.
func (s *Store) ListWorkers() ([]Worker, error) {
	rows, err := s.db.Read.Query("SELECT pid, started_at, queues FROM workers ORDER BY pid")
	if err != nil {
		return nil, fmt.Errorf("list workers: %w", err)
	}
	defer rows.Close()

	var workers []Worker
	for rows.Next() {
		var w Worker
		var startedAt string
		if err := rows.Scan(&w.PID, &startedAt, &w.Queues); err != nil {
			return nil, fmt.Errorf("scan worker: %w", err)
		}
		w.StartedAt = parseTime(startedAt)
		workers = append(workers, w)
	}
	return workers, rows.Err()
}
