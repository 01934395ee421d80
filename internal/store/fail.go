package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// MarkCompleted moves a job to completed and clears its eta. The store does
// not verify the job was processing; callers are expected to hold a claim.
func (s *Store) MarkCompleted(jobID string) error {
	_, err := s.db.Write.Exec(
		"UPDATE jobs SET state = ?, eta = NULL, updated_at = ? WHERE id = ?",
		StateCompleted, formatTime(time.Now()), jobID,
	)
	if err != nil {
		return fmt.Errorf("mark completed: %w", err)
	}
	return nil
}

// MarkFailedRetry records a failed attempt and parks the job until now+delay.
// attempts is the post-increment failure count.
func (s *Store) MarkFailedRetry(jobID string, attempts int, delay time.Duration) error {
	now := time.Now()
	_, err := s.db.Write.Exec(
		"UPDATE jobs SET state = ?, attempts = ?, eta = ?, updated_at = ? WHERE id = ?",
		StateFailed, attempts, formatTime(now.Add(delay)), formatTime(now), jobID,
	)
	if err != nil {
		return fmt.Errorf("mark failed: %w", err)
	}
	return nil
}

// MoveToDLQ appends a dead-letter snapshot of job and marks the row dead in
// one transaction. Either both effects commit or neither does.
func (s *Store) MoveToDLQ(job *Job, lastError string) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("snapshot job %s: %w", job.ID, err)
	}
	now := formatTime(time.Now())

	return s.execTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(
			"INSERT INTO dlq (job_id, payload, last_error, failed_at) VALUES (?, ?, ?, ?)",
			job.ID, string(payload), lastError, now,
		); err != nil {
			return fmt.Errorf("insert dlq entry: %w", err)
		}
		if _, err := tx.Exec(
			"UPDATE jobs SET state = ?, eta = NULL, updated_at = ? WHERE id = ?",
			StateDead, now, job.ID,
		); err != nil {
			return fmt.Errorf("mark job dead: %w", err)
		}
		return nil
	})
}

// RetryFromDLQ deletes the dead-letter entries for jobID and resets the job
// to pending with zero attempts, atomically. The returned bool is false when
// no entry exists for that id; that is an ordinary outcome, not an error.
func (s *Store) RetryFromDLQ(jobID string) (bool, error) {
	found := false
	err := s.execTx(func(tx *sql.Tx) error {
		var n int
		if err := tx.QueryRow("SELECT COUNT(*) FROM dlq WHERE job_id = ?", jobID).Scan(&n); err != nil {
			return fmt.Errorf("lookup dlq entry: %w", err)
		}
		if n == 0 {
			return nil
		}
		found = true

		now := formatTime(time.Now())
		if _, err := tx.Exec(
			"UPDATE jobs SET state = ?, attempts = 0, eta = NULL, updated_at = ? WHERE id = ?",
			StatePending, now, jobID,
		); err != nil {
			return fmt.Errorf("reset job: %w", err)
		}
		if _, err := tx.Exec("DELETE FROM dlq WHERE job_id = ?", jobID); err != nil {
			return fmt.Errorf("delete dlq entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

// ListDLQ returns dead-letter entries, most recently failed first.
func (s *Store) ListDLQ(limit int) ([]DLQEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.Read.Query(
		"SELECT id, job_id, payload, last_error, failed_at FROM dlq ORDER BY failed_at DESC, id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list dlq: %w", err)
	}
	defer rows.Close()

	var entries []DLQEntry
	for rows.Next() {
		var e DLQEntry
		var lastError sql.NullString
		var failedAt string
		if err := rows.Scan(&e.ID, &e.JobID, &e.Payload, &lastError, &failedAt); err != nil {
			return nil, fmt.Errorf("scan dlq entry: %w", err)
		}
		e.LastError = lastError.String
		e.FailedAt = parseTime(failedAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
