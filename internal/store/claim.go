package store

import (
	"database/sql"
	"fmt"
	"time"
)

// ClaimNext atomically selects one eligible job and moves it from pending to
// processing. A job is eligible when its eta is unset or has passed; jobs
// with no eta are preferred over past-due deferred jobs, and each group is
// ordered oldest-created first. Select and update run in one immediate
// transaction, so two concurrent claimers never win the same job.
//
// Returns (nil, nil) when no job is eligible; that signals an idle queue,
// not an error.
func (s *Store) ClaimNext() (*Job, error) {
	now := time.Now()
	var job *Job

	err := s.execTx(func(tx *sql.Tx) error {
		row := tx.QueryRow(`
			SELECT id, command, state, attempts, max_retries, eta, created_at, updated_at
			FROM jobs
			WHERE state = ? AND (eta IS NULL OR eta <= ?)
			ORDER BY eta IS NOT NULL, created_at ASC
			LIMIT 1
		`, StatePending, formatTime(now))

		j, err := scanJob(row)
		if err == sql.ErrNoRows {
			return nil
		}
		if err != nil {
			return fmt.Errorf("select eligible job: %w", err)
		}

		if _, err := tx.Exec(
			"UPDATE jobs SET state = ?, updated_at = ? WHERE id = ?",
			StateProcessing, formatTime(now), j.ID,
		); err != nil {
			return fmt.Errorf("mark job processing: %w", err)
		}

		j.State = StateProcessing
		j.UpdatedAt = now.UTC()
		job = j
		return nil
	})
	if err != nil {
		return nil, err
	}
	return job, nil
}

// Promote flips failed jobs whose retry eta has elapsed back to pending so
// the claim query can see them again. It returns the number of jobs
// re-admitted. Workers run this before each claim attempt.
func (s *Store) Promote() (int, error) {
	now := formatTime(time.Now())
	res, err := s.db.Write.Exec(`
		UPDATE jobs
		SET state = ?, updated_at = ?
		WHERE state = ? AND eta IS NOT NULL AND eta <= ?
	`, StatePending, now, StateFailed, now)
	if err != nil {
		return 0, fmt.Errorf("promote due retries: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
