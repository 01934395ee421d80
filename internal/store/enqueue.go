package store

import (
	"fmt"
	"time"
)

// EnqueueRequest describes a job to insert. ID and Command are required;
// everything else is optional and defaulted by the builder before the
// insert runs, so the persistence layer itself never fills in a field.
type EnqueueRequest struct {
	ID         string     `json:"id"`
	Command    string     `json:"command"`
	State      string     `json:"state,omitempty"`
	Attempts   *int       `json:"attempts,omitempty"`
	MaxRetries *int       `json:"max_retries,omitempty"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}

// build fills every optional field deterministically and returns the
// complete job row. defaultMaxRetries is the configured ceiling applied
// when the request omits one.
func (req EnqueueRequest) build(now time.Time, defaultMaxRetries int) (Job, error) {
	if req.ID == "" {
		return Job{}, NewInvalidJobError("job id is required")
	}
	if req.Command == "" {
		return Job{}, NewInvalidJobError("job command is required")
	}

	job := Job{
		ID:         req.ID,
		Command:    req.Command,
		State:      StatePending,
		Attempts:   0,
		MaxRetries: defaultMaxRetries,
		CreatedAt:  now.UTC(),
		UpdatedAt:  now.UTC(),
	}
	if req.State != "" {
		if !ValidState(req.State) {
			return Job{}, NewInvalidJobError(fmt.Sprintf("unknown state %q", req.State))
		}
		job.State = req.State
	}
	if req.Attempts != nil {
		if *req.Attempts < 0 {
			return Job{}, NewInvalidJobError("attempts must not be negative")
		}
		job.Attempts = *req.Attempts
	}
	if req.MaxRetries != nil {
		if *req.MaxRetries < 0 {
			return Job{}, NewInvalidJobError("max_retries must not be negative")
		}
		job.MaxRetries = *req.MaxRetries
	}
	if req.CreatedAt != nil {
		job.CreatedAt = req.CreatedAt.UTC()
		job.UpdatedAt = job.CreatedAt
	}
	if req.UpdatedAt != nil {
		job.UpdatedAt = req.UpdatedAt.UTC()
	}
	return job, nil
}

// Enqueue inserts a new job and returns its id. A duplicate id fails with a
// DUPLICATE_JOB error and mutates nothing.
func (s *Store) Enqueue(req EnqueueRequest) (string, error) {
	defaultMaxRetries, err := s.ConfigInt(ConfigKeyMaxRetries, DefaultMaxRetries)
	if err != nil {
		return "", err
	}

	job, err := req.build(time.Now(), defaultMaxRetries)
	if err != nil {
		return "", err
	}

	_, err = s.db.Write.Exec(`
		INSERT INTO jobs (id, command, state, attempts, max_retries, eta, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, NULL, ?, ?)
	`, job.ID, job.Command, job.State, job.Attempts, job.MaxRetries,
		formatTime(job.CreatedAt), formatTime(job.UpdatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return "", NewDuplicateJobError(job.ID)
		}
		return "", fmt.Errorf("insert job: %w", err)
	}
	return job.ID, nil
}
