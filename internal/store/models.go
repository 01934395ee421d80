package store

import (
	"time"
)

// Job states
const (
	StatePending    = "pending"
	StateProcessing = "processing"
	StateCompleted  = "completed"
	StateFailed     = "failed"
	StateDead       = "dead"
)

// ValidState reports whether s is one of the known job states.
func ValidState(s string) bool {
	switch s {
	case StatePending, StateProcessing, StateCompleted, StateFailed, StateDead:
		return true
	}
	return false
}

// Job represents one unit of work tracked through the state machine.
type Job struct {
	ID         string     `json:"id"`
	Command    string     `json:"command"`
	State      string     `json:"state"`
	Attempts   int        `json:"attempts"`
	MaxRetries int        `json:"max_retries"`
	ETA        *time.Time `json:"eta,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// DLQEntry is an append-only snapshot of a job at the moment it was
// dead-lettered. A job can be dead-lettered, replayed and dead-lettered
// again, producing a fresh entry each time.
type DLQEntry struct {
	ID        int       `json:"id"`
	JobID     string    `json:"job_id"`
	Payload   string    `json:"payload"` // JSON snapshot of the job row
	LastError string    `json:"last_error"`
	FailedAt  time.Time `json:"failed_at"`
}

// Worker is a registry row for a running worker process. Rows are
// best-effort: a hard-killed process leaves its row behind, so presence
// is not a liveness guarantee.
type Worker struct {
	PID       int       `json:"pid"`
	StartedAt time.Time `json:"started_at"`
	Queues    string    `json:"queues"`
}

// Stats is a point-in-time snapshot of queue health. The sub-counts come
// from separate queries and are not transactionally consistent with each
// other, which is fine for an operational dashboard.
type Stats struct {
	States  map[string]int `json:"states"`
	Total   int            `json:"total"`
	DLQ     int            `json:"dlq"`
	Workers int            `json:"workers"`
}

// timeLayout is the fixed-width UTC layout used for every timestamp column.
// Fixed width means lexicographic comparison in SQL equals time comparison.
const timeLayout = "2006-01-02T15:04:05.000"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	for _, layout := range []string{
		timeLayout,
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
