package store

import (
	"database/sql"
	"fmt"
)

const jobColumns = "id, command, state, attempts, max_retries, eta, created_at, updated_at"

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(row scanner) (*Job, error) {
	var j Job
	var eta sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(&j.ID, &j.Command, &j.State, &j.Attempts, &j.MaxRetries,
		&eta, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if eta.Valid {
		t := parseTime(eta.String)
		j.ETA = &t
	}
	j.CreatedAt = parseTime(createdAt)
	j.UpdatedAt = parseTime(updatedAt)
	return &j, nil
}

// GetJob returns the job with the given id, or nil when it does not exist.
func (s *Store) GetJob(id string) (*Job, error) {
	row := s.db.Read.QueryRow("SELECT "+jobColumns+" FROM jobs WHERE id = ?", id)
	j, err := scanJob(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job %s: %w", id, err)
	}
	return j, nil
}

// ListJobs returns jobs most recently updated first. state filters to one
// state; "" or "all" returns every job.
func (s *Store) ListJobs(state string, limit int) ([]Job, error) {
	if limit <= 0 {
		limit = 100
	}

	query := "SELECT " + jobColumns + " FROM jobs"
	args := []any{}
	if state != "" && state != "all" {
		query += " WHERE state = ?"
		args = append(args, state)
	}
	query += " ORDER BY updated_at DESC, id LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.Read.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, *j)
	}
	return jobs, rows.Err()
}

// DeleteJob removes a job row. The returned bool is false when no row had
// that id.
func (s *Store) DeleteJob(id string) (bool, error) {
	res, err := s.db.Write.Exec("DELETE FROM jobs WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("delete job %s: %w", id, err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
