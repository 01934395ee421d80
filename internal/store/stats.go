package store

import "fmt"

// Stats returns a snapshot of job counts per state plus DLQ and worker
// totals. The three queries run independently, so the snapshot is not
// transactionally consistent across sub-counts.
func (s *Store) Stats() (*Stats, error) {
	rows, err := s.db.Read.Query("SELECT state, COUNT(*) FROM jobs GROUP BY state")
	if err != nil {
		return nil, fmt.Errorf("count jobs by state: %w", err)
	}
	defer rows.Close()

	st := &Stats{States: make(map[string]int)}
	for rows.Next() {
		var state string
		var n int
		if err := rows.Scan(&state, &n); err != nil {
			return nil, fmt.Errorf("scan state count: %w", err)
		}
		st.States[state] = n
		st.Total += n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.db.Read.QueryRow("SELECT COUNT(*) FROM dlq").Scan(&st.DLQ); err != nil {
		return nil, fmt.Errorf("count dlq: %w", err)
	}
	if err := s.db.Read.QueryRow("SELECT COUNT(*) FROM workers").Scan(&st.Workers); err != nil {
		return nil, fmt.Errorf("count workers: %w", err)
	}
	return st, nil
}
