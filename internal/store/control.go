package store

import (
	"database/sql"
	"fmt"
)

const stopKey = "stop_requested"

// RequestStop sets the durable stop flag that all workers observe
// cooperatively. Setting it twice is a no-op.
func (s *Store) RequestStop() error {
	_, err := s.db.Write.Exec("INSERT OR REPLACE INTO control (k, v) VALUES (?, '1')", stopKey)
	if err != nil {
		return fmt.Errorf("request stop: %w", err)
	}
	return nil
}

// ClearStop removes the stop flag. Clearing an absent flag is a no-op.
func (s *Store) ClearStop() error {
	_, err := s.db.Write.Exec("DELETE FROM control WHERE k = ?", stopKey)
	if err != nil {
		return fmt.Errorf("clear stop: %w", err)
	}
	return nil
}

// StopRequested reports whether an operator has asked workers to stop.
func (s *Store) StopRequested() (bool, error) {
	var v string
	err := s.db.Read.QueryRow("SELECT v FROM control WHERE k = ?", stopKey).Scan(&v)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read stop flag: %w", err)
	}
	return true, nil
}
