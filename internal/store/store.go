package store

import (
	"database/sql"
	"fmt"
)

// Store is the data access layer for queuectl. It is the sole owner of all
// durable state; workers, the CLI and the dashboard go through its methods
// and never hold job state across calls.
type Store struct {
	db *DB
}

// NewStore creates a Store on top of an open DB.
func NewStore(db *DB) *Store {
	return &Store{db: db}
}

// OpenStore opens the database at path and wraps it in a Store.
func OpenStore(path string) (*Store, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	return NewStore(db), nil
}

// Close closes the underlying database connections.
func (s *Store) Close() error {
	return s.db.Close()
}

// execTx runs fn inside a transaction on the write connection. The write
// connection opens transactions with BEGIN IMMEDIATE (_txlock=immediate), so
// the write lock is taken up front and a read-modify-write pair inside fn
// cannot interleave with a writer in another process.
func (s *Store) execTx(fn func(tx *sql.Tx) error) error {
	tx, err := s.db.Write.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}

// ReadDB returns the read database connection for queries.
func (s *Store) ReadDB() *sql.DB {
	return s.db.Read
}
