package store

import (
	"database/sql"
	"fmt"
	"strconv"
)

// Recognized configuration keys. The store itself accepts any key; the CLI
// surface restricts set/get to these two.
const (
	ConfigKeyMaxRetries  = "max_retries"
	ConfigKeyBackoffBase = "backoff_base"
)

// Hardcoded fallbacks applied when a key is absent.
const (
	DefaultMaxRetries  = 3
	DefaultBackoffBase = 2.0
)

// RecognizedConfigKey reports whether key is one the tool understands.
func RecognizedConfigKey(key string) bool {
	return key == ConfigKeyMaxRetries || key == ConfigKeyBackoffBase
}

// ConfigSet stores a configuration value.
func (s *Store) ConfigSet(key, value string) error {
	_, err := s.db.Write.Exec("INSERT OR REPLACE INTO config (k, v) VALUES (?, ?)", key, value)
	if err != nil {
		return fmt.Errorf("set config %s: %w", key, err)
	}
	return nil
}

// ConfigGet returns the stored value for key, or fallback when unset.
func (s *Store) ConfigGet(key, fallback string) (string, error) {
	var v string
	err := s.db.Read.QueryRow("SELECT v FROM config WHERE k = ?", key).Scan(&v)
	if err == sql.ErrNoRows {
		return fallback, nil
	}
	if err != nil {
		return "", fmt.Errorf("get config %s: %w", key, err)
	}
	return v, nil
}

// ConfigInt reads key as an integer, falling back on absence or garbage.
func (s *Store) ConfigInt(key string, fallback int) (int, error) {
	v, err := s.ConfigGet(key, strconv.Itoa(fallback))
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback, nil
	}
	return n, nil
}

// ConfigFloat reads key as a float, falling back on absence or garbage.
func (s *Store) ConfigFloat(key string, fallback float64) (float64, error) {
	v, err := s.ConfigGet(key, strconv.FormatFloat(fallback, 'f', -1, 64))
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback, nil
	}
	return f, nil
}

// AllConfig returns every stored key/value pair.
func (s *Store) AllConfig() (map[string]string, error) {
	rows, err := s.db.Read.Query("SELECT k, v FROM config ORDER BY k")
	if err != nil {
		return nil, fmt.Errorf("list config: %w", err)
	}
	defer rows.Close()

	cfg := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan config: %w", err)
		}
		cfg[k] = v
	}
	return cfg, rows.Err()
}
