package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/queuectl/queuectl/internal/store"
)

// openStore opens the shared store for one command invocation. Callers must
// Close it.
func openStore() (*store.Store, error) {
	s, err := store.OpenStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store at %s: %w", dbPath, err)
	}
	return s, nil
}

func printJSON(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	json.Indent(&buf, data, "", "  ")
	fmt.Fprintln(os.Stdout, buf.String())
	return nil
}

// printJSONLines prints one compact JSON object per line, for piping.
func printJSONLines[T any](items []T) error {
	for _, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, string(data))
	}
	return nil
}
