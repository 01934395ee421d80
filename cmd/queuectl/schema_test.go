package main

import (
	"strings"
	"testing"
)

func TestValidateJobPayload(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		wantErr string
	}{
		{"minimal valid", `{"id":"j1","command":"echo hi"}`, ""},
		{"full valid", `{"id":"j1","command":"echo hi","state":"pending","attempts":0,"max_retries":5}`, ""},
		{"missing id", `{"command":"echo hi"}`, "id"},
		{"missing command", `{"id":"j1"}`, "command"},
		{"empty id", `{"id":"","command":"echo hi"}`, "id"},
		{"unknown field", `{"id":"j1","command":"echo hi","priority":"high"}`, "priority"},
		{"bad state", `{"id":"j1","command":"echo hi","state":"sleeping"}`, "state"},
		{"negative attempts", `{"id":"j1","command":"echo hi","attempts":-2}`, "attempts"},
		{"not json", `{"id":`, "invalid JSON"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateJobPayload(tc.payload)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("validateJobPayload() error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("validateJobPayload() succeeded, want error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q does not mention %q", err, tc.wantErr)
			}
		})
	}
}
