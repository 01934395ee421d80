package main

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// jobSchema validates an enqueue payload before the store ever sees it.
// The surface layer owns input validation; the store only enforces the
// uniqueness of ids.
const jobSchema = `{
	"type": "object",
	"required": ["id", "command"],
	"additionalProperties": false,
	"properties": {
		"id":          {"type": "string", "minLength": 1},
		"command":     {"type": "string", "minLength": 1},
		"state":       {"enum": ["pending", "processing", "completed", "failed", "dead"]},
		"attempts":    {"type": "integer", "minimum": 0},
		"max_retries": {"type": "integer", "minimum": 0},
		"created_at":  {"type": "string", "format": "date-time"},
		"updated_at":  {"type": "string", "format": "date-time"}
	}
}`

var jobSchemaLoader = gojsonschema.NewStringLoader(jobSchema)

// validateJobPayload checks raw JSON against jobSchema and returns a single
// readable error listing every violation.
func validateJobPayload(raw string) error {
	result, err := gojsonschema.Validate(jobSchemaLoader, gojsonschema.NewStringLoader(raw))
	if err != nil {
		return fmt.Errorf("invalid JSON input: %w", err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, item := range result.Errors() {
		msgs = append(msgs, item.String())
	}
	return fmt.Errorf("invalid job payload: %s", strings.Join(msgs, "; "))
}
