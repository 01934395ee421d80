package store

import (
	"errors"
	"strings"

	sqlite3 "github.com/mattn/go-sqlite3"
)

type ErrorCode string

const (
	ErrorCodeDuplicateJob ErrorCode = "DUPLICATE_JOB"
	ErrorCodeInvalidJob   ErrorCode = "INVALID_JOB"
)

type StoreError struct {
	Code ErrorCode
	Msg  string
}

func (e *StoreError) Error() string {
	return e.Msg
}

func NewDuplicateJobError(id string) error {
	return &StoreError{Code: ErrorCodeDuplicateJob, Msg: "job " + id + " already exists"}
}

func NewInvalidJobError(msg string) error {
	return &StoreError{Code: ErrorCodeInvalidJob, Msg: msg}
}

func IsDuplicateJobError(err error) bool {
	return hasCode(err, ErrorCodeDuplicateJob)
}

func IsInvalidJobError(err error) bool {
	return hasCode(err, ErrorCodeInvalidJob)
}

func hasCode(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}
	var se *StoreError
	if !errors.As(err, &se) {
		return false
	}
	return se.Code == code
}

// isUniqueViolation reports whether err is a SQLite primary key / unique
// constraint failure.
func isUniqueViolation(err error) bool {
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		return serr.Code == sqlite3.ErrConstraint &&
			(serr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
				serr.ExtendedCode == sqlite3.ErrConstraintUnique)
	}
	// Fallback for drivers that only surface the message text.
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
