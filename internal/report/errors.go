package report

import (
	"errors"
	"fmt"
)

// Parse failures. A failed parse never returns a partial Session.
var (
	ErrEmptyReport          = errors.New("empty report")
	ErrMissingSessionHeader = errors.New("missing session header")
	ErrMalformedDateRange   = errors.New("malformed date range")
	ErrDuplicatePlayer      = errors.New("duplicate player")
	ErrMultipleLeaders      = errors.New("multiple leaders")
)

// ParseError is returned when report text cannot be turned into a Session.
// Kind is one of the Err* sentinels above.
type ParseError struct {
	Kind   error
	Line   int // 1-based; 0 when the failure is not tied to a line
	Detail string
}

func (e *ParseError) Error() string {
	msg := "failed to parse hunt session: " + e.Kind.Error()
	if e.Line > 0 {
		msg += fmt.Sprintf(" (line %d)", e.Line)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Kind
}
