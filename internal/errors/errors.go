// Package errors defines typed errors with categories for user-friendly reporting.
// It provides a structured approach to error handling with machine-readable error kinds
// and human-friendly messages. Execution errors additionally carry the offending SQL
// text for diagnostics; the SQL is never re-interpolated into a new statement.
//
// The package supports wrapping underlying errors while maintaining error kind information,
// making it easier to handle different types of failures appropriately.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// ConnectFailed indicates a tunnel or database connection establishment failure.
	ConnectFailed Kind = "connect_failed"
	// ExecFailed indicates a statement failed during execution.
	ExecFailed Kind = "exec_failed"
)

// E wraps an error with kind and human-friendly message.
// SQL, when set, is the statement text that triggered the error.
type E struct {
	Kind    Kind
	Message string
	SQL     string
	Err     error
}

func (e *E) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.SQL != "" {
		msg = fmt.Sprintf("%s\nsql: %s", msg, e.SQL)
	}
	return msg
}

func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// WrapSQL wraps a statement execution error together with the SQL text it came from.
func WrapSQL(kind Kind, msg, sql string, err error) *E {
	return &E{Kind: kind, Message: msg, SQL: sql, Err: err}
}

// IsKind reports whether err is (or wraps) an E of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
