package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestWrapSQLCarriesKindAndStatement(t *testing.T) {
	cause := stderrors.New("relation does not exist")
	err := WrapSQL(ExecFailed, "metadata query failed", "select column_name from information_schema.columns", cause)

	if !IsKind(err, ExecFailed) {
		t.Error("wrapped error should report ExecFailed")
	}
	if IsKind(err, ConnectFailed) {
		t.Error("wrapped error should not report ConnectFailed")
	}
	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should unwrap to the cause")
	}

	msg := err.Error()
	if !strings.Contains(msg, "exec_failed") {
		t.Errorf("message %q should name the kind", msg)
	}
	if !strings.Contains(msg, "sql: select column_name") {
		t.Errorf("message %q should carry the statement text", msg)
	}
}

func TestIsKindSeesThroughWrapping(t *testing.T) {
	inner := Wrap(ConnectFailed, "dial ssh gateway", stderrors.New("refused"))
	outer := fmt.Errorf("starting tunnel: %w", inner)

	if !IsKind(outer, ConnectFailed) {
		t.Error("IsKind should see through fmt.Errorf wrapping")
	}
	if IsKind(stderrors.New("plain"), ConnectFailed) {
		t.Error("plain errors carry no kind")
	}
}

func TestErrorMessageWithoutSQL(t *testing.T) {
	err := New(ConnectFailed, "read ssh private key")
	if strings.Contains(err.Error(), "sql:") {
		t.Errorf("message %q should omit the sql section when no statement is attached", err.Error())
	}
}
