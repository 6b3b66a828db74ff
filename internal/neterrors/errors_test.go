// Copyright (c) 2025 pgbridge contributors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package neterrors

import (
	"errors"
	"net"
	"syscall"
	"testing"
)

func TestIsTimeoutError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"message timeout", errors.New("dial tcp: i/o timeout"), true},
		{"deadline exceeded", errors.New("context deadline exceeded"), true},
		{"unrelated", errors.New("connection reset by peer"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isTimeoutError(tt.err); got != tt.want {
				t.Errorf("isTimeoutError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsDNSError(t *testing.T) {
	if !isDNSError(&net.DNSError{Err: "no such host", Name: "db.internal"}) {
		t.Error("DNSError should be detected")
	}
	if isDNSError(errors.New("no such host")) {
		t.Error("plain error should not be a DNS error")
	}
}

func TestIsConnectionRefusedError(t *testing.T) {
	opErr := &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}
	if !isConnectionRefusedError(opErr) {
		t.Error("ECONNREFUSED should be detected")
	}
	if !isConnectionRefusedError(errors.New("dial tcp 10.0.0.5:5432: connection refused")) {
		t.Error("connection refused message should be detected")
	}
	if isConnectionRefusedError(errors.New("connection reset")) {
		t.Error("connection reset should not match")
	}
}

func TestIsAuthError(t *testing.T) {
	tests := []struct {
		msg  string
		want bool
	}{
		{"FATAL: password authentication failed for user \"app\"", true},
		{"ssh: handshake failed: ssh: unable to authenticate", true},
		{"Permission denied (publickey)", true},
		{"dial tcp: i/o timeout", false},
	}
	for _, tt := range tests {
		if got := isAuthError(tt.msg); got != tt.want {
			t.Errorf("isAuthError(%q) = %v, want %v", tt.msg, got, tt.want)
		}
	}
}

func TestFormatNetworkErrorNil(t *testing.T) {
	if FormatNetworkError(nil, "connecting") != nil {
		t.Error("nil error should pass through as nil")
	}
}
