// Copyright (c) 2025 pgbridge contributors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"fmt"
	"io"
	"os"
)

// Tracer is the debug side channel for statement text and batch timing.
// It has no effect on control flow; a disabled tracer discards everything.
type Tracer struct {
	enabled bool
	out     io.Writer
}

// NewTracer returns a tracer writing to stderr when enabled.
func NewTracer(enabled bool) *Tracer {
	return &Tracer{enabled: enabled, out: os.Stderr}
}

// NewTracerTo returns a tracer writing to the given sink when enabled.
func NewTracerTo(enabled bool, out io.Writer) *Tracer {
	return &Tracer{enabled: enabled, out: out}
}

// Enabled reports whether the tracer emits output.
func (t *Tracer) Enabled() bool {
	return t != nil && t.enabled
}

// Debugf writes a debug line when the tracer is enabled.
func (t *Tracer) Debugf(format string, args ...any) {
	if !t.Enabled() {
		return
	}
	fmt.Fprintf(t.out, "DEBUG: "+format+"\n", args...)
}
