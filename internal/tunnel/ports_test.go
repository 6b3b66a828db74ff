// Copyright (c) 2025 pgbridge contributors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package tunnel

import (
	"testing"
)

func TestPickEphemeralPortSkipsBusyPorts(t *testing.T) {
	// Report every port busy except multiples of 7, then allocate 100 times.
	inUse := func(port int) bool { return port%7 != 0 }

	for i := 0; i < 100; i++ {
		port := pickEphemeralPort(inUse)
		if inUse(port) {
			t.Fatalf("allocation %d returned busy port %d", i, port)
		}
		if port < ephemeralPortMin || port > ephemeralPortMax {
			t.Fatalf("port %d outside ephemeral range [%d, %d]", port, ephemeralPortMin, ephemeralPortMax)
		}
	}
}

func TestResolveLocalPort(t *testing.T) {
	never := func(int) bool { return false }

	tests := []struct {
		name        string
		spec        string
		want        int
		wantRandom  bool
		expectError bool
	}{
		{name: "numeric spec", spec: "15432", want: 15432},
		{name: "random sentinel", spec: "random", wantRandom: true},
		{name: "empty spec falls back to random", spec: "", wantRandom: true},
		{name: "garbage spec", spec: "abc", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			port, err := resolveLocalPort(tt.spec, never)
			if tt.expectError {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantRandom {
				if port < ephemeralPortMin || port > ephemeralPortMax {
					t.Errorf("port %d outside ephemeral range", port)
				}
				return
			}
			if port != tt.want {
				t.Errorf("port = %d, want %d", port, tt.want)
			}
		})
	}
}
