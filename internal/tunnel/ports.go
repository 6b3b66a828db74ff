// Copyright (c) 2025 pgbridge contributors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package tunnel

import (
	"fmt"
	"math/rand"
	"net"
	"strconv"
	"time"

	"pgbridge/cli/internal/config"
)

// Ephemeral range scanned when the local bind port is "random".
const (
	ephemeralPortMin = 5000
	ephemeralPortMax = 50000
)

const probeTimeout = 250 * time.Millisecond

// portInUse probes a local port with a connect attempt.
// A successful dial means something is already listening there.
func portInUse(host string, port int) bool {
	conn, err := net.DialTimeout("tcp", net.JoinHostPort(host, strconv.Itoa(port)), probeTimeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// pickEphemeralPort returns a random port from the ephemeral range that the
// probe reports unused. It retries until it finds one.
func pickEphemeralPort(inUse func(port int) bool) int {
	for {
		port := ephemeralPortMin + rand.Intn(ephemeralPortMax-ephemeralPortMin+1)
		if !inUse(port) {
			return port
		}
	}
}

// resolveLocalPort turns the configured local bind port spec into a concrete
// port number, scanning the ephemeral range for the "random" sentinel.
func resolveLocalPort(spec string, inUse func(port int) bool) (int, error) {
	if spec == "" || spec == config.LocalPortRandom {
		return pickEphemeralPort(inUse), nil
	}
	port, err := strconv.Atoi(spec)
	if err != nil {
		return 0, fmt.Errorf("invalid local bind port %q", spec)
	}
	return port, nil
}
