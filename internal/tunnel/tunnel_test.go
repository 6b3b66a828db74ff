// Copyright (c) 2025 pgbridge contributors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package tunnel

import (
	"context"
	"testing"

	"pgbridge/cli/internal/config"
	dberrors "pgbridge/cli/internal/errors"
	"pgbridge/cli/internal/logging"
)

func directConfig() config.ConnectionConfig {
	return config.ConnectionConfig{
		Host:   "db.internal",
		Port:   5432,
		DBName: "prod",
		User:   "app",
	}
}

func TestAcquireDisabledPassthrough(t *testing.T) {
	m := NewManager(directConfig(), logging.NewTracer(false))

	if m.Enabled() {
		t.Error("Enabled() = true without tunnel config")
	}

	host, port, err := m.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if host != "db.internal" || port != 5432 {
		t.Errorf("Acquire() = %s:%d, want db.internal:5432", host, port)
	}
	if m.Handle().Active {
		t.Error("passthrough manager reports an active tunnel")
	}
}

func TestReleaseIdempotent(t *testing.T) {
	cfg := directConfig()
	cfg.Tunnel = &config.TunnelConfig{
		SSHHost:        "gateway",
		SSHPort:        22,
		SSHUser:        "deploy",
		PrivateKeyPath: "/nonexistent/key",
		RemoteBindHost: "db.internal",
		RemoteBindPort: 5432,
		LocalBindHost:  "localhost",
		LocalBindPort:  config.LocalPortRandom,
	}
	m := NewManager(cfg, logging.NewTracer(false))

	// Never started: both calls are no-ops.
	if err := m.Release(); err != nil {
		t.Errorf("first Release() error = %v", err)
	}
	if err := m.Release(); err != nil {
		t.Errorf("second Release() error = %v", err)
	}

	// Also a no-op on the passthrough manager.
	if err := NewManager(directConfig(), logging.NewTracer(false)).Release(); err != nil {
		t.Errorf("passthrough Release() error = %v", err)
	}
}

func TestAcquireFailureLeavesNothingActive(t *testing.T) {
	cfg := directConfig()
	cfg.Tunnel = &config.TunnelConfig{
		SSHHost:        "gateway",
		SSHPort:        22,
		SSHUser:        "deploy",
		PrivateKeyPath: "/nonexistent/key",
		RemoteBindHost: "db.internal",
		RemoteBindPort: 5432,
		LocalBindHost:  "localhost",
		LocalBindPort:  config.LocalPortRandom,
	}
	m := NewManager(cfg, logging.NewTracer(false))

	_, _, err := m.Acquire(context.Background())
	if err == nil {
		t.Fatal("Acquire() succeeded with an unreadable private key")
	}
	if !dberrors.IsKind(err, dberrors.ConnectFailed) {
		t.Errorf("Acquire() error kind = %v, want connect_failed", err)
	}
	if m.Handle().Active {
		t.Error("handle active after failed start")
	}
	if err := m.Release(); err != nil {
		t.Errorf("Release() after failed start error = %v", err)
	}
}
