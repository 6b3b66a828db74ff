package config

import (
	"strings"
	"testing"
)

func fakeEnv(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func baseEnv() map[string]string {
	return map[string]string{
		"DB_HOST":     "db.internal",
		"DB_NAME":     "prod",
		"DB_USER":     "app",
		"DB_PASSWORD": "secret",
	}
}

func TestResolveDefaults(t *testing.T) {
	r := NewResolverFunc(fakeEnv(baseEnv()), func(string, ...any) {})
	cfg, err := r.Resolve()
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.Port != 5432 {
		t.Errorf("Port = %d, want 5432", cfg.Port)
	}
	if cfg.Schema != "public" {
		t.Errorf("Schema = %q, want public", cfg.Schema)
	}
	if cfg.Tunnel != nil {
		t.Error("Tunnel should be nil when USE_SSH is unset")
	}
	if cfg.Debug {
		t.Error("Debug should default to false")
	}
}

func TestResolveMissingRequired(t *testing.T) {
	env := baseEnv()
	delete(env, "DB_PASSWORD")
	r := NewResolverFunc(fakeEnv(env), func(string, ...any) {})
	_, err := r.Resolve()
	if err == nil || !strings.Contains(err.Error(), "DB_PASSWORD") {
		t.Errorf("Resolve() error = %v, want missing DB_PASSWORD", err)
	}
}

func TestResolveOptionsBeatEnv(t *testing.T) {
	r := NewResolverFunc(fakeEnv(baseEnv()), func(string, ...any) {})
	cfg, err := r.Resolve(WithHost("override"), WithPort(5433), WithDebug(true))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.Host != "override" {
		t.Errorf("Host = %q, want override", cfg.Host)
	}
	if cfg.Port != 5433 {
		t.Errorf("Port = %d, want 5433", cfg.Port)
	}
	if !cfg.Debug {
		t.Error("Debug = false, want true")
	}
}

func TestResolveTunnel(t *testing.T) {
	env := baseEnv()
	env["USE_SSH"] = "true"
	env["SSH_HOST"] = "gateway"
	env["SSH_USER"] = "deploy"
	env["SSHKEYPATH"] = "/home/deploy/.ssh/id_ed25519"
	r := NewResolverFunc(fakeEnv(env), func(string, ...any) {})

	cfg, err := r.Resolve()
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	tun := cfg.Tunnel
	if tun == nil {
		t.Fatal("Tunnel is nil with USE_SSH=true")
	}
	if tun.SSHPort != 22 {
		t.Errorf("SSHPort = %d, want 22", tun.SSHPort)
	}
	if tun.RemoteBindHost != "db.internal" || tun.RemoteBindPort != 5432 {
		t.Errorf("remote bind = %s:%d, want db.internal:5432", tun.RemoteBindHost, tun.RemoteBindPort)
	}
	if tun.LocalBindHost != "localhost" {
		t.Errorf("LocalBindHost = %q, want localhost", tun.LocalBindHost)
	}
	if tun.LocalBindPort != LocalPortRandom {
		t.Errorf("LocalBindPort = %q, want %q", tun.LocalBindPort, LocalPortRandom)
	}
}

func TestResolveTunnelMissingKey(t *testing.T) {
	env := baseEnv()
	env["USE_SSH"] = "true"
	env["SSH_HOST"] = "gateway"
	env["SSH_USER"] = "deploy"
	r := NewResolverFunc(fakeEnv(env), func(string, ...any) {})
	_, err := r.Resolve()
	if err == nil || !strings.Contains(err.Error(), "SSHKEYPATH") {
		t.Errorf("Resolve() error = %v, want missing SSHKEYPATH", err)
	}
}

func TestResolveInvalidLocalBindPort(t *testing.T) {
	env := baseEnv()
	env["USE_SSH"] = "true"
	env["SSH_HOST"] = "gateway"
	env["SSH_USER"] = "deploy"
	env["SSHKEYPATH"] = "/key"
	env["LOCAL_BIND_PORT"] = "not-a-port"
	r := NewResolverFunc(fakeEnv(env), func(string, ...any) {})
	if _, err := r.Resolve(); err == nil {
		t.Error("Resolve() accepted invalid LOCAL_BIND_PORT")
	}
}

func TestLegacyAliasResolution(t *testing.T) {
	env := baseEnv()
	env["USE_SSH"] = "true"
	env["SSH_HOST"] = "gateway"
	env["SSH_USER"] = "deploy"
	env["SSH_KEY_PATH"] = "/legacy/key" // legacy name for SSHKEYPATH

	var warnings []string
	warnf := func(format string, args ...any) {
		warnings = append(warnings, format)
	}
	r := NewResolverFunc(fakeEnv(env), warnf)

	cfg, err := r.Resolve()
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.Tunnel.PrivateKeyPath != "/legacy/key" {
		t.Errorf("PrivateKeyPath = %q, want /legacy/key", cfg.Tunnel.PrivateKeyPath)
	}
	if len(warnings) != 1 {
		t.Fatalf("got %d deprecation notices, want 1", len(warnings))
	}

	// A second resolution through the same resolver stays quiet.
	if _, err := r.Resolve(); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(warnings) != 1 {
		t.Errorf("got %d deprecation notices after second resolve, want 1", len(warnings))
	}
}

func TestCanonicalBeatsAlias(t *testing.T) {
	env := baseEnv()
	env["DB_NAME"] = "canonical"
	env["DB_DATABASE"] = "legacy"
	var warnings int
	r := NewResolverFunc(fakeEnv(env), func(string, ...any) { warnings++ })
	cfg, err := r.Resolve()
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.DBName != "canonical" {
		t.Errorf("DBName = %q, want canonical", cfg.DBName)
	}
	if warnings != 0 {
		t.Errorf("got %d deprecation notices, want 0", warnings)
	}
}
