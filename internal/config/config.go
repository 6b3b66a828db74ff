// Package config resolves database and tunnel connection parameters.
// Resolution order is constructor options first, then environment variables,
// with legacy variable names accepted through an alias table that emits a
// single deprecation notice per resolved key.
//
// The resolved ConnectionConfig is immutable by convention: it is built once
// per manager instance and handed to the session layer, which owns it for
// its lifetime.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LocalPortRandom is the sentinel for "choose an unused ephemeral port at
// tunnel-start time". Once chosen the port is fixed for the tunnel's lifetime.
const LocalPortRandom = "random"

// TunnelConfig holds SSH tunnel parameters.
type TunnelConfig struct {
	SSHHost        string
	SSHPort        int
	SSHUser        string
	PrivateKeyPath string
	RemoteBindHost string
	RemoteBindPort int
	LocalBindHost  string
	// LocalBindPort is either a numeric port or the LocalPortRandom sentinel.
	LocalBindPort string
}

// ConnectionConfig holds resolved, immutable connection parameters.
// Tunnel is nil when tunneling is disabled.
type ConnectionConfig struct {
	Host     string
	Port     int
	DBName   string
	User     string
	Password string
	Schema   string
	Debug    bool
	Tunnel   *TunnelConfig
}

// Option overrides a single resolved field. Options take precedence over
// environment variables.
type Option func(*ConnectionConfig)

func WithHost(host string) Option      { return func(c *ConnectionConfig) { c.Host = host } }
func WithPort(port int) Option         { return func(c *ConnectionConfig) { c.Port = port } }
func WithDBName(name string) Option    { return func(c *ConnectionConfig) { c.DBName = name } }
func WithUser(user string) Option      { return func(c *ConnectionConfig) { c.User = user } }
func WithPassword(pw string) Option    { return func(c *ConnectionConfig) { c.Password = pw } }
func WithSchema(schema string) Option  { return func(c *ConnectionConfig) { c.Schema = schema } }
func WithDebug(on bool) Option         { return func(c *ConnectionConfig) { c.Debug = on } }
func WithTunnel(t *TunnelConfig) Option {
	return func(c *ConnectionConfig) { c.Tunnel = t }
}

// envAliases maps canonical variable names to accepted legacy names.
// Legacy names are consulted only when the canonical name is unset.
var envAliases = map[string][]string{
	"SSHKEYPATH":          {"SSH_KEY_PATH"},
	"DB_NAME":             {"DB_DATABASE"},
	"REMOTE_BIND_ADDRESS": {"SSH_REMOTE_BIND_ADDRESS"},
	"REMOTE_BIND_PORT":    {"SSH_REMOTE_BIND_PORT"},
	"LOCAL_BIND_HOST":     {"LOCAL_BIND_ADDRESS"},
}

// Resolver reads connection settings from an environment-like source.
type Resolver struct {
	lookup func(key string) (string, bool)
	warnf  func(format string, args ...any)
	warned map[string]bool
}

// NewResolver returns a resolver backed by the process environment.
func NewResolver() *Resolver {
	return NewResolverFunc(os.LookupEnv, func(format string, args ...any) {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	})
}

// NewResolverFunc returns a resolver with custom lookup and warning sinks.
// Used by tests to resolve against a fake environment.
func NewResolverFunc(lookup func(string) (string, bool), warnf func(string, ...any)) *Resolver {
	return &Resolver{lookup: lookup, warnf: warnf, warned: make(map[string]bool)}
}

// get resolves key, consulting legacy aliases when the canonical name is
// unset. The first alias hit emits one deprecation notice per resolver.
func (r *Resolver) get(key string) (string, bool) {
	if v, ok := r.lookup(key); ok && v != "" {
		return v, true
	}
	for _, alias := range envAliases[key] {
		if v, ok := r.lookup(alias); ok && v != "" {
			if !r.warned[alias] {
				r.warned[alias] = true
				r.warnf("Warning: %s is deprecated, use %s instead.", alias, key)
			}
			return v, true
		}
	}
	return "", false
}

func (r *Resolver) getBool(key string) bool {
	v, ok := r.get(key)
	return ok && strings.EqualFold(v, "true")
}

func (r *Resolver) getInt(key string, def int) (int, error) {
	v, ok := r.get(key)
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", key, v)
	}
	return n, nil
}

// Resolve builds a ConnectionConfig from the environment with options applied
// on top. Missing required settings fail fast with the variable named.
func (r *Resolver) Resolve(opts ...Option) (ConnectionConfig, error) {
	var cfg ConnectionConfig
	var err error

	cfg.Host, _ = r.get("DB_HOST")
	cfg.DBName, _ = r.get("DB_NAME")
	cfg.User, _ = r.get("DB_USER")
	cfg.Password, _ = r.get("DB_PASSWORD")
	cfg.Schema, _ = r.get("DB_SCHEMA")
	cfg.Debug = r.getBool("DEBUG_MODE")
	if cfg.Port, err = r.getInt("DB_PORT", 5432); err != nil {
		return ConnectionConfig{}, err
	}

	if r.getBool("USE_SSH") {
		t := &TunnelConfig{}
		t.SSHHost, _ = r.get("SSH_HOST")
		t.SSHUser, _ = r.get("SSH_USER")
		t.PrivateKeyPath, _ = r.get("SSHKEYPATH")
		if t.SSHPort, err = r.getInt("SSH_PORT", 22); err != nil {
			return ConnectionConfig{}, err
		}
		t.RemoteBindHost, _ = r.get("REMOTE_BIND_ADDRESS")
		if t.RemoteBindPort, err = r.getInt("REMOTE_BIND_PORT", 0); err != nil {
			return ConnectionConfig{}, err
		}
		t.LocalBindHost, _ = r.get("LOCAL_BIND_HOST")
		if v, ok := r.get("LOCAL_BIND_PORT"); ok {
			t.LocalBindPort = v
		}
		cfg.Tunnel = t
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return ConnectionConfig{}, err
	}
	return cfg, nil
}

func applyDefaults(cfg *ConnectionConfig) {
	if cfg.Port == 0 {
		cfg.Port = 5432
	}
	if cfg.Schema == "" {
		cfg.Schema = "public"
	}
	if t := cfg.Tunnel; t != nil {
		if t.SSHPort == 0 {
			t.SSHPort = 22
		}
		// The database endpoint as seen from the gateway defaults to the
		// direct endpoint.
		if t.RemoteBindHost == "" {
			t.RemoteBindHost = cfg.Host
		}
		if t.RemoteBindPort == 0 {
			t.RemoteBindPort = cfg.Port
		}
		if t.LocalBindHost == "" {
			t.LocalBindHost = "localhost"
		}
		if t.LocalBindPort == "" {
			t.LocalBindPort = LocalPortRandom
		}
	}
}

func validate(cfg *ConnectionConfig) error {
	required := []struct {
		name  string
		value string
	}{
		{"DB_HOST", cfg.Host},
		{"DB_NAME", cfg.DBName},
		{"DB_USER", cfg.User},
		{"DB_PASSWORD", cfg.Password},
	}
	for _, req := range required {
		if strings.TrimSpace(req.value) == "" {
			return fmt.Errorf("missing required setting %s", req.name)
		}
	}
	if t := cfg.Tunnel; t != nil {
		if t.SSHHost == "" {
			return fmt.Errorf("missing required setting SSH_HOST")
		}
		if t.SSHUser == "" {
			return fmt.Errorf("missing required setting SSH_USER")
		}
		if t.PrivateKeyPath == "" {
			return fmt.Errorf("missing required setting SSHKEYPATH")
		}
		if t.LocalBindPort != LocalPortRandom {
			if _, err := strconv.Atoi(t.LocalBindPort); err != nil {
				return fmt.Errorf("LOCAL_BIND_PORT: expected a port number or %q, got %q",
					LocalPortRandom, t.LocalBindPort)
			}
		}
	}
	return nil
}
