// Copyright (c) 2025 pgbridge contributors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"strconv"
	"strings"

	"pgbridge/cli/internal/config"
	"pgbridge/cli/internal/dsn"
	"pgbridge/cli/internal/keychain"
	"pgbridge/cli/internal/session"
)

// dsnOptions converts parsed DSN info into config overrides for the database
// endpoint. Tunnel settings are not part of a DSN and still resolve from the
// environment.
func dsnOptions(info *dsn.Info) []config.Option {
	port, _ := strconv.Atoi(info.Port)
	return []config.Option{
		config.WithHost(info.Host),
		config.WithPort(port),
		config.WithUser(info.User),
		config.WithPassword(info.Password),
		config.WithDBName(info.Database),
	}
}

// resolveConnection builds connection parameters from the environment, and
// falls back to the DSN stored in the OS keychain when the environment does
// not carry a complete configuration. Tunnel settings always come from the
// environment; the keychain only stores the database endpoint.
func resolveConnection(opts ...config.Option) (config.ConnectionConfig, error) {
	if debugMode {
		opts = append(opts, config.WithDebug(true))
	}

	resolver := config.NewResolver()
	cfg, err := resolver.Resolve(opts...)
	if err == nil {
		return cfg, nil
	}

	km, kerr := keychain.GetManager()
	if kerr != nil {
		return config.ConnectionConfig{}, err
	}

	// The environment may be complete except for the password, which users
	// often keep only in the keychain.
	if pw, perr := km.LoadDBPassword(); perr == nil && pw != "" {
		withPw := append([]config.Option{config.WithPassword(pw)}, opts...)
		if cfg, rerr := resolver.Resolve(withPw...); rerr == nil {
			return cfg, nil
		}
	}

	raw, lerr := km.LoadDBDSN()
	if lerr != nil || strings.TrimSpace(raw) == "" {
		return config.ConnectionConfig{}, err
	}

	info, perr := dsn.Parse(raw)
	if perr != nil {
		return config.ConnectionConfig{}, perr
	}

	merged := append(dsnOptions(info), opts...)
	return resolver.Resolve(merged...)
}

// openSession resolves connection parameters and wraps them in a session.
func openSession(opts ...config.Option) (*session.Session, error) {
	cfg, err := resolveConnection(opts...)
	if err != nil {
		return nil, err
	}
	return session.New(cfg), nil
}
