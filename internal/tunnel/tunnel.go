// Copyright (c) 2025 pgbridge contributors
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package tunnel owns the lifecycle of an optional SSH tunnel between a local
// bind port and a remote database endpoint reached through a gateway host.
//
// A Manager hands the session layer the endpoint the driver should dial:
// either the direct database host/port when tunneling is disabled, or the
// local end of an active forwarded channel. Starting is idempotent and
// stopping is a no-op when nothing is active, so callers can release
// unconditionally on every exit path.
//
// A Manager is owned by a single session at a time; it holds at most one
// tunnel. Parallel tunneled connections require independent Manager
// instances, which the random-port policy keeps from colliding.
package tunnel

import (
	"context"
	"io"
	"net"
	"os"
	"strconv"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"

	"pgbridge/cli/internal/config"
	dberrors "pgbridge/cli/internal/errors"
	"pgbridge/cli/internal/logging"
)

const sshDialTimeout = 15 * time.Second

// Handle is the runtime state of an active tunnel.
type Handle struct {
	Active        bool
	LocalBindHost string
	LocalBindPort int
}

// Manager stands up and tears down the forwarded channel.
type Manager struct {
	cfg        *config.TunnelConfig
	directHost string
	directPort int
	tracer     *logging.Tracer

	mu       sync.Mutex
	handle   Handle
	client   *ssh.Client
	listener net.Listener
}

// NewManager builds a manager from resolved connection parameters.
// When cfg carries no tunnel section the manager is a passthrough.
func NewManager(cfg config.ConnectionConfig, tracer *logging.Tracer) *Manager {
	return &Manager{
		cfg:        cfg.Tunnel,
		directHost: cfg.Host,
		directPort: cfg.Port,
		tracer:     tracer,
	}
}

// Enabled reports whether tunneling is configured.
func (m *Manager) Enabled() bool { return m.cfg != nil }

// Handle returns a copy of the current tunnel state.
func (m *Manager) Handle() Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.handle
}

// Acquire returns the endpoint the database driver should dial.
// With tunneling disabled it is the direct database host/port. Otherwise the
// tunnel is started on first use and its local bind endpoint returned;
// subsequent calls on an active tunnel return the same endpoint.
func (m *Manager) Acquire(ctx context.Context) (string, int, error) {
	if m.cfg == nil {
		return m.directHost, m.directPort, nil
	}
	if err := ctx.Err(); err != nil {
		return "", 0, dberrors.Wrap(dberrors.ConnectFailed, "tunnel start canceled", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.handle.Active {
		return m.handle.LocalBindHost, m.handle.LocalBindPort, nil
	}
	if err := m.start(); err != nil {
		return "", 0, err
	}
	return m.handle.LocalBindHost, m.handle.LocalBindPort, nil
}

// start opens the SSH connection and the local listener. Called with m.mu
// held. On any failure every partially-acquired resource is closed before
// the error is returned; no forwarded socket outlives a failed start.
func (m *Manager) start() error {
	key, err := os.ReadFile(m.cfg.PrivateKeyPath)
	if err != nil {
		return dberrors.Wrap(dberrors.ConnectFailed, "read ssh private key", err)
	}
	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return dberrors.Wrap(dberrors.ConnectFailed, "parse ssh private key", err)
	}

	sshCfg := &ssh.ClientConfig{
		User:            m.cfg.SSHUser,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         sshDialTimeout,
	}

	gateway := net.JoinHostPort(m.cfg.SSHHost, strconv.Itoa(m.cfg.SSHPort))
	client, err := ssh.Dial("tcp", gateway, sshCfg)
	if err != nil {
		return dberrors.Wrap(dberrors.ConnectFailed, "dial ssh gateway "+gateway, err)
	}

	port, err := resolveLocalPort(m.cfg.LocalBindPort, func(p int) bool {
		return portInUse(m.cfg.LocalBindHost, p)
	})
	if err != nil {
		client.Close()
		return dberrors.Wrap(dberrors.ConnectFailed, "resolve local bind port", err)
	}

	bind := net.JoinHostPort(m.cfg.LocalBindHost, strconv.Itoa(port))
	listener, err := net.Listen("tcp", bind)
	if err != nil {
		client.Close()
		return dberrors.Wrap(dberrors.ConnectFailed, "listen on "+bind, err)
	}

	m.client = client
	m.listener = listener
	m.handle = Handle{
		Active:        true,
		LocalBindHost: m.cfg.LocalBindHost,
		LocalBindPort: listener.Addr().(*net.TCPAddr).Port,
	}

	go m.serve(listener, client)

	m.tracer.Debugf("SSH tunnel open: %s -> %s:%d via %s",
		bind, m.cfg.RemoteBindHost, m.cfg.RemoteBindPort, gateway)
	return nil
}

// serve accepts local connections until the listener is closed by Release.
func (m *Manager) serve(listener net.Listener, client *ssh.Client) {
	for {
		local, err := listener.Accept()
		if err != nil {
			return
		}
		go m.forward(local, client)
	}
}

// forward pipes one local connection to the remote database endpoint.
func (m *Manager) forward(local net.Conn, client *ssh.Client) {
	remote, err := client.Dial("tcp",
		net.JoinHostPort(m.cfg.RemoteBindHost, strconv.Itoa(m.cfg.RemoteBindPort)))
	if err != nil {
		local.Close()
		return
	}

	done := make(chan struct{}, 2)
	go func() {
		io.Copy(remote, local)
		done <- struct{}{}
	}()
	go func() {
		io.Copy(local, remote)
		done <- struct{}{}
	}()
	<-done
	local.Close()
	remote.Close()
}

// Release stops the tunnel if active. Calling it when nothing is active,
// including a second time in a row, is a no-op and never an error.
func (m *Manager) Release() error {
	if m.cfg == nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.handle.Active {
		return nil
	}

	var firstErr error
	if err := m.listener.Close(); err != nil {
		firstErr = err
	}
	if err := m.client.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	m.listener = nil
	m.client = nil
	m.handle = Handle{}

	m.tracer.Debugf("SSH tunnel closed")
	return firstErr
}
