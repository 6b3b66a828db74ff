// Copyright (c) 2025 pgbridge contributors
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package neterrors provides user-friendly presentation of network failures.
package neterrors

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"

	"github.com/pterm/pterm"
)

// FormatNetworkError converts technical network errors into user-friendly
// messages. It detects common failure types (timeout, DNS, connection
// refused, authentication) and displays troubleshooting guidance for
// connecting to a database host or SSH gateway.
func FormatNetworkError(err error, context string) error {
	if err == nil {
		return nil
	}

	displayErrorMessage(err, context)

	// Return wrapped error for logging/debugging
	return fmt.Errorf("network error: %w", err)
}

// displayErrorMessage shows a formatted error message to the user based on error type.
func displayErrorMessage(err error, context string) {
	errStr := err.Error()

	if isTimeoutError(err) {
		showTimeoutError(context)
		return
	}

	if isDNSError(err) {
		showDNSError(context)
		return
	}

	if isConnectionRefusedError(err) {
		showConnectionRefusedError(context)
		return
	}

	if isAuthError(errStr) {
		showAuthError(context)
		return
	}

	showGenericError(context, errStr)
}

// isTimeoutError checks if the error is a timeout error.
func isTimeoutError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded") {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return false
}

// isDNSError checks if the error is a DNS resolution error.
func isDNSError(err error) bool {
	if err == nil {
		return false
	}

	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

// isConnectionRefusedError checks if the error is a connection refused error.
func isConnectionRefusedError(err error) bool {
	if err == nil {
		return false
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return errors.Is(opErr.Err, syscall.ECONNREFUSED)
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "connection refused")
}

// isAuthError checks if the error indicates rejected credentials, either by
// the database or by the SSH gateway.
func isAuthError(errStr string) bool {
	lower := strings.ToLower(errStr)
	return strings.Contains(lower, "password authentication failed") ||
		strings.Contains(lower, "authentication failed") ||
		strings.Contains(lower, "unable to authenticate") ||
		strings.Contains(lower, "permission denied (publickey") ||
		strings.Contains(lower, "handshake failed")
}

// showTimeoutError displays a user-friendly timeout error message.
func showTimeoutError(context string) {
	pterm.Printf("⏱️  Connection timeout while %s\n", context)
	pterm.Println()
	pterm.Println("The host took too long to respond. This could mean:")
	pterm.Println("  • Slow or unstable network connection")
	pterm.Println("  • The database host is only reachable through an SSH tunnel (set USE_SSH=true)")
	pterm.Println("  • A firewall is silently dropping the connection")
	pterm.Println()
	pterm.Println("Please check the host address and try again.")
	pterm.Println()
}

// showDNSError displays a user-friendly DNS error message.
func showDNSError(context string) {
	pterm.Printf("🌐 Cannot resolve host address while %s\n", context)
	pterm.Println()
	pterm.Println("Please check:")
	pterm.Println("  • The hostname in your DSN or DB_HOST / SSH_HOST settings")
	pterm.Println("  • Your internet connection is working")
	pterm.Println("  • DNS settings and any corporate VPN requirements")
	pterm.Println()
}

// showConnectionRefusedError displays a user-friendly connection refused error message.
func showConnectionRefusedError(context string) {
	pterm.Printf("🚫 Connection refused while %s\n", context)
	pterm.Println()
	pterm.Println("The host is reachable but not accepting connections. This could mean:")
	pterm.Println("  • The database is not listening on that port")
	pterm.Println("  • The database only accepts connections from inside its network (use an SSH tunnel)")
	pterm.Println("  • Wrong port number")
	pterm.Println()
}

// showAuthError displays a user-friendly authentication error message.
func showAuthError(context string) {
	pterm.Printf("🔒 Authentication failed while %s\n", context)
	pterm.Println()
	pterm.Println("The host rejected the credentials. Please check:")
	pterm.Println("  • Database username and password (DB_USER / DB_PASSWORD or the DSN)")
	pterm.Println("  • SSH username and private key path (SSH_USER / SSHKEYPATH) when tunneling")
	pterm.Println()
}

// showGenericError displays a generic error message for unrecognized errors.
func showGenericError(context string, errDetails string) {
	pterm.Printf("❌ Cannot connect while %s\n", context)
	pterm.Println()
	pterm.Println("Please check:")
	pterm.Println("  • Your network connection")
	pterm.Println("  • The host, port, and database name")
	pterm.Println("  • Firewall settings that might block the connection")
	pterm.Println()

	// Show abbreviated error details for debugging
	if errDetails != "" {
		shortErr := errDetails
		if len(shortErr) > 100 {
			shortErr = shortErr[:100] + "..."
		}
		pterm.Debug.Printf("Technical details: %s\n", shortErr)
		pterm.Println()
	}
}
