// Copyright (c) 2025 pgbridge contributors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"strconv"

	"pgbridge/cli/internal/dsn"
	"pgbridge/cli/internal/logging"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// dbinfoCmd represents the dbinfo command for displaying database connection
// information. It shows the resolved endpoint with the password masked, and
// the tunnel route when tunneling is enabled.
var dbinfoCmd = &cobra.Command{
	Use:   "dbinfo",
	Short: "Show current database connection details",
	Long: `The dbinfo command displays the resolved database connection (from environment
variables or the OS keychain) with the password masked for security. When SSH
tunneling is enabled, the tunnel route is shown as well.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConnection()
		if err != nil {
			pterm.Println("⚠️  No database connection configured")
			pterm.Println("   Please run: pgbridge connect, or set DB_HOST, DB_NAME, DB_USER, DB_PASSWORD")
			return err
		}

		connStr := dsn.Build(cfg.User, cfg.Password, cfg.Host, strconv.Itoa(cfg.Port), cfg.DBName, nil)
		masked := logging.Mask(connStr)

		body := masked
		if t := cfg.Tunnel; t != nil {
			body += fmt.Sprintf("\n\nvia SSH tunnel %s@%s:%d\nremote bind %s:%d, local bind %s:%s",
				t.SSHUser, t.SSHHost, t.SSHPort,
				t.RemoteBindHost, t.RemoteBindPort,
				t.LocalBindHost, t.LocalBindPort)
		}

		pterm.DefaultBox.
			WithTitle(pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint("Database Connection")).
			WithTopPadding(1).
			WithBottomPadding(1).
			WithLeftPadding(1).
			WithRightPadding(1).
			Println(body)
		pterm.Println()
		pterm.Println("To update this connection, run: pgbridge connect")
		pterm.Println()

		return nil
	},
}

func init() {
	rootCmd.AddCommand(dbinfoCmd)
}
