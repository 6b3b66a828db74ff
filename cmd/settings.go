// Copyright (c) 2025 pgbridge contributors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"pgbridge/cli/internal/config"
)

var (
	settingsPageSize int
	settingsLogLevel string
)

// settingsCmd shows and updates non-secret CLI settings stored in the XDG
// config directory. Secrets never live here; they go to the OS keychain.
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change CLI settings",
	Long: `The settings command shows the persisted CLI settings. Pass --page-size or
--log-level to change a setting; the new values are written to the config file
in the XDG config directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := config.LoadSettings()
		if err != nil {
			return err
		}

		changed := false
		if settingsPageSize > 0 {
			s.PageSize = settingsPageSize
			changed = true
		}
		if settingsLogLevel != "" {
			s.LogLevel = settingsLogLevel
			changed = true
		}
		if changed {
			if err := config.SaveSettings(s); err != nil {
				return err
			}
		}

		pterm.Printf("log level: %s\n", s.LogLevel)
		pterm.Printf("page size: %d\n", s.PageSize)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.Flags().IntVar(&settingsPageSize, "page-size", 0, "Default batch page size")
	settingsCmd.Flags().StringVar(&settingsLogLevel, "log-level", "", "Log level (info or debug)")
}
