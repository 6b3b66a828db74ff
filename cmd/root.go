// Copyright (c) 2025 pgbridge contributors
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for pgbridge.
// It implements subcommands for configuring, inspecting, querying, and bulk
// loading a PostgreSQL database reached directly or through an SSH tunnel,
// using the Cobra CLI framework.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pgbridge/cli/internal/logging"
)

var (
	showVersion bool
	debugMode   bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:           "pgbridge",
	Short:         "pgbridge CLI for tunneled PostgreSQL access",
	Long:          `pgbridge is a command-line tool for working with PostgreSQL databases reached directly or through an SSH tunnel.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Printf("pgbridge %s\n", Version)
			return nil
		}
		return cmd.Help()
	},
}

// Execute runs the CLI application. Errors are masked before display so
// credentials embedded in driver messages never reach the terminal.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, logging.PresentError("pgbridge", err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show version information")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug trace output")
}
