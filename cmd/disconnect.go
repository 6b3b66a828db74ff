// Copyright (c) 2025 pgbridge contributors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"pgbridge/cli/internal/keychain"

	"github.com/spf13/cobra"
)

// disconnectCmd removes stored database credentials from the OS keychain.
var disconnectCmd = &cobra.Command{
	Use:   "disconnect",
	Short: "Remove stored database credentials",
	Long:  `The disconnect command removes the saved database DSN and password from the OS keychain.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		km, err := keychain.GetManager()
		if err != nil {
			fmt.Println("❌ Secure storage is not available on this system.")
			return err
		}
		if err := km.ClearDB(); err != nil {
			fmt.Println("❌ Failed to remove stored credentials.")
			return err
		}
		fmt.Println("✅ Stored database credentials removed.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(disconnectCmd)
}
