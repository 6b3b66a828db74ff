// Copyright (c) 2025 pgbridge contributors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	execFile   string
	execScript bool
)

// execCmd runs a mutating statement, or a whole SQL script, against the
// configured database.
var execCmd = &cobra.Command{
	Use:   "exec [sql]",
	Short: "Execute a statement or SQL script",
	Long: `The exec command runs a single statement inside a transaction and commits it.

With --script, the input may contain multiple statements separated by
semicolons; they execute in one round trip and commit or roll back as a unit.
With --file, the SQL is read from a file instead of the command line.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var sql string
		switch {
		case execFile != "":
			data, err := os.ReadFile(execFile)
			if err != nil {
				return err
			}
			sql = string(data)
		case len(args) == 1:
			sql = args[0]
		default:
			return fmt.Errorf("provide SQL as an argument or with --file")
		}
		if strings.TrimSpace(sql) == "" {
			return fmt.Errorf("empty SQL input")
		}

		sess, err := openSession()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		if execScript || execFile != "" {
			if err := sess.ExecScript(ctx, sql); err != nil {
				return err
			}
		} else {
			if err := sess.Exec(ctx, sql); err != nil {
				return err
			}
		}
		fmt.Println("✅ Done")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(execCmd)
	execCmd.Flags().StringVarP(&execFile, "file", "f", "", "Read SQL from a file")
	execCmd.Flags().BoolVar(&execScript, "script", false, "Treat the input as a multi-statement script")
}
