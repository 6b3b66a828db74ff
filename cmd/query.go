// Copyright (c) 2025 pgbridge contributors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"sort"

	"pgbridge/cli/internal/render"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	queryScalar bool
	queryColumn bool
)

// queryCmd runs a SELECT statement and renders the result as a table.
var queryCmd = &cobra.Command{
	Use:   "query <sql>",
	Short: "Run a query and print the result",
	Long: `The query command runs a SQL query against the configured database, through
the SSH tunnel when one is configured, and prints the result as a table.

With --scalar, only the first column of the first row is printed, which is
convenient for counts and similar single-value queries. With --column, the
first column of every row is printed one value per line.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		sql := args[0]

		if queryScalar {
			val, err := sess.SelectScalar(ctx, sql)
			if err != nil {
				return err
			}
			if val == nil {
				fmt.Println("null")
			} else {
				fmt.Println(render.Plain(val))
			}
			return nil
		}

		if queryColumn {
			vals, err := sess.SelectColumn(ctx, sql)
			if err != nil {
				return err
			}
			for _, val := range vals {
				if val == nil {
					fmt.Println("null")
				} else {
					fmt.Println(render.Plain(val))
				}
			}
			return nil
		}

		rows, err := sess.SelectMaps(ctx, sql)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			pterm.Println("(no rows)")
			return nil
		}

		// Column order is not preserved by the map shape; sort for stability.
		cols := make([]string, 0, len(rows[0]))
		for col := range rows[0] {
			cols = append(cols, col)
		}
		sort.Strings(cols)

		data := pterm.TableData{cols}
		for _, row := range rows {
			cells := make([]string, len(cols))
			for i, col := range cols {
				if row[col] == nil {
					cells[i] = ""
				} else {
					cells[i] = render.Plain(row[col])
				}
			}
			data = append(data, cells)
		}
		if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
			return err
		}
		pterm.Printf("(%d rows)\n", len(rows))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().BoolVar(&queryScalar, "scalar", false, "Print only the first column of the first row")
	queryCmd.Flags().BoolVar(&queryColumn, "column", false, "Print the first column of every row, one per line")
}
