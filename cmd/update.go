// Copyright (c) 2025 pgbridge contributors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"pgbridge/cli/internal/batch"
	"pgbridge/cli/internal/config"

	"github.com/spf13/cobra"
)

var (
	updateSchema   string
	updateIDCol    string
	updatePageSize int
	updatePrepared bool
)

// updateCmd bulk-updates rows by identifier from a CSV file. The first CSV
// record names the columns and must include the identifier column; every
// following record updates one row.
var updateCmd = &cobra.Command{
	Use:   "update <table> <file.csv>",
	Short: "Bulk update rows from a CSV file",
	Long: `The update command applies the rows of a CSV file as per-row updates keyed by
an identifier column (default "id"). Statements are generated from the table's
column types and executed in pages, one round trip per page.

With --prepared, values travel as bound parameters through a server-side
prepared statement instead of generated statement text.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		table, path := args[0], args[1]

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		r := csv.NewReader(f)
		header, err := r.Read()
		if err != nil {
			return fmt.Errorf("read CSV header: %w", err)
		}
		records, err := r.ReadAll()
		if err != nil {
			return fmt.Errorf("read CSV rows: %w", err)
		}
		if len(records) == 0 {
			fmt.Println("Nothing to update.")
			return nil
		}

		values := make([][]any, 0, len(records))
		for _, rec := range records {
			row := make([]any, len(header))
			for i := range header {
				if i < len(rec) {
					row[i] = rec[i]
				}
			}
			values = append(values, row)
		}
		rows := batch.FromColumns(header, values)

		sess, err := openSession()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		schema := updateSchema
		if schema == "" {
			schema = sess.Schema()
		}

		pageSize := updatePageSize
		if pageSize <= 0 {
			settings, err := config.LoadSettings()
			if err == nil && settings.PageSize > 0 {
				pageSize = settings.PageSize
			}
		}

		engine := batch.New(sess)
		start := time.Now()
		if updatePrepared {
			err = engine.UpdateBatchPrepared(ctx, schema, table, rows, updateIDCol, pageSize)
		} else {
			err = engine.UpdateBatch(ctx, schema, table, rows, updateIDCol, pageSize)
		}
		if err != nil {
			return err
		}

		fmt.Printf("✅ Updated %d rows in %s.%s in %.2f seconds\n",
			len(rows), schema, table, time.Since(start).Seconds())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)
	updateCmd.Flags().StringVar(&updateSchema, "schema", "", "Target schema (defaults to the configured schema)")
	updateCmd.Flags().StringVar(&updateIDCol, "id-col", "id", "Identifier column name")
	updateCmd.Flags().IntVar(&updatePageSize, "page-size", 0, "Rows per round trip (defaults to the configured page size)")
	updateCmd.Flags().BoolVar(&updatePrepared, "prepared", false, "Use a server-side prepared statement with bound parameters")
}
