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
	loadSchema   string
	loadPageSize int
)

// loadCmd bulk-inserts rows from a CSV file. The first CSV record names the
// target columns; every following record becomes one row. Values travel as
// text parameters and the server casts them to the column types.
var loadCmd = &cobra.Command{
	Use:   "load <table> <file.csv>",
	Short: "Bulk load a CSV file into a table",
	Long: `The load command inserts the rows of a CSV file into a table using paged
multi-row insert statements. The first CSV record must name the target
columns. Empty cells insert as empty strings; use explicit SQL afterwards
if nulls are needed.`,
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
			fmt.Println("Nothing to load.")
			return nil
		}

		sess, err := openSession()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		schema := loadSchema
		if schema == "" {
			schema = sess.Schema()
		}

		pageSize := loadPageSize
		if pageSize <= 0 {
			settings, err := config.LoadSettings()
			if err == nil && settings.PageSize > 0 {
				pageSize = settings.PageSize
			} else {
				pageSize = batch.DefaultPageSize
			}
		}

		engine := batch.New(sess)
		engine.SetPageSize(pageSize)

		start := time.Now()
		for from := 0; from < len(records); from += pageSize {
			to := from + pageSize
			if to > len(records) {
				to = len(records)
			}
			rows := make([][]any, 0, to-from)
			for _, rec := range records[from:to] {
				row := make([]any, len(header))
				for i := range header {
					if i < len(rec) {
						row[i] = rec[i]
					}
				}
				rows = append(rows, row)
			}
			if err := engine.InsertRows(ctx, schema, table, header, rows); err != nil {
				return err
			}
		}

		fmt.Printf("✅ Loaded %d rows into %s.%s in %.2f seconds\n",
			len(records), schema, table, time.Since(start).Seconds())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)
	loadCmd.Flags().StringVar(&loadSchema, "schema", "", "Target schema (defaults to the configured schema)")
	loadCmd.Flags().IntVar(&loadPageSize, "page-size", 0, "Rows per insert statement (defaults to the configured page size)")
}
