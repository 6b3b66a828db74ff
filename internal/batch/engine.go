// Copyright (c) 2025 pgbridge contributors
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package batch converts row-oriented change data into database statements
// and drives their execution in pages.
//
// Inserts go through one parameterized multi-row statement. Updates go row
// by row: either as textual statements assembled from catalog-classified
// values and executed as one multi-statement batch per page, or through a
// server-side prepared statement executed once per row. The textual path
// substitutes values into statement text and is restricted to caller-trusted
// values; see the render package.
package batch

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"pgbridge/cli/internal/catalog"
	dberrors "pgbridge/cli/internal/errors"
	"pgbridge/cli/internal/render"
	"pgbridge/cli/internal/session"
)

// Row is one record of a change set, keyed by column name.
type Row map[string]any

// DefaultPageSize bounds how many rows travel in one round trip.
const DefaultPageSize = 1000

// Engine assembles and executes batched mutations. The page size is sticky:
// the first caller's choice wins for subsequent calls unless SetPageSize
// overrides it. Each engine owns its own page size; there is no shared state
// between engines.
type Engine struct {
	sess     *session.Session
	pageSize int
}

// New builds an engine on top of a session.
func New(sess *session.Session) *Engine {
	return &Engine{sess: sess}
}

// SetPageSize explicitly overrides the sticky page size.
func (e *Engine) SetPageSize(n int) {
	if n > 0 {
		e.pageSize = n
	}
}

// resolvePageSize applies the sticky page-size rule.
func (e *Engine) resolvePageSize(requested int) int {
	if e.pageSize == 0 {
		if requested > 0 {
			e.pageSize = requested
		} else {
			e.pageSize = DefaultPageSize
		}
	}
	return e.pageSize
}

// FromColumns normalizes tabular input (parallel column names and value rows)
// into the named-row change-set shape the update paths consume.
func FromColumns(columns []string, values [][]any) []Row {
	rows := make([]Row, 0, len(values))
	for _, vals := range values {
		row := make(Row, len(columns))
		for i, col := range columns {
			if i < len(vals) {
				row[col] = vals[i]
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// InsertRows inserts all rows with one parameterized multi-row statement
// executed as a single driver call. An empty row list is a no-op.
func (e *Engine) InsertRows(ctx context.Context, schema, table string, columns []string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}
	rows = SanitizeParams(rows)
	sql := BuildInsertSQL(schema, table, columns, len(rows))

	e.sess.Tracer().Debugf("Execute many: inserting %d records", len(rows))
	start := time.Now()
	if err := e.sess.Exec(ctx, sql, flattenRows(rows)...); err != nil {
		return err
	}
	e.sess.Tracer().Debugf("Inserted %d rows in %.2f seconds", len(rows), time.Since(start).Seconds())
	return nil
}

// UpdateBatch updates rows by identifier using textual per-row statements.
// The first row's key set defines the statement shape; rows with a different
// key set are rejected before anything is sent. Each page of statements is
// joined into one multi-statement batch and committed in a single round trip.
// An empty row list is a no-op.
func (e *Engine) UpdateBatch(ctx context.Context, schema, table string, rows []Row, idCol string, pageSize int) error {
	if len(rows) == 0 {
		return nil
	}
	if idCol == "" {
		idCol = "id"
	}

	cols, err := updateColumns(rows, idCol)
	if err != nil {
		return err
	}

	classes, err := catalog.Lookup(ctx, e.sess, schema, table, append(append([]string{}, cols...), idCol))
	if err != nil {
		return err
	}

	for i := range rows {
		rows[i] = SanitizeRow(rows[i])
	}

	size := e.resolvePageSize(pageSize)
	start := time.Now()

	err = e.sess.WithSession(ctx, func(ctx context.Context, conn *pgx.Conn) error {
		for from := 0; from < len(rows); from += size {
			page := rows[from:min(from+size, len(rows))]
			stmts := make([]string, len(page))
			for i, row := range page {
				stmts[i] = buildUpdateStatement(schema, table, row, cols, idCol, classes)
			}
			e.sess.Tracer().Debugf("Execute batch: updating %d records", len(page))
			if err := e.sess.ExecScriptOn(ctx, conn, strings.Join(stmts, " ")); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	e.sess.Tracer().Debugf("Updated %d rows in %.2f seconds", len(rows), time.Since(start).Seconds())
	return nil
}

// UpdateBatchPrepared updates rows by identifier through one server-side
// prepared statement executed once per row, page by page, then deallocated.
// Values travel as bound parameters, so this path is safe for untrusted
// values, unlike UpdateBatch.
func (e *Engine) UpdateBatchPrepared(ctx context.Context, schema, table string, rows []Row, idCol string, pageSize int) error {
	if len(rows) == 0 {
		return nil
	}
	if idCol == "" {
		idCol = "id"
	}

	cols, err := updateColumns(rows, idCol)
	if err != nil {
		return err
	}
	for i := range rows {
		rows[i] = SanitizeRow(rows[i])
	}

	sql := buildPreparedUpdateSQL(schema, table, cols, idCol)
	size := e.resolvePageSize(pageSize)
	const stmtName = "pgbridge_update_batch"

	return e.sess.WithSession(ctx, func(ctx context.Context, conn *pgx.Conn) error {
		if _, err := conn.Prepare(ctx, stmtName, sql); err != nil {
			return dberrors.WrapSQL(dberrors.ExecFailed, "prepare failed", sql, err)
		}
		defer func() {
			_ = conn.Deallocate(ctx, stmtName)
		}()

		for from := 0; from < len(rows); from += size {
			page := rows[from:min(from+size, len(rows))]
			b := &pgx.Batch{}
			for _, row := range page {
				args := make([]any, 0, len(cols)+1)
				for _, col := range cols {
					args = append(args, row[col])
				}
				args = append(args, row[idCol])
				b.Queue(stmtName, args...)
			}
			e.sess.Tracer().Debugf("Execute batch: updating %d records", len(page))
			if err := conn.SendBatch(ctx, b).Close(); err != nil {
				return dberrors.WrapSQL(dberrors.ExecFailed, "batch failed", sql, err)
			}
		}
		return nil
	})
}

// ExecuteTemplateBatch substitutes each row's values into a caller-supplied
// statement template with positional {0}, {1}, ... placeholders, joins each
// page with ";", and executes it as one batch. The template carries its own
// quoting; values are trusted.
func (e *Engine) ExecuteTemplateBatch(ctx context.Context, template string, rows [][]any, pageSize int) error {
	if len(rows) == 0 {
		return nil
	}
	rows = SanitizeParams(rows)
	size := e.resolvePageSize(pageSize)

	return e.sess.WithSession(ctx, func(ctx context.Context, conn *pgx.Conn) error {
		for from := 0; from < len(rows); from += size {
			page := rows[from:min(from+size, len(rows))]
			stmts := make([]string, len(page))
			for i, row := range page {
				stmts[i] = substituteTemplate(template, row)
			}
			e.sess.Tracer().Debugf("Execute batch: %d statements", len(page))
			if err := e.sess.ExecScriptOn(ctx, conn, strings.Join(stmts, "; ")); err != nil {
				return err
			}
		}
		return nil
	})
}

// updateColumns derives the update column list from the first row's key set
// and rejects heterogeneous rows. Columns are sorted so the statement shape
// is deterministic.
func updateColumns(rows []Row, idCol string) ([]string, error) {
	first := rows[0]
	if _, ok := first[idCol]; !ok {
		return nil, fmt.Errorf("identifier column %q missing from row 0", idCol)
	}

	cols := make([]string, 0, len(first)-1)
	for col := range first {
		if col != idCol {
			cols = append(cols, col)
		}
	}
	sort.Strings(cols)

	for i, row := range rows[1:] {
		if len(row) != len(first) {
			return nil, fmt.Errorf("row %d has a different column set than row 0", i+1)
		}
		for col := range row {
			if _, ok := first[col]; !ok {
				return nil, fmt.Errorf("row %d has a different column set than row 0: unexpected column %q", i+1, col)
			}
		}
	}
	return cols, nil
}

// buildUpdateStatement renders one textual per-row update:
//
//	update schema.table set a='x', b=2 where id=7;
func buildUpdateStatement(schema, table string, row Row, cols []string, idCol string, classes map[string]catalog.QuoteClass) string {
	var set strings.Builder
	for _, col := range cols {
		set.WriteString(render.SetFragment(col, row[col], ",", classes[col] == catalog.Quoted))
	}
	setClause := strings.TrimSuffix(set.String(), ", ")

	where := strings.TrimSuffix(
		render.SetFragment(idCol, row[idCol], " and", classes[idCol] == catalog.Quoted), " and ")

	return fmt.Sprintf("update %s.%s set %s where %s;", schema, table, setClause, where)
}

// buildPreparedUpdateSQL renders the parameterized per-row update shape.
func buildPreparedUpdateSQL(schema, table string, cols []string, idCol string) string {
	var b strings.Builder
	b.WriteString("update ")
	b.WriteString(schema)
	b.WriteString(".")
	b.WriteString(table)
	b.WriteString(" set ")
	for i, col := range cols {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s=$%d", col, i+1)
	}
	fmt.Fprintf(&b, " where %s=$%d", idCol, len(cols)+1)
	return b.String()
}

// substituteTemplate replaces {0}, {1}, ... with each value's plain text.
func substituteTemplate(template string, row []any) string {
	out := template
	for i, v := range row {
		text := "null"
		if v != nil {
			text = render.Plain(v)
		}
		out = strings.ReplaceAll(out, fmt.Sprintf("{%d}", i), text)
	}
	return out
}
