// Copyright (c) 2025 pgbridge contributors
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package session provides scoped acquisition of a database connection,
// direct or through the SSH tunnel, with guaranteed release of both the
// connection and the tunnel on every exit path.
//
// The resource discipline is strictly two-level: the tunnel is the outer
// resource, the connection the inner one, and they are released inner-first.
// Statement helpers perform exactly one round trip per call and never retry;
// a failed statement surfaces as an exec_failed error wrapping the driver
// message and the SQL text.
package session

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"pgbridge/cli/internal/config"
	"pgbridge/cli/internal/dsn"
	dberrors "pgbridge/cli/internal/errors"
	"pgbridge/cli/internal/logging"
	"pgbridge/cli/internal/tunnel"
)

// Session opens one database connection per logical operation.
// Not safe for concurrent use; parallel callers need separate sessions.
type Session struct {
	cfg    config.ConnectionConfig
	tun    *tunnel.Manager
	tracer *logging.Tracer
}

// New builds a session from resolved connection parameters.
func New(cfg config.ConnectionConfig) *Session {
	tracer := logging.NewTracer(cfg.Debug)
	return &Session{
		cfg:    cfg,
		tun:    tunnel.NewManager(cfg, tracer),
		tracer: tracer,
	}
}

// Config returns the resolved connection parameters backing this session.
func (s *Session) Config() config.ConnectionConfig { return s.cfg }

// Tracer returns the debug trace sink shared with the tunnel manager.
func (s *Session) Tracer() *logging.Tracer { return s.tracer }

// Schema returns the default schema for generated statements.
func (s *Session) Schema() string { return s.cfg.Schema }

// WithSession acquires the tunnel endpoint if tunneling is enabled, opens a
// connection to it, runs op, and tears everything down before returning.
// The connection closes before the tunnel releases, success or failure.
// An op that leaves a transaction open loses it when the connection closes.
func (s *Session) WithSession(ctx context.Context, op func(ctx context.Context, conn *pgx.Conn) error) error {
	host, port, err := s.tun.Acquire(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = s.tun.Release()
	}()

	connStr := dsn.Build(s.cfg.User, s.cfg.Password, host, strconv.Itoa(port), s.cfg.DBName, nil)
	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		return dberrors.Wrap(dberrors.ConnectFailed, "connect to database", err)
	}
	defer conn.Close(ctx)

	return op(ctx, conn)
}

// Ping verifies end-to-end connectivity, through the tunnel when enabled.
func (s *Session) Ping(ctx context.Context) error {
	return s.WithSession(ctx, func(ctx context.Context, conn *pgx.Conn) error {
		if err := conn.Ping(ctx); err != nil {
			return dberrors.Wrap(dberrors.ConnectFailed, "ping database", err)
		}
		return nil
	})
}

// SelectMaps runs a query and returns every row as a column-name keyed map.
func (s *Session) SelectMaps(ctx context.Context, sql string, args ...any) ([]map[string]any, error) {
	var out []map[string]any
	err := s.WithSession(ctx, func(ctx context.Context, conn *pgx.Conn) error {
		s.tracer.Debugf("Getting query:\n %s", sql)
		rows, err := conn.Query(ctx, sql, args...)
		if err != nil {
			return dberrors.WrapSQL(dberrors.ExecFailed, "query failed", sql, err)
		}
		defer rows.Close()

		fds := rows.FieldDescriptions()
		cols := make([]string, len(fds))
		for i, fd := range fds {
			cols[i] = string(fd.Name)
		}

		for rows.Next() {
			vals, err := rows.Values()
			if err != nil {
				return dberrors.WrapSQL(dberrors.ExecFailed, "read row", sql, err)
			}
			row := make(map[string]any, len(cols))
			for i, col := range cols {
				row[col] = vals[i]
			}
			out = append(out, row)
		}
		if rows.Err() != nil {
			return dberrors.WrapSQL(dberrors.ExecFailed, "query failed", sql, rows.Err())
		}
		return nil
	})
	return out, err
}

// SelectColumn runs a query and returns the first column of every row.
func (s *Session) SelectColumn(ctx context.Context, sql string, args ...any) ([]any, error) {
	var out []any
	err := s.WithSession(ctx, func(ctx context.Context, conn *pgx.Conn) error {
		s.tracer.Debugf("Getting query:\n %s", sql)
		rows, err := conn.Query(ctx, sql, args...)
		if err != nil {
			return dberrors.WrapSQL(dberrors.ExecFailed, "query failed", sql, err)
		}
		defer rows.Close()

		for rows.Next() {
			vals, err := rows.Values()
			if err != nil {
				return dberrors.WrapSQL(dberrors.ExecFailed, "read row", sql, err)
			}
			if len(vals) > 0 {
				out = append(out, vals[0])
			}
		}
		if rows.Err() != nil {
			return dberrors.WrapSQL(dberrors.ExecFailed, "query failed", sql, rows.Err())
		}
		return nil
	})
	return out, err
}

// SelectScalar runs a query and returns the first column of the first row,
// or nil when the query yields no rows.
func (s *Session) SelectScalar(ctx context.Context, sql string, args ...any) (any, error) {
	var out any
	err := s.WithSession(ctx, func(ctx context.Context, conn *pgx.Conn) error {
		s.tracer.Debugf("Getting query:\n %s", sql)
		rows, err := conn.Query(ctx, sql, args...)
		if err != nil {
			return dberrors.WrapSQL(dberrors.ExecFailed, "query failed", sql, err)
		}
		defer rows.Close()

		if rows.Next() {
			vals, err := rows.Values()
			if err != nil {
				return dberrors.WrapSQL(dberrors.ExecFailed, "read row", sql, err)
			}
			if len(vals) > 0 {
				out = vals[0]
			}
		}
		if rows.Err() != nil {
			return dberrors.WrapSQL(dberrors.ExecFailed, "query failed", sql, rows.Err())
		}
		return nil
	})
	return out, err
}

// Exec runs a single statement inside a transaction and commits it.
// The transaction rolls back before the error propagates on failure.
func (s *Session) Exec(ctx context.Context, sql string, args ...any) error {
	return s.WithSession(ctx, func(ctx context.Context, conn *pgx.Conn) error {
		return execCommitted(ctx, conn, s.tracer, sql, args...)
	})
}

// execCommitted is the transactional execute behind Exec.
func execCommitted(ctx context.Context, conn *pgx.Conn, tracer *logging.Tracer, sql string, args ...any) error {
	tracer.Debugf("Getting query:\n %s", sql)
	start := time.Now()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return dberrors.WrapSQL(dberrors.ExecFailed, "begin transaction", sql, err)
	}
	defer tx.Rollback(ctx) // no-op after commit

	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return dberrors.WrapSQL(dberrors.ExecFailed, "statement failed", sql, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return dberrors.WrapSQL(dberrors.ExecFailed, "commit failed", sql, err)
	}

	tracer.Debugf("Statement committed in %.2f seconds", time.Since(start).Seconds())
	return nil
}

// ExecScript runs a multi-statement batch (statements joined with ";") in one
// round trip over the simple query protocol. The whole script executes inside
// one implicit transaction: it commits or rolls back as a unit.
func (s *Session) ExecScript(ctx context.Context, sql string) error {
	return s.WithSession(ctx, func(ctx context.Context, conn *pgx.Conn) error {
		return execScript(ctx, conn, s.tracer, sql)
	})
}

func execScript(ctx context.Context, conn *pgx.Conn, tracer *logging.Tracer, sql string) error {
	tracer.Debugf("Getting query:\n %s", sql)
	start := time.Now()

	if _, err := conn.PgConn().Exec(ctx, sql).ReadAll(); err != nil {
		return dberrors.WrapSQL(dberrors.ExecFailed, "batch failed", sql, err)
	}

	tracer.Debugf("Batch completed in %.2f seconds", time.Since(start).Seconds())
	return nil
}

// ExecScriptOn runs one multi-statement batch on a connection the caller
// already holds inside WithSession.
func (s *Session) ExecScriptOn(ctx context.Context, conn *pgx.Conn, sql string) error {
	return execScript(ctx, conn, s.tracer, sql)
}

// columnTypesSQL is the metadata query backing the column type catalog.
// Schema and table names travel as bound parameters, never interpolated.
const columnTypesSQL = `select column_name, data_type from information_schema.columns
where table_schema = $1 and table_name = $2`

// ColumnTypes returns the declared type of every column of schema.table.
// It implements catalog.Metadata.
func (s *Session) ColumnTypes(ctx context.Context, schema, table string) (map[string]string, error) {
	out := make(map[string]string)
	err := s.WithSession(ctx, func(ctx context.Context, conn *pgx.Conn) error {
		s.tracer.Debugf("Getting query:\n %s", columnTypesSQL)
		rows, err := conn.Query(ctx, columnTypesSQL, schema, table)
		if err != nil {
			return dberrors.WrapSQL(dberrors.ExecFailed, "metadata query failed", columnTypesSQL, err)
		}
		defer rows.Close()

		for rows.Next() {
			var name, dtype string
			if err := rows.Scan(&name, &dtype); err != nil {
				return dberrors.WrapSQL(dberrors.ExecFailed, "read metadata row", columnTypesSQL, err)
			}
			out[name] = dtype
		}
		if rows.Err() != nil {
			return dberrors.WrapSQL(dberrors.ExecFailed, "metadata query failed", columnTypesSQL, rows.Err())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
