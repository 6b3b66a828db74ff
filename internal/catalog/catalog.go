// Copyright (c) 2025 pgbridge contributors
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package catalog classifies table columns by their quoting requirement.
// It inspects information_schema.columns and maps each declared type into
// one of two fixed partitions: quoted (character, date, and time types) or
// unquoted (numeric and boolean types).
//
// Classification fails closed: a column missing from the table's metadata or
// carrying a type outside both partitions is an error, never a guess, because
// mis-quoting a value silently corrupts the generated statement.
//
// The map is rebuilt on every lookup. If the schema changes between the
// lookup and statement execution there is a race with no detection; callers
// own that consistency gap.
package catalog

import (
	"context"
	"fmt"
)

// QuoteClass is a column's quoting classification.
type QuoteClass string

const (
	// Quoted values are wrapped in single quotes in generated statements.
	Quoted QuoteClass = "quoted"
	// Unquoted values are rendered bare.
	Unquoted QuoteClass = "unquoted"
)

// Column types wrapped in quotes in generated statements.
var quotedTypes = map[string]struct{}{
	"character varying":           {},
	"nvarchar":                    {},
	"text":                        {},
	"character":                   {},
	"nchar":                       {},
	"bpchar":                      {},
	"date":                        {},
	"timestamp without time zone": {},
	"timestamp with time zone":    {},
	"time without time zone":      {},
	"time with time zone":         {},
}

// Column types rendered bare.
var unquotedTypes = map[string]struct{}{
	"numeric":          {},
	"bigint":           {},
	"smallint":         {},
	"integer":          {},
	"bool":             {},
	"float4":           {},
	"float8":           {},
	"float":            {},
	"real":             {},
	"double precision": {},
	"boolean":          {},
}

// MissingColumnError reports a requested column absent from the table metadata.
type MissingColumnError struct {
	Column string
	Table  string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("the column %s was not found in the %s table", e.Column, e.Table)
}

// UnknownTypeError reports a declared type outside both quoting partitions.
type UnknownTypeError struct {
	Column   string
	Table    string
	DataType string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("the column %s in the %s table has data type %s, which is in neither the quoted nor unquoted type list",
		e.Column, e.Table, e.DataType)
}

// Metadata supplies declared column types for a table. The session layer
// implements it with one information_schema query.
type Metadata interface {
	ColumnTypes(ctx context.Context, schema, table string) (map[string]string, error)
}

// Lookup classifies the requested columns of schema.table.
// Every requested column must resolve; see the package comment for the
// fail-closed policy.
func Lookup(ctx context.Context, src Metadata, schema, table string, columns []string) (map[string]QuoteClass, error) {
	dtypes, err := src.ColumnTypes(ctx, schema, table)
	if err != nil {
		return nil, err
	}
	return Classify(dtypes, columns, table)
}

// Classify maps each requested column through the type partitions.
func Classify(dtypes map[string]string, columns []string, table string) (map[string]QuoteClass, error) {
	out := make(map[string]QuoteClass, len(columns))
	for _, col := range columns {
		dtype, ok := dtypes[col]
		if !ok {
			return nil, &MissingColumnError{Column: col, Table: table}
		}
		if _, ok := quotedTypes[dtype]; ok {
			out[col] = Quoted
			continue
		}
		if _, ok := unquotedTypes[dtype]; ok {
			out[col] = Unquoted
			continue
		}
		return nil, &UnknownTypeError{Column: col, Table: table, DataType: dtype}
	}
	return out, nil
}
