// Copyright (c) 2025 pgbridge contributors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package batch

import "math"

// sanitizeValue replaces IEEE-754 values the wire protocol cannot carry.
// NaN shows up in imported numeric data, and infinity can be positive or
// negative; both become null rather than an error.
func sanitizeValue(v any) any {
	switch f := v.(type) {
	case float64:
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
	case float32:
		f64 := float64(f)
		if math.IsNaN(f64) || math.IsInf(f64, 0) {
			return nil
		}
	}
	return v
}

// SanitizeParams converts NaN and ±Inf to nil across positional rows.
// All other values pass through unchanged. Rows are modified in place.
func SanitizeParams(rows [][]any) [][]any {
	for _, row := range rows {
		for i, v := range row {
			row[i] = sanitizeValue(v)
		}
	}
	return rows
}

// SanitizeRow converts NaN and ±Inf to nil across one named row.
func SanitizeRow(row Row) Row {
	for col, v := range row {
		row[col] = sanitizeValue(v)
	}
	return row
}
