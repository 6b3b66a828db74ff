// Copyright (c) 2025 pgbridge contributors
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package render turns single cell values into the SQL-literal fragments used
// inside generated SET and WHERE clauses.
//
// The textual update path substitutes these fragments directly into statement
// text, so rendered string values are NOT escaped. This is only safe for
// caller-trusted values; never feed untrusted input through this package.
package render

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

const (
	timestampLayout = "2006-01-02T15:04:05-0700"
	dateLayout      = "2006-01-02"
)

// Date marks a value as date-only so it renders as YYYY-MM-DD rather than a
// full timestamp. A plain time.Time always renders with clock and offset.
type Date time.Time

// Time returns the underlying time value.
func (d Date) Time() time.Time { return time.Time(d) }

// SetFragment renders one column assignment ("col=value" plus separator and a
// trailing space) for a SET list (sep ",") or a WHERE list (sep " and").
// quoted reflects the column's quoting class from the catalog.
//
// Rules, in priority order: null/NaN renders as bare null regardless of
// class; unquoted booleans render as 1/0; unquoted values render as plain
// text; quoted timestamps render as YYYY-MM-DDTHH:MM:SS with a numeric UTC
// offset; Date values render as YYYY-MM-DD; all other quoted values render
// as their text wrapped in single quotes.
func SetFragment(col string, val any, sep string, quoted bool) string {
	if isNull(val) {
		return fmt.Sprintf("%s=null%s ", col, sep)
	}

	if !quoted {
		if b, ok := val.(bool); ok {
			// 1/0 rather than true/false for cross-driver consistency.
			if b {
				return fmt.Sprintf("%s=1%s ", col, sep)
			}
			return fmt.Sprintf("%s=0%s ", col, sep)
		}
		return fmt.Sprintf("%s=%s%s ", col, Plain(val), sep)
	}

	switch v := val.(type) {
	case time.Time:
		return fmt.Sprintf("%s='%s'%s ", col, v.Format(timestampLayout), sep)
	case Date:
		return fmt.Sprintf("%s='%s'%s ", col, v.Time().Format(dateLayout), sep)
	default:
		return fmt.Sprintf("%s='%s'%s ", col, Plain(val), sep)
	}
}

// isNull reports whether the value renders as SQL null. IEEE-754 NaN counts:
// it has no SQL literal form.
func isNull(val any) bool {
	switch v := val.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(v)
	case float32:
		return math.IsNaN(float64(v))
	}
	return false
}

// Plain renders a value's plain textual form, without quoting.
func Plain(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
