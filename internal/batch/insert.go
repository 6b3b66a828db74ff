// Copyright (c) 2025 pgbridge contributors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package batch

import (
	"strconv"
	"strings"
)

// BuildInsertSQL builds one parameterized multi-row insert statement:
//
//	insert into schema.table (a,b) values ($1,$2),($3,$4);
//
// Values travel as bound parameters, never interpolated into the text.
func BuildInsertSQL(schema, table string, columns []string, rowCount int) string {
	qualified := table
	if schema != "" {
		qualified = schema + "." + table
	}

	var b strings.Builder
	b.WriteString("insert into ")
	b.WriteString(qualified)
	b.WriteString(" (")
	b.WriteString(strings.Join(columns, ","))
	b.WriteString(") values ")

	n := 1
	for r := 0; r < rowCount; r++ {
		if r > 0 {
			b.WriteString(",")
		}
		b.WriteString("(")
		for c := range columns {
			if c > 0 {
				b.WriteString(",")
			}
			b.WriteString("$")
			b.WriteString(strconv.Itoa(n))
			n++
		}
		b.WriteString(")")
	}
	b.WriteString(";")
	return b.String()
}

// flattenRows lays row values out in statement parameter order.
func flattenRows(rows [][]any) []any {
	if len(rows) == 0 {
		return nil
	}
	out := make([]any, 0, len(rows)*len(rows[0]))
	for _, row := range rows {
		out = append(out, row...)
	}
	return out
}
