// Copyright (c) 2025 pgbridge contributors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package render

import (
	"math"
	"testing"
	"time"
)

func TestSetFragment(t *testing.T) {
	utc := time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)
	est := time.Date(2021, 3, 4, 5, 6, 7, 0, time.FixedZone("EST", -5*3600))

	tests := []struct {
		name   string
		col    string
		val    any
		sep    string
		quoted bool
		want   string
	}{
		{
			name: "null set item",
			col:  "c_null", val: nil, sep: ",", quoted: true,
			want: "c_null=null, ",
		},
		{
			name: "null ignores unquoted class",
			col:  "c_null", val: nil, sep: ",", quoted: false,
			want: "c_null=null, ",
		},
		{
			name: "nan renders as null",
			col:  "c_float", val: math.NaN(), sep: ",", quoted: false,
			want: "c_float=null, ",
		},
		{
			name: "bool true as one",
			col:  "c_bool", val: true, sep: ",", quoted: false,
			want: "c_bool=1, ",
		},
		{
			name: "bool false as zero",
			col:  "c_bool", val: false, sep: ",", quoted: false,
			want: "c_bool=0, ",
		},
		{
			name: "unquoted int",
			col:  "age", val: 42, sep: ",", quoted: false,
			want: "age=42, ",
		},
		{
			name: "unquoted float plain form",
			col:  "ratio", val: 0.25, sep: ",", quoted: false,
			want: "ratio=0.25, ",
		},
		{
			name: "quoted string",
			col:  "first_name", val: "Craig", sep: ",", quoted: true,
			want: "first_name='Craig', ",
		},
		{
			name: "quoted timestamp utc",
			col:  "updated_at", val: utc, sep: ",", quoted: true,
			want: "updated_at='2021-03-04T05:06:07+0000', ",
		},
		{
			name: "quoted timestamp with offset",
			col:  "updated_at", val: est, sep: ",", quoted: true,
			want: "updated_at='2021-03-04T05:06:07-0500', ",
		},
		{
			name: "quoted date only",
			col:  "start_date", val: Date(utc), sep: ",", quoted: true,
			want: "start_date='2021-03-04', ",
		},
		{
			name: "where separator",
			col:  "id", val: 7, sep: " and", quoted: false,
			want: "id=7 and ",
		},
		{
			name: "where separator quoted",
			col:  "color_name", val: "red", sep: " and", quoted: true,
			want: "color_name='red' and ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SetFragment(tt.col, tt.val, tt.sep, tt.quoted)
			if got != tt.want {
				t.Errorf("SetFragment() = %q, want %q", got, tt.want)
			}
		})
	}
}
