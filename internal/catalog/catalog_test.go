// Copyright (c) 2025 pgbridge contributors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package catalog

import (
	"context"
	"errors"
	"testing"
)

type fakeMetadata map[string]string

func (f fakeMetadata) ColumnTypes(ctx context.Context, schema, table string) (map[string]string, error) {
	return f, nil
}

func TestClassify(t *testing.T) {
	dtypes := map[string]string{
		"id":          "integer",
		"color_name":  "character varying",
		"notes":       "text",
		"start_date":  "date",
		"updated_at":  "timestamp with time zone",
		"is_active":   "boolean",
		"score":       "double precision",
		"amount":      "numeric",
		"coordinates": "point",
	}

	tests := []struct {
		name    string
		columns []string
		want    map[string]QuoteClass
		wantErr any
	}{
		{
			name:    "mixed partitions",
			columns: []string{"color_name", "id"},
			want:    map[string]QuoteClass{"color_name": Quoted, "id": Unquoted},
		},
		{
			name:    "temporal types quoted",
			columns: []string{"start_date", "updated_at"},
			want:    map[string]QuoteClass{"start_date": Quoted, "updated_at": Quoted},
		},
		{
			name:    "numeric and boolean unquoted",
			columns: []string{"is_active", "score", "amount"},
			want:    map[string]QuoteClass{"is_active": Unquoted, "score": Unquoted, "amount": Unquoted},
		},
		{
			name:    "missing column",
			columns: []string{"color_name", "no_such_col"},
			wantErr: &MissingColumnError{},
		},
		{
			name:    "unrecognized type",
			columns: []string{"coordinates"},
			wantErr: &UnknownTypeError{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(dtypes, tt.columns, "color")

			switch tt.wantErr.(type) {
			case *MissingColumnError:
				var mce *MissingColumnError
				if !errors.As(err, &mce) {
					t.Fatalf("Classify() error = %v, want MissingColumnError", err)
				}
				return
			case *UnknownTypeError:
				var ute *UnknownTypeError
				if !errors.As(err, &ute) {
					t.Fatalf("Classify() error = %v, want UnknownTypeError", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("Classify() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Classify() returned %d entries, want %d", len(got), len(tt.want))
			}
			for col, class := range tt.want {
				if got[col] != class {
					t.Errorf("Classify()[%s] = %v, want %v", col, got[col], class)
				}
			}
		})
	}
}

func TestLookup(t *testing.T) {
	src := fakeMetadata{"color_name": "character varying", "an_int": "integer"}

	got, err := Lookup(context.Background(), src, "public", "color", []string{"color_name", "an_int"})
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if got["color_name"] != Quoted || got["an_int"] != Unquoted {
		t.Errorf("Lookup() = %v, want color_name quoted and an_int unquoted", got)
	}

	if _, err := Lookup(context.Background(), src, "public", "color", []string{"missing"}); err == nil {
		t.Error("Lookup() with a non-existent column did not fail")
	}
}

func TestMissingColumnErrorMessage(t *testing.T) {
	err := &MissingColumnError{Column: "ghost", Table: "color"}
	want := "the column ghost was not found in the color table"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
