/*
	Copyright 2023 Google Inc.
	Licensed under the Apache License, Version 2.0 (the "License");
	you may not use this file except in compliance with the License.
	You may obtain a copy of the License at
		https://www.apache.org/licenses/LICENSE-2.0
	Unless required by applicable law or agreed to in writing, software
	distributed under the License is distributed on an "AS IS" BASIS,
	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
	See the License for the specific language governing permissions and
	limitations under the License.
*/

package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ilhamster/barviz/util"
)

const legendDataset = `
categories:
  - name: Region
    roles: [Axis]
    values: [North, South, ~]
measures:
  - name: Sales
    queryName: Sum(Sales)
    roles: [Value]
    group: Retail
    values: [10, -5, 2.5]
    highlights: [4, ~, 1]
    identities: [n-retail, s-retail, b-retail]
  - name: Sales
    queryName: Sum(Sales)
    roles: [Value]
    group: Online
    values: [3, 7, ~]
  - name: Margin
    roles: [tooltips]
    group: Retail
    values: [0.1, 0.2, 0.3]
grouping:
  name: Channel
  roles: [Legend]
`

func TestDecode(t *testing.T) {
	tbl, err := Decode(strings.NewReader(legendDataset))
	if err != nil {
		t.Fatalf("Decode() yielded unexpected error %s", err)
	}
	if got, want := tbl.RowCount(), 3; got != want {
		t.Errorf("RowCount() = %d, want %d", got, want)
	}
	if !tbl.HasRole(Legend) || !tbl.HasRole(Tooltips) || tbl.HasRole(Gradient) {
		t.Errorf("HasRole() yielded unexpected results")
	}
	if got, want := tbl.ValueColumnCount(), 1; got != want {
		t.Errorf("ValueColumnCount() = %d, want %d", got, want)
	}
	wantLegend := []util.V{util.StringValue("Retail"), util.StringValue("Online")}
	if diff := cmp.Diff(wantLegend, tbl.LegendValues()); diff != "" {
		t.Errorf("Got legend values %v, diff (-want +got):\n%s", tbl.LegendValues(), diff)
	}
	sales := tbl.MeasureColumns(Value)[0]
	if diff := cmp.Diff(util.DoubleValue(2.5), sales.Value(2)); diff != "" {
		t.Errorf("Got value diff (-want +got):\n%s", diff)
	}
	if !sales.Highlight(1).IsNull() {
		t.Errorf("expected null highlight, got %v", sales.Highlight(1))
	}
	if got, want := sales.Identity(1), Identity("s-retail"); got != want {
		t.Errorf("Identity(1) = %q, want %q", got, want)
	}
	if got := tbl.MeasureColumns(Value)[1].Identity(0); got != "" {
		t.Errorf("missing identities should be empty, got %q", got)
	}
	if tbl.CategoryIsScalar() {
		t.Errorf("text categories should not be scalar")
	}
}

func TestDecodeErrors(t *testing.T) {
	for _, test := range []struct {
		description string
		in          string
		wantErrSub  string
	}{{
		description: "unknown role",
		in: `
categories:
  - name: a
    roles: [Bogus]
    values: [1]
measures: []`,
		wantErrSub: "unknown role",
	}, {
		description: "ragged categories",
		in: `
categories:
  - name: a
    roles: [Axis]
    values: [1, 2]
  - name: b
    roles: [ColumnBy]
    values: [1]
measures: []`,
		wantErrSub: "has 1 values, expected 2",
	}, {
		description: "highlights mismatch",
		in: `
categories:
  - name: a
    roles: [Axis]
    values: [1, 2]
measures:
  - name: v
    roles: [Value]
    values: [1, 2]
    highlights: [1]`,
		wantErrSub: "highlights",
	}, {
		description: "unknown field",
		in: `
categories: []
measures: []
extra: 1`,
		wantErrSub: "extra",
	}} {
		t.Run(test.description, func(t *testing.T) {
			_, err := Decode(strings.NewReader(test.in))
			if err == nil || !strings.Contains(err.Error(), test.wantErrSub) {
				t.Errorf("Decode() = %v, want error containing %q", err, test.wantErrSub)
			}
		})
	}
}

func TestCategoryIsScalar(t *testing.T) {
	for _, test := range []struct {
		description string
		col         *Column
		want        bool
	}{{
		description: "numbers with blanks",
		col:         &Column{Values: []util.V{util.IntegerValue(1), util.Null, util.DoubleValue(2.5)}},
		want:        true,
	}, {
		description: "mixed",
		col:         &Column{Values: []util.V{util.IntegerValue(1), util.StringValue("x")}},
		want:        false,
	}, {
		description: "declared text",
		col:         &Column{Type: Text, Values: []util.V{util.IntegerValue(1)}},
		want:        false,
	}, {
		description: "declared date",
		col:         &Column{Type: Date, Values: []util.V{util.StringValue("2021")}},
		want:        true,
	}, {
		description: "all blank",
		col:         &Column{Values: []util.V{util.Null}},
		want:        false,
	}} {
		t.Run(test.description, func(t *testing.T) {
			test.col.Roles = []Role{Axis}
			tbl := &Table{Categories: []*Column{test.col}}
			if got := tbl.CategoryIsScalar(); got != test.want {
				t.Errorf("CategoryIsScalar() = %t, want %t", got, test.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	if err := os.WriteFile(path, []byte(`{"categories": [{"name": "c", "roles": ["Axis"], "values": []}], "measures": []}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrNoRows) {
		t.Errorf("Load() = %v, want ErrNoRows", err)
	}
	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Errorf("Load() of a missing file should fail")
	}
}
