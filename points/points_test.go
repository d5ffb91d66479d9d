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

package points

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/ilhamster/barviz/dataset"
	"github.com/ilhamster/barviz/schema"
	"github.com/ilhamster/barviz/util"
)

func strs(ss ...string) []util.V {
	ret := make([]util.V, len(ss))
	for idx, s := range ss {
		ret[idx] = util.StringValue(s)
	}
	return ret
}

func nums(fs ...float64) []util.V {
	ret := make([]util.V, len(fs))
	for idx, f := range fs {
		ret[idx] = util.DoubleValue(f)
	}
	return ret
}

func column(name string, role dataset.Role, values []util.V) *dataset.Column {
	return &dataset.Column{
		Name:   name,
		Roles:  []dataset.Role{role},
		Values: values,
	}
}

func grouped(name, group string, role dataset.Role, values []util.V) *dataset.Column {
	ret := column(name, role, values)
	ret.Group = util.StringValue(group)
	return ret
}

var approx = cmpopts.EquateApprox(0, 1e-9)

func shifts(pts []*DataPoint) []float64 {
	ret := make([]float64, len(pts))
	for idx, p := range pts {
		ret[idx] = p.ShiftValue
	}
	return ret
}

func TestSingleValueColumn(t *testing.T) {
	table := &dataset.Table{
		Categories: []*dataset.Column{
			column("Region", dataset.Axis, strs("North", "South", "East", "West", "Central")),
		},
		Measures: []*dataset.Column{
			column("Sales", dataset.Value, nums(10, 20, 30, 40, 50)),
		},
	}
	kind := schema.Classify(table)
	if kind != schema.Default {
		t.Fatalf("Classify() = %s, want %s", kind, schema.Default)
	}
	pts := Build(kind, table, Options{DefaultFill: "#01b8aa"})
	if len(pts) != 5 {
		t.Fatalf("Build() returned %d points, want 5", len(pts))
	}
	for _, p := range pts {
		if !p.Series.IsNull() {
			t.Errorf("point %s has series %s, want none", p.Category, p.Series)
		}
		if p.ShiftValue != 0 && p.ShiftValue != 1 {
			t.Errorf("point %s has shift %v", p.Category, p.ShiftValue)
		}
		if p.PercentOfCategory != 1 {
			t.Errorf("point %s has percent %v, want 1", p.Category, p.PercentOfCategory)
		}
		if p.Color != "#01b8aa" {
			t.Errorf("point %s has color %s", p.Category, p.Color)
		}
	}
}

type fixedColors map[string]string

func (fc fixedColors) Color(key, fallback string) string {
	if c, ok := fc[key]; ok {
		return c
	}
	return fallback
}

func TestDefaultPoints(t *testing.T) {
	sales := column("Sales", dataset.Value, []util.V{util.DoubleValue(1200), util.DoubleValue(-300), util.Null, util.DoubleValue(5)})
	sales.Format = "#,0"
	sales.Highlights = []util.V{util.DoubleValue(600), util.Null, util.Null, util.Null}
	region := column("Region", dataset.Axis, []util.V{util.StringValue("North"), util.IntegerValue(0), util.StringValue("East"), util.Null})
	region.Identities = []dataset.Identity{"r0", "r1", "r2", "r3"}
	table := &dataset.Table{
		Categories: []*dataset.Column{
			region,
			column("Country", dataset.ColumnBy, strs("US", "US", "CA", "CA")),
		},
		Measures: []*dataset.Column{
			sales,
			column("Margin", dataset.Tooltips, nums(.25, .5, .75, 1)),
			column("Growth", dataset.Gradient, nums(3, 0, 1, 2)),
		},
	}
	got := Build(schema.Default, table, Options{
		DefaultFill: "#01b8aa",
		Colors:      fixedColors{"North": "#ff0000"},
	})
	baseTooltips := []Tooltip{
		{"Region", "North"},
		{"Sales", "1,200 (100.00%)"},
		{"Margin", "0.25"},
	}
	want := []*DataPoint{{
		Category:          util.StringValue("North"),
		Value:             1200,
		PercentOfCategory: 1,
		ShiftValue:        0,
		ColorSaturation:   util.DoubleValue(3),
		Color:             "#ff0000",
		Identity:          "r0",
		FillOpacity:       1,
		Tooltips:          baseTooltips,
		ColumnBy:          util.StringValue("US"),
	}, {
		Category:          util.StringValue("North"),
		Value:             600,
		PercentOfCategory: .5,
		ShiftValue:        0,
		Color:             "#ff0000",
		Identity:          "r0",
		Highlight:         true,
		FillOpacity:       1,
		Tooltips:          append(append([]Tooltip{}, baseTooltips...), Tooltip{"Highlighted", "600 (100.00%)"}),
		ColumnBy:          util.StringValue("US"),
	}, {
		Category:          util.IntegerValue(0),
		Value:             -300,
		PercentOfCategory: 1,
		ShiftValue:        -1,
		Color:             "#01b8aa",
		Identity:          "r1",
		FillOpacity:       1,
		Tooltips: []Tooltip{
			{"Region", "0"},
			{"Sales", "-300 (100.00%)"},
			{"Margin", "0.5"},
		},
		ColumnBy: util.StringValue("US"),
	}, {
		Category:          Blank,
		Value:             5,
		PercentOfCategory: 1,
		ColorSaturation:   util.DoubleValue(2),
		Color:             "#01b8aa",
		Identity:          "r3",
		FillOpacity:       1,
		Tooltips: []Tooltip{
			{"Region", ""},
			{"Sales", "5 (100.00%)"},
			{"Margin", "1"},
		},
		ColumnBy: util.StringValue("CA"),
	}}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("Build() = %v, diff (-want +got):\n%s", got, diff)
	}
}

func TestMultipleValues(t *testing.T) {
	table := &dataset.Table{
		Categories: []*dataset.Column{
			column("Region", dataset.Axis, strs("North", "South", "East")),
		},
		Measures: []*dataset.Column{
			column("Sales", dataset.Value, nums(100, 200, 300)),
			column("Profit", dataset.Value, nums(-25, 50, 75)),
		},
	}
	kind := schema.Classify(table)
	if kind != schema.MultipleValues {
		t.Fatalf("Classify() = %s, want %s", kind, schema.MultipleValues)
	}
	for _, test := range []struct {
		description string
		stacking    StackingMode
		wantShifts  []float64
	}{{
		description: "index stacking by default",
		wantShifts:  []float64{0, 1, 0, 1, 0, 1},
	}, {
		description: "percent stacking",
		stacking:    PercentStacking,
		wantShifts:  []float64{0, -.2, 0, 0.8, 0, 0.8},
	}, {
		description: "value stacking",
		stacking:    ValueStacking,
		wantShifts:  []float64{0, -25, 0, 200, 0, 300},
	}} {
		t.Run(test.description, func(t *testing.T) {
			pts := Build(kind, table, Options{
				Stacking:     test.stacking,
				LegendColors: []string{"#111111", "#222222"},
			})
			if len(pts) != 6 {
				t.Fatalf("Build() returned %d points, want 6", len(pts))
			}
			if diff := cmp.Diff(test.wantShifts, shifts(pts), approx); diff != "" {
				t.Errorf("Got shifts %v, diff (-want +got):\n%s", shifts(pts), diff)
			}
			for idx, p := range pts {
				wantColor := []string{"#111111", "#222222"}[idx%2]
				if p.Color != wantColor {
					t.Errorf("point %d has color %s, want %s", idx, p.Color, wantColor)
				}
				if !p.Series.IsNull() {
					t.Errorf("point %d has series %s, want none", idx, p.Series)
				}
			}
			if got, want := pts[1].PercentOfCategory, -.2; got != want {
				t.Errorf("Profit percent of North = %v, want %v", got, want)
			}
		})
	}
}

func legendTable() *dataset.Table {
	return &dataset.Table{
		Categories: []*dataset.Column{
			column("Quarter", dataset.Axis, strs("Q1", "Q2", "Q3", "Q4")),
		},
		Measures: []*dataset.Column{
			grouped("Sales", "Retail", dataset.Value, nums(10, 20, 30, 40)),
			grouped("Sales", "Online", dataset.Value, nums(10, 20, -10, 40)),
			grouped("Sales", "Wholesale", dataset.Value, nums(20, 20, 60, 20)),
			grouped("Returns", "Online", dataset.Tooltips, nums(1, 2, 3, 4)),
		},
		Grouping: column("Channel", dataset.Legend, nil),
	}
}

func TestLegendPoints(t *testing.T) {
	table := legendTable()
	kind := schema.Classify(table)
	if kind != schema.LegendFilled {
		t.Fatalf("Classify() = %s, want %s", kind, schema.LegendFilled)
	}
	pts := Build(kind, table, Options{LegendColors: []string{"red", "green", "blue"}})
	if len(pts) != 12 {
		t.Fatalf("Build() returned %d points, want 12", len(pts))
	}
	// Q3: Retail 30, Online -10, Wholesale 60, summing to 100 in absolute
	// value.
	q3 := pts[6:9]
	if diff := cmp.Diff([]float64{.3, -.1, .6}, []float64{q3[0].PercentOfCategory, q3[1].PercentOfCategory, q3[2].PercentOfCategory}, approx); diff != "" {
		t.Errorf("Got unexpected Q3 percents, diff (-want +got):\n%s", diff)
	}
	// The negative Online segment stacks on the negative sum, not on the
	// positive running sum left by Retail.
	if diff := cmp.Diff([]float64{0, -.1, .3}, shifts(q3), approx); diff != "" {
		t.Errorf("Got Q3 shifts %v, diff (-want +got):\n%s", shifts(q3), diff)
	}
	online := q3[1]
	if got, want := online.Series, util.StringValue("Online"); !got.Equal(want) {
		t.Errorf("Q3 second series = %s, want %s", got, want)
	}
	if online.Color != "green" || online.SeriesIndex != 1 {
		t.Errorf("Q3 Online has color %s and index %d", online.Color, online.SeriesIndex)
	}
	wantTooltips := []Tooltip{
		{"Quarter", "Q3"},
		{"Channel", "Online"},
		{"Sales", "-10 (-10.00%)"},
		{"Returns", "3"},
	}
	if diff := cmp.Diff(wantTooltips, online.Tooltips); diff != "" {
		t.Errorf("Got tooltips %v, diff (-want +got):\n%s", online.Tooltips, diff)
	}
	if len(q3[0].Tooltips) != 3 {
		t.Errorf("Retail tooltips should not include other groups' extras: %v", q3[0].Tooltips)
	}
}

func TestStackingIsLossless(t *testing.T) {
	table := legendTable()
	pts := Build(schema.LegendFilled, table, Options{Stacking: ValueStacking})
	type extent struct{ top, bottom, positive, negative float64 }
	extents := map[string]*extent{}
	for _, p := range pts {
		e, ok := extents[p.Category.Key()]
		if !ok {
			e = &extent{}
			extents[p.Category.Key()] = e
		}
		if p.Value >= 0 {
			e.positive += p.Value
			if end := p.ShiftValue + p.Value; end > e.top {
				e.top = end
			}
		} else {
			e.negative += p.Value
			if p.ShiftValue < e.bottom {
				e.bottom = p.ShiftValue
			}
		}
	}
	for key, e := range extents {
		if e.top != e.positive || e.bottom != e.negative {
			t.Errorf("category %s stacks to [%v, %v], want [%v, %v]", key, e.bottom, e.top, e.negative, e.positive)
		}
	}
}

func TestHighlightTwins(t *testing.T) {
	table := legendTable()
	table.Measures[1].Highlights = nums(5, 10, -5, 20)
	table.Measures[1].Identities = []dataset.Identity{"o1", "o2", "o3", "o4"}
	pts := Build(schema.LegendFilled, table, Options{})
	if len(pts) != 16 {
		t.Fatalf("Build() returned %d points, want 16", len(pts))
	}
	if !HasHighlight(pts) {
		t.Errorf("HasHighlight() = false, want true")
	}
	for idx, p := range pts {
		if !p.Highlight {
			continue
		}
		base := pts[idx-1]
		if base.Highlight || base.Identity != p.Identity || !base.Category.Equal(p.Category) || !base.Series.Equal(p.Series) {
			t.Errorf("twin %d does not follow its base point", idx)
		}
		if got, want := len(p.Tooltips), len(base.Tooltips)+1; got != want {
			t.Errorf("twin %d has %d tooltips, want %d", idx, got, want)
		}
		if p.Tooltips[len(p.Tooltips)-1].Label != HighlightedLabel {
			t.Errorf("twin %d lacks a highlighted tooltip", idx)
		}
	}
	// Q3's Online twin is -5 of a 100 category total.  Like its base, it
	// stacks on the negative sum plus its own percent.
	q3Twin := pts[10]
	if !q3Twin.Highlight {
		t.Fatalf("expected point 10 to be a twin")
	}
	if diff := cmp.Diff([]float64{-5, -.05, -.05}, []float64{q3Twin.Value, q3Twin.PercentOfCategory, q3Twin.ShiftValue}, approx); diff != "" {
		t.Errorf("Got unexpected twin, diff (-want +got):\n%s", diff)
	}
}

func TestSameAxisAndLegend(t *testing.T) {
	retail := grouped("Sales", "Retail", dataset.Value, nums(40))
	retail.Highlights = nums(10)
	table := &dataset.Table{
		Measures: []*dataset.Column{
			retail,
			grouped("Sales", "", dataset.Value, nums(-15)),
			grouped("Sales", "Online", dataset.Value, []util.V{util.Null}),
		},
		Grouping: column("Channel", dataset.Axis, nil),
	}
	table.Grouping.Roles = []dataset.Role{dataset.Axis, dataset.Legend}
	kind := schema.Classify(table)
	if kind != schema.SameAxisAndLegend {
		t.Fatalf("Classify() = %s, want %s", kind, schema.SameAxisAndLegend)
	}
	pts := Build(kind, table, Options{LegendColors: []string{"red", "green", "blue"}})
	if len(pts) != 3 {
		t.Fatalf("Build() returned %d points, want 3", len(pts))
	}
	want := []struct {
		category  util.V
		value     float64
		shift     float64
		color     string
		highlight bool
	}{
		{util.StringValue("Retail"), 40, 0, "red", false},
		{util.StringValue("Retail"), 10, 0, "red", true},
		{Blank, -15, -1, "green", false},
	}
	for idx, w := range want {
		p := pts[idx]
		if !p.Category.Equal(w.category) || p.Value != w.value || p.ShiftValue != w.shift || p.Color != w.color || p.Highlight != w.highlight {
			t.Errorf("point %d = {%s %v %v %s %t}, want %v", idx, p.Category, p.Value, p.ShiftValue, p.Color, p.Highlight, w)
		}
		if p.PercentOfCategory != 1 {
			t.Errorf("point %d has percent %v, want 1", idx, p.PercentOfCategory)
		}
	}
}

func TestBlankNormalization(t *testing.T) {
	for _, test := range []struct {
		description string
		v           util.V
		want        util.V
	}{{
		description: "integer zero survives",
		v:           util.IntegerValue(0),
		want:        util.IntegerValue(0),
	}, {
		description: "double zero survives",
		v:           util.DoubleValue(0),
		want:        util.DoubleValue(0),
	}, {
		description: "null is blank",
		v:           util.Null,
		want:        Blank,
	}, {
		description: "empty string is blank",
		v:           util.StringValue(""),
		want:        Blank,
	}, {
		description: "false survives",
		v:           util.BoolValue(false),
		want:        util.BoolValue(false),
	}} {
		t.Run(test.description, func(t *testing.T) {
			if got := Normalize(test.v); !got.Equal(test.want) {
				t.Errorf("Normalize(%v) = %v, want %v", test.v, got, test.want)
			}
		})
	}
}

func TestCategories(t *testing.T) {
	pts := Build(schema.LegendFilled, legendTable(), Options{})
	got := Categories(pts)
	want := strs("Q1", "Q2", "Q3", "Q4")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Categories() = %v, diff (-want +got):\n%s", got, diff)
	}
}

func TestParseStackingMode(t *testing.T) {
	for _, sm := range []StackingMode{DefaultStacking, IndexStacking, PercentStacking, ValueStacking} {
		got, ok := ParseStackingMode(sm.String())
		if !ok || got != sm {
			t.Errorf("ParseStackingMode(%s) = %v, %t", sm, got, ok)
		}
	}
	if _, ok := ParseStackingMode("sideways"); ok {
		t.Errorf("ParseStackingMode(sideways) should fail")
	}
}

func TestAlongValueAxis(t *testing.T) {
	for _, test := range []struct {
		kind schema.Kind
		sm   StackingMode
		want bool
	}{
		{schema.LegendFilled, ValueStacking, true},
		{schema.MultipleValues, ValueStacking, true},
		{schema.LegendFilled, DefaultStacking, false},
		{schema.LegendFilled, PercentStacking, false},
		{schema.MultipleValues, IndexStacking, false},
		{schema.Default, ValueStacking, false},
		{schema.SameAxisAndLegend, ValueStacking, false},
	} {
		if got := test.sm.AlongValueAxis(test.kind); got != test.want {
			t.Errorf("%s.AlongValueAxis(%s) = %t, want %t", test.sm, test.kind, got, test.want)
		}
	}
}
