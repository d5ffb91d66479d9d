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

package schema

import (
	"testing"

	"github.com/ilhamster/barviz/dataset"
	"github.com/ilhamster/barviz/util"
)

func col(name string, roles ...dataset.Role) *dataset.Column {
	return &dataset.Column{
		Name:   name,
		Roles:  roles,
		Values: []util.V{util.IntegerValue(1)},
	}
}

func TestClassify(t *testing.T) {
	for _, test := range []struct {
		description    string
		table          *dataset.Table
		wantKind       Kind
		wantRenderable bool
		wantLegend     bool
	}{{
		description: "single value",
		table: &dataset.Table{
			Categories: []*dataset.Column{col("c", dataset.Axis)},
			Measures:   []*dataset.Column{col("v", dataset.Value), col("t", dataset.Tooltips)},
		},
		wantKind:       Default,
		wantRenderable: true,
	}, {
		description: "two values",
		table: &dataset.Table{
			Categories: []*dataset.Column{col("c", dataset.Axis)},
			Measures:   []*dataset.Column{col("Sales", dataset.Value), col("Profit", dataset.Value)},
		},
		wantKind:       MultipleValues,
		wantRenderable: true,
		wantLegend:     true,
	}, {
		description: "legend wins over multiple values",
		table: &dataset.Table{
			Categories: []*dataset.Column{col("c", dataset.Axis)},
			Measures:   []*dataset.Column{col("Sales", dataset.Value), col("Profit", dataset.Value)},
			Grouping:   col("g", dataset.Legend),
		},
		wantKind:       LegendFilled,
		wantRenderable: true,
		wantLegend:     true,
	}, {
		description: "axis and legend on the grouping column",
		table: &dataset.Table{
			Measures: []*dataset.Column{col("v", dataset.Value)},
			Grouping: col("g", dataset.Axis, dataset.Legend),
		},
		wantKind:       SameAxisAndLegend,
		wantRenderable: true,
	}, {
		description: "no axis",
		table: &dataset.Table{
			Measures: []*dataset.Column{col("v", dataset.Value)},
		},
		wantKind:       Default,
		wantRenderable: false,
	}, {
		description: "no value",
		table: &dataset.Table{
			Categories: []*dataset.Column{col("c", dataset.Axis)},
			Measures:   []*dataset.Column{col("t", dataset.Tooltips)},
		},
		wantKind:       Default,
		wantRenderable: false,
	}} {
		t.Run(test.description, func(t *testing.T) {
			if got := Renderable(test.table); got != test.wantRenderable {
				t.Errorf("Renderable() = %t, want %t", got, test.wantRenderable)
			}
			got := Classify(test.table)
			if got != test.wantKind {
				t.Errorf("Classify() = %s, want %s", got, test.wantKind)
			}
			if LegendNeeded(got) != test.wantLegend {
				t.Errorf("LegendNeeded(%s) = %t, want %t", got, LegendNeeded(got), test.wantLegend)
			}
		})
	}
}
