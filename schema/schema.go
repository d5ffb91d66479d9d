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

// Package schema classifies a dataset's role bindings into one of the four
// bar chart layouts.
package schema

import (
	"github.com/ilhamster/barviz/dataset"
)

// Kind is a binding configuration.
type Kind int

const (
	// Default is a single Value column without a legend: one bar per
	// category.
	Default Kind = iota
	// SameAxisAndLegend has the grouping column carrying both the Axis and
	// Legend roles: one bar per legend entry.
	SameAxisAndLegend
	// LegendFilled has a Legend column distinct from the Axis: one stacked
	// series per legend value.
	LegendFilled
	// MultipleValues has two or more Value columns and no legend: one bar per
	// value column per category.
	MultipleValues
)

func (k Kind) String() string {
	switch k {
	case SameAxisAndLegend:
		return "same_axis_and_legend"
	case LegendFilled:
		return "legend"
	case MultipleValues:
		return "multiple_values"
	default:
		return "default"
	}
}

// Classify returns the Kind of the provided table.  The first matching rule
// wins.  Classify assumes the table is Renderable.
func Classify(t *dataset.Table) Kind {
	switch {
	case t.Grouping.HasRole(dataset.Axis) && t.Grouping.HasRole(dataset.Legend):
		return SameAxisAndLegend
	case t.Grouping.HasRole(dataset.Legend):
		return LegendFilled
	case t.ValueColumnCount() >= 2:
		return MultipleValues
	}
	return Default
}

// Renderable returns true if the provided table binds both the Axis and
// Value roles.  Callers should clear the display instead of rendering a
// table that is not renderable.
func Renderable(t *dataset.Table) bool {
	return t != nil && t.HasRole(dataset.Axis) && t.HasRole(dataset.Value)
}

// LegendNeeded returns true if the provided Kind produces legend data.
func LegendNeeded(k Kind) bool {
	return k == LegendFilled || k == MultipleValues
}
