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

// Package smallmultiple splits a bar chart into a grid of facets, one per
// distinct pair of ColumnBy and RowBy values, and lays the grid out.
//
// In Flow layout, facets fill rows of at most maxRowWidth facets in
// first-seen order.  In Matrix layout, each distinct ColumnBy value has its
// own column and each distinct RowBy value its own row.  Units are at least
// minUnitWidth by minUnitHeight, separated by GapPx.
package smallmultiple

import (
	"math"
	"strings"

	"github.com/ilhamster/barviz/config"
	continuousaxis "github.com/ilhamster/barviz/continuous_axis"
	"github.com/ilhamster/barviz/points"
	"github.com/ilhamster/barviz/util"
)

// GapPx separates adjacent facets.
const GapPx = 10

const (
	facetTitleKey    = "facet_title"
	facetColumnKey   = "facet_column"
	facetRowKey      = "facet_row"
	facetXPxKey      = "facet_x_px"
	facetYPxKey      = "facet_y_px"
	facetWidthPxKey  = "facet_width_px"
	facetHeightPxKey = "facet_height_px"
)

// Facet is a single chart within the grid.
type Facet struct {
	ColumnBy, RowBy util.V
	// Column and Row locate the facet within the grid.
	Column, Row int
	Points      []*points.DataPoint
	// Bounds is the facet's unit within the grid.
	Bounds points.Rect
}

// Title returns the title of the receiver: its non-null ColumnBy and RowBy
// values.
func (f *Facet) Title() string {
	var parts []string
	for _, v := range []util.V{f.ColumnBy, f.RowBy} {
		if !v.IsNull() {
			parts = append(parts, points.Normalize(v).String())
		}
	}
	return strings.Join(parts, ", ")
}

// Define annotates with the receiver's title and bounds.
func (f *Facet) Define(showTitle bool) util.PropertyUpdate {
	return util.Chain(
		util.If(showTitle, util.StringProperty(facetTitleKey, f.Title())),
		util.IntegerProperty(facetColumnKey, int64(f.Column)),
		util.IntegerProperty(facetRowKey, int64(f.Row)),
		util.DoubleProperty(facetXPxKey, f.Bounds.X),
		util.DoubleProperty(facetYPxKey, f.Bounds.Y),
		util.DoubleProperty(facetWidthPxKey, f.Bounds.Width),
		util.DoubleProperty(facetHeightPxKey, f.Bounds.Height),
	)
}

// Enabled returns true if any of pts carries a ColumnBy or RowBy value.
func Enabled(pts []*points.DataPoint) bool {
	for _, p := range pts {
		if !p.ColumnBy.IsNull() || !p.RowBy.IsNull() {
			return true
		}
	}
	return false
}

// Split returns a facet per distinct (ColumnBy, RowBy) pair of pts, in
// first-seen order.  Each facet holds its points in their original order.
func Split(pts []*points.DataPoint) []*Facet {
	var ret []*Facet
	byKey := map[[2]string]*Facet{}
	for _, p := range pts {
		key := [2]string{p.ColumnBy.Key(), p.RowBy.Key()}
		f, ok := byKey[key]
		if !ok {
			f = &Facet{ColumnBy: p.ColumnBy, RowBy: p.RowBy}
			byKey[key] = f
			ret = append(ret, f)
		}
		f.Points = append(f.Points, p)
	}
	return ret
}

// Grid is the arrangement of facets.
type Grid struct {
	Facets                []*Facet
	Columns, Rows         int
	UnitWidth, UnitHeight float64
	// Width and Height span the whole grid, which may exceed the space it
	// was arranged in.
	Width, Height float64
}

func indexer() func(util.V) int {
	idxs := map[string]int{}
	return func(v util.V) int {
		key := v.Key()
		idx, ok := idxs[key]
		if !ok {
			idx = len(idxs)
			idxs[key] = idx
		}
		return idx
	}
}

// Arrange lays facets out in a grid within the provided space.
func Arrange(facets []*Facet, s config.SmallMultiple, width, height float64) *Grid {
	ret := &Grid{Facets: facets}
	if len(facets) == 0 {
		return ret
	}
	if s.LayoutMode == config.Matrix {
		col, row := indexer(), indexer()
		for _, f := range facets {
			f.Column, f.Row = col(f.ColumnBy), row(f.RowBy)
			ret.Columns = max(ret.Columns, f.Column+1)
			ret.Rows = max(ret.Rows, f.Row+1)
		}
	} else {
		perRow := max(1, min(s.MaxRowWidth, len(facets)))
		for idx, f := range facets {
			f.Column, f.Row = idx%perRow, idx/perRow
		}
		ret.Columns = perRow
		ret.Rows = (len(facets) + perRow - 1) / perRow
	}
	cols, rows := float64(ret.Columns), float64(ret.Rows)
	ret.UnitWidth = math.Max(s.MinUnitWidth, (width-GapPx*(cols-1))/cols)
	ret.UnitHeight = math.Max(s.MinUnitHeight, (height-GapPx*(rows-1))/rows)
	for _, f := range facets {
		f.Bounds = points.Rect{
			X:      float64(f.Column) * (ret.UnitWidth + GapPx),
			Y:      float64(f.Row) * (ret.UnitHeight + GapPx),
			Width:  ret.UnitWidth,
			Height: ret.UnitHeight,
		}
	}
	ret.Width = cols*ret.UnitWidth + GapPx*(cols-1)
	ret.Height = rows*ret.UnitHeight + GapPx*(rows-1)
	return ret
}

// ValueDomain returns the value axis domain of facet f among all points:
// shared by all facets unless the value axis range type is Separate.
func ValueDomain(f *Facet, all []*points.DataPoint, s config.Settings, valueStacked bool) continuousaxis.Range {
	if s.ValueAxis.RangeType == config.Separate {
		return continuousaxis.ValueDomain(f.Points, s, true, valueStacked)
	}
	return continuousaxis.ValueDomain(all, s, true, valueStacked)
}

// CategoryPoints returns the points whose categories span the category axis
// of facet f: its own if the category axis range type is Separate, or else
// all points.
func CategoryPoints(f *Facet, all []*points.DataPoint, s config.Settings) []*points.DataPoint {
	if s.CategoryAxis.RangeType == config.Separate {
		return f.Points
	}
	return all
}
