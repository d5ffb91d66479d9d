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

// Package continuousaxis computes the domain of the value axis and defines
// value axes in exported chart data.  An axis has a category, a scale type,
// minimum and maximum points along its domain, and formatted ticks.
package continuousaxis

import (
	"math"

	"github.com/ilhamster/barviz/category"
	"github.com/ilhamster/barviz/config"
	"github.com/ilhamster/barviz/format"
	"github.com/ilhamster/barviz/magnitude"
	"github.com/ilhamster/barviz/points"
	"github.com/ilhamster/barviz/scale"
	"github.com/ilhamster/barviz/util"
)

const (
	axisTypeKey  = "axis_type"
	axisScaleKey = "axis_scale"
	axisMinKey   = "axis_min"
	axisMaxKey   = "axis_max"
	axisTitleKey = "axis_title"

	tickValueKey = "tick_value"
	tickLabelKey = "tick_label"
	tickPxKey    = "tick_px"

	doubleAxisType = "double"

	xAxisRenderLabelHeightPxKey   = "x_axis_render_label_height_px"
	xAxisRenderMarkersHeightPxKey = "x_axis_render_markers_height_px"
)

// NoUnit is the unit title of axes with no display unit.
const NoUnit = "No unit"

// XAxisRenderSettings configures the rendering of the value axis.
type XAxisRenderSettings struct {
	LabelHeightPx   int64
	MarkersHeightPx int64
}

// Apply annotates with the receiving XAxisRenderSettings.
func (x XAxisRenderSettings) Apply() util.PropertyUpdate {
	return util.Chain(
		util.IntegerProperty(xAxisRenderLabelHeightPxKey, x.LabelHeightPx),
		util.IntegerProperty(xAxisRenderMarkersHeightPxKey, x.MarkersHeightPx),
	)
}

// Range is a closed interval along a continuous axis.
type Range struct {
	Min, Max float64
}

// Contains returns true if v lies within the receiver.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Clamp returns v clamped into the receiver.
func (r Range) Clamp(v float64) float64 {
	return math.Max(r.Min, math.Min(r.Max, v))
}

// Overrides returns the start and end overrides in effect for an axis with
// the provided range type.  Small-multiple facets honor them only with a
// Custom range type.
func Overrides(start, end *float64, rangeType config.RangeType, smallMultiple bool) (*float64, *float64) {
	if smallMultiple && rangeType != config.Custom {
		return nil, nil
	}
	return start, end
}

// ValueDomain returns the domain of the value axis over all points.  The
// domain always includes 0, and is widened to include a shown constant line.
// If valueStacked, it spans the shifted extents of the points' bars, so that
// whole stacks fit; otherwise shifts lie along the category axis and the
// domain spans raw values.  Start and end overrides replace the computed
// bounds.  Log scales replace a zero lower bound with scale.LogEpsilon.
func ValueDomain(all []*points.DataPoint, s config.Settings, smallMultiple, valueStacked bool) Range {
	ret := Range{}
	for _, p := range all {
		lower, upper := p.Value, p.Value
		if valueStacked {
			lower, upper = p.ShiftValue, p.ShiftValue+math.Abs(p.Value)
		}
		ret.Min = math.Min(ret.Min, lower)
		ret.Max = math.Max(ret.Max, upper)
	}
	if s.ConstantLine.Show {
		ret.Min = math.Min(ret.Min, s.ConstantLine.Value)
		ret.Max = math.Max(ret.Max, s.ConstantLine.Value)
	}
	start, end := Overrides(s.ValueAxis.Start, s.ValueAxis.End, s.ValueAxis.RangeType, smallMultiple)
	if start != nil {
		ret.Min = *start
	}
	if end != nil {
		ret.Max = *end
	}
	if s.ValueAxis.AxisScale == config.Log && ret.Min == 0 {
		ret.Min = scale.LogEpsilon
	}
	return ret
}

// NewScale returns the scale of the provided type mapping domain onto
// [0, width].  Linear scales are extended to nice bounds unless nice is
// false.
func NewScale(st config.ScaleType, domain Range, width float64, nice bool) scale.Continuous {
	if st == config.Log {
		return scale.NewLog(domain.Min, domain.Max, 0, width)
	}
	ret := scale.NewLinear(domain.Min, domain.Max, 0, width)
	if nice {
		return ret.Nice()
	}
	return ret
}

// UnitTitle returns the title of the provided display unit, or NoUnit.
func UnitTitle(u magnitude.Unit) string {
	if u.IsScaled() {
		return u.Title
	}
	return NoUnit
}

// Title returns the title of an axis, or the empty string if titles are not
// shown.
func Title(show bool, ts config.TitleStyle, title string, u magnitude.Unit) string {
	if !show {
		return ""
	}
	switch ts {
	case config.ShowUnitOnly:
		return UnitTitle(u)
	case config.ShowBoth:
		return title + " (" + UnitTitle(u) + ")"
	}
	return title
}

// Tick is a single formatted axis tick.
type Tick struct {
	Value float64
	Label string
	Px    float64
}

// Axis is a value axis: its domain, scale, ticks and title.
type Axis struct {
	cat    *category.Category
	Domain Range
	Scale  scale.Continuous
	Type   config.ScaleType
	Ticks  []Tick
	Title  string
	Unit   magnitude.Unit
}

// New returns a new value Axis over the provided scale, with ticks formatted
// by f.
func New(cat *category.Category, st config.ScaleType, sc scale.Continuous, f *format.Formatter, title string) *Axis {
	min, max := sc.Domain()
	ret := &Axis{
		cat:    cat,
		Domain: Range{Min: min, Max: max},
		Scale:  sc,
		Type:   st,
		Title:  title,
		Unit:   f.Unit(),
	}
	for _, v := range sc.Ticks() {
		ret.Ticks = append(ret.Ticks, Tick{
			Value: v,
			Label: f.Number(v),
			Px:    sc.Apply(v),
		})
	}
	return ret
}

// CategoryID returns the category ID of the receiving Axis.
func (a *Axis) CategoryID() string {
	return a.cat.ID()
}

// Value annotates with v along the receiving Axis.
func (a *Axis) Value(v float64) util.PropertyUpdate {
	return util.DoubleProperty(a.cat.ID(), v)
}

// Define annotates with a definition of the receiver.
func (a *Axis) Define() util.PropertyUpdate {
	return util.Chain(
		a.cat.Define(),
		util.StringProperty(axisTypeKey, doubleAxisType),
		util.StringProperty(axisScaleKey, string(a.Type)),
		util.DoubleProperty(axisMinKey, a.Domain.Min),
		util.DoubleProperty(axisMaxKey, a.Domain.Max),
		util.If(a.Title != "", util.StringProperty(axisTitleKey, a.Title)),
		magnitude.DisplayUnit(a.Unit),
	)
}

// DefineTicks adds a child per tick of the receiver to db.
func (a *Axis) DefineTicks(db util.DataBuilder) {
	for _, tick := range a.Ticks {
		db.Child().With(
			util.DoubleProperty(tickValueKey, tick.Value),
			util.StringProperty(tickLabelKey, tick.Label),
			util.DoubleProperty(tickPxKey, tick.Px),
		)
	}
}
