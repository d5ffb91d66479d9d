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

// Package barchart computes the geometry of a horizontal bar chart with a
// vertical category axis and a horizontal value axis, and exports its bars.
//
// Compute places each visible point's bar rectangle:
//
//	thickness := Compute(visible, axisSet, Options{Thickness: t, Clusters: n})
//
// Points whose bars fall outside the axes' domains get the zero rectangle
// and are not drawn.  Computed bars are exported into a provided DataBuilder
// db with:
//
//	bc := New(db, valueAxis, renderSettings, properties...)
//
// where valueAxis is a continuousaxis.Axis, renderSettings is a
// RenderSettings.  Chart-level decorations may be applied in the properties,
// or added later with `bc.With(properties...)`.  Once constructed, new
// categories are added into the chart with:
//
//	bcCat := bc.Category(cat, properties...)
//
// where cat is a category.Category.  Categories should be displayed in
// definition order.  Bars are added into a category with:
//
//	stackedBars := bcCat.StackedBars()
//	bar := bcCat.Bar(point)
//
// adding a stack of bars sharing the category's lane, or a single bar,
// respectively.  A StackedBars accepts contained bars:
//
//	childBar := stackedBars.Bar(point)
//
// Bars may be individually styled with `bar.With(properties...)`, and carry
// tooltip and label payloads.
package barchart

import (
	"math"
	"sort"

	"github.com/ilhamster/barviz/axes"
	"github.com/ilhamster/barviz/category"
	categoryaxis "github.com/ilhamster/barviz/category_axis"
	"github.com/ilhamster/barviz/color"
	"github.com/ilhamster/barviz/config"
	continuousaxis "github.com/ilhamster/barviz/continuous_axis"
	"github.com/ilhamster/barviz/label"
	"github.com/ilhamster/barviz/payload"
	"github.com/ilhamster/barviz/points"
	"github.com/ilhamster/barviz/tooltip"
	"github.com/ilhamster/barviz/util"
)

const (
	// Data types
	dataTypeKey    = "bar_chart_data_type"
	stackedBarsKey = "bar_chart_stacked_bars"
	barKey         = "bar_chart_bar"

	// Bar datum keys
	barLowerExtentKey = "bar_chart_bar_lower_extent"
	barUpperExtentKey = "bar_chart_bar_upper_extent"
	barSeriesKey      = "bar_chart_bar_series"
	barIdentityKey    = "bar_chart_bar_identity"
	barPercentKey     = "bar_chart_bar_percent_of_category"
	barShiftKey       = "bar_chart_bar_shift"
	barSelectedKey    = "bar_chart_bar_selected"
	barHighlightKey   = "bar_chart_bar_highlight"
	barXPxKey         = "bar_chart_bar_x_px"
	barYPxKey         = "bar_chart_bar_y_px"
	barWidthPxKey     = "bar_chart_bar_width_px"
	barHeightPxKey    = "bar_chart_bar_height_px"

	// Rendering property keys
	barWidthCatPxKey   = "bar_chart_bar_width_cat_px"
	barPaddingCatPxKey = "bar_chart_bar_padding_cat_px"
	valueStackedKey    = "bar_chart_value_stacked"
)

// Thickness bounds of bars along an ordinal category axis, before inner
// padding.
const (
	minCategoryBarHeight = 16
	maxCategoryBarHeight = 130
)

// The thinnest bar left by ReconcileContinuous.
const minReconciledThickness = 1.5

// RenderSettings is a collection of rendering settings for bar chart.  A bar
// chart is rendered on a two-dimensional plane, with one continuous axis
// showing values ('val') and one category axis showing the categories, or
// lanes, into which the bars are rendered.
//
// These settings are generally defined as extents, in units of pixels, along
// these two axes, so are suffixed 'ValPx' for a pixel extent along the
// value axis, or 'CatPx' for a pixel extent along the category axis.
type RenderSettings struct {
	// The width of a bar along the category axis.  As the value axis is
	// horizontal, this is the height of a bar.
	BarWidthCatPx int64
	// The padding between adjacent bars along the category axis.
	BarPaddingCatPx int64
	// If true, the bars of a category stack end to end along the value axis.
	ValueStacked               bool
	CategoryAxisRenderSettings *categoryaxis.RenderSettings
	XAxisRenderSettings        *continuousaxis.XAxisRenderSettings
}

// Defines the receiver as a set of property updates.
func (rs *RenderSettings) define() util.PropertyUpdate {
	updates := []util.PropertyUpdate{
		util.IntegerProperty(barWidthCatPxKey, rs.BarWidthCatPx),
		util.IntegerProperty(barPaddingCatPxKey, rs.BarPaddingCatPx),
		util.BoolProperty(valueStackedKey, rs.ValueStacked),
	}
	if rs.CategoryAxisRenderSettings != nil {
		updates = append(updates, rs.CategoryAxisRenderSettings.Define())
	}
	if rs.XAxisRenderSettings != nil {
		updates = append(updates, rs.XAxisRenderSettings.Apply())
	}
	return util.Chain(updates...)
}

// Options configures Compute.
type Options struct {
	// Thickness is the thickness of a whole cluster of bars along a
	// continuous category axis.  Ordinal axes use their bandwidth instead.
	Thickness float64
	// Clusters is the number of series sharing each category: the number of
	// legend entries, or 1.
	Clusters int
	// ValueStacked stacks the series of a category end to end along the
	// value axis, within a single lane, rather than side by side along the
	// category axis.
	ValueStacked bool
}

func (o Options) clusters() float64 {
	if o.Clusters < 1 || o.ValueStacked {
		return 1
	}
	return float64(o.Clusters)
}

// Extent returns the [lower, upper] extent of p's bar along the value axis.
// Bars span [0, value] unless valueStacked, when they span
// [shift, shift+|value|].
func Extent(p *points.DataPoint, valueStacked bool) (lower, upper float64) {
	if valueStacked {
		return p.ShiftValue, p.ShiftValue + math.Abs(p.Value)
	}
	return math.Min(p.Value, 0), math.Max(p.Value, 0)
}

// extent returns the extent of p's bar along the value axis, clamped into d.
// It returns false if no part of the bar lies within d.
func extent(p *points.DataPoint, valueStacked bool, d continuousaxis.Range) (from, to float64, ok bool) {
	from, to = Extent(p, valueStacked)
	if from > d.Max || to < d.Min {
		return 0, 0, false
	}
	from, to = d.Clamp(from), d.Clamp(to)
	return from, to, to > from
}

func place(p *points.DataPoint, set *axes.Set, thickness, clusters float64, valueStacked bool) points.Rect {
	y, ok := set.Category.Locate(p.Category)
	if !ok {
		return points.Rect{}
	}
	if set.Category.Continuous() {
		v, _ := p.Category.Number()
		if !set.Category.Domain.Range.Contains(v) {
			return points.Rect{}
		}
		y -= thickness * clusters / 2
	}
	if clusters > 1 {
		y += thickness * p.ShiftValue
	}
	from, to, ok := extent(p, valueStacked, set.Value.Domain)
	if !ok {
		return points.Rect{}
	}
	x0, x1 := set.Value.Scale.Apply(from), set.Value.Scale.Apply(to)
	if x1 <= x0 {
		return points.Rect{}
	}
	return points.Rect{
		X:      x0,
		Y:      y,
		Width:  math.Max(1, x1-x0),
		Height: thickness,
	}
}

// Compute sets the bar rectangle of each of pts along the provided axes, and
// returns the thickness of each bar.  Bars lying outside the axes' domains
// get the zero rectangle.
func Compute(pts []*points.DataPoint, set *axes.Set, opts Options) float64 {
	clusters := opts.clusters()
	var thickness float64
	if set.Category.Continuous() {
		total := math.Max(0, opts.Thickness)
		if len(points.Categories(pts)) <= 2 {
			total /= 2
		}
		thickness = total / clusters
	} else {
		thickness = set.Category.Bandwidth() / clusters
	}
	for _, p := range pts {
		r := place(p, set, thickness, clusters, opts.ValueStacked)
		p.BarCoordinates = &r
	}
	return thickness
}

// ReconcileContinuous narrows the bars of pts, placed by Compute with the
// provided per-bar thickness along a continuous category axis, so that
// clusters at nearby category values do not overlap.  Each bar is narrowed
// to the smallest gap between adjacent clusters, but no thinner than 1.5px,
// and each cluster of bars is re-centered about its category value.  It
// returns the resulting per-bar thickness.
func ReconcileContinuous(pts []*points.DataPoint, thickness float64, clusters int) float64 {
	if thickness <= 0 {
		return thickness
	}
	stacked := clusters > 1
	base := func(p *points.DataPoint) float64 {
		if stacked {
			return p.BarCoordinates.Y - thickness*p.ShiftValue
		}
		return p.BarCoordinates.Y
	}
	var placed []*points.DataPoint
	for _, p := range pts {
		if p.BarCoordinates != nil && !p.BarCoordinates.IsZero() {
			placed = append(placed, p)
		}
	}
	bases := make([]float64, len(placed))
	for idx, p := range placed {
		bases[idx] = base(p)
	}
	sort.Float64s(bases)
	gap := math.Inf(1)
	for idx := 1; idx < len(bases); idx++ {
		if d := bases[idx] - bases[idx-1]; d > 0 {
			gap = math.Min(gap, d)
		}
	}
	if gap >= thickness {
		return thickness
	}
	narrowed := math.Max(gap, minReconciledThickness)
	if narrowed >= thickness {
		return thickness
	}
	n := 1.0
	if stacked {
		n = float64(clusters)
	}
	for _, p := range placed {
		center := base(p) + thickness*n/2
		y := center - narrowed*n/2
		if stacked {
			y += narrowed * p.ShiftValue
		}
		p.BarCoordinates.Y = y
		p.BarCoordinates.Height = narrowed
	}
	return narrowed
}

// BarHeight returns the thickness of a cluster of bars in a plot of the
// provided height.  Along ordinal category axes, this is the plot height
// shared among categoryCount categories, bounded to [16, 130], less inner
// padding.  Along continuous axes, it shrinks with the number of distinct
// categories within the axis' start and end.
func BarHeight(pts []*points.DataPoint, plotHeight float64, categoryCount int, ca config.CategoryAxis, continuous, smallMultiple bool) float64 {
	if !continuous {
		if categoryCount < 1 {
			categoryCount = 1
		}
		h := math.Min(maxCategoryBarHeight, math.Max(minCategoryBarHeight, plotHeight/float64(categoryCount)))
		return h * (1 - ca.InnerPadding/100)
	}
	start, end := continuousaxis.Overrides(ca.Start, ca.End, ca.RangeType, smallMultiple)
	inRange := make([]*points.DataPoint, 0, len(pts))
	for _, p := range pts {
		v, ok := p.Category.Number()
		if ok && ((start != nil && v < *start) || (end != nil && v > *end)) {
			continue
		}
		inRange = append(inRange, p)
	}
	n := len(points.Categories(inRange))
	switch {
	case n < 3:
		return plotHeight / 8
	case n < 4:
		return plotHeight / 3.75
	default:
		return plotHeight / (3.75 + 1.25*float64(n-3))
	}
}

// BarChart represents a bar chart with one continuous value axis and one
// category axis.
type BarChart struct {
	db           util.DataBuilder
	valueAxis    *continuousaxis.Axis
	valueStacked bool
}

// New returns a new BarChart populating the provided DataBuilder, and using
// the provided value axis and render settings.
func New(db util.DataBuilder, valueAxis *continuousaxis.Axis, renderSettings *RenderSettings, properties ...util.PropertyUpdate) *BarChart {
	return &BarChart{
		db: db.With(
			valueAxis.Define(),
			renderSettings.define(),
		).With(
			properties...,
		),
		valueAxis:    valueAxis,
		valueStacked: renderSettings.ValueStacked,
	}
}

// With annotates the receiver with the provided properties.
func (bc *BarChart) With(properties ...util.PropertyUpdate) *BarChart {
	bc.db.With(properties...)
	return bc
}

// Category adds a new category lane, with the provided Category, to the
// receiver.
func (bc *BarChart) Category(category *category.Category, properties ...util.PropertyUpdate) *Category {
	db := bc.db.Child().
		With(category.Define())
	return (&Category{
		db:           db,
		valueAxis:    bc.valueAxis,
		valueStacked: bc.valueStacked,
	}).With(properties...)
}

// Category represents a category lane within a bar chart.
type Category struct {
	db           util.DataBuilder
	valueAxis    *continuousaxis.Axis
	valueStacked bool
}

// With annotates the receiver with the provided properties.
func (c *Category) With(properties ...util.PropertyUpdate) *Category {
	c.db.With(properties...)
	return c
}

// StackedBars returns a new stacked bar added into the receiving Category.
func (c *Category) StackedBars() *StackedBars {
	db := c.db.Child().With(
		util.StringProperty(dataTypeKey, stackedBarsKey),
	)
	return &StackedBars{
		db:           db,
		valueAxis:    c.valueAxis,
		valueStacked: c.valueStacked,
	}
}

// Bar returns a new bar, for the provided point, added into the receiving
// Category.
func (c *Category) Bar(p *points.DataPoint) *Bar {
	return newBar(c.db, p, c.valueStacked)
}

// StackedBars represents a collection of Bars within a Category.
type StackedBars struct {
	db           util.DataBuilder
	valueAxis    *continuousaxis.Axis
	valueStacked bool
}

// Bar returns a new bar, for the provided point, added into the receiving
// StackedBars.
func (sb *StackedBars) Bar(p *points.DataPoint) *Bar {
	return newBar(sb.db, p, sb.valueStacked)
}

// Bar represents a single bar within a Category or a StackedBars.
type Bar struct {
	db util.DataBuilder
}

// With annotates the receiver with the provided properties.
func (b *Bar) With(properties ...util.PropertyUpdate) *Bar {
	b.db.With(properties...)
	return b
}

// Payload adds a payload child to the receiver.
func (b *Bar) Payload() util.DataBuilder {
	return b.db.Child()
}

// Tooltips attaches a tooltip payload holding tts to the receiver.
func (b *Bar) Tooltips(tts []points.Tooltip) *Bar {
	tooltip.Attach(b, tts)
	return b
}

// Label attaches a label payload with the provided text and coordinates to
// the receiver.  Nothing is attached if lc is nil.
func (b *Bar) Label(text string, lc *points.Rect) *Bar {
	if lc == nil {
		return b
	}
	lp := payload.New(b, payload.Label).With(label.Annotate(text, *lc))
	if !lc.IsZero() {
		lp.Child().With(rect(label.Background(*lc)))
	}
	return b
}

func rect(r points.Rect) util.PropertyUpdate {
	return util.Chain(
		util.DoubleProperty(barXPxKey, r.X),
		util.DoubleProperty(barYPxKey, r.Y),
		util.DoubleProperty(barWidthPxKey, r.Width),
		util.DoubleProperty(barHeightPxKey, r.Height),
	)
}

func barRect(r *points.Rect) util.PropertyUpdate {
	if r == nil {
		return util.EmptyUpdate
	}
	return rect(*r)
}

func newBar(parentDb util.DataBuilder, p *points.DataPoint, valueStacked bool) *Bar {
	lower, upper := Extent(p, valueStacked)
	return &Bar{
		db: parentDb.Child().With(
			util.StringProperty(dataTypeKey, barKey),
			util.DoubleProperty(barLowerExtentKey, lower),
			util.DoubleProperty(barUpperExtentKey, upper),
			util.DoubleProperty(barPercentKey, p.PercentOfCategory),
			util.DoubleProperty(barShiftKey, p.ShiftValue),
			util.If(!p.Series.IsNull(), util.StringProperty(barSeriesKey, p.Series.String())),
			util.If(p.Identity != "", util.StringProperty(barIdentityKey, string(p.Identity))),
			util.BoolProperty(barSelectedKey, p.Selected),
			util.BoolProperty(barHighlightKey, p.Highlight),
			util.If(p.Color != "", color.Fill(p.Color)),
			color.FillOpacity(p.FillOpacity),
			barRect(p.BarCoordinates),
		),
	}
}
