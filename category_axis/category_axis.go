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

// Package categoryaxis computes the domain of the category axis and defines
// category axes in exported chart data.
//
// The category axis is either ordinal, placing each distinct category in its
// own band, or continuous, placing numeric categories along a scale.  Only
// numeric categories may be continuous, and only when so configured.
package categoryaxis

import (
	"math"

	"github.com/ilhamster/barviz/category"
	"github.com/ilhamster/barviz/config"
	continuousaxis "github.com/ilhamster/barviz/continuous_axis"
	"github.com/ilhamster/barviz/format"
	"github.com/ilhamster/barviz/points"
	"github.com/ilhamster/barviz/scale"
	"github.com/ilhamster/barviz/util"
)

const (
	categoryBandCatPxKey       = "category_band_cat_px"
	categoryPaddingCatPxKey    = "category_padding_cat_px"
	categoryMinWidthCatPxKey   = "category_min_width_cat_px"
	categoryLabelWidthValPxKey = "category_label_width_val_px"
	categoryScrollbarValPxKey  = "category_scrollbar_val_px"

	axisTypeKey     = "axis_type"
	axisPositionKey = "axis_position"
	axisMinKey      = "axis_min"
	axisMaxKey      = "axis_max"
	axisTitleKey    = "axis_title"

	tickLabelKey = "tick_label"
	tickPxKey    = "tick_px"
)

// RenderSettings is a collection of rendering settings for category axes.
// The category ('Cat') axis is vertical; the other, value ('Val') axis is
// horizontal.
//
// These settings are defined as extents, in pixels, along these two axes,
// so are suffixed 'ValPx' for a pixel extent along the value axis, or
// 'CatPx' for a pixel extent along the category axis.
type RenderSettings struct {
	// The thickness of each category's band along the category axis.
	CategoryBandCatPx int64
	// The padding between adjacent bands along the category axis.
	CategoryPaddingCatPx int64
	// The minimum space given to each category along the category axis
	// before the axis scrolls.
	CategoryMinWidthCatPx int64
	// The width of the widest tick label along the value axis.
	CategoryLabelWidthValPx int64
	// The width of the scrollbar along the value axis, or 0 if the axis does
	// not scroll.
	CategoryScrollbarValPx int64
}

// Define applies the receiver as a set of properties.
func (rs *RenderSettings) Define() util.PropertyUpdate {
	return util.Chain(
		util.IntegerProperty(categoryBandCatPxKey, rs.CategoryBandCatPx),
		util.IntegerProperty(categoryPaddingCatPxKey, rs.CategoryPaddingCatPx),
		util.IntegerProperty(categoryMinWidthCatPxKey, rs.CategoryMinWidthCatPx),
		util.IntegerProperty(categoryLabelWidthValPxKey, rs.CategoryLabelWidthValPx),
		util.IntegerProperty(categoryScrollbarValPxKey, rs.CategoryScrollbarValPx),
	)
}

// IsContinuous returns true if a category axis whose categories are (or are
// not) scalar is continuous under the provided settings.
func IsContinuous(scalar bool, ca config.CategoryAxis) bool {
	return scalar && ca.AxisType == config.Continuous
}

// Domain is the domain of a category axis.
type Domain struct {
	Continuous bool
	// Categories holds the distinct categories of an ordinal axis, in
	// first-seen order.  Blank is retained.
	Categories []util.V
	// Range spans a continuous axis.
	Range continuousaxis.Range
}

// Keys returns the grouping keys of the receiver's categories.
func (d Domain) Keys() []string {
	ret := make([]string, len(d.Categories))
	for idx, c := range d.Categories {
		ret[idx] = c.Key()
	}
	return ret
}

// CategoryDomain returns the category axis domain of the visible points.
// Continuous domains span the numeric, non-blank categories, and honor the
// axis start and end overrides (in small-multiple mode, only with a Custom
// range type).
func CategoryDomain(visible []*points.DataPoint, continuous bool, ca config.CategoryAxis, smallMultiple bool) Domain {
	if !continuous {
		return Domain{Categories: points.Categories(visible)}
	}
	ret := Domain{Continuous: true}
	min, max := math.Inf(1), math.Inf(-1)
	for _, p := range visible {
		if points.IsBlank(p.Category) {
			continue
		}
		v, ok := p.Category.Number()
		if !ok {
			continue
		}
		min = math.Min(min, v)
		max = math.Max(max, v)
	}
	if min > max {
		min, max = 0, 0
	}
	start, end := continuousaxis.Overrides(ca.Start, ca.End, ca.RangeType, smallMultiple)
	if start != nil {
		min = *start
	}
	if end != nil {
		max = *end
	}
	ret.Range = continuousaxis.Range{Min: min, Max: max}
	return ret
}

// Tick is a single formatted category axis tick.
type Tick struct {
	Category util.V
	Value    float64
	Label    string
	Px       float64
}

// Axis is a category axis: its domain, its scale, ticks and title.
type Axis struct {
	cat      *category.Category
	Position config.AxisPosition
	Domain   Domain
	// Band scales an ordinal axis; Scale scales a continuous one.
	Band  *scale.Band
	Scale scale.Continuous
	Ticks []Tick
	Title string
}

// NewOrdinal returns a new ordinal category Axis over the provided band
// scale.  Tick labels are produced by labeler.
func NewOrdinal(cat *category.Category, pos config.AxisPosition, domain Domain, band *scale.Band, labeler func(util.V) string, title string) *Axis {
	ret := &Axis{
		cat:      cat,
		Position: pos,
		Domain:   domain,
		Band:     band,
		Title:    title,
	}
	for _, c := range domain.Categories {
		px, ok := band.Apply(c.Key())
		if !ok {
			continue
		}
		ret.Ticks = append(ret.Ticks, Tick{
			Category: c,
			Label:    labeler(c),
			Px:       px + band.Bandwidth()/2,
		})
	}
	return ret
}

// NewContinuous returns a new continuous category Axis over the provided
// scale, with ticks formatted by f.
func NewContinuous(cat *category.Category, pos config.AxisPosition, domain Domain, sc scale.Continuous, f *format.Formatter, title string) *Axis {
	ret := &Axis{
		cat:      cat,
		Position: pos,
		Domain:   domain,
		Scale:    sc,
		Title:    title,
	}
	for _, v := range sc.Ticks() {
		ret.Ticks = append(ret.Ticks, Tick{
			Category: util.DoubleValue(v),
			Value:    v,
			Label:    f.Number(v),
			Px:       sc.Apply(v),
		})
	}
	return ret
}

// Continuous returns true if the receiver is continuous.
func (a *Axis) Continuous() bool {
	return a.Domain.Continuous
}

// Bandwidth returns the band thickness of an ordinal receiver, or 0.
func (a *Axis) Bandwidth() float64 {
	if a.Band == nil {
		return 0
	}
	return a.Band.Bandwidth()
}

// Locate returns the pixel position of category c along the receiver: the
// start of its band on an ordinal axis, or its scaled value on a continuous
// one.  It returns false if c is not on the axis.
func (a *Axis) Locate(c util.V) (float64, bool) {
	if a.Band != nil {
		return a.Band.Apply(c.Key())
	}
	if a.Scale == nil || points.IsBlank(c) {
		return 0, false
	}
	v, ok := c.Number()
	if !ok {
		return 0, false
	}
	return a.Scale.Apply(v), true
}

// CategoryID returns the category ID of the receiving Axis.
func (a *Axis) CategoryID() string {
	return a.cat.ID()
}

// Define annotates with a definition of the receiver.
func (a *Axis) Define() util.PropertyUpdate {
	axisType := string(config.Categorical)
	if a.Continuous() {
		axisType = string(config.Continuous)
	}
	return util.Chain(
		a.cat.Define(),
		util.StringProperty(axisTypeKey, axisType),
		util.StringProperty(axisPositionKey, string(a.Position)),
		util.If(a.Continuous(), util.Chain(
			util.DoubleProperty(axisMinKey, a.Domain.Range.Min),
			util.DoubleProperty(axisMaxKey, a.Domain.Range.Max),
		)),
		util.If(a.Title != "", util.StringProperty(axisTitleKey, a.Title)),
	)
}

// DefineTicks adds a child per tick of the receiver to db.
func (a *Axis) DefineTicks(db util.DataBuilder) {
	for _, tick := range a.Ticks {
		db.Child().With(
			category.New(tick.Category).Tag(),
			util.StringProperty(tickLabelKey, tick.Label),
			util.DoubleProperty(tickPxKey, tick.Px),
		)
	}
}
