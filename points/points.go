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

// Package points builds normalized bar chart data points from a classified
// dataset.
//
// Build dispatches on the schema.Kind of the dataset to one of four point
// builders.  All builders share these rules:
//
//   - A point is emitted only for a non-null (numeric) value.
//   - A point whose value cell also carries a non-null highlighted value is
//     followed by a highlight twin: a point with Highlight set, the
//     highlighted value, the same identity, category and series, and an
//     extra "Highlighted" tooltip.
//   - Null or empty categories and series become Blank; zero stays zero.
//   - Within a category, stacking shifts are folded over the series in
//     legend (or value column) order, never sorted by value.
package points

import (
	"math"

	"github.com/ilhamster/barviz/dataset"
	"github.com/ilhamster/barviz/format"
	"github.com/ilhamster/barviz/schema"
	"github.com/ilhamster/barviz/util"
)

// HighlightedLabel labels the extra tooltip carried by highlight twins.
const HighlightedLabel = "Highlighted"

// Blank is the category or series substituted for null and empty values.
var Blank = util.StringValue("(Blank)")

// Normalize returns v, or Blank if v is null or empty.  Numeric zero is not
// blank.
func Normalize(v util.V) util.V {
	if v.IsBlank() {
		return Blank
	}
	return v
}

// IsBlank returns true if v is the Blank sentinel.
func IsBlank(v util.V) bool {
	return v.Equal(Blank)
}

// Rect is an axis-aligned rectangle in plot pixels.
type Rect struct {
	X, Y, Width, Height float64
}

// IsZero returns true if the receiver is the zero rectangle.
func (r Rect) IsZero() bool {
	return r == Rect{}
}

// Tooltip is a single tooltip row.
type Tooltip struct {
	Label, Value string
}

// DataPoint is a single plottable bar, or the highlight twin of one.
type DataPoint struct {
	Category util.V
	// Series is the legend series, or null when there is no legend.
	Series util.V
	// SeriesIndex is the position of the point's series (or value column)
	// in the legend.
	SeriesIndex       int
	Value             float64
	PercentOfCategory float64
	ShiftValue        float64
	// ColorSaturation is the point's gradient measure, or null.
	ColorSaturation util.V
	Color           string
	Identity        dataset.Identity
	Selected        bool
	Highlight       bool
	FillOpacity     float64
	Tooltips        []Tooltip
	ColumnBy, RowBy util.V
	// BarCoordinates is nil until geometry is computed.
	BarCoordinates *Rect
	// LabelCoordinates is nil if the point has no label.
	LabelCoordinates *Rect
}

// StackingMode selects how shifts are assigned within a category.
type StackingMode int

const (
	// DefaultStacking selects the stacking mode customary for the dataset's
	// kind: IndexStacking for multiple values, PercentStacking for legends.
	DefaultStacking StackingMode = iota
	// IndexStacking shifts each point by its 0-based series index.
	IndexStacking
	// PercentStacking folds shifts over percents of category.
	PercentStacking
	// ValueStacking folds shifts over raw values.
	ValueStacking
)

var stackingModeNames = map[StackingMode]string{
	DefaultStacking: "default",
	IndexStacking:   "index",
	PercentStacking: "percent",
	ValueStacking:   "value",
}

func (sm StackingMode) String() string {
	return stackingModeNames[sm]
}

// ParseStackingMode returns the StackingMode with the provided name.
func ParseStackingMode(name string) (StackingMode, bool) {
	for sm, smName := range stackingModeNames {
		if smName == name {
			return sm, true
		}
	}
	return DefaultStacking, false
}

func (sm StackingMode) resolve(kind schema.Kind) StackingMode {
	if sm != DefaultStacking {
		return sm
	}
	if kind == schema.MultipleValues {
		return IndexStacking
	}
	return PercentStacking
}

// AlongValueAxis returns true if points of the provided kind stack along the
// value axis under the receiver, each bar spanning [shift, shift+|value|].
// Otherwise, shifts offset bars along the category axis.
func (sm StackingMode) AlongValueAxis(kind schema.Kind) bool {
	switch kind {
	case schema.LegendFilled, schema.MultipleValues:
		return sm.resolve(kind) == ValueStacking
	}
	return false
}

// ColorService resolves the color of a category, returning fallback if it
// has no color for it.
type ColorService interface {
	Color(key, fallback string) string
}

// Options configures Build.
type Options struct {
	Stacking StackingMode
	// LegendColors holds the color of each legend series, or of each value
	// column for multiple values, in legend order.
	LegendColors []string
	// Colors resolves per-category colors in the default configuration.
	Colors ColorService
	// DefaultFill is the fill of default configuration points with no
	// per-category color.
	DefaultFill string
}

func (o Options) legendColor(idx int) string {
	if idx < len(o.LegendColors) {
		return o.LegendColors[idx]
	}
	return o.DefaultFill
}

// Build returns the data points of the provided table, which must be of the
// provided kind.
func Build(kind schema.Kind, t *dataset.Table, opts Options) []*DataPoint {
	switch kind {
	case schema.SameAxisAndLegend:
		return buildSameAxisAndLegend(t, opts)
	case schema.LegendFilled:
		return buildLegend(t, opts)
	case schema.MultipleValues:
		return buildMultipleValues(t, opts)
	default:
		return buildDefault(t, opts)
	}
}

// stack is the running stacking accumulator of a single category.
type stack struct {
	positiveSum, negativeSum float64
}

// shift returns the shift of a contribution atop the receiver.
func (s stack) shift(contribution float64) float64 {
	if contribution >= 0 {
		return s.positiveSum
	}
	return s.negativeSum + contribution
}

// push returns the receiver with the provided contribution stacked.
func (s stack) push(contribution float64) stack {
	if contribution >= 0 {
		s.positiveSum += contribution
	} else {
		s.negativeSum += contribution
	}
	return s
}

// number returns v as a number, or false if v is null or non-numeric.
func number(v util.V) (float64, bool) {
	if v.IsNull() {
		return 0, false
	}
	return v.Number()
}

func tooltip(col *dataset.Column, v util.V) Tooltip {
	if col == nil {
		return Tooltip{Value: v.String()}
	}
	return Tooltip{Label: col.Name, Value: format.New(col.Format).Format(v)}
}

func percentTooltip(label string, col *dataset.Column, value, pct float64) Tooltip {
	return Tooltip{
		Label: label,
		Value: format.New(col.Format).Number(value) + " (" + format.Percent(pct) + ")",
	}
}

func extraTooltips(cols []*dataset.Column, row int) []Tooltip {
	ret := make([]Tooltip, 0, len(cols))
	for _, col := range cols {
		ret = append(ret, tooltip(col, col.Value(row)))
	}
	return ret
}

func withTwinTooltip(tooltips []Tooltip, twin Tooltip) []Tooltip {
	ret := make([]Tooltip, 0, len(tooltips)+1)
	return append(append(ret, tooltips...), twin)
}

func groupColumns(cols []*dataset.Column, group util.V) []*dataset.Column {
	ret := []*dataset.Column{}
	for _, col := range cols {
		if col.Group.Equal(group) {
			ret = append(ret, col)
		}
	}
	return ret
}

// categorySum returns the sum of absolute values of row across cols.
func categorySum(cols []*dataset.Column, row int) float64 {
	ret := 0.0
	for _, col := range cols {
		if v, ok := number(col.Value(row)); ok {
			ret += math.Abs(v)
		}
	}
	return ret
}

func percentOf(v, sum float64) float64 {
	if sum == 0 {
		return 0
	}
	return v / sum
}

// The default configuration: a single value column, no legend.
func buildDefault(t *dataset.Table, opts Options) []*DataPoint {
	values := t.MeasureColumns(dataset.Value)
	if len(values) == 0 {
		return nil
	}
	valueCol := values[0]
	axis := t.CategoryColumn(dataset.Axis)
	var gradient *dataset.Column
	if gradients := t.MeasureColumns(dataset.Gradient); len(gradients) > 0 {
		gradient = gradients[0]
	}
	tooltipCols := t.MeasureColumns(dataset.Tooltips)
	columnBy, rowBy := t.CategoryColumn(dataset.ColumnBy), t.CategoryColumn(dataset.RowBy)
	ret := []*DataPoint{}
	for row := 0; row < t.RowCount(); row++ {
		v, ok := number(valueCol.Value(row))
		if !ok {
			continue
		}
		rawCat := axis.Value(row)
		cat := Normalize(rawCat)
		saturation := util.Null
		if sat, ok := number(gradient.Value(row)); ok && sat != 0 {
			saturation = util.DoubleValue(sat)
		}
		pointColor := opts.DefaultFill
		if opts.Colors != nil {
			pointColor = opts.Colors.Color(cat.String(), opts.DefaultFill)
		}
		tooltips := append([]Tooltip{
			tooltip(axis, rawCat),
			percentTooltip(valueCol.Name, valueCol, v, 1),
		}, extraTooltips(tooltipCols, row)...)
		base := &DataPoint{
			Category:          cat,
			Value:             v,
			PercentOfCategory: 1,
			ShiftValue:        oneBarShift(v, 1),
			ColorSaturation:   saturation,
			Color:             pointColor,
			Identity:          axis.Identity(row),
			FillOpacity:       1,
			Tooltips:          tooltips,
			ColumnBy:          columnBy.Value(row),
			RowBy:             rowBy.Value(row),
		}
		ret = append(ret, base)
		if hv, ok := number(valueCol.Highlight(row)); ok {
			twin := *base
			twin.Highlight = true
			twin.Value = hv
			twin.PercentOfCategory = percentOf(hv, v)
			twin.ShiftValue = oneBarShift(hv, twin.PercentOfCategory)
			twin.ColorSaturation = util.Null
			twin.Tooltips = withTwinTooltip(tooltips, percentTooltip(HighlightedLabel, valueCol, hv, 1))
			ret = append(ret, &twin)
		}
	}
	return ret
}

// oneBarShift returns the shift of a point that is alone in its category:
// 0 when non-negative, or -fraction when negative.
func oneBarShift(v, fraction float64) float64 {
	if v >= 0 {
		return 0
	}
	return -fraction
}

// The same-axis-and-legend configuration: the category is the legend series,
// with one bar per series.
func buildSameAxisAndLegend(t *dataset.Table, opts Options) []*DataPoint {
	valueCols := t.MeasureColumns(dataset.Value)
	tooltipCols := t.MeasureColumns(dataset.Tooltips)
	ret := []*DataPoint{}
	for k, legend := range t.LegendValues() {
		cols := groupColumns(valueCols, legend)
		if len(cols) == 0 {
			continue
		}
		valueCol := cols[0]
		v, ok := number(valueCol.Value(0))
		if !ok {
			continue
		}
		pointColor := opts.legendColor(k)
		tooltips := append([]Tooltip{
			tooltip(t.Grouping, legend),
			percentTooltip(valueCol.Name, valueCol, v, 1),
		}, extraTooltips(groupColumns(tooltipCols, legend), 0)...)
		base := &DataPoint{
			Category:          Normalize(legend),
			Series:            legend,
			SeriesIndex:       k,
			Value:             v,
			PercentOfCategory: 1,
			ShiftValue:        oneBarShift(v, 1),
			Color:             pointColor,
			Identity:          valueCol.Identity(0),
			FillOpacity:       1,
			Tooltips:          tooltips,
		}
		ret = append(ret, base)
		if hv, ok := number(valueCol.Highlight(0)); ok {
			twin := *base
			twin.Highlight = true
			twin.Value = hv
			twin.ShiftValue = oneBarShift(hv, 1)
			twin.Tooltips = withTwinTooltip(tooltips, percentTooltip(HighlightedLabel, valueCol, hv, 1))
			ret = append(ret, &twin)
		}
	}
	return ret
}

// series is one stacked series of a category: a value column and its
// legend entry, if any.
type series struct {
	idx      int
	legend   util.V
	col      *dataset.Column
	tooltips []*dataset.Column
}

// foldCategory emits the points of a single category row, folding stacking
// shifts over ss in order.
func foldCategory(row int, ss []series, mode StackingMode, head []Tooltip, grouping *dataset.Column, base DataPoint, opts Options) []*DataPoint {
	sumCols := make([]*dataset.Column, len(ss))
	for idx, s := range ss {
		sumCols[idx] = s.col
	}
	sum := categorySum(sumCols, row)
	contribution := func(idx int, v, pct float64) float64 {
		switch mode {
		case IndexStacking:
			return float64(idx)
		case ValueStacking:
			return v
		default:
			return pct
		}
	}
	shiftOf := func(acc stack, idx int, v, pct float64) float64 {
		if mode == IndexStacking {
			return float64(idx)
		}
		return acc.shift(contribution(idx, v, pct))
	}
	ret := []*DataPoint{}
	acc := stack{}
	for _, s := range ss {
		v, ok := number(s.col.Value(row))
		if !ok {
			continue
		}
		pct := percentOf(v, sum)
		tooltips := append([]Tooltip{}, head...)
		if grouping != nil {
			tooltips = append(tooltips, tooltip(grouping, s.legend))
		}
		tooltips = append(tooltips, percentTooltip(s.col.Name, s.col, v, pct))
		tooltips = append(tooltips, extraTooltips(s.tooltips, row)...)
		p := base
		p.Series = s.legend
		p.SeriesIndex = s.idx
		p.Value = v
		p.PercentOfCategory = pct
		p.ShiftValue = shiftOf(acc, s.idx, v, pct)
		p.Color = opts.legendColor(s.idx)
		p.Identity = s.col.Identity(row)
		p.Tooltips = tooltips
		ret = append(ret, &p)
		if hv, ok := number(s.col.Highlight(row)); ok {
			hpct := percentOf(hv, sum)
			twin := p
			twin.Highlight = true
			twin.Value = hv
			twin.PercentOfCategory = hpct
			twin.ShiftValue = shiftOf(acc, s.idx, hv, hpct)
			twin.Tooltips = withTwinTooltip(tooltips, percentTooltip(HighlightedLabel, s.col, hv, hpct))
			ret = append(ret, &twin)
		}
		if mode != IndexStacking {
			acc = acc.push(contribution(s.idx, v, pct))
		}
	}
	return ret
}

// The legend configuration: one stacked series per legend value.
func buildLegend(t *dataset.Table, opts Options) []*DataPoint {
	mode := opts.Stacking.resolve(schema.LegendFilled)
	valueCols := t.MeasureColumns(dataset.Value)
	tooltipCols := t.MeasureColumns(dataset.Tooltips)
	ss := []series{}
	for k, legend := range t.LegendValues() {
		cols := groupColumns(valueCols, legend)
		if len(cols) == 0 {
			continue
		}
		ss = append(ss, series{
			idx:      k,
			legend:   legend,
			col:      cols[0],
			tooltips: groupColumns(tooltipCols, legend),
		})
	}
	return buildStacked(t, ss, mode, t.Grouping, opts)
}

// The multiple-values configuration: one series per value column, with no
// legend series.
func buildMultipleValues(t *dataset.Table, opts Options) []*DataPoint {
	mode := opts.Stacking.resolve(schema.MultipleValues)
	tooltipCols := t.MeasureColumns(dataset.Tooltips)
	ss := []series{}
	for k, col := range t.MeasureColumns(dataset.Value) {
		ss = append(ss, series{
			idx:      k,
			legend:   util.Null,
			col:      col,
			tooltips: tooltipCols,
		})
	}
	return buildStacked(t, ss, mode, nil, opts)
}

func buildStacked(t *dataset.Table, ss []series, mode StackingMode, grouping *dataset.Column, opts Options) []*DataPoint {
	axis := t.CategoryColumn(dataset.Axis)
	columnBy, rowBy := t.CategoryColumn(dataset.ColumnBy), t.CategoryColumn(dataset.RowBy)
	ret := []*DataPoint{}
	for row := 0; row < t.RowCount(); row++ {
		rawCat := axis.Value(row)
		base := DataPoint{
			Category:        Normalize(rawCat),
			ColorSaturation: util.Null,
			FillOpacity:     1,
			ColumnBy:        columnBy.Value(row),
			RowBy:           rowBy.Value(row),
		}
		head := []Tooltip{tooltip(axis, rawCat)}
		ret = append(ret, foldCategory(row, ss, mode, head, grouping, base, opts)...)
	}
	return ret
}

// HasHighlight returns true if any of pts is a highlight twin.
func HasHighlight(pts []*DataPoint) bool {
	for _, p := range pts {
		if p.Highlight {
			return true
		}
	}
	return false
}

// Categories returns the distinct categories of pts, in first-seen order.
func Categories(pts []*DataPoint) []util.V {
	ret := []util.V{}
	seen := map[string]struct{}{}
	for _, p := range pts {
		key := p.Category.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		ret = append(ret, p.Category)
	}
	return ret
}
