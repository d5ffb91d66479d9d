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

// Package axes creates the category and value axes of a bar chart for a
// single layout pass.
package axes

import (
	"math"

	"github.com/ilhamster/barviz/category"
	categoryaxis "github.com/ilhamster/barviz/category_axis"
	"github.com/ilhamster/barviz/config"
	continuousaxis "github.com/ilhamster/barviz/continuous_axis"
	"github.com/ilhamster/barviz/format"
	"github.com/ilhamster/barviz/points"
	"github.com/ilhamster/barviz/scale"
	textmeasure "github.com/ilhamster/barviz/text_measure"
	"github.com/ilhamster/barviz/util"
)

var (
	categoryAxisCategory = category.New(util.StringValue("category_axis"))
	valueAxisCategory    = category.New(util.StringValue("value_axis"))
)

// Set holds the axes of a chart.
type Set struct {
	Category *categoryaxis.Axis
	Value    *continuousaxis.Axis
}

// Options configures Create.
type Options struct {
	Settings config.Settings
	// ValueDomain is the value axis domain, computed over all points.
	ValueDomain continuousaxis.Range
	// Visible holds the points within the scroll window.
	Visible []*points.DataPoint
	// Scalar is true if the category column holds scalar values.
	Scalar bool
	// Width and Height are the plot size in pixels.
	Width, Height float64
	// BarHeight is the current bar thickness, which pads continuous
	// category axes.
	BarHeight float64
	// MaxLabelWidth bounds ordinal tick label widths; 0 leaves them whole.
	MaxLabelWidth float64
	ValueFormat, CategoryFormat string
	// ValueName and CategoryName title axes with no configured title.
	ValueName, CategoryName string
	Measurer                textmeasure.Measurer
	SmallMultiple           bool
}

func (o Options) categoryFont() textmeasure.Font {
	return textmeasure.FromPoints(o.Settings.FontFamily, o.Settings.CategoryAxis.FontSize)
}

// ValueFormatter returns the formatter of value axis ticks over domain.
func ValueFormatter(valueFormat string, va config.ValueAxis, domain continuousaxis.Range) *format.Formatter {
	precision := -1
	if va.Precision != nil && *va.Precision >= 0 {
		precision = *va.Precision
	}
	reference := math.Max(math.Abs(domain.Min), math.Abs(domain.Max))
	return format.New(valueFormat,
		format.WithDisplayUnits(va.DisplayUnits, reference),
		format.WithPrecision(precision),
	)
}

func titleOr(title, fallback string) string {
	if title == "" {
		return fallback
	}
	return title
}

// Create returns the axes of a single layout pass.
func Create(opts Options) *Set {
	return &Set{
		Value:    valueAxis(opts),
		Category: categoryAxis(opts),
	}
}

func valueAxis(opts Options) *continuousaxis.Axis {
	va := opts.Settings.ValueAxis
	start, end := continuousaxis.Overrides(va.Start, va.End, va.RangeType, opts.SmallMultiple)
	nice := start == nil && end == nil
	sc := continuousaxis.NewScale(va.AxisScale, opts.ValueDomain, opts.Width, nice)
	min, max := sc.Domain()
	f := ValueFormatter(opts.ValueFormat, va, continuousaxis.Range{Min: min, Max: max})
	title := continuousaxis.Title(va.ShowTitle, va.TitleStyle, titleOr(va.Title, opts.ValueName), f.Unit())
	return continuousaxis.New(valueAxisCategory, va.AxisScale, sc, f, title)
}

func categoryAxis(opts Options) *categoryaxis.Axis {
	ca := opts.Settings.CategoryAxis
	continuous := categoryaxis.IsContinuous(opts.Scalar, ca)
	domain := categoryaxis.CategoryDomain(opts.Visible, continuous, ca, opts.SmallMultiple)
	f := format.New(opts.CategoryFormat)
	title := continuousaxis.Title(ca.ShowTitle, ca.TitleStyle, titleOr(ca.Title, opts.CategoryName), f.Unit())
	if continuous {
		start, end := continuousaxis.Overrides(ca.Start, ca.End, ca.RangeType, opts.SmallMultiple)
		nice := start == nil && end == nil
		pad := math.Max(0, math.Min(opts.BarHeight/2, opts.Height/2))
		var sc scale.Continuous
		if ca.AxisScale == config.Log {
			sc = scale.NewLog(domain.Range.Min, domain.Range.Max, pad, opts.Height-pad)
		} else {
			lin := scale.NewLinear(domain.Range.Min, domain.Range.Max, pad, opts.Height-pad)
			if nice {
				lin = lin.Nice()
			}
			sc = lin
		}
		return categoryaxis.NewContinuous(categoryAxisCategory, ca.Position, domain, sc, f, title)
	}
	band := scale.NewBand(domain.Keys(), 0, opts.Height, ca.InnerPadding/100, 0)
	font := opts.categoryFont()
	labeler := func(v util.V) string {
		text := f.Format(v)
		if opts.MaxLabelWidth <= 0 || opts.Measurer == nil {
			return text
		}
		return textmeasure.Tailor(opts.Measurer, text, font, opts.MaxLabelWidth)
	}
	return categoryaxis.NewOrdinal(categoryAxisCategory, ca.Position, domain, band, labeler, title)
}

// CategoryLabelWidth returns the width of the widest formatted category tick
// label among categories, bounded by maximumSize percent of chartWidth.
func CategoryLabelWidth(m textmeasure.Measurer, s config.Settings, categoryFormat string, categories []util.V, chartWidth float64) float64 {
	f := format.New(categoryFormat)
	font := textmeasure.FromPoints(s.FontFamily, s.CategoryAxis.FontSize)
	texts := make([]string, len(categories))
	for idx, c := range categories {
		texts[idx] = f.Format(c)
	}
	limit := chartWidth * s.CategoryAxis.MaximumSize / 100
	return math.Min(textmeasure.MaxWidth(m, font, texts...), limit)
}

// ValueLabelHeight returns the height of value axis tick labels.
func ValueLabelHeight(m textmeasure.Measurer, s config.Settings) float64 {
	return m.Height("0", textmeasure.FromPoints(s.FontFamily, s.ValueAxis.FontSize))
}

// TitleThickness returns the thickness of an axis title in the provided
// font size, or 0 if title is empty.
func TitleThickness(m textmeasure.Measurer, family string, fontSizePt float64, title string) float64 {
	if title == "" {
		return 0
	}
	return m.Height(title, textmeasure.FromPoints(family, fontSizePt))
}
