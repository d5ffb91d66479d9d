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

package pipeline

import (
	"math"

	"github.com/ilhamster/barviz/axes"
	barchart "github.com/ilhamster/barviz/bar_chart"
	"github.com/ilhamster/barviz/category"
	"github.com/ilhamster/barviz/config"
	continuousaxis "github.com/ilhamster/barviz/continuous_axis"
	"github.com/ilhamster/barviz/dataset"
	"github.com/ilhamster/barviz/format"
	"github.com/ilhamster/barviz/label"
	"github.com/ilhamster/barviz/legend"
	"github.com/ilhamster/barviz/points"
	"github.com/ilhamster/barviz/schema"
	scrollwindow "github.com/ilhamster/barviz/scroll_window"
	smallmultiple "github.com/ilhamster/barviz/small_multiple"
	textmeasure "github.com/ilhamster/barviz/text_measure"
	"github.com/ilhamster/barviz/util"
)

// Chart chrome, in pixels.
const (
	marginPx         = 5
	extendedMarginPx = 15
	xAxisHeightPx    = 10
	yAxisWidthPx     = 15
	axisTitleGapPx   = 5
)

// LayoutPasses is the number of layout passes run per update.
const LayoutPasses = 3

// Size is the size, in pixels, of a plot.
type Size struct {
	Width, Height float64
}

// ConstantLine is a reference line across the value axis.
type ConstantLine struct {
	Value float64
	// X is the line's position along the value axis.
	X    float64
	Text string
	// Label is nil if the line has no data label.
	Label *points.Rect
}

// Chart is a single laid-out bar chart: the whole visual, or one
// small-multiple facet.
type Chart struct {
	// Facet is nil unless the visual is split into small multiples.
	Facet  *smallmultiple.Facet
	Points []*points.DataPoint
	Axes   *axes.Set
	// Size is the size of the plot.  OriginX and OriginY place it within
	// the visual, or within its facet.
	Size             Size
	OriginX, OriginY float64
	// BarThickness is the thickness of a single bar along the category
	// axis.
	BarThickness float64
	ConstantLine *ConstantLine

	labels       *format.Formatter
	domainPoints []*points.DataPoint
	valueDomain  continuousaxis.Range
	box          Size
	barHeight    float64
}

// VisualData is everything the renderer draws for one update.
type VisualData struct {
	// Cleared is true if the table could not be charted, and nothing is
	// drawn.
	Cleared bool
	Kind    schema.Kind
	// Points holds the visible points of all charts.
	Points []*points.DataPoint
	// Axes and Size are those of the first chart.
	Axes *axes.Set
	Size Size
	// Categories holds every category, visible or not.
	Categories []util.V
	// VisibleCategories holds the categories within the scroll window.
	VisibleCategories []util.V
	Legend       *legend.Legend
	LegendNeeded bool
	HasHighlight bool
	Scroll       scrollwindow.State
	Handle       scrollwindow.Handle
	Charts       []*Chart
	// Grid is nil unless the visual is split into small multiples.
	Grid         *smallmultiple.Grid
	LayoutPasses int
	// RestoredSelection holds the identities selected from the persisted
	// selection, on the update that restored it.
	RestoredSelection []dataset.Identity

	window   *scrollwindow.Window
	settings config.Settings
}

type layoutState struct {
	pass   int
	charts []Chart
}

func (p *Pipeline) valueColumn() *dataset.Column {
	if cols := p.table.MeasureColumns(dataset.Value); len(cols) > 0 {
		return cols[0]
	}
	return nil
}

// valueStacked returns true if the series of a category stack along the
// value axis.
func (p *Pipeline) valueStacked() bool {
	return p.settings.StackingMode().AlongValueAxis(p.kind)
}

// clusters returns the number of bars sharing each category's lane.
func (p *Pipeline) clusters() int {
	if p.valueStacked() {
		return 1
	}
	return p.legend.Clusters(p.kind)
}

func (p *Pipeline) valueFormat() string {
	if col := p.valueColumn(); col != nil {
		return col.Format
	}
	return ""
}

// layout lays the loaded points out within the viewport.
func (p *Pipeline) layout() {
	s := p.settings
	legendWidth, legendHeight := p.legend.Size(p.measurer, s.FontFamily, s.Legend.FontSize, p.viewport.Width)
	box := Size{
		Width:  math.Max(0, p.viewport.Width-legendWidth),
		Height: math.Max(0, p.viewport.Height-legendHeight),
	}
	var grid *smallmultiple.Grid
	var charts []Chart
	if p.facets != nil {
		p.window.Update(p.groups, scrollwindow.Options{})
		grid = smallmultiple.Arrange(p.facets, s.SmallMultiple, box.Width, box.Height)
		titleHeight := 0.0
		if s.SmallMultiple.ShowChartTitle {
			titleHeight = textmeasure.PointToPixel(s.SmallMultiple.FontSize) + axisTitleGapPx
		}
		for _, f := range p.facets {
			charts = append(charts, Chart{
				Facet:        f,
				Points:       f.Points,
				domainPoints: smallmultiple.CategoryPoints(f, p.all, s),
				valueDomain:  smallmultiple.ValueDomain(f, p.all, s, p.valueStacked()),
				box:          Size{Width: f.Bounds.Width, Height: math.Max(0, f.Bounds.Height-titleHeight)},
			})
		}
	} else {
		available := math.Max(0, box.Height-2*marginPx-xAxisHeightPx)
		p.window.Update(p.groups, scrollwindow.Options{
			Allow:            s.CategoryAxis.AllowScroll && !p.continuous,
			AvailableHeight:  available,
			MinCategorySpace: s.CategoryAxis.MinCategoryWidth,
			TrackHeight:      available,
		})
		visible := p.window.VisiblePoints()
		charts = []Chart{{
			Points:       visible,
			domainPoints: visible,
			valueDomain:  continuousaxis.ValueDomain(p.all, s, false, p.valueStacked()),
			box:          box,
		}}
	}
	state := layoutState{charts: charts}
	// Coarse layout, without tick labels.
	state = p.runLayoutPass(state)
	// Layout around the measured tick labels.
	state = p.runLayoutPass(state)
	// Layout with the bar thickness of the measured plot.
	state = p.runLayoutPass(state)
	p.finish(state, grid)
}

// runLayoutPass lays each chart of st out once, returning the new state.
func (p *Pipeline) runLayoutPass(st layoutState) layoutState {
	ret := layoutState{
		pass:   st.pass + 1,
		charts: make([]Chart, len(st.charts)),
	}
	for idx, c := range st.charts {
		ret.charts[idx] = p.layoutChart(c)
		p.logger.Debug("layout pass",
			"pass", ret.pass,
			"chart", idx,
			"width", ret.charts[idx].Size.Width,
			"height", ret.charts[idx].Size.Height,
			"bar_height", ret.charts[idx].barHeight,
		)
	}
	p.metrics.layoutPasses.Inc()
	return ret
}

// tickOffsets returns the space taken by the tick labels and titles of the
// provided axes, which are nil on the first pass.
func (p *Pipeline) tickOffsets(set *axes.Set) (yTickOffset, xTickOffset float64) {
	if set == nil {
		return 0, 0
	}
	s := p.settings
	if s.CategoryAxis.Show {
		font := textmeasure.FromPoints(s.FontFamily, s.CategoryAxis.FontSize)
		for _, tick := range set.Category.Ticks {
			yTickOffset = math.Max(yTickOffset, p.measurer.Width(tick.Label, font))
		}
		if s.CategoryAxis.ShowTitle {
			yTickOffset += textmeasure.PointToPixel(s.CategoryAxis.TitleFontSize)
		}
	}
	if s.ValueAxis.Show {
		xTickOffset = axes.ValueLabelHeight(p.measurer, s)
		if s.ValueAxis.ShowTitle {
			xTickOffset += textmeasure.PointToPixel(s.ValueAxis.TitleFontSize)
		}
	}
	return yTickOffset, xTickOffset
}

// place sizes c's plot within its box, around tick labels taking
// yTickOffset and xTickOffset.  Tick labels are narrowed to at most the
// configured share of the chart width; the returned maxLabelWidth is 0 if
// they need not be.
func (p *Pipeline) place(c *Chart, yTickOffset, xTickOffset float64) (maxLabelWidth float64) {
	ca := p.settings.CategoryAxis
	right := ca.Show && ca.Position == config.AxisRight
	leftMargin, rightMargin := float64(marginPx), float64(marginPx)
	if right || !ca.Show {
		leftMargin = extendedMarginPx
	}
	if !right || !ca.Show {
		rightMargin = extendedMarginPx
	}
	scroll := 0.0
	if c.Facet == nil && p.window.Enabled() {
		scroll = scrollwindow.TrackSizePx + scrollwindow.TrackMarginPx
	}
	width := c.box.Width - leftMargin - rightMargin - yAxisWidthPx - yTickOffset - scroll
	height := c.box.Height - 2*marginPx - xAxisHeightPx - xTickOffset
	titleHeight := 0.0
	if ca.Show && ca.ShowTitle {
		titleHeight = textmeasure.PointToPixel(ca.TitleFontSize) + axisTitleGapPx
	}
	limit := (width + yTickOffset) * ca.MaximumSize / 100
	if yTickOffset > limit+titleHeight {
		width += yTickOffset - limit - titleHeight
		yTickOffset = limit + titleHeight
		maxLabelWidth = limit
	}
	c.Size = Size{Width: math.Max(0, width), Height: math.Max(0, height)}
	c.OriginX, c.OriginY = leftMargin, marginPx
	if !right {
		c.OriginX += yAxisWidthPx + yTickOffset
	}
	return maxLabelWidth
}

func (p *Pipeline) layoutChart(c Chart) Chart {
	s := p.settings
	yTickOffset, xTickOffset := p.tickOffsets(c.Axes)
	maxLabelWidth := p.place(&c, yTickOffset, xTickOffset)
	var categoryFormat, categoryName, valueName string
	if axis := p.table.CategoryColumn(dataset.Axis); axis != nil {
		categoryFormat, categoryName = axis.Format, axis.Name
	}
	if col := p.valueColumn(); col != nil {
		valueName = col.Name
	}
	smallMultiple := c.Facet != nil
	c.Axes = axes.Create(axes.Options{
		Settings:       s,
		ValueDomain:    c.valueDomain,
		Visible:        c.domainPoints,
		Scalar:         p.scalar,
		Width:          c.Size.Width,
		Height:         c.Size.Height,
		BarHeight:      c.barHeight,
		MaxLabelWidth:  maxLabelWidth,
		ValueFormat:    p.valueFormat(),
		CategoryFormat: categoryFormat,
		ValueName:      valueName,
		CategoryName:   categoryName,
		Measurer:       p.measurer,
		SmallMultiple:  smallMultiple,
	})
	c.BarThickness = barchart.Compute(c.Points, c.Axes, barchart.Options{
		Thickness:    c.barHeight,
		Clusters:     p.clusters(),
		ValueStacked: p.valueStacked(),
	})
	c.barHeight = barchart.BarHeight(c.Points, c.Size.Height, len(c.Axes.Category.Domain.Categories),
		s.CategoryAxis, c.Axes.Category.Continuous(), smallMultiple)
	return c
}

// finish reconciles bar thickness, places labels and applies the selection
// to the laid-out charts, and publishes them.
func (p *Pipeline) finish(st layoutState, grid *smallmultiple.Grid) {
	s := p.settings
	clusters := p.clusters()
	vd := &VisualData{
		Kind:              p.kind,
		Categories:        p.categories,
		VisibleCategories: category.Categories(p.window.VisibleGroups()),
		Legend:            p.legend,
		LegendNeeded:      schema.LegendNeeded(p.kind),
		HasHighlight:      p.hasHighlight,
		Scroll:            p.window.State(),
		Handle:            p.window.Handle(),
		Grid:              grid,
		LayoutPasses:      st.pass,
		window:            p.window,
		settings:          s,
	}
	for idx := range st.charts {
		c := st.charts[idx]
		if c.Axes.Category.Continuous() {
			c.BarThickness = barchart.ReconcileContinuous(c.Points, c.BarThickness, clusters)
		}
		for _, pt := range c.Points {
			if pt.BarCoordinates == nil || pt.BarCoordinates.IsZero() {
				p.metrics.zeroedBars.Inc()
			}
		}
		c.labels = p.labelFormatter(c.Axes.Value.Domain)
		suppressed := label.Place(c.Points, label.Options{
			Show:           s.CategoryLabels.Show,
			Position:       s.CategoryLabels.Position,
			OverflowText:   s.CategoryLabels.OverflowText,
			ShowBackground: s.CategoryLabels.ShowBackground,
			Font:           textmeasure.FromPoints(s.FontFamily, s.CategoryLabels.FontSize),
			Measurer:       p.measurer,
			Formatter:      c.labels,
			ChartWidth:     c.Size.Width,
		})
		if p.kind == schema.SameAxisAndLegend {
			suppressed += label.Dedup(c.Points)
		}
		p.metrics.suppressedLabels.Add(float64(suppressed))
		c.ConstantLine = p.constantLine(&c)
		vd.Charts = append(vd.Charts, &c)
		vd.Points = append(vd.Points, c.Points...)
	}
	if len(vd.Charts) > 0 {
		vd.Axes, vd.Size = vd.Charts[0].Axes, vd.Charts[0].Size
	}
	p.restoreSelection()
	vd.RestoredSelection = p.restored
	p.restored = nil
	p.applySelection()
	p.metrics.scrollPosition.Set(float64(vd.Scroll.Position))
	p.vd = vd
}

func (p *Pipeline) labelFormatter(domain continuousaxis.Range) *format.Formatter {
	cl := p.settings.CategoryLabels
	reference := math.Max(math.Abs(domain.Min), math.Abs(domain.Max))
	return format.New(p.valueFormat(),
		format.WithDisplayUnits(cl.DisplayUnits, reference),
		format.WithPrecision(cl.Precision),
	)
}

// constantLine returns c's constant line, or nil if none is shown.
func (p *Pipeline) constantLine(c *Chart) *ConstantLine {
	s := p.settings
	cl := s.ConstantLine
	if !cl.Show {
		return nil
	}
	sc := c.Axes.Value.Scale
	ret := &ConstantLine{
		Value: cl.Value,
		X:     sc.Apply(cl.Value),
	}
	if !cl.DataLabelShow {
		return ret
	}
	precision := -1
	if cl.Precision != nil {
		precision = *cl.Precision
	}
	f := format.New(p.valueFormat(),
		format.WithDisplayUnits(cl.DisplayUnits, math.Abs(cl.Value)),
		format.WithPrecision(precision),
	)
	ret.Text = label.ConstantLineText(cl.Text, cl.Name, cl.Value, f)
	font := textmeasure.FromPoints(s.FontFamily, s.CategoryLabels.FontSize)
	lc := label.ConstantLine(ret.X, c.Size.Height,
		sc.Apply(c.Axes.Value.Domain.Min), sc.Apply(c.Axes.Value.Domain.Max),
		p.measurer.Width(ret.Text, font), p.measurer.Height(ret.Text, font),
		cl.HorizontalPosition, cl.VerticalPosition)
	ret.Label = &lc
	return ret
}
