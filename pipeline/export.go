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

	barchart "github.com/ilhamster/barviz/bar_chart"
	"github.com/ilhamster/barviz/category"
	"github.com/ilhamster/barviz/config"
	"github.com/ilhamster/barviz/label"
	"github.com/ilhamster/barviz/schema"
	"github.com/ilhamster/barviz/style"
	"github.com/ilhamster/barviz/util"
)

const (
	visualClearedKey      = "visual_cleared"
	visualKindKey         = "visual_kind"
	visualHasHighlightKey = "visual_has_highlight"
	visualLayoutPassesKey = "visual_layout_passes"

	plotWidthPxKey  = "plot_width_px"
	plotHeightPxKey = "plot_height_px"
	plotXPxKey      = "plot_x_px"
	plotYPxKey      = "plot_y_px"

	constantLineValueKey = "constant_line_value"
	constantLineXPxKey   = "constant_line_x_px"
)

// Export writes vd into db: the visual's own properties, then a legend child
// if the legend is rendered, then a child per chart.  Each chart holds a
// category axis child, a value axis child with a child per tick, a bar
// chart child, and a constant line child if one is shown.
func Export(db util.DataBuilder, vd *VisualData) {
	if vd == nil || vd.Cleared {
		db.With(util.BoolProperty(visualClearedKey, true))
		return
	}
	db.With(
		util.StringProperty(visualKindKey, vd.Kind.String()),
		util.BoolProperty(visualHasHighlightKey, vd.HasHighlight),
		util.IntegerProperty(visualLayoutPassesKey, int64(vd.LayoutPasses)),
	)
	if vd.window != nil {
		db.With(vd.window.Define())
	}
	if vd.Legend.Rendered() {
		vd.Legend.Define(db)
	}
	stacked := vd.Kind == schema.LegendFilled
	valueStacked := vd.settings.StackingMode().AlongValueAxis(vd.Kind)
	for _, c := range vd.Charts {
		exportChart(db.Child(), c, vd.settings, stacked, valueStacked)
	}
}

func exportChart(db util.DataBuilder, c *Chart, s config.Settings, stacked, valueStacked bool) {
	if c.Facet != nil {
		db.With(c.Facet.Define(s.SmallMultiple.ShowChartTitle))
	}
	db.With(
		util.DoubleProperty(plotWidthPxKey, c.Size.Width),
		util.DoubleProperty(plotHeightPxKey, c.Size.Height),
		util.DoubleProperty(plotXPxKey, c.OriginX),
		util.DoubleProperty(plotYPxKey, c.OriginY),
	)
	cdb := db.Child().With(c.Axes.Category.Define())
	c.Axes.Category.DefineTicks(cdb)
	vdb := db.Child().With(c.Axes.Value.Define())
	if s.ValueAxis.ShowGridlines {
		vdb.With(style.Gridline(s.ValueAxis.LineStyle, s.ValueAxis.StrokeWidth).Define())
	}
	c.Axes.Value.DefineTicks(vdb)
	bc := barchart.New(db.Child(), c.Axes.Value, &barchart.RenderSettings{
		BarWidthCatPx: int64(math.Round(c.BarThickness)),
		ValueStacked:  valueStacked,
	})
	if s.CategoryLabels.Show && c.labels != nil {
		bc.With(label.Format(c.labels.FormatString()))
	}
	for _, g := range category.GroupPoints(c.Points) {
		lane := bc.Category(category.New(g.Category))
		var sb *barchart.StackedBars
		if stacked {
			sb = lane.StackedBars()
		}
		for _, p := range g.Points {
			var bar *barchart.Bar
			if sb != nil {
				bar = sb.Bar(p)
			} else {
				bar = lane.Bar(p)
			}
			bar.Tooltips(p.Tooltips)
			if p.LabelCoordinates != nil && c.labels != nil {
				bar.Label(c.labels.Number(p.Value), p.LabelCoordinates)
			}
		}
	}
	if cl := c.ConstantLine; cl != nil {
		ldb := db.Child().With(
			util.DoubleProperty(constantLineValueKey, cl.Value),
			util.DoubleProperty(constantLineXPxKey, cl.X),
			style.ConstantLine(s.ConstantLine.LineStyle, s.ConstantLine.LineColor, s.ConstantLine.Opacity()).Define(),
		)
		if cl.Label != nil {
			ldb.Child().With(label.Annotate(cl.Text, *cl.Label))
		}
	}
}
