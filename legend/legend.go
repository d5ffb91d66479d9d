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

// Package legend builds the legend of a bar chart: one colored entry per
// legend series, or per value column when several values are bound without
// a legend.
package legend

import (
	"math"

	"github.com/ilhamster/barviz/color"
	"github.com/ilhamster/barviz/config"
	"github.com/ilhamster/barviz/dataset"
	"github.com/ilhamster/barviz/points"
	"github.com/ilhamster/barviz/schema"
	textmeasure "github.com/ilhamster/barviz/text_measure"
	"github.com/ilhamster/barviz/util"
)

const (
	legendTitleKey    = "legend_title"
	legendPositionKey = "legend_position"
	entryLabelKey     = "legend_entry_label"
)

// Legend box metrics, in pixels.
const (
	markerPx  = 10
	markerGap = 5
	entryGap  = 10
	paddingPx = 5
)

// Entry is a single legend entry.
type Entry struct {
	Value util.V
	Label string
	Color string
}

// Legend is the legend of a chart.
type Legend struct {
	Title    string
	Position config.LegendPosition
	Entries  []Entry
	show     bool
}

// Build returns the legend of the provided table of the provided kind,
// coloring entries with r.  Default tables have no legend entries.
func Build(kind schema.Kind, t *dataset.Table, r *color.Resolver, s config.Legend) *Legend {
	ret := &Legend{
		Position: s.Position,
		show:     s.Show,
	}
	switch kind {
	case schema.LegendFilled, schema.SameAxisAndLegend:
		for _, v := range t.LegendValues() {
			label := points.Normalize(v).String()
			ret.Entries = append(ret.Entries, Entry{
				Value: v,
				Label: label,
				Color: r.Assign(label),
			})
		}
	case schema.MultipleValues:
		seen := map[string]struct{}{}
		for _, col := range t.MeasureColumns(dataset.Value) {
			if _, ok := seen[col.Name]; ok {
				continue
			}
			seen[col.Name] = struct{}{}
			ret.Entries = append(ret.Entries, Entry{
				Value: util.StringValue(col.Name),
				Label: col.Name,
				Color: r.Assign(col.Name),
			})
		}
	}
	if s.ShowTitle {
		ret.Title = s.Name
		if ret.Title == "" && t.Grouping != nil {
			ret.Title = t.Grouping.Name
		}
	}
	return ret
}

// Colors returns the colors of the receiver's entries, in order.
func (l *Legend) Colors() []string {
	ret := make([]string, len(l.Entries))
	for idx, e := range l.Entries {
		ret[idx] = e.Color
	}
	return ret
}

// Clusters returns the number of series sharing each category: the number
// of entries of a legend-bearing kind, or 1.
func (l *Legend) Clusters(kind schema.Kind) int {
	if !schema.LegendNeeded(kind) || len(l.Entries) == 0 {
		return 1
	}
	return len(l.Entries)
}

// Rendered returns true if the receiver is shown and has entries.
func (l *Legend) Rendered() bool {
	return l != nil && l.show && len(l.Entries) > 0
}

// Size returns the space the receiver takes from a chart of the provided
// width: its height when drawn above or below the chart, with entries
// wrapping onto further rows, or its width when drawn beside it.  The other
// extent is 0.  An unrendered legend takes no space.
func (l *Legend) Size(m textmeasure.Measurer, family string, fontSizePt, chartWidth float64) (width, height float64) {
	if !l.Rendered() {
		return 0, 0
	}
	font := textmeasure.FromPoints(family, fontSizePt)
	rowHeight := float64(markerPx)
	for _, e := range l.Entries {
		rowHeight = math.Max(rowHeight, math.Ceil(m.Height(e.Label, font)))
	}
	if l.Position.Vertical() {
		rows, x := 1, 0.0
		if l.Title != "" {
			x = m.Width(l.Title, font)
		}
		for _, e := range l.Entries {
			w := markerPx + markerGap + m.Width(e.Label, font)
			if x > 0 && chartWidth > 0 && x+entryGap+w > chartWidth {
				rows++
				x = 0
			}
			if x > 0 {
				x += entryGap
			}
			x += w
		}
		return 0, float64(rows)*rowHeight + 2*paddingPx
	}
	labels := make([]string, len(l.Entries))
	for idx, e := range l.Entries {
		labels[idx] = e.Label
	}
	width = markerPx + markerGap + textmeasure.MaxWidth(m, font, labels...)
	if l.Title != "" {
		width = math.Max(width, m.Width(l.Title, font))
	}
	return width + 2*paddingPx, 0
}

// Define adds the receiver, with a child per entry, to db.
func (l *Legend) Define(db util.DataBuilder) {
	ldb := db.Child().With(
		util.StringProperty(legendPositionKey, string(l.Position)),
		util.If(l.Title != "", util.StringProperty(legendTitleKey, l.Title)),
	)
	for _, e := range l.Entries {
		ldb.Child().With(
			util.StringProperty(entryLabelKey, e.Label),
			color.Fill(e.Color),
		)
	}
}
