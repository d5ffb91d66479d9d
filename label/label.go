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

// Package label places data labels beside bars, and labels exported chart
// elements.
//
// Place positions each bar's formatted value along the value axis per the
// configured Position, keeping the label within the chart (or within its
// bar, if it may not overflow) with a fixed gap.  Labels that cannot be
// placed are suppressed, leaving the point's LabelCoordinates nil.  Label
// coordinates give the label's left edge and text baseline.
package label

import (
	"github.com/ilhamster/barviz/format"
	"github.com/ilhamster/barviz/points"
	textmeasure "github.com/ilhamster/barviz/text_measure"
	"github.com/ilhamster/barviz/util"
)

const (
	// labelFormatKey specifies the label format string used to label items.
	labelFormatKey = "label_format"

	labelTextKey   = "label_text"
	labelXKey      = "label_x"
	labelYKey      = "label_y"
	labelWidthKey  = "label_width"
	labelHeightKey = "label_height"
)

const (
	dataLabelMargin  = 8
	backgroundMargin = 6
	gap              = 6

	// Label backgrounds pad their label's box, and are shifted left and up
	// from its origin.
	BackgroundWidthPadding  = 17.2
	BackgroundHeightPadding = 8
	BackgroundXShift        = 7.5
	BackgroundYShift        = 3

	// Labels closer than these margins are deduplicated.
	dedupHorizontalMargin = 8
	dedupVerticalMargin   = 2

	constantLineMarginAcross = 8
	constantLineMarginAlong  = 5
)

// Position is the anchor of data labels relative to their bar.
type Position string

const (
	Auto         Position = "auto"
	InsideEnd    Position = "end"
	OutsideEnd   Position = "outside"
	InsideBase   Position = "base"
	InsideCenter Position = "center"
)

// Valid returns true if the receiver is a known Position.
func (p Position) Valid() bool {
	switch p {
	case Auto, InsideEnd, OutsideEnd, InsideBase, InsideCenter:
		return true
	}
	return false
}

// CanOverflow returns true if labels at the provided position may extend
// beyond their bar.  Centered labels never overflow; outside and automatic
// labels always may; others may if overflowText is set.
func CanOverflow(pos Position, overflowText bool) bool {
	switch pos {
	case InsideCenter:
		return false
	case OutsideEnd, Auto:
		return true
	}
	return overflowText
}

// Options configures Place.
type Options struct {
	Show           bool
	Position       Position
	OverflowText   bool
	ShowBackground bool
	Font           textmeasure.Font
	Measurer       textmeasure.Measurer
	// Formatter formats label values.
	Formatter *format.Formatter
	// ChartWidth bounds overflowing labels.
	ChartWidth float64
}

func (o Options) backgroundMargin() float64 {
	if o.ShowBackground {
		return backgroundMargin
	}
	return 0
}

func (o Options) backgroundShift() float64 {
	if o.ShowBackground {
		return BackgroundXShift
	}
	return 0
}

func (o Options) backgroundHeight() float64 {
	if o.ShowBackground {
		return BackgroundHeightPadding
	}
	return 0
}

// anchor returns the unclamped left edge of a label of the provided width.
// Negative values mirror the anchor about the bar's start.
func (o Options) anchor(value, width float64, bar points.Rect) float64 {
	margin := dataLabelMargin + o.backgroundMargin()
	if value >= 0 {
		switch o.Position {
		case InsideEnd:
			return bar.X + bar.Width - margin - width
		case InsideBase:
			return bar.X + margin
		case InsideCenter:
			return bar.X + bar.Width/2 - width/2
		default:
			return bar.X + bar.Width + margin
		}
	}
	switch o.Position {
	case InsideEnd:
		return bar.X + margin
	case InsideBase:
		return bar.X + bar.Width - margin - width
	case InsideCenter:
		return bar.X + bar.Width/2 - width/2
	default:
		return bar.X - margin - width
	}
}

// clamp keeps a label starting at x, of the provided width, within bounds:
// the chart if it may overflow, or otherwise its bar.  It returns false if
// no position keeps the gap to the bounds.
func (o Options) clamp(x, width float64, bar points.Rect) (float64, bool) {
	shift := o.backgroundShift()
	minX, maxX := 1.0, o.ChartWidth
	if !CanOverflow(o.Position, o.OverflowText) {
		minX, maxX = bar.X, bar.X+bar.Width
	}
	if x-shift < minX {
		x = minX + shift
		if x+width+shift+gap > maxX {
			return 0, false
		}
	} else if x+width+shift+gap > maxX {
		x = maxX - width - shift - gap
		if x-shift < minX {
			return 0, false
		}
	}
	return x, true
}

// Text returns the label text of the provided point.
func (o Options) Text(p *points.DataPoint) string {
	if o.Formatter == nil {
		return format.New("").Number(p.Value)
	}
	return o.Formatter.Number(p.Value)
}

// Place computes the label coordinates of each of pts, returning the number
// of labels suppressed.  Points without geometry, or with zeroed geometry,
// get no label.
func Place(pts []*points.DataPoint, opts Options) int {
	suppressed := 0
	for _, p := range pts {
		p.LabelCoordinates = nil
		if !opts.Show || p.BarCoordinates == nil || p.BarCoordinates.IsZero() {
			continue
		}
		bar := *p.BarCoordinates
		text := opts.Text(p)
		width, height := opts.Measurer.Width(text, opts.Font), opts.Measurer.Height(text, opts.Font)
		if !opts.OverflowText && height+opts.backgroundHeight() >= bar.Height {
			suppressed++
			continue
		}
		x, ok := opts.clamp(opts.anchor(p.Value, width, bar), width, bar)
		if !ok {
			suppressed++
			continue
		}
		p.LabelCoordinates = &points.Rect{
			X:      x,
			Y:      bar.Y + bar.Height/2 + (height-3)/2,
			Width:  width,
			Height: height,
		}
	}
	return suppressed
}

func intersects(a, b *points.Rect) bool {
	return a.X < b.X+b.Width+dedupHorizontalMargin &&
		b.X < a.X+a.Width+dedupHorizontalMargin &&
		a.Y < b.Y+b.Height+dedupVerticalMargin &&
		b.Y < a.Y+a.Height+dedupVerticalMargin
}

// Dedup suppresses any label intersecting a label accepted before it, in
// order, returning the number suppressed.
func Dedup(pts []*points.DataPoint) int {
	accepted := []*points.Rect{}
	suppressed := 0
	for _, p := range pts {
		lc := p.LabelCoordinates
		if lc == nil {
			continue
		}
		ok := true
		for _, a := range accepted {
			if intersects(lc, a) {
				ok = false
				break
			}
		}
		if !ok {
			p.LabelCoordinates = nil
			suppressed++
			continue
		}
		accepted = append(accepted, lc)
	}
	return suppressed
}

// Background returns the background rectangle of a label with the provided
// coordinates.
func Background(lc points.Rect) points.Rect {
	return points.Rect{
		X:      lc.X - BackgroundXShift,
		Y:      lc.Y - lc.Height - BackgroundYShift,
		Width:  lc.Width + BackgroundWidthPadding,
		Height: lc.Height + BackgroundHeightPadding,
	}
}

// HorizontalPosition places a constant line's label left or right of it.
type HorizontalPosition string

const (
	Left  HorizontalPosition = "left"
	Right HorizontalPosition = "right"
)

// VerticalPosition places a constant line's label at its top or bottom.
type VerticalPosition string

const (
	Top    VerticalPosition = "top"
	Bottom VerticalPosition = "bottom"
)

// TextMode selects the text of a constant line's label.
type TextMode string

const (
	Name         TextMode = "name"
	Value        TextMode = "value"
	NameAndValue TextMode = "nameAndValue"
)

// ConstantLineText returns the label text of a constant line.
func ConstantLineText(mode TextMode, name string, value float64, f *format.Formatter) string {
	switch mode {
	case Value:
		return f.Number(value)
	case NameAndValue:
		return name + " " + f.Number(value)
	}
	return name
}

// ConstantLine returns the coordinates of the label of a constant line at x,
// spanning a plot of the provided height whose value axis runs from minX to
// maxX.  The label is kept within the value axis.
func ConstantLine(x, plotHeight, minX, maxX, width, height float64, hp HorizontalPosition, vp VerticalPosition) points.Rect {
	along := plotHeight - height
	if vp == Top {
		along = constantLineMarginAlong
	}
	across := x + constantLineMarginAcross
	if hp == Left {
		across = x - (constantLineMarginAcross + width)
	}
	if across <= minX {
		across = minX + constantLineMarginAcross
	} else if across >= maxX {
		across = maxX - (width + constantLineMarginAcross)
	}
	return points.Rect{X: across, Y: along, Width: width, Height: height}
}

// Format returns a PropertyUpdate recording the number format string that
// labels within the annotated Datum were rendered with.
func Format(labelFormat string) util.PropertyUpdate {
	return util.StringProperty(labelFormatKey, labelFormat)
}

// Annotate returns a PropertyUpdate annotating a label Datum with its text
// and coordinates.
func Annotate(text string, lc points.Rect) util.PropertyUpdate {
	return util.Chain(
		util.StringProperty(labelTextKey, text),
		util.DoubleProperty(labelXKey, lc.X),
		util.DoubleProperty(labelYKey, lc.Y),
		util.DoubleProperty(labelWidthKey, lc.Width),
		util.DoubleProperty(labelHeightKey, lc.Height),
	)
}
