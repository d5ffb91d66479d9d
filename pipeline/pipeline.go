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

// Package pipeline turns role-tagged tables into laid-out bar chart data.
//
// A Pipeline owns the state of a single chart across updates: its settings,
// data points, scroll window and selection.  Each update runs synchronously
// to completion, laying the chart out in exactly three passes, and yields a
// VisualData describing everything the renderer draws.  A Pipeline is not
// safe for concurrent use.
package pipeline

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/ilhamster/barviz/category"
	categoryaxis "github.com/ilhamster/barviz/category_axis"
	"github.com/ilhamster/barviz/color"
	"github.com/ilhamster/barviz/config"
	"github.com/ilhamster/barviz/dataset"
	"github.com/ilhamster/barviz/format"
	"github.com/ilhamster/barviz/legend"
	"github.com/ilhamster/barviz/points"
	"github.com/ilhamster/barviz/schema"
	scrollwindow "github.com/ilhamster/barviz/scroll_window"
	"github.com/ilhamster/barviz/selection"
	smallmultiple "github.com/ilhamster/barviz/small_multiple"
	textmeasure "github.com/ilhamster/barviz/text_measure"
	"github.com/ilhamster/barviz/util"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// ErrNoTable is returned for a data update without a table.
	ErrNoTable = errors.New("data update has no table")
	// ErrNoData is returned for updates that need data before any data
	// update has been handled.
	ErrNoData = errors.New("no data has been loaded")
)

const (
	measureCacheSize = 4096
	gradientSpace    = "saturation"
	gradientLow      = "#ffffff"
)

// UpdateKind is the kind of an Update.
type UpdateKind int

const (
	// Data delivers a new table.
	Data UpdateKind = iota
	// All delivers a new table and settings.
	All
	// Resize changes the viewport, reusing the current points.
	Resize
	// ResizeEnd marks the end of a resize.  It is ignored.
	ResizeEnd
)

var updateKindNames = map[UpdateKind]string{
	Data:      "data",
	All:       "all",
	Resize:    "resize",
	ResizeEnd: "resize_end",
}

func (uk UpdateKind) String() string {
	return updateKindNames[uk]
}

// Viewport is the size, in pixels, of the whole visual.
type Viewport struct {
	Width, Height float64
}

// Update is a single update event from the host.
type Update struct {
	Kind     UpdateKind
	Viewport Viewport
	// Table is required for Data and All updates.
	Table *dataset.Table
	// Settings, if non-nil, replaces the current settings on Data and All
	// updates.
	Settings *config.Settings
}

// Option configures a Pipeline.
type Option func(p *Pipeline) error

// WithLogger directs the Pipeline's logs to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		p.logger = logger
		return nil
	}
}

// WithRegisterer registers the Pipeline's metrics with reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(p *Pipeline) error {
		return p.metrics.registerWith(reg)
	}
}

// WithMeasurer measures text with m, instead of with a cached
// textmeasure.Basic.
func WithMeasurer(m textmeasure.Measurer) Option {
	return func(p *Pipeline) error {
		p.measurer = m
		return nil
	}
}

// WithPalette assigns legend colors from palette instead of from
// color.DefaultPalette.
func WithPalette(palette ...string) Option {
	return func(p *Pipeline) error {
		p.palette = palette
		return nil
	}
}

// Pipeline lays out a single bar chart across updates.
type Pipeline struct {
	logger   *slog.Logger
	metrics  *metrics
	measurer textmeasure.Measurer
	palette  []string

	settings config.Settings
	viewport Viewport
	loaded   bool

	table        *dataset.Table
	kind         schema.Kind
	legend       *legend.Legend
	all          []*points.DataPoint
	groups       []*category.Group
	categories   []util.V
	hasHighlight bool
	scalar       bool
	continuous   bool
	facets       []*smallmultiple.Facet

	window            *scrollwindow.Window
	selection         *selection.Set
	selectionRestored bool
	restored          []dataset.Identity

	vd *VisualData
}

// New returns a new Pipeline with default settings.
func New(opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		logger:    slog.Default(),
		metrics:   newMetrics(),
		settings:  config.Default(),
		window:    scrollwindow.New(),
		selection: selection.New(),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	if p.measurer == nil {
		cached, err := textmeasure.NewCached(textmeasure.Basic{}, measureCacheSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create text measurer: %w", err)
		}
		p.measurer = cached
	}
	return p, nil
}

// Settings returns the settings in effect.
func (p *Pipeline) Settings() config.Settings {
	return p.settings
}

// VisualData returns the result of the latest update, or nil if there has
// been none.
func (p *Pipeline) VisualData() *VisualData {
	return p.vd
}

// Update handles a single update event, returning the chart's new
// VisualData.  ResizeEnd updates are ignored, returning the current
// VisualData.  Tables lacking an Axis or Value column clear the chart.
func (p *Pipeline) Update(u Update) (*VisualData, error) {
	p.metrics.updates.WithLabelValues(u.Kind.String()).Inc()
	if u.Kind == ResizeEnd {
		p.logger.Warn("dropped update", "kind", u.Kind)
		return p.vd, nil
	}
	fullUpdate := u.Kind == Data || u.Kind == All
	if fullUpdate {
		if u.Table == nil {
			return nil, ErrNoTable
		}
		if u.Settings != nil {
			if err := u.Settings.Validate(); err != nil {
				return nil, err
			}
			p.settings = u.Settings.Normalize()
		}
		if !schema.Renderable(u.Table) {
			p.clear()
			p.logger.Debug("cleared chart", "kind", u.Kind)
			return p.vd, nil
		}
		p.load(u.Table)
	} else if !p.loaded {
		return nil, ErrNoData
	}
	p.viewport = u.Viewport
	p.logger.Debug("update",
		"kind", u.Kind,
		"schema", p.kind,
		"points", len(p.all),
		"categories", len(p.groups),
	)
	p.layout()
	return p.vd, nil
}

func (p *Pipeline) clear() {
	p.loaded = false
	p.table = nil
	p.legend = nil
	p.all = nil
	p.groups = nil
	p.categories = nil
	p.facets = nil
	p.hasHighlight = false
	p.vd = &VisualData{Cleared: true}
}

// load classifies and builds the points of t.
func (p *Pipeline) load(t *dataset.Table) {
	s := p.settings
	p.loaded = true
	p.table = t
	p.kind = schema.Classify(t)
	resolver := color.NewResolver(s.DataPoint.Overrides(), p.palette...)
	p.legend = legend.Build(p.kind, t, resolver, s.Legend)
	p.all = points.Build(p.kind, t, points.Options{
		Stacking:     s.StackingMode(),
		LegendColors: p.legend.Colors(),
		Colors:       resolver,
		DefaultFill:  s.DataPoint.Fill,
	})
	p.applyGradient()
	p.groups = category.GroupPoints(p.all)
	p.categories = points.Categories(p.all)
	p.hasHighlight = false
	for _, pt := range p.all {
		if pt.Highlight {
			p.hasHighlight = true
			break
		}
	}
	p.checkFormats(t)
	p.scalar = t.CategoryIsScalar()
	p.continuous = categoryaxis.IsContinuous(p.scalar, s.CategoryAxis)
	p.facets = nil
	if smallmultiple.Enabled(p.all) {
		p.facets = smallmultiple.Split(p.all)
	}
}

// checkFormats warns of column format strings that cannot be parsed, whose
// values are then formatted raw.
func (p *Pipeline) checkFormats(t *dataset.Table) {
	for _, cols := range [][]*dataset.Column{t.Categories, t.Measures} {
		for _, col := range cols {
			if col.Format != "" && !format.New(col.Format).Valid() {
				p.logger.Warn("unparseable format string", "column", col.Name, "format", col.Format)
			}
		}
	}
}

// applyGradient colors points carrying a color saturation along a gradient
// ending at the default fill.
func (p *Pipeline) applyGradient() {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, pt := range p.all {
		if sat, ok := pt.ColorSaturation.Number(); ok {
			lo, hi = math.Min(lo, sat), math.Max(hi, sat)
		}
	}
	if lo > hi {
		return
	}
	space := color.NewSpace(gradientSpace, gradientLow, p.settings.DataPoint.Fill)
	for _, pt := range p.all {
		sat, ok := pt.ColorSaturation.Number()
		if !ok {
			continue
		}
		pos := 1.0
		if hi > lo {
			pos = (sat - lo) / (hi - lo)
		}
		c, err := space.Interpolate(pos)
		if err != nil {
			p.logger.Warn("failed to interpolate gradient color", "fill", p.settings.DataPoint.Fill, "err", err)
			return
		}
		pt.Color = c
	}
}

// ScrollBy scrolls the window by delta categories and lays the chart out
// again.
func (p *Pipeline) ScrollBy(delta int) (*VisualData, error) {
	return p.scroll(func() scrollwindow.State { return p.window.ScrollBy(delta) })
}

// SetWindow scrolls the window to position and lays the chart out again.
func (p *Pipeline) SetWindow(position int) (*VisualData, error) {
	return p.scroll(func() scrollwindow.State { return p.window.SetWindow(position) })
}

// DragTo moves the scrollbar handle to offsetPx along its track and lays the
// chart out again.
func (p *Pipeline) DragTo(offsetPx float64) (*VisualData, error) {
	return p.scroll(func() scrollwindow.State { return p.window.DragTo(offsetPx) })
}

func (p *Pipeline) scroll(move func() scrollwindow.State) (*VisualData, error) {
	if !p.loaded {
		return nil, ErrNoData
	}
	before := p.window.State()
	after := move()
	p.logger.Debug("scroll", "from", before.Position, "to", after.Position, "positions", after.PositionsCount)
	p.layout()
	return p.vd, nil
}

// Select toggles the selection of id.  With multiSelect, the rest of the
// selection is kept.
func (p *Pipeline) Select(id dataset.Identity, multiSelect bool) (*VisualData, error) {
	if !p.loaded {
		return nil, ErrNoData
	}
	p.selection.Toggle(id, multiSelect)
	p.applySelection()
	return p.vd, nil
}

// SelectRect selects the visible bars intersecting r, in plot coordinates.
func (p *Pipeline) SelectRect(r points.Rect) (*VisualData, error) {
	if !p.loaded {
		return nil, ErrNoData
	}
	p.selection.Select(selection.Lasso(p.vd.Points, r)...)
	p.applySelection()
	return p.vd, nil
}

// ClearSelection deselects everything.
func (p *Pipeline) ClearSelection() (*VisualData, error) {
	if !p.loaded {
		return nil, ErrNoData
	}
	p.selection.Clear()
	p.applySelection()
	return p.vd, nil
}

// PersistedSelection returns the current selection, for the host to persist.
func (p *Pipeline) PersistedSelection() []string {
	return p.selection.Persisted()
}

func (p *Pipeline) applySelection() {
	selection.Apply(p.all, p.selection, p.hasHighlight)
}

// restoreSelection selects the points matching the persisted selection, once
// per Pipeline.
func (p *Pipeline) restoreSelection() {
	if p.selectionRestored {
		return
	}
	p.selectionRestored = true
	ids := selection.Restore(p.all, p.settings.Selection)
	if len(ids) == 0 {
		return
	}
	p.selection.Select(ids...)
	p.restored = ids
	p.logger.Debug("restored selection", "identities", len(ids))
}
