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

// Package scrollwindow pages a bar chart's categories through a window when
// there are more than fit in the plot.
//
// A Window is disabled, showing every category, until scrolling is allowed,
// the category axis is ordinal, and the categories outnumber its capacity:
// the number of categories fitting in the available height at the minimum
// category space.  Once enabled, the window shows capacity categories
// starting at its position, which lies in [0, PositionsCount].  Windows never
// split a category's points.
package scrollwindow

import (
	"math"

	"github.com/ilhamster/barviz/category"
	"github.com/ilhamster/barviz/points"
	"github.com/ilhamster/barviz/util"
)

// Scrollbar track metrics, in pixels.  An enabled window takes
// TrackSizePx+TrackMarginPx from the width of the chart.
const (
	TrackSizePx   = 10
	TrackMarginPx = 10
)

const (
	scrollEnabledKey        = "scroll_enabled"
	scrollPositionKey       = "scroll_position"
	scrollPositionsCountKey = "scroll_positions_count"
	scrollCapacityKey       = "scroll_capacity"
	scrollHandleOffsetPxKey = "scroll_handle_offset_px"
	scrollHandleHeightPxKey = "scroll_handle_height_px"
)

// Options configures Update.
type Options struct {
	// Allow is true if scrolling is permitted: it is configured, and the
	// category axis is ordinal.
	Allow bool
	// AvailableHeight is the height categories are laid out in.
	AvailableHeight float64
	// MinCategorySpace is the least height given to each category.
	MinCategorySpace float64
	// TrackHeight is the height of the scrollbar track.
	TrackHeight float64
}

// State is a snapshot of a Window.
type State struct {
	Enabled        bool
	Position       int
	PositionsCount int
	Capacity       int
}

// Handle is the position of the scrollbar handle along its track.
type Handle struct {
	OffsetPx, HeightPx float64
}

// Window is a scroll window over a chart's categories.  It is not safe for
// concurrent use.
type Window struct {
	enabled        bool
	position       int
	positionsCount int
	capacity       int
	trackHeight    float64

	groups        []*category.Group
	keys          []string
	visibleGroups []*category.Group
	visible       []*points.DataPoint
}

// New returns a new, disabled Window.
func New() *Window {
	return &Window{}
}

func keysOf(groups []*category.Group) []string {
	ret := make([]string, len(groups))
	for idx, g := range groups {
		ret[idx] = g.Key
	}
	return ret
}

func sameKeys(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for idx := range a {
		if a[idx] != b[idx] {
			return false
		}
	}
	return true
}

// Update recomputes the receiver's capacity and positions count for the
// provided category groups and metrics, enabling or disabling it, and
// returns the resulting State.  The position is reset to 0 if the set of
// categories changed, and is otherwise clamped into the new positions count.
func (w *Window) Update(groups []*category.Group, opts Options) State {
	keys := keysOf(groups)
	changed := !sameKeys(keys, w.keys)
	w.groups, w.keys = groups, keys
	w.trackHeight = opts.TrackHeight
	w.capacity = 0
	if opts.MinCategorySpace > 0 {
		w.capacity = int(math.Floor(opts.AvailableHeight / opts.MinCategorySpace))
	}
	w.positionsCount = len(groups) - w.capacity
	w.enabled = opts.Allow && w.positionsCount > 0
	if !w.enabled {
		w.position = 0
		w.visibleGroups = groups
		w.visible = category.Flatten(groups)
		return w.State()
	}
	if changed {
		w.position = 0
	}
	w.SetWindow(w.position)
	return w.State()
}

func (w *Window) clamp(position int) int {
	if position < 0 {
		return 0
	}
	if position > w.positionsCount {
		return w.positionsCount
	}
	return position
}

// SetWindow moves an enabled receiver to the provided position, clamped into
// [0, PositionsCount], and recomputes the visible categories.  It does
// nothing to a disabled receiver.
func (w *Window) SetWindow(position int) State {
	if !w.enabled {
		return w.State()
	}
	w.position = w.clamp(position)
	end := w.position + w.capacity
	if end > len(w.groups) {
		end = len(w.groups)
	}
	w.visibleGroups = w.groups[w.position:end]
	w.visible = category.Flatten(w.visibleGroups)
	return w.State()
}

// ScrollBy moves an enabled receiver by delta positions.
func (w *Window) ScrollBy(delta int) State {
	return w.SetWindow(w.position + delta)
}

// availableTrackPx returns the distance the handle may travel along the
// track, which is never 0.
func (w *Window) availableTrackPx() float64 {
	ret := w.trackHeight - w.handleHeight()
	if ret <= 0 {
		return 1
	}
	return ret
}

func (w *Window) handleHeight() float64 {
	if len(w.groups) == 0 {
		return 0
	}
	return w.trackHeight * float64(len(w.visibleGroups)) / float64(len(w.groups))
}

// DragTo moves an enabled receiver to the position corresponding to a handle
// dragged to offsetPx along the track.
func (w *Window) DragTo(offsetPx float64) State {
	if !w.enabled {
		return w.State()
	}
	return w.SetWindow(int(math.Round(offsetPx / w.availableTrackPx() * float64(w.positionsCount))))
}

// Handle returns the position of the scrollbar handle of the receiver.
func (w *Window) Handle() Handle {
	if !w.enabled || w.positionsCount <= 0 {
		return Handle{HeightPx: w.trackHeight}
	}
	offset := math.Round(float64(w.position) / float64(w.positionsCount) * w.availableTrackPx())
	return Handle{
		OffsetPx: math.Min(math.Max(offset, 0), w.availableTrackPx()),
		HeightPx: w.handleHeight(),
	}
}

// State returns a snapshot of the receiver.
func (w *Window) State() State {
	return State{
		Enabled:        w.enabled,
		Position:       w.position,
		PositionsCount: w.positionsCount,
		Capacity:       w.capacity,
	}
}

// Enabled returns true if the receiver is windowing its categories.
func (w *Window) Enabled() bool {
	return w.enabled
}

// VisibleGroups returns the category groups within the receiver.
func (w *Window) VisibleGroups() []*category.Group {
	return w.visibleGroups
}

// VisiblePoints returns the points of the categories within the receiver,
// in category order.
func (w *Window) VisiblePoints() []*points.DataPoint {
	return w.visible
}

// Define annotates with the receiver's state and handle position.
func (w *Window) Define() util.PropertyUpdate {
	h := w.Handle()
	return util.Chain(
		util.BoolProperty(scrollEnabledKey, w.enabled),
		util.IntegerProperty(scrollPositionKey, int64(w.position)),
		util.IntegerProperty(scrollPositionsCountKey, int64(w.positionsCount)),
		util.IntegerProperty(scrollCapacityKey, int64(w.capacity)),
		util.DoubleProperty(scrollHandleOffsetPxKey, h.OffsetPx),
		util.DoubleProperty(scrollHandleHeightPxKey, h.HeightPx),
	)
}
