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

package scrollwindow

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ilhamster/barviz/category"
	"github.com/ilhamster/barviz/points"
	testutil "github.com/ilhamster/barviz/test_util"
	"github.com/ilhamster/barviz/util"
)

// groups returns n categories 'c0'...'c{n-1}', each with two points.
func groups(prefix string, n int) []*category.Group {
	var pts []*points.DataPoint
	for idx := 0; idx < n; idx++ {
		cat := util.StringValue(fmt.Sprintf("%s%d", prefix, idx))
		pts = append(pts,
			&points.DataPoint{Category: cat, Value: 1},
			&points.DataPoint{Category: cat, Value: 2, SeriesIndex: 1},
		)
	}
	return category.GroupPoints(pts)
}

func categoriesOf(pts []*points.DataPoint) []string {
	var ret []string
	for _, c := range points.Categories(pts) {
		ret = append(ret, c.String())
	}
	return ret
}

var scenarioD = Options{
	Allow:            true,
	AvailableHeight:  500,
	MinCategorySpace: 25,
	TrackHeight:      500,
}

func TestUpdate(t *testing.T) {
	for _, test := range []struct {
		description string
		n           int
		opts        Options
		want        State
	}{{
		description: "overflowing categories enable the window",
		n:           50,
		opts:        scenarioD,
		want:        State{Enabled: true, PositionsCount: 30, Capacity: 20},
	}, {
		description: "categories that fit leave the window disabled",
		n:           20,
		opts:        scenarioD,
		want:        State{PositionsCount: 0, Capacity: 20},
	}, {
		description: "disallowed scrolling leaves the window disabled",
		n:           50,
		opts: Options{
			AvailableHeight:  500,
			MinCategorySpace: 25,
		},
		want: State{PositionsCount: 30, Capacity: 20},
	}, {
		description: "capacity is floored",
		n:           50,
		opts: Options{
			Allow:            true,
			AvailableHeight:  490,
			MinCategorySpace: 25,
		},
		want: State{Enabled: true, PositionsCount: 31, Capacity: 19},
	}} {
		t.Run(test.description, func(t *testing.T) {
			w := New()
			got := w.Update(groups("c", test.n), test.opts)
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("Got %v, diff (-want +got):\n%s", got, diff)
			}
		})
	}
}

func TestDisabledWindowShowsEverything(t *testing.T) {
	w := New()
	gs := groups("c", 3)
	w.Update(gs, scenarioD)
	if got := len(w.VisiblePoints()); got != 6 {
		t.Errorf("VisiblePoints() has %d points, want 6", got)
	}
	if got := len(w.VisibleGroups()); got != 3 {
		t.Errorf("VisibleGroups() has %d groups, want 3", got)
	}
	if got := w.SetWindow(2); got.Position != 0 {
		t.Errorf("SetWindow() moved a disabled window to %d", got.Position)
	}
}

func TestSetWindow(t *testing.T) {
	w := New()
	w.Update(groups("c", 50), scenarioD)
	for _, test := range []struct {
		description string
		position    int
		want        int
	}{{
		description: "within range",
		position:    7,
		want:        7,
	}, {
		description: "past the end clamps to the positions count",
		position:    30 + 5,
		want:        30,
	}, {
		description: "negative clamps to 0",
		position:    -3,
		want:        0,
	}} {
		t.Run(test.description, func(t *testing.T) {
			if got := w.SetWindow(test.position).Position; got != test.want {
				t.Errorf("SetWindow(%d) moved to %d, want %d", test.position, got, test.want)
			}
			visible := categoriesOf(w.VisiblePoints())
			if len(visible) != 20 {
				t.Fatalf("window shows %d categories, want 20", len(visible))
			}
			if want := fmt.Sprintf("c%d", test.want); visible[0] != want {
				t.Errorf("window starts at %s, want %s", visible[0], want)
			}
			if got := len(w.VisiblePoints()); got != 40 {
				t.Errorf("window shows %d points, want 40", got)
			}
		})
	}
}

func TestScrollBy(t *testing.T) {
	w := New()
	w.Update(groups("c", 50), scenarioD)
	w.ScrollBy(1)
	w.ScrollBy(1)
	if got := w.ScrollBy(-1).Position; got != 1 {
		t.Errorf("position = %d, want 1", got)
	}
	if got := w.ScrollBy(100).Position; got != 30 {
		t.Errorf("position = %d, want 30", got)
	}
	if got := w.ScrollBy(-100).Position; got != 0 {
		t.Errorf("position = %d, want 0", got)
	}
}

func TestDragTo(t *testing.T) {
	w := New()
	w.Update(groups("c", 50), scenarioD)
	// The handle is 500*20/50 = 200px high, leaving 300px of travel for 30
	// positions.
	if got, want := w.Handle(), (Handle{OffsetPx: 0, HeightPx: 200}); got != want {
		t.Errorf("Handle() = %v, want %v", got, want)
	}
	if got := w.DragTo(150).Position; got != 15 {
		t.Errorf("DragTo(150) moved to %d, want 15", got)
	}
	if got := w.Handle().OffsetPx; got != 150 {
		t.Errorf("handle offset = %v, want 150", got)
	}
	if got := w.DragTo(1000).Position; got != 30 {
		t.Errorf("DragTo(1000) moved to %d, want 30", got)
	}
	if got := w.DragTo(-20).Position; got != 0 {
		t.Errorf("DragTo(-20) moved to %d, want 0", got)
	}
}

func TestUpdateKeepsPosition(t *testing.T) {
	w := New()
	gs := groups("c", 50)
	w.Update(gs, scenarioD)
	w.SetWindow(25)
	// A taller plot fits more categories, leaving fewer positions.
	taller := scenarioD
	taller.AvailableHeight = 750
	if got := w.Update(gs, taller); got.Position != 20 || got.PositionsCount != 20 {
		t.Errorf("Update() = %v, want position 20 of 20", got)
	}
	w.SetWindow(10)
	if got := w.Update(gs, scenarioD).Position; got != 10 {
		t.Errorf("resize moved position to %d, want 10", got)
	}
	if got := w.Update(groups("d", 50), scenarioD).Position; got != 0 {
		t.Errorf("new categories left position at %d, want 0", got)
	}
}

func TestDefine(t *testing.T) {
	w := New()
	w.Update(groups("c", 50), scenarioD)
	w.SetWindow(30)
	if msg, failed := testutil.NewUpdateComparator().
		WithTestUpdates(w.Define()).
		WithWantUpdates(
			util.BoolProperty(scrollEnabledKey, true),
			util.IntegerProperty(scrollPositionKey, 30),
			util.IntegerProperty(scrollPositionsCountKey, 30),
			util.IntegerProperty(scrollCapacityKey, 20),
			util.DoubleProperty(scrollHandleOffsetPxKey, 300),
			util.DoubleProperty(scrollHandleHeightPxKey, 200),
		).
		Compare(t); failed {
		t.Fatal(msg)
	}
}
