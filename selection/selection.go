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

// Package selection tracks the bars a user has selected, and dims the bars
// that are neither selected nor highlighted.
//
// Selections are sets of host-supplied identity tokens.  They may be
// persisted as the list of their tokens, and restored from that list against
// a new set of points.
package selection

import (
	"github.com/ilhamster/barviz/dataset"
	"github.com/ilhamster/barviz/points"
)

// Fill opacities of dimmed and undimmed bars.
const (
	DimmedOpacity  = 0.4
	DefaultOpacity = 1.0
)

// Set is an ordered set of selected identities.  The zero Set is empty.
type Set struct {
	ids   []dataset.Identity
	index map[dataset.Identity]struct{}
}

// New returns a Set holding the provided identities, deduplicated in order.
func New(ids ...dataset.Identity) *Set {
	ret := &Set{}
	for _, id := range ids {
		ret.add(id)
	}
	return ret
}

func (s *Set) add(id dataset.Identity) {
	if s.index == nil {
		s.index = map[dataset.Identity]struct{}{}
	}
	if _, ok := s.index[id]; ok {
		return
	}
	s.index[id] = struct{}{}
	s.ids = append(s.ids, id)
}

func (s *Set) remove(id dataset.Identity) {
	if _, ok := s.index[id]; !ok {
		return
	}
	delete(s.index, id)
	for idx, other := range s.ids {
		if other == id {
			s.ids = append(s.ids[:idx:idx], s.ids[idx+1:]...)
			return
		}
	}
}

// Has returns true if id is selected.
func (s *Set) Has(id dataset.Identity) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[id]
	return ok
}

// Empty returns true if nothing is selected.
func (s *Set) Empty() bool {
	return s == nil || len(s.ids) == 0
}

// IDs returns the selected identities, in selection order.
func (s *Set) IDs() []dataset.Identity {
	if s == nil {
		return nil
	}
	return append([]dataset.Identity{}, s.ids...)
}

// Toggle selects id.  With multiSelect, id's selection is flipped and the
// rest of the selection is kept.  Otherwise, id becomes the only selection,
// unless it already was, in which case the selection is cleared.
func (s *Set) Toggle(id dataset.Identity, multiSelect bool) {
	if multiSelect {
		if s.Has(id) {
			s.remove(id)
		} else {
			s.add(id)
		}
		return
	}
	if len(s.ids) == 1 && s.Has(id) {
		s.Clear()
		return
	}
	s.Clear()
	s.add(id)
}

// Select replaces the selection with ids.
func (s *Set) Select(ids ...dataset.Identity) {
	s.Clear()
	for _, id := range ids {
		s.add(id)
	}
}

// Clear empties the selection.
func (s *Set) Clear() {
	s.ids = nil
	s.index = nil
}

// Persisted returns the selection as a list of tokens.
func (s *Set) Persisted() []string {
	ret := make([]string, 0, len(s.IDs()))
	for _, id := range s.IDs() {
		ret = append(ret, string(id))
	}
	return ret
}

// Restore returns the identities of all points matching a persisted
// selection, in the order the points first appear.  Persisted tokens
// matching no point are dropped.
func Restore(all []*points.DataPoint, persisted []string) []dataset.Identity {
	if len(persisted) == 0 {
		return nil
	}
	want := make(map[dataset.Identity]struct{}, len(persisted))
	for _, token := range persisted {
		want[dataset.Identity(token)] = struct{}{}
	}
	var ret []dataset.Identity
	seen := map[dataset.Identity]struct{}{}
	for _, p := range all {
		if _, ok := want[p.Identity]; !ok {
			continue
		}
		if _, ok := seen[p.Identity]; ok {
			continue
		}
		seen[p.Identity] = struct{}{}
		ret = append(ret, p.Identity)
	}
	return ret
}

// Lasso returns the identities of the placed bars of pts intersecting r, in
// order.
func Lasso(pts []*points.DataPoint, r points.Rect) []dataset.Identity {
	var ret []dataset.Identity
	seen := map[dataset.Identity]struct{}{}
	for _, p := range pts {
		b := p.BarCoordinates
		if b == nil || b.IsZero() || p.Identity == "" {
			continue
		}
		if b.X > r.X+r.Width || b.X+b.Width < r.X || b.Y > r.Y+r.Height || b.Y+b.Height < r.Y {
			continue
		}
		if _, ok := seen[p.Identity]; ok {
			continue
		}
		seen[p.Identity] = struct{}{}
		ret = append(ret, p.Identity)
	}
	return ret
}

// FillOpacity returns the fill opacity of a bar.  Bars are dimmed when some
// bars are highlighted but not they, or when some bars are selected but not
// they.
func FillOpacity(selected, highlight, hasSelection, hasPartialHighlights bool) float64 {
	if (hasPartialHighlights && !highlight) || (hasSelection && !selected) {
		return DimmedOpacity
	}
	return DefaultOpacity
}

// Apply sets the selection state and fill opacity of each of pts.
func Apply(pts []*points.DataPoint, s *Set, hasHighlights bool) {
	hasSelection := !s.Empty()
	for _, p := range pts {
		p.Selected = s.Has(p.Identity)
		p.FillOpacity = FillOpacity(p.Selected, p.Highlight, hasSelection, hasHighlights)
	}
}
