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

// Package style supports specifying SVG styling for exported chart elements.
//
// A Style maps SVG attribute names (such as 'stroke-dasharray' or
// 'stroke-width') to values, and may be attached to a Datum with Define().
// LineStyle describes the dash pattern of gridlines and constant lines.
package style

import (
	"fmt"
	"sort"

	"github.com/ilhamster/barviz/util"
)

const keyPrefix = "style_"

// Style is a set of SVG attributes that can be attached to a Datum.
type Style struct {
	attrs map[string]string
}

// New returns a new, empty Style.
func New() *Style {
	return &Style{
		attrs: map[string]string{},
	}
}

// With sets the specified attribute in the receiver.  An empty value unsets
// it.
func (s *Style) With(attr, val string) *Style {
	if val == "" {
		delete(s.attrs, attr)
		return s
	}
	s.attrs[attr] = val
	return s
}

// Get returns the value of the specified attribute, or false if it is unset.
func (s *Style) Get(attr string) (string, bool) {
	val, ok := s.attrs[attr]
	return val, ok
}

// Define returns a PropertyUpdate defining the receiver into a Datum.
func (s *Style) Define() util.PropertyUpdate {
	attrs := make([]string, 0, len(s.attrs))
	for attr := range s.attrs {
		attrs = append(attrs, attr)
	}
	sort.Strings(attrs)
	ret := make([]util.PropertyUpdate, 0, len(attrs))
	for _, attr := range attrs {
		ret = append(ret, util.StringProperty(keyPrefix+attr, s.attrs[attr]))
	}
	return util.Chain(ret...)
}

// Px formats the provided value as a pixel specifier.
func Px(valPx float64) string {
	return fmt.Sprintf("%.2fpx", valPx)
}

// LineStyle is the dash style of a line.
type LineStyle string

const (
	Solid  LineStyle = "solid"
	Dashed LineStyle = "dashed"
	Dotted LineStyle = "dotted"
)

// Valid returns true if the receiver is a known line style.
func (ls LineStyle) Valid() bool {
	switch ls {
	case Solid, Dashed, Dotted:
		return true
	}
	return false
}

// GridDasharray returns the stroke-dasharray of a value axis gridline drawn
// in the receiver's style.
func (ls LineStyle) GridDasharray() string {
	switch ls {
	case Dashed:
		return "7, 5"
	case Dotted:
		return "2, 2"
	}
	return "none"
}

// ConstantLineDasharray returns the stroke-dasharray of a constant line drawn
// in the receiver's style.  Constant lines use sparser dashes than
// gridlines.
func (ls LineStyle) ConstantLineDasharray() string {
	switch ls {
	case Dashed:
		return "5, 5"
	case Dotted:
		return "1, 5"
	}
	return "none"
}

// Gridline returns the Style of a gridline with the provided line style and
// stroke width.
func Gridline(ls LineStyle, strokeWidth float64) *Style {
	return New().
		With("stroke-dasharray", ls.GridDasharray()).
		With("stroke-width", Px(strokeWidth))
}

// ConstantLine returns the Style of a constant line with the provided line
// style, color and opacity.
func ConstantLine(ls LineStyle, color string, opacity float64) *Style {
	return New().
		With("stroke-dasharray", ls.ConstantLineDasharray()).
		With("stroke", color).
		With("stroke-opacity", fmt.Sprintf("%.2f", opacity))
}
