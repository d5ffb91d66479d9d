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

// Package color resolves display colors for bars and legend entries, and
// annotates exported data with them.
//
// Colors are resolved by a Service, which maps a key (a category or legend
// series key) to a color, falling back to a provided default.  Resolver is the
// Service used by the pipeline: per-key overrides win, and otherwise legend
// keys are assigned successive palette colors in first-requested order.
//
// A bar may be annotated with a fixed fill and stroke via Fill() and Stroke(),
// or with a position along a color Space, a continuum of colors that maps a
// value in [0, 1] to a linearly interpolated color.  For example, a chart
// shading its bars by a gradient measure might define:
//
//	gradient := color.NewSpace("gradient", "#E6F8F6", "#01B8AA")
//	chart.With(gradient.Define())
//	bar.With(gradient.FillColor(saturation))
package color

import (
	"fmt"
	imgcolor "image/color"
	"math"
	"strconv"
	"strings"

	"github.com/ilhamster/barviz/util"
	"golang.org/x/image/colornames"
)

// DefaultFill is the fill of single-series bars with no override.
const DefaultFill = "#01b8aa"

// DefaultPalette is the palette legend series are colored from.
var DefaultPalette = []string{
	"#01B8AA", "#374649", "#FD625E", "#F2C80F",
	"#5F6B6D", "#8AD4EB", "#FE9666", "#A66999",
}

const (
	colorSpaceNamePrefix     = "color_space_"
	fillColorSpaceKey        = "fill_color_space"
	fillColorSpaceValueKey   = "fill_color_space_value"
	fillColorKey             = "fill_color"
	fillOpacityKey           = "fill_opacity"
	strokeColorKey           = "stroke_color"
	strokeColorSpaceKey      = "stroke_color_space"
	strokeColorSpaceValueKey = "stroke_color_space_value"
)

// Service resolves the display color for a key, returning fallback if it has
// no color for it.
type Service interface {
	Color(key, fallback string) string
}

// Resolver is a Service with per-key overrides and palette assignment.  It is
// not safe for concurrent use.
type Resolver struct {
	overrides map[string]string
	palette   []string
	assigned  map[string]string
}

// NewResolver returns a Resolver applying the provided overrides (keyed by
// category or series key) and assigning colors from palette, or from
// DefaultPalette if palette is empty.
func NewResolver(overrides map[string]string, palette ...string) *Resolver {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	ret := &Resolver{
		overrides: map[string]string{},
		palette:   palette,
		assigned:  map[string]string{},
	}
	for k, v := range overrides {
		ret.overrides[k] = v
	}
	return ret
}

// Color implements Service: it returns the override for key, or fallback.
func (r *Resolver) Color(key, fallback string) string {
	if c, ok := r.overrides[key]; ok && c != "" {
		return c
	}
	return fallback
}

// Assign returns the override for key, or else the palette color assigned
// to key, assigning the next palette color on first request.  Palette colors
// repeat once exhausted.
func (r *Resolver) Assign(key string) string {
	if c, ok := r.overrides[key]; ok && c != "" {
		return c
	}
	if c, ok := r.assigned[key]; ok {
		return c
	}
	c := r.palette[len(r.assigned)%len(r.palette)]
	r.assigned[key] = c
	return c
}

// Parse parses an HTML color: '#rgb' or '#rrggbb' hex, or a CSS color name.
func Parse(s string) (imgcolor.RGBA, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		hex := s[1:]
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		if len(hex) != 6 {
			return imgcolor.RGBA{}, fmt.Errorf("malformed hex color '%s'", s)
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return imgcolor.RGBA{}, fmt.Errorf("malformed hex color '%s': %w", s, err)
		}
		return imgcolor.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
	}
	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return c, nil
	}
	return imgcolor.RGBA{}, fmt.Errorf("unknown color '%s'", s)
}

// Hex formats c as '#rrggbb'.
func Hex(c imgcolor.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Space represents a color space: a color continuum that can map double
// values to colors.
type Space struct {
	name   string
	colors []string
}

// NewSpace defines a new color space.  Colors in this space will be linearly
// interpolated between the specified colors.
func NewSpace(name string, colors ...string) *Space {
	return &Space{
		name:   name,
		colors: colors,
	}
}

// Name returns the Space's name.
func (s *Space) Name() string {
	return s.name
}

// Define annotates with a definition of the receiving Space.
func (s *Space) Define() util.PropertyUpdate {
	return util.StringsProperty(colorSpaceNamePrefix+s.name, s.colors...)
}

// Interpolate returns the color at position pos, clamped to [0, 1], along
// the receiver.
func (s *Space) Interpolate(pos float64) (string, error) {
	if len(s.colors) == 0 {
		return "", fmt.Errorf("color space '%s' is empty", s.name)
	}
	if math.IsNaN(pos) {
		pos = 0
	}
	pos = math.Max(0, math.Min(1, pos))
	if len(s.colors) == 1 {
		c, err := Parse(s.colors[0])
		if err != nil {
			return "", err
		}
		return Hex(c), nil
	}
	segments := float64(len(s.colors) - 1)
	idx := int(math.Min(math.Floor(pos*segments), segments-1))
	frac := pos*segments - float64(idx)
	from, err := Parse(s.colors[idx])
	if err != nil {
		return "", err
	}
	to, err := Parse(s.colors[idx+1])
	if err != nil {
		return "", err
	}
	lerp := func(a, b uint8) uint8 {
		return uint8(math.Round(float64(a) + (float64(b)-float64(a))*frac))
	}
	return Hex(imgcolor.RGBA{R: lerp(from.R, to.R), G: lerp(from.G, to.G), B: lerp(from.B, to.B), A: 0xff}), nil
}

// FillColor annotates a Datum with a fill color along the receiving color
// space.
func (s *Space) FillColor(colorValue float64) util.PropertyUpdate {
	return util.Chain(
		util.StringProperty(fillColorSpaceKey, colorSpaceNamePrefix+s.name),
		util.DoubleProperty(fillColorSpaceValueKey, colorValue),
	)
}

// StrokeColor annotates a Datum with a stroke color along the receiving
// color space.
func (s *Space) StrokeColor(colorValue float64) util.PropertyUpdate {
	return util.Chain(
		util.StringProperty(strokeColorSpaceKey, colorSpaceNamePrefix+s.name),
		util.DoubleProperty(strokeColorSpaceValueKey, colorValue),
	)
}

// Fill annotates a Datum with the specified fill color.
func Fill(colorValue string) util.PropertyUpdate {
	return util.StringProperty(fillColorKey, colorValue)
}

// FillOpacity annotates a Datum with the specified fill opacity.
func FillOpacity(opacity float64) util.PropertyUpdate {
	return util.DoubleProperty(fillOpacityKey, opacity)
}

// Stroke annotates a Datum with the specified stroke color.
func Stroke(colorValue string) util.PropertyUpdate {
	return util.StringProperty(strokeColorKey, colorValue)
}
