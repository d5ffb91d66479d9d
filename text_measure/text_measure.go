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

// Package textmeasure measures rendered text extents, in pixels, for layout.
// Measurements approximate rendered extents with a fixed-advance bitmap face
// scaled to the requested font size.
package textmeasure

import (
	"fmt"
	"math"
	"sync"

	"github.com/hashicorp/golang-lru/simplelru"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// Ellipsis is appended to tailored text.
const Ellipsis = "…"

// Font describes the font text is rendered in.
type Font struct {
	Family string
	// SizePx is the font size in pixels.
	SizePx float64
}

// FromPoints returns a Font of the provided family with its size given in
// points.
func FromPoints(family string, sizePt float64) Font {
	return Font{Family: family, SizePx: PointToPixel(sizePt)}
}

// PointToPixel converts a size in points to pixels.
func PointToPixel(pt float64) float64 {
	return pt * 96 / 72
}

// Measurer is implemented by types that can measure rendered text.
// Implementations must be pure: the same text and font always measure the
// same.
type Measurer interface {
	// Width returns the rendered width of text in the provided font.
	Width(text string, f Font) float64
	// Height returns the estimated rendered height of text in the provided
	// font.
	Height(text string, f Font) float64
}

// Basic measures text with a 7x13 fixed-advance face, scaled to the
// requested font size.
type Basic struct{}

var face = basicfont.Face7x13

func scale(f Font) float64 {
	if f.SizePx <= 0 {
		return 0
	}
	return f.SizePx / float64(face.Height)
}

// Width implements Measurer.
func (Basic) Width(text string, f Font) float64 {
	adv := font.MeasureString(face, text)
	return float64(adv.Ceil()) * scale(f)
}

// Height implements Measurer.
func (Basic) Height(text string, f Font) float64 {
	return float64(face.Metrics().Height.Ceil()) * scale(f)
}

type measureKey struct {
	text   string
	font   Font
	height bool
}

// Cached wraps a Measurer with an LRU cache of measurements.  It is safe for
// concurrent use.
type Cached struct {
	m   Measurer
	lru *simplelru.LRU
	mu  sync.Mutex
}

// NewCached returns a Cached wrapping the provided Measurer, holding at most
// cap measurements.
func NewCached(m Measurer, cap int) (*Cached, error) {
	lru, err := simplelru.NewLRU(cap, nil /* no onEvict policy */)
	if err != nil {
		return nil, fmt.Errorf("failed to create measurement cache: %w", err)
	}
	return &Cached{
		m:   m,
		lru: lru,
	}, nil
}

func (c *Cached) measure(key measureKey, fn func(string, Font) float64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gotIf, ok := c.lru.Get(key); ok {
		if got, ok := gotIf.(float64); ok {
			return got
		}
	}
	ret := fn(key.text, key.font)
	c.lru.Add(key, ret)
	return ret
}

// Width implements Measurer.
func (c *Cached) Width(text string, f Font) float64 {
	return c.measure(measureKey{text: text, font: f}, c.m.Width)
}

// Height implements Measurer.
func (c *Cached) Height(text string, f Font) float64 {
	return c.measure(measureKey{text: text, font: f, height: true}, c.m.Height)
}

// Len returns the number of cached measurements.
func (c *Cached) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Tailor returns text if it fits within maxWidth, and otherwise the longest
// prefix of text that, followed by Ellipsis, fits.  If not even the ellipsis
// fits, Tailor returns the empty string.
func Tailor(m Measurer, text string, f Font, maxWidth float64) string {
	if m.Width(text, f) <= maxWidth {
		return text
	}
	runes := []rune(text)
	// Binary search for the longest fitting prefix.
	lo, hi := 0, len(runes)
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if m.Width(string(runes[:mid])+Ellipsis, f) <= maxWidth {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	if lo == 0 && m.Width(Ellipsis, f) > maxWidth {
		return ""
	}
	return string(runes[:lo]) + Ellipsis
}

// MaxWidth returns the widest measurement among texts, or 0.
func MaxWidth(m Measurer, f Font, texts ...string) float64 {
	ret := 0.0
	for _, text := range texts {
		ret = math.Max(ret, m.Width(text, f))
	}
	return ret
}
