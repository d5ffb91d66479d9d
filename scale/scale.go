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

// Package scale maps data values onto pixel ranges.
//
// Linear and Log map numeric domains continuously; Band maps an ordered set
// of category keys onto evenly spaced bands.  Continuous scales generate
// their tick values with gonum/plot tickers.
package scale

import (
	"math"

	"gonum.org/v1/plot"
)

// LogEpsilon replaces non-positive lower bounds of log domains.
const LogEpsilon = .001

// Continuous is a scale over a numeric domain.
type Continuous interface {
	// Apply maps v from the domain onto the range.
	Apply(v float64) float64
	// Invert maps px from the range onto the domain.
	Invert(px float64) float64
	Domain() (float64, float64)
	Range() (float64, float64)
	// Ticks returns the values of the major ticks within the domain, in
	// increasing order.
	Ticks() []float64
}

func majorTicks(t plot.Ticker, min, max float64) []float64 {
	if min == max {
		return []float64{min}
	}
	if min > max {
		min, max = max, min
	}
	ret := []float64{}
	for _, tick := range t.Ticks(min, max) {
		if tick.IsMinor() || tick.Value < min || tick.Value > max {
			continue
		}
		ret = append(ret, tick.Value)
	}
	return ret
}

// Linear is a linear Continuous scale.
type Linear struct {
	d0, d1, r0, r1 float64
}

// NewLinear returns a Linear scale mapping [d0, d1] onto [r0, r1].
func NewLinear(d0, d1, r0, r1 float64) *Linear {
	return &Linear{d0: d0, d1: d1, r0: r0, r1: r1}
}

// Apply implements Continuous.  A degenerate domain maps everything to the
// middle of the range.
func (l *Linear) Apply(v float64) float64 {
	if l.d0 == l.d1 {
		return (l.r0 + l.r1) / 2
	}
	return l.r0 + (v-l.d0)/(l.d1-l.d0)*(l.r1-l.r0)
}

// Invert implements Continuous.
func (l *Linear) Invert(px float64) float64 {
	if l.r0 == l.r1 {
		return l.d0
	}
	return l.d0 + (px-l.r0)/(l.r1-l.r0)*(l.d1-l.d0)
}

func (l *Linear) Domain() (float64, float64) {
	return l.d0, l.d1
}

func (l *Linear) Range() (float64, float64) {
	return l.r0, l.r1
}

// Ticks implements Continuous.
func (l *Linear) Ticks() []float64 {
	return majorTicks(plot.DefaultTicks{}, l.d0, l.d1)
}

// Nice extends the receiver's domain outwards to the nearest multiples of
// its tick step, returning the receiver.
func (l *Linear) Nice() *Linear {
	ticks := l.Ticks()
	if len(ticks) < 2 {
		return l
	}
	step := ticks[1] - ticks[0]
	if step <= 0 {
		return l
	}
	lo, hi := l.d0, l.d1
	reversed := lo > hi
	if reversed {
		lo, hi = hi, lo
	}
	lo = math.Floor(lo/step) * step
	hi = math.Ceil(hi/step) * step
	if reversed {
		lo, hi = hi, lo
	}
	l.d0, l.d1 = lo, hi
	return l
}

// Log is a base-10 logarithmic Continuous scale.
type Log struct {
	d0, d1, r0, r1 float64
}

// NewLog returns a Log scale mapping [d0, d1] onto [r0, r1].  Non-positive
// bounds are replaced with LogEpsilon.
func NewLog(d0, d1, r0, r1 float64) *Log {
	if d0 <= 0 {
		d0 = LogEpsilon
	}
	if d1 <= 0 {
		d1 = LogEpsilon
	}
	return &Log{d0: d0, d1: d1, r0: r0, r1: r1}
}

// Apply implements Continuous.  Non-positive values map to the start of the
// range.
func (l *Log) Apply(v float64) float64 {
	if v <= 0 {
		return l.r0
	}
	ld0, ld1 := math.Log10(l.d0), math.Log10(l.d1)
	if ld0 == ld1 {
		return (l.r0 + l.r1) / 2
	}
	return l.r0 + (math.Log10(v)-ld0)/(ld1-ld0)*(l.r1-l.r0)
}

// Invert implements Continuous.
func (l *Log) Invert(px float64) float64 {
	if l.r0 == l.r1 {
		return l.d0
	}
	ld0, ld1 := math.Log10(l.d0), math.Log10(l.d1)
	return math.Pow(10, ld0+(px-l.r0)/(l.r1-l.r0)*(ld1-ld0))
}

func (l *Log) Domain() (float64, float64) {
	return l.d0, l.d1
}

func (l *Log) Range() (float64, float64) {
	return l.r0, l.r1
}

// Ticks implements Continuous.
func (l *Log) Ticks() []float64 {
	return majorTicks(plot.LogTicks{Prec: -1}, l.d0, l.d1)
}

// Band maps category keys onto evenly spaced bands.
type Band struct {
	keys         []string
	indices      map[string]int
	r0, r1       float64
	paddingInner float64
	paddingOuter float64
	step, start  float64
}

// NewBand returns a Band scale over the provided keys, spanning [r0, r1].
// paddingInner is the fraction of each step left between bands, and
// paddingOuter the number of steps left before the first and after the last
// band.
func NewBand(keys []string, r0, r1, paddingInner, paddingOuter float64) *Band {
	ret := &Band{
		keys:         keys,
		indices:      make(map[string]int, len(keys)),
		r0:           r0,
		r1:           r1,
		paddingInner: math.Max(0, math.Min(1, paddingInner)),
		paddingOuter: math.Max(0, paddingOuter),
	}
	for idx, key := range keys {
		if _, ok := ret.indices[key]; !ok {
			ret.indices[key] = idx
		}
	}
	n := float64(len(keys))
	ret.step = (r1 - r0) / math.Max(1, n-ret.paddingInner+2*ret.paddingOuter)
	ret.start = r0 + (r1-r0-ret.step*(n-ret.paddingInner))/2
	return ret
}

// Apply returns the start of key's band, or false if key is not in the
// domain.
func (b *Band) Apply(key string) (float64, bool) {
	idx, ok := b.indices[key]
	if !ok {
		return 0, false
	}
	return b.start + b.step*float64(idx), true
}

// Bandwidth returns the width of each band.
func (b *Band) Bandwidth() float64 {
	return b.step * (1 - b.paddingInner)
}

// Step returns the distance between the starts of adjacent bands.
func (b *Band) Step() float64 {
	return b.step
}

// Domain returns the receiver's keys.
func (b *Band) Domain() []string {
	return b.keys
}

func (b *Band) Range() (float64, float64) {
	return b.r0, b.r1
}
