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

// Package magnitude supports display units (thousands, millions, ...) for
// axis ticks and data labels.
package magnitude

import (
	"math"

	"github.com/ilhamster/barviz/util"
)

const (
	displayUnitKey      = "display_unit"
	displayUnitValueKey = "display_unit_value"
)

// Auto is the display-units setting requesting automatic unit selection.
const Auto = 0

// Unit is a display unit.  Values are divided by Value and suffixed with
// Suffix.
type Unit struct {
	Value  float64
	Suffix string
	Title  string
}

// The supported display units.
var (
	None      = Unit{Value: 1}
	Thousands = Unit{Value: 1e3, Suffix: "K", Title: "Thousands"}
	Millions  = Unit{Value: 1e6, Suffix: "M", Title: "Millions"}
	Billions  = Unit{Value: 1e9, Suffix: "bn", Title: "Billions"}
	Trillions = Unit{Value: 1e12, Suffix: "T", Title: "Trillions"}
)

// units is ordered from largest to smallest.
var units = []Unit{Trillions, Billions, Millions, Thousands}

// ForSetting returns the Unit selected by a display-units setting.  A setting
// of Auto picks the largest unit not exceeding the magnitude of reference;
// any other setting picks the unit with that value, or None.
func ForSetting(displayUnits float64, reference float64) Unit {
	if displayUnits == Auto {
		return ForMagnitude(reference)
	}
	for _, u := range units {
		if u.Value == displayUnits {
			return u
		}
	}
	return None
}

// ForMagnitude returns the largest Unit not exceeding |reference|, or None.
func ForMagnitude(reference float64) Unit {
	ref := math.Abs(reference)
	if math.IsNaN(ref) || math.IsInf(ref, 0) {
		return None
	}
	for _, u := range units {
		if ref >= u.Value {
			return u
		}
	}
	return None
}

// Scale returns v expressed in the receiver's unit.
func (u Unit) Scale(v float64) float64 {
	if u.Value == 0 {
		return v
	}
	return v / u.Value
}

// IsScaled returns true if the receiver changes the values it scales.
func (u Unit) IsScaled() bool {
	return u.Value > 1
}

// DisplayUnit returns a PropertyUpdate annotating with the provided unit, if
// it is scaled.
func DisplayUnit(u Unit) util.PropertyUpdate {
	return util.If(u.IsScaled(), util.Chain(
		util.StringProperty(displayUnitKey, u.Title),
		util.DoubleProperty(displayUnitValueKey, u.Value),
	))
}
