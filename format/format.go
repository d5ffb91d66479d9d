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

// Package format formats values for tooltips, tick labels, and data labels.
//
// Format strings follow the familiar spreadsheet number patterns: an
// optional literal prefix, a digit body built from '#', '0', ',' and '.',
// an optional '%', and an optional literal suffix, e.g. "#,0.00", "0%",
// "$#,0" or "0.0 'kg'".  Only the first ';'-separated section is used.  A
// Formatter built from a format string it cannot parse is still usable: it
// falls back to each value's raw representation.
package format

import (
	"math"
	"strconv"
	"strings"

	"github.com/ilhamster/barviz/magnitude"
	"github.com/ilhamster/barviz/util"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// PercentFormat is the format used for percent-of-category tooltips.
const PercentFormat = "#,0.00%"

// generalMaxDecimals bounds the fraction digits shown by the general format
// when display units are applied.
const generalMaxDecimals = 2

type pattern struct {
	prefix, suffix           string
	grouping, percent        bool
	minDecimals, maxDecimals int
}

// parse parses a format string section.  It returns nil, true for the
// general format and nil, false if the string cannot be parsed.
func parse(formatString string) (*pattern, bool) {
	fs := formatString
	if idx := strings.IndexByte(fs, ';'); idx >= 0 {
		fs = fs[:idx]
	}
	if fs == "" || strings.EqualFold(fs, "general") || fs == "G" || fs == "g" {
		return nil, true
	}
	ret := &pattern{}
	prefix, rest, ok := literal(fs, func(r byte) bool { return strings.IndexByte("#0.,%", r) >= 0 })
	if !ok {
		return nil, false
	}
	ret.prefix = prefix
	bodyEnd := 0
	for bodyEnd < len(rest) && strings.IndexByte("#0.,", rest[bodyEnd]) >= 0 {
		bodyEnd++
	}
	body := rest[:bodyEnd]
	rest = rest[bodyEnd:]
	if !strings.ContainsAny(body, "#0") || strings.Count(body, ".") > 1 {
		return nil, false
	}
	if strings.HasPrefix(rest, "%") {
		ret.percent = true
		rest = rest[1:]
	}
	suffix, tail, ok := literal(rest, func(byte) bool { return false })
	if !ok || tail != "" || strings.ContainsAny(suffix, "#0") && !strings.ContainsAny(rest, "'\"\\") {
		return nil, false
	}
	ret.suffix = suffix
	intPart, fracPart, _ := strings.Cut(body, ".")
	ret.grouping = strings.Contains(intPart, ",")
	for _, r := range fracPart {
		switch r {
		case '0':
			ret.minDecimals++
			ret.maxDecimals++
		case '#':
			ret.maxDecimals++
		case ',':
			return nil, false
		}
	}
	return ret, true
}

// literal consumes literal text from the front of s until stop returns true
// for an unquoted byte.  Single- or double-quoted runs and backslash escapes
// are unquoted.
func literal(s string, stop func(byte) bool) (string, string, bool) {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\':
			if i+1 >= len(s) {
				return "", "", false
			}
			i++
			sb.WriteByte(s[i])
		case c == '\'' || c == '"':
			end := strings.IndexByte(s[i+1:], c)
			if end < 0 {
				return "", "", false
			}
			sb.WriteString(s[i+1 : i+1+end])
			i += end + 1
		case stop(c):
			return sb.String(), s[i:], true
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String(), "", true
}

// Formatter formats values per a format string, display unit, and
// precision.
type Formatter struct {
	formatString string
	pattern      *pattern
	valid        bool
	unit         magnitude.Unit
	precision    int
	printer      *message.Printer
}

// Option configures a Formatter.
type Option func(f *Formatter)

// WithDisplayUnits applies a display-units setting.  With
// magnitude.Auto, the unit is chosen from reference, typically the largest
// magnitude on the axis.
func WithDisplayUnits(displayUnits, reference float64) Option {
	return func(f *Formatter) {
		f.unit = magnitude.ForSetting(displayUnits, reference)
	}
}

// WithPrecision fixes the number of decimals shown.  Negative precisions
// defer to the format string.
func WithPrecision(precision int) Option {
	return func(f *Formatter) {
		f.precision = precision
	}
}

// WithLanguage formats per the provided language's conventions.
func WithLanguage(tag language.Tag) Option {
	return func(f *Formatter) {
		f.printer = message.NewPrinter(tag)
	}
}

// New returns a new Formatter for the provided format string.
func New(formatString string, opts ...Option) *Formatter {
	pat, ok := parse(formatString)
	ret := &Formatter{
		formatString: formatString,
		pattern:      pat,
		valid:        ok,
		unit:         magnitude.None,
		precision:    -1,
		printer:      message.NewPrinter(language.English),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Valid returns false if the receiver's format string could not be parsed,
// in which case the receiver formats raw representations.
func (f *Formatter) Valid() bool {
	return f.valid
}

// FormatString returns the receiver's format string.
func (f *Formatter) FormatString() string {
	return f.formatString
}

// Unit returns the display unit applied by the receiver.
func (f *Formatter) Unit() magnitude.Unit {
	return f.unit
}

// Format formats the provided value.  Null formats as the empty string, and
// non-numeric values format as their display text.
func (f *Formatter) Format(v util.V) string {
	switch v.T {
	case util.IntegerValueType, util.DoubleValueType:
		num, _ := v.Number()
		return f.Number(num)
	}
	return v.String()
}

// Number formats the provided number.
func (f *Formatter) Number(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	if !f.valid {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	pat := f.pattern
	if pat == nil {
		pat = &pattern{minDecimals: 0, maxDecimals: -1}
		if f.unit.IsScaled() {
			pat.maxDecimals = generalMaxDecimals
		}
	}
	unit := f.unit
	if pat.percent {
		v *= 100
		unit = magnitude.None
	} else {
		v = unit.Scale(v)
	}
	minDec, maxDec := pat.minDecimals, pat.maxDecimals
	if f.precision >= 0 {
		minDec, maxDec = f.precision, f.precision
	}
	var num string
	if maxDec < 0 {
		num = strconv.FormatFloat(v, 'f', -1, 64)
	} else {
		opts := []number.Option{
			number.MinFractionDigits(minDec),
			number.MaxFractionDigits(maxDec),
		}
		if !pat.grouping {
			opts = append(opts, number.NoSeparator())
		}
		num = f.printer.Sprint(number.Decimal(v, opts...))
	}
	var sb strings.Builder
	sb.WriteString(pat.prefix)
	sb.WriteString(num)
	sb.WriteString(unit.Suffix)
	if pat.percent {
		sb.WriteByte('%')
	}
	sb.WriteString(pat.suffix)
	return sb.String()
}

// Percent formats the provided fraction with PercentFormat.
func Percent(fraction float64) string {
	return percentFormatter.Number(fraction)
}

var percentFormatter = New(PercentFormat)
