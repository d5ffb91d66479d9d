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

// Package util defines the primitive values flowing through barviz and the
// builders used to export computed chart data to a renderer:
//
// V, a tagged primitive value (null, string, integer, double, bool,
// timestamp) as found in host table cells and in exported properties;
//
// {type}Value functions for constructing Values of a given type, and
// Expect{type}Value functions for safely retrieving them;
//
// DataResponseBuilder and DataBuilder, for assembling exported data
// programmatically.
package util

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type valueType int

// Enumerated value types.  The zero value is null.
const (
	NullValueType valueType = iota
	StringValueType
	StringIndexValueType
	StringsValueType
	StringIndicesValueType
	IntegerValueType
	IntegersValueType
	DoubleValueType
	BoolValueType
	TimestampValueType
)

const dateLayout = "2006-01-02"

// V represents a single primitive value: a table cell, a category key, or an
// exported property.  The zero V is null.
type V struct {
	V any
	T valueType
}

// Null is the null V.
var Null = V{}

// StringValue returns a new Value wrapping the provided string.
func StringValue(str string) V {
	return V{V: str, T: StringValueType}
}

// StringIndexValue returns a new Value wrapping the provided string-table
// index.
func StringIndexValue(strIdx int64) V {
	return V{V: strIdx, T: StringIndexValueType}
}

// StringsValue returns a new Value wrapping the provided strings.
func StringsValue(strs ...string) V {
	return V{V: strs, T: StringsValueType}
}

// StringIndicesValue returns a new Value wrapping the provided string-table
// indices.
func StringIndicesValue(strIdxs ...int64) V {
	return V{V: strIdxs, T: StringIndicesValueType}
}

// IntegerValue returns a new Value wrapping the provided int64.
func IntegerValue(i int64) V {
	return V{V: i, T: IntegerValueType}
}

// IntegersValue returns a new Value wrapping the provided int64s.
func IntegersValue(ints ...int64) V {
	return V{V: ints, T: IntegersValueType}
}

// DoubleValue returns a new Value wrapping the provided float64.
func DoubleValue(f float64) V {
	return V{V: f, T: DoubleValueType}
}

// BoolValue returns a new Value wrapping the provided bool.
func BoolValue(b bool) V {
	return V{V: b, T: BoolValueType}
}

// TimestampValue returns a new Value wrapping the provided time.
func TimestampValue(t time.Time) V {
	return V{V: t, T: TimestampValueType}
}

// IsNull returns true if the receiver holds no value.
func (v V) IsNull() bool {
	return v.T == NullValueType
}

// IsBlank returns true if the receiver is null or an empty string.  Numeric
// zero and false are not blank.
func (v V) IsBlank() bool {
	switch v.T {
	case NullValueType:
		return true
	case StringValueType:
		return v.V.(string) == ""
	}
	return false
}

// IsNumeric returns true if the receiver can be placed on a continuous
// scale.
func (v V) IsNumeric() bool {
	switch v.T {
	case IntegerValueType, DoubleValueType, TimestampValueType:
		return true
	}
	return false
}

// Number returns the receiver as a float64, if it is numeric.  Timestamps
// are returned as milliseconds since the Unix epoch.
func (v V) Number() (float64, bool) {
	switch v.T {
	case IntegerValueType:
		return float64(v.V.(int64)), true
	case DoubleValueType:
		return v.V.(float64), true
	case TimestampValueType:
		return float64(v.V.(time.Time).UnixMilli()), true
	}
	return math.NaN(), false
}

// String returns the receiver's display text.  Null displays as "".
func (v V) String() string {
	switch v.T {
	case NullValueType:
		return ""
	case StringValueType:
		return v.V.(string)
	case StringsValueType:
		return strings.Join(v.V.([]string), ", ")
	case StringIndexValueType, IntegerValueType:
		return strconv.FormatInt(v.V.(int64), 10)
	case IntegersValueType, StringIndicesValueType:
		ints := v.V.([]int64)
		strs := make([]string, len(ints))
		for idx, i := range ints {
			strs[idx] = strconv.FormatInt(i, 10)
		}
		return strings.Join(strs, ", ")
	case DoubleValueType:
		return strconv.FormatFloat(v.V.(float64), 'f', -1, 64)
	case BoolValueType:
		return strconv.FormatBool(v.V.(bool))
	case TimestampValueType:
		ts := v.V.(time.Time).UTC()
		if ts.Equal(ts.Truncate(24 * time.Hour)) {
			return ts.Format(dateLayout)
		}
		return ts.Format(time.RFC3339)
	}
	return fmt.Sprintf("%v", v.V)
}

// Key returns a string uniquely identifying the receiver's type and value,
// suitable as a map key.
func (v V) Key() string {
	return strconv.Itoa(int(v.T)) + ":" + v.String()
}

// Equal returns true if the receiver and the argument hold the same type and
// value.
func (v V) Equal(o V) bool {
	return v.Key() == o.Key()
}

// PrettyPrint returns the receiver, deterministically prettyprinted.
// String-index-type values prettyprint the same as the corresponding
// literal-string-type values.  Only for use in tests.
func (v V) PrettyPrint(st []string) string {
	switch v.T {
	case NullValueType:
		return "null"
	case StringValueType:
		return "'" + v.String() + "'"
	case StringIndexValueType:
		return "'" + st[v.V.(int64)] + "'"
	case StringsValueType:
		return "[ '" + strings.Join(v.V.([]string), "', '") + "' ]"
	case StringIndicesValueType:
		idxs := v.V.([]int64)
		strs := make([]string, len(idxs))
		for idx, strIdx := range idxs {
			strs[idx] = st[strIdx]
		}
		return "[ '" + strings.Join(strs, "', '") + "' ]"
	case IntegersValueType:
		return "[ " + v.String() + " ]"
	case DoubleValueType:
		return fmt.Sprintf("%.6f", v.V.(float64))
	}
	return v.String()
}

// MarshalJSON encodes the receiver as a plain JSON scalar: null, string,
// number, bool, or array.  Timestamps encode as RFC 3339 strings.
func (v V) MarshalJSON() ([]byte, error) {
	if v.T == TimestampValueType {
		return json.Marshal(v.V.(time.Time).UTC().Format(time.RFC3339Nano))
	}
	if v.T == DoubleValueType {
		if f := v.V.(float64); math.IsNaN(f) || math.IsInf(f, 0) {
			return []byte("null"), nil
		}
	}
	return json.Marshal(v.V)
}

// UnmarshalJSON decodes a plain JSON scalar into the receiver.  Integral
// numbers decode as integers and other numbers as doubles.
func (v *V) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var got any
	if err := dec.Decode(&got); err != nil {
		return err
	}
	switch val := got.(type) {
	case nil:
		*v = Null
	case string:
		*v = StringValue(val)
	case bool:
		*v = BoolValue(val)
	case json.Number:
		if i, err := val.Int64(); err == nil {
			*v = IntegerValue(i)
			return nil
		}
		f, err := val.Float64()
		if err != nil {
			return fmt.Errorf("can't decode number %q: %w", val, err)
		}
		*v = DoubleValue(f)
	default:
		return fmt.Errorf("expected a scalar value, got %s", string(data))
	}
	return nil
}

// UnmarshalYAML decodes a YAML scalar node into the receiver, honoring the
// node's resolved tag.
func (v *V) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a scalar value", node.Line)
	}
	switch node.Tag {
	case "!!null":
		*v = Null
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return err
		}
		*v = BoolValue(b)
	case "!!int":
		var i int64
		if err := node.Decode(&i); err != nil {
			return err
		}
		*v = IntegerValue(i)
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return err
		}
		*v = DoubleValue(f)
	case "!!timestamp":
		var ts time.Time
		if err := node.Decode(&ts); err != nil {
			return err
		}
		*v = TimestampValue(ts)
	default:
		*v = StringValue(node.Value)
	}
	return nil
}

// ExpectStringValue expects the provided Value to be a string, returning
// that string or an error if it isn't.
func ExpectStringValue(val V) (string, error) {
	if val.T != StringValueType {
		return "", fmt.Errorf("expected value type 'str'")
	}
	return val.V.(string), nil
}

// ExpectStringsValue expects the provided Value to be a Strings, returning
// that Strings' contained string slice, or an error if it isn't.
func ExpectStringsValue(val V) ([]string, error) {
	if val.T != StringsValueType {
		return nil, fmt.Errorf("expected value type 'strs'")
	}
	return val.V.([]string), nil
}

func expectStringIndicesValue(val V) ([]int64, error) {
	if val.T != StringIndicesValueType {
		return nil, fmt.Errorf("expected value type 'str_idxs'")
	}
	return val.V.([]int64), nil
}

// ExpectIntegerValue expects the provided Value to be an integer, returning
// that integer or an error if it isn't.
func ExpectIntegerValue(val V) (int64, error) {
	if val.T != IntegerValueType {
		return 0, fmt.Errorf("expected value type 'int'")
	}
	return val.V.(int64), nil
}

// ExpectDoubleValue expects the provided Value to be a float64, returning
// that float or an error if it isn't.
func ExpectDoubleValue(val V) (float64, error) {
	if val.T != DoubleValueType {
		return 0, fmt.Errorf("expected value type 'dbl'")
	}
	return val.V.(float64), nil
}

// ExpectBoolValue expects the provided Value to be a bool, returning that
// bool or an error if it isn't.
func ExpectBoolValue(val V) (bool, error) {
	if val.T != BoolValueType {
		return false, fmt.Errorf("expected value type 'bool'")
	}
	return val.V.(bool), nil
}

// ExpectTimestampValue expects the provided Value to be a timestamp,
// returning that timestamp or an error if it isn't.
func ExpectTimestampValue(val V) (time.Time, error) {
	if val.T != TimestampValueType {
		return time.Time{}, fmt.Errorf("expected value type 'timestamp'")
	}
	return val.V.(time.Time), nil
}
