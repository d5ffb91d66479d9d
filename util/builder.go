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

package util

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Datum represents a single node in an exported data series.
type Datum struct {
	Properties map[int64]V
	Children   []*Datum
}

// PrettyPrint returns the receiver deterministically prettyprinted.
// Only for use in tests.
func (d *Datum) PrettyPrint(indent string, st []string) string {
	ret := []string{}
	// Emit properties in increasing alphabetic order.
	keys := make([]int64, 0, len(d.Properties))
	for k := range d.Properties {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(a, b int) bool {
		return st[keys[a]] < st[keys[b]]
	})
	for _, k := range keys {
		ret = append(ret,
			fmt.Sprintf("%sProp '%s': %s", indent, st[k], d.Properties[k].PrettyPrint(st)),
		)
	}
	for _, child := range d.Children {
		ret = append(ret,
			fmt.Sprintf("%sChild:", indent),
			child.PrettyPrint(indent+"  ", st),
		)
	}
	return strings.Join(ret, "\n")
}

// wireValue returns the compact wire encoding of v: a [type, value] pair,
// with timestamps as [seconds, nanos] from the epoch.
func wireValue(v V) [2]any {
	switch v.T {
	case TimestampValueType:
		ts := v.V.(time.Time)
		return [2]any{v.T, [2]int64{ts.Unix(), int64(ts.Nanosecond())}}
	case DoubleValueType:
		return [2]any{v.T, json.RawMessage(mustMarshal(v))}
	}
	return [2]any{v.T, v.V}
}

func mustMarshal(v V) []byte {
	ret, err := v.MarshalJSON()
	if err != nil {
		return []byte("null")
	}
	return ret
}

func valueFromWire(got []any) (V, error) {
	if len(got) != 2 {
		return Null, fmt.Errorf("value is improperly formed")
	}
	t, err := got[0].(json.Number).Int64()
	if err != nil {
		return Null, err
	}
	tv := got[1]
	switch valueType(t) {
	case NullValueType:
		return Null, nil
	case StringValueType:
		return StringValue(tv.(string)), nil
	case StringIndexValueType, IntegerValueType:
		i, err := tv.(json.Number).Int64()
		if err != nil {
			return Null, err
		}
		return V{V: i, T: valueType(t)}, nil
	case StringsValueType:
		strIfs := tv.([]any)
		strs := make([]string, len(strIfs))
		for idx, strIf := range strIfs {
			strs[idx] = strIf.(string)
		}
		return StringsValue(strs...), nil
	case StringIndicesValueType, IntegersValueType:
		nums := tv.([]any)
		ints := make([]int64, len(nums))
		for idx, num := range nums {
			if ints[idx], err = num.(json.Number).Int64(); err != nil {
				return Null, err
			}
		}
		return V{V: ints, T: valueType(t)}, nil
	case DoubleValueType:
		if tv == nil {
			return DoubleValue(0), nil
		}
		f, err := tv.(json.Number).Float64()
		if err != nil {
			return Null, err
		}
		return DoubleValue(f), nil
	case BoolValueType:
		return BoolValue(tv.(bool)), nil
	case TimestampValueType:
		parts := tv.([]any)
		if len(parts) != 2 {
			return Null, fmt.Errorf("timestamp value is improperly formed")
		}
		secs, err := parts[0].(json.Number).Int64()
		if err != nil {
			return Null, err
		}
		nanos, err := parts[1].(json.Number).Int64()
		if err != nil {
			return Null, err
		}
		return TimestampValue(time.Unix(secs, nanos).UTC()), nil
	}
	return Null, fmt.Errorf("unsupported value type %d", t)
}

// MarshalJSON encodes a Datum as the JS object `Datum`:
//
//	type V = [number, any]         ; [value type, value]
//	type KV = [number, V]          ; [string table index of key, value]
//	type Datum = [
//	  KV[],                        ; its Properties
//	  Datum[],                     ; its Children
//	]
func (d *Datum) MarshalJSON() ([]byte, error) {
	keys := make([]int64, 0, len(d.Properties))
	for k := range d.Properties {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(a, b int) bool {
		return keys[a] < keys[b]
	})
	props := make([]any, len(keys))
	for idx, k := range keys {
		props[idx] = []any{k, wireValue(d.Properties[k])}
	}
	children := make([]any, len(d.Children))
	for idx, child := range d.Children {
		children[idx] = child
	}
	return json.Marshal([]any{props, children})
}

func (d *Datum) fromAny(sd []any) error {
	if len(sd) != 2 {
		return fmt.Errorf("datum is improperly formed")
	}
	props := sd[0].([]any)
	children := sd[1].([]any)
	d.Properties = make(map[int64]V, len(props))
	d.Children = make([]*Datum, len(children))
	for _, prop := range props {
		kv := prop.([]any)
		k, err := kv[0].(json.Number).Int64()
		if err != nil {
			return err
		}
		v, err := valueFromWire(kv[1].([]any))
		if err != nil {
			return fmt.Errorf("property %d: %w", k, err)
		}
		d.Properties[k] = v
	}
	for idx, child := range children {
		cd := &Datum{}
		if err := cd.fromAny(child.([]any)); err != nil {
			return err
		}
		d.Children[idx] = cd
	}
	return nil
}

// UnmarshalJSON unmarshals the provided wire-encoded JSON into the receiver.
func (d *Datum) UnmarshalJSON(data []byte) error {
	var sd = []any{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&sd); err != nil {
		return err
	}
	return d.fromAny(sd)
}

// DataSeries represents a single exported chart.
type DataSeries struct {
	SeriesName string
	Root       *Datum
}

// PrettyPrint returns the receiver deterministically prettyprinted.
// Only for use in tests.
func (ds *DataSeries) PrettyPrint(indent string, st []string) string {
	return strings.Join([]string{
		fmt.Sprintf("%sSeries %s", indent, ds.SeriesName),
		indent + "  " + "Root:",
		ds.Root.PrettyPrint(indent+"    ", st),
	}, "\n")
}

// Data represents a complete export: a shared string table and one or more
// data series.
type Data struct {
	StringTable []string
	DataSeries  []*DataSeries
}

// PrettyPrint returns the receiver deterministically prettyprinted.
// Only for use in tests.
func (d *Data) PrettyPrint() string {
	ret := []string{"Data:"}
	for _, series := range d.DataSeries {
		ret = append(ret, series.PrettyPrint("  ", d.StringTable))
	}
	return strings.Join(ret, "\n")
}

// Series returns the data series with the specified name, or nil.
func (d *Data) Series(name string) *DataSeries {
	for _, ds := range d.DataSeries {
		if ds.SeriesName == name {
			return ds
		}
	}
	return nil
}

// stringTable associates strings to unique integers.  It is thread-safe.
type stringTable struct {
	stringsToIndices map[string]int64
	stringsByIndex   []string
	mu               sync.RWMutex
}

func newStringTable(strs ...string) *stringTable {
	ret := &stringTable{
		stringsToIndices: map[string]int64{},
	}
	for _, str := range strs {
		ret.stringIndex(str)
	}
	return ret
}

func (st *stringTable) lookupStringIndex(str string) (int64, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	idx, ok := st.stringsToIndices[str]
	return idx, ok
}

// stringIndex returns the index of str, adding it if necessary.
func (st *stringTable) stringIndex(str string) int64 {
	if idx, ok := st.lookupStringIndex(str); ok {
		return idx
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	// An entry may have been inserted between the lookup and the lock.
	if idx, ok := st.stringsToIndices[str]; ok {
		return idx
	}
	idx := int64(len(st.stringsByIndex))
	st.stringsByIndex = append(st.stringsByIndex, str)
	st.stringsToIndices[str] = idx
	return idx
}

func (st *stringTable) snapshot() []string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return append([]string{}, st.stringsByIndex...)
}

type errors struct {
	errs []error
	mu   sync.Mutex
}

func (errs *errors) add(err error) {
	errs.mu.Lock()
	defer errs.mu.Unlock()
	errs.errs = append(errs.errs, err)
}

func (errs *errors) hasError() bool {
	errs.mu.Lock()
	defer errs.mu.Unlock()
	return len(errs.errs) > 0
}

func (errs *errors) toError() error {
	errs.mu.Lock()
	defer errs.mu.Unlock()
	if len(errs.errs) == 0 {
		return nil
	}
	ret := make([]string, len(errs.errs))
	for idx, err := range errs.errs {
		ret[idx] = err.Error()
	}
	return fmt.Errorf("%s", strings.Join(ret, ", "))
}

// DataResponseBuilder streamlines assembling exports of one or more charts.
type DataResponseBuilder struct {
	st     *stringTable
	errs   *errors
	d      *Data
	series map[string]struct{}
	mu     sync.Mutex
}

// NewDataResponseBuilder returns a new, empty DataResponseBuilder.
func NewDataResponseBuilder() *DataResponseBuilder {
	return &DataResponseBuilder{
		st:     newStringTable(),
		errs:   &errors{},
		series: map[string]struct{}{},
		d: &Data{
			StringTable: []string{},
			DataSeries:  []*DataSeries{},
		},
	}
}

// DataBuilder is implemented by types that can assemble exported data.
type DataBuilder interface {
	With(updates ...PropertyUpdate) DataBuilder
	Child() DataBuilder
}

// DataSeries returns a new DataBuilder for assembling the named series.
// DataSeries is safe for concurrent use.  Requesting a series name twice
// errors the response.
func (drb *DataResponseBuilder) DataSeries(seriesName string) DataBuilder {
	ret := newDatumBuilder(drb.errs, drb.st)
	ds := &DataSeries{
		SeriesName: seriesName,
		Root:       ret.d,
	}
	drb.mu.Lock()
	defer drb.mu.Unlock()
	if _, ok := drb.series[seriesName]; ok && seriesName != "" {
		drb.errs.add(fmt.Errorf("duplicate data series '%s'", seriesName))
	}
	drb.series[seriesName] = struct{}{}
	drb.d.DataSeries = append(drb.d.DataSeries, ds)
	return ret
}

// Data completes and returns the Data under construction.
func (drb *DataResponseBuilder) Data() (*Data, error) {
	if err := drb.errs.toError(); err != nil {
		return nil, err
	}
	drb.d.StringTable = drb.st.snapshot()
	return drb.d, nil
}

// PropertyUpdate is a function that updates a provided datumBuilder.  A nil
// PropertyUpdate does nothing.
type PropertyUpdate func(db *datumBuilder) error

// EmptyUpdate is a PropertyUpdate that does nothing.
var EmptyUpdate PropertyUpdate = nil

// ErrorProperty injects an error into the Data under construction.
func ErrorProperty(err error) PropertyUpdate {
	return func(db *datumBuilder) error {
		return err
	}
}

type datumBuilder struct {
	errs      *errors
	st        *stringTable
	valsByKey map[int64]V
	d         *Datum
}

func newDatumBuilder(errs *errors, st *stringTable) *datumBuilder {
	valsByKey := map[int64]V{}
	return &datumBuilder{
		errs:      errs,
		st:        st,
		valsByKey: valsByKey,
		d: &Datum{
			Properties: valsByKey,
			Children:   []*Datum{},
		},
	}
}

// With applies the provided PropertyUpdates to the receiver in order,
// stopping at the first error.
func (db *datumBuilder) With(updates ...PropertyUpdate) DataBuilder {
	if db.errs.hasError() {
		return db
	}
	for _, update := range updates {
		if update == nil {
			continue
		}
		if err := update(db); err != nil {
			db.errs.add(err)
			break
		}
	}
	return db
}

func (db *datumBuilder) Child() DataBuilder {
	child := newDatumBuilder(db.errs, db.st)
	db.d.Children = append(db.d.Children, child.d)
	return child
}

func (db *datumBuilder) set(key string, v V) *datumBuilder {
	db.valsByKey[db.st.stringIndex(key)] = v
	return db
}

func (db *datumBuilder) withStr(key, value string) *datumBuilder {
	return db.set(key, StringIndexValue(db.st.stringIndex(value)))
}

func (db *datumBuilder) withStrs(key string, values ...string) *datumBuilder {
	valIdxs := make([]int64, 0, len(values))
	for _, val := range values {
		valIdxs = append(valIdxs, db.st.stringIndex(val))
	}
	return db.set(key, StringIndicesValue(valIdxs...))
}

func (db *datumBuilder) appendStrs(key string, values ...string) error {
	val, ok := db.valsByKey[db.st.stringIndex(key)]
	if !ok {
		db.withStrs(key, values...)
		return nil
	}
	strIdxs, err := expectStringIndicesValue(val)
	if err != nil {
		return fmt.Errorf("can't extend property '%s': %w", key, err)
	}
	strIdxs = append([]int64{}, strIdxs...)
	for _, val := range values {
		strIdxs = append(strIdxs, db.st.stringIndex(val))
	}
	db.set(key, StringIndicesValue(strIdxs...))
	return nil
}

// If applies the provided PropertyUpdate if the provided predicate is true.
func If(predicate bool, du PropertyUpdate) PropertyUpdate {
	if predicate {
		return du
	}
	return EmptyUpdate
}

// IfElse applies PropertyUpdate t if the provided predicate is true, and
// applies f otherwise.
func IfElse(predicate bool, t, f PropertyUpdate) PropertyUpdate {
	if predicate {
		return t
	}
	return f
}

// Chain applies the provided PropertyUpdates in order.
func Chain(updates ...PropertyUpdate) PropertyUpdate {
	return func(db *datumBuilder) error {
		for _, update := range updates {
			if update == nil {
				continue
			}
			if err := update(db); err != nil {
				return err
			}
		}
		return nil
	}
}

// StringProperty returns a PropertyUpdate adding the specified string
// property.
func StringProperty(key, value string) PropertyUpdate {
	return func(db *datumBuilder) error {
		db.withStr(key, value)
		return nil
	}
}

// StringsProperty returns a PropertyUpdate adding the specified string slice
// property.
func StringsProperty(key string, values ...string) PropertyUpdate {
	return func(db *datumBuilder) error {
		db.withStrs(key, values...)
		return nil
	}
}

// StringsPropertyExtended returns a PropertyUpdate extending the specified
// string slice property.
func StringsPropertyExtended(key string, values ...string) PropertyUpdate {
	return func(db *datumBuilder) error {
		return db.appendStrs(key, values...)
	}
}

// IntegerProperty returns a PropertyUpdate adding the specified integer
// property.
func IntegerProperty(key string, value int64) PropertyUpdate {
	return func(db *datumBuilder) error {
		db.set(key, IntegerValue(value))
		return nil
	}
}

// DoubleProperty returns a PropertyUpdate adding the specified double
// property.
func DoubleProperty(key string, value float64) PropertyUpdate {
	return func(db *datumBuilder) error {
		db.set(key, DoubleValue(value))
		return nil
	}
}

// BoolProperty returns a PropertyUpdate adding the specified bool property.
func BoolProperty(key string, value bool) PropertyUpdate {
	return func(db *datumBuilder) error {
		db.set(key, BoolValue(value))
		return nil
	}
}

// ValueProperty returns a PropertyUpdate adding the specified V.  Strings
// are interned in the string table; null values set nothing.
func ValueProperty(key string, value V) PropertyUpdate {
	return func(db *datumBuilder) error {
		switch value.T {
		case NullValueType:
		case StringValueType:
			db.withStr(key, value.V.(string))
		case StringsValueType:
			db.withStrs(key, value.V.([]string)...)
		default:
			db.set(key, value)
		}
		return nil
	}
}
