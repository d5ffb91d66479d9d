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

// Package testutil provides helpers for testing the chart data exported by
// barviz packages.
package testutil

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ilhamster/barviz/util"
)

// UpdateComparator checks that a set of PropertyUpdates under test leaves a
// Datum in the same state as a set of expected PropertyUpdates.
type UpdateComparator struct {
	got  []util.PropertyUpdate
	want []util.PropertyUpdate
}

// NewUpdateComparator returns a new, empty UpdateComparator.
func NewUpdateComparator() *UpdateComparator {
	return &UpdateComparator{}
}

// WithTestUpdates sets the PropertyUpdates under test.
func (uc *UpdateComparator) WithTestUpdates(got ...util.PropertyUpdate) *UpdateComparator {
	uc.got = got
	return uc
}

// WithWantUpdates sets the expected PropertyUpdates.
func (uc *UpdateComparator) WithWantUpdates(want ...util.PropertyUpdate) *UpdateComparator {
	uc.want = want
	return uc
}

// Compare applies the receiver's test and expected updates to sibling Datums
// and compares them.  It returns a diff message and true if they differ.
// String table ordering is not compared.
func (uc *UpdateComparator) Compare(t *testing.T) (string, bool) {
	t.Helper()
	drb := util.NewDataResponseBuilder()
	series := drb.DataSeries("")
	series.Child().With(uc.got...)
	series.Child().With(uc.want...)
	data, err := drb.Data()
	if err != nil {
		t.Fatalf("failed to build updates: %s", err)
	}
	children := data.DataSeries[0].Root.Children
	if diff := cmp.Diff(
		children[1].PrettyPrint("", data.StringTable),
		children[0].PrettyPrint("", data.StringTable)); diff != "" {
		return fmt.Sprintf("Got datum %s, diff (-want +got):\n%s",
			children[0].PrettyPrint("", data.StringTable), diff), true
	}
	return "", false
}

// TestDataBuilder fluently assembles expected chart data in tests.
type TestDataBuilder interface {
	With(updates ...util.PropertyUpdate) TestDataBuilder
	Child() TestDataBuilder
	AndChild() TestDataBuilder
	Parent() TestDataBuilder
}

type testDataBuilder struct {
	db     util.DataBuilder
	parent *testDataBuilder
}

func (tdb *testDataBuilder) With(updates ...util.PropertyUpdate) TestDataBuilder {
	if tdb != nil {
		tdb.db.With(updates...)
	}
	return tdb
}

// Child adds a child Datum to the receiver and returns a builder for it.
func (tdb *testDataBuilder) Child() TestDataBuilder {
	return &testDataBuilder{
		db:     tdb.db.Child(),
		parent: tdb,
	}
}

// AndChild adds a sibling of the receiver, or a child if the receiver is the
// root.
func (tdb *testDataBuilder) AndChild() TestDataBuilder {
	if tdb == nil {
		return nil
	}
	if tdb.parent == nil {
		return tdb.Child()
	}
	return tdb.Parent().Child()
}

// Parent returns the receiver's parent, or the receiver if it is the root.
func (tdb *testDataBuilder) Parent() TestDataBuilder {
	if tdb == nil {
		return nil
	}
	if tdb.parent == nil {
		return tdb
	}
	return tdb.parent
}

func dataOf(d any) (*util.Data, error) {
	switch v := d.(type) {
	case *util.DataResponseBuilder:
		return v.Data()
	case *util.Data:
		return v, nil
	default:
		return nil, fmt.Errorf("argument must be a *util.DataResponseBuilder or a *util.Data")
	}
}

// CompareDataResponses compares got and want, each of which must be a
// *util.DataResponseBuilder or a *util.Data, reporting any difference on t.
// It returns an error if either could not be built.
func CompareDataResponses(t *testing.T, got any, want any) error {
	t.Helper()
	gotData, err := dataOf(got)
	if err != nil {
		return err
	}
	wantData, err := dataOf(want)
	if err != nil {
		return err
	}
	if diff := cmp.Diff(wantData.PrettyPrint(), gotData.PrettyPrint()); diff != "" {
		t.Errorf("Got data %s, diff (-want +got):\n%s", gotData.PrettyPrint(), diff)
	}
	return nil
}

func build(t *testing.T, drb *util.DataResponseBuilder, buildIf any) {
	t.Helper()
	switch build := buildIf.(type) {
	case func(util.DataBuilder):
		build(drb.DataSeries(""))
	case func(TestDataBuilder):
		build(&testDataBuilder{db: drb.DataSeries("")})
	default:
		t.Fatalf("expected a func(util.DataBuilder) or func(testutil.TestDataBuilder), got %T", buildIf)
	}
}

// CompareResponses compares the data built by buildGotIf, from the code
// under test, with that built by buildWantIf.  Each must be a
// func(util.DataBuilder) or a func(TestDataBuilder).
func CompareResponses(t *testing.T, buildGotIf any, buildWantIf any) error {
	t.Helper()
	gotDrb, wantDrb := util.NewDataResponseBuilder(), util.NewDataResponseBuilder()
	build(t, gotDrb, buildGotIf)
	build(t, wantDrb, buildWantIf)
	return CompareDataResponses(t, gotDrb, wantDrb)
}
