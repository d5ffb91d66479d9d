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

package testutil

import (
	"testing"

	"github.com/ilhamster/barviz/util"
)

func TestUpdateComparator(t *testing.T) {
	for _, test := range []struct {
		description string
		comparator  *UpdateComparator
		different   bool
	}{{
		description: "equal updates",
		comparator: NewUpdateComparator().
			WithTestUpdates(util.StringProperty("category", "North")).
			WithWantUpdates(util.StringProperty("category", "North")),
	}, {
		description: "order independence",
		comparator: NewUpdateComparator().
			WithTestUpdates(
				util.StringProperty("category", "North"),
				util.DoubleProperty("value", 12.5),
			).
			WithWantUpdates(
				util.DoubleProperty("value", 12.5),
				util.StringProperty("category", "North"),
			),
	}, {
		description: "later updates win",
		comparator: NewUpdateComparator().
			WithTestUpdates(
				util.DoubleProperty("fill_opacity", 1),
				util.DoubleProperty("fill_opacity", .4),
			).
			WithWantUpdates(
				util.DoubleProperty("fill_opacity", .4),
			),
	}, {
		description: "different strings",
		comparator: NewUpdateComparator().
			WithTestUpdates(util.StringProperty("category", "North")).
			WithWantUpdates(util.StringProperty("category", "South")),
		different: true,
	}, {
		description: "different numeric types",
		comparator: NewUpdateComparator().
			WithTestUpdates(util.IntegerProperty("value", 10)).
			WithWantUpdates(util.DoubleProperty("value", 10)),
		different: true,
	}} {
		t.Run(test.description, func(t *testing.T) {
			gotMsg, different := test.comparator.Compare(t)
			if test.different != different {
				t.Errorf("Compare() yielded unexpected return message '%s'", gotMsg)
			}
		})
	}
}

func TestCompareResponses(t *testing.T) {
	if err := CompareResponses(t,
		func(db util.DataBuilder) {
			db.With(util.StringProperty("axis", "category"))
			db.Child().With(util.DoubleProperty("value", 1))
			db.Child().With(util.DoubleProperty("value", 2))
		},
		func(db TestDataBuilder) {
			db.With(util.StringProperty("axis", "category")).
				Child().With(util.DoubleProperty("value", 1)).
				AndChild().With(util.DoubleProperty("value", 2))
		}); err != nil {
		t.Fatalf("CompareResponses() yielded unexpected error %s", err)
	}
}
