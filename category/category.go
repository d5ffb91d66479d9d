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

// Package category groups bar chart data points by category, and declares
// categories in exported chart data.
//
// A Group holds the points of one category, in their original order; the
// scroll window pages over Groups and never splits one.  A Category is the
// exported declaration of a category: a Datum may Define one Category, and
// bars Tag themselves with the Category they belong to.
package category

import (
	"github.com/ilhamster/barviz/points"
	"github.com/ilhamster/barviz/util"
)

const (
	categoryDefinedIDKey   = "category_defined_id"
	categoryDisplayNameKey = "category_display_name"
	categoryBlankKey       = "category_blank"
	categoryIDsKey         = "category_ids"
)

// Group holds the points belonging to a single category.
type Group struct {
	// Key is the category's grouping key.
	Key      string
	Category util.V
	Points   []*points.DataPoint
}

// GroupPoints groups pts into runs of consecutive points sharing a category,
// preserving order.  Point builders emit all points of a category together,
// so each category normally yields one Group.
func GroupPoints(pts []*points.DataPoint) []*Group {
	ret := []*Group{}
	var cur *Group
	for _, p := range pts {
		key := p.Category.Key()
		if cur == nil || cur.Key != key {
			cur = &Group{
				Key:      key,
				Category: p.Category,
			}
			ret = append(ret, cur)
		}
		cur.Points = append(cur.Points, p)
	}
	return ret
}

// Flatten returns the points of groups, concatenated in order.
func Flatten(groups []*Group) []*points.DataPoint {
	n := 0
	for _, g := range groups {
		n += len(g.Points)
	}
	ret := make([]*points.DataPoint, 0, n)
	for _, g := range groups {
		ret = append(ret, g.Points...)
	}
	return ret
}

// Categories returns the category of each group, in order.
func Categories(groups []*Group) []util.V {
	ret := make([]util.V, len(groups))
	for idx, g := range groups {
		ret[idx] = g.Category
	}
	return ret
}

// Category is an exported category declaration.
type Category struct {
	id          string
	displayName string
	blank       bool
}

// New returns a new Category for the provided category value.
func New(v util.V) *Category {
	return &Category{
		id:          v.Key(),
		displayName: v.String(),
		blank:       points.IsBlank(v),
	}
}

// ID returns the category's ID.
func (c *Category) ID() string {
	return c.id
}

// Define declares the receiver.  Only the last Category defined on a Datum
// takes effect.
func (c *Category) Define() util.PropertyUpdate {
	return util.Chain(
		util.StringProperty(categoryDefinedIDKey, c.id),
		util.StringProperty(categoryDisplayNameKey, c.displayName),
		util.If(c.blank, util.BoolProperty(categoryBlankKey, true)),
	)
}

// Tag annotates an item as belonging to the receiver.
func (c *Category) Tag() util.PropertyUpdate {
	return util.StringsPropertyExtended(categoryIDsKey, c.id)
}

// Tag annotates with the provided set of Categories.
func Tag(cats ...*Category) util.PropertyUpdate {
	categoryIDs := make([]string, len(cats))
	for idx, cat := range cats {
		categoryIDs[idx] = cat.id
	}
	return util.StringsPropertyExtended(categoryIDsKey, categoryIDs...)
}
