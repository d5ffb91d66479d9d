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

// Package dataset defines the role-tagged tabular result set a bar chart is
// built from, and loads it from YAML or JSON.
//
// A Table holds category columns (Axis, ColumnBy, and RowBy roles), measure
// columns (Value, Tooltips, and Gradient roles), and optionally the metadata
// of the grouping column whose distinct values split measures into legend
// series.  Every measure column belonging to a legend series carries that
// series' value in its Group field.
package dataset

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ilhamster/barviz/util"
	"gopkg.in/yaml.v3"
)

// ErrNoRows is returned by Load when a dataset holds no rows.
var ErrNoRows = errors.New("dataset has no rows")

// Role is a binding role a column may carry.
type Role int

// Supported roles.
const (
	Axis Role = iota
	Legend
	Value
	Gradient
	ColumnBy
	RowBy
	Tooltips
)

var roleNames = map[Role]string{
	Axis:     "Axis",
	Legend:   "Legend",
	Value:    "Value",
	Gradient: "Gradient",
	ColumnBy: "ColumnBy",
	RowBy:    "RowBy",
	Tooltips: "Tooltips",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.  Role names are
// case-insensitive.
func (r *Role) UnmarshalText(text []byte) error {
	for role, name := range roleNames {
		if strings.EqualFold(name, string(text)) {
			*r = role
			return nil
		}
	}
	return fmt.Errorf("unknown role '%s'", string(text))
}

// Identity is an opaque selection token supplied by the host for a row or a
// row/series cell.  It is only ever compared and forwarded.
type Identity string

// ColumnType declares how a column's values are interpreted on an axis.
type ColumnType string

// Column types.  An empty type is inferred from the column's values.
const (
	Inferred ColumnType = ""
	Text     ColumnType = "text"
	Number   ColumnType = "number"
	Date     ColumnType = "date"
)

// Column is a single named column of a Table.
type Column struct {
	Name      string     `yaml:"name" json:"name"`
	QueryName string     `yaml:"queryName,omitempty" json:"queryName,omitempty"`
	Format    string     `yaml:"format,omitempty" json:"format,omitempty"`
	Type      ColumnType `yaml:"type,omitempty" json:"type,omitempty"`
	Roles     []Role     `yaml:"roles" json:"roles"`
	Values    []util.V   `yaml:"values" json:"values"`
	// Highlights holds the cross-highlighted subset of Values, or is nil if
	// nothing is highlighted.
	Highlights []util.V   `yaml:"highlights,omitempty" json:"highlights,omitempty"`
	Identities []Identity `yaml:"identities,omitempty" json:"identities,omitempty"`
	// Group is the legend series this measure column belongs to.
	Group util.V `yaml:"group,omitempty" json:"group,omitempty"`
}

// HasRole returns true if the receiver carries the specified role.
func (c *Column) HasRole(role Role) bool {
	if c == nil {
		return false
	}
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Value returns the receiver's value at the specified row, or null if there
// is none.
func (c *Column) Value(row int) util.V {
	if c == nil || row < 0 || row >= len(c.Values) {
		return util.Null
	}
	return c.Values[row]
}

// Highlight returns the receiver's highlighted value at the specified row,
// or null if there is none.
func (c *Column) Highlight(row int) util.V {
	if c == nil || row < 0 || row >= len(c.Highlights) {
		return util.Null
	}
	return c.Highlights[row]
}

// Identity returns the receiver's identity token at the specified row, or the
// empty Identity if there is none.
func (c *Column) Identity(row int) Identity {
	if c == nil || row < 0 || row >= len(c.Identities) {
		return ""
	}
	return c.Identities[row]
}

// IsScalar returns true if the receiver's values can lie on a continuous
// axis: it is declared a number or date column, or it is undeclared and all
// its non-blank values are numeric.
func (c *Column) IsScalar() bool {
	if c == nil {
		return false
	}
	switch c.Type {
	case Number, Date:
		return true
	case Text:
		return false
	}
	sawValue := false
	for _, v := range c.Values {
		if v.IsBlank() {
			continue
		}
		if !v.IsNumeric() {
			return false
		}
		sawValue = true
	}
	return sawValue
}

// Table is a role-tagged tabular result set.
type Table struct {
	Categories []*Column `yaml:"categories" json:"categories"`
	Measures   []*Column `yaml:"measures" json:"measures"`
	// Grouping describes the column whose values split measures into legend
	// series.  It is nil if measures are not grouped.
	Grouping *Column `yaml:"grouping,omitempty" json:"grouping,omitempty"`
}

// HasRole returns true if any column in the receiver carries the specified
// role.
func (t *Table) HasRole(role Role) bool {
	if t.Grouping.HasRole(role) {
		return true
	}
	for _, cols := range [][]*Column{t.Categories, t.Measures} {
		for _, col := range cols {
			if col.HasRole(role) {
				return true
			}
		}
	}
	return false
}

// CategoryColumn returns the first category column carrying the specified
// role, or nil.
func (t *Table) CategoryColumn(role Role) *Column {
	for _, col := range t.Categories {
		if col.HasRole(role) {
			return col
		}
	}
	return nil
}

// MeasureColumns returns all measure columns carrying the specified role, in
// order.
func (t *Table) MeasureColumns(role Role) []*Column {
	ret := []*Column{}
	for _, col := range t.Measures {
		if col.HasRole(role) {
			ret = append(ret, col)
		}
	}
	return ret
}

// ValueColumnCount returns the number of distinct Value-role fields.  Value
// columns split into several legend series count once.
func (t *Table) ValueColumnCount() int {
	seen := map[string]struct{}{}
	for _, col := range t.MeasureColumns(Value) {
		key := col.QueryName
		if key == "" {
			key = col.Name
		}
		seen[key] = struct{}{}
	}
	return len(seen)
}

// LegendValues returns the distinct Group values of the receiver's Value
// columns, in first-seen order.
func (t *Table) LegendValues() []util.V {
	ret := []util.V{}
	seen := map[string]struct{}{}
	for _, col := range t.MeasureColumns(Value) {
		key := col.Group.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		ret = append(ret, col.Group)
	}
	return ret
}

// RowCount returns the number of rows in the receiver.
func (t *Table) RowCount() int {
	if axis := t.CategoryColumn(Axis); axis != nil {
		return len(axis.Values)
	}
	ret := 0
	for _, cols := range [][]*Column{t.Categories, t.Measures} {
		for _, col := range cols {
			if len(col.Values) > ret {
				ret = len(col.Values)
			}
		}
	}
	return ret
}

// CategoryIsScalar returns true if the receiver's category axis values can
// lie on a continuous axis.  When the Axis role is carried by the grouping
// column, its Group values are considered instead.
func (t *Table) CategoryIsScalar() bool {
	if axis := t.CategoryColumn(Axis); axis != nil {
		return axis.IsScalar()
	}
	if t.Grouping.HasRole(Axis) {
		return (&Column{Type: t.Grouping.Type, Values: t.LegendValues()}).IsScalar()
	}
	return false
}

// Validate checks that the receiver's columns are mutually consistent.
func (t *Table) Validate() error {
	rows := t.RowCount()
	for _, col := range t.Categories {
		if len(col.Values) != rows {
			return fmt.Errorf("category column '%s' has %d values, expected %d", col.Name, len(col.Values), rows)
		}
	}
	for _, col := range append(append([]*Column{}, t.Categories...), t.Measures...) {
		if col.Name == "" {
			return fmt.Errorf("all columns must be named")
		}
		if len(col.Roles) == 0 {
			return fmt.Errorf("column '%s' has no roles", col.Name)
		}
		if col.Highlights != nil && len(col.Highlights) != len(col.Values) {
			return fmt.Errorf("column '%s' has %d highlights for %d values", col.Name, len(col.Highlights), len(col.Values))
		}
		if col.Identities != nil && len(col.Identities) != len(col.Values) {
			return fmt.Errorf("column '%s' has %d identities for %d values", col.Name, len(col.Identities), len(col.Values))
		}
	}
	return nil
}

// Decode reads a Table from YAML (or JSON) and validates it.
func Decode(r io.Reader) (*Table, error) {
	ret := &Table{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(ret); err != nil {
		return nil, fmt.Errorf("failed to decode dataset: %w", err)
	}
	if err := ret.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dataset: %w", err)
	}
	return ret, nil
}

// Load reads and validates the Table at the specified path.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	ret, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if ret.RowCount() == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoRows)
	}
	return ret, nil
}
