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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ilhamster/barviz/label"
	"github.com/ilhamster/barviz/points"
	"github.com/ilhamster/barviz/style"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSettings(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, s.Selection)
	s.Selection = nil
	assert.Equal(t, Default(), *s)
}

func TestLoadMissingFile(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().CategoryAxis, s.CategoryAxis)
}

func TestLoadEmptyFile(t *testing.T) {
	s, err := Load(writeSettings(t, "settings.yaml", ""))
	require.NoError(t, err)
	assert.Equal(t, "#01b8aa", s.DataPoint.Fill)
	assert.Equal(t, Categorical, s.CategoryAxis.AxisType)
	assert.Nil(t, s.CategoryAxis.Start)
	assert.Nil(t, s.ValueAxis.Precision)
}

func TestLoadOverrides(t *testing.T) {
	path := writeSettings(t, "settings.yaml", `
data_point:
  colors:
    - key: North
      color: "#123456"
category_axis:
  axis_type: continuous
  start: 2
  min_category_width: 25
value_axis:
  display_units: 1000
  precision: 1
  line_style: dashed
category_labels:
  show: true
  position: outside
constant_line:
  show: true
  value: 40
  horizontal_position: right
selection: [a, b]
stacking: value
`)
	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"North": "#123456"}, s.DataPoint.Overrides())
	assert.Equal(t, Continuous, s.CategoryAxis.AxisType)
	require.NotNil(t, s.CategoryAxis.Start)
	assert.InDelta(t, 2.0, *s.CategoryAxis.Start, 1e-9)
	assert.Nil(t, s.CategoryAxis.End)
	assert.InDelta(t, 25.0, s.CategoryAxis.MinCategoryWidth, 1e-9)
	assert.InDelta(t, 1000.0, s.ValueAxis.DisplayUnits, 1e-9)
	require.NotNil(t, s.ValueAxis.Precision)
	assert.Equal(t, 1, *s.ValueAxis.Precision)
	assert.Equal(t, style.Dashed, s.ValueAxis.LineStyle)
	assert.True(t, s.CategoryLabels.Show)
	assert.Equal(t, label.OutsideEnd, s.CategoryLabels.Position)
	assert.Equal(t, label.Right, s.ConstantLine.HorizontalPosition)
	assert.Equal(t, label.Bottom, s.ConstantLine.VerticalPosition)
	assert.Equal(t, []string{"a", "b"}, s.Selection)
	assert.Equal(t, points.ValueStacking, s.StackingMode())
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("BARVIZ_CATEGORY_AXIS_INNER_PADDING", "35")
	s, err := Load(writeSettings(t, "settings.yaml", ""))
	require.NoError(t, err)
	assert.InDelta(t, 35.0, s.CategoryAxis.InnerPadding, 1e-9)
}

func TestLoadInvalid(t *testing.T) {
	_, err := Load(writeSettings(t, "settings.yaml", "category_labels:\n  position: sideways\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "category_labels.position")
}

func TestValidate(t *testing.T) {
	for _, test := range []struct {
		description string
		mutate      func(s *Settings)
		wantErr     bool
	}{{
		description: "defaults",
		mutate:      func(s *Settings) {},
	}, {
		description: "bad axis type",
		mutate:      func(s *Settings) { s.CategoryAxis.AxisType = "radial" },
		wantErr:     true,
	}, {
		description: "bad log scale name",
		mutate:      func(s *Settings) { s.ValueAxis.AxisScale = "ln" },
		wantErr:     true,
	}, {
		description: "bad stacking",
		mutate:      func(s *Settings) { s.Stacking = "diagonal" },
		wantErr:     true,
	}, {
		description: "known stacking",
		mutate:      func(s *Settings) { s.Stacking = "index" },
	}, {
		description: "bad constant line text",
		mutate:      func(s *Settings) { s.ConstantLine.Text = "both" },
		wantErr:     true,
	}, {
		description: "zero unit width",
		mutate:      func(s *Settings) { s.SmallMultiple.MinUnitWidth = 0 },
		wantErr:     true,
	}} {
		t.Run(test.description, func(t *testing.T) {
			s := Default()
			test.mutate(&s)
			err := s.Validate()
			if test.wantErr {
				assert.ErrorIs(t, err, ErrInvalid)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	s := Default()
	s.CategoryAxis.InnerPadding = 80
	s.CategoryAxis.MinCategoryWidth = 5
	s.CategoryAxis.MaximumSize = 90
	s.SmallMultiple.MaxRowWidth = 0
	s.Selection = []string{"a"}
	got := s.Normalize()
	assert.InDelta(t, 50.0, got.CategoryAxis.InnerPadding, 1e-9)
	assert.InDelta(t, 20.0, got.CategoryAxis.MinCategoryWidth, 1e-9)
	assert.InDelta(t, 50.0, got.CategoryAxis.MaximumSize, 1e-9)
	assert.Equal(t, 1, got.SmallMultiple.MaxRowWidth)
	// The receiver is untouched.
	assert.InDelta(t, 80.0, s.CategoryAxis.InnerPadding, 1e-9)
	got.Selection[0] = "b"
	assert.Equal(t, "a", s.Selection[0])
}

func TestConstantLineOpacity(t *testing.T) {
	cl := Default().ConstantLine
	assert.InDelta(t, .1, cl.Opacity(), 1e-9)
	assert.True(t, LegendTop.Vertical())
	assert.False(t, LegendRight.Vertical())
}
