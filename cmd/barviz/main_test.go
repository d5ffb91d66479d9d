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

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ilhamster/barviz/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const salesDataset = `
categories:
  - name: Region
    roles: [Axis]
    values: [North, South, East]
measures:
  - name: Sales
    roles: [Value]
    values: [1200, 3400, 560]
`

const unrenderableDataset = `
categories:
  - name: Region
    roles: [Axis]
    values: [North, South]
measures: []
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	cmd := newRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()

	return stdout.String(), err
}

func TestLayoutJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "sales.yaml", salesDataset)

	out, err := execute(t, "layout", path, "--output", "json", "--width", "600", "--height", "400")
	require.NoError(t, err)

	var got report
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.False(t, got.Cleared)
	assert.Equal(t, "default", got.Kind)
	assert.Equal(t, 3, got.LayoutPasses)
	assert.Nil(t, got.Scroll)
	require.Len(t, got.Bars, 3)
	assert.Equal(t, "North", got.Bars[0].Category)
	assert.Equal(t, 3400.0, got.Bars[1].Value)

	for _, bar := range got.Bars {
		require.NotNil(t, bar.Bar)
		assert.Greater(t, bar.Bar.Width, 0.0)
	}
	// Bars are proportional to their values on a zero-based axis.
	assert.InDelta(t, got.Bars[1].Bar.Width/got.Bars[0].Bar.Width, 3400.0/1200.0, 1e-6)
}

func TestLayoutTable(t *testing.T) {
	path := writeFile(t, t.TempDir(), "sales.yaml", salesDataset)

	out, err := execute(t, "layout", path)
	require.NoError(t, err)
	assert.Contains(t, out, "South")
	assert.Contains(t, out, "3,400")
	assert.Contains(t, out, "3 bars")
}

func TestLayoutWire(t *testing.T) {
	path := writeFile(t, t.TempDir(), "sales.yaml", salesDataset)

	out, err := execute(t, "layout", path, "-o", "wire")
	require.NoError(t, err)

	var data util.Data
	require.NoError(t, json.Unmarshal([]byte(out), &data))
	require.NotNil(t, data.Series(path))
	assert.Contains(t, data.StringTable, "visual_kind")
}

func TestLayoutCleared(t *testing.T) {
	path := writeFile(t, t.TempDir(), "regions.yaml", unrenderableDataset)

	out, err := execute(t, "layout", path, "-o", "json")
	require.NoError(t, err)

	var got report
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.True(t, got.Cleared)
	assert.Empty(t, got.Bars)
}

func TestLayoutErrors(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "sales.yaml", salesDataset)

	_, err := execute(t, "layout", path, "-o", "svg")
	require.ErrorIs(t, err, ErrUnknownOutput)

	_, err = execute(t, "layout", filepath.Join(dir, "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = execute(t, "layout", path, "--log-level", "loud")
	require.Error(t, err)

	_, err = execute(t, "layout")
	require.Error(t, err)
}

func TestLayoutSettings(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "sales.yaml", salesDataset)
	settings := writeFile(t, dir, "settings.yaml", `
category_axis:
  allow_scroll: true
  min_category_width: 150
`)

	out, err := execute(t, "layout", path, "--settings", settings, "-o", "json", "--height", "300", "--scroll", "1")
	require.NoError(t, err)

	var got report
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.NotNil(t, got.Scroll)
	assert.Equal(t, 1, got.Scroll.Position)
	require.NotEmpty(t, got.Bars)
	assert.Equal(t, "South", got.Bars[0].Category)
}

func TestBatch(t *testing.T) {
	dir := t.TempDir()
	sales := writeFile(t, dir, "sales.yaml", salesDataset)
	regions := writeFile(t, dir, "regions.yaml", unrenderableDataset)

	out, err := execute(t, "batch", sales, regions, "--concurrency", "2")
	require.NoError(t, err)
	assert.Contains(t, out, sales)
	assert.Contains(t, out, "cleared")
	assert.Contains(t, out, "2 charts")
	assert.Contains(t, out, "3 passes")
}

func TestBatchWire(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.yaml", salesDataset)
	b := writeFile(t, dir, "b.yaml", salesDataset)

	out, err := execute(t, "batch", a, b, "-o", "wire")
	require.NoError(t, err)

	var data util.Data
	require.NoError(t, json.Unmarshal([]byte(out), &data))
	assert.Len(t, data.DataSeries, 2)
	assert.NotNil(t, data.Series(a))
	assert.NotNil(t, data.Series(b))
}

func TestBatchDuplicate(t *testing.T) {
	path := writeFile(t, t.TempDir(), "sales.yaml", salesDataset)

	_, err := execute(t, "batch", path, path)
	require.ErrorContains(t, err, "multiple requests")
}
