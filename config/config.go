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

// Package config holds the settings of a bar chart, mirroring the groups of
// its property pane.  Settings are loaded once and then passed by value
// through every stage of the layout pipeline; no stage mutates them.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strings"

	"github.com/ilhamster/barviz/label"
	"github.com/ilhamster/barviz/points"
	"github.com/ilhamster/barviz/style"
	"github.com/spf13/viper"
)

// ErrInvalid is returned (wrapped) by Validate for out-of-domain settings.
var ErrInvalid = errors.New("invalid settings")

const (
	configType      = "yaml"
	envPrefix       = "BARVIZ"
	envKeySeparator = "_"
)

// DefaultFontFamily is the font family of all chart text.
const DefaultFontFamily = "sans-serif"

// Bounds applied by Normalize.
const (
	MaxInnerPadding     = 50
	MinCategoryWidthMin = 20
	MinCategoryWidthMax = 180
	MaximumSizeMin      = 15
	MaximumSizeMax      = 50
)

// AxisType selects whether the category axis is ordinal or scalar.
type AxisType string

const (
	Categorical AxisType = "categorical"
	Continuous  AxisType = "continuous"
)

// ScaleType selects the scale of a continuous axis.
type ScaleType string

const (
	Linear ScaleType = "linear"
	Log    ScaleType = "log"
)

// RangeType selects how small-multiple facets share axis ranges.
type RangeType string

const (
	Common   RangeType = "common"
	Separate RangeType = "separate"
	Custom   RangeType = "custom"
)

// TitleStyle selects what an axis title shows.
type TitleStyle string

const (
	ShowTitleOnly TitleStyle = "showTitleOnly"
	ShowUnitOnly  TitleStyle = "showUnitOnly"
	ShowBoth      TitleStyle = "showBoth"
)

// AxisPosition is the side the category axis is drawn on.
type AxisPosition string

const (
	AxisLeft  AxisPosition = "left"
	AxisRight AxisPosition = "right"
)

// LegendPosition is the side the legend is drawn on.
type LegendPosition string

const (
	LegendTop    LegendPosition = "Top"
	LegendBottom LegendPosition = "Bottom"
	LegendLeft   LegendPosition = "Left"
	LegendRight  LegendPosition = "Right"
)

// Vertical returns true if the legend is drawn above or below the chart.
func (lp LegendPosition) Vertical() bool {
	return lp == LegendTop || lp == LegendBottom
}

// LinePosition places the constant line behind or in front of the bars.
type LinePosition string

const (
	Behind  LinePosition = "behind"
	InFront LinePosition = "front"
)

// LayoutMode arranges small-multiple facets.
type LayoutMode string

const (
	Flow   LayoutMode = "flow"
	Matrix LayoutMode = "matrix"
)

// DataPoint configures bar fills.
type DataPoint struct {
	Fill              string `mapstructure:"fill"`
	ShowAllDataPoints bool   `mapstructure:"show_all_data_points"`
	// Colors overrides the fill of individual categories (in the default
	// configuration) or legend series.
	Colors []ColorOverride `mapstructure:"colors"`
}

// ColorOverride sets the fill of the category or series displayed as Key.
type ColorOverride struct {
	Key   string `mapstructure:"key"`
	Color string `mapstructure:"color"`
}

// Overrides returns the receiver's color overrides keyed by display text.
// Later overrides of the same key win.
func (dp DataPoint) Overrides() map[string]string {
	ret := make(map[string]string, len(dp.Colors))
	for _, co := range dp.Colors {
		ret[co.Key] = co.Color
	}
	return ret
}

// Legend configures the legend.
type Legend struct {
	Show      bool           `mapstructure:"show"`
	Position  LegendPosition `mapstructure:"position"`
	ShowTitle bool           `mapstructure:"show_title"`
	Name      string         `mapstructure:"name"`
	FontSize  float64        `mapstructure:"font_size"`
}

// CategoryAxis configures the category (vertical) axis.
type CategoryAxis struct {
	Show      bool         `mapstructure:"show"`
	Position  AxisPosition `mapstructure:"position"`
	AxisType  AxisType     `mapstructure:"axis_type"`
	AxisScale ScaleType    `mapstructure:"axis_scale"`
	RangeType RangeType    `mapstructure:"range_type"`
	Start     *float64     `mapstructure:"start"`
	End       *float64     `mapstructure:"end"`
	FontSize  float64      `mapstructure:"font_size"`
	// MinCategoryWidth is the minimum space, in pixels, given to each
	// category before the axis scrolls.
	MinCategoryWidth float64 `mapstructure:"min_category_width"`
	// MaximumSize is the largest share of the chart width, in percent, that
	// tick labels may take.
	MaximumSize float64 `mapstructure:"maximum_size"`
	// InnerPadding is the padding between bands, in percent of the step.
	InnerPadding  float64    `mapstructure:"inner_padding"`
	ShowTitle     bool       `mapstructure:"show_title"`
	TitleStyle    TitleStyle `mapstructure:"title_style"`
	Title         string     `mapstructure:"title"`
	TitleFontSize float64    `mapstructure:"title_font_size"`
	AllowScroll   bool       `mapstructure:"allow_scroll"`
}

// ValueAxis configures the value (horizontal) axis.
type ValueAxis struct {
	Show          bool            `mapstructure:"show"`
	AxisScale     ScaleType       `mapstructure:"axis_scale"`
	RangeType     RangeType       `mapstructure:"range_type"`
	Start         *float64        `mapstructure:"start"`
	End           *float64        `mapstructure:"end"`
	FontSize      float64         `mapstructure:"font_size"`
	DisplayUnits  float64         `mapstructure:"display_units"`
	Precision     *int            `mapstructure:"precision"`
	ShowTitle     bool            `mapstructure:"show_title"`
	TitleStyle    TitleStyle      `mapstructure:"title_style"`
	Title         string          `mapstructure:"title"`
	TitleFontSize float64         `mapstructure:"title_font_size"`
	ShowGridlines bool            `mapstructure:"show_gridlines"`
	GridlineColor string          `mapstructure:"gridline_color"`
	StrokeWidth   float64         `mapstructure:"stroke_width"`
	LineStyle     style.LineStyle `mapstructure:"line_style"`
}

// CategoryLabels configures the data labels drawn beside bars.
type CategoryLabels struct {
	Show            bool           `mapstructure:"show"`
	Color           string         `mapstructure:"color"`
	DisplayUnits    float64        `mapstructure:"display_units"`
	Precision       int            `mapstructure:"precision"`
	Position        label.Position `mapstructure:"position"`
	OverflowText    bool           `mapstructure:"overflow_text"`
	FontSize        float64        `mapstructure:"font_size"`
	ShowBackground  bool           `mapstructure:"show_background"`
	Transparency    float64        `mapstructure:"transparency"`
	BackgroundColor string         `mapstructure:"background_color"`
}

// ConstantLine configures a reference line at a fixed value.
type ConstantLine struct {
	Show               bool                     `mapstructure:"show"`
	Name               string                   `mapstructure:"name"`
	Value              float64                  `mapstructure:"value"`
	LineColor          string                   `mapstructure:"line_color"`
	Transparency       float64                  `mapstructure:"transparency"`
	LineStyle          style.LineStyle          `mapstructure:"line_style"`
	Position           LinePosition             `mapstructure:"position"`
	DataLabelShow      bool                     `mapstructure:"data_label_show"`
	FontColor          string                   `mapstructure:"font_color"`
	Text               label.TextMode           `mapstructure:"text"`
	HorizontalPosition label.HorizontalPosition `mapstructure:"horizontal_position"`
	VerticalPosition   label.VerticalPosition   `mapstructure:"vertical_position"`
	DisplayUnits       float64                  `mapstructure:"display_units"`
	Precision          *int                     `mapstructure:"precision"`
}

// Opacity returns the line's opacity.
func (cl ConstantLine) Opacity() float64 {
	return 1 - cl.Transparency/100
}

// SmallMultiple configures the facet grid.
type SmallMultiple struct {
	LayoutMode     LayoutMode `mapstructure:"layout_mode"`
	MinUnitWidth   float64    `mapstructure:"min_unit_width"`
	MinUnitHeight  float64    `mapstructure:"min_unit_height"`
	MaxRowWidth    int        `mapstructure:"max_row_width"`
	ShowChartTitle bool       `mapstructure:"show_chart_title"`
	FontSize       float64    `mapstructure:"font_size"`
	ShowSeparators bool       `mapstructure:"show_separators"`
}

// Settings holds every bar chart setting.
type Settings struct {
	FontFamily     string         `mapstructure:"font_family"`
	DataPoint      DataPoint      `mapstructure:"data_point"`
	Legend         Legend         `mapstructure:"legend"`
	CategoryAxis   CategoryAxis   `mapstructure:"category_axis"`
	ValueAxis      ValueAxis      `mapstructure:"value_axis"`
	CategoryLabels CategoryLabels `mapstructure:"category_labels"`
	ConstantLine   ConstantLine   `mapstructure:"constant_line"`
	SmallMultiple  SmallMultiple  `mapstructure:"small_multiple"`
	// Selection holds the persisted identity tokens of selected points.
	Selection []string `mapstructure:"selection"`
	// Stacking names a points.StackingMode; empty selects the default.
	Stacking string `mapstructure:"stacking"`
}

// Default returns the default Settings.
func Default() Settings {
	return Settings{
		FontFamily: DefaultFontFamily,
		DataPoint: DataPoint{
			Fill:              "#01b8aa",
			ShowAllDataPoints: true,
		},
		Legend: Legend{
			Show:      true,
			Position:  LegendTop,
			ShowTitle: true,
			FontSize:  8,
		},
		CategoryAxis: CategoryAxis{
			Show:             true,
			Position:         AxisLeft,
			AxisType:         Categorical,
			AxisScale:        Linear,
			RangeType:        Common,
			FontSize:         11,
			MinCategoryWidth: 20,
			MaximumSize:      25,
			InnerPadding:     20,
			TitleStyle:       ShowTitleOnly,
			TitleFontSize:    11,
			AllowScroll:      true,
		},
		ValueAxis: ValueAxis{
			Show:          true,
			AxisScale:     Linear,
			RangeType:     Common,
			FontSize:      11,
			TitleStyle:    ShowTitleOnly,
			TitleFontSize: 11,
			ShowGridlines: true,
			StrokeWidth:   1,
			LineStyle:     style.Solid,
		},
		CategoryLabels: CategoryLabels{
			Position:     label.Auto,
			FontSize:     9,
			Transparency: 90,
		},
		ConstantLine: ConstantLine{
			LineColor:          "#01b8aa",
			Transparency:       90,
			LineStyle:          style.Dotted,
			Position:           Behind,
			FontColor:          "#01b8aa",
			Text:               label.Name,
			HorizontalPosition: label.Left,
			VerticalPosition:   label.Bottom,
		},
		SmallMultiple: SmallMultiple{
			LayoutMode:     Flow,
			MinUnitWidth:   150,
			MinUnitHeight:  120,
			MaxRowWidth:    4,
			ShowChartTitle: true,
			FontSize:       9,
			ShowSeparators: true,
		},
	}
}

// Load loads Settings from the file at path (YAML, JSON or TOML by
// extension), overlaid with BARVIZ_-prefixed environment variables, atop the
// defaults.  An empty path, or a missing file, yields the defaults.
func Load(path string) (*Settings, error) {
	v := viper.New()
	applyDefaults(v)
	v.SetConfigType(configType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	v.AutomaticEnv()
	if path != "" && exists(path) {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read settings: %w", err)
			}
		}
	}
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("validate settings: %w", err)
	}
	return &s, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}

func applyDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("font_family", d.FontFamily)
	v.SetDefault("stacking", d.Stacking)

	v.SetDefault("data_point.fill", d.DataPoint.Fill)
	v.SetDefault("data_point.show_all_data_points", d.DataPoint.ShowAllDataPoints)

	v.SetDefault("legend.show", d.Legend.Show)
	v.SetDefault("legend.position", string(d.Legend.Position))
	v.SetDefault("legend.show_title", d.Legend.ShowTitle)
	v.SetDefault("legend.name", d.Legend.Name)
	v.SetDefault("legend.font_size", d.Legend.FontSize)

	v.SetDefault("category_axis.show", d.CategoryAxis.Show)
	v.SetDefault("category_axis.position", string(d.CategoryAxis.Position))
	v.SetDefault("category_axis.axis_type", string(d.CategoryAxis.AxisType))
	v.SetDefault("category_axis.axis_scale", string(d.CategoryAxis.AxisScale))
	v.SetDefault("category_axis.range_type", string(d.CategoryAxis.RangeType))
	v.SetDefault("category_axis.font_size", d.CategoryAxis.FontSize)
	v.SetDefault("category_axis.min_category_width", d.CategoryAxis.MinCategoryWidth)
	v.SetDefault("category_axis.maximum_size", d.CategoryAxis.MaximumSize)
	v.SetDefault("category_axis.inner_padding", d.CategoryAxis.InnerPadding)
	v.SetDefault("category_axis.show_title", d.CategoryAxis.ShowTitle)
	v.SetDefault("category_axis.title_style", string(d.CategoryAxis.TitleStyle))
	v.SetDefault("category_axis.title", d.CategoryAxis.Title)
	v.SetDefault("category_axis.title_font_size", d.CategoryAxis.TitleFontSize)
	v.SetDefault("category_axis.allow_scroll", d.CategoryAxis.AllowScroll)

	v.SetDefault("value_axis.show", d.ValueAxis.Show)
	v.SetDefault("value_axis.axis_scale", string(d.ValueAxis.AxisScale))
	v.SetDefault("value_axis.range_type", string(d.ValueAxis.RangeType))
	v.SetDefault("value_axis.font_size", d.ValueAxis.FontSize)
	v.SetDefault("value_axis.display_units", d.ValueAxis.DisplayUnits)
	v.SetDefault("value_axis.show_title", d.ValueAxis.ShowTitle)
	v.SetDefault("value_axis.title_style", string(d.ValueAxis.TitleStyle))
	v.SetDefault("value_axis.title", d.ValueAxis.Title)
	v.SetDefault("value_axis.title_font_size", d.ValueAxis.TitleFontSize)
	v.SetDefault("value_axis.show_gridlines", d.ValueAxis.ShowGridlines)
	v.SetDefault("value_axis.gridline_color", d.ValueAxis.GridlineColor)
	v.SetDefault("value_axis.stroke_width", d.ValueAxis.StrokeWidth)
	v.SetDefault("value_axis.line_style", string(d.ValueAxis.LineStyle))

	v.SetDefault("category_labels.show", d.CategoryLabels.Show)
	v.SetDefault("category_labels.color", d.CategoryLabels.Color)
	v.SetDefault("category_labels.display_units", d.CategoryLabels.DisplayUnits)
	v.SetDefault("category_labels.precision", d.CategoryLabels.Precision)
	v.SetDefault("category_labels.position", string(d.CategoryLabels.Position))
	v.SetDefault("category_labels.overflow_text", d.CategoryLabels.OverflowText)
	v.SetDefault("category_labels.font_size", d.CategoryLabels.FontSize)
	v.SetDefault("category_labels.show_background", d.CategoryLabels.ShowBackground)
	v.SetDefault("category_labels.transparency", d.CategoryLabels.Transparency)
	v.SetDefault("category_labels.background_color", d.CategoryLabels.BackgroundColor)

	v.SetDefault("constant_line.show", d.ConstantLine.Show)
	v.SetDefault("constant_line.name", d.ConstantLine.Name)
	v.SetDefault("constant_line.value", d.ConstantLine.Value)
	v.SetDefault("constant_line.line_color", d.ConstantLine.LineColor)
	v.SetDefault("constant_line.transparency", d.ConstantLine.Transparency)
	v.SetDefault("constant_line.line_style", string(d.ConstantLine.LineStyle))
	v.SetDefault("constant_line.position", string(d.ConstantLine.Position))
	v.SetDefault("constant_line.data_label_show", d.ConstantLine.DataLabelShow)
	v.SetDefault("constant_line.font_color", d.ConstantLine.FontColor)
	v.SetDefault("constant_line.text", string(d.ConstantLine.Text))
	v.SetDefault("constant_line.horizontal_position", string(d.ConstantLine.HorizontalPosition))
	v.SetDefault("constant_line.vertical_position", string(d.ConstantLine.VerticalPosition))
	v.SetDefault("constant_line.display_units", d.ConstantLine.DisplayUnits)

	v.SetDefault("small_multiple.layout_mode", string(d.SmallMultiple.LayoutMode))
	v.SetDefault("small_multiple.min_unit_width", d.SmallMultiple.MinUnitWidth)
	v.SetDefault("small_multiple.min_unit_height", d.SmallMultiple.MinUnitHeight)
	v.SetDefault("small_multiple.max_row_width", d.SmallMultiple.MaxRowWidth)
	v.SetDefault("small_multiple.show_chart_title", d.SmallMultiple.ShowChartTitle)
	v.SetDefault("small_multiple.font_size", d.SmallMultiple.FontSize)
	v.SetDefault("small_multiple.show_separators", d.SmallMultiple.ShowSeparators)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Normalize returns a copy of the receiver with numeric settings clamped to
// their supported ranges.
func (s Settings) Normalize() Settings {
	ca := &s.CategoryAxis
	ca.InnerPadding = clamp(ca.InnerPadding, 0, MaxInnerPadding)
	ca.MinCategoryWidth = clamp(ca.MinCategoryWidth, MinCategoryWidthMin, MinCategoryWidthMax)
	ca.MaximumSize = clamp(ca.MaximumSize, MaximumSizeMin, MaximumSizeMax)
	s.CategoryLabels.Transparency = clamp(s.CategoryLabels.Transparency, 0, 100)
	s.ConstantLine.Transparency = clamp(s.ConstantLine.Transparency, 0, 100)
	if s.SmallMultiple.MaxRowWidth < 1 {
		s.SmallMultiple.MaxRowWidth = 1
	}
	s.Selection = append([]string(nil), s.Selection...)
	s.DataPoint.Colors = append([]ColorOverride(nil), s.DataPoint.Colors...)
	return s
}

// StackingMode returns the stacking mode named by the receiver.
func (s Settings) StackingMode() points.StackingMode {
	sm, _ := points.ParseStackingMode(s.Stacking)
	return sm
}

func invalid(key string, val any) error {
	return fmt.Errorf("%w: %s %q", ErrInvalid, key, fmt.Sprint(val))
}

func oneOf[T comparable](v T, valid ...T) bool {
	for _, ok := range valid {
		if v == ok {
			return true
		}
	}
	return false
}

// Validate returns an error wrapping ErrInvalid if any enumerated setting
// has an unknown value.
func (s Settings) Validate() error {
	checks := []struct {
		key string
		val any
		ok  bool
	}{
		{"legend.position", s.Legend.Position, oneOf(s.Legend.Position, LegendTop, LegendBottom, LegendLeft, LegendRight)},
		{"category_axis.position", s.CategoryAxis.Position, oneOf(s.CategoryAxis.Position, AxisLeft, AxisRight)},
		{"category_axis.axis_type", s.CategoryAxis.AxisType, oneOf(s.CategoryAxis.AxisType, Categorical, Continuous)},
		{"category_axis.axis_scale", s.CategoryAxis.AxisScale, oneOf(s.CategoryAxis.AxisScale, Linear, Log)},
		{"category_axis.range_type", s.CategoryAxis.RangeType, oneOf(s.CategoryAxis.RangeType, Common, Separate, Custom)},
		{"category_axis.title_style", s.CategoryAxis.TitleStyle, oneOf(s.CategoryAxis.TitleStyle, ShowTitleOnly, ShowUnitOnly, ShowBoth)},
		{"value_axis.axis_scale", s.ValueAxis.AxisScale, oneOf(s.ValueAxis.AxisScale, Linear, Log)},
		{"value_axis.range_type", s.ValueAxis.RangeType, oneOf(s.ValueAxis.RangeType, Common, Separate, Custom)},
		{"value_axis.title_style", s.ValueAxis.TitleStyle, oneOf(s.ValueAxis.TitleStyle, ShowTitleOnly, ShowUnitOnly, ShowBoth)},
		{"value_axis.line_style", s.ValueAxis.LineStyle, s.ValueAxis.LineStyle.Valid()},
		{"category_labels.position", s.CategoryLabels.Position, s.CategoryLabels.Position.Valid()},
		{"constant_line.line_style", s.ConstantLine.LineStyle, s.ConstantLine.LineStyle.Valid()},
		{"constant_line.position", s.ConstantLine.Position, oneOf(s.ConstantLine.Position, Behind, InFront)},
		{"constant_line.text", s.ConstantLine.Text, oneOf(s.ConstantLine.Text, label.Name, label.Value, label.NameAndValue)},
		{"constant_line.horizontal_position", s.ConstantLine.HorizontalPosition, oneOf(s.ConstantLine.HorizontalPosition, label.Left, label.Right)},
		{"constant_line.vertical_position", s.ConstantLine.VerticalPosition, oneOf(s.ConstantLine.VerticalPosition, label.Top, label.Bottom)},
		{"small_multiple.layout_mode", s.SmallMultiple.LayoutMode, oneOf(s.SmallMultiple.LayoutMode, Flow, Matrix)},
	}
	for _, check := range checks {
		if !check.ok {
			return invalid(check.key, check.val)
		}
	}
	if s.Stacking != "" {
		if _, ok := points.ParseStackingMode(s.Stacking); !ok {
			return invalid("stacking", s.Stacking)
		}
	}
	if s.SmallMultiple.MinUnitWidth <= 0 || s.SmallMultiple.MinUnitHeight <= 0 {
		return invalid("small_multiple.min_unit_size", fmt.Sprintf("%vx%v", s.SmallMultiple.MinUnitWidth, s.SmallMultiple.MinUnitHeight))
	}
	return nil
}
