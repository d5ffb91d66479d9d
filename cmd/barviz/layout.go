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
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/ilhamster/barviz/dataset"
	"github.com/ilhamster/barviz/pipeline"
	"github.com/ilhamster/barviz/points"
	"github.com/ilhamster/barviz/util"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

const (
	outputJSON  = "json"
	outputTable = "table"
	outputWire  = "wire"

	defaultWidth  = 800
	defaultHeight = 600
)

// ErrUnknownOutput is returned for an unsupported --output value.
var ErrUnknownOutput = errors.New("unknown output format")

type viewportFlags struct {
	width, height float64
}

func (vf *viewportFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&vf.width, "width", defaultWidth, "viewport width in pixels")
	cmd.Flags().Float64Var(&vf.height, "height", defaultHeight, "viewport height in pixels")
}

func (vf *viewportFlags) viewport() pipeline.Viewport {
	return pipeline.Viewport{Width: vf.width, Height: vf.height}
}

type layoutOptions struct {
	viewportFlags
	scroll int
	output string
}

func newLayoutCommand(root *rootOptions) *cobra.Command {
	opts := &layoutOptions{}
	cmd := &cobra.Command{
		Use:   "layout <dataset>",
		Short: "Lay out a single chart and print its geometry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayout(cmd.OutOrStdout(), root, opts, args[0])
		},
	}
	opts.register(cmd)
	cmd.Flags().IntVar(&opts.scroll, "scroll", 0, "scroll window position, in categories")
	cmd.Flags().StringVarP(&opts.output, "output", "o", outputTable, "output format: json, table or wire")
	return cmd
}

func checkOutput(output string, allowed ...string) error {
	for _, a := range allowed {
		if output == a {
			return nil
		}
	}
	return fmt.Errorf("%w %q", ErrUnknownOutput, output)
}

func runLayout(w io.Writer, root *rootOptions, opts *layoutOptions, path string) error {
	if err := checkOutput(opts.output, outputJSON, outputTable, outputWire); err != nil {
		return err
	}
	s, err := root.settings()
	if err != nil {
		return err
	}
	t, err := dataset.Load(path)
	if err != nil {
		return err
	}
	p, err := pipeline.New(pipeline.WithLogger(root.logger))
	if err != nil {
		return err
	}
	vd, err := p.Update(pipeline.Update{
		Kind:     pipeline.All,
		Viewport: opts.viewport(),
		Table:    t,
		Settings: s,
	})
	if err != nil {
		return err
	}
	if opts.scroll > 0 && !vd.Cleared {
		if vd, err = p.SetWindow(opts.scroll); err != nil {
			return err
		}
	}
	switch opts.output {
	case outputJSON:
		return writeJSON(w, newReport(vd))
	case outputWire:
		drb := util.NewDataResponseBuilder()
		pipeline.Export(drb.DataSeries(path), vd)
		data, err := drb.Data()
		if err != nil {
			return err
		}
		return writeJSON(w, data)
	default:
		return writeTable(w, vd)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// report is the JSON rendering of a layout.
type report struct {
	Cleared      bool          `json:"cleared"`
	Kind         string        `json:"kind,omitempty"`
	Width        float64       `json:"width"`
	Height       float64       `json:"height"`
	LayoutPasses int           `json:"layoutPasses"`
	Scroll       *scrollReport `json:"scroll,omitempty"`
	Bars         []barReport   `json:"bars"`
}

type scrollReport struct {
	Position  int `json:"position"`
	Positions int `json:"positions"`
	Capacity  int `json:"capacity"`
}

type barReport struct {
	Category string       `json:"category"`
	Series   string       `json:"series,omitempty"`
	Value    float64      `json:"value"`
	Color    string       `json:"color,omitempty"`
	Opacity  float64      `json:"opacity"`
	Bar      *points.Rect `json:"bar,omitempty"`
	Label    *points.Rect `json:"label,omitempty"`
}

func newReport(vd *pipeline.VisualData) *report {
	ret := &report{
		Cleared: vd.Cleared,
		Bars:    []barReport{},
	}
	if vd.Cleared {
		return ret
	}
	ret.Kind = vd.Kind.String()
	ret.Width, ret.Height = vd.Size.Width, vd.Size.Height
	ret.LayoutPasses = vd.LayoutPasses
	if vd.Scroll.Enabled {
		ret.Scroll = &scrollReport{
			Position:  vd.Scroll.Position,
			Positions: vd.Scroll.PositionsCount,
			Capacity:  vd.Scroll.Capacity,
		}
	}
	for _, pt := range vd.Points {
		br := barReport{
			Category: pt.Category.String(),
			Value:    pt.Value,
			Color:    pt.Color,
			Opacity:  pt.FillOpacity,
			Bar:      pt.BarCoordinates,
			Label:    pt.LabelCoordinates,
		}
		if !pt.Series.IsNull() {
			br.Series = pt.Series.String()
		}
		ret.Bars = append(ret.Bars, br)
	}
	return ret
}

func px(v float64) string {
	return humanize.FtoaWithDigits(v, 1)
}

func rect(r *points.Rect) string {
	if r == nil || r.IsZero() {
		return "-"
	}
	return fmt.Sprintf("%s,%s %sx%s", px(r.X), px(r.Y), px(r.Width), px(r.Height))
}

func writeTable(w io.Writer, vd *pipeline.VisualData) error {
	if vd.Cleared {
		_, err := fmt.Fprintln(w, "chart cleared: the dataset lacks an axis or value column")
		return err
	}
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Format.Footer = text.FormatDefault
	tbl.AppendHeader(table.Row{"Category", "Series", "Value", "Bar", "Label", "Opacity"})
	for _, pt := range vd.Points {
		series := ""
		if !pt.Series.IsNull() {
			series = pt.Series.String()
		}
		tbl.AppendRow(table.Row{
			pt.Category.String(),
			series,
			humanize.Commaf(pt.Value),
			rect(pt.BarCoordinates),
			rect(pt.LabelCoordinates),
			pt.FillOpacity,
		})
	}
	footer := fmt.Sprintf("%s bars, plot %sx%s", humanize.Comma(int64(len(vd.Points))), px(vd.Size.Width), px(vd.Size.Height))
	if vd.Scroll.Enabled {
		footer += fmt.Sprintf(", categories %d-%d of %d",
			vd.Scroll.Position+1,
			vd.Scroll.Position+vd.Scroll.Capacity,
			vd.Scroll.PositionsCount+vd.Scroll.Capacity)
	}
	tbl.AppendFooter(table.Row{footer})
	tbl.Render()
	return nil
}
