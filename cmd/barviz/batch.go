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
	"fmt"
	"io"
	"runtime"

	"github.com/dustin/go-humanize"
	"github.com/ilhamster/barviz/pipeline"
	querydispatcher "github.com/ilhamster/barviz/query_dispatcher"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

const tableCacheSize = 16

type batchOptions struct {
	viewportFlags
	concurrency int
	output      string
}

func newBatchCommand(root *rootOptions) *cobra.Command {
	opts := &batchOptions{}
	cmd := &cobra.Command{
		Use:   "batch <datasets...>",
		Short: "Lay out several charts concurrently and summarize them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, root, opts, args)
		},
	}
	opts.register(cmd)
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", runtime.GOMAXPROCS(0), "maximum charts laid out at once")
	cmd.Flags().StringVarP(&opts.output, "output", "o", outputTable, "output format: table or wire")
	return cmd
}

func runBatch(cmd *cobra.Command, root *rootOptions, opts *batchOptions, paths []string) error {
	if err := checkOutput(opts.output, outputTable, outputWire); err != nil {
		return err
	}
	s, err := root.settings()
	if err != nil {
		return err
	}
	source, err := querydispatcher.NewCachedSource(querydispatcher.NewFileSource(""), tableCacheSize)
	if err != nil {
		return err
	}
	reg := prometheus.NewRegistry()
	d := querydispatcher.New(source, opts.concurrency,
		pipeline.WithLogger(root.logger),
		pipeline.WithRegisterer(reg),
	)
	reqs := make([]*querydispatcher.Request, len(paths))
	for idx, path := range paths {
		reqs[idx] = &querydispatcher.Request{
			SeriesName: path,
			Dataset:    path,
			Settings:   s,
			Viewport:   opts.viewport(),
		}
	}
	resp, err := d.Render(cmd.Context(), reqs...)
	if err != nil {
		return err
	}
	if opts.output == outputWire {
		return writeJSON(cmd.OutOrStdout(), resp.Data)
	}
	passes, err := counterValue(reg, "barviz_layout_passes_total")
	if err != nil {
		return err
	}
	writeSummary(cmd.OutOrStdout(), paths, resp, passes)
	return nil
}

// counterValue returns the summed value of the named counter in reg.
func counterValue(reg prometheus.Gatherer, name string) (float64, error) {
	mfs, err := reg.Gather()
	if err != nil {
		return 0, fmt.Errorf("failed to gather metrics: %w", err)
	}
	var ret float64
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			ret += m.GetCounter().GetValue()
		}
	}
	return ret, nil
}

func writeSummary(w io.Writer, paths []string, resp *querydispatcher.Response, passes float64) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Format.Footer = text.FormatDefault
	tbl.AppendHeader(table.Row{"Dataset", "Kind", "Bars", "Categories", "Plot", "Scroll"})
	var bars int64
	for _, path := range paths {
		vd := resp.Visuals[path]
		if vd.Cleared {
			tbl.AppendRow(table.Row{path, "cleared", "-", "-", "-", "-"})
			continue
		}
		scroll := "off"
		if vd.Scroll.Enabled {
			scroll = fmt.Sprintf("%d/%d", vd.Scroll.Position, vd.Scroll.PositionsCount)
		}
		bars += int64(len(vd.Points))
		tbl.AppendRow(table.Row{
			path,
			vd.Kind.String(),
			humanize.Comma(int64(len(vd.Points))),
			humanize.Comma(int64(len(vd.Categories))),
			fmt.Sprintf("%sx%s", px(vd.Size.Width), px(vd.Size.Height)),
			scroll,
		})
	}
	tbl.AppendFooter(table.Row{
		fmt.Sprintf("%s charts", humanize.Comma(int64(len(paths)))),
		"",
		humanize.Comma(bars),
		"",
		fmt.Sprintf("%s passes", humanize.Comma(int64(passes))),
		"",
	})
	tbl.Render()
}
