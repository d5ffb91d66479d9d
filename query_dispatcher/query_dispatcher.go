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

// Package querydispatcher provides Dispatcher, a type for rendering several
// independent bar charts concurrently into a single data response.
package querydispatcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/hashicorp/golang-lru/simplelru"
	"github.com/ilhamster/barviz/config"
	"github.com/ilhamster/barviz/dataset"
	"github.com/ilhamster/barviz/pipeline"
	"github.com/ilhamster/barviz/util"
	"golang.org/x/sync/errgroup"
)

// TableSource supplies the tables named by Requests.  TableSource
// implementations must support concurrent Fetch calls, and must not modify
// a Table once it has been returned.
type TableSource interface {
	Fetch(ctx context.Context, name string) (*dataset.Table, error)
}

// FileSource is a TableSource reading dataset files under a root directory.
type FileSource struct {
	root string
}

// NewFileSource returns a FileSource reading datasets under root.  An empty
// root resolves names against the working directory.
func NewFileSource(root string) *FileSource {
	return &FileSource{root: root}
}

// Fetch implements TableSource.
func (fs *FileSource) Fetch(ctx context.Context, name string) (*dataset.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := name
	if fs.root != "" && !filepath.IsAbs(name) {
		path = filepath.Join(fs.root, name)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("dataset `%s`: %w", name, err)
	}
	return dataset.Load(path)
}

// CachedSource wraps a TableSource with an LRU cache of the most recently
// fetched tables.  It is safe for concurrent use.
type CachedSource struct {
	source TableSource
	lru    *simplelru.LRU
	mu     sync.Mutex
}

// NewCachedSource returns a CachedSource holding at most cap tables fetched
// from source.
func NewCachedSource(source TableSource, cap int) (*CachedSource, error) {
	lru, err := simplelru.NewLRU(cap, nil /* no onEvict policy */)
	if err != nil {
		return nil, err
	}
	return &CachedSource{
		source: source,
		lru:    lru,
	}, nil
}

// Fetch implements TableSource.  The table is fetched from the wrapped
// source only if it isn't already cached.
func (cs *CachedSource) Fetch(ctx context.Context, name string) (*dataset.Table, error) {
	cs.mu.Lock()
	tableIf, ok := cs.lru.Get(name)
	cs.mu.Unlock()
	if ok {
		table, ok := tableIf.(*dataset.Table)
		if !ok {
			return nil, fmt.Errorf("cached dataset `%s` wasn't a Table", name)
		}
		return table, nil
	}
	table, err := cs.source.Fetch(ctx, name)
	if err != nil {
		return nil, err
	}
	cs.mu.Lock()
	cs.lru.Add(name, table)
	cs.mu.Unlock()
	return table, nil
}

// Len returns the number of cached tables.
func (cs *CachedSource) Len() int {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.lru.Len()
}

// Request asks for a single chart, rendered from the named dataset into the
// named data series.
type Request struct {
	SeriesName string
	Dataset    string
	// Settings, if non-nil, replaces the default settings.
	Settings *config.Settings
	Viewport pipeline.Viewport
	// ScrollTo, if positive, moves the scroll window to that position after
	// the initial layout.
	ScrollTo int
}

// Response holds the assembled data of a Render call, and each chart's
// VisualData keyed by series name.
type Response struct {
	Data    *util.Data
	Visuals map[string]*pipeline.VisualData
}

// Dispatcher renders independent charts concurrently, each with its own
// Pipeline.
type Dispatcher struct {
	source TableSource
	limit  int
	opts   []pipeline.Option
}

// New returns a *Dispatcher fetching tables from source and running at most
// limit renders at once.  A non-positive limit is unbounded.  Every
// Pipeline is created with the provided options, so options must be safe to
// share among concurrent Pipelines.
func New(source TableSource, limit int, opts ...pipeline.Option) *Dispatcher {
	return &Dispatcher{
		source: source,
		limit:  limit,
		opts:   opts,
	}
}

// Render renders each of the provided Requests into its own data series of
// a single response.  Any failing Request cancels the remainder and fails
// the entire Render.
func (d *Dispatcher) Render(ctx context.Context, reqs ...*Request) (*Response, error) {
	seen := map[string]struct{}{}
	for _, req := range reqs {
		if _, ok := seen[req.SeriesName]; ok {
			return nil, fmt.Errorf("multiple requests for data series `%s`", req.SeriesName)
		}
		seen[req.SeriesName] = struct{}{}
	}
	drb := util.NewDataResponseBuilder()
	visuals := make([]*pipeline.VisualData, len(reqs))
	errg, ctx := errgroup.WithContext(ctx)
	if d.limit > 0 {
		errg.SetLimit(d.limit)
	}
	for idx, req := range reqs {
		idx, req := idx, req
		errg.Go(func() error {
			vd, err := d.render(ctx, drb, req)
			if err != nil {
				return fmt.Errorf("data series `%s`: %w", req.SeriesName, err)
			}
			visuals[idx] = vd
			return nil
		})
	}
	if err := errg.Wait(); err != nil {
		return nil, err
	}
	data, err := drb.Data()
	if err != nil {
		return nil, err
	}
	ret := &Response{
		Data:    data,
		Visuals: make(map[string]*pipeline.VisualData, len(reqs)),
	}
	for idx, req := range reqs {
		ret.Visuals[req.SeriesName] = visuals[idx]
	}
	return ret, nil
}

func (d *Dispatcher) render(ctx context.Context, drb *util.DataResponseBuilder, req *Request) (*pipeline.VisualData, error) {
	table, err := d.source.Fetch(ctx, req.Dataset)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := pipeline.New(d.opts...)
	if err != nil {
		return nil, err
	}
	vd, err := p.Update(pipeline.Update{
		Kind:     pipeline.All,
		Viewport: req.Viewport,
		Table:    table,
		Settings: req.Settings,
	})
	if err != nil {
		return nil, err
	}
	if req.ScrollTo > 0 && !vd.Cleared {
		if vd, err = p.SetWindow(req.ScrollTo); err != nil {
			return nil, err
		}
	}
	pipeline.Export(drb.DataSeries(req.SeriesName), vd)
	return vd, nil
}
