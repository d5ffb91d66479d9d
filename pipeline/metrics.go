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

package pipeline

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "barviz"

type metrics struct {
	updates          *prometheus.CounterVec
	layoutPasses     prometheus.Counter
	zeroedBars       prometheus.Counter
	suppressedLabels prometheus.Counter
	scrollPosition   prometheus.Gauge
}

func newMetrics() *metrics {
	return &metrics{
		updates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "updates_total",
			Help:      "Pipeline updates handled, by update kind.",
		}, []string{"kind"}),
		layoutPasses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "layout_passes_total",
			Help:      "Layout passes run.",
		}),
		zeroedBars: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "zeroed_bars_total",
			Help:      "Visible bars whose geometry collapsed to nothing.",
		}),
		suppressedLabels: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "suppressed_labels_total",
			Help:      "Data labels that could not be placed, or were deduplicated.",
		}),
		scrollPosition: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "scroll_position",
			Help:      "Current scroll window position, in categories.",
		}),
	}
}

// register registers c with reg, returning the collector already registered
// in its place if there is one.  Pipelines sharing a Registerer thus share
// their collectors.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, fmt.Errorf("failed to register metric: %w", err)
	}
	return c, nil
}

func (m *metrics) registerWith(reg prometheus.Registerer) error {
	var err error
	if m.updates, err = register(reg, m.updates); err != nil {
		return err
	}
	if m.layoutPasses, err = register(reg, m.layoutPasses); err != nil {
		return err
	}
	if m.zeroedBars, err = register(reg, m.zeroedBars); err != nil {
		return err
	}
	if m.suppressedLabels, err = register(reg, m.suppressedLabels); err != nil {
		return err
	}
	if m.scrollPosition, err = register(reg, m.scrollPosition); err != nil {
		return err
	}
	return nil
}
