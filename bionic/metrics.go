// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bionic

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the Prometheus metrics of a [Store], set with [Store.SetMetrics].
// A nil *Metrics is valid and counts nothing.
type Metrics struct {

	// Writes counts values stored or deleted.
	Writes prometheus.Counter

	// Deliveries counts cascade deliveries by result:
	// continue, consumed, shadowed or passthrough.
	Deliveries *prometheus.CounterVec

	// Failures counts deliveries that failed, including panicking handlers.
	Failures prometheus.Counter

	// Orphans counts Metas purged because their node was gone or forgotten.
	Orphans prometheus.Counter

	// Metas is the number of Metas in the store.
	Metas prometheus.Gauge
}

// NewMetrics returns new [Metrics] registered with the given registerer.
// A nil registerer leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Writes: f.NewCounter(prometheus.CounterOpts{
			Name: "bionic_writes_total",
			Help: "The total number of values stored or deleted",
		}),
		Deliveries: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bionic_deliveries_total",
			Help: "The total number of cascade deliveries by result",
		}, []string{"result"}),
		Failures: f.NewCounter(prometheus.CounterOpts{
			Name: "bionic_failures_total",
			Help: "The total number of failed deliveries",
		}),
		Orphans: f.NewCounter(prometheus.CounterOpts{
			Name: "bionic_orphans_total",
			Help: "The total number of purged metas",
		}),
		Metas: f.NewGauge(prometheus.GaugeOpts{
			Name: "bionic_metas",
			Help: "The number of metas in the store",
		}),
	}
}

func (mt *Metrics) write() {
	if mt != nil {
		mt.Writes.Inc()
	}
}

func (mt *Metrics) delivery(r result) {
	if mt != nil {
		mt.Deliveries.WithLabelValues(r.String()).Inc()
	}
}

func (mt *Metrics) failure() {
	if mt != nil {
		mt.Failures.Inc()
	}
}

func (mt *Metrics) orphan() {
	if mt != nil {
		mt.Orphans.Inc()
	}
}

func (mt *Metrics) setMetas(n int) {
	if mt != nil {
		mt.Metas.Set(float64(n))
	}
}
