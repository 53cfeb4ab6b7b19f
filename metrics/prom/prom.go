// Package prom exports shared.Metrics signals to Prometheus.
package prom

import (
	"github.com/IvanBrykalov/sharedref/shared"
	"github.com/prometheus/client_golang/prometheus"
)

// Adapter turns handle lifecycle signals into Prometheus series: one counter
// per event (alloc, clone, release, drop) plus gauges for what is still live.
// Handle families owned by different goroutines may report to one Adapter.
type Adapter struct {
	allocs   prometheus.Counter
	clones   prometheus.Counter
	releases prometheus.Counter
	drops    prometheus.Counter
	liveAll  prometheus.Gauge
	liveHdl  prometheus.Gauge
}

// New registers the lifecycle series on reg (nil means
// prometheus.DefaultRegisterer) under ns_sub_ names, with constLabels on
// every series. It panics if the names are already registered.
func New(reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels) *Adapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        name,
			Help:        help,
			ConstLabels: constLabels,
		})
	}
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        name,
			Help:        help,
			ConstLabels: constLabels,
		})
	}
	a := &Adapter{
		allocs:   counter("allocations_total", "Allocations created by New"),
		clones:   counter("clones_total", "Handles created by Clone"),
		releases: counter("releases_total", "Handles released"),
		drops:    counter("drops_total", "Allocations dropped after their last release"),
		liveAll:  gauge("live_allocations", "Allocations with at least one live handle"),
		liveHdl:  gauge("live_handles", "Live handles across all allocations"),
	}
	reg.MustRegister(a.allocs, a.clones, a.releases, a.drops, a.liveAll, a.liveHdl)
	return a
}

// Alloc counts a new allocation and its first handle.
func (a *Adapter) Alloc() {
	a.allocs.Inc()
	a.liveAll.Inc()
	a.liveHdl.Inc()
}

// Clone counts a new alias.
func (a *Adapter) Clone() {
	a.clones.Inc()
	a.liveHdl.Inc()
}

// Release counts a released handle. The remaining count is not exported;
// the live gauges already reflect it.
func (a *Adapter) Release(int) {
	a.releases.Inc()
	a.liveHdl.Dec()
}

// Drop counts a dropped allocation.
func (a *Adapter) Drop() {
	a.drops.Inc()
	a.liveAll.Dec()
}

var _ shared.Metrics = (*Adapter)(nil)
