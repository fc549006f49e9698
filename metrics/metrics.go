// Package metrics provides Prometheus metrics for a simulation run.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the simulation specific Prometheus metrics.
type Metrics struct {
	// Current allocator state
	Fragmentation  prometheus.Gauge
	FragmentCount  prometheus.Gauge
	FreeBlocks     prometheus.Gauge
	OccupiedBlocks prometheus.Gauge

	// Simulated latencies
	SaveTime   prometheus.Gauge
	LoadTime   prometheus.Gauge
	AccessTime prometheus.Gauge

	// Workload counters
	SavesTotal          prometheus.Counter
	DeletesTotal        prometheus.Counter
	DefragsTotal        prometheus.Counter
	CriticalPointsTotal prometheus.Counter
}

// New creates a Metrics instance registered against the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Fragmentation: factory.NewGauge(prometheus.GaugeOpts{
			Name: "fragsim_fragmentation_percent",
			Help: "Share of free space outside the largest gap",
		}),
		FragmentCount: factory.NewGauge(prometheus.GaugeOpts{
			Name: "fragsim_fragment_count",
			Help: "Number of maximal occupied runs on the medium",
		}),
		FreeBlocks: factory.NewGauge(prometheus.GaugeOpts{
			Name: "fragsim_free_blocks",
			Help: "Free blocks on the medium",
		}),
		OccupiedBlocks: factory.NewGauge(prometheus.GaugeOpts{
			Name: "fragsim_occupied_blocks",
			Help: "Occupied blocks on the medium",
		}),
		SaveTime: factory.NewGauge(prometheus.GaugeOpts{
			Name: "fragsim_save_time",
			Help: "Simulated save latency at the current fragmentation",
		}),
		LoadTime: factory.NewGauge(prometheus.GaugeOpts{
			Name: "fragsim_load_time",
			Help: "Simulated load latency at the current fragmentation",
		}),
		AccessTime: factory.NewGauge(prometheus.GaugeOpts{
			Name: "fragsim_access_time",
			Help: "Simulated access latency for the current fragment count",
		}),
		SavesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "fragsim_saves_total",
			Help: "Total save operations performed by the workload",
		}),
		DeletesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "fragsim_deletes_total",
			Help: "Total delete operations performed by the workload",
		}),
		DefragsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "fragsim_defrags_total",
			Help: "Total partial defragmentation passes",
		}),
		CriticalPointsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "fragsim_critical_points_total",
			Help: "Times fragmentation crossed the stop threshold",
		}),
	}
}

// RecordState publishes one step's worth of allocator state.
func (m *Metrics) RecordState(frag float64, fragments, free, occupied int, saveTime, loadTime, accessTime float64) {
	m.Fragmentation.Set(frag)
	m.FragmentCount.Set(float64(fragments))
	m.FreeBlocks.Set(float64(free))
	m.OccupiedBlocks.Set(float64(occupied))
	m.SaveTime.Set(saveTime)
	m.LoadTime.Set(loadTime)
	m.AccessTime.Set(accessTime)
}
