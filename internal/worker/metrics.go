package worker

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type metrics struct {
	registry               *prometheus.Registry
	jobsTotal              *prometheus.CounterVec
	jobDuration            *prometheus.HistogramVec
	activeJobs             prometheus.Gauge
	correctionOutputsTotal prometheus.Counter
	pixelsProcessedTotal   prometheus.Counter
	skinPixelsTotal        prometheus.Counter
	computeTimeMSTotal     prometheus.Counter
}

func newMetrics() *metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &metrics{
		registry: registry,
		jobsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skinsim_worker_jobs_total",
			Help: "Total worker jobs by source type and final status.",
		}, []string{"source_type", "status"}),
		jobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "skinsim_worker_job_duration_seconds",
			Help:    "Total processing duration for each worker job.",
			Buckets: prometheus.DefBuckets,
		}, []string{"source_type", "status"}),
		activeJobs: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "skinsim_worker_active_jobs",
			Help: "Current number of active simulation jobs in the worker.",
		}),
		correctionOutputsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skinsim_worker_correction_outputs_total",
			Help: "Total corrected renditions emitted by the worker.",
		}),
		pixelsProcessedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skinsim_usage_pixels_processed_total",
			Help: "Total pixels processed across all successful jobs.",
		}),
		skinPixelsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skinsim_usage_skin_pixels_total",
			Help: "Total pixels the skin classifier accepted across successful jobs.",
		}),
		computeTimeMSTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skinsim_usage_compute_time_ms_total",
			Help: "Total compute time in milliseconds across successful jobs.",
		}),
	}

	registry.MustRegister(
		m.jobsTotal,
		m.jobDuration,
		m.activeJobs,
		m.correctionOutputsTotal,
		m.pixelsProcessedTotal,
		m.skinPixelsTotal,
		m.computeTimeMSTotal,
	)
	return m
}

func (m *metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
