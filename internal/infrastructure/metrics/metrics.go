// Package metrics exposes the service's Prometheus collectors on a private registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds every metric the service records.
type Collector struct {
	registry *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpDuration        *prometheus.HistogramVec
	reportsGenerated    *prometheus.CounterVec
	reportPages         prometheus.Histogram
	photoUploads        *prometheus.CounterVec
	maintenancesDeleted prometheus.Counter
	statusTransitions   *prometheus.CounterVec
}

// NewCollector registers all metrics plus the Go and process collectors.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rr_http_requests_total",
				Help: "HTTP requests by route, method and status code",
			},
			[]string{"route", "method", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rr_http_request_duration_seconds",
				Help:    "HTTP request latency by route",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		reportsGenerated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rr_reports_generated_total",
				Help: "PDF reports rendered, by outcome",
			},
			[]string{"result"},
		),
		reportPages: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "rr_report_pages",
				Help:    "Pages per rendered report",
				Buckets: prometheus.LinearBuckets(1, 1, 10),
			},
		),
		photoUploads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rr_photo_uploads_total",
				Help: "Photo uploads by outcome",
			},
			[]string{"result"},
		),
		maintenancesDeleted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "rr_maintenances_deleted_total",
				Help: "Maintenances deleted with their checklist and photos",
			},
		),
		statusTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rr_maintenance_status_transitions_total",
				Help: "Applied maintenance status changes",
			},
			[]string{"from", "to"},
		),
	}

	registry.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.reportsGenerated,
		c.reportPages,
		c.photoUploads,
		c.maintenancesDeleted,
		c.statusTransitions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// Registry is exposed for tests.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) ObserveRequest(route, method, status string, elapsed time.Duration) {
	c.httpRequests.WithLabelValues(route, method, status).Inc()
	c.httpDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

func (c *Collector) ReportGenerated(pages int) {
	c.reportsGenerated.WithLabelValues("success").Inc()
	c.reportPages.Observe(float64(pages))
}

func (c *Collector) ReportFailed() {
	c.reportsGenerated.WithLabelValues("error").Inc()
}

func (c *Collector) PhotoUploaded(ok bool) {
	result := "success"
	if !ok {
		result = "error"
	}
	c.photoUploads.WithLabelValues(result).Inc()
}

func (c *Collector) MaintenanceDeleted() {
	c.maintenancesDeleted.Inc()
}

func (c *Collector) StatusChanged(from, to string) {
	c.statusTransitions.WithLabelValues(from, to).Inc()
}
