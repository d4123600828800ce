// Package metrics exposes Prometheus metrics for the map renderer, its input
// handling and its data feeds.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry        *prometheus.Registry
	renders         prometheus.Counter
	renderDuration  prometheus.Histogram
	markersDrawn    prometheus.Counter
	markersSkipped  prometheus.Counter
	selections      *prometheus.CounterVec
	zoomScale       prometheus.Gauge
	feedUpdates     *prometheus.CounterVec
	showList        prometheus.Counter
	httpRequests    *prometheus.CounterVec
	httpRequestTime *prometheus.HistogramVec
}

// New creates a fresh registry with all map metrics registered.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		renders: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "propmap",
			Name:      "renders_total",
			Help:      "Number of full map redraws",
		}),
		renderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "propmap",
			Name:      "render_duration_seconds",
			Help:      "Time spent issuing drawing primitives for one redraw",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05},
		}),
		markersDrawn: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "propmap",
			Name:      "markers_drawn_total",
			Help:      "Markers drawn across all redraws",
		}),
		markersSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "propmap",
			Name:      "markers_skipped_total",
			Help:      "Markers skipped because their projected position was not finite",
		}),
		selections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "propmap",
			Name:      "selections_total",
			Help:      "Selection changes by outcome",
		}, []string{"outcome"}),
		zoomScale: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "propmap",
			Name:      "zoom_scale",
			Help:      "Current zoom scale of the interactive map",
		}),
		feedUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "propmap",
			Name:      "feed_updates_total",
			Help:      "Marker data set replacements by source and result",
		}, []string{"source", "result"}),
		showList: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "propmap",
			Name:      "show_list_requests_total",
			Help:      "Number of times the listing view was requested from the map",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "propmap",
			Name:      "http_requests_total",
			Help:      "Count of HTTP requests served",
		}, []string{"method", "path", "status"}),
		httpRequestTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "propmap",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests served",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}

	registry.MustRegister(
		m.renders,
		m.renderDuration,
		m.markersDrawn,
		m.markersSkipped,
		m.selections,
		m.zoomScale,
		m.feedUpdates,
		m.showList,
		m.httpRequests,
		m.httpRequestTime,
	)
	return m
}

// ObserveRender records one redraw.
func (m *Metrics) ObserveRender(duration time.Duration, drawn, skipped int) {
	if m == nil {
		return
	}
	m.renders.Inc()
	m.renderDuration.Observe(duration.Seconds())
	m.markersDrawn.Add(float64(drawn))
	m.markersSkipped.Add(float64(skipped))
}

// IncSelection counts a selection change; hit is false when it was cleared.
func (m *Metrics) IncSelection(hit bool) {
	if m == nil {
		return
	}
	outcome := "cleared"
	if hit {
		outcome = "selected"
	}
	m.selections.WithLabelValues(outcome).Inc()
}

// SetZoomScale records the current zoom scale.
func (m *Metrics) SetZoomScale(scale float64) {
	if m == nil {
		return
	}
	m.zoomScale.Set(scale)
}

// IncFeedUpdate counts a data set replacement attempt.
func (m *Metrics) IncFeedUpdate(source string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.feedUpdates.WithLabelValues(source, result).Inc()
}

// IncShowList counts a show-list request.
func (m *Metrics) IncShowList() {
	if m == nil {
		return
	}
	m.showList.Inc()
}

// ObserveHTTPRequest records a single HTTP request/response cycle.
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpRequestTime.WithLabelValues(method, path).Observe(duration.Seconds())
}

// Handler exposes the registry over HTTP.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("metrics unavailable"))
		})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
