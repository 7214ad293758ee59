package web

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sagamino/internal/network"
)

// Metrics bundles the Prometheus collectors for the animation and the
// HTTP API.
type Metrics struct {
	gatherer prometheus.Gatherer

	Requests      *prometheus.CounterVec
	Frames        prometheus.Counter
	StageAdvances prometheus.Counter
	Resets        prometheus.Counter
	Stage         prometheus.Gauge
	Progress      prometheus.Gauge
	Speed         prometheus.Gauge
}

// NewMetrics registers the collectors against reg, defaulting to the global
// Prometheus registry when nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	m := &Metrics{
		gatherer: gatherer,
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sagamino_http_requests_total",
			Help: "Handled API requests, labeled by route pattern and status code.",
		}, []string{"route", "code"}),
		Frames: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sagamino_frames_total",
			Help: "Animation frames applied.",
		}),
		StageAdvances: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sagamino_stage_advances_total",
			Help: "Completed stages.",
		}),
		Resets: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sagamino_resets_total",
			Help: "Network resets.",
		}),
		Stage: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sagamino_stage",
			Help: "Current stage; 5 once every stage is complete.",
		}),
		Progress: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sagamino_progress_percent",
			Help: "Progress of the running stage.",
		}),
		Speed: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sagamino_speed",
			Help: "Progress percent added per frame.",
		}),
	}
	for _, c := range []prometheus.Collector{
		m.Requests, m.Frames, m.StageAdvances, m.Resets, m.Stage, m.Progress, m.Speed,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}
	return m, nil
}

// Watch registers Observe on c and seeds the gauges from its current state.
func (m *Metrics) Watch(c *network.Controller) {
	if m == nil {
		return
	}
	c.OnEvent(m.Observe)
	m.setState(c.Snapshot())
}

// Observe is a network.Controller listener.
func (m *Metrics) Observe(e network.Event) {
	if m == nil {
		return
	}
	switch e.(type) {
	case network.ProgressAdvanced:
		m.Frames.Inc()
	case network.StageAdvanced:
		m.StageAdvances.Inc()
	case network.NetworkReset:
		m.Resets.Inc()
	}
	m.setState(e.State())
}

func (m *Metrics) setState(s network.Snapshot) {
	m.Stage.Set(float64(s.Stage))
	m.Progress.Set(s.Progress)
	m.Speed.Set(s.Speed)
}

// Handler exposes a ready-to-use /metrics handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

// instrument counts requests by the pattern the mux matched.
func (m *Metrics) instrument(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(rec, r)
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		m.Requests.WithLabelValues(route, strconv.Itoa(rec.code)).Inc()
	})
}
