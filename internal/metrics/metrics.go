// Package metrics exposes Prometheus counters for menu interactions and dataset mutations.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alexisbeaulieu97/dsxform/internal/analytics"
	"github.com/alexisbeaulieu97/dsxform/internal/logger"
)

const namespace = "dsxform"

// Status label values.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Recorder owns a private registry so several recorders can coexist in tests.
type Recorder struct {
	registry *prometheus.Registry

	clicks    *prometheus.CounterVec
	mutations *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	plugins   prometheus.Gauge
	conflicts prometheus.Gauge
}

// NewRecorder registers the dsxform collectors on a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		clicks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transform_button_clicks_total",
			Help:      "Transform menu buttons clicked, by button.",
		}, []string{"button"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_mutations_total",
			Help:      "Dataset replacements attempted from a dialog, by action and status.",
		}, []string{"action", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transform_duration_seconds",
			Help:      "Time spent computing a transformed dataset.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		}, []string{"action", "status"}),
		plugins: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "registered_plugins",
			Help:      "Plugin actions listed in the menu.",
		}),
		conflicts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "plugin_name_conflicts",
			Help:      "Plugin names registered more than once.",
		}),
	}
	r.registry.MustRegister(r.clicks, r.mutations, r.duration, r.plugins, r.conflicts)
	return r
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveClick counts a button click.
func (r *Recorder) ObserveClick(button string) {
	if r == nil {
		return
	}
	r.clicks.WithLabelValues(button).Inc()
}

// ObserveMutation counts a dataset replacement attempt.
func (r *Recorder) ObserveMutation(action string, err error) {
	if r == nil {
		return
	}
	r.mutations.WithLabelValues(action, status(err)).Inc()
}

// ObserveTransform records how long computing a dataset took.
func (r *Recorder) ObserveTransform(action string, d time.Duration, err error) {
	if r == nil {
		return
	}
	r.duration.WithLabelValues(action, status(err)).Observe(d.Seconds())
}

// SetPlugins records the listed plugin count and the number of conflicting names.
func (r *Recorder) SetPlugins(listed, conflicts int) {
	if r == nil {
		return
	}
	r.plugins.Set(float64(listed))
	r.conflicts.Set(float64(conflicts))
}

// HandleEvent counts analytics click events; subscribe it to an analytics.Publisher.
func (r *Recorder) HandleEvent(e analytics.Event) error {
	button, _ := e.Properties["transform_button"].(string)
	if button == "" {
		return errors.New("event has no transform_button property")
	}
	r.ObserveClick(button)
	return nil
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (r *Recorder) Serve(ctx context.Context, addr string, log *logger.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		log.With("addr", addr).Info("serving metrics")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func status(err error) string {
	if err != nil {
		return StatusFailure
	}
	return StatusSuccess
}
