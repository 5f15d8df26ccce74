// Package metrics exports window manager activity as Prometheus metrics.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/1broseidon/tagtile/internal/wm"
)

const namespace = "tagtile"

// Collector counts core notifications and dispatched actions. It
// implements wm.Notifier.
type Collector struct {
	reg *prometheus.Registry

	recomputes *prometheus.CounterVec
	placements prometheus.Histogram
	selections prometheus.Counter
	focus      prometheus.Counter
	managed    prometheus.Gauge
	dying      prometheus.Gauge
	actions    *prometheus.CounterVec
}

// New registers the collector's metrics on a private registry together
// with the Go runtime collectors.
func New() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)
	return &Collector{
		reg: reg,
		recomputes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "layout",
			Name:      "changes_total",
			Help:      "Tag geometry changes reported, by layout set",
		}, []string{"layout"}),
		placements: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "layout",
			Name:      "placements",
			Help:      "Clients placed per layout change",
			Buckets:   []float64{0, 1, 2, 3, 4, 6, 8, 12, 16},
		}),
		selections: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tag",
			Name:      "selections_total",
			Help:      "Tag selection changes",
		}),
		focus: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "focus_changes_total",
			Help:      "Focus changes",
		}),
		managed: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "managed",
			Help:      "Clients currently managed",
		}),
		dying: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "dying",
			Help:      "Clients waiting for finalization",
		}),
		actions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "command",
			Name:      "dispatched_total",
			Help:      "Dispatched actions, by action and result",
		}, []string{"action", "result"}),
	}
}

// Registry returns the registry backing the collector.
func (c *Collector) Registry() *prometheus.Registry { return c.reg }

func (c *Collector) LayoutChanged(ev wm.LayoutEvent) {
	c.recomputes.WithLabelValues(ev.Layout).Inc()
	c.placements.Observe(float64(len(ev.Placements)))
}

func (c *Collector) SelectionChanged(wm.SelectionEvent) { c.selections.Inc() }

func (c *Collector) FocusChanged(wm.FocusEvent) { c.focus.Inc() }

// SetClients records the client population.
func (c *Collector) SetClients(managed, dying int) {
	c.managed.Set(float64(managed))
	c.dying.Set(float64(dying))
}

// ObserveAction counts one dispatched action.
func (c *Collector) ObserveAction(action string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.actions.WithLabelValues(action, result).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{Registry: c.reg})
}

// Serve exposes /metrics on addr until ctx is done.
func (c *Collector) Serve(ctx context.Context, addr string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("metrics listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
