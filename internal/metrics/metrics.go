// Package metrics exports behaviour-tree leaf results as prometheus series.
package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"harvestbot.ai/internal/bt"
)

// LeafMetrics is a bt.Tracer counting leaf runs per status and timing them.
type LeafMetrics struct {
	runs     *prometheus.CounterVec
	duration *prometheus.HistogramVec
	trades   prometheus.Counter
}

// New registers the leaf series on reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer, bot string) (*LeafMetrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	constLabels := prometheus.Labels{"bot": bot}
	m := &LeafMetrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "harvestbot",
			Name:        "leaf_runs_total",
			Help:        "Behaviour tree leaf runs by result.",
			ConstLabels: constLabels,
		}, []string{"leaf", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   "harvestbot",
			Name:        "leaf_duration_seconds",
			Help:        "Wall time spent in a behaviour tree leaf.",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .01, .1, .5, 1, 5, 15, 60},
		}, []string{"leaf"}),
		trades: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "harvestbot",
			Name:        "trades_total",
			Help:        "Successful villager trades.",
			ConstLabels: constLabels,
		}),
	}
	for _, c := range []prometheus.Collector{m.runs, m.duration, m.trades} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *LeafMetrics) LeafDone(name string, status bt.Status, elapsed time.Duration) {
	m.runs.WithLabelValues(name, status.String()).Inc()
	m.duration.WithLabelValues(name).Observe(elapsed.Seconds())
	if name == "Trade" && status == bt.Success {
		m.trades.Inc()
	}
}

// Serve exposes g on addr under /metrics until ctx is cancelled.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}()
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
