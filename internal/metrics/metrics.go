// Package metrics exports test lifecycle events as Prometheus metrics.
package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/PonnagantiHemanth/testing-tool-sub012/pkg/testbox/core"
)

const Namespace = "testbox"

// Listener counts finished test cases by state, tracks the cases in flight
// and observes their durations. Metrics live on a private registry.
type Listener struct {
	core.BaseListener

	registry *prometheus.Registry

	testsTotal *prometheus.CounterVec
	running    prometheus.Gauge
	duration   *prometheus.HistogramVec

	mu      sync.Mutex
	started map[string]time.Time
}

var _ core.Listener = (*Listener)(nil)

func NewListener() *Listener {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Listener{
		registry: reg,
		testsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "tests_total",
			Help:      "Count of finished test cases",
		}, []string{
			"state",
		}),
		running: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "tests_running",
			Help:      "Number of test cases in flight",
		}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "test_duration_seconds",
			Help:      "Duration of finished test cases",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		}, []string{
			"state",
		}),
		started: make(map[string]time.Time),
	}
}

func (l *Listener) Registry() *prometheus.Registry {
	return l.registry
}

func (l *Listener) Handler() http.Handler {
	return promhttp.HandlerFor(l.registry, promhttp.HandlerOpts{})
}

func (l *Listener) StartTest(t core.Test) {
	if t.Kind() != core.TestKindCase {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.started[t.ID()]; !ok {
		l.running.Inc()
	}
	l.started[t.ID()] = time.Now()
}

func (l *Listener) finish(t core.Test, state core.State) {
	label := strings.ToLower(state.String())

	l.mu.Lock()
	start, ok := l.started[t.ID()]
	delete(l.started, t.ID())
	l.mu.Unlock()

	if ok {
		l.running.Dec()
		l.duration.WithLabelValues(label).Observe(time.Since(start).Seconds())
	}
	l.testsTotal.WithLabelValues(label).Inc()
}

func (l *Listener) AddSuccess(t core.Test) {
	l.finish(t, core.StateSuccess)
}

func (l *Listener) AddFailure(t core.Test, _ error) {
	l.finish(t, core.StateFailure)
}

func (l *Listener) AddError(t core.Test, _ error) {
	l.finish(t, core.StateError)
}

// Server exposes a listener's registry on /metrics.
type Server struct {
	server   *http.Server
	listener net.Listener
	done     chan struct{}
}

// Serve starts serving l on addr in the background. The address is bound
// before returning, so a busy port is reported here.
func Serve(addr string, l *Listener, log *logrus.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", l.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("OK")) //nolint:errcheck
	})

	s := &Server{
		server:   &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second},
		listener: ln,
		done:     make(chan struct{}),
	}

	go func() {
		defer close(s.done)
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("Metrics server stopped")
		}
	}()

	log.Infof("Serving metrics on http://%s/metrics", ln.Addr())
	return s, nil
}

func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

func (s *Server) Shutdown(ctx context.Context) error {
	err := s.server.Shutdown(ctx)
	<-s.done
	return err
}
