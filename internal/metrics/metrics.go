// Package metrics wires the Prometheus collectors this core exports:
// tick duration, connected-client count, packets in/out, and loaded-chunk
// gauge. Collectors register once and are served over promhttp.Handler
// on their own listen address.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server owns the collectors plus the HTTP endpoint that serves them.
// internal/game updates TickDuration, PacketsIn and PacketsOut;
// ConnectedClients, LoadedChunks and BroadcastBytes are registered and
// served but nothing in this core sets them.
type Server struct {
	TickDuration     prometheus.Histogram
	ConnectedClients prometheus.Gauge
	PacketsIn        prometheus.Counter
	PacketsOut       prometheus.Counter
	LoadedChunks     prometheus.Gauge
	BroadcastBytes   prometheus.Counter

	srv *http.Server
}

// New creates and registers the core's collectors against a fresh
// registry, so repeated test construction doesn't panic on double
// registration against the global default registry.
func New() *Server {
	s := &Server{
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "kestrel",
			Subsystem: "scheduler",
			Name:      "tick_duration_seconds",
			Help:      "Wall-clock duration of one scheduler tick (all phases).",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		ConnectedClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "kestrel",
			Subsystem: "session",
			Name:      "connected_clients",
			Help:      "Clients currently in the Play state.",
		}),
		PacketsIn: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kestrel",
			Subsystem: "protocol",
			Name:      "packets_in_total",
			Help:      "Packets decoded from client sockets.",
		}),
		PacketsOut: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kestrel",
			Subsystem: "protocol",
			Name:      "packets_out_total",
			Help:      "Packets encoded and queued to client sockets.",
		}),
		LoadedChunks: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "kestrel",
			Subsystem: "world",
			Name:      "loaded_chunks",
			Help:      "Chunks currently loaded across all chunk layers.",
		}),
		BroadcastBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kestrel",
			Subsystem: "world",
			Name:      "broadcast_bytes_total",
			Help:      "Bytes appended to LayerMessages broadcast logs.",
		}),
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(s.TickDuration, s.ConnectedClients, s.PacketsIn, s.PacketsOut, s.LoadedChunks, s.BroadcastBytes)
	s.srv = &http.Server{Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{})}
	return s
}

// Start serves /metrics on addr in the background. Errors after a clean
// Stop are swallowed; any other listen failure is sent on the returned
// channel so the caller can decide whether it is fatal at startup.
func (s *Server) Start(addr string) <-chan error {
	errCh := make(chan error, 1)
	s.srv.Addr = addr
	mux := http.NewServeMux()
	mux.Handle("/metrics", s.srv.Handler)
	s.srv.Handler = mux
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("metrics: listen on %s: %w", addr, err)
		}
	}()
	return errCh
}

// Stop gracefully shuts the metrics HTTP server down within timeout.
func (s *Server) Stop(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.srv.Shutdown(ctx)
}

// ObserveTick records one tick's duration.
func (s *Server) ObserveTick(d time.Duration) { s.TickDuration.Observe(d.Seconds()) }
