package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the casino's prometheus instruments, labelled by game.
type Metrics struct {
	RoundsStarted *prometheus.CounterVec
	RoundsSettled *prometheus.CounterVec
	Wagered       *prometheus.CounterVec
	PaidOut       *prometheus.CounterVec
	Errors        *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		RoundsStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "casino_rounds_started_total",
			Help: "rounds opened per game",
		}, []string{"game"}),
		RoundsSettled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "casino_rounds_settled_total",
			Help: "rounds settled per game and outcome",
		}, []string{"game", "outcome"}),
		Wagered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "casino_wagered_total",
			Help: "currency wagered per game",
		}, []string{"game"}),
		PaidOut: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "casino_paid_out_total",
			Help: "currency paid out per game",
		}, []string{"game"}),
		Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "casino_errors_total",
			Help: "request errors per game and kind",
		}, []string{"game", "kind"}),
	}
	prometheus.MustRegister(m.RoundsStarted, m.RoundsSettled, m.Wagered, m.PaidOut, m.Errors)
	return m
}

type HealthFunc func(ctx context.Context) error

// StartMetricsServer runs a small HTTP server for /metrics and /healthz,
// separate from the API listener.
func StartMetricsServer(port string, healthFn HealthFunc) *http.Server {
	mux := http.NewServeMux()

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()

		if err := healthFn(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(fmt.Sprintf("unhealthy: %v", err)))
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}

	go func() {
		_ = srv.ListenAndServe()
	}()

	return srv
}
