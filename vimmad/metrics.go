package main

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	metricsprometheus "github.com/slok/go-http-metrics/metrics/prometheus"
	"github.com/slok/go-http-metrics/middleware"
	"github.com/slok/go-http-metrics/middleware/std"

	"vimma/vimmad/config"
	"vimma/vimmad/vm"
)

var tasksCompleted prometheus.Counter
var tasksRetried prometheus.Counter
var tasksFailed prometheus.Counter

func setupMetrics() {
	vm.SetupVMMetrics()

	tasksCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "vimmad",
		Subsystem: "tasks",
		Name:      "completed_total",
		Help:      "Number of tasks completed successfully",
	})

	tasksRetried = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "vimmad",
		Subsystem: "tasks",
		Name:      "retried_total",
		Help:      "Number of task retries",
	})

	tasksFailed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "vimmad",
		Subsystem: "tasks",
		Name:      "failed_total",
		Help:      "Number of tasks failed permanently",
	})
}

func serveMetrics() {
	if !config.Config.Metrics.Enabled {
		return
	}

	metricsAddr := net.JoinHostPort(config.Config.Metrics.Host,
		strconv.FormatUint(uint64(config.Config.Metrics.Port), 10))

	slog.Debug("serving metrics", "metricsAddr", metricsAddr)

	metricsMiddleware := middleware.New(middleware.Config{
		Recorder: metricsprometheus.NewRecorder(metricsprometheus.Config{}),
	})

	mux := http.NewServeMux()
	mux.Handle("/metrics", std.Handler("/metrics", metricsMiddleware, promhttp.Handler()))
	mux.Handle("/healthz", std.Handler("/healthz", metricsMiddleware,
		http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			writer.WriteHeader(http.StatusOK)
			_, _ = writer.Write([]byte("OK"))
		})))

	// Ignoring G114: Use of net/http serve function that has no support for setting timeouts.
	err := http.ListenAndServe(metricsAddr, mux) //nolint:gosec
	if err != nil {
		slog.Error("error serving metrics", "err", err)
	}
}
