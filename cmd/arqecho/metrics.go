package main

import (
	"net/http"

	"github.com/golang/glog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arqcore/arq/internal/config"
	"github.com/arqcore/arq/internal/metrics"
)

// newMetricsServer registers a SessionCollector and, if the config names
// an address, serves it over /metrics in the background. Returns the
// collector either way so callers can attach sessions to it; with an
// empty MetricsListen no HTTP endpoint is served.
func newMetricsServer(conf *config.Config) *metrics.SessionCollector {
	collector := metrics.NewSessionCollector()

	reg := prometheus.NewRegistry()
	if err := reg.Register(collector); err != nil {
		glog.Errorf("metrics: register collector: %v", err)
		return collector
	}

	if conf.MetricsListen == "" {
		return collector
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	go func() {
		if err := http.ListenAndServe(conf.MetricsListen, mux); err != nil {
			glog.Errorf("metrics: ListenAndServe: %v", err)
		}
	}()
	return collector
}
