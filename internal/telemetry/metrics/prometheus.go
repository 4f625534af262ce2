package metrics

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"
)

const unknownVersion = "unknown"

// SetupPrometheus builds the registry served on /metrics: runtime, process and build collectors,
// a version info gauge and the given extra collectors. A collector that is already registered is skipped.
func SetupPrometheus(versionInfo string, extraCollectors ...prometheus.Collector) (*prometheus.Registry, error) {
	promRegistry := prometheus.NewRegistry()

	promRegistry.MustRegister(
		collectors.NewBuildInfoCollector(),
		collectors.NewGoCollector(
			collectors.WithGoCollectorRuntimeMetrics(collectors.MetricsGC, collectors.MetricsScheduler),
		),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: "fitstats"}),
	)

	if versionInfo == "" {
		versionInfo = unknownVersion
	}
	version := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   "fitstats",
		Name:        "version_info",
		Help:        "Running version of the service, the value is always 1",
		ConstLabels: prometheus.Labels{"version": versionInfo},
	})
	version.Set(1)
	promRegistry.MustRegister(version)

	var err error
	for _, c := range extraCollectors {
		regErr := promRegistry.Register(c)
		var already prometheus.AlreadyRegisteredError
		if regErr == nil || errors.As(regErr, &already) {
			continue
		}
		err = multierr.Append(err, fmt.Errorf("register collector: %w", regErr))
	}
	if err != nil {
		return nil, err
	}

	return promRegistry, nil
}
