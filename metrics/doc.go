// Package metrics exports bus metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	pc := metrics.NewPrometheusCollector(reg, "quotes")
//	b, _ := sframe.OpenBus(ctx, store, "quotes", sframe.WithMetricsCollector(pc))
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
package metrics
