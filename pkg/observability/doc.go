/*
Package observability exports tweak activity as Prometheus metrics.

Metrics attach to a panel through its lifecycle hooks, so the core never
depends on the metrics library:

	m := observability.NewMetrics(prometheus.NewRegistry())
	panel := tweak.New(tweak.WithMetrics(m))
*/
package observability
