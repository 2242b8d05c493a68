// Package metrics pushes per-run gauges to a Prometheus Pushgateway.
//
// A run is a short-lived batch job, so values are pushed once when the run
// finishes rather than scraped. Each flow is its own grouping key, so
// pushes from one flow do not overwrite another.
package metrics
