// Package metrics exports run metrics in the Prometheus text format.
//
// muxsweep is a batch job with no listener, so metrics are gathered from a
// private registry and written to a textfile at the end of the run (and on
// interrupt) for node_exporter's textfile collector to pick up.
package metrics
