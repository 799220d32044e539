// Package observe provides observability primitives for the insight cache.
//
// It is a pure instrumentation library: no execution, no transport, no I/O
// beyond exporter setup. Hosts wire the observer into the cache loader and
// the stats endpoints; the cache core itself stays free of telemetry.
package observe
