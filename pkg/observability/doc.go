/*
Package observability provides Prometheus instrumentation for the keepaway solver.

Metrics are fed from the engine's lifecycle hooks (inspections, rounds) and from
the solver itself (run outcomes, durations, cache lookups).
*/
package observability
