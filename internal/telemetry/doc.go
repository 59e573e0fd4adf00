// Package telemetry wires optional OpenTelemetry tracing.
//
// Tracing is opt-in through the `[tracing] endpoint` setting. Without an
// endpoint Setup registers nothing and stage spans go to the global no-op
// provider.
package telemetry
