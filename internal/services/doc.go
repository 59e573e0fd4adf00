// Package services defines shared utilities consumed by the export stages and
// the upstream API client.
//
// Key responsibilities:
//   - Context helpers that stamp export run IDs and stage names for logging
//     and tracing.
//   - Structured error markers plus the Wrap helper that separate fatal
//     failures (transport, mapping, configuration) from recoverable ones
//     (decode, batch retry).
//
// Use these helpers when wiring new stage logic so failure classification and
// log fields stay uniform across the pipeline.
package services
