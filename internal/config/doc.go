// Package config loads, normalizes, and validates contestdump configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and applies CONTESTDUMP_* environment
// overrides. The Config type centralizes every knob the exporter needs: the
// live API or replay source, the destination directory, download batching,
// stage toggles, and the logging, history, and tracing surfaces.
//
// Build a Config once at startup and pass it down; nothing else in the
// repository reads configuration from ambient state.
package config
