// Package preflight provides readiness checks for the paths and the
// upstream API an export depends on.
//
// The CLI "contestdump check" command renders RunAll as a table, and
// "contestdump dump" refuses to start when a check fails. Checks that do
// not apply to the configured mode (live or replay) are skipped.
package preflight
