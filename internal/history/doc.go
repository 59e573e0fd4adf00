// Package history keeps a SQLite ledger of export runs.
//
// Every `contestdump dump` invocation appends one row with its outcome,
// counts and artifacts so operators can audit past exports with
// `contestdump history`. The schema is embedded and versioned; a version
// mismatch asks the operator to delete the database.
package history
