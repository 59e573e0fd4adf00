// Package snapshot holds the immutable in-memory view of an exported contest.
//
// Entities are decoded from the API payloads, joined with their judgements
// and indexed by id in fetch order. A Snapshot is produced once by Build and
// is read-only afterwards; the format encoders only ever read from it.
package snapshot
