// Package download fetches submission archives and source code in batches.
//
// Submission ids are grouped into fixed-size batches processed one after
// another. Inside a batch every request runs concurrently; a single failure
// discards the whole batch, which is then retried under the configured
// backoff policy. Files reach disk only once their batch fully succeeded.
package download
