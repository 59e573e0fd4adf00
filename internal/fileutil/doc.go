// Package fileutil holds the filesystem helpers used when persisting and
// replaying exports: verified copies, tree and glob copies, and writes that
// create their parent directories.
package fileutil
