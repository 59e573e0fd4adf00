// Package formats groups the encoders that project a built snapshot into
// third-party file formats. Each subpackage reads a *snapshot.Snapshot and
// never mutates it.
package formats
