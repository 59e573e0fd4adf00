// Package exporter runs the export pipeline.
//
// Dump takes an exclusive lock next to the output directory, wipes the
// directory, mirrors the fixed API resources, pages through the run stream,
// downloads submission sources, mirrors images and finally writes the
// derived formats from a built snapshot. In replay mode every network stage
// is replaced by a copy from the prior export.
//
// Load reads the same fixed resources without persisting anything and
// returns the built snapshot.
package exporter
