// Package main hosts the contestdump CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once per invocation, builds
// the structured logger, and hands off to the exporter, preflight and history
// packages. Subcommands only format results for the terminal.
package main
