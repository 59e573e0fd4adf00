// Package textutil provides small text helpers shared by the export stages.
//
// The primary use cases are:
//   - Sanitizing contest names into safe output file names
//   - Decoding backslash escape sequences in downloaded source payloads
package textutil
