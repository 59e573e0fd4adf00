// Package testsupport provides fixtures shared by package tests: a config
// builder rooted in per-test temp directories and a writer for replay
// export trees.
package testsupport
