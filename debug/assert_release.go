//go:build !debug

// Package debug provides assertions for conditions that are defects rather
// than runtime errors, e.g. overrunning a fixed-size buffer. They are checked
// when built with the debug tag and compile to nothing otherwise.
package debug

// Enabled reports whether assertions are compiled in. Guard assertions that
// need extra work to evaluate with `if debug.Enabled {...}`.
const Enabled = false

// Assert panics if b is false.
func Assert(b bool, message string) {}
