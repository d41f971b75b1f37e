//go:build !xenon

package soc

// Default is the bus of the running machine. On other targets it is a
// simulated register file.
var Default Bus = NewSim()
