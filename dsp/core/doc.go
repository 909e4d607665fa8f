// Package core holds the configuration and numeric helpers shared by the
// tuner packages: processor options, clamping, tolerance comparison, decibel
// and cents conversion.
package core
