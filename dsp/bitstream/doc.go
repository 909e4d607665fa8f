// Package bitstream provides a fixed-capacity packed bit vector with a
// shift-and-compare autocorrelation.
//
// A binarized audio window is stored one bit per sample in machine words of a
// chosen width. Distance(lag) counts the bits that differ between the first
// half of the stream and the stream shifted by lag samples; a periodic signal
// produces a small distance at multiples of its period. Population counts are
// dispatched to the fastest kernel available on the CPU.
//
// The word width is a type parameter: Bitstream[uint8] through
// Bitstream[uint64] (and the native Bitstream[uint]) give identical results.
package bitstream
