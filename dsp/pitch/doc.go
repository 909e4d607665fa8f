// Package pitch estimates the fundamental frequency of a monophonic signal
// and tracks it across frames for a tuner display.
//
// Detector binarizes a window of 16-bit samples with a zero-cross Schmitt
// trigger, packs the result into a bitstream and picks the lag with the
// smallest Hamming autocorrelation distance inside the configured frequency
// band. A frame that carries no usable period yields 0 Hz.
//
// Tracker feeds successive windows through a Detector and turns the raw
// estimates into a smoothed pitch, a lock (stable) indicator and a hysteretic
// in-tune indicator. Frame-to-frame jumps larger than the jump threshold are
// treated as glitches: the output is frozen for a short cooldown.
//
// Detector and Tracker are not safe for concurrent use; each instance owns its
// scratch storage, so independent instances may run in parallel.
package pitch
