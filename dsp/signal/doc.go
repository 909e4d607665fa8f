// Package signal synthesizes deterministic test signals for the tuner:
// sines, white noise and plucked-string tones, plus conversion to and from
// 16-bit PCM.
package signal
