// Package buffer provides reusable 16-bit PCM storage for streaming analysis:
// a Buffer with reuse-friendly semantics, a sync.Pool of Buffers, and a
// Framer that cuts an incoming sample stream into overlapping analysis
// windows advanced by a fixed hop.
package buffer
