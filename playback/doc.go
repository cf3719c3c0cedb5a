// SPDX-License-Identifier: EPL-2.0

// Package playback plays decoded audio on the default output device.
//
// The Sink feeds an oto player through a bounded in-memory pipe. Writes
// block while the pipe holds more than the configured latency, so the
// decoder producing into the sink runs at playback speed.
//
// # Build Tags
//
// Building with -tags headless replaces the device with one that
// consumes samples without playing them, for machines without sound
// hardware.
//
// # Byte Order
//
// The device takes signed 16-bit little endian samples. On a big endian
// host the sink's caps cannot be satisfied and format negotiation fails.
package playback
