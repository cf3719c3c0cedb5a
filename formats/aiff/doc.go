// SPDX-License-Identifier: EPL-2.0

// Package aiff writes decoded audio as AIFF (Audio Interchange File
// Format) files.
//
// This package uses github.com/go-audio/aiff to encode. AIFF is Apple's
// standard audio file format, commonly used on macOS.
//
// # Output Format
//
//   - PCM 16-bit, big endian
//   - Mono or stereo, as negotiated
//   - Any rate the decoder supports (8kHz to 48kHz)
//
// # Writing AIFF Files
//
//	f, _ := os.Create("song.aiff")
//	sink, _ := aiff.Encoder{}.Encode(f, audio.Caps{})
//
// The sink takes whichever format the decoder settles on when pref leaves
// the rate or channel count open.
//
// # AIFF vs. WAV
//
// AIFF is similar to WAV but:
//   - Uses big-endian byte order (WAV uses little-endian)
//   - Stores sample rate as 80-bit float (WAV uses 32-bit int)
//
// # Limitations
//
// Tags are not written; use the wav package to keep the tune's title and
// author.
package aiff
