// SPDX-License-Identifier: EPL-2.0

// Package audio provides the PCM vocabulary shared by the decoder element
// and its consumers.
//
// This package contains:
//   - Format, the fixed output sample format (signed 16-bit, native byte order)
//   - Caps, a consumer's description of what it accepts
//   - Unit conversion between bytes, sample-frames and time
//   - Buffer, one annotated block of PCM
//   - Events (segment, tags, end-of-stream)
//   - Sink and Encoder interfaces plus an encoder Registry
//
// # Formats and Caps
//
// A consumer advertises the formats it accepts as an ordered list of Caps.
// Fields left at zero are unconstrained:
//
//	caps := []audio.Caps{
//	    {Rate: 44100, Channels: 2},
//	    {}, // anything else we can handle
//	}
//
// A decoder picks the first compatible entry and fixes it into a Format.
// Unspecified rate and channels default to 48000 Hz mono.
//
// # Unit Conversion
//
// Stream positions are tracked as a byte count and converted on demand:
//
//	f := audio.Format{Rate: 48000, Channels: 2}
//	frames, _ := f.Convert(audio.Bytes, 8192, audio.Frames) // 2048
//	ns, _ := f.Convert(audio.Bytes, 8192, audio.Time)       // 42666666
//
// Conversions use 128-bit intermediates, so large positions do not
// overflow. A conversion with a zero rate or channel count fails with
// ErrUnsupportedConversion.
//
// # Sinks
//
// A Sink receives Open with the negotiated format, then buffers and events
// in stream order:
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Encoder{})
//	encoder, _ := registry.Get("wav")
//	sink, _ := encoder.Encode(file, audio.Caps{Channels: 2})
//
// # Sample Format
//
// Buffers carry interleaved signed 16-bit samples in the byte order of the
// running machine. A stereo sample-frame is 4 bytes: left then right.
package audio
