// SPDX-License-Identifier: EPL-2.0

// Package siddec decodes Commodore 64 SID tunes into PCM audio.
//
// A tune file (PSID or RSID) is accumulated whole, handed to an emulation
// engine and rendered block by block into timestamped 16-bit buffers. The
// work is split across subpackages:
//
//   - tune parses and validates SID files
//   - engine defines the emulation engine a driver provides, with a
//     headless driver in engine/headless
//   - element is the streaming decoder: input accumulation, format
//     negotiation, the engine session and the production loop
//   - pipeline connects a decoder to an audio.Sink
//   - formats/wav, formats/aiff and formats/raw write files, playback
//     plays on the sound card and stream serves websocket clients
//
// # Quick Start
//
// Decode picks an encoder by file extension and runs the whole pipeline:
//
//	in, _ := os.Open("Commando.sid")
//	out, _ := os.Create("commando.wav")
//	res, err := siddec.DecodeFile(ctx, in, out, "commando.wav", headless.New(0), element.DefaultConfig())
//
// For more control, build a sink yourself and call Decode:
//
//	sink, _ := wav.Encoder{}.Encode(out, audio.Caps{Rate: 44100, Channels: 2})
//	res, err := siddec.Decode(ctx, in, driver, sink, cfg)
//
// # Stream Layout
//
// Every decoder emits, in order: the negotiated format, a tag event when
// the tune names a title or author, a segment starting at zero with an
// unknown end, the audio buffers and one end-of-stream event. Buffer
// offsets and timestamps are contiguous; a buffer's duration is the next
// buffer's timestamp minus its own.
//
// # Supported Output Formats
//
//   - WAV (PCM 16-bit, with INFO tags) via formats/wav
//   - AIFF (PCM 16-bit) via formats/aiff
//   - headerless PCM via formats/raw
package siddec
