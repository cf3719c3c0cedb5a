// SPDX-License-Identifier: EPL-2.0

// Package wav writes decoded audio as WAV files.
//
// It uses github.com/go-audio/wav for the RIFF layout. Files are always
// 16-bit integer PCM, little endian, at the rate and channel count the
// decoder negotiated.
//
// # Writing WAV Files
//
//	f, _ := os.Create("song.wav")
//	sink, _ := wav.Encoder{}.Encode(f, audio.Caps{Rate: 44100, Channels: 2})
//
// The header is patched once the length is known, when the sink is
// closed. When the destination cannot seek, the file is assembled in
// memory and copied out on Close.
//
// # Metadata
//
// Title, artist and copyright from the tune are written to the LIST/INFO
// chunk.
package wav
