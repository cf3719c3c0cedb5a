// SPDX-License-Identifier: EPL-2.0

// Package stream serves decoded tunes to websocket clients.
//
// Each message is a msgpack encoded Frame. A session sends, in order:
//
//	format   rate, channel count and sample byte order
//	tags     title, artist and copyright, when the tune has any
//	segment  start, stop (-1 when unknown) and speed
//	buffer   one per decoded block, with offsets, times and samples
//	eos      the song is over
//
// An error frame replaces whatever would have followed when decoding
// fails. The server then closes the connection with status 1011.
package stream
