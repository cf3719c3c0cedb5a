// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"encoding/binary"
	"fmt"
)

// SampleWidth is the width in bits of every sample this package produces.
const SampleWidth = 16

// Limits of the output format a decoder can be negotiated to.
const (
	MinRate     = 8000
	MaxRate     = 48000
	MinChannels = 1
	MaxChannels = 2

	// DefaultRate and DefaultChannels fill in caps that leave the
	// field unspecified.
	DefaultRate     = 48000
	DefaultChannels = 1
)

// Endianness is the byte order of 16-bit samples.
type Endianness int

const (
	// EndianAny means the consumer does not care.
	EndianAny Endianness = iota
	LittleEndian
	BigEndian
)

func (e Endianness) String() string {
	switch e {
	case EndianAny:
		return "any"
	case LittleEndian:
		return "little-endian"
	case BigEndian:
		return "big-endian"
	}
	return fmt.Sprintf("Endianness(%d)", int(e))
}

// NativeEndianness reports the byte order of the running machine.
func NativeEndianness() Endianness {
	var b [2]byte
	binary.NativeEndian.PutUint16(b[:], 1)
	if b[0] == 1 {
		return LittleEndian
	}
	return BigEndian
}

// Format is a fixed output sample format: signed 16-bit samples in native
// byte order, interleaved across Channels, at Rate frames per second.
type Format struct {
	Rate     int
	Channels int
}

// BytesPerFrame returns the size in bytes of one sample-frame.
func (f Format) BytesPerFrame() int { return SampleWidth / 8 * f.Channels }

// Validate checks the format against the supported rate and channel ranges.
func (f Format) Validate() error {
	if f.Rate < MinRate || f.Rate > MaxRate {
		return fmt.Errorf("%w: rate %d outside [%d,%d]", ErrInvalidFormat, f.Rate, MinRate, MaxRate)
	}
	if f.Channels < MinChannels || f.Channels > MaxChannels {
		return fmt.Errorf("%w: %d channels outside [%d,%d]", ErrInvalidFormat, f.Channels, MinChannels, MaxChannels)
	}
	return nil
}

func (f Format) String() string {
	layout := "mono"
	if f.Channels == 2 {
		layout = "stereo"
	} else if f.Channels != 1 {
		layout = fmt.Sprintf("%dch", f.Channels)
	}
	return fmt.Sprintf("S16 %dHz %s", f.Rate, layout)
}

// Caps describes one sample format a consumer is willing to accept.
// Zero-valued fields leave that property unconstrained.
type Caps struct {
	// Width in bits, 0 for any.
	Width int
	// Unsigned is set by consumers that only take unsigned samples.
	Unsigned   bool
	Endianness Endianness
	// Rate in Hz, 0 for any.
	Rate int
	// Channels, 0 for any.
	Channels int
}

// Compatible reports whether c can be satisfied by signed 16-bit native
// endian PCM within the supported rate and channel ranges.
func (c Caps) Compatible() bool {
	if c.Width != 0 && c.Width != SampleWidth {
		return false
	}
	if c.Unsigned {
		return false
	}
	if c.Endianness != EndianAny && c.Endianness != NativeEndianness() {
		return false
	}
	if c.Rate != 0 && (c.Rate < MinRate || c.Rate > MaxRate) {
		return false
	}
	if c.Channels != 0 && (c.Channels < MinChannels || c.Channels > MaxChannels) {
		return false
	}
	return true
}

// Fixate turns c into a concrete Format, using DefaultRate and
// DefaultChannels for anything left open.
func (c Caps) Fixate() Format {
	f := Format{Rate: c.Rate, Channels: c.Channels}
	if f.Rate == 0 {
		f.Rate = DefaultRate
	}
	if f.Channels == 0 {
		f.Channels = DefaultChannels
	}
	return f
}
