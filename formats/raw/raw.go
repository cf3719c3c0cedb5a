// SPDX-License-Identifier: EPL-2.0

// Package raw writes decoded audio as headerless 16-bit PCM.
//
// The byte order defaults to the machine's own; set Encoder.Order to
// produce a fixed layout, e.g. for piping into
//
//	aplay -f S16_LE -r 48000 -c 2
package raw

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/ik5/siddec/audio"
)

var ErrAlreadyOpen = errors.New("raw sink already open")

type Encoder struct {
	// Order is the output byte order. EndianAny keeps native order.
	Order audio.Endianness
}

func (e Encoder) Encode(w io.Writer, pref audio.Caps) (audio.Sink, error) {
	switch e.Order {
	case audio.EndianAny, audio.LittleEndian, audio.BigEndian:
	default:
		return nil, fmt.Errorf("%w: byte order %v", audio.ErrInvalidFormat, e.Order)
	}
	return &sink{w: w, pref: pref, order: e.Order}, nil
}

type sink struct {
	w     io.Writer
	pref  audio.Caps
	order audio.Endianness

	format  audio.Format
	open    bool
	closed  bool
	swapped []byte
}

func (s *sink) Caps() []audio.Caps {
	return []audio.Caps{{
		Width:    audio.SampleWidth,
		Rate:     s.pref.Rate,
		Channels: s.pref.Channels,
	}}
}

func (s *sink) Open(f audio.Format) error {
	if s.closed {
		return audio.ErrSinkClosed
	}
	if s.open {
		return ErrAlreadyOpen
	}
	if err := f.Validate(); err != nil {
		return err
	}
	s.format = f
	s.open = true
	return nil
}

// Format returns the format passed to Open.
func (s *sink) Format() audio.Format { return s.format }

func (s *sink) WriteBuffer(b *audio.Buffer) error {
	if s.closed {
		return audio.ErrSinkClosed
	}
	if !s.open {
		return audio.ErrSinkNotOpen
	}

	data := b.Data
	if s.order != audio.EndianAny && s.order != audio.NativeEndianness() {
		data = s.swap(data)
	}
	if _, err := s.w.Write(data); err != nil {
		return fmt.Errorf("writing raw PCM: %w", err)
	}
	return nil
}

// swap converts native order samples to the other byte order.
func (s *sink) swap(data []byte) []byte {
	if cap(s.swapped) < len(data) {
		s.swapped = make([]byte, len(data))
	}
	out := s.swapped[:len(data)&^1]

	var to binary.ByteOrder = binary.BigEndian
	if s.order == audio.LittleEndian {
		to = binary.LittleEndian
	}
	for i := 0; i < len(out); i += 2 {
		to.PutUint16(out[i:], binary.NativeEndian.Uint16(data[i:]))
	}
	return out
}

func (s *sink) HandleEvent(audio.Event) error { return nil }

func (s *sink) Close() error {
	s.closed = true
	return nil
}
