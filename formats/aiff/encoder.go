// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"

	"github.com/ik5/siddec/audio"
	"github.com/ik5/siddec/utils"
)

// Encoder writes 16-bit PCM AIFF files.
type Encoder struct{}

func (Encoder) Encode(w io.Writer, pref audio.Caps) (audio.Sink, error) {
	return &sink{w: w, pref: pref}, nil
}

// sink adapts go-audio's aiff.Encoder to audio.Sink
type sink struct {
	w    io.Writer
	pref audio.Caps

	mem    *utils.WriteSeeker
	enc    *aiff.Encoder
	intBuf *goaudio.IntBuffer
	wrote  bool
	closed bool
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
	if s.enc != nil {
		return ErrAlreadyOpen
	}
	if err := f.Validate(); err != nil {
		return err
	}

	// go-audio requires io.WriteSeeker to patch the COMM and SSND sizes
	ws, ok := s.w.(io.WriteSeeker)
	if !ok {
		s.mem = &utils.WriteSeeker{}
		ws = s.mem
	}

	s.enc = aiff.NewEncoder(ws, f.Rate, audio.SampleWidth, f.Channels)
	s.intBuf = &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: f.Channels,
			SampleRate:  f.Rate,
		},
		SourceBitDepth: audio.SampleWidth,
	}
	return nil
}

func (s *sink) WriteBuffer(b *audio.Buffer) error {
	if s.closed {
		return audio.ErrSinkClosed
	}
	if s.enc == nil {
		return audio.ErrSinkNotOpen
	}
	if len(b.Data) == 0 {
		return nil
	}

	samples := len(b.Data) / 2
	if cap(s.intBuf.Data) < samples {
		s.intBuf.Data = make([]int, samples)
	}
	s.intBuf.Data = s.intBuf.Data[:samples]
	utils.Ints(s.intBuf.Data, b.Data, binary.NativeEndian)

	if err := s.enc.Write(s.intBuf); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteAIFF, err)
	}
	s.wrote = true
	return nil
}

// HandleEvent ignores every event. AIFF has no place for the tags this
// decoder produces.
func (s *sink) HandleEvent(audio.Event) error { return nil }

func (s *sink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if s.enc == nil {
		return nil
	}
	if !s.wrote {
		s.intBuf.Data = s.intBuf.Data[:0]
		if err := s.enc.Write(s.intBuf); err != nil {
			return fmt.Errorf("%w: %w", ErrWriteAIFF, err)
		}
	}
	if err := s.enc.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteAIFF, err)
	}
	if s.mem != nil {
		if _, err := s.mem.WriteTo(s.w); err != nil {
			return fmt.Errorf("%w: %w", ErrWriteAIFF, err)
		}
	}
	return nil
}
