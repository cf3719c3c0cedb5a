// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/ik5/siddec/audio"
	"github.com/ik5/siddec/utils"
)

// pcmFormat is the WAVE format tag for integer PCM.
const pcmFormat = 1

// Software is written to the INFO chunk of every file.
const Software = "siddec"

// Encoder writes 16-bit PCM WAV files.
type Encoder struct{}

func (Encoder) Encode(w io.Writer, pref audio.Caps) (audio.Sink, error) {
	return &sink{w: w, pref: pref}, nil
}

type sink struct {
	w    io.Writer
	pref audio.Caps

	// mem buffers the file when w cannot seek back to patch the header.
	mem    *utils.WriteSeeker
	enc    *wav.Encoder
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

	ws, ok := s.w.(io.WriteSeeker)
	if !ok {
		s.mem = &utils.WriteSeeker{}
		ws = s.mem
	}

	s.enc = wav.NewEncoder(ws, f.Rate, audio.SampleWidth, f.Channels, pcmFormat)
	s.enc.Metadata = &wav.Metadata{Software: Software}
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
		return fmt.Errorf("%w: %w", ErrWriteWAV, err)
	}
	s.wrote = true
	return nil
}

func (s *sink) HandleEvent(e audio.Event) error {
	if tags, ok := e.(audio.TagEvent); ok && s.enc != nil {
		s.enc.Metadata.Title = tags.Title
		s.enc.Metadata.Artist = tags.Artist
		s.enc.Metadata.Copyright = tags.Copyright
	}
	return nil
}

// Close finalises the header. A file that was never opened is left
// empty.
func (s *sink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if s.enc == nil {
		return nil
	}
	if !s.wrote {
		// The header goes out with the first write.
		s.intBuf.Data = s.intBuf.Data[:0]
		if err := s.enc.Write(s.intBuf); err != nil {
			return fmt.Errorf("%w: %w", ErrWriteWAV, err)
		}
	}
	if err := s.enc.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteWAV, err)
	}
	if s.mem != nil {
		if _, err := s.mem.WriteTo(s.w); err != nil {
			return fmt.Errorf("%w: %w", ErrWriteWAV, err)
		}
	}
	return nil
}
