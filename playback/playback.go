// SPDX-License-Identifier: EPL-2.0

package playback

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ik5/siddec/audio"
)

// DefaultLatency is how much audio may wait in front of the device.
const DefaultLatency = 200 * time.Millisecond

// device is an output that pulls PCM from a reader.
type device interface {
	// Play starts pulling from r.
	Play(r io.Reader)
	// Drain blocks until r is exhausted and everything has been played.
	Drain()
	Close() error
}

type openFunc func(f audio.Format, latency time.Duration) (device, error)

// Sink is an audio.Sink playing through the output device.
type Sink struct {
	pref    audio.Caps
	latency time.Duration
	log     *slog.Logger
	open    openFunc

	dev    device
	pipe   *pipe
	closed bool
}

type Option func(*Sink)

// WithLatency bounds the audio buffered ahead of the device.
func WithLatency(d time.Duration) Option {
	return func(s *Sink) { s.latency = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Sink) { s.log = l }
}

// New returns a sink for the default output device. pref narrows the
// rate and channel count offered during negotiation.
func New(pref audio.Caps, opts ...Option) *Sink {
	s := &Sink{
		pref:    pref,
		latency: DefaultLatency,
		log:     slog.Default(),
		open:    openDevice,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Sink) Caps() []audio.Caps {
	return []audio.Caps{{
		Width:      audio.SampleWidth,
		Endianness: audio.LittleEndian,
		Rate:       s.pref.Rate,
		Channels:   s.pref.Channels,
	}}
}

func (s *Sink) Open(f audio.Format) error {
	if s.closed {
		return audio.ErrSinkClosed
	}
	if s.dev != nil {
		return ErrAlreadyOpen
	}
	if err := f.Validate(); err != nil {
		return err
	}

	dev, err := s.open(f, s.latency)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDevice, err)
	}

	limit := int(int64(f.Rate) * int64(f.BytesPerFrame()) * int64(s.latency) / int64(time.Second))
	s.pipe = newPipe(limit)
	s.dev = dev
	dev.Play(s.pipe)

	s.log.Debug("playback started", "format", f.String(), "latency", s.latency)
	return nil
}

// WriteBuffer queues b for the device, blocking while the queue is full.
func (s *Sink) WriteBuffer(b *audio.Buffer) error {
	if s.closed {
		return audio.ErrSinkClosed
	}
	if s.dev == nil {
		return audio.ErrSinkNotOpen
	}
	if _, err := s.pipe.Write(b.Data); err != nil {
		return fmt.Errorf("%w: %w", ErrDevice, err)
	}
	return nil
}

func (s *Sink) HandleEvent(e audio.Event) error {
	if tags, ok := e.(audio.TagEvent); ok {
		s.log.Info("now playing", "title", tags.Title, "artist", tags.Artist)
	}
	return nil
}

// Close waits for queued audio to finish playing and releases the
// device.
func (s *Sink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if s.dev == nil {
		return nil
	}
	s.pipe.Close()
	s.dev.Drain()
	if err := s.dev.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrDevice, err)
	}
	return nil
}
