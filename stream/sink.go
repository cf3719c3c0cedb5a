// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"github.com/gorilla/websocket"

	"github.com/ik5/siddec/audio"
)

// sink sends the decoder output to one websocket client.
type sink struct {
	conn *websocket.Conn
	pref audio.Caps
	open bool
}

func (s *sink) Caps() []audio.Caps {
	return []audio.Caps{{
		Width:    audio.SampleWidth,
		Rate:     s.pref.Rate,
		Channels: s.pref.Channels,
	}}
}

func (s *sink) Open(f audio.Format) error {
	if s.open {
		return ErrAlreadyOpen
	}
	s.open = true
	return writeFrame(s.conn, formatFrame(f))
}

func (s *sink) WriteBuffer(b *audio.Buffer) error {
	if !s.open {
		return audio.ErrSinkNotOpen
	}
	return writeFrame(s.conn, bufferFrame(b))
}

func (s *sink) HandleEvent(e audio.Event) error {
	f, ok := eventFrame(e)
	if !ok {
		return nil
	}
	return writeFrame(s.conn, f)
}

// Close leaves the connection open; the handler owns it.
func (s *sink) Close() error { return nil }
