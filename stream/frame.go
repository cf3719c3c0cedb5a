// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/ik5/siddec/audio"
)

// Frame types, in the order a client sees them.
const (
	FrameFormat  = "format"
	FrameTags    = "tags"
	FrameSegment = "segment"
	FrameBuffer  = "buffer"
	FrameEOS     = "eos"
	FrameError   = "error"
)

// Frame is one msgpack encoded websocket message. Which fields are set
// depends on Type.
type Frame struct {
	Type string `msgpack:"type"`

	// format
	Rate     int `msgpack:"rate,omitempty"`
	Channels int `msgpack:"channels,omitempty"`
	// Order is the byte order of buffer samples, "little-endian" or
	// "big-endian": the order of the machine running the server.
	Order string `msgpack:"order,omitempty"`

	// tags
	Title     string `msgpack:"title,omitempty"`
	Artist    string `msgpack:"artist,omitempty"`
	Copyright string `msgpack:"copyright,omitempty"`

	// segment and buffer; times are nanoseconds
	Start     int64   `msgpack:"start,omitempty"`
	Stop      int64   `msgpack:"stop,omitempty"`
	Speed     float64 `msgpack:"speed,omitempty"`
	Offset    int64   `msgpack:"offset,omitempty"`
	OffsetEnd int64   `msgpack:"offset_end,omitempty"`
	Timestamp int64   `msgpack:"ts,omitempty"`
	Duration  int64   `msgpack:"dur,omitempty"`
	// Data holds signed 16-bit samples in the format frame's Order.
	Data []byte `msgpack:"data,omitempty"`

	// error
	Kind  string `msgpack:"kind,omitempty"`
	Error string `msgpack:"error,omitempty"`
}

func formatFrame(f audio.Format) Frame {
	return Frame{Type: FrameFormat, Rate: f.Rate, Channels: f.Channels, Order: audio.NativeEndianness().String()}
}

func eventFrame(e audio.Event) (Frame, bool) {
	switch e := e.(type) {
	case audio.TagEvent:
		return Frame{Type: FrameTags, Title: e.Title, Artist: e.Artist, Copyright: e.Copyright}, true
	case audio.SegmentEvent:
		return Frame{Type: FrameSegment, Start: int64(e.Start), Stop: int64(e.Stop), Speed: e.Rate}, true
	case audio.EOSEvent:
		return Frame{Type: FrameEOS}, true
	}
	return Frame{}, false
}

func bufferFrame(b *audio.Buffer) Frame {
	return Frame{
		Type:      FrameBuffer,
		Offset:    b.Offset,
		OffsetEnd: b.OffsetEnd,
		Timestamp: int64(b.Timestamp),
		Duration:  int64(b.Duration),
		Data:      b.Data,
	}
}

func writeFrame(conn *websocket.Conn, f Frame) error {
	data, err := msgpack.Marshal(&f)
	if err != nil {
		return fmt.Errorf("encoding %s frame: %w", f.Type, err)
	}
	if err := conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		return fmt.Errorf("sending %s frame: %w", f.Type, err)
	}
	return nil
}

// ReadFrame reads and decodes the next frame from conn.
func ReadFrame(conn *websocket.Conn) (Frame, error) {
	var f Frame
	kind, data, err := conn.ReadMessage()
	if err != nil {
		return f, err
	}
	if kind != websocket.BinaryMessage {
		return f, fmt.Errorf("%w: message type %d", ErrBadFrame, kind)
	}
	if err := msgpack.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("%w: %w", ErrBadFrame, err)
	}
	return f, nil
}
