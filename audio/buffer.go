// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"time"
)

// Buffer is one block of PCM produced by a decoder, annotated with its
// position in the stream.
type Buffer struct {
	// Data holds interleaved signed 16-bit samples in native byte order.
	Data []byte

	// Offset is the first sample-frame of Data in the stream.
	Offset int64
	// OffsetEnd is the sample-frame just past the end of Data.
	OffsetEnd int64

	Timestamp time.Duration
	Duration  time.Duration
}

// Frames returns the number of sample-frames held in b.
func (b *Buffer) Frames() int64 { return b.OffsetEnd - b.Offset }

func (b *Buffer) String() string {
	return fmt.Sprintf("buffer[%d..%d) ts=%s dur=%s size=%d", b.Offset, b.OffsetEnd, b.Timestamp, b.Duration, len(b.Data))
}

// EventType identifies a stream event.
type EventType int

const (
	EventSegment EventType = iota + 1
	EventTags
	EventEOS
)

func (t EventType) String() string {
	switch t {
	case EventSegment:
		return "segment"
	case EventTags:
		return "tags"
	case EventEOS:
		return "eos"
	}
	return fmt.Sprintf("EventType(%d)", int(t))
}

// Event is an out-of-band notification travelling alongside buffers.
type Event interface {
	Type() EventType
}

// SegmentEvent announces the time range of the buffers that follow.
// Stop is negative when the end is not known.
type SegmentEvent struct {
	Start time.Duration
	Stop  time.Duration
	Rate  float64
}

func (SegmentEvent) Type() EventType { return EventSegment }

// TagEvent carries textual metadata found in the stream.
type TagEvent struct {
	Title     string
	Artist    string
	Copyright string
}

func (TagEvent) Type() EventType { return EventTags }

// Empty reports whether no tag is set.
func (e TagEvent) Empty() bool {
	return e.Title == "" && e.Artist == "" && e.Copyright == ""
}

// EOSEvent marks the end of the stream. No buffer follows it.
type EOSEvent struct{}

func (EOSEvent) Type() EventType { return EventEOS }
