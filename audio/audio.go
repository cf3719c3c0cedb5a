// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"slices"
	"strings"
	"sync"
)

// Sink consumes the stream a decoder emits: one Open with the negotiated
// format, then buffers and events in stream order.
type Sink interface {
	// Caps lists the formats the sink accepts, most preferred first.
	Caps() []Caps
	// Open fixes the format of every buffer that follows.
	Open(f Format) error
	// WriteBuffer consumes b. b.Data may be reused once it returns.
	WriteBuffer(b *Buffer) error
	HandleEvent(e Event) error
	// Close flushes and releases the sink.
	Close() error
}

// Encoder constructs a Sink writing an encoded stream to w. pref carries
// the caller's preferred rate and channel count; zero fields let the
// decoder choose.
type Encoder interface {
	Encode(w io.Writer, pref Caps) (Sink, error)
}

// Registry for encoders by format key (e.g., "wav", "aiff", "raw").
type Registry struct {
	codecs map[string]Encoder

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Encoder),
		mtx:    &sync.Mutex{},
	}
}

// Register adds e under format. Keys are case-insensitive.
func (r *Registry) Register(format string, e Encoder) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.codecs[strings.ToLower(format)] = e
}

func (r *Registry) Get(format string) (Encoder, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	e, ok := r.codecs[strings.ToLower(format)]
	return e, ok
}

// Formats returns the registered keys in sorted order.
func (r *Registry) Formats() []string {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	keys := make([]string, 0, len(r.codecs))
	for k := range r.codecs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
