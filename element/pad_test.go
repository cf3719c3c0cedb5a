// SPDX-License-Identifier: EPL-2.0

package element

import (
	"context"
	"sync"

	"github.com/ik5/siddec/audio"
)

// recordingPad is a Pad that records everything pushed to it in order
// and can be scripted to fail.
type recordingPad struct {
	caps         []audio.Caps
	setFormatErr error

	allocErr   error
	allocErrAt int // 1-based AllocBuffer call that fails
	pushErr    error
	pushErrAt  int // 1-based Push call that fails
	// blockAt makes that Push call wait for the context.
	blockAt int

	mu       sync.Mutex
	formats  []audio.Format
	entries  []any
	buffers  []*audio.Buffer
	allocs   int
	pushes   int
	blocking chan struct{}
}

func newRecordingPad(caps ...audio.Caps) *recordingPad {
	return &recordingPad{caps: caps, blocking: make(chan struct{})}
}

func (p *recordingPad) AllowedCaps(context.Context) []audio.Caps { return p.caps }

func (p *recordingPad) SetFormat(_ context.Context, f audio.Format) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.formats = append(p.formats, f)
	return p.setFormatErr
}

func (p *recordingPad) AllocBuffer(_ context.Context, size int) (*audio.Buffer, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.allocs++
	if p.allocErr != nil && p.allocs == p.allocErrAt {
		return nil, p.allocErr
	}
	return &audio.Buffer{Data: make([]byte, size)}, nil
}

func (p *recordingPad) Push(ctx context.Context, b *audio.Buffer) error {
	p.mu.Lock()
	p.pushes++
	n := p.pushes
	p.mu.Unlock()

	if n == p.blockAt {
		close(p.blocking)
		<-ctx.Done()
		return ctx.Err()
	}
	if p.pushErr != nil && n == p.pushErrAt {
		return p.pushErr
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.entries = append(p.entries, b)
	p.buffers = append(p.buffers, b)
	return nil
}

func (p *recordingPad) PushEvent(_ context.Context, e audio.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.entries = append(p.entries, e)
	return nil
}

func (p *recordingPad) Buffers() []*audio.Buffer {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]*audio.Buffer(nil), p.buffers...)
}

func (p *recordingPad) Entries() []any {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]any(nil), p.entries...)
}

func (p *recordingPad) Count(typ audio.EventType) int {
	n := 0
	for _, e := range p.Entries() {
		if ev, ok := e.(audio.Event); ok && ev.Type() == typ {
			n++
		}
	}
	return n
}
