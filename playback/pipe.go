// SPDX-License-Identifier: EPL-2.0

package playback

import (
	"io"
	"sync"
)

// pipe is a FIFO of PCM bytes between the sink and the device. Write
// blocks while more than limit bytes are queued. Read blocks while the
// pipe is empty and returns io.EOF once it is closed and drained.
type pipe struct {
	mu     sync.Mutex
	cond   *sync.Cond
	data   []byte
	limit  int
	closed bool
}

func newPipe(limit int) *pipe {
	p := &pipe{limit: max(limit, 1)}
	p.cond = sync.NewCond(&p.mu)
	return p
}

func (p *pipe) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for len(p.data) >= p.limit && !p.closed {
		p.cond.Wait()
	}
	if p.closed {
		return 0, io.ErrClosedPipe
	}
	p.data = append(p.data, b...)
	p.cond.Broadcast()
	return len(b), nil
}

func (p *pipe) Read(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for len(p.data) == 0 && !p.closed {
		p.cond.Wait()
	}
	if len(p.data) == 0 {
		return 0, io.EOF
	}
	n := copy(b, p.data)
	p.data = p.data[n:]
	p.cond.Broadcast()
	return n, nil
}

// Len returns the number of queued bytes.
func (p *pipe) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.data)
}

// Close stops writes. Queued bytes can still be read.
func (p *pipe) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	p.cond.Broadcast()
	return nil
}
