// SPDX-License-Identifier: EPL-2.0

package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/ik5/siddec/audio"
	"github.com/ik5/siddec/element"
)

// DefaultDepth is the number of buffers a Queue holds before Push blocks.
const DefaultDepth = 8

type item struct {
	buf   *audio.Buffer
	event audio.Event
}

// Queue is an element.Pad that hands the decoder's output to a sink on
// another goroutine. Push blocks while Depth buffers are waiting, which
// throttles the decoder to the speed of the sink.
type Queue struct {
	sink  audio.Sink
	items chan item
	pool  sync.Pool

	stop     chan struct{}
	stopOnce sync.Once

	mu  sync.Mutex
	err error
}

// NewQueue returns a queue feeding sink. depth below 1 uses DefaultDepth.
func NewQueue(sink audio.Sink, depth int) *Queue {
	if depth < 1 {
		depth = DefaultDepth
	}
	return &Queue{
		sink:  sink,
		items: make(chan item, depth),
		stop:  make(chan struct{}),
	}
}

func (q *Queue) AllowedCaps(context.Context) []audio.Caps {
	return q.sink.Caps()
}

// SetFormat opens the sink. It runs before the first Push, so the drain
// goroutine has nothing to write yet.
func (q *Queue) SetFormat(_ context.Context, f audio.Format) error {
	if err := q.sink.Open(f); err != nil {
		return fmt.Errorf("%w: %w", ErrSink, err)
	}
	return nil
}

func (q *Queue) AllocBuffer(ctx context.Context, size int) (*audio.Buffer, error) {
	if err := q.stopped(ctx); err != nil {
		return nil, err
	}

	b, _ := q.pool.Get().(*audio.Buffer)
	if b == nil || cap(b.Data) < size {
		b = &audio.Buffer{Data: make([]byte, size)}
	}
	b.Data = b.Data[:size]
	return b, nil
}

func (q *Queue) Push(ctx context.Context, b *audio.Buffer) error {
	return q.send(ctx, item{buf: b})
}

func (q *Queue) PushEvent(ctx context.Context, e audio.Event) error {
	return q.send(ctx, item{event: e})
}

func (q *Queue) send(ctx context.Context, it item) error {
	if err := q.stopped(ctx); err != nil {
		return err
	}
	select {
	case q.items <- it:
		return nil
	case <-q.stop:
		return q.stopErr()
	case <-ctx.Done():
		return element.ErrFlushing
	}
}

func (q *Queue) stopped(ctx context.Context) error {
	select {
	case <-q.stop:
		return q.stopErr()
	case <-ctx.Done():
		return element.ErrFlushing
	default:
		return nil
	}
}

// stopErr maps the drain side's exit to a flow result for the decoder.
func (q *Queue) stopErr() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.err != nil {
		return q.err
	}
	return element.ErrFlushing
}

// Drain writes queued buffers and events to the sink until the decoder
// sends end-of-stream, the sink fails or ctx is done. It does not close
// the sink.
func (q *Queue) Drain(ctx context.Context) error {
	err := q.drain(ctx)
	q.mu.Lock()
	if err != nil && ctx.Err() == nil {
		q.err = err
	}
	q.mu.Unlock()
	q.stopOnce.Do(func() { close(q.stop) })
	return err
}

func (q *Queue) drain(ctx context.Context) error {
	for {
		var it item
		select {
		case it = <-q.items:
		case <-ctx.Done():
			return ctx.Err()
		}

		if it.buf != nil {
			err := q.sink.WriteBuffer(it.buf)
			q.pool.Put(it.buf)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrSink, err)
			}
			continue
		}

		if err := q.sink.HandleEvent(it.event); err != nil {
			return fmt.Errorf("%w: %w", ErrSink, err)
		}
		if it.event.Type() == audio.EventEOS {
			return nil
		}
	}
}
