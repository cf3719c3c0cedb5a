// SPDX-License-Identifier: EPL-2.0

// Package pipeline runs a decoder from a tune reader to an audio.Sink.
//
// Run reads the tune in fixed chunks, starts the decoder and drains its
// output into the sink through a Queue. The decoder and the sink run on
// separate goroutines; the bounded queue between them provides the
// backpressure a slow sink needs, e.g. a sound card.
//
//	f, _ := os.Open("Commando.sid")
//	out, _ := os.Create("commando.wav")
//	sink, _ := wav.Encoder{}.Encode(out, audio.Caps{Rate: 44100})
//	res, err := pipeline.Run(ctx, f, headless.New(0), sink)
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ik5/siddec/audio"
	"github.com/ik5/siddec/element"
	"github.com/ik5/siddec/engine"
	"github.com/ik5/siddec/tune"
)

// DefaultChunkSize is how many bytes of the tune are handed to the
// decoder per Chain call.
const DefaultChunkSize = 4096

// Result describes a finished run.
type Result struct {
	ID     string
	Format audio.Format
	Info   tune.Info
	// Frames is the number of sample-frames written to the sink.
	Frames   int64
	Duration time.Duration
}

type options struct {
	chunk   int
	depth   int
	log     *slog.Logger
	element []element.Option
}

type Option func(*options)

func WithChunkSize(n int) Option { return func(o *options) { o.chunk = n } }

// WithQueueDepth sets how many buffers may wait for the sink.
func WithQueueDepth(n int) Option { return func(o *options) { o.depth = n } }

// WithLogger sets the logger for the run and its decoder.
func WithLogger(l *slog.Logger) Option { return func(o *options) { o.log = l } }

// WithElementOptions passes opts to element.New.
func WithElementOptions(opts ...element.Option) Option {
	return func(o *options) { o.element = append(o.element, opts...) }
}

// Run decodes the tune read from r with driver and writes the result to
// sink. It returns once the sink has seen end-of-stream and is closed,
// or on the first error. sink is always closed.
func Run(ctx context.Context, r io.Reader, driver engine.Driver, sink audio.Sink, opts ...Option) (*Result, error) {
	o := options{chunk: DefaultChunkSize, depth: DefaultDepth, log: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.chunk < 1 {
		o.chunk = DefaultChunkSize
	}

	res, err := run(ctx, r, driver, sink, o)
	if cerr := sink.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("%w: %w", ErrSink, cerr)
	}
	return res, err
}

func run(ctx context.Context, r io.Reader, driver engine.Driver, sink audio.Sink, o options) (*Result, error) {
	q := NewQueue(sink, o.depth)

	elemOpts := append([]element.Option{element.WithLogger(o.log)}, o.element...)
	dec, err := element.New(driver, q, elemOpts...)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	log := o.log.With("session", dec.ID().String())

	if err := feed(ctx, r, dec, o.chunk); err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	drainCtx, stopDrain := context.WithCancel(gctx)
	defer stopDrain()

	g.Go(func() error { return q.Drain(drainCtx) })

	if err := dec.EndOfStream(gctx); err != nil {
		stopDrain()
		g.Wait()
		return nil, err
	}

	g.Go(func() error { return dec.Wait(gctx) })

	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{ID: dec.ID().String(), Format: dec.Format()}
	if v, err := dec.Get(element.PropMetadata); err == nil {
		if info, ok := v.(tune.Info); ok {
			res.Info = info
		}
	}
	if res.Frames, err = dec.Position(audio.Frames); err != nil {
		return nil, err
	}
	ns, err := dec.Position(audio.Time)
	if err != nil {
		return nil, err
	}
	res.Duration = time.Duration(ns)

	log.Debug("run finished", "frames", res.Frames, "duration", res.Duration)
	return res, nil
}

// feed hands r to the decoder in chunks of size bytes.
func feed(ctx context.Context, r io.Reader, dec *element.Decoder, size int) error {
	buf := make([]byte, size)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := r.Read(buf)
		if n > 0 {
			if cerr := dec.Chain(buf[:n]); cerr != nil {
				return cerr
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading tune: %w", err)
		}
	}
}
