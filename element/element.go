// SPDX-License-Identifier: EPL-2.0

package element

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/ik5/siddec/audio"
	"github.com/ik5/siddec/engine"
	"github.com/ik5/siddec/tune"
)

// State is the lifecycle stage of a Decoder.
type State int

const (
	StateIdle State = iota
	StateProgramLoaded
	StateConfigured
	StateRunning
	StateTerminated
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateProgramLoaded:
		return "program-loaded"
	case StateConfigured:
		return "configured"
	case StateRunning:
		return "running"
	case StateTerminated:
		return "terminated"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithConfig replaces the default configuration.
func WithConfig(cfg Config) Option {
	return func(d *Decoder) { d.cfg = cfg }
}

func WithLogger(l *slog.Logger) Option {
	return func(d *Decoder) { d.log = l }
}

// WithCapacity sets the largest tune accepted, in bytes.
func WithCapacity(n int) Option {
	return func(d *Decoder) { d.capacity = n }
}

// WithErrorHandler registers fn to be told of every failure except
// KindNotLinked.
func WithErrorHandler(fn func(*Error)) Option {
	return func(d *Decoder) { d.onError = fn }
}

// Decoder turns a SID tune into a stream of timestamped PCM buffers.
//
// Feed the tune with Chain and call EndOfStream once it is complete.
// EndOfStream loads the tune into an engine from the driver and starts a
// goroutine pushing buffers to the pad until the song ends. Wait returns
// the outcome and Close releases the engine.
type Decoder struct {
	driver   engine.Driver
	pad      Pad
	log      *slog.Logger
	onError  func(*Error)
	capacity int
	id       uuid.UUID

	// lifecycle serialises the start sequence with Close.
	lifecycle sync.Mutex

	mu      sync.Mutex
	cfg     Config
	state   State
	started bool
	closed  bool
	failure error
	format  audio.Format
	info    *tune.Info
	cancel  context.CancelFunc
	running bool
	result  error

	prog *program
	sess *session
	pos  position

	eos       sync.Once
	done      chan struct{}
	doneOnce  sync.Once
	closeOnce sync.Once
	closeErr  error
}

// New returns an idle Decoder rendering through driver and pushing to
// pad.
func New(driver engine.Driver, pad Pad, opts ...Option) (*Decoder, error) {
	if driver == nil || pad == nil {
		return nil, errors.New("element: driver and pad are required")
	}

	d := &Decoder{
		driver:   driver,
		pad:      pad,
		log:      slog.Default(),
		cfg:      DefaultConfig(),
		capacity: tune.MaxFileLen,
		id:       uuid.New(),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}

	if err := d.cfg.Validate(); err != nil {
		return nil, err
	}
	if d.capacity <= 0 {
		return nil, fmt.Errorf("element: capacity %d must be positive", d.capacity)
	}

	d.log = d.log.With("component", "siddec", "session", d.id.String())
	d.prog = newProgram(d.capacity)
	return d, nil
}

// ID identifies the decoder in log records.
func (d *Decoder) ID() uuid.UUID { return d.id }

func (d *Decoder) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.state
}

func (d *Decoder) setState(s State) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.state = s
}

// Format returns the negotiated output format, valid once running.
func (d *Decoder) Format() audio.Format {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.format
}

// Chain appends a chunk of the tune. Chunks are kept in call order. A
// chunk that would exceed the capacity fails the decoder; the chunk is
// not stored and every later call returns the same error.
func (d *Decoder) Chain(data []byte) error {
	d.mu.Lock()
	switch {
	case d.failure != nil:
		defer d.mu.Unlock()
		return d.failure
	case d.closed:
		d.mu.Unlock()
		return ErrClosed
	case d.started:
		d.mu.Unlock()
		return ErrEndOfInput
	}

	err := d.prog.append(data)
	if err == nil {
		d.mu.Unlock()
		return nil
	}

	e := newError(KindOverflow, fmt.Sprintf("tune larger than %d bytes", d.prog.capacity()), d.prog.len()+len(data), err)
	d.failLocked(e)
	d.mu.Unlock()

	d.report(e)
	return e
}

// EndOfStream marks the tune complete, loads it and starts production.
// ctx bounds the start sequence and the production goroutine.
func (d *Decoder) EndOfStream(ctx context.Context) error {
	d.mu.Lock()
	switch {
	case d.failure != nil:
		d.mu.Unlock()
		return d.failure
	case d.closed:
		d.mu.Unlock()
		return ErrClosed
	case d.started:
		d.mu.Unlock()
		return ErrEndOfInput
	}
	d.started = true
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.mu.Unlock()

	d.lifecycle.Lock()
	defer d.lifecycle.Unlock()

	// Close may have released the program while we waited.
	d.mu.Lock()
	closed := d.closed
	d.mu.Unlock()
	if closed {
		cancel()
		return ErrClosed
	}

	s, err := d.start(ctx)
	if err != nil {
		cancel()
		var e *Error
		if errors.As(err, &e) {
			d.fail(e)
		} else {
			d.finish(err)
		}
		return err
	}

	d.mu.Lock()
	d.running = true
	d.state = StateRunning
	d.mu.Unlock()

	go func() {
		d.finish(d.loop(ctx, s))
	}()
	return nil
}

// Done is closed when the decoder stops producing for any reason.
func (d *Decoder) Done() <-chan struct{} { return d.done }

// Wait blocks until production ends and returns why it ended: nil when
// the song or downstream finished, an *Error on failure, ErrFlushing or
// a context error when paused.
func (d *Decoder) Wait(ctx context.Context) error {
	select {
	case <-d.done:
	case <-ctx.Done():
		return ctx.Err()
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	return d.result
}

// Position reports how much has been produced, in unit.
func (d *Decoder) Position(unit audio.Unit) (int64, error) {
	f := d.Format()
	v, err := f.Convert(audio.Bytes, d.pos.load(), unit)
	if err != nil {
		return 0, fmt.Errorf("%w: position in %s: %w", ErrQueryUnsupported, unit, err)
	}
	return v, nil
}

// Duration reports the length of the stream. Song lengths are not known
// in advance, so it always fails with ErrQueryUnsupported.
func (d *Decoder) Duration(unit audio.Unit) (int64, error) {
	return 0, fmt.Errorf("%w: duration in %s", ErrQueryUnsupported, unit)
}

// Set changes a property. Properties are fixed once EndOfStream has been
// called.
func (d *Decoder) Set(name string, value any) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if name != PropMetadata && (d.started || d.closed) {
		return fmt.Errorf("%w: %s", ErrPropertyLocked, name)
	}
	return d.cfg.Set(name, value)
}

// Get reads a property. PropMetadata returns the tune.Info of the loaded
// tune, or nil before one is loaded.
func (d *Decoder) Get(name string) (any, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if name == PropMetadata {
		if d.info == nil {
			return nil, nil
		}
		return *d.info, nil
	}
	return d.cfg.Get(name)
}

// Config returns a copy of the current configuration.
func (d *Decoder) Config() Config {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.cfg
}

// Close stops production and releases the engine, its backend and the
// program buffer. It is safe to call more than once.
func (d *Decoder) Close() error {
	d.closeOnce.Do(func() {
		d.mu.Lock()
		d.closed = true
		cancel := d.cancel
		running := d.running
		d.mu.Unlock()

		if cancel != nil {
			cancel()
		}

		d.lifecycle.Lock()
		defer d.lifecycle.Unlock()

		d.mu.Lock()
		running = running || d.running
		d.mu.Unlock()
		if running {
			<-d.done
		}

		if d.sess != nil {
			d.closeErr = d.sess.release(d.log)
		}

		d.mu.Lock()
		d.prog.release()
		d.mu.Unlock()

		d.finish(ErrClosed)
		d.log.Debug("decoder closed")
	})
	return d.closeErr
}

// fail records a session failure, reports it and ends the decoder.
func (d *Decoder) fail(e *Error) {
	d.mu.Lock()
	d.failLocked(e)
	d.mu.Unlock()

	d.report(e)
}

func (d *Decoder) failLocked(e *Error) {
	d.failure = e
	d.finishLocked(e)
}

func (d *Decoder) report(e *Error) {
	if e.Kind == KindNotLinked {
		d.log.Info("streaming stopped", "reason", e.Error())
		return
	}
	d.log.Error("decoding failed", "kind", e.Kind.String(), "error", e.Error())
	if d.onError != nil {
		d.onError(e)
	}
}

func (d *Decoder) finish(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.finishLocked(err)
}

// finishLocked settles the outcome once and wakes up Wait.
func (d *Decoder) finishLocked(err error) {
	d.doneOnce.Do(func() {
		d.result = err
		var e *Error
		if errors.As(err, &e) {
			d.state = StateFailed
		} else {
			d.state = StateTerminated
		}
		close(d.done)
	})
}
