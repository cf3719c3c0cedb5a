// SPDX-License-Identifier: EPL-2.0

// Package headless provides an engine driver without an emulation core.
//
// Its engines accept the same configuration and tunes a real engine does
// and render silence for a fixed song length. Use it where the timing of
// a stream matters but its sound does not.
package headless

import (
	"fmt"
	"sync"
	"time"

	"github.com/ik5/siddec/audio"
	"github.com/ik5/siddec/engine"
	"github.com/ik5/siddec/tune"
)

// Name is the driver name used for registration.
const Name = "headless"

// DefaultLength is how long each song plays when no length is set.
const DefaultLength = 3 * time.Minute

// MaxChips is the most SID chips a backend can be created with.
const MaxChips = 3

type Driver struct {
	// Length is the duration of every song. Zero means DefaultLength.
	Length time.Duration
}

// New returns a driver whose songs last length.
func New(length time.Duration) *Driver {
	return &Driver{Length: length}
}

func (d *Driver) Name() string { return Name }

func (d *Driver) NewEngine() (engine.Engine, error) {
	length := d.Length
	if length <= 0 {
		length = DefaultLength
	}
	return &Engine{length: length}, nil
}

func (d *Driver) NewBackend(name string, chips int) (engine.Backend, error) {
	if name != engine.BackendReSIDfp {
		return nil, fmt.Errorf("%w: %q", engine.ErrUnknownBackend, name)
	}
	if chips < 1 || chips > MaxChips {
		return nil, fmt.Errorf("%w: %d chips", engine.ErrInvalidConfig, chips)
	}
	return &Backend{name: name, chips: chips}, nil
}

// Backend is a chip pool that holds no state.
type Backend struct {
	name   string
	chips  int
	closed bool
}

func (b *Backend) Name() string { return b.name }
func (b *Backend) Chips() int   { return b.chips }

func (b *Backend) Close() error {
	b.closed = true
	return nil
}

// Engine renders silence.
type Engine struct {
	length time.Duration

	mu         sync.Mutex
	cfg        engine.Config
	configured bool
	loaded     *tune.Tune
	remaining  int64
	stopped    bool
	closed     bool
	lastErr    string
}

func (e *Engine) fail(err error) error {
	e.lastErr = err.Error()
	return err
}

func (e *Engine) Configure(cfg engine.Config) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return e.fail(engine.ErrClosed)
	}
	if err := cfg.Validate(); err != nil {
		return e.fail(err)
	}
	e.cfg = cfg
	e.configured = true
	return nil
}

func (e *Engine) Load(t *tune.Tune) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch {
	case e.closed:
		return e.fail(engine.ErrClosed)
	case !e.configured:
		return e.fail(engine.ErrNotConfigured)
	case t == nil:
		return e.fail(engine.ErrNotLoaded)
	}
	if need, have := t.Chips(), e.cfg.Backend.Chips(); need > have {
		return e.fail(fmt.Errorf("%w: tune needs %d chips, backend has %d", engine.ErrInvalidConfig, need, have))
	}

	frames, err := e.cfg.Format.Convert(audio.Time, int64(e.length), audio.Frames)
	if err != nil {
		return e.fail(err)
	}

	e.loaded = t
	e.remaining = frames
	e.stopped = false
	e.lastErr = ""
	return nil
}

func (e *Engine) Unload() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.loaded = nil
	e.remaining = 0
}

func (e *Engine) Render(dst []int16) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.loaded == nil || e.stopped {
		return 0
	}
	ch := e.cfg.Format.Channels
	frames := int(min(int64(len(dst)/ch), e.remaining))
	clear(dst[:frames*ch])
	e.remaining -= int64(frames)
	return frames
}

func (e *Engine) Skip(frames int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.loaded == nil {
		return e.fail(engine.ErrNotLoaded)
	}
	if frames < 0 {
		return e.fail(fmt.Errorf("negative skip of %d frames", frames))
	}
	e.remaining -= min(frames, e.remaining)
	return nil
}

func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopped = true
}

func (e *Engine) Error() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.lastErr
}

func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.closed = true
	e.loaded = nil
	return nil
}
