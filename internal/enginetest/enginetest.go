// SPDX-License-Identifier: EPL-2.0

// Package enginetest provides a scriptable engine driver for tests.
package enginetest

import (
	"errors"
	"math"
	"slices"
	"sync"

	"github.com/ik5/siddec/engine"
	"github.com/ik5/siddec/tune"
	"github.com/ik5/siddec/utils"
)

// Driver is a fake engine.Driver. Its fields script the engines it
// creates and must be set before use. Every lifecycle call made on the
// driver, its engines and its backends is recorded in order.
type Driver struct {
	// Frames is the number of sample-frames each loaded song renders.
	// Skip does not consume them.
	Frames int64
	// Waveform returns the sample for a frame and channel. Nil renders
	// silence.
	Waveform func(frame, channel int) float32

	// NilBackend makes NewBackend return no backend and no error.
	NilBackend   bool
	BackendErr   error
	ConfigureErr error
	LoadErr      error
	// ErrorString is reported by Engine.Error after a failure.
	ErrorString string

	mu      sync.Mutex
	calls   []string
	configs []engine.Config
	skipped int64
	renders int
}

// NewSilentDriver returns a driver rendering frames of silence per song.
func NewSilentDriver(frames int64) *Driver {
	return &Driver{Frames: frames}
}

// NewSineDriver returns a driver rendering a sine wave at frequency for
// a stream at sampleRate.
func NewSineDriver(frames int64, sampleRate int, frequency float64) *Driver {
	return &Driver{
		Frames: frames,
		Waveform: func(frame, _ int) float32 {
			t := float64(frame) / float64(sampleRate)
			return float32(math.Sin(2 * math.Pi * frequency * t))
		},
	}
}

func (d *Driver) record(call string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.calls = append(d.calls, call)
}

// Calls returns the recorded lifecycle calls, e.g. "Configure", "Load",
// "Backend.Close".
func (d *Driver) Calls() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	return slices.Clone(d.calls)
}

// Called reports whether call was recorded.
func (d *Driver) Called(call string) bool {
	return slices.Contains(d.Calls(), call)
}

// Configs returns every configuration passed to Configure.
func (d *Driver) Configs() []engine.Config {
	d.mu.Lock()
	defer d.mu.Unlock()

	return slices.Clone(d.configs)
}

// Skipped returns the total frames passed to Skip.
func (d *Driver) Skipped() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.skipped
}

// Renders returns how many times Render was called.
func (d *Driver) Renders() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.renders
}

func (d *Driver) Name() string { return "enginetest" }

func (d *Driver) NewEngine() (engine.Engine, error) {
	d.record("NewEngine")
	return &Engine{d: d}, nil
}

func (d *Driver) NewBackend(name string, chips int) (engine.Backend, error) {
	d.record("NewBackend")
	if d.BackendErr != nil {
		return nil, d.BackendErr
	}
	if d.NilBackend {
		return nil, nil
	}
	return &Backend{d: d, name: name, chips: chips}, nil
}

type Backend struct {
	d     *Driver
	name  string
	chips int
}

func (b *Backend) Name() string { return b.name }
func (b *Backend) Chips() int   { return b.chips }

func (b *Backend) Close() error {
	b.d.record("Backend.Close")
	return nil
}

// Engine renders the driver's waveform.
type Engine struct {
	d *Driver

	channels int
	loaded   *tune.Tune
	rendered int64
	scratch  []float32
	lastErr  string
}

func (e *Engine) fail(err error) error {
	e.lastErr = e.d.ErrorString
	if e.lastErr == "" {
		e.lastErr = err.Error()
	}
	return err
}

func (e *Engine) Configure(cfg engine.Config) error {
	e.d.record("Configure")
	e.d.mu.Lock()
	e.d.configs = append(e.d.configs, cfg)
	e.d.mu.Unlock()

	if e.d.ConfigureErr != nil {
		return e.fail(e.d.ConfigureErr)
	}
	e.channels = cfg.Format.Channels
	return nil
}

func (e *Engine) Load(t *tune.Tune) error {
	e.d.record("Load")
	if e.d.LoadErr != nil {
		return e.fail(e.d.LoadErr)
	}
	if e.channels == 0 {
		return e.fail(errors.New("load before configure"))
	}
	e.loaded = t
	e.rendered = 0
	return nil
}

func (e *Engine) Unload() {
	e.d.record("Unload")
	e.loaded = nil
}

func (e *Engine) Render(dst []int16) int {
	e.d.mu.Lock()
	e.d.renders++
	e.d.mu.Unlock()

	if e.loaded == nil {
		return 0
	}

	frames := int(min(int64(len(dst)/e.channels), e.d.Frames-e.rendered))
	samples := frames * e.channels
	if cap(e.scratch) < samples {
		e.scratch = make([]float32, samples)
	}
	src := e.scratch[:samples]
	for f := range frames {
		for ch := range e.channels {
			var v float32
			if e.d.Waveform != nil {
				v = e.d.Waveform(int(e.rendered)+f, ch)
			}
			src[f*e.channels+ch] = v
		}
	}
	utils.Float32sToInt16s(dst, src)

	e.rendered += int64(frames)
	return frames
}

func (e *Engine) Skip(frames int64) error {
	e.d.record("Skip")
	if e.loaded == nil {
		return e.fail(engine.ErrNotLoaded)
	}
	e.d.mu.Lock()
	e.d.skipped += frames
	e.d.mu.Unlock()
	return nil
}

func (e *Engine) Stop() { e.d.record("Stop") }

func (e *Engine) Error() string { return e.lastErr }

func (e *Engine) Close() error {
	e.d.record("Close")
	return nil
}
