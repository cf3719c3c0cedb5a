// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"fmt"
	"strings"

	"github.com/ik5/siddec/audio"
	"github.com/ik5/siddec/tune"
)

// BackendReSIDfp names the floating point reSID synthesis backend.
const BackendReSIDfp = "ReSIDfp"

// Sampling selects how chip output is resampled to the output rate.
type Sampling int

const (
	SamplingInterpolate Sampling = iota
	SamplingResampleInterpolate
)

func (s Sampling) String() string {
	switch s {
	case SamplingInterpolate:
		return "interpolate"
	case SamplingResampleInterpolate:
		return "resample-interpolate"
	}
	return fmt.Sprintf("Sampling(%d)", int(s))
}

// ParseSampling parses the String form of a Sampling, ignoring case.
func ParseSampling(s string) (Sampling, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "interpolate":
		return SamplingInterpolate, nil
	case "resample-interpolate", "resample":
		return SamplingResampleInterpolate, nil
	}
	return 0, fmt.Errorf("%w: sampling %q", ErrInvalidConfig, s)
}

// Config is everything an engine needs before a tune is loaded.
type Config struct {
	// Format is the negotiated output format.
	Format audio.Format
	// Backend synthesises the SID chips.
	Backend Backend

	// Clock is used when the tune does not declare one, or always when
	// ForceClock is set.
	Clock      tune.Clock
	ForceClock bool
	// Model is used when the tune does not declare one, or always when
	// ForceModel is set.
	Model      tune.Model
	ForceModel bool

	Filter bool
	// MeasuredVolume scales digi samples to their measured level on
	// real hardware.
	MeasuredVolume bool
	// ForceSpeed plays every song at the clock's VBI rate regardless of
	// the tune's speed flags.
	ForceSpeed bool

	Sampling     Sampling
	FastSampling bool
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Format:         audio.Format{Rate: audio.DefaultRate, Channels: audio.DefaultChannels},
		Clock:          tune.ClockPAL,
		Model:          tune.Model6581,
		Filter:         true,
		MeasuredVolume: true,
		Sampling:       SamplingInterpolate,
	}
}

// Validate checks c for use with Engine.Configure.
func (c Config) Validate() error {
	if err := c.Format.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Backend == nil {
		return fmt.Errorf("%w: no backend", ErrInvalidConfig)
	}
	if c.Clock < tune.ClockUnknown || c.Clock > tune.ClockAny {
		return fmt.Errorf("%w: clock %v", ErrInvalidConfig, c.Clock)
	}
	if c.Model < tune.ModelUnknown || c.Model > tune.ModelAny {
		return fmt.Errorf("%w: model %v", ErrInvalidConfig, c.Model)
	}
	if c.Sampling != SamplingInterpolate && c.Sampling != SamplingResampleInterpolate {
		return fmt.Errorf("%w: sampling %v", ErrInvalidConfig, c.Sampling)
	}
	return nil
}

// Backend is a pool of emulated SID chips an engine renders through.
type Backend interface {
	Name() string
	// Chips returns how many chips the backend was created with.
	Chips() int
	Close() error
}

// Engine emulates a C64 running a tune.
//
// Configure must succeed before Load, and Load before Render or Skip.
// Release an engine with Stop, Unload, closing its backend and finally
// Close, in that order.
type Engine interface {
	Configure(cfg Config) error
	// Load prepares t at its currently selected song.
	Load(t *tune.Tune) error
	Unload()

	// Render fills dst with interleaved samples in the configured format
	// and returns the number of sample-frames written. Fewer frames than
	// dst holds means the program has ended.
	Render(dst []int16) int
	// Skip advances emulation by frames sample-frames without output.
	Skip(frames int64) error
	Stop()

	// Error describes the last failure.
	Error() string
	Close() error
}

// Driver creates engines and the backends they render through.
type Driver interface {
	Name() string
	NewEngine() (Engine, error)
	NewBackend(name string, chips int) (Backend, error)
}
