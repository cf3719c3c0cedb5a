// SPDX-License-Identifier: EPL-2.0

package element

import (
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/ik5/siddec/audio"
	"github.com/ik5/siddec/engine"
	"github.com/ik5/siddec/tune"
)

// Property names accepted by Config.Set and Decoder.Set.
const (
	PropTune           = "tune"
	PropBlockSize      = "blocksize"
	PropClock          = "clock"
	PropFilter         = "filter"
	PropMeasuredVolume = "measured-volume"
	PropMOS8580        = "mos8580"
	PropForceSpeed     = "force-speed"
	// PropForceClock applies PropClock even to tunes that declare a
	// clock of their own.
	PropForceClock   = "force-clock"
	PropSampling     = "sampling"
	PropFastSampling = "fast-sampling"
	// PropMetadata is read-only. A Decoder reports the loaded tune's
	// tune.Info under it.
	PropMetadata = "metadata"
)

const (
	MinTune = 0
	MaxTune = 100

	MinBlockSize     = 1024
	MaxBlockSize     = 65536
	DefaultBlockSize = 8192
)

// WarmupInterval is emulated before the first buffer to skip the
// transients of the tune's init routine.
const WarmupInterval = 100 * time.Millisecond

// Config holds the construction-time parameters of a Decoder.
type Config struct {
	// Tune is the sub-tune to play. 0 selects the tune's start song.
	Tune int
	// BlockSize is the size in bytes of each output buffer.
	BlockSize int
	// Clock is the default video standard.
	Clock tune.Clock
	Filter bool
	// MeasuredVolume plays digi samples at their measured level.
	MeasuredVolume bool
	// MOS8580 emulates the 8580 chip instead of the 6581.
	MOS8580    bool
	ForceSpeed bool
	// ForceClock overrides the clock the tune declares with Clock.
	ForceClock bool
	// Sampling is how chip output is resampled to the output rate.
	Sampling     engine.Sampling
	FastSampling bool
	// Backend names the synthesis backend requested from the driver.
	Backend string
}

func DefaultConfig() Config {
	return Config{
		Tune:           0,
		BlockSize:      DefaultBlockSize,
		Clock:          tune.ClockPAL,
		Filter:         true,
		MeasuredVolume: true,
		MOS8580:        false,
		ForceSpeed:     false,
		ForceClock:     false,
		Sampling:       engine.SamplingInterpolate,
		FastSampling:   false,
		Backend:        engine.BackendReSIDfp,
	}
}

// Properties returns the property names in a stable order.
func Properties() []string {
	return []string{PropTune, PropBlockSize, PropClock, PropFilter, PropMeasuredVolume, PropMOS8580, PropForceSpeed,
		PropForceClock, PropSampling, PropFastSampling, PropMetadata}
}

// Validate checks every field against its allowed range.
func (c Config) Validate() error {
	if c.Tune < MinTune || c.Tune > MaxTune {
		return fmt.Errorf("%w: %s %d outside [%d,%d]", ErrPropertyRange, PropTune, c.Tune, MinTune, MaxTune)
	}
	if c.BlockSize < MinBlockSize || c.BlockSize > MaxBlockSize {
		return fmt.Errorf("%w: %s %d outside [%d,%d]", ErrPropertyRange, PropBlockSize, c.BlockSize, MinBlockSize, MaxBlockSize)
	}
	if !slices.Contains([]tune.Clock{tune.ClockPAL, tune.ClockNTSC, tune.ClockAny}, c.Clock) {
		return fmt.Errorf("%w: %s %v", ErrPropertyRange, PropClock, c.Clock)
	}
	if c.Sampling != engine.SamplingInterpolate && c.Sampling != engine.SamplingResampleInterpolate {
		return fmt.Errorf("%w: %s %v", ErrPropertyRange, PropSampling, c.Sampling)
	}
	if c.Backend == "" {
		return fmt.Errorf("%w: empty backend name", ErrPropertyRange)
	}
	return nil
}

// Set assigns a property from a typed value or its string form.
func (c *Config) Set(name string, value any) error {
	switch name {
	case PropTune:
		n, err := intValue(name, value)
		if err != nil {
			return err
		}
		if n < MinTune || n > MaxTune {
			return fmt.Errorf("%w: %s %d outside [%d,%d]", ErrPropertyRange, name, n, MinTune, MaxTune)
		}
		c.Tune = n
	case PropBlockSize:
		n, err := intValue(name, value)
		if err != nil {
			return err
		}
		if n < MinBlockSize || n > MaxBlockSize {
			return fmt.Errorf("%w: %s %d outside [%d,%d]", ErrPropertyRange, name, n, MinBlockSize, MaxBlockSize)
		}
		c.BlockSize = n
	case PropClock:
		switch v := value.(type) {
		case tune.Clock:
			if v < tune.ClockPAL || v > tune.ClockAny {
				return fmt.Errorf("%w: %s %v", ErrPropertyRange, name, v)
			}
			c.Clock = v
		case string:
			clock, err := tune.ParseClock(v)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrPropertyRange, err)
			}
			c.Clock = clock
		default:
			return fmt.Errorf("%w: %s takes a clock, got %T", ErrPropertyType, name, value)
		}
	case PropFilter:
		return setBool(&c.Filter, name, value)
	case PropMeasuredVolume:
		return setBool(&c.MeasuredVolume, name, value)
	case PropMOS8580:
		return setBool(&c.MOS8580, name, value)
	case PropForceSpeed:
		return setBool(&c.ForceSpeed, name, value)
	case PropForceClock:
		return setBool(&c.ForceClock, name, value)
	case PropSampling:
		switch v := value.(type) {
		case engine.Sampling:
			if v != engine.SamplingInterpolate && v != engine.SamplingResampleInterpolate {
				return fmt.Errorf("%w: %s %v", ErrPropertyRange, name, v)
			}
			c.Sampling = v
		case string:
			sampling, err := engine.ParseSampling(v)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrPropertyRange, err)
			}
			c.Sampling = sampling
		default:
			return fmt.Errorf("%w: %s takes a sampling method, got %T", ErrPropertyType, name, value)
		}
	case PropFastSampling:
		return setBool(&c.FastSampling, name, value)
	case PropMetadata:
		return fmt.Errorf("%w: %s", ErrPropertyReadOnly, name)
	default:
		return fmt.Errorf("%w: %q", ErrPropertyUnknown, name)
	}
	return nil
}

// Get returns a property as the value Set stored. PropMetadata has no
// value outside a running Decoder and reads as nil.
func (c Config) Get(name string) (any, error) {
	switch name {
	case PropTune:
		return c.Tune, nil
	case PropBlockSize:
		return c.BlockSize, nil
	case PropClock:
		return c.Clock, nil
	case PropFilter:
		return c.Filter, nil
	case PropMeasuredVolume:
		return c.MeasuredVolume, nil
	case PropMOS8580:
		return c.MOS8580, nil
	case PropForceSpeed:
		return c.ForceSpeed, nil
	case PropForceClock:
		return c.ForceClock, nil
	case PropSampling:
		return c.Sampling, nil
	case PropFastSampling:
		return c.FastSampling, nil
	case PropMetadata:
		return nil, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrPropertyUnknown, name)
}

// engineConfig maps c onto the engine for format f rendering through b.
func (c Config) engineConfig(f audio.Format, b engine.Backend) engine.Config {
	cfg := engine.DefaultConfig()
	cfg.Format = f
	cfg.Backend = b
	cfg.Clock = c.Clock
	cfg.Filter = c.Filter
	cfg.MeasuredVolume = c.MeasuredVolume
	cfg.ForceSpeed = c.ForceSpeed
	cfg.ForceClock = c.ForceClock
	cfg.Sampling = c.Sampling
	cfg.FastSampling = c.FastSampling
	if c.MOS8580 {
		cfg.Model = tune.Model8580
		cfg.ForceModel = true
	} else {
		cfg.Model = tune.Model6581
	}
	return cfg
}

func intValue(name string, value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case uint:
		return int(v), nil
	case uint32:
		return int(v), nil
	case uint64:
		return int(v), nil
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %w", ErrPropertyType, name, err)
		}
		return n, nil
	}
	return 0, fmt.Errorf("%w: %s takes an integer, got %T", ErrPropertyType, name, value)
}

func setBool(dst *bool, name string, value any) error {
	switch v := value.(type) {
	case bool:
		*dst = v
	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrPropertyType, name, err)
		}
		*dst = b
	default:
		return fmt.Errorf("%w: %s takes a bool, got %T", ErrPropertyType, name, value)
	}
	return nil
}
