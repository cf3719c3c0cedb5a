// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"math"
	"math/bits"
	"time"
)

// TimeUnit is the number of time units in one second. Time values are
// nanoseconds so they convert directly to time.Duration.
const TimeUnit = int64(time.Second)

// Unit is a unit in which stream positions can be expressed.
type Unit int

const (
	Bytes Unit = iota + 1
	// Frames counts sample-frames: one sample for every channel.
	Frames
	// Time is expressed in nanoseconds.
	Time
)

func (u Unit) String() string {
	switch u {
	case Bytes:
		return "bytes"
	case Frames:
		return "frames"
	case Time:
		return "time"
	}
	return fmt.Sprintf("Unit(%d)", int(u))
}

// Convert converts v from unit src to unit dst for a stream in format f.
//
// Conversions between bytes, frames and time are exact rational
// conversions computed with 128-bit intermediates and truncated toward
// zero. Converting a unit to itself returns v unchanged.
func (f Format) Convert(src Unit, v int64, dst Unit) (int64, error) {
	if src == dst {
		return v, nil
	}

	bpf := int64(f.BytesPerFrame())
	rate := int64(f.Rate)
	if bpf <= 0 || rate <= 0 {
		return 0, fmt.Errorf("%w: %s to %s with %s", ErrUnsupportedConversion, src, dst, f)
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: negative %s value %d", ErrUnsupportedConversion, src, v)
	}

	switch src {
	case Bytes:
		switch dst {
		case Frames:
			return v / bpf, nil
		case Time:
			return scale(v, TimeUnit, bpf*rate)
		}
	case Frames:
		switch dst {
		case Bytes:
			return scale(v, bpf, 1)
		case Time:
			return scale(v, TimeUnit, rate)
		}
	case Time:
		switch dst {
		case Frames:
			return scale(v, rate, TimeUnit)
		case Bytes:
			frames, err := scale(v, rate, TimeUnit)
			if err != nil {
				return 0, err
			}
			return scale(frames, bpf, 1)
		}
	}

	return 0, fmt.Errorf("%w: %s to %s", ErrUnsupportedConversion, src, dst)
}

// Duration returns the playback time of n bytes in format f.
func (f Format) Duration(n int64) time.Duration {
	v, err := f.Convert(Bytes, n, Time)
	if err != nil {
		return 0
	}
	return time.Duration(v)
}

// scale computes v*num/den without intermediate overflow.
func scale(v, num, den int64) (int64, error) {
	if num < 0 || den <= 0 {
		return 0, fmt.Errorf("%w: scale by %d/%d", ErrUnsupportedConversion, num, den)
	}
	hi, lo := bits.Mul64(uint64(v), uint64(num))
	if hi >= uint64(den) {
		return 0, fmt.Errorf("%w: %d*%d/%d overflows", ErrUnsupportedConversion, v, num, den)
	}
	q, _ := bits.Div64(hi, lo, uint64(den))
	if q > math.MaxInt64 {
		return 0, fmt.Errorf("%w: %d*%d/%d overflows", ErrUnsupportedConversion, v, num, den)
	}
	return int64(q), nil
}
