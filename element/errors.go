// SPDX-License-Identifier: EPL-2.0

package element

import (
	"errors"
	"fmt"
	"strings"
)

// Flow results a Pad returns from AllocBuffer, Push and PushEvent.
var (
	// ErrFlowEOS means downstream wants no more data.
	ErrFlowEOS = errors.New("downstream reached end of stream")
	// ErrNotLinked means nothing consumes the pad.
	ErrNotLinked = errors.New("pad is not linked")
	// ErrFlushing means downstream is discarding data.
	ErrFlushing = errors.New("pad is flushing")
)

// Failure classes carried by Error.
var (
	ErrOverflow   = errors.New("tune exceeds input capacity")
	ErrNoFormat   = errors.New("could not negotiate format")
	ErrLoadTune   = errors.New("could not load tune")
	ErrConfig     = errors.New("could not set engine config")
	ErrEngineLoad = errors.New("could not load tune into engine")
	ErrAllocation = errors.New("could not allocate output buffer")
	ErrPush       = errors.New("downstream rejected buffer")
)

var (
	ErrEndOfInput       = errors.New("input already ended")
	ErrClosed           = errors.New("decoder is closed")
	ErrQueryUnsupported = errors.New("query not supported")

	ErrPropertyUnknown  = errors.New("unknown property")
	ErrPropertyRange    = errors.New("property value out of range")
	ErrPropertyType     = errors.New("wrong property value type")
	ErrPropertyReadOnly = errors.New("property is read-only")
	ErrPropertyLocked   = errors.New("properties cannot change once decoding started")
)

// Kind classifies a decoder failure.
type Kind int

const (
	KindOverflow Kind = iota + 1
	KindNoFormat
	KindLoadTune
	KindConfig
	KindEngineLoad
	KindAllocation
	KindPush
	KindNotLinked
)

var kindNames = map[Kind]string{
	KindOverflow:   "overflow",
	KindNoFormat:   "no-format",
	KindLoadTune:   "load-tune",
	KindConfig:     "config",
	KindEngineLoad: "engine-load",
	KindAllocation: "allocation",
	KindPush:       "push",
	KindNotLinked:  "not-linked",
}

var kindErrors = map[Kind]error{
	KindOverflow:   ErrOverflow,
	KindNoFormat:   ErrNoFormat,
	KindLoadTune:   ErrLoadTune,
	KindConfig:     ErrConfig,
	KindEngineLoad: ErrEngineLoad,
	KindAllocation: ErrAllocation,
	KindPush:       ErrPush,
	KindNotLinked:  ErrNotLinked,
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is a failure of a decoding session. It matches the sentinel of
// its Kind with errors.Is, as well as the underlying cause.
type Error struct {
	Kind Kind
	// Detail is a diagnostic from the tune parser, the engine or
	// downstream.
	Detail string
	// Size is the length in bytes of the program when the failure
	// concerns it.
	Size int
	Err  error
}

func (e *Error) Error() string {
	var b strings.Builder
	if sentinel, ok := kindErrors[e.Kind]; ok {
		b.WriteString(sentinel.Error())
	} else {
		b.WriteString(e.Kind.String())
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	switch e.Kind {
	case KindOverflow, KindLoadTune, KindEngineLoad:
		fmt.Fprintf(&b, " (Size: %d)", e.Size)
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if sentinel, ok := kindErrors[e.Kind]; ok {
		errs = append(errs, sentinel)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func newError(kind Kind, detail string, size int, err error) *Error {
	return &Error{Kind: kind, Detail: detail, Size: size, Err: err}
}
