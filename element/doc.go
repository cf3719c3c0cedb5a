// SPDX-License-Identifier: EPL-2.0

// Package element implements a streaming SID decoder.
//
// A Decoder collects a tune delivered in arbitrary chunks, then on end of
// input parses it, negotiates an output format with downstream, loads
// the tune into an emulation engine and runs a production goroutine that
// pushes timestamped PCM buffers to a Pad.
//
// # Lifecycle
//
//	d, err := element.New(driver, pad)
//	for chunk := range chunks {
//	    if err := d.Chain(chunk); err != nil {
//	        return err
//	    }
//	}
//	if err := d.EndOfStream(ctx); err != nil {
//	    return err
//	}
//	err = d.Wait(ctx)
//	d.Close()
//
// Before pushing any buffer the decoder sends a TagEvent with the tune's
// title, author and release line when it has any, and a SegmentEvent
// starting at zero with no known end. After the last buffer it sends one
// EOSEvent.
//
// # Positions
//
// Buffer offsets and timestamps derive from the count of bytes produced
// and the negotiated format. Offsets are in sample-frames, times are
// rounded down to the nanosecond and each Duration is the difference of
// the rounded end and start times, so timestamps never drift.
//
// # Errors
//
// Failures are *Error values classified by Kind. Failures before the
// first buffer end the session; failures in the production loop end it
// with an EOSEvent. A flushing pad or a cancelled context only pauses
// production.
package element
