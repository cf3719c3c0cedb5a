// SPDX-License-Identifier: EPL-2.0

package element

import (
	"context"

	"github.com/ik5/siddec/audio"
)

// Pad is the downstream side of a Decoder.
//
// AllocBuffer and Push may block until downstream has room; both must
// return when ctx is done. Flow results are reported with the sentinel
// errors ErrFlowEOS, ErrNotLinked and ErrFlushing; any other error is a
// failure.
type Pad interface {
	// AllowedCaps lists the formats downstream accepts, most preferred
	// first. Nil means nothing is acceptable.
	AllowedCaps(ctx context.Context) []audio.Caps
	// SetFormat announces the negotiated format. It is called once.
	SetFormat(ctx context.Context, f audio.Format) error
	// AllocBuffer returns a buffer whose Data holds at least size bytes.
	AllocBuffer(ctx context.Context, size int) (*audio.Buffer, error)
	Push(ctx context.Context, b *audio.Buffer) error
	PushEvent(ctx context.Context, e audio.Event) error
}
