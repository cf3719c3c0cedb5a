// SPDX-License-Identifier: EPL-2.0

package aiff

import "errors"

var (
	// ErrAlreadyOpen is returned when Open is called twice on a sink.
	ErrAlreadyOpen = errors.New("AIFF sink already open")

	// ErrWriteAIFF wraps failures from the underlying encoder.
	ErrWriteAIFF = errors.New("writing AIFF")
)
