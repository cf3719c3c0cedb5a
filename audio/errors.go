// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidFormat         = errors.New("invalid sample format")
	ErrUnsupportedConversion = errors.New("unsupported unit conversion")
	ErrSinkNotOpen           = errors.New("sink is not open")
	ErrSinkClosed            = errors.New("sink is closed")
)
