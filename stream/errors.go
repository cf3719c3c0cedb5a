// SPDX-License-Identifier: EPL-2.0

package stream

import "errors"

var (
	ErrBadFrame = errors.New("malformed stream frame")
	ErrAlreadyOpen = errors.New("stream sink already open")
)
