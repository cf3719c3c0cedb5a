// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	ErrAlreadyOpen = errors.New("WAV sink already open")
	ErrWriteWAV    = errors.New("writing WAV")
)
