// SPDX-License-Identifier: EPL-2.0

package playback

import "errors"

var (
	ErrAlreadyOpen = errors.New("playback sink already open")

	// ErrFormatMismatch is returned when a second sink asks for a
	// different format. The output device is opened once per process.
	ErrFormatMismatch = errors.New("output device already opened with another format")

	ErrDevice = errors.New("audio device")
)
