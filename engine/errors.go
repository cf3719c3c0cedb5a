// SPDX-License-Identifier: EPL-2.0

package engine

import "errors"

var (
	ErrInvalidConfig  = errors.New("invalid engine configuration")
	ErrNotConfigured  = errors.New("engine is not configured")
	ErrNotLoaded      = errors.New("no tune loaded")
	ErrUnknownBackend = errors.New("unknown synthesis backend")
	ErrUnknownDriver  = errors.New("unknown engine driver")
	ErrClosed         = errors.New("engine is closed")
)
