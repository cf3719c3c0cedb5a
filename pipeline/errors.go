// SPDX-License-Identifier: EPL-2.0

package pipeline

import "errors"

// ErrSink wraps failures reported by the sink being fed.
var ErrSink = errors.New("sink failed")
