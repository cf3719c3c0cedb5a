// SPDX-License-Identifier: EPL-2.0

package element

import "sync/atomic"

// position counts the bytes produced since playback started. Queries read
// it while the production loop advances it.
type position struct {
	bytes atomic.Int64
}

func (p *position) reset()            { p.bytes.Store(0) }
func (p *position) load() int64       { return p.bytes.Load() }
func (p *position) add(n int64) int64 { return p.bytes.Add(n) }
