// SPDX-License-Identifier: EPL-2.0

package element

import "fmt"

// program collects the input stream into a buffer of fixed capacity.
type program struct {
	buf []byte
	n   int
}

func newProgram(capacity int) *program {
	return &program{buf: make([]byte, capacity)}
}

// append adds chunk after the data already held. A chunk that does not
// fit is rejected whole and leaves the program unchanged.
func (p *program) append(chunk []byte) error {
	if len(chunk) > len(p.buf)-p.n {
		return fmt.Errorf("%w: %d+%d bytes, capacity %d", ErrOverflow, p.n, len(chunk), len(p.buf))
	}
	p.n += copy(p.buf[p.n:], chunk)
	return nil
}

func (p *program) bytes() []byte { return p.buf[:p.n] }
func (p *program) len() int      { return p.n }
func (p *program) capacity() int { return len(p.buf) }

func (p *program) release() {
	p.buf = nil
	p.n = 0
}
