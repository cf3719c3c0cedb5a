// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"encoding/binary"
	"fmt"
	"io"
)

// PutInt16s packs samples into dst using order and returns the number of
// bytes written. dst must hold at least 2*len(samples) bytes.
func PutInt16s(dst []byte, samples []int16, order binary.ByteOrder) int {
	for i, s := range samples {
		order.PutUint16(dst[2*i:2*i+2], uint16(s))
	}
	return 2 * len(samples)
}

// Ints unpacks 16-bit samples from src into dst widened to int, the
// representation go-audio buffers use. It returns the number of samples.
func Ints(dst []int, src []byte, order binary.ByteOrder) int {
	n := min(len(dst), len(src)/2)
	for i := range n {
		dst[i] = int(int16(order.Uint16(src[2*i : 2*i+2])))
	}
	return n
}

// WriteSeeker implements io.WriteSeeker for in-memory data, for encoders
// that patch headers after the payload is written.
type WriteSeeker struct {
	data   []byte
	offset int64
}

func (ws *WriteSeeker) Write(p []byte) (int, error) {
	end := ws.offset + int64(len(p))
	if end > int64(len(ws.data)) {
		if end > int64(cap(ws.data)) {
			grown := make([]byte, end, max(end, 2*int64(cap(ws.data))))
			copy(grown, ws.data)
			ws.data = grown
		} else {
			ws.data = ws.data[:end]
		}
	}
	copy(ws.data[ws.offset:end], p)
	ws.offset = end
	return len(p), nil
}

func (ws *WriteSeeker) Seek(offset int64, whence int) (int64, error) {
	var newOffset int64
	switch whence {
	case io.SeekStart:
		newOffset = offset
	case io.SeekCurrent:
		newOffset = ws.offset + offset
	case io.SeekEnd:
		newOffset = int64(len(ws.data)) + offset
	default:
		return 0, fmt.Errorf("invalid whence: %d", whence)
	}

	if newOffset < 0 {
		return 0, fmt.Errorf("negative position")
	}

	ws.offset = newOffset
	return newOffset, nil
}

// Bytes returns everything written so far.
func (ws *WriteSeeker) Bytes() []byte { return ws.data }

// WriteTo copies the written data to w.
func (ws *WriteSeeker) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(ws.data)
	if err != nil {
		return int64(n), fmt.Errorf("%w", err)
	}
	return int64(n), nil
}
