// SPDX-License-Identifier: EPL-2.0

package element

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/ik5/siddec/audio"
	"github.com/ik5/siddec/utils"
)

// loop renders and pushes one block per iteration until the song ends,
// downstream stops taking data or ctx is done.
func (d *Decoder) loop(ctx context.Context, s *session) error {
	d.mu.Lock()
	format := d.format
	blocksize := d.cfg.BlockSize
	d.mu.Unlock()

	bpf := format.BytesPerFrame()
	requested := blocksize / bpf
	scratch := make([]int16, requested*format.Channels)

	for {
		if err := ctx.Err(); err != nil {
			return d.pause(err)
		}

		buf, err := d.pad.AllocBuffer(ctx, blocksize)
		if err != nil {
			return d.flow(ctx, KindAllocation, err)
		}

		played := s.engine.Render(scratch)
		n := played * bpf
		if len(buf.Data) < n {
			err := fmt.Errorf("buffer of %d bytes, need %d", len(buf.Data), n)
			return d.flow(ctx, KindAllocation, err)
		}
		buf.Data = buf.Data[:n]
		utils.PutInt16s(buf.Data, scratch[:played*format.Channels], binary.NativeEndian)

		if err := d.stamp(format, buf, int64(n)); err != nil {
			return d.flow(ctx, KindPush, err)
		}

		if err := d.pad.Push(ctx, buf); err != nil {
			return d.flow(ctx, KindPush, err)
		}

		if played < requested {
			d.log.Debug("song ended", "frames", buf.OffsetEnd)
			d.endOfStream(ctx)
			return nil
		}
	}
}

// stamp sets the offsets and times of b from the running byte position
// and advances it by n bytes.
func (d *Decoder) stamp(f audio.Format, b *audio.Buffer, n int64) error {
	start := d.pos.load()
	offset, err := f.Convert(audio.Bytes, start, audio.Frames)
	if err != nil {
		return err
	}
	ts, err := f.Convert(audio.Bytes, start, audio.Time)
	if err != nil {
		return err
	}

	end := d.pos.add(n)
	offsetEnd, err := f.Convert(audio.Bytes, end, audio.Frames)
	if err != nil {
		return err
	}
	endTs, err := f.Convert(audio.Bytes, end, audio.Time)
	if err != nil {
		return err
	}

	b.Offset = offset
	b.OffsetEnd = offsetEnd
	b.Timestamp = time.Duration(ts)
	b.Duration = time.Duration(endTs - ts)
	return nil
}

// flow ends the loop for an error from downstream.
func (d *Decoder) flow(ctx context.Context, kind Kind, err error) error {
	switch {
	case errors.Is(err, ErrFlowEOS):
		d.log.Debug("downstream finished")
		d.endOfStream(ctx)
		return nil
	case errors.Is(err, ErrNotLinked):
		e := newError(KindNotLinked, "streaming task paused", 0, err)
		d.report(e)
		d.endOfStream(ctx)
		return e
	case errors.Is(err, ErrFlushing), ctx.Err() != nil:
		return d.pause(err)
	}

	e := newError(kind, fmt.Sprintf("streaming task paused: %v", err), 0, err)
	d.report(e)
	d.endOfStream(ctx)
	return e
}

func (d *Decoder) pause(reason error) error {
	d.log.Info("pausing task", "reason", reason)
	return reason
}

// endOfStream pushes the single EOS event of the session.
func (d *Decoder) endOfStream(ctx context.Context) {
	d.eos.Do(func() {
		if err := d.pad.PushEvent(ctx, audio.EOSEvent{}); err != nil {
			d.log.Debug("eos not delivered", "error", err)
		}
	})
}
