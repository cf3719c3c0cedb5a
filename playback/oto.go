// SPDX-License-Identifier: EPL-2.0

//go:build !headless

package playback

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/ik5/siddec/audio"
)

// drainPoll is how often Drain checks whether the player went idle.
const drainPoll = 10 * time.Millisecond

// oto allows a single context per process.
var (
	otoOnce   sync.Once
	otoCtx    *oto.Context
	otoFormat audio.Format
	otoErr    error
)

func otoContext(f audio.Format, latency time.Duration) (*oto.Context, error) {
	otoOnce.Do(func() {
		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   f.Rate,
			ChannelCount: f.Channels,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   latency,
		})
		if err != nil {
			otoErr = err
			return
		}
		<-ready
		otoCtx = ctx
		otoFormat = f
	})
	if otoErr != nil {
		return nil, otoErr
	}
	if otoFormat != f {
		return nil, fmt.Errorf("%w: have %s, want %s", ErrFormatMismatch, otoFormat, f)
	}
	return otoCtx, nil
}

type otoDevice struct {
	ctx    *oto.Context
	mu     sync.Mutex
	player *oto.Player
}

func openDevice(f audio.Format, latency time.Duration) (device, error) {
	ctx, err := otoContext(f, latency)
	if err != nil {
		return nil, err
	}
	return &otoDevice{ctx: ctx}, nil
}

func (d *otoDevice) Play(r io.Reader) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.player = d.ctx.NewPlayer(r)
	d.player.Play()
}

func (d *otoDevice) Drain() {
	d.mu.Lock()
	p := d.player
	d.mu.Unlock()
	if p == nil {
		return
	}

	ticker := time.NewTicker(drainPoll)
	defer ticker.Stop()
	for p.IsPlaying() {
		<-ticker.C
	}
}

func (d *otoDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.player == nil {
		return nil
	}
	err := d.player.Close()
	d.player = nil
	return err
}
