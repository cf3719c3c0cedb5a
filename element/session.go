// SPDX-License-Identifier: EPL-2.0

package element

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ik5/siddec/audio"
	"github.com/ik5/siddec/engine"
	"github.com/ik5/siddec/tune"
)

// session owns the engine handles of one decoding run.
type session struct {
	engine  engine.Engine
	backend engine.Backend
	tune    *tune.Tune
	song    int
	loaded  bool

	once sync.Once
	err  error
}

// release stops the engine and frees it after the tune and backend it
// depends on. Only the first call does any work.
func (s *session) release(log *slog.Logger) error {
	s.once.Do(func() {
		var errs []error
		if s.engine != nil {
			s.engine.Stop()
			if s.loaded {
				s.engine.Unload()
			}
		}
		if s.backend != nil {
			if err := s.backend.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close backend: %w", err))
			}
		}
		if s.engine != nil {
			if err := s.engine.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close engine: %w", err))
			}
		}
		s.err = errors.Join(errs...)
		if s.err != nil {
			log.Warn("releasing engine", "error", s.err)
		}
	})
	return s.err
}

// start runs the sequence from a complete program to a warmed up engine.
// Every failure is an *Error.
func (d *Decoder) start(ctx context.Context) (*session, error) {
	data := d.prog.bytes()
	size := len(data)

	t, err := tune.Parse(data)
	if err != nil {
		return nil, newError(KindLoadTune, err.Error(), size, err)
	}
	d.setState(StateProgramLoaded)
	d.log.Debug("tune parsed", "size", size, "format", t.Header.MagicID, "songs", t.Songs())

	format, err := negotiate(d.pad.AllowedCaps(ctx))
	if err != nil {
		return nil, newError(KindNoFormat, err.Error(), size, err)
	}
	if err := d.pad.SetFormat(ctx, format); err != nil {
		return nil, newError(KindNoFormat, fmt.Sprintf("downstream refused %s", format), size, err)
	}

	d.mu.Lock()
	d.format = format
	cfg := d.cfg
	d.mu.Unlock()

	eng, err := d.driver.NewEngine()
	if err != nil {
		return nil, newError(KindConfig, fmt.Sprintf("create %s engine", d.driver.Name()), size, err)
	}
	s := &session{engine: eng, tune: t}
	d.sess = s

	backend, err := d.driver.NewBackend(cfg.Backend, t.Chips())
	if err != nil {
		return nil, newError(KindConfig, fmt.Sprintf("create %s backend", cfg.Backend), size, err)
	}
	if backend == nil {
		return nil, newError(KindConfig, fmt.Sprintf("no %s backend", cfg.Backend), size, engine.ErrUnknownBackend)
	}
	s.backend = backend

	if err := eng.Configure(cfg.engineConfig(format, backend)); err != nil {
		return nil, newError(KindConfig, eng.Error(), size, err)
	}
	d.setState(StateConfigured)

	s.song = t.SelectSong(cfg.Tune)
	if err := eng.Load(t); err != nil {
		return nil, newError(KindEngineLoad, eng.Error(), size, err)
	}
	s.loaded = true

	info := t.Info()
	d.mu.Lock()
	d.info = &info
	d.mu.Unlock()

	d.pos.reset()

	tags := audio.TagEvent{Title: info.Title, Artist: info.Author, Copyright: info.Released}
	if !tags.Empty() {
		if err := d.pad.PushEvent(ctx, tags); err != nil {
			d.log.Debug("tags not delivered", "error", err)
		}
	}
	if err := d.pad.PushEvent(ctx, audio.SegmentEvent{Start: 0, Stop: -1, Rate: 1.0}); err != nil {
		d.log.Debug("segment not delivered", "error", err)
	}

	warmup, err := format.Convert(audio.Time, int64(WarmupInterval), audio.Frames)
	if err != nil {
		return nil, newError(KindEngineLoad, err.Error(), size, err)
	}
	if err := eng.Skip(warmup); err != nil {
		return nil, newError(KindEngineLoad, eng.Error(), size, err)
	}

	d.log.Info("playing tune",
		"title", info.Title,
		"author", info.Author,
		"song", s.song,
		"songs", info.Songs,
		"format", format.String(),
		"blocksize", cfg.BlockSize,
	)
	return s, nil
}
