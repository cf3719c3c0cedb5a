// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"path"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ik5/siddec/audio"
	"github.com/ik5/siddec/element"
	"github.com/ik5/siddec/engine"
	"github.com/ik5/siddec/pipeline"
)

const (
	writeTimeout    = 5 * time.Second
	shutdownTimeout = 5 * time.Second
)

// Server streams tunes from a library over websockets.
//
//	GET /tunes/{name}?tune=N&rate=R&channels=C
//
// upgrades to a websocket and sends one msgpack Frame per message: the
// format, the tune's tags, a segment, the buffers and a final eos. A
// failure is sent as an error frame before the connection closes.
type Server struct {
	library fs.FS
	driver  engine.Driver
	cfg     element.Config
	log     *slog.Logger

	upgrader websocket.Upgrader
}

// NewServer serves the .sid files in library, rendering with driver.
// cfg supplies the decoder properties a request does not override.
func NewServer(library fs.FS, driver engine.Driver, cfg element.Config, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		library: library,
		driver:  driver,
		cfg:     cfg,
		log:     log.With("component", "stream"),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /tunes/{name}", s.handleTune)
	return mux
}

// ListenAndServe serves on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type request struct {
	name string
	cfg  element.Config
	pref audio.Caps
}

func (s *Server) parseRequest(r *http.Request) (request, error) {
	req := request{name: path.Clean(r.PathValue("name")), cfg: s.cfg}
	if !fs.ValidPath(req.name) || req.name == "." {
		return req, fmt.Errorf("invalid tune name %q", r.PathValue("name"))
	}

	q := r.URL.Query()
	if v := q.Get("tune"); v != "" {
		if err := req.cfg.Set(element.PropTune, v); err != nil {
			return req, err
		}
	}
	for key, dst := range map[string]*int{"rate": &req.pref.Rate, "channels": &req.pref.Channels} {
		v := q.Get(key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
	}
	return req, nil
}

func (s *Server) handleTune(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f, err := s.library.Open(req.name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer f.Close()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// A client hanging up cancels the run.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	log := s.log.With("tune", req.name, "song", req.cfg.Tune)
	res, err := pipeline.Run(ctx, f, s.driver, &sink{conn: conn, pref: req.pref},
		pipeline.WithLogger(log),
		pipeline.WithElementOptions(element.WithConfig(req.cfg)),
	)

	code, reason := websocket.CloseNormalClosure, ""
	if err != nil {
		log.Warn("stream failed", "error", err)
		frame := Frame{Type: FrameError, Error: err.Error()}
		var e *element.Error
		if errors.As(err, &e) {
			frame.Kind = e.Kind.String()
		}
		if werr := writeFrame(conn, frame); werr != nil {
			log.Debug("error frame not sent", "error", werr)
		}
		code, reason = websocket.CloseInternalServerErr, "decoding failed"
	} else {
		log.Info("stream finished", "frames", res.Frames, "duration", res.Duration)
	}

	msg := websocket.FormatCloseMessage(code, reason)
	conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeTimeout))
}
