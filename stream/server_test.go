// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ik5/siddec/audio"
	"github.com/ik5/siddec/element"
	"github.com/ik5/siddec/internal/enginetest"
	"github.com/ik5/siddec/internal/psidtest"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func newTestServer(t *testing.T, drv *enginetest.Driver) *httptest.Server {
	t.Helper()

	library := fstest.MapFS{
		"commando.sid": {Data: psidtest.File{
			Name:   "Commando",
			Author: "Rob Hubbard",
			Songs:  3,
		}.Bytes()},
		"broken.sid": {Data: bytes.Repeat([]byte{0xAA}, 300)},
	}

	srv := httptest.NewServer(NewServer(library, drv, element.DefaultConfig(), discard).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, path string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial(%s) error = %v", path, err)
	}
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func readAll(t *testing.T, conn *websocket.Conn) ([]Frame, error) {
	t.Helper()

	var frames []Frame
	for {
		f, err := ReadFrame(conn)
		if err != nil {
			return frames, err
		}
		frames = append(frames, f)
	}
}

func TestServer_StreamsTune(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, enginetest.NewSilentDriver(5000))
	conn := dial(t, srv, "/tunes/commando.sid?tune=2&rate=8000&channels=1")

	frames, err := readAll(t, conn)
	if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Fatalf("stream ended with %v, want normal closure", err)
	}

	var types []string
	for _, f := range frames {
		types = append(types, f.Type)
	}
	want := []string{FrameFormat, FrameTags, FrameSegment, FrameBuffer, FrameBuffer, FrameEOS}
	if strings.Join(types, ",") != strings.Join(want, ",") {
		t.Fatalf("frames = %v, want %v", types, want)
	}

	if f := frames[0]; f.Rate != 8000 || f.Channels != 1 || f.Order != audio.NativeEndianness().String() {
		t.Errorf("format frame = %+v", f)
	}
	if f := frames[1]; f.Title != "Commando" || f.Artist != "Rob Hubbard" {
		t.Errorf("tags frame = %+v", f)
	}
	if f := frames[2]; f.Start != 0 || f.Stop != -1 || f.Speed != 1 {
		t.Errorf("segment frame = %+v", f)
	}

	first, last := frames[3], frames[4]
	if first.Offset != 0 || first.OffsetEnd != 4096 || len(first.Data) != 8192 {
		t.Errorf("first buffer = [%d..%d) %d bytes", first.Offset, first.OffsetEnd, len(first.Data))
	}
	if last.Offset != 4096 || last.OffsetEnd != 5000 || last.Timestamp != first.Duration {
		t.Errorf("last buffer = [%d..%d) ts=%d", last.Offset, last.OffsetEnd, last.Timestamp)
	}
}

func TestServer_DecodeError(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, enginetest.NewSilentDriver(10))
	conn := dial(t, srv, "/tunes/broken.sid")

	frames, err := readAll(t, conn)
	if !websocket.IsCloseError(err, websocket.CloseInternalServerErr) {
		t.Errorf("stream ended with %v, want internal error closure", err)
	}
	if len(frames) != 1 || frames[0].Type != FrameError {
		t.Fatalf("frames = %+v, want a single error frame", frames)
	}
	if frames[0].Kind != element.KindLoadTune.String() {
		t.Errorf("error kind = %q, want %q", frames[0].Kind, element.KindLoadTune)
	}
	if !strings.Contains(frames[0].Error, "(Size: 300)") {
		t.Errorf("error = %q, want the tune size", frames[0].Error)
	}
}

func TestServer_HTTPErrors(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, enginetest.NewSilentDriver(10))

	tests := []struct {
		path string
		want int
	}{
		{"/tunes/missing.sid", http.StatusNotFound},
		{"/tunes/commando.sid?tune=101", http.StatusBadRequest},
		{"/tunes/commando.sid?rate=fast", http.StatusBadRequest},
		{"/tunes/commando.sid?tune=x", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tt.path)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestServer_NegotiationFailure(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, enginetest.NewSilentDriver(10))
	conn := dial(t, srv, "/tunes/commando.sid?rate=96000")

	frames, _ := readAll(t, conn)
	if len(frames) != 1 || frames[0].Kind != element.KindNoFormat.String() {
		t.Errorf("frames = %+v, want a no-format error", frames)
	}
}
