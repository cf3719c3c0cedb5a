// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	gowav "github.com/go-audio/wav"

	"github.com/ik5/siddec/audio"
	"github.com/ik5/siddec/utils"
)

// pcmBuffer packs samples into a native order buffer.
func pcmBuffer(samples ...int16) *audio.Buffer {
	data := make([]byte, 2*len(samples))
	utils.PutInt16s(data, samples, binary.NativeEndian)
	return &audio.Buffer{Data: data}
}

func encode(t *testing.T, f audio.Format, bufs ...*audio.Buffer) []byte {
	t.Helper()

	out := new(bytes.Buffer)
	sink, err := Encoder{}.Encode(out, audio.Caps{})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if err := sink.Open(f); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	for _, b := range bufs {
		if err := sink.WriteBuffer(b); err != nil {
			t.Fatalf("WriteBuffer() error = %v", err)
		}
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	return out.Bytes()
}

func decodeAll(t *testing.T, data []byte) ([]int, int, int) {
	t.Helper()

	dec := gowav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		t.Fatal("IsValidFile() = false")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatalf("FullPCMBuffer() error = %v", err)
	}
	if dec.BitDepth != 16 {
		t.Errorf("BitDepth = %d, want 16", dec.BitDepth)
	}
	return buf.Data, buf.Format.SampleRate, buf.Format.NumChannels
}

func TestSink_MonoRoundTrip(t *testing.T) {
	t.Parallel()

	data := encode(t, audio.Format{Rate: 8000, Channels: 1},
		pcmBuffer(0, 100, 200),
		pcmBuffer(-100, -200, 32767, -32768),
	)

	samples, rate, channels := decodeAll(t, data)
	if rate != 8000 || channels != 1 {
		t.Errorf("format = %dHz/%dch, want 8000Hz/1ch", rate, channels)
	}
	want := []int{0, 100, 200, -100, -200, 32767, -32768}
	if !slices.Equal(samples, want) {
		t.Errorf("samples = %v, want %v", samples, want)
	}
}

func TestSink_StereoRoundTrip(t *testing.T) {
	t.Parallel()

	data := encode(t, audio.Format{Rate: 48000, Channels: 2}, pcmBuffer(1, -1, 2, -2))

	samples, rate, channels := decodeAll(t, data)
	if rate != 48000 || channels != 2 {
		t.Errorf("format = %dHz/%dch, want 48000Hz/2ch", rate, channels)
	}
	if !slices.Equal(samples, []int{1, -1, 2, -2}) {
		t.Errorf("samples = %v", samples)
	}
}

func TestSink_NoBuffers(t *testing.T) {
	t.Parallel()

	data := encode(t, audio.Format{Rate: 22050, Channels: 1})

	dec := gowav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		t.Fatal("IsValidFile() = false for a file without samples")
	}
	if dec.SampleRate != 22050 || dec.NumChans != 1 {
		t.Errorf("header = %dHz/%dch, want 22050Hz/1ch", dec.SampleRate, dec.NumChans)
	}
}

func TestSink_EmptyBuffersSkipped(t *testing.T) {
	t.Parallel()

	data := encode(t, audio.Format{Rate: 8000, Channels: 1}, pcmBuffer(5), pcmBuffer(), pcmBuffer(6))

	samples, _, _ := decodeAll(t, data)
	if !slices.Equal(samples, []int{5, 6}) {
		t.Errorf("samples = %v, want [5 6]", samples)
	}
}

func TestSink_SeekableFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	sink, _ := Encoder{}.Encode(f, audio.Caps{})
	if err := sink.Open(audio.Format{Rate: 44100, Channels: 2}); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := sink.WriteBuffer(pcmBuffer(10, 20, 30, 40)); err != nil {
		t.Fatalf("WriteBuffer() error = %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	f.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	samples, rate, channels := decodeAll(t, data)
	if rate != 44100 || channels != 2 || !slices.Equal(samples, []int{10, 20, 30, 40}) {
		t.Errorf("decoded %dHz/%dch %v", rate, channels, samples)
	}
}

func TestSink_Tags(t *testing.T) {
	t.Parallel()

	out := new(bytes.Buffer)
	sink, _ := Encoder{}.Encode(out, audio.Caps{})
	sink.Open(audio.Format{Rate: 8000, Channels: 1})
	sink.HandleEvent(audio.TagEvent{Title: "Commando", Artist: "Rob Hubbard"})
	sink.WriteBuffer(pcmBuffer(1, 2))
	if err := sink.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	for _, want := range []string{"Commando", "Rob Hubbard", Software} {
		if !bytes.Contains(out.Bytes(), []byte(want)) {
			t.Errorf("file does not contain %q", want)
		}
	}
}

func TestSink_Lifecycle(t *testing.T) {
	t.Parallel()

	sink, _ := Encoder{}.Encode(new(bytes.Buffer), audio.Caps{Rate: 16000, Channels: 1})

	caps := sink.Caps()
	if len(caps) != 1 || caps[0].Rate != 16000 || caps[0].Channels != 1 || caps[0].Width != 16 {
		t.Errorf("Caps() = %+v", caps)
	}

	if err := sink.WriteBuffer(pcmBuffer(1)); !errors.Is(err, audio.ErrSinkNotOpen) {
		t.Errorf("WriteBuffer() before Open = %v, want ErrSinkNotOpen", err)
	}
	if err := sink.Open(audio.Format{Rate: 100, Channels: 1}); !errors.Is(err, audio.ErrInvalidFormat) {
		t.Errorf("Open() with 100Hz = %v, want ErrInvalidFormat", err)
	}
	if err := sink.Open(audio.Format{Rate: 16000, Channels: 1}); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := sink.Open(audio.Format{Rate: 16000, Channels: 1}); !errors.Is(err, ErrAlreadyOpen) {
		t.Errorf("second Open() = %v, want ErrAlreadyOpen", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
	if err := sink.WriteBuffer(pcmBuffer(1)); !errors.Is(err, audio.ErrSinkClosed) {
		t.Errorf("WriteBuffer() after Close = %v, want ErrSinkClosed", err)
	}
}

func TestSink_CloseWithoutOpenWritesNothing(t *testing.T) {
	t.Parallel()

	out := new(bytes.Buffer)
	sink, _ := Encoder{}.Encode(out, audio.Caps{})
	if err := sink.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("wrote %d bytes for a sink never opened", out.Len())
	}
}
